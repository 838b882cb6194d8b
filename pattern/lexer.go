package pattern

import (
	"fmt"
	"strings"
	"unicode"
)

// TokenType defines the type of a token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenLiteral
	TokenMeta
)

func (t TokenType) String() string {
	switch t {
	case TokenEOF:
		return "EOF"
	case TokenLiteral:
		return "Literal"
	case TokenMeta:
		return "Meta"
	default:
		return "Unknown"
	}
}

// Token is one lexical unit of a pattern. Line and Col point at its first
// byte.
type Token struct {
	Type     TokenType
	Value    string
	Ellipsis bool // only set on Meta tokens
	Line     int
	Col      int
}

type cursor struct {
	input string
	i     int
	line  int
	col   int
}

func (c *cursor) done() bool { return c.i >= len(c.input) }

func (c *cursor) peek() byte { return c.input[c.i] }

func (c *cursor) advance() {
	if c.input[c.i] == '\n' {
		c.line++
		c.col = 1
	} else {
		c.col++
	}
	c.i++
}

func (c *cursor) skipSpace() {
	for !c.done() && isWhitespace(c.peek()) {
		c.advance()
	}
}

func (c *cursor) errorf(format string, args ...any) error {
	return fmt.Errorf("line %d col %d: %s", c.line, c.col, fmt.Sprintf(format, args...))
}

// Lex splits input into literal text and hole tokens, terminated by an EOF
// token. Literal tokens never span more than one line.
func Lex(input string) ([]Token, error) {
	var (
		tokens  []Token
		literal strings.Builder
		litLine int
		litCol  int
	)
	c := &cursor{input: input, line: 1, col: 1}

	flush := func() {
		if literal.Len() == 0 {
			return
		}
		tokens = append(tokens, Token{
			Type:  TokenLiteral,
			Value: literal.String(),
			Line:  litLine,
			Col:   litCol,
		})
		literal.Reset()
	}
	mark := func() {
		if literal.Len() == 0 {
			litLine, litCol = c.line, c.col
		}
	}

	for !c.done() {
		ch := c.peek()

		if ch == '\\' {
			if c.i+1 >= len(input) {
				return nil, c.errorf("'\\' escape is at the end of input")
			}
			mark()
			c.advance()
			next := c.peek()
			literal.WriteByte(next)
			c.advance()
			if next == '\n' {
				flush()
			}
			continue
		}

		if ch == ':' && c.i+1 < len(input) && input[c.i+1] == '[' {
			flush()
			tok, err := lexHole(c)
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			continue
		}

		mark()
		literal.WriteByte(ch)
		c.advance()
		if ch == '\n' {
			flush()
		}
	}
	flush()

	tokens = append(tokens, Token{Type: TokenEOF, Line: c.line, Col: c.col})
	return tokens, nil
}

// lexHole reads `:[name]` or `:[name...]` starting at the cursor.
func lexHole(c *cursor) (Token, error) {
	tok := Token{Type: TokenMeta, Line: c.line, Col: c.col}
	c.advance() // ':'
	c.advance() // '['

	c.skipSpace()
	if c.done() {
		return Token{}, c.errorf("metavariable is not terminated")
	}
	if !isIdentifierStart(c.peek()) {
		return Token{}, c.errorf("metavariable identifier must start with alphabet or '_'")
	}

	var name strings.Builder
	for !c.done() && isIdentifierChar(c.peek()) {
		name.WriteByte(c.peek())
		c.advance()
	}
	tok.Value = name.String()

	c.skipSpace()
	if strings.HasPrefix(c.input[c.i:], "...") {
		tok.Ellipsis = true
		for range 3 {
			c.advance()
		}
		c.skipSpace()
	}

	if c.done() || c.peek() != ']' {
		return Token{}, c.errorf("metavariable termination ']' is missing")
	}
	c.advance()

	return tok, nil
}

func isIdentifierStart(c byte) bool {
	return unicode.IsLetter(rune(c)) || c == '_'
}

func isIdentifierChar(c byte) bool {
	return isIdentifierStart(c) || isDigit(c)
}

func isWhitespace(c byte) bool {
	return unicode.IsSpace(rune(c))
}

func isDigit(c byte) bool {
	return unicode.IsDigit(rune(c))
}
