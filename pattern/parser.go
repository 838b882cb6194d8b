package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnoswap-labs/nlc/internal/types"
)

var (
	ErrUnknownSet       = errors.New("unknown synonym class")
	ErrUnknownCategory  = errors.New("unknown token category")
	ErrDanglingOptional = errors.New("'?' must be followed by an element")
	ErrEmptyPattern     = errors.New("pattern has no elements")
	ErrBadElement       = errors.New("malformed pattern element")
)

// Node is a parsed template element: literal text or a hole.
type Node interface {
	String() string
}

// LiteralNode is text copied verbatim.
type LiteralNode struct {
	Value string
}

func (l LiteralNode) String() string {
	return fmt.Sprintf("Literal(%q)", l.Value)
}

// HoleNode is replaced by a binding when the template is expanded.
type HoleNode struct {
	Name     string
	Ellipsis bool
}

func (h HoleNode) String() string {
	if h.Ellipsis {
		return fmt.Sprintf("Hole(%q, ellipsis)", h.Name)
	}
	return fmt.Sprintf("Hole(%q)", h.Name)
}

// Parse converts lexed tokens into template nodes.
func Parse(tokens []Token) ([]Node, error) {
	var nodes []Node
	for _, tok := range tokens {
		switch tok.Type {
		case TokenEOF:
			return nodes, nil
		case TokenLiteral:
			nodes = append(nodes, LiteralNode{Value: tok.Value})
		case TokenMeta:
			nodes = append(nodes, HoleNode{Name: tok.Value, Ellipsis: tok.Ellipsis})
		default:
			return nil, fmt.Errorf("unexpected token type: %v", tok.Type)
		}
	}
	return nodes, nil
}

// ParseTemplate lexes and parses a template in one step.
func ParseTemplate(src string) ([]Node, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	return Parse(tokens)
}

// Holes lists the distinct hole names of a template in first-use order.
func Holes(nodes []Node) []string {
	seen := make(map[string]bool)
	var names []string
	for _, n := range nodes {
		if h, ok := n.(HoleNode); ok && !seen[h.Name] {
			seen[h.Name] = true
			names = append(names, h.Name)
		}
	}
	return names
}

// ElementKind tags the predicate an Element applies.
type ElementKind int

const (
	ElemWord ElementKind = iota
	ElemCategory
	ElemKeyword
	ElemAny
	ElemSpan
	ElemGap
	ElemStart
)

// Element is one predicate of a compiled rule pattern.
type Element struct {
	Kind     ElementKind
	Values   []string
	Label    string
	Optional bool
	// Source is the element as written, for diagnostics.
	Source string
}

func (e Element) String() string {
	return e.Source
}

// SetResolver supplies the members of `$name` synonym classes.
type SetResolver interface {
	Class(name string) ([]string, bool)
}

var knownCategories = map[types.Category]bool{
	types.Noun: true, types.ProperNoun: true, types.Verb: true, types.Aux: true,
	types.Adjective: true, types.Adverb: true, types.Adposition: true,
	types.Determiner: true, types.Pronoun: true, types.CoordConj: true,
	types.SubordConj: true, types.Particle: true, types.Numeral: true,
	types.Punctuation: true, types.Other: true,
}

// ParseRule turns lexed rule tokens into elements.
func ParseRule(tokens []Token, sets SetResolver) ([]Element, error) {
	var (
		elems   []Element
		pending bool
		pendTok Token
	)
	for _, tok := range tokens {
		switch tok.Type {
		case TokenEOF:
			if pending {
				return nil, fmt.Errorf("line %d col %d: %w", pendTok.Line, pendTok.Col, ErrDanglingOptional)
			}
			if len(elems) == 0 {
				return nil, ErrEmptyPattern
			}
			return elems, nil

		case TokenMeta:
			e := Element{Kind: ElemAny, Label: tok.Value, Optional: pending, Source: ":[" + tok.Value + "]"}
			if tok.Ellipsis {
				e.Kind = ElemSpan
				e.Source = ":[" + tok.Value + "...]"
			}
			if pending {
				e.Source = "?" + e.Source
			}
			elems = append(elems, e)
			pending = false

		case TokenLiteral:
			fields := strings.Fields(tok.Value)
			for i, field := range fields {
				if field == "?" {
					if pending || i != len(fields)-1 {
						return nil, fmt.Errorf("line %d col %d: %w", tok.Line, tok.Col, ErrDanglingOptional)
					}
					pending, pendTok = true, tok
					continue
				}
				if pending {
					return nil, fmt.Errorf("line %d col %d: %w", pendTok.Line, pendTok.Col, ErrDanglingOptional)
				}
				e, err := parseElement(field, sets)
				if err != nil {
					return nil, fmt.Errorf("line %d col %d: %w", tok.Line, tok.Col, err)
				}
				elems = append(elems, e)
			}

		default:
			return nil, fmt.Errorf("unexpected token type: %v", tok.Type)
		}
	}
	return nil, ErrEmptyPattern
}

func parseElement(field string, sets SetResolver) (Element, error) {
	e := Element{Source: field}
	if strings.HasPrefix(field, "?") {
		e.Optional = true
		field = field[1:]
	}
	if i := strings.Index(field, "="); i > 0 {
		e.Label = field[:i]
		field = field[i+1:]
		if !validLabel(e.Label) {
			return Element{}, fmt.Errorf("%w: bad label %q", ErrBadElement, e.Label)
		}
	}
	if field == "" {
		return Element{}, fmt.Errorf("%w: %q", ErrBadElement, e.Source)
	}

	switch {
	case field == "*" || strings.HasPrefix(field, "*~"):
		if e.Label != "" || e.Optional {
			return Element{}, fmt.Errorf("%w: gap cannot be labeled or optional", ErrBadElement)
		}
		e.Kind = ElemGap
		if field != "*" {
			stops, err := parseWords(field[2:], e.Source, sets)
			if err != nil {
				return Element{}, err
			}
			e.Values = stops
		}

	case field == "!kw":
		e.Kind = ElemKeyword

	case strings.HasPrefix(field, "@"):
		e.Kind = ElemCategory
		for _, c := range strings.Split(field[1:], "|") {
			cat := types.Category(strings.ToUpper(c))
			if !knownCategories[cat] {
				return Element{}, fmt.Errorf("%w: %q", ErrUnknownCategory, c)
			}
			e.Values = append(e.Values, string(cat))
		}

	case field == "^":
		if e.Label != "" || e.Optional {
			return Element{}, fmt.Errorf("%w: anchor cannot be labeled or optional", ErrBadElement)
		}
		e.Kind = ElemStart

	default:
		e.Kind = ElemWord
		words, err := parseWords(field, e.Source, sets)
		if err != nil {
			return Element{}, err
		}
		e.Values = words
	}
	return e, nil
}

// parseWords expands a `|` separated list of words and `$class` names.
func parseWords(field, source string, sets SetResolver) ([]string, error) {
	var words []string
	for _, alt := range strings.Split(field, "|") {
		switch {
		case alt == "":
			return nil, fmt.Errorf("%w: empty alternative in %q", ErrBadElement, source)
		case strings.HasPrefix(alt, "$"):
			members, err := resolveClass(alt[1:], sets)
			if err != nil {
				return nil, err
			}
			words = append(words, members...)
		default:
			words = append(words, strings.ToLower(alt))
		}
	}
	return words, nil
}

func resolveClass(name string, sets SetResolver) ([]string, error) {
	if sets == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}
	members, ok := sets.Class(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSet, name)
	}
	return members, nil
}

func validLabel(label string) bool {
	if label == "" || !isIdentifierStart(label[0]) {
		return false
	}
	for i := 1; i < len(label); i++ {
		if !isIdentifierChar(label[i]) {
			return false
		}
	}
	return true
}

// accepts reports whether a single-token element is satisfied by tok.
func (e Element) accepts(tok types.Token) bool {
	switch e.Kind {
	case ElemWord:
		return e.names(tok)
	case ElemCategory:
		for _, v := range e.Values {
			if types.Category(v) == tok.Category {
				return true
			}
		}
		return false
	case ElemKeyword:
		return tok.IsKeyword
	case ElemAny:
		return true
	}
	return false
}

// names reports whether tok's lemma or lower-cased text is one of Values.
func (e Element) names(tok types.Token) bool {
	lemma, lower := tok.Lemma, tok.Lower()
	for _, v := range e.Values {
		if v == lemma || v == lower {
			return true
		}
	}
	return false
}
