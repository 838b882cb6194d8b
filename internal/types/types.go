package types

import (
	"fmt"
	"strings"
)

// Category is the coarse part-of-speech of a token.
type Category string

const (
	Noun        Category = "NOUN"
	ProperNoun  Category = "PROPN"
	Verb        Category = "VERB"
	Aux         Category = "AUX"
	Adjective   Category = "ADJ"
	Adverb      Category = "ADV"
	Adposition  Category = "ADP"
	Determiner  Category = "DET"
	Pronoun     Category = "PRON"
	CoordConj   Category = "CCONJ"
	SubordConj  Category = "SCONJ"
	Particle    Category = "PART"
	Numeral     Category = "NUM"
	Punctuation Category = "PUNCT"
	Other       Category = "X"
)

// IsNominal reports whether the category can head a noun phrase.
func (c Category) IsNominal() bool {
	return c == Noun || c == ProperNoun
}

// IsContent reports whether tokens of this category carry meaning
// for naming and idiom lookup.
func (c Category) IsContent() bool {
	switch c {
	case Noun, ProperNoun, Adjective, Numeral, Verb:
		return true
	}
	return false
}

// Token is one annotated word of an instruction. Tokens are produced by a
// tokenizer and never modified afterwards.
type Token struct {
	Text       string
	Category   Category
	Lemma      string
	Tag        string
	Dependency string
	IsKeyword  bool
}

func (t Token) String() string {
	return fmt.Sprintf("%s/%s", t.Text, t.Category)
}

// Lower returns the lower-cased surface text.
func (t Token) Lower() string {
	return strings.ToLower(t.Text)
}

// Span is a half-open range [Start, End) of token indexes.
type Span struct {
	Start int
	End   int
}

// Len returns the number of tokens covered by the span.
func (s Span) Len() int {
	if s.End < s.Start {
		return 0
	}
	return s.End - s.Start
}

// Empty reports whether the span covers no tokens.
func (s Span) Empty() bool {
	return s.Len() == 0
}

// Slice returns the tokens covered by s. Out of range bounds are clamped.
func (s Span) Slice(tokens []Token) []Token {
	start, end := s.Start, s.End
	if start < 0 {
		start = 0
	}
	if end > len(tokens) {
		end = len(tokens)
	}
	if start >= end {
		return nil
	}
	return tokens[start:end]
}

// Text joins the surface text of the covered tokens with single spaces.
func (s Span) Text(tokens []Token) string {
	toks := s.Slice(tokens)
	parts := make([]string, 0, len(toks))
	for _, t := range toks {
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

func (s Span) String() string {
	return fmt.Sprintf("[%d:%d)", s.Start, s.End)
}
