package lexicon

import (
	"errors"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gnoswap-labs/nlc/internal/types"
)

// Tokenizer turns raw instruction text into annotated tokens. Any
// implementation that fills every Token field can drive the compiler.
type Tokenizer interface {
	Tokenize(text string) ([]types.Token, error)
}

// ErrEmptyInput is returned when the text holds no words.
var ErrEmptyInput = errors.New("instruction has no words")

// words keep their accents and combining marks; identifiers fold them later
var wordPattern = regexp.MustCompile(`[\p{L}\p{M}]+(?:'[\p{L}\p{M}]+)?|\d+(?:\.\d+)?|[^\s\p{L}\p{M}\d]`)

// words after which a noun/verb ambiguous base form reads as a verb
var verbContext = map[string]bool{
	"to": true, "please": true, "then": true, "also": true, "should": true,
	"must": true, "will": true, "can": true, "could": true, "would": true,
	"that": true, "which": true, "who": true, "not": true, "it": true,
}

var modals = map[string]bool{
	"can": true, "could": true, "should": true, "would": true,
	"will": true, "must": true, "may": true, "might": true,
}

// RuleTokenizer annotates words from a Lexicon using suffix rules and
// positional heuristics. It keeps no state between calls.
type RuleTokenizer struct {
	lex *Lexicon
}

var _ Tokenizer = (*RuleTokenizer)(nil)

func NewTokenizer(lex *Lexicon) *RuleTokenizer {
	return &RuleTokenizer{lex: lex}
}

// Tokenize splits text into words, numbers and punctuation and annotates
// each one. Leading politeness phrases are dropped.
func (rt *RuleTokenizer) Tokenize(text string) ([]types.Token, error) {
	words := rt.stripPoliteness(wordPattern.FindAllString(text, -1))
	if len(words) == 0 {
		return nil, ErrEmptyInput
	}

	tokens := make([]types.Token, len(words))
	for i, w := range words {
		tokens[i] = rt.annotate(w, i, tokens[:i])
	}
	assignDependencies(tokens)

	return tokens, nil
}

func (rt *RuleTokenizer) stripPoliteness(words []string) []string {
	for {
		stripped := false
		for _, phrase := range rt.lex.politeness {
			if hasPrefixFold(words, phrase) {
				words = words[len(phrase):]
				stripped = true
				break
			}
		}
		if !stripped {
			return words
		}
	}
}

func hasPrefixFold(words, phrase []string) bool {
	if len(words) < len(phrase) {
		return false
	}
	for i, p := range phrase {
		if strings.ToLower(words[i]) != p {
			return false
		}
	}
	return true
}

func (rt *RuleTokenizer) annotate(word string, pos int, prev []types.Token) types.Token {
	lower := strings.ToLower(word)
	tok := types.Token{
		Text:      word,
		Lemma:     lower,
		IsKeyword: rt.lex.IsKeyword(lower),
	}

	switch {
	case isNumber(word):
		tok.Category, tok.Tag = types.Numeral, "CD"
		return tok
	case isPunct(word):
		tok.Category, tok.Tag = types.Punctuation, punctTag(word)
		return tok
	}

	tok.Category, tok.Lemma, tok.Tag = rt.classify(word, lower, pos, prev)
	return tok
}

func (rt *RuleTokenizer) classify(word, lower string, pos int, prev []types.Token) (types.Category, string, string) {
	lemma := lower
	if l, ok := rt.lex.irregular[lower]; ok {
		lemma = l
	}

	if rt.lex.isDual(lower) {
		cat := resolveDual(pos, prev)
		return cat, lower, baseTag(cat, lower)
	}
	if cat, ok := rt.lex.Lookup(lower); ok {
		// a capitalized common noun inside the sentence names something
		if cat == types.Noun && pos > 0 && startsUpper(word) {
			return types.ProperNoun, lemma, "NNP"
		}
		return cat, lemma, baseTag(cat, lower)
	}
	if lemma != lower {
		cat, ok := rt.lex.Lookup(lemma)
		if rt.lex.isDual(lemma) {
			cat, ok = resolveDual(pos, prev), true
		}
		if ok {
			return cat, lemma, inflectedTag(cat, lower)
		}
		return types.Noun, lemma, "NNS"
	}

	if cat, stem, tag, ok := rt.inflection(lower, pos, prev); ok {
		return cat, stem, tag
	}

	switch {
	case pos > 0 && startsUpper(word):
		return types.ProperNoun, lower, "NNP"
	case pos == 0:
		// unknown leading word of an imperative
		return types.Verb, lower, "VB"
	case looksPlural(lower):
		return types.Noun, strings.TrimSuffix(lower, "s"), "NNS"
	}
	return types.Noun, lower, "NN"
}

type suffixRule struct {
	suffix  string
	replace []string
	kind    string
}

var suffixRules = []suffixRule{
	{suffix: "ies", replace: []string{"y"}, kind: "s"},
	{suffix: "es", replace: []string{""}, kind: "s"},
	{suffix: "s", replace: []string{""}, kind: "s"},
	{suffix: "ing", replace: []string{"", "e", "undouble"}, kind: "ing"},
	{suffix: "ied", replace: []string{"y"}, kind: "ed"},
	{suffix: "ed", replace: []string{"", "e", "undouble"}, kind: "ed"},
}

func (rt *RuleTokenizer) inflection(lower string, pos int, prev []types.Token) (types.Category, string, string, bool) {
	for _, rule := range suffixRules {
		if !strings.HasSuffix(lower, rule.suffix) || len(lower) <= len(rule.suffix)+1 {
			continue
		}
		root := strings.TrimSuffix(lower, rule.suffix)
		for _, r := range rule.replace {
			stem := root + r
			if r == "undouble" {
				n := len(root)
				if n < 2 || root[n-1] != root[n-2] {
					continue
				}
				stem = root[:n-1]
			}

			cat, known := rt.lex.Lookup(stem)
			if rt.lex.isDual(stem) {
				cat, known = resolveDual(pos, prev), true
			}
			if !known {
				continue
			}

			switch rule.kind {
			case "s":
				if cat == types.Verb {
					return types.Verb, stem, "VBZ", true
				}
				if cat == types.Noun || cat == types.Adjective {
					return types.Noun, stem, "NNS", true
				}
			case "ing":
				if cat == types.Verb || cat == types.Noun {
					return types.Verb, stem, "VBG", true
				}
			case "ed":
				if cat == types.Verb || cat == types.Noun {
					return types.Verb, stem, "VBN", true
				}
			}
		}
	}
	return "", "", "", false
}

// resolveDual picks VERB or NOUN for a base form listed as both.
func resolveDual(pos int, prev []types.Token) types.Category {
	if pos == 0 {
		return types.Verb
	}
	p := prev[pos-1]
	lower := p.Lower()
	if verbContext[lower] {
		return types.Verb
	}
	if lower == "and" || lower == "or" || lower == "," {
		// coordination keeps the category of the left conjunct
		if pos >= 2 && prev[pos-2].Category == types.Verb {
			return types.Verb
		}
		return types.Noun
	}
	if p.Category == types.Pronoun {
		return types.Verb
	}
	return types.Noun
}

func baseTag(cat types.Category, lower string) string {
	switch cat {
	case types.Noun:
		return "NN"
	case types.ProperNoun:
		return "NNP"
	case types.Verb:
		return "VB"
	case types.Aux:
		return auxTag(lower)
	case types.Adjective:
		if strings.HasSuffix(lower, "est") {
			return "JJS"
		}
		return "JJ"
	case types.Adverb:
		return "RB"
	case types.Adposition, types.SubordConj:
		return "IN"
	case types.Determiner:
		return "DT"
	case types.Pronoun:
		switch lower {
		case "that", "which":
			return "WDT"
		case "who", "what":
			return "WP"
		}
		return "PRP"
	case types.CoordConj:
		return "CC"
	case types.Particle:
		if lower == "to" {
			return "TO"
		}
		return "RB"
	case types.Numeral:
		return "CD"
	}
	return "XX"
}

func inflectedTag(cat types.Category, lower string) string {
	switch cat {
	case types.Verb:
		if strings.HasSuffix(lower, "s") {
			return "VBZ"
		}
		return "VBD"
	case types.Noun:
		return "NNS"
	}
	return baseTag(cat, lower)
}

func auxTag(lower string) string {
	switch {
	case modals[lower]:
		return "MD"
	case lower == "is" || lower == "does" || lower == "has":
		return "VBZ"
	case lower == "are" || lower == "am":
		return "VBP"
	case lower == "was" || lower == "were" || lower == "did":
		return "VBD"
	case lower == "been":
		return "VBN"
	case lower == "being":
		return "VBG"
	}
	return "VB"
}

func looksPlural(lower string) bool {
	if len(lower) <= 3 || !strings.HasSuffix(lower, "s") {
		return false
	}
	for _, s := range []string{"ss", "us", "is"} {
		if strings.HasSuffix(lower, s) {
			return false
		}
	}
	return true
}

func isNumber(word string) bool {
	return word != "" && unicode.IsDigit(rune(word[0]))
}

func isPunct(word string) bool {
	r, size := utf8.DecodeRuneInString(word)
	return size == len(word) && !unicode.IsLetter(r) && !unicode.IsMark(r) && !unicode.IsDigit(r)
}

func startsUpper(word string) bool {
	r, _ := utf8.DecodeRuneInString(word)
	return unicode.IsUpper(r)
}

func punctTag(word string) string {
	switch word {
	case ",":
		return ","
	case ".", "!", "?":
		return "."
	}
	return ":"
}

// assignDependencies attaches shallow dependency labels. The labels follow
// Universal Dependencies names but only look at immediate neighbours.
func assignDependencies(tokens []types.Token) {
	rootSeen := false
	for i := range tokens {
		t := &tokens[i]
		var prevTok, nextTok *types.Token
		if i > 0 {
			prevTok = &tokens[i-1]
		}
		if i+1 < len(tokens) {
			nextTok = &tokens[i+1]
		}

		switch t.Category {
		case types.Verb:
			switch {
			case !rootSeen:
				t.Dependency = "ROOT"
				rootSeen = true
			case prevTok != nil && prevTok.Lower() == "to":
				t.Dependency = "xcomp"
			case prevTok != nil && prevTok.Category == types.CoordConj:
				t.Dependency = "conj"
			case prevTok != nil && prevTok.Category == types.Pronoun:
				t.Dependency = "relcl"
			default:
				t.Dependency = "dep"
			}
		case types.Noun, types.ProperNoun:
			if nextTok != nil && nextTok.Category.IsNominal() {
				t.Dependency = "compound"
				continue
			}
			t.Dependency = nounRole(tokens, i, rootSeen)
		case types.Adjective:
			if nextTok != nil && nextTok.Category.IsNominal() {
				t.Dependency = "amod"
			} else {
				t.Dependency = "acomp"
			}
		case types.Pronoun:
			if prevTok != nil && prevTok.Category == types.Verb {
				t.Dependency = "dobj"
			} else {
				t.Dependency = "nsubj"
			}
		case types.Determiner:
			t.Dependency = "det"
		case types.Adposition:
			t.Dependency = "prep"
		case types.CoordConj:
			t.Dependency = "cc"
		case types.SubordConj:
			t.Dependency = "mark"
		case types.Aux:
			t.Dependency = "aux"
		case types.Particle:
			if t.Lower() == "to" {
				t.Dependency = "aux"
			} else {
				t.Dependency = "neg"
			}
		case types.Numeral:
			t.Dependency = "nummod"
		case types.Punctuation:
			t.Dependency = "punct"
		case types.Adverb:
			t.Dependency = "advmod"
		default:
			t.Dependency = "dep"
		}
	}
}

// nounRole labels a phrase head by the first governor to its left.
func nounRole(tokens []types.Token, i int, rootSeen bool) string {
scan:
	for j := i - 1; j >= 0; j-- {
		switch tokens[j].Category {
		case types.Determiner, types.Adjective, types.Numeral, types.Noun, types.ProperNoun:
			continue
		case types.Adposition:
			return "pobj"
		case types.Verb:
			return "dobj"
		case types.Aux:
			return "attr"
		default:
			break scan
		}
	}
	if !rootSeen {
		return "nsubj"
	}
	return "appos"
}
