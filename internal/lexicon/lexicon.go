package lexicon

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/nlc/internal/types"
)

//go:embed lexicon.yaml
var defaultLexicon []byte

var (
	ErrEmptyLexicon      = errors.New("lexicon has no words")
	ErrDuplicateSynonym  = errors.New("lemma belongs to more than one synonym class")
	ErrUnknownCategory   = errors.New("unknown word category")
	errEmptySynonymClass = errors.New("synonym class is empty")
)

// categoryOrder fixes which category wins when a word is listed twice.
var categoryOrder = []types.Category{
	types.Verb, types.Aux, types.Noun, types.Adjective, types.Adverb,
	types.Adposition, types.Determiner, types.Pronoun, types.CoordConj,
	types.SubordConj, types.Particle, types.Numeral,
}

// File is the on-disk shape of a lexicon.
type File struct {
	Keywords   []string            `yaml:"keywords"`
	Politeness [][]string          `yaml:"politeness"`
	Words      map[string][]string `yaml:"words"`
	Dual       []string            `yaml:"dual"`
	Irregular  map[string]string   `yaml:"irregular"`
	Synonyms   map[string][]string `yaml:"synonyms"`
}

// Lexicon is the immutable word table shared by the tokenizer, the matcher
// and the extractor. Build it once and share it freely.
type Lexicon struct {
	words      map[string]types.Category
	dual       map[string]struct{}
	irregular  map[string]string
	keywords   map[string]struct{}
	politeness [][]string
	synonyms   *Synonyms
}

// Default parses the embedded lexicon.
func Default() (*Lexicon, error) {
	return Parse(defaultLexicon)
}

// Load reads a lexicon from a YAML file.
func Load(path string) (*Lexicon, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read lexicon file: %w", err)
	}
	lex, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return lex, nil
}

// Parse builds a lexicon from YAML bytes.
func Parse(data []byte) (*Lexicon, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse lexicon: %w", err)
	}
	return New(f)
}

// New validates f and builds a lexicon from it.
func New(f File) (*Lexicon, error) {
	known := make(map[string]bool, len(categoryOrder))
	for _, c := range categoryOrder {
		known[string(c)] = true
	}
	for name := range f.Words {
		if !known[name] {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, name)
		}
	}

	lex := &Lexicon{
		words:     make(map[string]types.Category),
		dual:      toSet(f.Dual),
		irregular: make(map[string]string, len(f.Irregular)),
		keywords:  toSet(f.Keywords),
	}
	for _, c := range categoryOrder {
		for _, w := range f.Words[string(c)] {
			w = strings.ToLower(w)
			if _, exists := lex.words[w]; !exists {
				lex.words[w] = c
			}
		}
	}
	if len(lex.words) == 0 {
		return nil, ErrEmptyLexicon
	}
	for form, lemma := range f.Irregular {
		lex.irregular[strings.ToLower(form)] = strings.ToLower(lemma)
	}
	for _, phrase := range f.Politeness {
		if len(phrase) == 0 {
			continue
		}
		lowered := make([]string, len(phrase))
		for i, w := range phrase {
			lowered[i] = strings.ToLower(w)
		}
		lex.politeness = append(lex.politeness, lowered)
	}
	// longest phrase first so "i want you to" beats a shorter prefix
	sort.SliceStable(lex.politeness, func(i, j int) bool {
		return len(lex.politeness[i]) > len(lex.politeness[j])
	})

	syn, err := NewSynonyms(f.Synonyms)
	if err != nil {
		return nil, err
	}
	lex.synonyms = syn
	return lex, nil
}

// Synonyms returns the canonical action table.
func (l *Lexicon) Synonyms() *Synonyms {
	return l.synonyms
}

// IsKeyword reports whether the lower-cased word is a reserved keyword.
func (l *Lexicon) IsKeyword(word string) bool {
	_, ok := l.keywords[word]
	return ok
}

// Lookup returns the listed category of a base form.
func (l *Lexicon) Lookup(word string) (types.Category, bool) {
	c, ok := l.words[word]
	return c, ok
}

func (l *Lexicon) isDual(word string) bool {
	_, ok := l.dual[word]
	return ok
}

// Synonyms maps lemmas onto canonical action names.
type Synonyms struct {
	canonical map[string]string
	classes   map[string][]string
}

// NewSynonyms builds a synonym table. A lemma may belong to one class only.
func NewSynonyms(classes map[string][]string) (*Synonyms, error) {
	s := &Synonyms{
		canonical: make(map[string]string),
		classes:   make(map[string][]string, len(classes)),
	}
	for name, lemmas := range classes {
		if len(lemmas) == 0 {
			return nil, fmt.Errorf("%w: %s", errEmptySynonymClass, name)
		}
		members := make([]string, 0, len(lemmas))
		for _, lemma := range lemmas {
			lemma = strings.ToLower(lemma)
			if prev, ok := s.canonical[lemma]; ok && prev != name {
				return nil, fmt.Errorf("%w: %q in %s and %s", ErrDuplicateSynonym, lemma, prev, name)
			}
			s.canonical[lemma] = name
			members = append(members, lemma)
		}
		// the class name always normalizes to itself
		if _, ok := s.canonical[name]; !ok {
			s.canonical[name] = name
			members = append(members, name)
		}
		sort.Strings(members)
		s.classes[name] = members
	}
	return s, nil
}

// Canonical returns the canonical action of lemma.
func (s *Synonyms) Canonical(lemma string) (string, bool) {
	c, ok := s.canonical[strings.ToLower(lemma)]
	return c, ok
}

// Normalize returns the canonical action of lemma, or lemma itself.
func (s *Synonyms) Normalize(lemma string) string {
	if c, ok := s.Canonical(lemma); ok {
		return c
	}
	return strings.ToLower(lemma)
}

// Class returns the sorted members of a synonym class.
func (s *Synonyms) Class(name string) ([]string, bool) {
	members, ok := s.classes[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(members))
	copy(out, members)
	return out, true
}

// Classes returns the sorted class names.
func (s *Synonyms) Classes() []string {
	names := make([]string, 0, len(s.classes))
	for name := range s.classes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func toSet(words []string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[strings.ToLower(w)] = struct{}{}
	}
	return set
}
