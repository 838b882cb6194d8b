package semantic

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gnoswap-labs/nlc/internal/ir"
	"github.com/gnoswap-labs/nlc/internal/trie"
	"github.com/gnoswap-labs/nlc/pattern"
)

//go:embed idioms.yaml
var defaultIdioms []byte

var (
	ErrDuplicateIdiom       = errors.New("duplicate idiom id")
	ErrDuplicateFingerprint = errors.New("fingerprint is already used")
	ErrUnknownRole          = errors.New("template hole is not a declared role")
	ErrEmptyBody            = errors.New("idiom has no body")
	ErrBadDefault           = errors.New("field default is not a literal")
)

// RoleSpec declares one parameter of an idiom body. Name and Type are
// optional and override what the mapper infers from the instruction.
type RoleSpec struct {
	Role string `yaml:"role"`
	Name string `yaml:"name,omitempty"`
	Type string `yaml:"type,omitempty"`
}

// IdiomSpec is the on-disk shape of a function idiom.
type IdiomSpec struct {
	ID           string     `yaml:"id"`
	Name         string     `yaml:"name,omitempty"`
	Description  string     `yaml:"description,omitempty"`
	Fingerprints [][]string `yaml:"fingerprints"`
	Params       []RoleSpec `yaml:"params,omitempty"`
	Returns      string     `yaml:"returns,omitempty"`
	Imports      []string   `yaml:"imports,omitempty"`
	Body         string     `yaml:"body"`
}

// FieldSpec is a stored field of a class idiom.
type FieldSpec struct {
	Name    string `yaml:"name"`
	Type    string `yaml:"type,omitempty"`
	Default string `yaml:"default,omitempty"`
}

// MethodSpec is one method of a class idiom.
type MethodSpec struct {
	Name    string     `yaml:"name"`
	Params  []RoleSpec `yaml:"params,omitempty"`
	Returns string     `yaml:"returns,omitempty"`
	Imports []string   `yaml:"imports,omitempty"`
	Body    string     `yaml:"body"`
}

// ClassSpec is the on-disk shape of a class idiom.
type ClassSpec struct {
	ID           string       `yaml:"id"`
	Description  string       `yaml:"description,omitempty"`
	Fingerprints [][]string   `yaml:"fingerprints"`
	Fields       []FieldSpec  `yaml:"fields,omitempty"`
	Methods      []MethodSpec `yaml:"methods"`
}

// File is the on-disk shape of an idiom table.
type File struct {
	Idioms  []IdiomSpec `yaml:"idioms"`
	Classes []ClassSpec `yaml:"classes,omitempty"`
}

// Idiom is a parsed function idiom. Name is the function name used when
// the instruction's own wording names something else; when empty it is
// derived from the matched fingerprint.
type Idiom struct {
	ID           string
	Name         string
	Description  string
	Fingerprints [][]string
	Params       []RoleSpec
	Returns      string
	Imports      []string
	Body         []pattern.Node
}

// Method is a parsed method of a class idiom. Its template id is
// "<class>.<method>".
type Method struct {
	ID      string
	Name    string
	Params  []RoleSpec
	Returns string
	Imports []string
	Body    []pattern.Node
}

// ClassIdiom is a parsed class idiom.
type ClassIdiom struct {
	ID           string
	Description  string
	Fingerprints [][]string
	Fields       []ir.Attribute
	Methods      []Method
}

// Template is an idiom body as registered with a renderer.
type Template struct {
	ID      string
	Body    []pattern.Node
	Imports []string
}

// IdiomTable indexes function and class idioms by fingerprint. It is
// immutable once built.
type IdiomTable struct {
	functions  map[string]*Idiom
	classes    map[string]*ClassIdiom
	funcIndex  *trie.Trie
	classIndex *trie.Trie
}

// DefaultIdioms parses the embedded idiom table.
func DefaultIdioms() (*IdiomTable, error) {
	return ParseIdioms(defaultIdioms)
}

// LoadIdioms reads an idiom table from a YAML file.
func LoadIdioms(path string) (*IdiomTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read idioms: %w", err)
	}
	return ParseIdioms(data)
}

// ParseIdioms decodes and indexes an idiom table.
func ParseIdioms(data []byte) (*IdiomTable, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse idioms: %w", err)
	}
	return NewIdiomTable(f)
}

// NewIdiomTable validates f and builds the fingerprint indexes. Idiom ids
// must be unique, every fingerprint may be used once per index and every
// body hole must be a declared role.
func NewIdiomTable(f File) (*IdiomTable, error) {
	t := &IdiomTable{
		functions:  make(map[string]*Idiom, len(f.Idioms)),
		classes:    make(map[string]*ClassIdiom, len(f.Classes)),
		funcIndex:  trie.New(),
		classIndex: trie.New(),
	}

	for _, spec := range f.Idioms {
		idiom, err := compileIdiom(spec)
		if err != nil {
			return nil, err
		}
		if _, dup := t.functions[idiom.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdiom, idiom.ID)
		}
		if err := index(t.funcIndex, idiom.ID, idiom.Fingerprints); err != nil {
			return nil, err
		}
		t.functions[idiom.ID] = idiom
	}

	for _, spec := range f.Classes {
		class, err := compileClass(spec)
		if err != nil {
			return nil, err
		}
		if _, dup := t.classes[class.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdiom, class.ID)
		}
		if err := index(t.classIndex, class.ID, class.Fingerprints); err != nil {
			return nil, err
		}
		t.classes[class.ID] = class
	}

	return t, nil
}

func index(tr *trie.Trie, id string, fingerprints [][]string) error {
	if len(fingerprints) == 0 {
		return fmt.Errorf("idiom %s: %w", id, trie.ErrEmptyFingerprint)
	}
	for _, fp := range fingerprints {
		if err := tr.Insert(fp, id); err != nil {
			if errors.Is(err, trie.ErrDuplicate) {
				return fmt.Errorf("%w: %w", ErrDuplicateFingerprint, err)
			}
			return fmt.Errorf("idiom %s: %w", id, err)
		}
	}
	return nil
}

func compileIdiom(spec IdiomSpec) (*Idiom, error) {
	if spec.ID == "" {
		return nil, errors.New("idiom without id")
	}
	body, err := compileBody(spec.ID, spec.Body, spec.Params)
	if err != nil {
		return nil, err
	}
	if spec.Name != "" && !ir.IsIdentifier(spec.Name) {
		return nil, fmt.Errorf("idiom %s: %w: name %q", spec.ID, ir.ErrInvalidIdentifier, spec.Name)
	}
	return &Idiom{
		ID:           spec.ID,
		Name:         spec.Name,
		Description:  spec.Description,
		Fingerprints: spec.Fingerprints,
		Params:       spec.Params,
		Returns:      spec.Returns,
		Imports:      spec.Imports,
		Body:         body,
	}, nil
}

func compileClass(spec ClassSpec) (*ClassIdiom, error) {
	if spec.ID == "" {
		return nil, errors.New("class idiom without id")
	}
	class := &ClassIdiom{
		ID:           spec.ID,
		Description:  spec.Description,
		Fingerprints: spec.Fingerprints,
	}
	for _, fs := range spec.Fields {
		attr := ir.Attribute{Name: fs.Name, Type: fs.Type}
		if fs.Default != "" {
			def, ok := ir.Literal(fs.Default)
			if !ok {
				return nil, fmt.Errorf("%w: %s.%s = %s", ErrBadDefault, spec.ID, fs.Name, fs.Default)
			}
			attr.Default = def
		}
		class.Fields = append(class.Fields, attr)
	}
	for _, ms := range spec.Methods {
		id := spec.ID + "." + ms.Name
		body, err := compileBody(id, ms.Body, ms.Params)
		if err != nil {
			return nil, err
		}
		class.Methods = append(class.Methods, Method{
			ID:      id,
			Name:    ms.Name,
			Params:  ms.Params,
			Returns: ms.Returns,
			Imports: ms.Imports,
			Body:    body,
		})
	}
	return class, nil
}

func compileBody(id, src string, roles []RoleSpec) ([]pattern.Node, error) {
	src = strings.TrimRight(src, "\n")
	if strings.TrimSpace(src) == "" {
		return nil, fmt.Errorf("%w: %s", ErrEmptyBody, id)
	}
	nodes, err := pattern.ParseTemplate(src)
	if err != nil {
		return nil, fmt.Errorf("idiom %s: %w", id, err)
	}
	declared := make(map[string]bool, len(roles))
	for _, r := range roles {
		declared[r.Role] = true
	}
	for _, hole := range pattern.Holes(nodes) {
		if !declared[hole] {
			return nil, fmt.Errorf("%w: %s uses :[%s]", ErrUnknownRole, id, hole)
		}
	}
	return nodes, nil
}

// Lookup returns the function idiom with the most specific fingerprint
// contained in keys.
func (t *IdiomTable) Lookup(keys []string) (*Idiom, bool) {
	idiom, _, ok := t.Resolve(keys)
	return idiom, ok
}

// Resolve is Lookup that also returns the fingerprint that matched.
func (t *IdiomTable) Resolve(keys []string) (*Idiom, []string, bool) {
	hit, ok := t.funcIndex.Best(keys)
	if !ok {
		return nil, nil, false
	}
	return t.functions[hit.Value], hit.Keys, true
}

// LookupClass is Lookup for class idioms.
func (t *IdiomTable) LookupClass(keys []string) (*ClassIdiom, bool) {
	hit, ok := t.classIndex.Best(keys)
	if !ok {
		return nil, false
	}
	return t.classes[hit.Value], true
}

// Idiom returns a function idiom by id.
func (t *IdiomTable) Idiom(id string) (*Idiom, bool) {
	i, ok := t.functions[id]
	return i, ok
}

// Idioms returns the function idioms ordered by id.
func (t *IdiomTable) Idioms() []*Idiom {
	out := make([]*Idiom, 0, len(t.functions))
	for _, i := range t.functions {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// Classes returns the class idioms ordered by id.
func (t *IdiomTable) Classes() []*ClassIdiom {
	out := make([]*ClassIdiom, 0, len(t.classes))
	for _, c := range t.classes {
		out = append(out, c)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}

// Templates lists every idiom body, function and method alike, ordered by
// id.
func (t *IdiomTable) Templates() []Template {
	var out []Template
	for _, i := range t.Idioms() {
		out = append(out, Template{ID: i.ID, Body: i.Body, Imports: i.Imports})
	}
	for _, c := range t.Classes() {
		for _, m := range c.Methods {
			out = append(out, Template{ID: m.ID, Body: m.Body, Imports: m.Imports})
		}
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out
}
