package semantic

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/nlc/internal/ir"
	"github.com/gnoswap-labs/nlc/internal/trie"
	"github.com/gnoswap-labs/nlc/pattern"
)

func TestDefaultIdioms(t *testing.T) {
	t.Parallel()

	table, err := DefaultIdioms()
	require.NoError(t, err)

	ids := make(map[string]bool)
	for _, i := range table.Idioms() {
		ids[i.ID] = true
		assert.NotEmpty(t, i.Body, i.ID)
		assert.NotEmpty(t, i.Fingerprints, i.ID)
	}
	for _, want := range []string{"prime_check", "factorial", "gcd", "even_filter", "leap_year", "vowel_count"} {
		assert.True(t, ids[want], want)
	}

	for _, want := range []string{
		"list_median", "square", "longest_word", "char_frequency", "toggle_case", "replace_spaces",
		"remove_non_alpha", "common_elements", "merge_sorted", "split_list", "element_frequency",
		"max_min_difference", "remove_element", "dijkstra",
	} {
		assert.True(t, ids[want], want)
	}

	classes := table.Classes()
	methods := 0
	byID := make(map[string]*ClassIdiom, len(classes))
	for _, c := range classes {
		byID[c.ID] = c
		methods += len(c.Methods)
	}
	for _, want := range []string{"binary_tree", "graph", "linked_list", "queue", "stack"} {
		assert.Contains(t, byID, want)
	}
	require.Contains(t, byID, "stack")
	assert.Equal(t, ir.Attribute{Name: "items", Type: "List[Any]", Default: ir.ListLit{}}, byID["stack"].Fields[0])
	require.Contains(t, byID, "graph")
	assert.Equal(t, ir.DictLit{}, byID["graph"].Fields[0].Default)

	templates := table.Templates()
	assert.Len(t, templates, len(table.Idioms())+methods)
	for i := 1; i < len(templates); i++ {
		assert.Less(t, templates[i-1].ID, templates[i].ID)
	}
}

func TestIdiomLookup(t *testing.T) {
	t.Parallel()

	table, err := DefaultIdioms()
	require.NoError(t, err)

	tests := []struct {
		name string
		keys []string
		want string
	}{
		{name: "prime", keys: []string{"define", "check", "number", "prime"}, want: "prime_check"},
		{name: "order independent", keys: []string{"prime", "number", "check"}, want: "prime_check"},
		{name: "larger fingerprint wins", keys: []string{"check", "fibonacci", "number"}, want: "fibonacci_check"},
		{name: "single key", keys: []string{"compute", "fibonacci", "sequence"}, want: "fibonacci_sequence"},
		{name: "alternate fingerprint", keys: []string{"find", "common", "divisor"}, want: "gcd"},
		{name: "conversion target", keys: []string{"convert", "celsius", "to:fahrenheit"}, want: "celsius_to_fahrenheit"},
		{name: "no match", keys: []string{"plot", "graph"}},
		{name: "partial fingerprint", keys: []string{"leap"}},
		{name: "median", keys: []string{"compute", "find", "median", "list"}, want: "list_median"},
		{name: "square", keys: []string{"compute", "calculate", "square", "number"}, want: "square"},
		{name: "square root outranks square", keys: []string{"compute", "square", "root"}, want: "square_root"},
		{name: "longest word", keys: []string{"compute", "find", "longest", "word", "sentence"}, want: "longest_word"},
		{name: "character frequency", keys: []string{"count", "frequency", "character", "string"}, want: "char_frequency"},
		{name: "toggle case", keys: []string{"toggle", "case", "string"}, want: "toggle_case"},
		{name: "replace spaces", keys: []string{"replace", "space", "underscore"}, want: "replace_spaces"},
		{name: "remove non alphabetic", keys: []string{"remove", "non", "alphabetic", "character"}, want: "remove_non_alpha"},
		{name: "common elements", keys: []string{"compute", "find", "common", "element", "list"}, want: "common_elements"},
		{name: "merge sorted", keys: []string{"merge", "two", "sorted", "list"}, want: "merge_sorted"},
		{name: "split halves", keys: []string{"split", "list", "half"}, want: "split_list"},
		{name: "element frequency", keys: []string{"count", "frequency", "element"}, want: "element_frequency"},
		{name: "max minus min", keys: []string{"compute", "difference", "maximum", "minimum"}, want: "max_min_difference"},
		{name: "remove element", keys: []string{"remove", "element", "list"}, want: "remove_element"},
		{name: "remove duplicates wins tie", keys: []string{"remove", "duplicate", "element", "list"}, want: "remove_duplicates"},
		{name: "dijkstra", keys: []string{"compute", "shortest", "path", "graph"}, want: "dijkstra"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := table.Lookup(tt.keys)
			if tt.want == "" {
				assert.False(t, ok)
				return
			}
			require.True(t, ok)
			assert.Equal(t, tt.want, got.ID)
		})
	}

	classTests := []struct {
		keys []string
		want string
	}{
		{keys: []string{"stack"}, want: "stack"},
		{keys: []string{"linkedlist"}, want: "linked_list"},
		{keys: []string{"linked", "list"}, want: "linked_list"},
		{keys: []string{"binary", "tree"}, want: "binary_tree"},
		{keys: []string{"binarytree"}, want: "binary_tree"},
		{keys: []string{"graph"}, want: "graph"},
		{keys: []string{"employee"}},
	}
	for _, tt := range classTests {
		cls, ok := table.LookupClass(tt.keys)
		if tt.want == "" {
			assert.False(t, ok, tt.keys)
			continue
		}
		require.True(t, ok, tt.keys)
		assert.Equal(t, tt.want, cls.ID, tt.keys)
	}
}

func TestClassMethodImports(t *testing.T) {
	t.Parallel()

	table, err := DefaultIdioms()
	require.NoError(t, err)

	imports := make(map[string][]string)
	for _, tmpl := range table.Templates() {
		imports[tmpl.ID] = tmpl.Imports
	}
	assert.Equal(t, []string{"collections"}, imports["graph.bfs"])
	assert.Empty(t, imports["graph.dfs"])
	assert.Equal(t, []string{"heapq"}, imports["dijkstra"])
}

func TestIdiomBodyExpands(t *testing.T) {
	t.Parallel()

	table, err := DefaultIdioms()
	require.NoError(t, err)

	idiom, ok := table.Idiom("even_filter")
	require.True(t, ok)
	got, err := pattern.Expand(idiom.Body, map[string]string{"lst": "values"})
	require.NoError(t, err)
	assert.Contains(t, got, "in values if")

	_, err = pattern.Expand(idiom.Body, nil)
	assert.ErrorIs(t, err, pattern.ErrUnboundHole)
}

func TestNewIdiomTableErrors(t *testing.T) {
	t.Parallel()

	body := func(id string, fp ...string) IdiomSpec {
		return IdiomSpec{
			ID:           id,
			Fingerprints: [][]string{fp},
			Params:       []RoleSpec{{Role: "n"}},
			Body:         "return :[n]\n",
		}
	}

	tests := []struct {
		name string
		file File
		want error
	}{
		{
			name: "duplicate id",
			file: File{Idioms: []IdiomSpec{body("a", "x"), body("a", "y")}},
			want: ErrDuplicateIdiom,
		},
		{
			name: "duplicate fingerprint",
			file: File{Idioms: []IdiomSpec{body("a", "x", "y"), body("b", "y", "x")}},
			want: ErrDuplicateFingerprint,
		},
		{
			name: "unknown role",
			file: File{Idioms: []IdiomSpec{{
				ID:           "a",
				Fingerprints: [][]string{{"x"}},
				Params:       []RoleSpec{{Role: "n"}},
				Body:         "return :[m]",
			}}},
			want: ErrUnknownRole,
		},
		{
			name: "empty body",
			file: File{Idioms: []IdiomSpec{{ID: "a", Fingerprints: [][]string{{"x"}}, Body: "\n"}}},
			want: ErrEmptyBody,
		},
		{
			name: "missing fingerprint",
			file: File{Idioms: []IdiomSpec{{ID: "a", Body: "pass"}}},
			want: trie.ErrEmptyFingerprint,
		},
		{
			name: "bad default",
			file: File{Classes: []ClassSpec{{
				ID:           "c",
				Fingerprints: [][]string{{"c"}},
				Fields:       []FieldSpec{{Name: "items", Default: "list()"}},
				Methods:      []MethodSpec{{Name: "size", Body: "return 0"}},
			}}},
			want: ErrBadDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := NewIdiomTable(tt.file)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), err.Error())
		})
	}
}

func TestIdiomInsertionOrderIndependent(t *testing.T) {
	t.Parallel()

	specs := []IdiomSpec{
		{ID: "one", Fingerprints: [][]string{{"a"}}, Body: "pass"},
		{ID: "two", Fingerprints: [][]string{{"a", "b"}}, Body: "pass"},
		{ID: "three", Fingerprints: [][]string{{"a", "b", "c"}}, Body: "pass"},
	}
	reversed := []IdiomSpec{specs[2], specs[1], specs[0]}

	forward, err := NewIdiomTable(File{Idioms: specs})
	require.NoError(t, err)
	backward, err := NewIdiomTable(File{Idioms: reversed})
	require.NoError(t, err)

	for _, keys := range [][]string{{"a"}, {"b", "a"}, {"c", "b", "a", "d"}, {"c"}} {
		f, fok := forward.Lookup(keys)
		b, bok := backward.Lookup(keys)
		require.Equal(t, fok, bok, keys)
		if fok {
			assert.Equal(t, f.ID, b.ID, keys)
		}
	}
	assert.True(t, forward.funcIndex.Equal(backward.funcIndex))
}

func TestLoadIdioms(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "idioms.yaml")
	src := `
idioms:
  - id: double
    fingerprints:
      - [double]
    params:
      - {role: x, type: int}
    returns: int
    body: |
      return :[x] * 2
`
	require.NoError(t, os.WriteFile(path, []byte(src), 0o644))

	table, err := LoadIdioms(path)
	require.NoError(t, err)
	idiom, ok := table.Lookup([]string{"double", "number"})
	require.True(t, ok)
	assert.Equal(t, "int", idiom.Returns)

	_, err = LoadIdioms(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
