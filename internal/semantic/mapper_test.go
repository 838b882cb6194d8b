package semantic

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/nlc/internal/extract"
	"github.com/gnoswap-labs/nlc/internal/ir"
	"github.com/gnoswap-labs/nlc/internal/lexicon"
	"github.com/gnoswap-labs/nlc/internal/matcher"
	"github.com/gnoswap-labs/nlc/internal/types"
)

type pipeline struct {
	tk     lexicon.Tokenizer
	table  *matcher.Table
	ex     *extract.Extractor
	mapper *Mapper
}

func newPipeline(t *testing.T) pipeline {
	t.Helper()
	lex, err := lexicon.Default()
	require.NoError(t, err)
	rules, err := matcher.DefaultRules()
	require.NoError(t, err)
	table, err := matcher.New(rules, lex.Synonyms())
	require.NoError(t, err)
	idioms, err := DefaultIdioms()
	require.NoError(t, err)
	return pipeline{
		tk:     lexicon.NewTokenizer(lex),
		table:  table,
		ex:     extract.New(table.Intents(), lex.Synonyms()),
		mapper: New(idioms, lex.Synonyms()),
	}
}

func (p pipeline) run(t *testing.T, input string) (Result, error) {
	t.Helper()
	tokens, err := p.tk.Tokenize(input)
	require.NoError(t, err)
	res, ok := p.table.Match(tokens)
	require.True(t, ok, "no rule matched %q", input)
	intent, slots := p.ex.Extract(res, tokens)
	return p.mapper.Map(intent, slots)
}

func idiomBody(id string, bindings map[string]string) []ir.Statement {
	return []ir.Statement{ir.RawIdiom{IdiomID: id, Bindings: bindings}}
}

func TestMapFunctionIdioms(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	tests := []struct {
		input string
		idiom string
		want  ir.FunctionSpec
	}{
		{
			input: "Write a function to check if a number is prime",
			idiom: "prime_check",
			want: ir.FunctionSpec{
				Name:       "is_prime",
				Params:     []ir.Param{{Name: "n", Type: "int"}},
				ReturnHint: "bool",
				Body:       idiomBody("prime_check", map[string]string{"n": "n"}),
				Doc:        "Check if a number is prime.",
			},
		},
		{
			input: "Build a function that returns a list of even numbers from a given list",
			idiom: "even_filter",
			want: ir.FunctionSpec{
				Name:       "get_even_numbers",
				Params:     []ir.Param{{Name: "lst", Type: "List[int]"}},
				ReturnHint: "List[int]",
				Body:       idiomBody("even_filter", map[string]string{"lst": "lst"}),
				Doc:        "Returns a list of even numbers from a given list.",
			},
		},
		{
			input: "Write a function that takes two numbers and returns their gcd",
			idiom: "gcd",
			want: ir.FunctionSpec{
				Name:       "get_gcd",
				Params:     []ir.Param{{Name: "a", Type: "int"}, {Name: "b", Type: "int"}},
				ReturnHint: "int",
				Body:       idiomBody("gcd", map[string]string{"a": "a", "b": "b"}),
				Doc:        "Takes two numbers and returns their gcd.",
			},
		},
		{
			input: "Write a function to count the number of vowels in a string",
			idiom: "vowel_count",
			want: ir.FunctionSpec{
				Name:       "count_vowels",
				Params:     []ir.Param{{Name: "s", Type: "str"}},
				ReturnHint: "int",
				Body:       idiomBody("vowel_count", map[string]string{"s": "s"}),
				Doc:        "Count the number of vowels in a string.",
			},
		},
		{
			input: "Check if a year is a leap year or not",
			idiom: "leap_year",
			want: ir.FunctionSpec{
				Name:       "is_leap_year",
				Params:     []ir.Param{{Name: "year", Type: "int"}},
				ReturnHint: "bool",
				Body:       idiomBody("leap_year", map[string]string{"year": "year"}),
				Doc:        "Check if a year is a leap year or not.",
			},
		},
		{
			input: "Calculate the factorial of a number",
			idiom: "factorial",
			want: ir.FunctionSpec{
				Name:       "calculate_factorial",
				Params:     []ir.Param{{Name: "n", Type: "int"}},
				ReturnHint: "int",
				Body:       idiomBody("factorial", map[string]string{"n": "n"}),
				Doc:        "Calculate the factorial of a number.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			res, err := p.run(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.idiom, res.Idiom)
			assert.Empty(t, res.Warnings)
			if diff := cmp.Diff(tt.want, res.Node); diff != "" {
				t.Errorf("IR mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapIdiomNaming(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	tests := []struct {
		input   string
		idiom   string
		mention string
		absent  string
	}{
		{
			input:   "Write a function to calculate the sum of a list and the max of a list",
			idiom:   "list_max",
			mention: "maximum",
			absent:  "sum",
		},
		{
			input:   "Write a function to find the median of a list",
			idiom:   "list_median",
			mention: "median",
		},
		{
			input:   "Write a function to toggle the case of a string",
			idiom:   "toggle_case",
			mention: "case",
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			res, err := p.run(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.idiom, res.Idiom)
			fn, ok := res.Node.(ir.FunctionSpec)
			require.True(t, ok)
			assert.Contains(t, fn.Name, tt.mention)
			if tt.absent != "" {
				assert.NotContains(t, fn.Name, tt.absent)
			}
		})
	}
}

func TestMapFunctionSynthesis(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	tests := []struct {
		input string
		want  ir.FunctionSpec
	}{
		{
			input: "Write a function to check if a number is greater than 10",
			want: ir.FunctionSpec{
				Name:       "is_greater_than_10",
				Params:     []ir.Param{{Name: "n", Type: "int"}},
				ReturnHint: "bool",
				Body:       []ir.Statement{ir.Return{Expr: ir.Binary(ir.OpGt, ir.Var("n"), ir.Int(10))}},
				Doc:        "Check if a number is greater than 10.",
			},
		},
		{
			input: "Write a function that returns the numbers greater than 10 from a list",
			want: ir.FunctionSpec{
				Name:       "get_numbers_greater_than_10",
				Params:     []ir.Param{{Name: "lst", Type: "List[int]"}},
				ReturnHint: "List[int]",
				Body: []ir.Statement{ir.Return{Expr: ir.ListComp{
					Elem: ir.Var("num"),
					Var:  "num",
					Iter: ir.Var("lst"),
					Cond: ir.Binary(ir.OpGt, ir.Var("num"), ir.Int(10)),
				}}},
				Doc: "Returns the numbers greater than 10 from a list.",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			res, err := p.run(t, tt.input)
			require.NoError(t, err)
			assert.Empty(t, res.Idiom)
			assert.Empty(t, res.Warnings)
			if diff := cmp.Diff(tt.want, res.Node); diff != "" {
				t.Errorf("IR mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapPlaceholderWarns(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	res, err := p.run(t, "Write a function to plot a graph of a sine wave")
	require.NoError(t, err)

	fn, ok := res.Node.(ir.FunctionSpec)
	require.True(t, ok)
	assert.Equal(t, "plot_graph", fn.Name)
	assert.Equal(t, []ir.Param{{Name: "wave"}}, fn.Params)
	assert.Equal(t, []ir.Statement{ir.Pass{Comment: "TODO: plot a graph of a sine wave"}}, fn.Body)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "plot_graph", res.Warnings[0].Target)
}

func TestMapMissingSlots(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	_, err := p.run(t, "Write a function")
	var se *types.SemanticError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, extract.SlotSubject, se.MissingSlot)
	assert.Equal(t, types.FunctionDef, se.Intent)

	empty := extract.NewSlotMap(nil, nil)
	for intent, slot := range map[types.Intent]string{
		types.ClassDef:    extract.SlotSubject,
		types.Conditional: extract.SlotCondition,
		types.Loop:        extract.SlotSource,
		types.Unknown:     "intent",
	} {
		_, err := p.mapper.Map(intent, empty)
		require.True(t, errors.As(err, &se), intent.String())
		assert.Equal(t, slot, se.MissingSlot, intent.String())
	}
}

func TestMapConditional(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	tests := []struct {
		input string
		want  ir.Conditional
	}{
		{
			input: "If a number is even, print even, otherwise print odd",
			want: ir.Conditional{
				Test: ir.Binary(ir.OpEq, ir.Binary(ir.OpMod, ir.Var("n"), ir.Int(2)), ir.Int(0)),
				Then: []ir.Statement{ir.Print(ir.Str("even"))},
				Else: []ir.Statement{ir.Print(ir.Str("odd"))},
			},
		},
		{
			input: "if x is greater than 5 print x else print y",
			want: ir.Conditional{
				Test: ir.Binary(ir.OpGt, ir.Var("x"), ir.Int(5)),
				Then: []ir.Statement{ir.Print(ir.Var("x"))},
				Else: []ir.Statement{ir.Print(ir.Var("y"))},
			},
		},
		{
			input: "If the number is negative, print it",
			want: ir.Conditional{
				Test: ir.Binary(ir.OpLt, ir.Var("n"), ir.Int(0)),
				Then: []ir.Statement{ir.Print(ir.Var("n"))},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			res, err := p.run(t, tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, res.Node); diff != "" {
				t.Errorf("IR mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapLoop(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	printI := []ir.Statement{ir.Print(ir.Var("i"))}
	tests := []struct {
		input string
		want  ir.Loop
	}{
		{
			input: "Print numbers from 1 to 10",
			want: ir.Loop{
				Var:      "i",
				Iterable: ir.Call("range", ir.Int(1), ir.Int(11)),
				Body:     printI,
			},
		},
		{
			input: "Print even numbers from 1 to 10",
			want: ir.Loop{
				Var:      "i",
				Iterable: ir.Call("range", ir.Int(1), ir.Int(11)),
				Body: []ir.Statement{ir.Conditional{
					Test: ir.Binary(ir.OpEq, ir.Binary(ir.OpMod, ir.Var("i"), ir.Int(2)), ir.Int(0)),
					Then: printI,
				}},
			},
		},
		{
			input: "For each item in the list, print the item",
			want: ir.Loop{
				Var:      "item",
				Iterable: ir.Var("lst"),
				Body:     []ir.Statement{ir.Print(ir.Var("item"))},
			},
		},
		{
			input: "Loop through the list and print each element",
			want: ir.Loop{
				Var:      "item",
				Iterable: ir.Var("lst"),
				Body:     []ir.Statement{ir.Print(ir.Var("item"))},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			res, err := p.run(t, tt.input)
			require.NoError(t, err)
			if diff := cmp.Diff(tt.want, res.Node); diff != "" {
				t.Errorf("IR mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapClass(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	field := func(attr string) ir.Statement {
		return ir.Print(ir.FString{Parts: []ir.FPart{{Text: label(attr) + ": "}, {Value: ir.Self(attr)}}})
	}

	tests := []struct {
		input string
		want  ir.ClassSpec
	}{
		{
			input: "Create a class Employee with attributes name and salary, and a method to display details",
			want: ir.ClassSpec{
				Name:       "Employee",
				Attributes: []ir.Attribute{{Name: "name", Type: "str"}, {Name: "salary", Type: "float"}},
				Methods: []ir.FunctionSpec{{
					Name:       "display_details",
					ReturnHint: "None",
					Body:       []ir.Statement{field("name"), field("salary")},
					Method:     true,
				}},
			},
		},
		{
			input: "Make a class Student having name and grade and a method to display name and grade",
			want: ir.ClassSpec{
				Name:       "Student",
				Attributes: []ir.Attribute{{Name: "name", Type: "str"}, {Name: "grade", Type: "int"}},
				Methods: []ir.FunctionSpec{{
					Name:       "display_name",
					ReturnHint: "None",
					Body:       []ir.Statement{field("name"), field("grade")},
					Method:     true,
				}},
			},
		},
		{
			input: "Create a class called BankAccount with attributes owner, balance and rate and methods to deposit and withdraw money",
			want: ir.ClassSpec{
				Name: "BankAccount",
				Attributes: []ir.Attribute{
					{Name: "owner", Type: "str"},
					{Name: "balance", Type: "float"},
					{Name: "rate", Type: "float"},
				},
				Methods: []ir.FunctionSpec{
					{
						Name:       "deposit",
						Params:     []ir.Param{{Name: "amount", Type: "float"}},
						ReturnHint: "None",
						Body: []ir.Statement{ir.Assign{
							Target: ir.Self("balance"),
							Value:  ir.Binary(ir.OpAdd, ir.Self("balance"), ir.Var("amount")),
						}},
						Method: true,
					},
					{
						Name:       "withdraw_money",
						Params:     []ir.Param{{Name: "amount", Type: "float"}},
						ReturnHint: "None",
						Body: []ir.Statement{ir.Assign{
							Target: ir.Self("balance"),
							Value:  ir.Binary(ir.OpSub, ir.Self("balance"), ir.Var("amount")),
						}},
						Method: true,
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			res, err := p.run(t, tt.input)
			require.NoError(t, err)
			assert.Empty(t, res.Warnings)
			if diff := cmp.Diff(tt.want, res.Node); diff != "" {
				t.Errorf("IR mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMapClassIdiom(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	res, err := p.run(t, "Create a class called Stack")
	require.NoError(t, err)
	assert.Equal(t, "stack", res.Idiom)

	cls, ok := res.Node.(ir.ClassSpec)
	require.True(t, ok)
	assert.Equal(t, "Stack", cls.Name)
	require.Len(t, cls.Attributes, 1)
	assert.Equal(t, ir.Attribute{Name: "items", Type: "List[Any]", Default: ir.ListLit{}}, cls.Attributes[0])

	var names []string
	for _, m := range cls.Methods {
		names = append(names, m.Name)
		assert.True(t, m.Method)
	}
	assert.Equal(t, []string{"push", "pop", "peek", "is_empty", "size"}, names)
	assert.Equal(t, []ir.Param{{Name: "item", Type: "Any"}}, cls.Methods[0].Params)
	assert.Equal(t, idiomBody("stack.push", map[string]string{"item": "item"}), cls.Methods[0].Body)
}

func TestMapStructureIdioms(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	tests := []struct {
		input   string
		idiom   string
		methods []string
	}{
		{input: "Create a class called LinkedList", idiom: "linked_list", methods: []string{"append", "prepend", "delete", "display"}},
		{input: "Create a class called BinaryTree", idiom: "binary_tree", methods: []string{"insert", "inorder", "preorder", "postorder"}},
		{input: "Create a class called Graph", idiom: "graph", methods: []string{"add_edge", "bfs", "dfs"}},
	}

	for _, tt := range tests {
		t.Run(tt.idiom, func(t *testing.T) {
			t.Parallel()
			res, err := p.run(t, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.idiom, res.Idiom)
			assert.Empty(t, res.Warnings)

			cls, ok := res.Node.(ir.ClassSpec)
			require.True(t, ok)
			var names []string
			for _, m := range cls.Methods {
				names = append(names, m.Name)
			}
			assert.Equal(t, tt.methods, names)
		})
	}
}

func TestMapUnknownMethodVerbWarns(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	res, err := p.run(t, "Create a class Car with attributes brand and speed and a method to calculate the total")
	require.NoError(t, err)
	cls := res.Node.(ir.ClassSpec)
	require.Len(t, cls.Methods, 1)
	assert.Equal(t, "calculate_total", cls.Methods[0].Name)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "calculate_total", res.Warnings[0].Target)
}

func TestMapEmptyClassWarns(t *testing.T) {
	t.Parallel()
	p := newPipeline(t)

	res, err := p.run(t, "Create a class to represent a rectangle")
	require.NoError(t, err)
	assert.Equal(t, ir.ClassSpec{Name: "Rectangle", Doc: "Represent a rectangle."}, res.Node)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, "Rectangle", res.Warnings[0].Target)
	assert.Contains(t, res.Warnings[0].Reason, "no attributes or methods")
}
