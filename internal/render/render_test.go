package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnoswap-labs/nlc/internal/ir"
	"github.com/gnoswap-labs/nlc/internal/semantic"
)

func newRenderer(t *testing.T, opts Options) *Renderer {
	t.Helper()
	idioms, err := semantic.DefaultIdioms()
	require.NoError(t, err)
	r, err := New(idioms.Templates(), opts)
	require.NoError(t, err)
	return r
}

func display(attr, label string) ir.Statement {
	return ir.Print(ir.FString{Parts: []ir.FPart{{Text: label + ": "}, {Value: ir.Self(attr)}}})
}

func TestSource(t *testing.T) {
	t.Parallel()
	r := newRenderer(t, DefaultOptions())

	tests := []struct {
		name string
		node ir.Node
		want string
	}{
		{
			name: "prime idiom",
			node: ir.FunctionSpec{
				Name:       "is_prime",
				Params:     []ir.Param{{Name: "n", Type: "int"}},
				ReturnHint: "bool",
				Body:       []ir.Statement{ir.RawIdiom{IdiomID: "prime_check", Bindings: map[string]string{"n": "n"}}},
				Doc:        "Check if a number is prime.",
			},
			want: `def is_prime(n: int) -> bool:
    """Check if a number is prime."""
    if n < 2:
        return False
    for i in range(2, int(n ** 0.5) + 1):
        if n % i == 0:
            return False
    return True
`,
		},
		{
			name: "even filter with typing import",
			node: ir.FunctionSpec{
				Name:       "get_even_numbers",
				Params:     []ir.Param{{Name: "lst", Type: "List[int]"}},
				ReturnHint: "List[int]",
				Body:       []ir.Statement{ir.RawIdiom{IdiomID: "even_filter", Bindings: map[string]string{"lst": "lst"}}},
				Doc:        "Returns a list of even numbers from a given list.",
			},
			want: `from typing import List


def get_even_numbers(lst: List[int]) -> List[int]:
    """Returns a list of even numbers from a given list."""
    return [num for num in lst if num % 2 == 0]
`,
		},
		{
			name: "module import",
			node: ir.FunctionSpec{
				Name:       "circle_area",
				Params:     []ir.Param{{Name: "radius", Type: "float"}},
				ReturnHint: "float",
				Body:       []ir.Statement{ir.RawIdiom{IdiomID: "circle_area", Bindings: map[string]string{"r": "radius"}}},
			},
			want: `import math


def circle_area(radius: float) -> float:
    return math.pi * radius ** 2
`,
		},
		{
			name: "class with constructor and display method",
			node: ir.ClassSpec{
				Name:       "Employee",
				Attributes: []ir.Attribute{{Name: "name", Type: "str"}, {Name: "salary", Type: "float"}},
				Methods: []ir.FunctionSpec{{
					Name:       "display_details",
					ReturnHint: "None",
					Body:       []ir.Statement{display("name", "Name"), display("salary", "Salary")},
					Method:     true,
				}},
			},
			want: `class Employee:
    def __init__(self, name: str, salary: float) -> None:
        self.name = name
        self.salary = salary

    def display_details(self) -> None:
        print(f"Name: {self.name}")
        print(f"Salary: {self.salary}")
`,
		},
		{
			name: "empty class with docstring",
			node: ir.ClassSpec{Name: "Rectangle", Doc: "Represent a rectangle."},
			want: `class Rectangle:
    """Represent a rectangle."""
`,
		},
		{
			name: "conditional with else",
			node: ir.Conditional{
				Test: ir.Binary(ir.OpEq, ir.Binary(ir.OpMod, ir.Var("n"), ir.Int(2)), ir.Int(0)),
				Then: []ir.Statement{ir.Print(ir.Str("even"))},
				Else: []ir.Statement{ir.Print(ir.Str("odd"))},
			},
			want: `if n % 2 == 0:
    print("even")
else:
    print("odd")
`,
		},
		{
			name: "range loop with filter",
			node: ir.Loop{
				Var:      "i",
				Iterable: ir.Call("range", ir.Int(1), ir.Int(11)),
				Body: []ir.Statement{ir.Conditional{
					Test: ir.Binary(ir.OpEq, ir.Binary(ir.OpMod, ir.Var("i"), ir.Int(2)), ir.Int(0)),
					Then: []ir.Statement{ir.Print(ir.Var("i"))},
				}},
			},
			want: `for i in range(1, 11):
    if i % 2 == 0:
        print(i)
`,
		},
		{
			name: "placeholder body",
			node: ir.FunctionSpec{
				Name:   "plot_graph",
				Params: []ir.Param{{Name: "wave"}},
				Body:   []ir.Statement{ir.Pass{Comment: "TODO: plot a graph of a sine wave"}},
			},
			want: `def plot_graph(wave):
    # TODO: plot a graph of a sine wave
    pass
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := r.Source(tt.node)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)

			again, err := r.Source(tt.node)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestSourceClassIdiom(t *testing.T) {
	t.Parallel()
	r := newRenderer(t, DefaultOptions())

	cls := ir.ClassSpec{
		Name:       "Stack",
		Attributes: []ir.Attribute{{Name: "items", Type: "List[Any]", Default: ir.ListLit{}}},
		Methods: []ir.FunctionSpec{
			{
				Name:       "push",
				Params:     []ir.Param{{Name: "item", Type: "Any"}},
				ReturnHint: "None",
				Body:       []ir.Statement{ir.RawIdiom{IdiomID: "stack.push", Bindings: map[string]string{"item": "item"}}},
				Method:     true,
			},
			{
				Name:       "pop",
				ReturnHint: "Any",
				Body:       []ir.Statement{ir.RawIdiom{IdiomID: "stack.pop", Bindings: map[string]string{}}},
				Method:     true,
			},
		},
	}

	got, err := r.Source(cls)
	require.NoError(t, err)
	assert.Equal(t, `from typing import Any, List


class Stack:
    def __init__(self) -> None:
        self.items: List[Any] = []

    def push(self, item: Any) -> None:
        self.items.append(item)

    def pop(self) -> Any:
        if not self.items:
            raise IndexError("pop from empty stack")
        return self.items.pop()
`, got)
}

func TestOptions(t *testing.T) {
	t.Parallel()
	r := newRenderer(t, Options{Indent: 2})

	fn := ir.FunctionSpec{
		Name:       "factorial",
		Params:     []ir.Param{{Name: "n", Type: "int"}},
		ReturnHint: "int",
		Body:       []ir.Statement{ir.RawIdiom{IdiomID: "factorial", Bindings: map[string]string{"n": "n"}}},
		Doc:        "Calculate the factorial of a number.",
	}
	got, err := r.Source(fn)
	require.NoError(t, err)
	assert.Equal(t, `def factorial(n):
  result = 1
  for i in range(2, n + 1):
    result *= i
  return result
`, got)

	_, err = New(nil, Options{Indent: 0})
	assert.ErrorIs(t, err, ErrInvalidIndent)
}

func TestRenderLevel(t *testing.T) {
	t.Parallel()
	r := newRenderer(t, DefaultOptions())

	got, err := r.Render(ir.Return{Expr: ir.Var("x")}, 2)
	require.NoError(t, err)
	assert.Equal(t, "        return x\n", got)

	got, err = r.Render(ir.Conditional{Test: ir.Var("ok")}, 0)
	require.NoError(t, err)
	assert.Equal(t, "if ok:\n    pass\n", got)
}

func TestRenderElif(t *testing.T) {
	t.Parallel()
	r := newRenderer(t, DefaultOptions())

	got, err := r.Render(ir.Conditional{
		Test: ir.Binary(ir.OpGt, ir.Var("n"), ir.Int(0)),
		Then: []ir.Statement{ir.Print(ir.Str("positive"))},
		Else: []ir.Statement{ir.Conditional{
			Test: ir.Binary(ir.OpLt, ir.Var("n"), ir.Int(0)),
			Then: []ir.Statement{ir.Print(ir.Str("negative"))},
			Else: []ir.Statement{ir.Print(ir.Str("zero"))},
		}},
	}, 0)
	require.NoError(t, err)
	assert.Equal(t, `if n > 0:
    print("positive")
elif n < 0:
    print("negative")
else:
    print("zero")
`, got)
}

func TestRenderErrors(t *testing.T) {
	t.Parallel()
	r := newRenderer(t, DefaultOptions())

	_, err := r.Render(ir.RawIdiom{IdiomID: "no_such_idiom"}, 0)
	assert.ErrorIs(t, err, ErrUnknownTemplate)

	_, err = r.Render(ir.RawIdiom{IdiomID: "factorial", Bindings: map[string]string{"n": "n); import os; ("}}, 0)
	assert.ErrorIs(t, err, ErrUnsafeBinding)

	_, err = r.Render(ir.RawIdiom{IdiomID: "factorial"}, 0)
	assert.Error(t, err)

	_, err = New([]semantic.Template{{ID: "a"}, {ID: "a"}}, DefaultOptions())
	assert.ErrorIs(t, err, ErrDuplicateIdiom)

	assert.True(t, r.Has(ir.KindRawIdiom, "prime_check"))
	assert.True(t, r.Has(ir.KindLoop, ""))
	assert.False(t, r.Has(ir.KindRawIdiom, "no_such_idiom"))
}

func TestExpr(t *testing.T) {
	t.Parallel()

	n := ir.Var("n")
	tests := []struct {
		e    ir.Expr
		want string
	}{
		{e: ir.Binary(ir.OpEq, ir.Binary(ir.OpMod, n, ir.Int(2)), ir.Int(0)), want: "n % 2 == 0"},
		{e: ir.Binary(ir.OpMul, ir.Binary(ir.OpAdd, n, ir.Int(1)), ir.Int(2)), want: "(n + 1) * 2"},
		{e: ir.Binary(ir.OpSub, n, ir.Binary(ir.OpSub, ir.Int(1), ir.Int(2))), want: "n - (1 - 2)"},
		{e: ir.Binary(ir.OpPow, ir.Binary(ir.OpPow, n, ir.Int(2)), ir.Int(3)), want: "(n ** 2) ** 3"},
		{e: ir.Binary(ir.OpPow, n, ir.Binary(ir.OpPow, ir.Int(2), ir.Int(3))), want: "n ** 2 ** 3"},
		{e: ir.Not(ir.Binary(ir.OpEq, ir.Binary(ir.OpMod, n, ir.Int(3)), ir.Int(0))), want: "not n % 3 == 0"},
		{e: ir.Not(ir.Binary(ir.OpAnd, n, ir.Var("m"))), want: "not (n and m)"},
		{e: ir.Binary(ir.OpAnd, ir.Binary(ir.OpOr, n, ir.Var("m")), ir.Var("k")), want: "(n or m) and k"},
		{e: ir.Binary(ir.OpEq, ir.Binary(ir.OpLt, n, ir.Int(1)), ir.Bool(true)), want: "(n < 1) == True"},
		{e: ir.Method(ir.Binary(ir.OpAdd, n, ir.Var("m")), "upper"), want: "(n + m).upper()"},
		{e: ir.Call("len", n), want: "len(n)"},
		{e: ir.Str(`say "hi"`), want: `"say \"hi\""`},
		{e: ir.FString{Parts: []ir.FPart{{Text: "{x}: "}, {Value: ir.Self("x")}}}, want: `f"{{x}}: {self.x}"`},
		{e: ir.ListLit{Elems: []ir.Expr{ir.Int(1), ir.NoneLit{}}}, want: "[1, None]"},
		{
			e:    ir.ListComp{Elem: ir.Var("x"), Var: "x", Iter: n, Cond: ir.Binary(ir.OpGt, ir.Var("x"), ir.Int(10))},
			want: "[x for x in n if x > 10]",
		},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, expr(tt.e))
	}
}
