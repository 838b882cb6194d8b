// Package ir defines the tagged-variant intermediate representation that
// sits between semantic mapping and rendering.
//
// Every node reports its Kind. Renderers dispatch on Kind (and on the idiom
// id for RawIdiom) through an explicit table rather than through methods on
// the nodes. Trees are built fresh for each compilation and are never
// mutated after construction.
package ir

import "fmt"

// Kind tags a node variant.
type Kind int

const (
	KindInvalid Kind = iota
	KindFunction
	KindClass
	KindConditional
	KindLoop
	KindReturn
	KindRawIdiom
	KindAssign
	KindExpr
	KindPass
)

var kindNames = [...]string{
	KindInvalid:     "Invalid",
	KindFunction:    "FunctionSpec",
	KindClass:       "ClassSpec",
	KindConditional: "Conditional",
	KindLoop:        "Loop",
	KindReturn:      "Return",
	KindRawIdiom:    "RawIdiom",
	KindAssign:      "Assign",
	KindExpr:        "ExprStmt",
	KindPass:        "Pass",
}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Node is any IR element that can be rendered on its own.
type Node interface {
	isNode()
	Kind() Kind
}

// Statement is a node that can appear in a body.
type Statement interface {
	Node
	isStmt()
}

// Param is a function parameter. Type is a target type hint and may be
// empty.
type Param struct {
	Name string
	Type string
}

// Attribute is a stored field of a class. An attribute with a Default is
// initialized in the constructor instead of being taken as a parameter.
type Attribute struct {
	Name    string
	Type    string
	Default Expr
}

// FunctionSpec describes a function or, with Method set, a method that
// receives self.
type FunctionSpec struct {
	Name       string
	Params     []Param
	ReturnHint string
	Body       []Statement
	Doc        string
	Method     bool
}

func (FunctionSpec) isNode()    {}
func (FunctionSpec) Kind() Kind { return KindFunction }

// ClassSpec describes a class. The constructor is built from Attributes.
type ClassSpec struct {
	Name       string
	Attributes []Attribute
	Methods    []FunctionSpec
	Doc        string
}

func (ClassSpec) isNode()    {}
func (ClassSpec) Kind() Kind { return KindClass }

// Conditional is an if statement. Else may be empty.
type Conditional struct {
	Test Expr
	Then []Statement
	Else []Statement
}

func (Conditional) isNode()    {}
func (Conditional) isStmt()    {}
func (Conditional) Kind() Kind { return KindConditional }

// Loop iterates Var over Iterable.
type Loop struct {
	Var      string
	Iterable Expr
	Body     []Statement
}

func (Loop) isNode()    {}
func (Loop) isStmt()    {}
func (Loop) Kind() Kind { return KindLoop }

// Return returns Expr, or nothing when Expr is nil.
type Return struct {
	Expr Expr
}

func (Return) isNode()    {}
func (Return) isStmt()    {}
func (Return) Kind() Kind { return KindReturn }

// RawIdiom references a canned algorithm body. Bindings map the body's
// holes to identifiers; the body text itself lives in the template
// registry.
type RawIdiom struct {
	IdiomID  string
	Bindings map[string]string
}

func (RawIdiom) isNode()    {}
func (RawIdiom) isStmt()    {}
func (RawIdiom) Kind() Kind { return KindRawIdiom }

// Assign stores Value into Target.
type Assign struct {
	Target Expr
	Value  Expr
}

func (Assign) isNode()    {}
func (Assign) isStmt()    {}
func (Assign) Kind() Kind { return KindAssign }

// ExprStmt evaluates an expression for its effect, typically a call.
type ExprStmt struct {
	Expr Expr
}

func (ExprStmt) isNode()    {}
func (ExprStmt) isStmt()    {}
func (ExprStmt) Kind() Kind { return KindExpr }

// Pass is an empty body, optionally preceded by a comment line.
type Pass struct {
	Comment string
}

func (Pass) isNode()    {}
func (Pass) isStmt()    {}
func (Pass) Kind() Kind { return KindPass }

// Print builds print(args...).
func Print(args ...Expr) Statement {
	return ExprStmt{Expr: Call("print", args...)}
}
