package ir

import (
	"strconv"
	"strings"
)

// Expr is an expression inside a statement.
type Expr interface {
	isExpr()
	String() string
}

// Name is a variable, parameter or attribute reference.
type Name struct {
	ID string
}

func (Name) isExpr()          {}
func (e Name) String() string { return e.ID }

// IntLit is an integer literal.
type IntLit struct {
	Val int64
}

func (IntLit) isExpr()          {}
func (e IntLit) String() string { return strconv.FormatInt(e.Val, 10) }

// FloatLit is a floating point literal kept in its source spelling.
type FloatLit struct {
	Val string
}

func (FloatLit) isExpr()          {}
func (e FloatLit) String() string { return e.Val }

// StrLit is a string literal.
type StrLit struct {
	Val string
}

func (StrLit) isExpr()          {}
func (e StrLit) String() string { return strconv.Quote(e.Val) }

// BoolLit is True or False.
type BoolLit struct {
	Val bool
}

func (BoolLit) isExpr() {}
func (e BoolLit) String() string {
	if e.Val {
		return "True"
	}
	return "False"
}

// NoneLit is the absent value.
type NoneLit struct{}

func (NoneLit) isExpr()        {}
func (NoneLit) String() string { return "None" }

// ListLit is a list display.
type ListLit struct {
	Elems []Expr
}

func (ListLit) isExpr() {}
func (e ListLit) String() string {
	elems := make([]string, len(e.Elems))
	for i, el := range e.Elems {
		elems[i] = el.String()
	}
	return "[" + strings.Join(elems, ", ") + "]"
}

// DictLit is an empty dictionary display.
type DictLit struct{}

func (DictLit) isExpr()        {}
func (DictLit) String() string { return "{}" }

// BinaryOp enumerates binary operators.
type BinaryOp int

const (
	_ BinaryOp = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpFloorDiv
	OpMod
	OpPow
	OpEq
	OpNeq
	OpLt
	OpLte
	OpGt
	OpGte
	OpIn
	OpNotIn
	OpAnd
	OpOr
)

func (op BinaryOp) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpFloorDiv:
		return "//"
	case OpMod:
		return "%"
	case OpPow:
		return "**"
	case OpEq:
		return "=="
	case OpNeq:
		return "!="
	case OpLt:
		return "<"
	case OpLte:
		return "<="
	case OpGt:
		return ">"
	case OpGte:
		return ">="
	case OpIn:
		return "in"
	case OpNotIn:
		return "not in"
	case OpAnd:
		return "and"
	case OpOr:
		return "or"
	default:
		return "?"
	}
}

// BinaryExpr is a binary operation.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (BinaryExpr) isExpr() {}
func (e BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op.String() + " " + e.Right.String() + ")"
}

// UnaryOp enumerates unary operators.
type UnaryOp int

const (
	OpNot UnaryOp = iota
	OpNeg
)

func (op UnaryOp) String() string {
	switch op {
	case OpNot:
		return "not "
	case OpNeg:
		return "-"
	default:
		return "?"
	}
}

// UnaryExpr is a unary operation.
type UnaryExpr struct {
	Op      UnaryOp
	Operand Expr
}

func (UnaryExpr) isExpr() {}
func (e UnaryExpr) String() string {
	return "(" + e.Op.String() + e.Operand.String() + ")"
}

// CallExpr calls Func with positional arguments.
type CallExpr struct {
	Func Expr
	Args []Expr
}

func (CallExpr) isExpr() {}
func (e CallExpr) String() string {
	args := make([]string, len(e.Args))
	for i, a := range e.Args {
		args[i] = a.String()
	}
	return e.Func.String() + "(" + strings.Join(args, ", ") + ")"
}

// AttrExpr selects an attribute: Value.Attr.
type AttrExpr struct {
	Value Expr
	Attr  string
}

func (AttrExpr) isExpr()          {}
func (e AttrExpr) String() string { return e.Value.String() + "." + e.Attr }

// ListComp is [Elem for Var in Iter if Cond]. Cond may be nil.
type ListComp struct {
	Elem Expr
	Var  string
	Iter Expr
	Cond Expr
}

func (ListComp) isExpr() {}
func (e ListComp) String() string {
	s := "[" + e.Elem.String() + " for " + e.Var + " in " + e.Iter.String()
	if e.Cond != nil {
		s += " if " + e.Cond.String()
	}
	return s + "]"
}

// FPart is one piece of a formatted string: literal text or a value.
type FPart struct {
	Text  string
	Value Expr
}

// FString is a formatted string literal.
type FString struct {
	Parts []FPart
}

func (FString) isExpr() {}
func (e FString) String() string {
	var sb strings.Builder
	sb.WriteString(`f"`)
	for _, p := range e.Parts {
		if p.Value != nil {
			sb.WriteString("{" + p.Value.String() + "}")
			continue
		}
		sb.WriteString(p.Text)
	}
	sb.WriteString(`"`)
	return sb.String()
}

// Helper constructors

func Var(name string) Expr { return Name{ID: name} }

func Int(v int64) Expr { return IntLit{Val: v} }

func Str(v string) Expr { return StrLit{Val: v} }

// Literal parses the spelling of a simple constant: an integer, a float,
// a quoted string, True, False, None, [] or {}.
func Literal(src string) (Expr, bool) {
	src = strings.TrimSpace(src)
	switch src {
	case "":
		return nil, false
	case "None":
		return NoneLit{}, true
	case "True":
		return BoolLit{Val: true}, true
	case "False":
		return BoolLit{Val: false}, true
	case "[]":
		return ListLit{}, true
	case "{}":
		return DictLit{}, true
	}
	if v, err := strconv.ParseInt(src, 10, 64); err == nil {
		return IntLit{Val: v}, true
	}
	if _, err := strconv.ParseFloat(src, 64); err == nil && strings.Contains(src, ".") {
		return FloatLit{Val: src}, true
	}
	if len(src) >= 2 && (src[0] == '"' || src[0] == '\'') && src[len(src)-1] == src[0] {
		return StrLit{Val: src[1 : len(src)-1]}, true
	}
	return nil, false
}

func Bool(v bool) Expr { return BoolLit{Val: v} }

func Binary(op BinaryOp, left, right Expr) Expr {
	return BinaryExpr{Op: op, Left: left, Right: right}
}

func Not(e Expr) Expr { return UnaryExpr{Op: OpNot, Operand: e} }

func Call(fn string, args ...Expr) Expr {
	return CallExpr{Func: Name{ID: fn}, Args: args}
}

// Method builds recv.name(args...).
func Method(recv Expr, name string, args ...Expr) Expr {
	return CallExpr{Func: AttrExpr{Value: recv, Attr: name}, Args: args}
}

// Self builds self.attr.
func Self(attr string) Expr {
	return AttrExpr{Value: Name{ID: "self"}, Attr: attr}
}
