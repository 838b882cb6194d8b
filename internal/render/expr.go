package render

import (
	"strconv"
	"strings"

	"github.com/gnoswap-labs/nlc/internal/ir"
)

// Python operator precedence, loosest first.
const (
	precLowest = iota
	precOr
	precAnd
	precNot
	precCompare
	precAdd
	precMul
	precUnary
	precPow
	precAtom
)

func binaryPrec(op ir.BinaryOp) int {
	switch op {
	case ir.OpOr:
		return precOr
	case ir.OpAnd:
		return precAnd
	case ir.OpEq, ir.OpNeq, ir.OpLt, ir.OpLte, ir.OpGt, ir.OpGte, ir.OpIn, ir.OpNotIn:
		return precCompare
	case ir.OpAdd, ir.OpSub:
		return precAdd
	case ir.OpMul, ir.OpDiv, ir.OpFloorDiv, ir.OpMod:
		return precMul
	case ir.OpPow:
		return precPow
	}
	return precLowest
}

func precOf(e ir.Expr) int {
	switch e := e.(type) {
	case ir.BinaryExpr:
		return binaryPrec(e.Op)
	case ir.UnaryExpr:
		if e.Op == ir.OpNot {
			return precNot
		}
		return precUnary
	}
	return precAtom
}

// expr prints e with the fewest parentheses Python needs.
func expr(e ir.Expr) string {
	return exprPrec(e, precLowest)
}

func exprPrec(e ir.Expr, outer int) string {
	s := exprText(e)
	if precOf(e) < outer {
		return "(" + s + ")"
	}
	return s
}

func exprText(e ir.Expr) string {
	switch e := e.(type) {
	case ir.Name:
		return e.ID
	case ir.IntLit, ir.FloatLit, ir.NoneLit, ir.BoolLit, ir.DictLit:
		return e.String()
	case ir.StrLit:
		return quote(e.Val)
	case ir.ListLit:
		elems := make([]string, len(e.Elems))
		for i, el := range e.Elems {
			elems[i] = expr(el)
		}
		return "[" + strings.Join(elems, ", ") + "]"
	case ir.BinaryExpr:
		p := binaryPrec(e.Op)
		left, right := p, p+1
		switch {
		case p == precPow:
			// right associative
			left, right = p+1, p
		case p == precCompare:
			// comparisons chain, so a nested comparison needs parentheses
			left = p + 1
		}
		return exprPrec(e.Left, left) + " " + e.Op.String() + " " + exprPrec(e.Right, right)
	case ir.UnaryExpr:
		if e.Op == ir.OpNot {
			return "not " + exprPrec(e.Operand, precNot)
		}
		return "-" + exprPrec(e.Operand, precUnary)
	case ir.CallExpr:
		args := make([]string, len(e.Args))
		for i, a := range e.Args {
			args[i] = expr(a)
		}
		return exprPrec(e.Func, precAtom) + "(" + strings.Join(args, ", ") + ")"
	case ir.AttrExpr:
		value := exprPrec(e.Value, precAtom)
		if _, ok := e.Value.(ir.IntLit); ok {
			value = "(" + value + ")"
		}
		return value + "." + e.Attr
	case ir.ListComp:
		s := "[" + expr(e.Elem) + " for " + e.Var + " in " + exprPrec(e.Iter, precOr)
		if e.Cond != nil {
			s += " if " + exprPrec(e.Cond, precOr)
		}
		return s + "]"
	case ir.FString:
		return fstring(e)
	}
	return e.String()
}

// quote prints a string literal. Go escapes are a subset of Python's for
// the characters strconv produces.
func quote(s string) string {
	return strconv.Quote(s)
}

func fstring(f ir.FString) string {
	var sb strings.Builder
	sb.WriteString(`f"`)
	for _, p := range f.Parts {
		if p.Value != nil {
			sb.WriteString("{" + strings.ReplaceAll(expr(p.Value), `"`, `'`) + "}")
			continue
		}
		text := quote(p.Text)
		text = text[1 : len(text)-1]
		text = strings.ReplaceAll(text, "{", "{{")
		text = strings.ReplaceAll(text, "}", "}}")
		sb.WriteString(text)
	}
	sb.WriteString(`"`)
	return sb.String()
}
