package semantic

import (
	"github.com/gnoswap-labs/nlc/internal/ir"
	"github.com/gnoswap-labs/nlc/internal/types"
)

// predicateRule turns an adjective phrase into a test over a value. Rules
// with arg take one numeric argument after their words.
type predicateRule struct {
	words []string
	arg   bool
	build func(v, arg ir.Expr) ir.Expr
}

func compare(op ir.BinaryOp) func(v, arg ir.Expr) ir.Expr {
	return func(v, arg ir.Expr) ir.Expr { return ir.Binary(op, v, arg) }
}

func parity(op ir.BinaryOp) func(v, _ ir.Expr) ir.Expr {
	return func(v, _ ir.Expr) ir.Expr {
		return ir.Binary(op, ir.Binary(ir.OpMod, v, ir.Int(2)), ir.Int(0))
	}
}

func divisible(v, arg ir.Expr) ir.Expr {
	return ir.Binary(ir.OpEq, ir.Binary(ir.OpMod, v, arg), ir.Int(0))
}

func stringTest(method string) func(v, _ ir.Expr) ir.Expr {
	return func(v, _ ir.Expr) ir.Expr { return ir.Method(v, method) }
}

// Longer word sequences come first so "greater than or equal to" is not
// read as "greater than".
var predicateRules = []predicateRule{
	{words: []string{"greater", "than", "or", "equal", "to"}, arg: true, build: compare(ir.OpGte)},
	{words: []string{"less", "than", "or", "equal", "to"}, arg: true, build: compare(ir.OpLte)},
	{words: []string{"not", "equal", "to"}, arg: true, build: compare(ir.OpNeq)},
	{words: []string{"greater", "than"}, arg: true, build: compare(ir.OpGt)},
	{words: []string{"more", "than"}, arg: true, build: compare(ir.OpGt)},
	{words: []string{"larger", "than"}, arg: true, build: compare(ir.OpGt)},
	{words: []string{"bigger", "than"}, arg: true, build: compare(ir.OpGt)},
	{words: []string{"higher", "than"}, arg: true, build: compare(ir.OpGt)},
	{words: []string{"less", "than"}, arg: true, build: compare(ir.OpLt)},
	{words: []string{"smaller", "than"}, arg: true, build: compare(ir.OpLt)},
	{words: []string{"fewer", "than"}, arg: true, build: compare(ir.OpLt)},
	{words: []string{"lower", "than"}, arg: true, build: compare(ir.OpLt)},
	{words: []string{"at", "least"}, arg: true, build: compare(ir.OpGte)},
	{words: []string{"at", "most"}, arg: true, build: compare(ir.OpLte)},
	{words: []string{"equal", "to"}, arg: true, build: compare(ir.OpEq)},
	{words: []string{"divisible", "by"}, arg: true, build: divisible},
	{words: []string{"multiple", "of"}, arg: true, build: divisible},
	{words: []string{"above"}, arg: true, build: compare(ir.OpGt)},
	{words: []string{"over"}, arg: true, build: compare(ir.OpGt)},
	{words: []string{"below"}, arg: true, build: compare(ir.OpLt)},
	{words: []string{"under"}, arg: true, build: compare(ir.OpLt)},
	{words: []string{"even"}, build: parity(ir.OpEq)},
	{words: []string{"odd"}, build: parity(ir.OpNeq)},
	{words: []string{"positive"}, build: compare0(ir.OpGt)},
	{words: []string{"negative"}, build: compare0(ir.OpLt)},
	{words: []string{"zero"}, build: compare0(ir.OpEq)},
	{words: []string{"empty"}, build: func(v, _ ir.Expr) ir.Expr {
		return ir.Binary(ir.OpEq, ir.Call("len", v), ir.Int(0))
	}},
	{words: []string{"uppercase"}, build: stringTest("isupper")},
	{words: []string{"upper", "case"}, build: stringTest("isupper")},
	{words: []string{"lowercase"}, build: stringTest("islower")},
	{words: []string{"lower", "case"}, build: stringTest("islower")},
	{words: []string{"digit"}, build: stringTest("isdigit")},
	{words: []string{"numeric"}, build: stringTest("isdigit")},
	{words: []string{"alphabetic"}, build: stringTest("isalpha")},
}

func compare0(op ir.BinaryOp) func(v, _ ir.Expr) ir.Expr {
	return func(v, _ ir.Expr) ir.Expr { return ir.Binary(op, v, ir.Int(0)) }
}

// predicateExpr builds a test of v from predicate tokens such as "even",
// "greater than 10" or "not divisible by 3". Trailing nouns are allowed
// ("an even number"); anything else makes the predicate unknown.
func predicateExpr(toks []types.Token, v ir.Expr) (ir.Expr, bool) {
	for len(toks) > 0 && (toks[0].Category == types.Determiner || toks[0].Category == types.Aux) {
		toks = toks[1:]
	}
	if len(toks) > 0 && toks[0].Lemma == "not" && !(len(toks) > 1 && toks[1].Lemma == "equal") {
		e, ok := predicateExpr(toks[1:], v)
		if !ok {
			return nil, false
		}
		return ir.Not(e), true
	}

	for _, r := range predicateRules {
		if !hasLemmas(toks, r.words) {
			continue
		}
		rest := toks[len(r.words):]
		var arg ir.Expr
		if r.arg {
			if len(rest) == 0 {
				continue
			}
			e, ok := numberExpr(rest[0])
			if !ok {
				continue
			}
			arg, rest = e, rest[1:]
		}
		if !onlyNominal(rest) {
			continue
		}
		return r.build(v, arg), true
	}
	return nil, false
}

func hasLemmas(toks []types.Token, lemmas []string) bool {
	if len(toks) < len(lemmas) {
		return false
	}
	for i, l := range lemmas {
		if toks[i].Lemma != l && toks[i].Lower() != l {
			return false
		}
	}
	return true
}

func onlyNominal(toks []types.Token) bool {
	for _, t := range toks {
		if !t.Category.IsNominal() && t.Category != types.Punctuation {
			return false
		}
	}
	return true
}

// modifierTest joins the known predicates among modifiers with "and". It
// reports false when no modifier is a known predicate.
func modifierTest(mods []types.Token, v ir.Expr) (ir.Expr, bool) {
	var test ir.Expr
	for i := range mods {
		e, ok := predicateExpr(mods[i:i+1], v)
		if !ok {
			continue
		}
		if test == nil {
			test = e
			continue
		}
		test = ir.Binary(ir.OpAnd, test, e)
	}
	return test, test != nil
}
