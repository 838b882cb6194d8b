package semantic

import (
	"strings"

	"github.com/gnoswap-labs/nlc/internal/extract"
	"github.com/gnoswap-labs/nlc/internal/ir"
	"github.com/gnoswap-labs/nlc/internal/types"
)

func (st *mapping) conditional() (ir.Node, error) {
	s := st.slots
	if !s.Has(extract.SlotCondition) {
		return nil, st.missing(extract.SlotCondition)
	}

	subject := st.phrase(extract.SlotSubject)
	v := "x"
	if ps := subject.params(""); len(ps) > 0 {
		v = ps[0].Name
	}

	test, ok := predicateExpr(s.Tokens(extract.SlotPredicate), ir.Var(v))
	if !ok {
		pred := nameWords(s.Tokens(extract.SlotPredicate))
		if len(pred) == 0 {
			pred = nameWords(s.Tokens(extract.SlotCondition))
		}
		fn := ir.Identifier(append([]string{"is"}, pred...)...)
		test = ir.Call(fn, ir.Var(v))
		st.warn(fn, "condition %q is not a known predicate; assumed a helper function", s.Text(extract.SlotCondition))
	}

	then := st.branch(extract.SlotThen, ir.Var(v), subject)
	if len(then) == 0 {
		then = []ir.Statement{ir.Pass{}}
	}
	return ir.Conditional{
		Test: test,
		Then: then,
		Else: st.branch(extract.SlotElse, ir.Var(v), subject),
	}, nil
}

// branch turns a "print it" clause into a statement. A display of the
// tested value or of another variable prints that value; any other object
// is printed as text. Generated statements sit at module level, so other verbs become a
// placeholder.
func (st *mapping) branch(slot string, v ir.Expr, subject phrase) []ir.Statement {
	toks := st.slots.Tokens(slot)
	if len(toks) == 0 {
		return nil
	}
	object := trimDet(toks[1:])

	if st.slots.Canonical(slot) == "display" {
		if refersTo(object, subject) {
			return []ir.Statement{ir.Print(v)}
		}
		if name, ok := variableRef(object, st.slots.Tokens(extract.SlotCondition)); ok {
			return []ir.Statement{ir.Print(ir.Var(name))}
		}
		return []ir.Statement{ir.Print(ir.Str(plainText(object)))}
	}
	return st.placeholder(st.slots.Canonical(slot), toks)
}

// refersTo reports whether an object names the tested value: nothing, a
// pronoun or the subject's head noun.
func refersTo(object []types.Token, subject phrase) bool {
	if len(object) == 0 {
		return true
	}
	if len(object) == 1 && object[0].Category == types.Pronoun {
		return true
	}
	if !subject.HasHead {
		return false
	}
	for _, t := range object {
		if t.Lemma == subject.Head.Lemma {
			return true
		}
	}
	return false
}

// variableRef reports whether a one-word object names a variable: a single
// letter such as "y", or a noun the condition already uses.
func variableRef(object, condition []types.Token) (string, bool) {
	if len(object) != 1 || !object[0].Category.IsNominal() {
		return "", false
	}
	t := object[0]
	name := ir.ParamName(t.Text)
	if name == "" {
		return "", false
	}
	if len(name) == 1 {
		return name, true
	}
	for _, c := range condition {
		if c.Category.IsNominal() && c.Lemma == t.Lemma {
			return name, true
		}
	}
	return "", false
}

func trimDet(toks []types.Token) []types.Token {
	for len(toks) > 0 && (toks[0].Category == types.Determiner || toks[0].Category == types.Punctuation) {
		toks = toks[1:]
	}
	for len(toks) > 0 && toks[len(toks)-1].Category == types.Punctuation {
		toks = toks[:len(toks)-1]
	}
	return toks
}

func plainText(toks []types.Token) string {
	parts := make([]string, 0, len(toks))
	for _, t := range toks {
		if t.Category == types.Punctuation && t.Text != "!" && t.Text != "?" {
			continue
		}
		parts = append(parts, t.Text)
	}
	return strings.Join(parts, " ")
}

func (st *mapping) loop() (ir.Node, error) {
	s := st.slots
	switch {
	case s.Has(extract.SlotStart) && s.Has(extract.SlotStop):
		return st.rangeLoop()
	case s.Has(extract.SlotIterable):
		return st.eachLoop()
	}
	return nil, st.missing(extract.SlotSource)
}

// rangeLoop handles "print numbers from 1 to 10". The upper bound is
// inclusive.
func (st *mapping) rangeLoop() (ir.Node, error) {
	s := st.slots
	const v = "i"

	start := boundExpr(s.Tokens(extract.SlotStart))
	stop := boundExpr(s.Tokens(extract.SlotStop))
	if n, ok := stop.(ir.IntLit); ok {
		stop = ir.Int(n.Val + 1)
	} else {
		stop = ir.Binary(ir.OpAdd, stop, ir.Int(1))
	}

	body := st.loopBody(v)
	restriction := s.Tokens(extract.SlotPredicate)
	if test, ok := predicateExpr(restriction, ir.Var(v)); ok {
		body = []ir.Statement{ir.Conditional{Test: test, Then: body}}
	} else if test, ok := modifierTest(restriction, ir.Var(v)); ok {
		body = []ir.Statement{ir.Conditional{Test: test, Then: body}}
	}

	return ir.Loop{
		Var:      v,
		Iterable: ir.Call("range", start, stop),
		Body:     body,
	}, nil
}

func boundExpr(toks []types.Token) ir.Expr {
	if len(toks) == 1 {
		if e, ok := numberExpr(toks[0]); ok {
			return e
		}
	}
	name := ir.ParamName(nameWords(toks)...)
	if name == "" {
		name = "n"
	}
	return ir.Var(name)
}

// eachLoop handles "for each item in the list, print the item" and its
// variants. Without an explicit variable the element name is derived from
// the collection.
func (st *mapping) eachLoop() (ir.Node, error) {
	s := st.slots
	iterable := st.phrase(extract.SlotIterable)

	iter := "items"
	if ps := iterable.params(""); len(ps) > 0 && ir.ParamName(iterable.headLemma()) != "" {
		iter = ps[0].Name
	}

	v := iterable.elemVar()
	restriction := s.Tokens(extract.SlotPredicate)
	if s.Has(extract.SlotVar) {
		vp := st.phrase(extract.SlotVar)
		if vp.HasHead {
			v = ir.Identifier(vp.Head.Lemma)
		}
		if len(vp.Modifiers) > 0 {
			restriction = vp.Modifiers
		}
	}
	if v == "" || v == iter {
		v = "x"
	}

	body := st.loopBody(v)
	if test, ok := modifierTest(restriction, ir.Var(v)); ok {
		body = []ir.Statement{ir.Conditional{Test: test, Then: body}}
	}
	return ir.Loop{Var: v, Iterable: ir.Var(iter), Body: body}, nil
}

// loopBody acts on the loop variable. Display verbs print it, whatever
// object the instruction names.
func (st *mapping) loopBody(v string) []ir.Statement {
	toks := st.slots.Tokens(extract.SlotBody)
	if len(toks) == 0 {
		return []ir.Statement{ir.Pass{}}
	}
	if st.slots.Canonical(extract.SlotBody) == "display" {
		return []ir.Statement{ir.Print(ir.Var(v))}
	}
	return st.placeholder(v, toks)
}
