package semantic

import (
	"strings"

	"github.com/gnoswap-labs/nlc/internal/extract"
	"github.com/gnoswap-labs/nlc/internal/ir"
	"github.com/gnoswap-labs/nlc/internal/types"
)

// operations whose result is a subset of their source
var selectingOps = map[string]bool{"return": true, "compute": true, "filter": true}

// heads that measure another noun: "the number of vowels", "the sum of
// the list"
var measureNouns = map[string]bool{
	"number": true, "count": true, "amount": true, "total": true,
	"list": true, "array": true, "collection": true, "set": true,
}

// verbs that read better as "get" in a function name
var getterVerbs = map[string]bool{"return": true, "give": true, "yield": true, "obtain": true}

type functionShape struct {
	op      string
	opLemma string
	subject phrase
	source  phrase
	input   phrase
	filter  bool
	filters []types.Token
}

func (st *mapping) function() (ir.Node, error) {
	s := st.slots
	if !s.Has(extract.SlotSubject) && !s.Has(extract.SlotInput) {
		return nil, st.missing(extract.SlotSubject)
	}

	sh := st.shape()
	params := st.params(sh)
	fn := ir.FunctionSpec{
		Name: st.functionName(sh),
		Doc:  sentence(s.Tokens(extract.SlotPurpose)),
	}

	var extra []string
	if sh.filter {
		extra = append(extra, "filter")
	}
	if idiom, keys, ok := st.m.idioms.Resolve(st.fingerprint(extra...)); ok {
		st.idiom = idiom.ID
		if !s.Has(extract.SlotName) && !st.namesIdiom(fn.Name, keys) {
			fn.Name = st.idiomName(sh, idiom, keys)
		}
		fn.Params, fn.ReturnHint, fn.Body = bindIdiom(idiom.ID, idiom.Params, idiom.Returns, params)
		return fn, nil
	}

	fn.Params = params
	fn.Body, fn.ReturnHint = st.synthesize(sh, fn.Name, params)
	return fn, nil
}

func (st *mapping) shape() functionShape {
	s := st.slots
	sh := functionShape{
		op:      s.Canonical(extract.SlotOperation),
		subject: st.phrase(extract.SlotSubject),
		source:  st.phrase(extract.SlotSource),
		input:   st.phrase(extract.SlotInput),
	}
	if toks := s.Tokens(extract.SlotOperation); len(toks) > 0 {
		sh.opLemma = toks[0].Lemma
	}

	if sh.op == "check" || !s.Has(extract.SlotSource) {
		return sh
	}
	// "returns a list of even numbers from a list", "numbers greater than
	// 10 from the list", "the numbers that are even from a list"
	switch {
	case s.Has(extract.SlotPredicate):
		sh.filters = s.Tokens(extract.SlotPredicate)
	case sh.subject.Of != nil && len(sh.subject.Of.Modifiers) > 0:
		sh.filters = sh.subject.Of.Modifiers
	case len(sh.subject.Modifiers) > 0:
		sh.filters = sh.subject.Modifiers
	default:
		sh.filters = tailAfterHead(sh.subject)
	}
	collection := sh.subject.isCollection() || sh.subject.Of != nil && sh.subject.Of.isCollection()
	sh.filter = collection && len(sh.filters) > 0 && (selectingOps[sh.op] || sh.op == "filter")
	return sh
}

// tailAfterHead returns the words after the head of a phrase without an
// of-phrase: "greater than 10" in "numbers greater than 10".
func tailAfterHead(p phrase) []types.Token {
	if !p.HasHead || p.Of != nil {
		return nil
	}
	return p.Tokens[p.headAt+1:]
}

// params infers the parameter list: explicit inputs and sources first, then
// the subject of a check, then the noun the subject is computed from.
func (st *mapping) params(sh functionShape) []ir.Param {
	var params []ir.Param
	params = append(params, sh.input.params("")...)

	elem := ""
	switch {
	case sh.subject.isCollection() && sh.subject.Of != nil:
		elem = sh.subject.elemType()
	case sh.subject.Plural:
		elem = sh.subject.elemType()
	}
	params = append(params, sh.source.params(elem)...)

	if len(params) == 0 {
		params = append(params, subjectParams(sh.subject)...)
	}

	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}
	for i, n := range ir.Unique(names) {
		params[i].Name = n
	}
	return params
}

func subjectParams(p phrase) []ir.Param {
	if d, ok := p.data(); ok && d.container {
		return p.params("")
	}
	if p.Of != nil && p.Of.HasHead {
		return p.Of.params("")
	}
	return p.params("")
}

func (st *mapping) functionName(sh functionShape) string {
	s := st.slots
	var name string
	switch {
	case s.Has(extract.SlotName):
		name = ir.Identifier(s.Text(extract.SlotName))
	case sh.op == "check" && s.Has(extract.SlotPredicate):
		name = ir.Identifier(append([]string{"is"}, nameWords(s.Tokens(extract.SlotPredicate))...)...)
	case sh.op == "check":
		name = ir.Identifier(append([]string{"is"}, nameWords(headWords(sh.subject))...)...)
	case sh.filter:
		target := sh.subject
		if sh.subject.Of != nil {
			target = *sh.subject.Of
		}
		name = ir.Identifier(append([]string{"get"}, nameWords(target.Tokens)...)...)
	case sh.opLemma != "":
		verb := sh.opLemma
		if getterVerbs[verb] {
			verb = "get"
		}
		name = ir.Identifier(append([]string{verb}, nameWords(headWords(sh.subject))...)...)
	default:
		name = ir.Identifier(nameWords(headWords(sh.subject))...)
	}
	if name == "" {
		return "generated_function"
	}
	return name
}

// keys that say what an idiom works on rather than what it computes
var genericKeys = map[string]bool{
	"list": true, "array": true, "number": true, "integer": true, "two": true,
	"string": true, "word": true, "element": true, "item": true,
}

// namesIdiom reports whether a derived function name mentions one of the
// distinctive keys of the idiom's fingerprint. "calculate_sum" does not name
// an idiom resolved from {list, maximum}.
func (st *mapping) namesIdiom(name string, keys []string) bool {
	said := make(map[string]bool)
	for _, w := range strings.Split(name, "_") {
		for _, form := range []string{w, strings.TrimSuffix(w, "s")} {
			said[form] = true
			if c, ok := st.m.syn.Canonical(form); ok {
				said[c] = true
			}
		}
	}
	distinctive := false
	for _, k := range keys {
		if genericKeys[k] || strings.HasPrefix(k, "to:") {
			continue
		}
		if st.slots.Canonical(extract.SlotAction) == k || st.slots.Canonical(extract.SlotOperation) == k {
			continue
		}
		distinctive = true
		if said[k] {
			return true
		}
	}
	return !distinctive
}

// idiomName names a function after the idiom it resolved to: the idiom's
// own name, or the operation verb followed by the fingerprint's distinctive
// keys.
func (st *mapping) idiomName(sh functionShape, idiom *Idiom, keys []string) string {
	if idiom.Name != "" {
		return idiom.Name
	}
	verb := sh.opLemma
	if verb == "" || getterVerbs[verb] {
		verb = "get"
	}
	parts := []string{verb}
	for _, k := range keys {
		if !genericKeys[k] && !strings.HasPrefix(k, "to:") && k != sh.op && k != st.slots.Canonical(extract.SlotAction) {
			parts = append(parts, k)
		}
	}
	if name := ir.Identifier(parts...); name != "" && len(parts) > 1 {
		return name
	}
	return ir.Identifier(idiom.ID)
}

// headWords returns the tokens that name a phrase: the modifiers and head,
// or the of-phrase when the head only measures it.
func headWords(p phrase) []types.Token {
	if !p.HasHead {
		return p.Tokens
	}
	if measureNouns[p.Head.Lemma] && p.Of != nil {
		return headWords(*p.Of)
	}
	out := make([]types.Token, 0, len(p.Modifiers)+1)
	out = append(out, p.Modifiers...)
	return append(out, p.Head)
}

// bindIdiom assigns each idiom role a parameter. A name or type fixed by
// the idiom wins; otherwise the inferred parameter at the same position is
// used, and the role name when nothing was inferred.
func bindIdiom(id string, roles []RoleSpec, returns string, inferred []ir.Param) ([]ir.Param, string, []ir.Statement) {
	params := make([]ir.Param, len(roles))
	names := make([]string, len(roles))
	for i, r := range roles {
		p := ir.Param{Name: r.Role, Type: r.Type}
		if i < len(inferred) {
			p.Name = inferred[i].Name
			if p.Type == "" {
				p.Type = inferred[i].Type
			}
		}
		if r.Name != "" {
			p.Name = r.Name
		}
		params[i] = p
		names[i] = p.Name
	}

	bindings := make(map[string]string, len(roles))
	for i, n := range ir.Unique(names) {
		params[i].Name = n
		bindings[roles[i].Role] = n
	}

	hint := returns
	if strings.HasPrefix(returns, "$") {
		hint = ""
		for i, r := range roles {
			if r.Role == returns[1:] {
				hint = params[i].Type
			}
		}
	}
	if hint == "" && len(params) > 0 {
		hint = elementOf(params[0].Type)
	}

	return params, hint, []ir.Statement{ir.RawIdiom{IdiomID: id, Bindings: bindings}}
}

// elementOf returns X for "List[X]" when X is concrete.
func elementOf(typ string) string {
	if !strings.HasPrefix(typ, "List[") || !strings.HasSuffix(typ, "]") {
		return ""
	}
	elem := typ[len("List[") : len(typ)-1]
	if elem == "Any" {
		return ""
	}
	return elem
}

// synthesize builds a body without an idiom: a predicate test for checks,
// a comprehension for filters, a print for displays and a placeholder for
// everything else.
func (st *mapping) synthesize(sh functionShape, name string, params []ir.Param) ([]ir.Statement, string) {
	purpose := st.slots.Tokens(extract.SlotPurpose)
	if len(params) == 0 {
		return st.placeholder(name, purpose), ""
	}
	first := params[0]

	switch {
	case sh.op == "check":
		if test, ok := predicateExpr(st.slots.Tokens(extract.SlotPredicate), ir.Var(first.Name)); ok {
			return []ir.Statement{ir.Return{Expr: test}}, "bool"
		}
		return st.placeholder(name, purpose), "bool"

	case sh.filter:
		src := first
		if len(params) > 1 && st.slots.Has(extract.SlotInput) {
			src = params[len(params)-1]
		}
		elem := sh.subject.elemVar()
		if elem == src.Name {
			elem = "x"
		}
		test, ok := predicateExpr(sh.filters, ir.Var(elem))
		if !ok {
			test, ok = modifierTest(sh.filters, ir.Var(elem))
		}
		if !ok {
			return st.placeholder(name, purpose), src.Type
		}
		comp := ir.ListComp{Elem: ir.Var(elem), Var: elem, Iter: ir.Var(src.Name), Cond: test}
		return []ir.Statement{ir.Return{Expr: comp}}, src.Type

	case sh.op == "display":
		collection := sh.source
		if !st.slots.Has(extract.SlotSource) {
			collection = sh.subject
		}
		if collection.isCollection() || strings.HasPrefix(first.Type, "List[") {
			elem := collection.elemVar()
			if elem == first.Name {
				elem = "x"
			}
			return []ir.Statement{ir.Loop{
				Var:      elem,
				Iterable: ir.Var(first.Name),
				Body:     []ir.Statement{ir.Print(ir.Var(elem))},
			}}, ""
		}
		return []ir.Statement{ir.Print(ir.Var(first.Name))}, ""
	}

	return st.placeholder(name, purpose), ""
}
