package semantic

import (
	"strings"

	"github.com/gnoswap-labs/nlc/internal/extract"
	"github.com/gnoswap-labs/nlc/internal/ir"
	"github.com/gnoswap-labs/nlc/internal/types"
)

var attributeTypes = map[string]string{
	"salary": "float", "price": "float", "amount": "float", "balance": "float",
	"cost": "float", "rate": "float", "weight": "float", "height": "float",
	"width": "float", "length": "float", "radius": "float", "temperature": "float",
	"speed": "float", "gpa": "float", "bonus": "float", "score": "float",
	"age": "int", "count": "int", "year": "int", "quantity": "int",
	"number": "int", "id": "int", "size": "int", "grade": "int",
}

var (
	incrementVerbs = map[string]bool{"deposit": true, "increase": true, "increment": true, "sum": true, "raise": true}
	decrementVerbs = map[string]bool{"withdraw": true, "decrease": true, "decrement": true, "subtract": true}
)

// lemmas introducing a class purpose ("a class to represent ...")
var classIntroducers = map[string]bool{"to": true, "that": true, "which": true, "for": true}

func (st *mapping) class() (ir.Node, error) {
	s := st.slots
	if !s.Has(extract.SlotSubject) {
		return nil, st.missing(extract.SlotSubject)
	}

	subject := s.Tokens(extract.SlotSubject)
	texts := make([]string, 0, len(subject))
	for _, t := range subject {
		texts = append(texts, t.Text)
	}
	cls := ir.ClassSpec{Name: ir.ClassName(texts...)}
	if cls.Name == "" {
		cls.Name = "GeneratedClass"
	}
	if purpose := s.Tokens(extract.SlotPurpose); len(purpose) > 1 && classIntroducers[purpose[0].Lemma] {
		cls.Doc = sentence(purpose[1:])
	}

	if idiom, ok := st.m.idioms.LookupClass(words(subject)); ok {
		st.idiom = idiom.ID
		cls.Attributes = append(cls.Attributes, idiom.Fields...)
		for _, m := range idiom.Methods {
			params, hint, body := bindIdiom(m.ID, m.Params, m.Returns, nil)
			cls.Methods = append(cls.Methods, ir.FunctionSpec{
				Name:       m.Name,
				Params:     params,
				ReturnHint: hint,
				Body:       body,
				Method:     true,
			})
		}
		return cls, nil
	}

	cls.Attributes = st.attributes()
	names := make([]string, 0)
	for _, item := range s.Items(extract.SlotMethods) {
		m := st.method(cls.Name, cls.Attributes, item)
		names = append(names, m.Name)
		cls.Methods = append(cls.Methods, m)
	}
	for i, n := range ir.Unique(names) {
		cls.Methods[i].Name = n
	}
	if len(cls.Attributes) == 0 && len(cls.Methods) == 0 {
		st.warn(cls.Name, "class has no attributes or methods; generated an empty body")
	}
	return cls, nil
}

func (st *mapping) attributes() []ir.Attribute {
	var attrs []ir.Attribute
	var names []string
	for _, item := range st.slots.Items(extract.SlotAttributes) {
		name := ir.Identifier(nameWords(item)...)
		if name == "" || name == "self" {
			continue
		}
		attrs = append(attrs, ir.Attribute{Name: name, Type: attributeType(item)})
		names = append(names, name)
	}
	for i, n := range ir.Unique(names) {
		attrs[i].Name = n
	}
	return attrs
}

func attributeType(item []types.Token) string {
	for i := len(item) - 1; i >= 0; i-- {
		if typ, ok := attributeTypes[item[i].Lemma]; ok {
			return typ
		}
		if item[i].Category.IsNominal() {
			break
		}
	}
	return "str"
}

// method builds one method from a "display details"/"deposit money" item.
// The verb decides the behavior.
func (st *mapping) method(class string, attrs []ir.Attribute, item []types.Token) ir.FunctionSpec {
	verb := item[0]
	object := untilConj(item[1:])
	fn := ir.FunctionSpec{
		Name:   ir.Identifier(append([]string{verb.Lemma}, nameWords(object)...)...),
		Method: true,
	}
	if fn.Name == "" {
		fn.Name = "method"
	}

	canonical := st.m.syn.Normalize(verb.Lemma)
	mentioned := mentionedAttributes(attrs, item[1:])

	switch {
	case canonical == "display":
		targets := mentioned
		if len(targets) == 0 {
			targets = attrs
		}
		if len(targets) == 0 {
			fn.Body = []ir.Statement{ir.Print(ir.Str(class))}
			return fn
		}
		for _, a := range targets {
			fn.Body = append(fn.Body, ir.Print(ir.FString{Parts: []ir.FPart{
				{Text: label(a.Name) + ": "},
				{Value: ir.Self(a.Name)},
			}}))
		}
		fn.ReturnHint = "None"

	case (canonical == "compute" || canonical == "return") && len(mentioned) > 0:
		a := mentioned[0]
		fn.Name = "get_" + a.Name
		fn.ReturnHint = a.Type
		fn.Body = []ir.Statement{ir.Return{Expr: ir.Self(a.Name)}}

	case canonical == "assign" && len(mentioned) > 0:
		a := mentioned[0]
		fn.Name = "set_" + a.Name
		fn.Params = []ir.Param{{Name: a.Name, Type: a.Type}}
		fn.ReturnHint = "None"
		fn.Body = []ir.Statement{ir.Assign{Target: ir.Self(a.Name), Value: ir.Var(a.Name)}}

	case incrementVerbs[canonical] || decrementVerbs[canonical]:
		a, ok := numericTarget(attrs, mentioned)
		if !ok {
			fn.Body = st.placeholder(fn.Name, item)
			return fn
		}
		op := ir.OpAdd
		if decrementVerbs[canonical] {
			op = ir.OpSub
		}
		fn.Params = []ir.Param{{Name: "amount", Type: a.Type}}
		if a.Name == "amount" {
			fn.Params[0].Name = "value"
		}
		fn.ReturnHint = "None"
		fn.Body = []ir.Statement{ir.Assign{
			Target: ir.Self(a.Name),
			Value:  ir.Binary(op, ir.Self(a.Name), ir.Var(fn.Params[0].Name)),
		}}

	default:
		fn.Body = st.placeholder(fn.Name, item)
	}
	return fn
}

// mentionedAttributes returns the attributes named in toks, in attribute
// order.
func mentionedAttributes(attrs []ir.Attribute, toks []types.Token) []ir.Attribute {
	said := make(map[string]bool, len(toks))
	for _, t := range toks {
		said[ir.Identifier(t.Lemma)] = true
		said[ir.Identifier(t.Text)] = true
	}
	var out []ir.Attribute
	for _, a := range attrs {
		last := a.Name
		if i := strings.LastIndexByte(last, '_'); i >= 0 {
			last = last[i+1:]
		}
		if said[a.Name] || said[last] {
			out = append(out, a)
		}
	}
	return out
}

func numericTarget(attrs, mentioned []ir.Attribute) (ir.Attribute, bool) {
	for _, group := range [][]ir.Attribute{mentioned, attrs} {
		for _, a := range group {
			if a.Type == "float" || a.Type == "int" {
				return a, true
			}
		}
	}
	return ir.Attribute{}, false
}

// label turns an attribute name into display text: "interest_rate"
// becomes "Interest Rate".
func label(name string) string {
	parts := strings.Split(strings.Trim(name, "_"), "_")
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
