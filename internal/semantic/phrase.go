package semantic

import (
	"strconv"
	"strings"
	"unicode"

	"github.com/gnoswap-labs/nlc/internal/ir"
	"github.com/gnoswap-labs/nlc/internal/types"
)

// dataNoun describes how a head noun becomes a parameter.
type dataNoun struct {
	name      string
	typ       string
	container bool
}

var dataNouns = map[string]dataNoun{
	"number":      {name: "n", typ: "int"},
	"integer":     {name: "n", typ: "int"},
	"digit":       {name: "d", typ: "int"},
	"list":        {name: "lst", container: true},
	"array":       {name: "arr", container: true},
	"collection":  {name: "items", container: true},
	"sequence":    {name: "seq", container: true},
	"string":      {name: "s", typ: "str"},
	"text":        {name: "text", typ: "str"},
	"word":        {name: "word", typ: "str"},
	"sentence":    {name: "sentence", typ: "str"},
	"paragraph":   {name: "text", typ: "str"},
	"character":   {name: "ch", typ: "str"},
	"char":        {name: "ch", typ: "str"},
	"letter":      {name: "ch", typ: "str"},
	"name":        {name: "name", typ: "str"},
	"float":       {name: "x", typ: "float"},
	"dictionary":  {name: "d", typ: "Dict[str, Any]"},
	"dict":        {name: "d", typ: "Dict[str, Any]"},
	"year":        {name: "year", typ: "int"},
	"age":         {name: "age", typ: "int"},
	"temperature": {name: "temp", typ: "float"},
	"celsius":     {name: "celsius", typ: "float"},
	"fahrenheit":  {name: "fahrenheit", typ: "float"},
	"radius":      {name: "radius", typ: "float"},
	"price":       {name: "price", typ: "float"},
	"salary":      {name: "salary", typ: "float"},
	"amount":      {name: "amount", typ: "float"},
	"matrix":      {name: "matrix", typ: "List[List[Any]]"},
	"item":        {name: "item"},
	"element":     {name: "item"},
	"value":       {name: "value"},
	"target":      {name: "target"},
	"limit":       {name: "limit", typ: "int"},
	"index":       {name: "index", typ: "int"},
}

var wordNumbers = map[string]int64{
	"zero": 0, "one": 1, "two": 2, "three": 3, "four": 4, "five": 5,
	"six": 6, "seven": 7, "eight": 8, "nine": 9, "ten": 10, "eleven": 11,
	"twelve": 12, "hundred": 100, "thousand": 1000, "million": 1000000,
}

// phrase is a shallow analysis of a noun phrase: "the two largest numbers
// of a list" has Count 2, Modifiers [largest], Head numbers and an Of
// phrase headed by list.
type phrase struct {
	Count     int
	Modifiers []types.Token
	Head      types.Token
	HasHead   bool
	headAt    int
	Plural    bool
	Of        *phrase
	Tokens    []types.Token
}

func parsePhrase(toks []types.Token) phrase {
	p := phrase{Tokens: toks}
	i := 0
	for ; i < len(toks); i++ {
		t := toks[i]
		if t.Lemma == "both" {
			p.Count = 2
			continue
		}
		if t.Category == types.Determiner {
			continue
		}
		if t.Category == types.Numeral {
			if n, ok := parseNumber(t); ok && n > 1 && n <= 10 {
				p.Count = int(n)
			}
			continue
		}
		break
	}

	head := -1
	var mods []types.Token
scan:
	for ; i < len(toks); i++ {
		t := toks[i]
		switch {
		case t.Lemma == "of" && head >= 0:
			of := parsePhrase(toks[i+1:])
			p.Of = &of
			break scan
		case t.Category.IsNominal():
			if head >= 0 {
				mods = append(mods, toks[head])
			}
			head = i
		case t.Category == types.Adjective, t.Category == types.Numeral, t.Category == types.Verb:
			if head >= 0 {
				break scan
			}
			mods = append(mods, t)
		case head >= 0:
			break scan
		}
	}

	p.Modifiers = mods
	if head >= 0 {
		p.Head = toks[head]
		p.HasHead = true
		p.headAt = head
		p.Plural = toks[head].Tag == "NNS" || toks[head].Tag == "NNPS"
	}
	return p
}

// headLemma returns the head's lemma, or "".
func (p phrase) headLemma() string {
	if !p.HasHead {
		return ""
	}
	return p.Head.Lemma
}

func (p phrase) data() (dataNoun, bool) {
	d, ok := dataNouns[p.headLemma()]
	return d, ok
}

// isCollection reports whether the phrase denotes many values: a container
// noun or a plural.
func (p phrase) isCollection() bool {
	if d, ok := p.data(); ok && d.container {
		return true
	}
	return p.Plural && p.Count == 0
}

// elemType is the element type of a collection phrase.
func (p phrase) elemType() string {
	if p.Of != nil {
		if d, ok := p.Of.data(); ok && d.typ != "" && !d.container {
			return d.typ
		}
	}
	if d, ok := p.data(); ok && !d.container && d.typ != "" {
		return d.typ
	}
	return "Any"
}

// elemVar names the variable that walks a collection phrase.
func (p phrase) elemVar() string {
	target := p
	if d, ok := p.data(); ok && d.container && p.Of != nil {
		target = *p.Of
	}
	switch target.headLemma() {
	case "number", "integer":
		return "num"
	case "string":
		return "s"
	case "word":
		return "word"
	case "character", "char", "letter":
		return "ch"
	case "", "list", "array", "collection", "item", "element":
		return "item"
	}
	return orName(ir.ParamName(target.headLemma()), "item")
}

// orName returns name, or fallback when a noun left no usable identifier.
func orName(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}

// params infers the parameters a phrase stands for. elem overrides the
// element type of a container when it is known from elsewhere.
func (p phrase) params(elem string) []ir.Param {
	if !p.HasHead {
		return nil
	}
	d, known := p.data()
	if p.Count >= 2 {
		base := d.name
		if !known {
			base = orName(ir.ParamName(p.Head.Lemma), "arg")
		}
		out := make([]ir.Param, p.Count)
		for i := range out {
			name := base + strconv.Itoa(i+1)
			if base == "n" && p.Count <= 3 {
				name = string(rune('a' + i))
			}
			out[i] = ir.Param{Name: name, Type: d.typ}
		}
		return out
	}

	switch {
	case known && d.container:
		if elem == "" {
			elem = p.elemType()
		}
		return []ir.Param{{Name: d.name, Type: containerType(p.Head.Lemma, elem)}}
	case p.Plural:
		elemType := d.typ
		if elemType == "" {
			elemType = "Any"
		}
		return []ir.Param{{Name: orName(ir.ParamName(strings.ToLower(p.Head.Text)), "items"), Type: "List[" + elemType + "]"}}
	case known:
		return []ir.Param{{Name: d.name, Type: d.typ}}
	}
	return []ir.Param{{Name: orName(ir.ParamName(p.Head.Lemma), "value")}}
}

func containerType(head, elem string) string {
	switch head {
	case "dictionary", "dict":
		return "Dict[str, " + elem + "]"
	}
	return "List[" + elem + "]"
}

// parseNumber reads a numeric token: digits, a decimal or a number word.
func parseNumber(t types.Token) (int64, bool) {
	if n, ok := wordNumbers[t.Lemma]; ok {
		return n, true
	}
	n, err := strconv.ParseInt(t.Text, 10, 64)
	return n, err == nil
}

// numberExpr converts a numeric token into a literal.
func numberExpr(t types.Token) (ir.Expr, bool) {
	if n, ok := parseNumber(t); ok {
		return ir.Int(n), true
	}
	if _, err := strconv.ParseFloat(t.Text, 64); err == nil {
		return ir.FloatLit{Val: t.Text}, true
	}
	return nil, false
}

// words returns the lemmas of the content tokens, skipping determiners and
// function words.
func words(toks []types.Token) []string {
	var out []string
	for _, t := range toks {
		if t.Category.IsContent() {
			out = append(out, t.Lemma)
		}
	}
	return out
}

// sentence joins tokens into prose: no space before punctuation, the first
// letter capitalized and a final period. Quotes and backslashes are dropped
// so the result can sit inside a docstring.
func sentence(toks []types.Token) string {
	var sb strings.Builder
	for _, t := range toks {
		text := strings.Map(func(r rune) rune {
			if r == '"' || r == '\\' || r == '\'' && t.Category == types.Punctuation {
				return -1
			}
			return r
		}, t.Text)
		if text == "" {
			continue
		}
		if sb.Len() > 0 && !(t.Category == types.Punctuation && strings.ContainsAny(text, ",.;:!?)")) {
			sb.WriteByte(' ')
		}
		sb.WriteString(text)
	}
	s := strings.TrimSpace(sb.String())
	s = strings.TrimRight(s, ",;: ")
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	s = string(r)
	if !strings.HasSuffix(s, ".") && !strings.HasSuffix(s, "?") && !strings.HasSuffix(s, "!") {
		s += "."
	}
	return s
}
