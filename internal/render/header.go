package render

import (
	"sort"
	"strings"

	"github.com/gnoswap-labs/nlc/internal/ir"
)

// names importable from typing that type hints may use
var typingNames = map[string]bool{
	"Any": true, "Dict": true, "List": true, "Optional": true,
	"Set": true, "Tuple": true, "Union": true, "Callable": true,
}

// header returns the import lines a tree needs: idiom module imports
// first, then typing names used by the emitted hints.
func (r *Renderer) header(n ir.Node) string {
	modules := make(map[string]bool)
	typing := make(map[string]bool)

	hint := func(typ string) {
		if !r.opts.TypeHints {
			return
		}
		for _, word := range strings.FieldsFunc(typ, func(c rune) bool {
			return !(c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z')
		}) {
			if typingNames[word] {
				typing[word] = true
			}
		}
	}

	var body func([]ir.Statement)
	body = func(stmts []ir.Statement) {
		for _, s := range stmts {
			switch s := s.(type) {
			case ir.RawIdiom:
				for _, m := range r.idioms[s.IdiomID].imports {
					modules[m] = true
				}
			case ir.Conditional:
				body(s.Then)
				body(s.Else)
			case ir.Loop:
				body(s.Body)
			}
		}
	}
	fn := func(f ir.FunctionSpec) {
		for _, p := range f.Params {
			hint(p.Type)
		}
		hint(f.ReturnHint)
		body(f.Body)
	}

	switch n := n.(type) {
	case ir.FunctionSpec:
		fn(n)
	case ir.ClassSpec:
		for _, a := range n.Attributes {
			hint(a.Type)
		}
		for _, m := range n.Methods {
			fn(m)
		}
	case ir.Statement:
		body([]ir.Statement{n})
	}

	var lines []string
	for _, m := range sortedKeys(modules) {
		lines = append(lines, "import "+m)
	}
	if len(typing) > 0 {
		lines = append(lines, "from typing import "+strings.Join(sortedKeys(typing), ", "))
	}
	if len(lines) == 0 {
		return ""
	}
	return strings.Join(lines, "\n") + "\n"
}

func sortedKeys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
