package render

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/nlc/internal/ir"
	"github.com/gnoswap-labs/nlc/pattern"
)

const idiomIndent = 4

func (r *Renderer) function(w *writer, n ir.Node, level int) error {
	fn := n.(ir.FunctionSpec)

	params := make([]string, 0, len(fn.Params)+1)
	if fn.Method {
		params = append(params, "self")
	}
	for _, p := range fn.Params {
		params = append(params, r.param(p.Name, p.Type))
	}
	sig := "def " + fn.Name + "(" + strings.Join(params, ", ") + ")"
	if r.opts.TypeHints && fn.ReturnHint != "" {
		sig += " -> " + fn.ReturnHint
	}
	w.line(level, sig+":")

	if r.opts.Docstrings && fn.Doc != "" {
		w.line(level+1, docstring(fn.Doc))
	}
	return r.body(w, fn.Body, level+1)
}

func (r *Renderer) param(name, typ string) string {
	if r.opts.TypeHints && typ != "" {
		return name + ": " + typ
	}
	return name
}

func (r *Renderer) class(w *writer, n ir.Node, level int) error {
	cls := n.(ir.ClassSpec)
	w.line(level, "class "+cls.Name+":")

	members := 0
	if r.opts.Docstrings && cls.Doc != "" {
		w.line(level+1, docstring(cls.Doc))
		members++
	}

	if len(cls.Attributes) > 0 {
		if members > 0 {
			w.blank()
		}
		r.constructor(w, cls.Attributes, level+1)
		members++
	}

	for _, m := range cls.Methods {
		if members > 0 {
			w.blank()
		}
		m.Method = true
		if err := r.function(w, m, level+1); err != nil {
			return fmt.Errorf("%s.%s: %w", cls.Name, m.Name, err)
		}
		members++
	}

	if members == 0 {
		w.line(level+1, "pass")
	}
	return nil
}

// constructor takes every attribute without a default as a parameter and
// stores all of them on self.
func (r *Renderer) constructor(w *writer, attrs []ir.Attribute, level int) {
	params := []string{"self"}
	for _, a := range attrs {
		if a.Default == nil {
			params = append(params, r.param(a.Name, a.Type))
		}
	}
	sig := "def __init__(" + strings.Join(params, ", ") + ")"
	if r.opts.TypeHints {
		sig += " -> None"
	}
	w.line(level, sig+":")

	for _, a := range attrs {
		target := "self." + a.Name
		if r.opts.TypeHints && a.Default != nil && a.Type != "" {
			target += ": " + a.Type
		}
		value := a.Name
		if a.Default != nil {
			value = expr(a.Default)
		}
		w.line(level+1, target+" = "+value)
	}
}

func (r *Renderer) conditional(w *writer, n ir.Node, level int) error {
	c := n.(ir.Conditional)
	w.line(level, "if "+expr(c.Test)+":")
	if err := r.body(w, c.Then, level+1); err != nil {
		return err
	}
	for len(c.Else) == 1 {
		next, ok := c.Else[0].(ir.Conditional)
		if !ok {
			break
		}
		w.line(level, "elif "+expr(next.Test)+":")
		if err := r.body(w, next.Then, level+1); err != nil {
			return err
		}
		c = next
	}
	if len(c.Else) == 0 {
		return nil
	}
	w.line(level, "else:")
	return r.body(w, c.Else, level+1)
}

func (r *Renderer) loop(w *writer, n ir.Node, level int) error {
	l := n.(ir.Loop)
	w.line(level, "for "+l.Var+" in "+expr(l.Iterable)+":")
	return r.body(w, l.Body, level+1)
}

func (r *Renderer) ret(w *writer, n ir.Node, level int) error {
	s := n.(ir.Return)
	if s.Expr == nil {
		w.line(level, "return")
		return nil
	}
	w.line(level, "return "+expr(s.Expr))
	return nil
}

func (r *Renderer) assign(w *writer, n ir.Node, level int) error {
	s := n.(ir.Assign)
	w.line(level, expr(s.Target)+" = "+expr(s.Value))
	return nil
}

func (r *Renderer) exprStmt(w *writer, n ir.Node, level int) error {
	w.line(level, expr(n.(ir.ExprStmt).Expr))
	return nil
}

func (r *Renderer) pass(w *writer, n ir.Node, level int) error {
	if c := n.(ir.Pass).Comment; c != "" {
		for _, l := range strings.Split(c, "\n") {
			w.line(level, strings.TrimRight("# "+l, " "))
		}
	}
	w.line(level, "pass")
	return nil
}

// rawIdiom expands an idiom body with its bindings and re-indents it from
// the 4-space layout it is written in to the configured unit.
func (r *Renderer) rawIdiom(w *writer, n ir.Node, level int) error {
	raw := n.(ir.RawIdiom)
	t := r.idioms[raw.IdiomID]

	for hole, name := range raw.Bindings {
		if !ir.IsIdentifier(name) {
			return fmt.Errorf("%w: %s=%q in %s", ErrUnsafeBinding, hole, name, raw.IdiomID)
		}
	}
	text, err := pattern.Expand(t.body, raw.Bindings)
	if err != nil {
		return fmt.Errorf("idiom %s: %w", raw.IdiomID, err)
	}

	for _, l := range strings.Split(text, "\n") {
		if strings.TrimSpace(l) == "" {
			w.blank()
			continue
		}
		indent := extractIndent(l)
		w.line(level+len(indent)/idiomIndent, indent[len(indent)/idiomIndent*idiomIndent:]+l[len(indent):])
	}
	return nil
}

func extractIndent(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " "))]
}

func docstring(doc string) string {
	doc = strings.ReplaceAll(doc, `\`, `\\`)
	doc = strings.ReplaceAll(doc, `"""`, `\"\"\"`)
	if strings.HasSuffix(doc, `"`) {
		doc += " "
	}
	return `"""` + doc + `"""`
}
