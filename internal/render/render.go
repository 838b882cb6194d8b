// Package render turns IR trees into Python source.
//
// Every node is printed by a template looked up by (Kind, idiom id). Idiom
// bodies are registered from the idiom table and expanded with their
// bindings; all other kinds have one built-in template each.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnoswap-labs/nlc/internal/ir"
	"github.com/gnoswap-labs/nlc/internal/semantic"
	"github.com/gnoswap-labs/nlc/pattern"
)

var (
	ErrUnknownTemplate  = errors.New("no template for node")
	ErrDuplicateIdiom   = errors.New("idiom template already registered")
	ErrUnsafeBinding    = errors.New("idiom binding is not an identifier")
	ErrInvalidIndent    = errors.New("indent must be between 1 and 8 spaces")
	ErrInvalidStatement = errors.New("node cannot be rendered as a statement")
)

// Options control the shape of the generated source.
type Options struct {
	Indent     int
	TypeHints  bool
	Docstrings bool
}

// DefaultOptions renders with 4-space indentation, type hints and
// docstrings.
func DefaultOptions() Options {
	return Options{Indent: 4, TypeHints: true, Docstrings: true}
}

type key struct {
	kind  ir.Kind
	idiom string
}

type template func(r *Renderer, w *writer, n ir.Node, level int) error

type idiomTemplate struct {
	body    []pattern.Node
	imports []string
}

// Renderer holds the template registry. It is immutable after New and
// safe for concurrent use.
type Renderer struct {
	opts      Options
	unit      string
	templates map[key]template
	idioms    map[string]idiomTemplate
}

// New builds a renderer with the built-in templates and one template per
// idiom body.
func New(idioms []semantic.Template, opts Options) (*Renderer, error) {
	if opts.Indent < 1 || opts.Indent > 8 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidIndent, opts.Indent)
	}
	r := &Renderer{
		opts: opts,
		unit: strings.Repeat(" ", opts.Indent),
		templates: map[key]template{
			{kind: ir.KindFunction}:    (*Renderer).function,
			{kind: ir.KindClass}:       (*Renderer).class,
			{kind: ir.KindConditional}: (*Renderer).conditional,
			{kind: ir.KindLoop}:        (*Renderer).loop,
			{kind: ir.KindReturn}:      (*Renderer).ret,
			{kind: ir.KindAssign}:      (*Renderer).assign,
			{kind: ir.KindExpr}:        (*Renderer).exprStmt,
			{kind: ir.KindPass}:        (*Renderer).pass,
		},
		idioms: make(map[string]idiomTemplate, len(idioms)),
	}
	for _, t := range idioms {
		k := key{kind: ir.KindRawIdiom, idiom: t.ID}
		if _, dup := r.templates[k]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIdiom, t.ID)
		}
		r.templates[k] = (*Renderer).rawIdiom
		r.idioms[t.ID] = idiomTemplate{body: t.Body, imports: t.Imports}
	}
	return r, nil
}

// Options returns the options the renderer was built with.
func (r *Renderer) Options() Options {
	return r.opts
}

// Has reports whether a template is registered for kind and idiom.
func (r *Renderer) Has(kind ir.Kind, idiom string) bool {
	_, ok := r.templates[key{kind: kind, idiom: idiom}]
	return ok
}

func keyOf(n ir.Node) key {
	if raw, ok := n.(ir.RawIdiom); ok {
		return key{kind: ir.KindRawIdiom, idiom: raw.IdiomID}
	}
	return key{kind: n.Kind()}
}

// Render prints one node at the given indentation level. The output ends
// with a newline.
func (r *Renderer) Render(n ir.Node, level int) (string, error) {
	w := &writer{unit: r.unit}
	if err := r.node(w, n, level); err != nil {
		return "", err
	}
	return w.String(), nil
}

// Source prints a complete module: the import header followed by the
// node.
func (r *Renderer) Source(n ir.Node) (string, error) {
	body, err := r.Render(n, 0)
	if err != nil {
		return "", err
	}
	header := r.header(n)
	if header == "" {
		return body, nil
	}
	sep := "\n"
	switch n.(type) {
	case ir.FunctionSpec, ir.ClassSpec:
		sep = "\n\n"
	}
	return header + sep + body, nil
}

func (r *Renderer) node(w *writer, n ir.Node, level int) error {
	if n == nil {
		return fmt.Errorf("%w: nil", ErrUnknownTemplate)
	}
	k := keyOf(n)
	t, ok := r.templates[k]
	if !ok {
		if k.idiom != "" {
			return fmt.Errorf("%w: idiom %q", ErrUnknownTemplate, k.idiom)
		}
		return fmt.Errorf("%w: %s", ErrUnknownTemplate, k.kind)
	}
	return t(r, w, n, level)
}

func (r *Renderer) body(w *writer, body []ir.Statement, level int) error {
	if len(body) == 0 {
		w.line(level, "pass")
		return nil
	}
	for _, s := range body {
		if err := r.node(w, s, level); err != nil {
			return err
		}
	}
	return nil
}

// writer accumulates indented lines.
type writer struct {
	sb   strings.Builder
	unit string
}

func (w *writer) line(level int, text string) {
	for range level {
		w.sb.WriteString(w.unit)
	}
	w.sb.WriteString(text)
	w.sb.WriteByte('\n')
}

func (w *writer) blank() {
	w.sb.WriteByte('\n')
}

func (w *writer) String() string {
	return w.sb.String()
}
