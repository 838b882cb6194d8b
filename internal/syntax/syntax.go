// Package syntax checks that generated Python parses. It only looks at
// the shape of the source; nothing is executed or type checked.
package syntax

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"
)

var ErrInvalidSyntax = errors.New("generated source does not parse")

// Problem is one ERROR or MISSING node in the parse tree. Line and Column
// are 1-based.
type Problem struct {
	Line    int
	Column  int
	Missing bool
	Text    string
}

func (p Problem) String() string {
	if p.Missing {
		return fmt.Sprintf("%d:%d: missing %s", p.Line, p.Column, p.Text)
	}
	return fmt.Sprintf("%d:%d: unexpected %q", p.Line, p.Column, p.Text)
}

// Error reports every problem found in a source.
type Error struct {
	Problems []Problem
}

func (e *Error) Error() string {
	parts := make([]string, len(e.Problems))
	for i, p := range e.Problems {
		parts[i] = p.String()
	}
	return ErrInvalidSyntax.Error() + ": " + strings.Join(parts, "; ")
}

func (e *Error) Unwrap() error {
	return ErrInvalidSyntax
}

// Validator parses Python with tree-sitter. A tree-sitter parser is not
// safe for concurrent use, so each call gets its own.
type Validator struct{}

// New returns a Python validator.
func New() *Validator {
	return &Validator{}
}

// Check returns the problems in src. An empty result means src parses.
func (v *Validator) Check(ctx context.Context, src []byte) ([]Problem, error) {
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(python.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil, nil
	}

	var problems []Problem
	var walk func(n *sitter.Node)
	walk = func(n *sitter.Node) {
		switch {
		case n.IsMissing():
			problems = append(problems, problemAt(n, true, n.Type()))
			return
		case n.Type() == "ERROR":
			problems = append(problems, problemAt(n, false, n.Content(src)))
			return
		}
		for i := 0; i < int(n.ChildCount()); i++ {
			if c := n.Child(i); c != nil && (c.HasError() || c.IsMissing()) {
				walk(c)
			}
		}
	}
	walk(root)
	if len(problems) == 0 {
		problems = append(problems, problemAt(root, false, ""))
	}
	return problems, nil
}

// Validate returns an *Error when src does not parse.
func (v *Validator) Validate(ctx context.Context, src string) error {
	problems, err := v.Check(ctx, []byte(src))
	if err != nil {
		return err
	}
	if len(problems) > 0 {
		return &Error{Problems: problems}
	}
	return nil
}

func problemAt(n *sitter.Node, missing bool, text string) Problem {
	p := n.StartPoint()
	if i := strings.IndexByte(text, '\n'); i >= 0 {
		text = text[:i]
	}
	return Problem{
		Line:    int(p.Row) + 1,
		Column:  int(p.Column) + 1,
		Missing: missing,
		Text:    text,
	}
}
