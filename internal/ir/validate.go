package ir

import (
	"errors"
	"fmt"
)

// MaxDepth bounds statement nesting.
const MaxDepth = 32

var (
	ErrInvalidIdentifier = errors.New("invalid identifier")
	ErrDuplicateParam    = errors.New("duplicate parameter")
	ErrTooDeep           = errors.New("statement nesting too deep")
	ErrUnknownNode       = errors.New("unknown node")
	ErrMissingExpr       = errors.New("missing expression")
)

// Validate checks the structural invariants of a tree: every declared or
// referenced name is an identifier, parameter names are unique per
// function and nesting stays within MaxDepth.
func Validate(n Node) error {
	switch n := n.(type) {
	case FunctionSpec:
		return validateFunction(n, 0)
	case ClassSpec:
		if !IsIdentifier(n.Name) {
			return fmt.Errorf("%w: class %q", ErrInvalidIdentifier, n.Name)
		}
		seen := make(map[string]bool, len(n.Attributes))
		for _, a := range n.Attributes {
			if !IsIdentifier(a.Name) {
				return fmt.Errorf("%w: attribute %q", ErrInvalidIdentifier, a.Name)
			}
			if seen[a.Name] {
				return fmt.Errorf("%w: %s.%s", ErrDuplicateParam, n.Name, a.Name)
			}
			seen[a.Name] = true
		}
		for _, m := range n.Methods {
			if err := validateFunction(m, 1); err != nil {
				return err
			}
		}
		return nil
	case Statement:
		return validateBody([]Statement{n}, 0)
	}
	return fmt.Errorf("%w: %T", ErrUnknownNode, n)
}

func validateFunction(f FunctionSpec, depth int) error {
	if !IsIdentifier(f.Name) {
		return fmt.Errorf("%w: function %q", ErrInvalidIdentifier, f.Name)
	}
	seen := make(map[string]bool, len(f.Params)+1)
	if f.Method {
		seen["self"] = true
	}
	for _, p := range f.Params {
		if !IsIdentifier(p.Name) {
			return fmt.Errorf("%w: parameter %q of %s", ErrInvalidIdentifier, p.Name, f.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("%w: %q in %s", ErrDuplicateParam, p.Name, f.Name)
		}
		seen[p.Name] = true
	}
	return validateBody(f.Body, depth+1)
}

func validateBody(body []Statement, depth int) error {
	if depth > MaxDepth {
		return ErrTooDeep
	}
	for _, s := range body {
		switch s := s.(type) {
		case Conditional:
			if s.Test == nil {
				return fmt.Errorf("%w: condition", ErrMissingExpr)
			}
			if err := validateExpr(s.Test); err != nil {
				return err
			}
			if err := validateBody(s.Then, depth+1); err != nil {
				return err
			}
			if err := validateBody(s.Else, depth+1); err != nil {
				return err
			}
		case Loop:
			if !IsIdentifier(s.Var) {
				return fmt.Errorf("%w: loop variable %q", ErrInvalidIdentifier, s.Var)
			}
			if s.Iterable == nil {
				return fmt.Errorf("%w: loop iterable", ErrMissingExpr)
			}
			if err := validateExpr(s.Iterable); err != nil {
				return err
			}
			if err := validateBody(s.Body, depth+1); err != nil {
				return err
			}
		case Return:
			if s.Expr != nil {
				if err := validateExpr(s.Expr); err != nil {
					return err
				}
			}
		case Assign:
			if err := validateExpr(s.Target); err != nil {
				return err
			}
			if err := validateExpr(s.Value); err != nil {
				return err
			}
		case ExprStmt:
			if err := validateExpr(s.Expr); err != nil {
				return err
			}
		case RawIdiom:
			for hole, name := range s.Bindings {
				if !IsIdentifier(name) {
					return fmt.Errorf("%w: binding %s=%q of %s", ErrInvalidIdentifier, hole, name, s.IdiomID)
				}
			}
		}
	}
	return nil
}

// validateExpr checks every name an expression references. A nil operand
// where one is required is reported as ErrMissingExpr.
func validateExpr(e Expr) error {
	switch e := e.(type) {
	case nil:
		return ErrMissingExpr
	case Name:
		if !IsIdentifier(e.ID) {
			return fmt.Errorf("%w: name %q", ErrInvalidIdentifier, e.ID)
		}
	case ListLit:
		for _, el := range e.Elems {
			if err := validateExpr(el); err != nil {
				return err
			}
		}
	case BinaryExpr:
		if err := validateExpr(e.Left); err != nil {
			return err
		}
		return validateExpr(e.Right)
	case UnaryExpr:
		return validateExpr(e.Operand)
	case CallExpr:
		if err := validateExpr(e.Func); err != nil {
			return err
		}
		for _, a := range e.Args {
			if err := validateExpr(a); err != nil {
				return err
			}
		}
	case AttrExpr:
		if !IsIdentifier(e.Attr) {
			return fmt.Errorf("%w: attribute %q", ErrInvalidIdentifier, e.Attr)
		}
		return validateExpr(e.Value)
	case ListComp:
		if !IsIdentifier(e.Var) {
			return fmt.Errorf("%w: comprehension variable %q", ErrInvalidIdentifier, e.Var)
		}
		if err := validateExpr(e.Elem); err != nil {
			return err
		}
		if err := validateExpr(e.Iter); err != nil {
			return err
		}
		if e.Cond != nil {
			return validateExpr(e.Cond)
		}
	case FString:
		for _, p := range e.Parts {
			if p.Value != nil {
				if err := validateExpr(p.Value); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
