package types

import (
	"errors"
	"fmt"
)

// Stage names the pipeline step a compilation failed in.
type Stage string

const (
	StageTokenize Stage = "tokenize"
	StageMatch    Stage = "match"
	StageSemantic Stage = "semantic"
	StageRender   Stage = "render"
	StageSyntax   Stage = "syntax"
)

// ErrNoMatch is returned when no grammar rule accepts the token sequence.
var ErrNoMatch = errors.New("no grammar rule matches the instruction")

// CompilationError is the single failure shape surfaced to callers.
type CompilationError struct {
	Stage       Stage
	Detail      string
	MissingSlot string
	Err         error
}

func (e *CompilationError) Error() string {
	msg := fmt.Sprintf("compilation failed at %s stage: %s", e.Stage, e.Detail)
	if e.MissingSlot != "" {
		msg += fmt.Sprintf(" (missing slot %q)", e.MissingSlot)
	}
	return msg
}

func (e *CompilationError) Unwrap() error {
	return e.Err
}

// SemanticError reports a slot the mapper needed but could not find.
type SemanticError struct {
	Intent      Intent
	MissingSlot string
}

func (e *SemanticError) Error() string {
	return fmt.Sprintf("%s requires a %s", e.Intent, e.MissingSlot)
}

// CodeGenWarning marks output built from a placeholder body instead of a
// known idiom or synthesized statements.
type CodeGenWarning struct {
	Reason string `json:"reason"`
	Target string `json:"target,omitempty"`
}

func (w CodeGenWarning) String() string {
	if w.Target == "" {
		return w.Reason
	}
	return fmt.Sprintf("%s: %s", w.Target, w.Reason)
}
