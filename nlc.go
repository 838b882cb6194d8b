// Package nlc compiles plain English programming instructions into Python.
//
// Compile is the single entry point for callers that do not need to
// configure anything:
//
//	code, err := nlc.Compile("Write a function to check if a number is prime")
//
// A failure is a *CompilationError naming the stage that gave up. Use
// NewCompiler for a compiler with custom tables or options, or
// CompileResult to also see the intent, idiom and warnings.
package nlc

import (
	"context"
	"sync"

	"github.com/gnoswap-labs/nlc/internal"
	"github.com/gnoswap-labs/nlc/internal/types"
)

type (
	// Result is a successful compilation.
	Result = internal.Result
	// CompilationError is returned for every failed compilation.
	CompilationError = types.CompilationError
	// CodeGenWarning marks code built from a placeholder body.
	CodeGenWarning = types.CodeGenWarning
	// Compiler compiles instructions. It is safe for concurrent use.
	Compiler = internal.Engine
	// Option customizes a Compiler.
	Option = internal.Option
)

// ErrNoMatch is wrapped by failures at the match stage.
var ErrNoMatch = types.ErrNoMatch

// NewCompiler builds a compiler from the embedded tables and opts.
func NewCompiler(opts ...Option) (*Compiler, error) {
	return internal.NewEngine(opts...)
}

var defaultCompiler = sync.OnceValues(func() (*Compiler, error) {
	return NewCompiler()
})

// Compile turns one instruction into Python source.
func Compile(instruction string) (string, error) {
	return CompileWithContext(context.Background(), instruction)
}

// CompileWithContext is Compile with a context.
func CompileWithContext(ctx context.Context, instruction string) (string, error) {
	res, err := CompileResult(ctx, instruction)
	if err != nil {
		return "", err
	}
	return res.Code, nil
}

// CompileResult returns the full result of compiling one instruction.
func CompileResult(ctx context.Context, instruction string) (Result, error) {
	c, err := defaultCompiler()
	if err != nil {
		return Result{}, err
	}
	return c.CompileContext(ctx, instruction)
}
