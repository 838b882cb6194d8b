// Package internal wires the compile pipeline together.
//
// An instruction goes through five steps, each owned by its own package:
//
//	lexicon   text -> annotated tokens
//	matcher   tokens -> winning grammar rule and captured spans
//	extract   rule and spans -> intent and slot map
//	semantic  intent and slots -> IR tree
//	render    IR tree -> Python source
//
// Engine builds every table once in NewEngine and never mutates them
// afterwards, so a single Engine can be shared by any number of
// goroutines. A failed compile is always a *types.CompilationError whose
// Stage names the step that gave up; non-fatal problems are returned as
// warnings next to the generated code.
//
// Usage:
//
//	engine, err := internal.NewEngine(internal.WithLogger(logger))
//	if err != nil {
//	    // handle error
//	}
//
//	res, err := engine.CompileText("Write a function to check if a number is prime")
//	if err != nil {
//	    // handle error
//	}
//	fmt.Print(res.Code)
//
// An optional Validator, usually syntax.New(), parses each result before
// it is returned.
package internal
