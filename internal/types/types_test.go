package types

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpan(t *testing.T) {
	t.Parallel()
	tokens := []Token{{Text: "a"}, {Text: "big"}, {Text: "list"}}

	tests := []struct {
		name  string
		span  Span
		text  string
		empty bool
	}{
		{name: "full", span: Span{0, 3}, text: "a big list"},
		{name: "middle", span: Span{1, 2}, text: "big"},
		{name: "empty", span: Span{2, 2}, text: "", empty: true},
		{name: "reversed", span: Span{2, 1}, text: "", empty: true},
		{name: "clamped", span: Span{-1, 9}, text: "a big list"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.text, tt.span.Text(tokens))
			assert.Equal(t, tt.empty, tt.span.Empty())
		})
	}
}

func TestParseIntent(t *testing.T) {
	t.Parallel()
	for _, intent := range []Intent{Unknown, FunctionDef, ClassDef, Conditional, Loop} {
		got, err := ParseIntent(intent.String())
		require.NoError(t, err)
		assert.Equal(t, intent, got)
	}

	_, err := ParseIntent("Lambda")
	assert.Error(t, err)
}

func TestCompilationErrorUnwrap(t *testing.T) {
	t.Parallel()
	cause := &SemanticError{Intent: FunctionDef, MissingSlot: "subject"}
	err := fmt.Errorf("compile: %w", &CompilationError{
		Stage:       StageSemantic,
		Detail:      cause.Error(),
		MissingSlot: "subject",
		Err:         cause,
	})

	var ce *CompilationError
	require.True(t, errors.As(err, &ce))
	assert.Equal(t, StageSemantic, ce.Stage)

	var se *SemanticError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, "subject", se.MissingSlot)
	assert.Contains(t, err.Error(), `missing slot "subject"`)
}
