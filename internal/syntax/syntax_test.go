package syntax

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		src   string
		valid bool
	}{
		{
			name: "function",
			src: `def is_prime(n: int) -> bool:
    if n < 2:
        return False
    return True
`,
			valid: true,
		},
		{
			name: "class",
			src: `from typing import Any, List


class Stack:
    def __init__(self) -> None:
        self.items: List[Any] = []

    def push(self, item: Any) -> None:
        self.items.append(item)
`,
			valid: true,
		},
		{
			name:  "statement",
			src:   "for i in range(1, 11):\n    print(i)\n",
			valid: true,
		},
		{name: "unclosed call", src: "print(1\n"},
		{name: "missing colon", src: "def f()\n    pass\n"},
		{name: "stray operator", src: "x = = 1\n"},
	}

	v := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := v.Validate(context.Background(), tt.src)
			if tt.valid {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidSyntax)

			var se *Error
			require.True(t, errors.As(err, &se))
			require.NotEmpty(t, se.Problems)
			assert.Positive(t, se.Problems[0].Line)
		})
	}
}

func TestCheckReportsLine(t *testing.T) {
	t.Parallel()

	problems, err := New().Check(context.Background(), []byte("x = 1\ny = (2\n"))
	require.NoError(t, err)
	require.NotEmpty(t, problems)
	assert.GreaterOrEqual(t, problems[0].Line, 2)
}
