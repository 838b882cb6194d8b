package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTemplate(t *testing.T) {
	t.Parallel()
	nodes, err := ParseTemplate("return [x for x in :[lst] if x % 2 == 0]  # :[lst]")
	require.NoError(t, err)

	expected := []Node{
		LiteralNode{Value: "return [x for x in "},
		HoleNode{Name: "lst"},
		LiteralNode{Value: " if x % 2 == 0]  # "},
		HoleNode{Name: "lst"},
	}
	assert.Equal(t, expected, nodes)
	assert.Equal(t, []string{"lst"}, Holes(nodes))
}

func TestExpand(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		template string
		bindings map[string]string
		want     string
		wantErr  bool
	}{
		{
			name:     "single binding",
			template: "if :[n] < 2:\n    return False",
			bindings: map[string]string{"n": "num"},
			want:     "if num < 2:\n    return False",
		},
		{
			name:     "repeated and multiple bindings",
			template: "while :[b]:\n    :[a], :[b] = :[b], :[a] % :[b]\nreturn :[a]",
			bindings: map[string]string{"a": "x", "b": "y"},
			want:     "while y:\n    x, y = y, x % y\nreturn x",
		},
		{
			name:     "slice syntax is literal",
			template: "return :[s] == :[s][::-1]",
			bindings: map[string]string{"s": "text"},
			want:     "return text == text[::-1]",
		},
		{
			name:     "unbound hole",
			template: "return :[missing]",
			bindings: map[string]string{},
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			nodes, err := ParseTemplate(tt.template)
			require.NoError(t, err)

			got, err := Expand(nodes, tt.bindings)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnboundHole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
