package pattern

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnboundHole is returned when a template references a name that has no
// binding.
var ErrUnboundHole = errors.New("template hole has no binding")

// Expand substitutes bindings into template nodes. Values are inserted as
// they are; callers only pass normalized identifiers.
func Expand(nodes []Node, bindings map[string]string) (string, error) {
	var sb strings.Builder
	for _, node := range nodes {
		switch n := node.(type) {
		case LiteralNode:
			sb.WriteString(n.Value)
		case HoleNode:
			val, ok := bindings[n.Name]
			if !ok {
				return "", fmt.Errorf("%w: %q", ErrUnboundHole, n.Name)
			}
			sb.WriteString(val)
		}
	}
	return sb.String(), nil
}
