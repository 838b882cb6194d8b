package pattern

import (
	"fmt"

	"github.com/gnoswap-labs/nlc/internal/types"
)

// Pattern is a compiled grammar rule pattern. It is immutable and safe for
// concurrent use.
type Pattern struct {
	Source   string
	Elements []Element
}

// Match is a successful pattern match.
type Match struct {
	Start    int
	End      int
	Captures map[string]types.Span
}

// Compile lexes and parses a rule pattern, resolving `$class` references
// through sets.
func Compile(src string, sets SetResolver) (*Pattern, error) {
	tokens, err := Lex(src)
	if err != nil {
		return nil, err
	}
	elems, err := ParseRule(tokens, sets)
	if err != nil {
		return nil, err
	}
	for i, e := range elems {
		if e.Kind == ElemGap && i > 0 && elems[i-1].Kind == ElemGap {
			return nil, fmt.Errorf("%w: consecutive gaps", ErrBadElement)
		}
	}
	return &Pattern{Source: src, Elements: elems}, nil
}

// MustCompile is like Compile but panics on error. Use it for patterns
// known at build time.
func MustCompile(src string, sets SetResolver) *Pattern {
	p, err := Compile(src, sets)
	if err != nil {
		panic(fmt.Sprintf("pattern: Compile(%q): %v", src, err))
	}
	return p
}

// Match finds the leftmost position where every element of the pattern is
// satisfied.
func (p *Pattern) Match(tokens []types.Token) (Match, bool) {
	for start := 0; start < len(tokens); start++ {
		if m, ok := p.MatchAt(tokens, start); ok {
			return m, true
		}
	}
	return Match{}, false
}

// MatchAt tries the pattern at a fixed start position.
func (p *Pattern) MatchAt(tokens []types.Token, start int) (Match, bool) {
	ok, end, captures := p.matcher(0, tokens, start, map[string]types.Span{})
	if !ok {
		return Match{}, false
	}
	return Match{Start: start, End: end, Captures: captures}, true
}

// matcher attempts to match elements from eIdx against tokens from tIdx using
// recursive backtracking. On success it returns the end index and captures.
func (p *Pattern) matcher(eIdx int, tokens []types.Token, tIdx int, captures map[string]types.Span) (bool, int, map[string]types.Span) {
	if eIdx == len(p.Elements) {
		return true, tIdx, captures
	}

	e := p.Elements[eIdx]
	last := eIdx == len(p.Elements)-1

	switch e.Kind {
	case ElemGap:
		// a bounded gap never skips one of its stop words
		for k := tIdx; k <= len(tokens); k++ {
			if ok, end, res := p.matcher(eIdx+1, tokens, k, captures); ok {
				return true, end, res
			}
			if k < len(tokens) && e.names(tokens[k]) {
				break
			}
		}
		return false, 0, nil

	case ElemStart:
		if tIdx != 0 {
			return false, 0, nil
		}
		return p.matcher(eIdx+1, tokens, tIdx, captures)

	case ElemSpan:
		minLen := 1
		if e.Optional {
			minLen = 0
		}
		if last {
			// the final span swallows the remainder
			rest := len(tokens) - tIdx
			if rest < minLen {
				return false, 0, nil
			}
			if rest == 0 {
				return true, tIdx, captures
			}
			return true, len(tokens), withCapture(captures, e.Label, types.Span{Start: tIdx, End: len(tokens)})
		}
		for k := tIdx + minLen; k <= len(tokens); k++ {
			next := captures
			if k > tIdx {
				next = withCapture(captures, e.Label, types.Span{Start: tIdx, End: k})
			}
			if ok, end, res := p.matcher(eIdx+1, tokens, k, next); ok {
				return true, end, res
			}
		}
		return false, 0, nil

	default:
		if tIdx < len(tokens) && e.accepts(tokens[tIdx]) {
			next := captures
			if e.Label != "" {
				next = withCapture(captures, e.Label, types.Span{Start: tIdx, End: tIdx + 1})
			}
			if ok, end, res := p.matcher(eIdx+1, tokens, tIdx+1, next); ok {
				return true, end, res
			}
		}
		if e.Optional {
			return p.matcher(eIdx+1, tokens, tIdx, captures)
		}
		return false, 0, nil
	}
}

func withCapture(captures map[string]types.Span, name string, span types.Span) map[string]types.Span {
	out := make(map[string]types.Span, len(captures)+1)
	for k, v := range captures {
		out[k] = v
	}
	out[name] = span
	return out
}
