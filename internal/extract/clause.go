package extract

import "github.com/gnoswap-labs/nlc/internal/types"

var (
	// words that open the purpose clause after "a function"
	purposeIntroducers = map[string]bool{"to": true, "that": true, "which": true, "for": true, "who": true}

	// words that open a condition clause
	conditionIntroducers = map[string]bool{"if": true, "whether": true}

	// relative clause introducers after an object noun phrase
	relativeIntroducers = map[string]bool{"that": true, "which": true, "where": true, "who": true}

	sourceDelimiters = map[string]bool{"from": true, "in": true, "within": true, "inside": true}

	// lemmas introducing an explicit name ("a class called Foo")
	namingVerbs = map[string]bool{"call": true, "name": true}

	// verbs whose object is an input rather than the computed subject
	inputVerbs = map[string]bool{"take": true, "accept": true, "receive": true, "read": true, "have": true}

	attributeMarkers = map[string]bool{
		"with": true, "have": true, "contain": true, "store": true,
		"hold": true, "include": true,
	}

	attributeNouns = map[string]bool{
		"attribute": true, "field": true, "property": true, "member": true,
		"variable": true, "following": true,
	}

	methodKeywords = map[string]bool{"method": true, "function": true}
)

func (b *builder) lemma(i int) string {
	return b.tokens[i].Lemma
}

func (b *builder) category(i int) types.Category {
	return b.tokens[i].Category
}

func isEdge(t types.Token) bool {
	return t.Category == types.CoordConj || t.Category == types.Punctuation
}

func isEdgeOrDet(t types.Token) bool {
	return isEdge(t) || t.Category == types.Determiner
}

// trim drops leading and trailing tokens for which drop reports true.
func (b *builder) trim(sp types.Span, drop func(types.Token) bool) types.Span {
	for sp.Start < sp.End && drop(b.tokens[sp.Start]) {
		sp.Start++
	}
	for sp.End > sp.Start && drop(b.tokens[sp.End-1]) {
		sp.End--
	}
	return sp
}

// verbFollows reports whether tokens[i] is a coordinator directly followed
// by a verb, which starts a new clause rather than continuing a list.
func (b *builder) verbFollows(i, end int) bool {
	if i+1 >= end {
		return false
	}
	l := b.lemma(i)
	if l != "and" && l != "," && l != "then" {
		return false
	}
	return b.category(i+1) == types.Verb
}

// nextBoundary returns the first index in [from, end) that opens a source
// phrase, a relative clause or a coordinated verb clause.
func (b *builder) nextBoundary(from, end int) int {
	for k := from; k < end; k++ {
		l := b.lemma(k)
		if sourceDelimiters[l] || relativeIntroducers[l] || conditionIntroducers[l] || b.verbFollows(k, end) {
			return k
		}
	}
	return end
}

func isComma(t types.Token) bool {
	return t.Text == "," || t.Text == ";"
}

func isConj(t types.Token) bool {
	l := t.Lower()
	return l == "and" || l == "or" || l == "&"
}

func (b *builder) splitOn(sp types.Span, sep func(types.Token) bool) []types.Span {
	var out []types.Span
	start := sp.Start
	for k := sp.Start; k < sp.End; k++ {
		if sep(b.tokens[k]) {
			out = append(out, types.Span{Start: start, End: k})
			start = k + 1
		}
	}
	return append(out, types.Span{Start: start, End: sp.End})
}

// splitList splits an enumeration. Commas are the outer level and are split
// first; each comma piece is then split on "and"/"or". Pieces are visited
// left to right and empty pieces are dropped, so "a, b and c, and d" yields
// a, b, c, d in order.
func (b *builder) splitList(sp types.Span) []types.Span {
	var out []types.Span
	for _, outer := range b.splitOn(sp, isComma) {
		for _, inner := range b.splitOn(outer, isConj) {
			item := b.trim(inner, isEdgeOrDet)
			if !item.Empty() {
				out = append(out, item)
			}
		}
	}
	return out
}

// mergeVerbItems joins list items that do not start with a verb into the
// item before them: "display name and salary" stays one item while
// "deposit and withdraw money" becomes two.
func (b *builder) mergeVerbItems(items []types.Span) []types.Span {
	var out []types.Span
	for _, it := range items {
		if len(out) > 0 && b.category(it.Start) != types.Verb {
			out[len(out)-1].End = it.End
			continue
		}
		out = append(out, it)
	}
	return out
}
