// Package extract turns a grammar match into an intent and a slot map.
//
// Extraction never fails. Slots that cannot be found are left out and the
// semantic mapper decides whether the instruction is still usable.
package extract

import (
	"github.com/gnoswap-labs/nlc/internal/lexicon"
	"github.com/gnoswap-labs/nlc/internal/matcher"
	"github.com/gnoswap-labs/nlc/internal/types"
)

// Extractor is immutable once built and safe for concurrent use.
type Extractor struct {
	intents map[string]types.Intent
	syn     *lexicon.Synonyms
}

// New creates an extractor from the rule id to intent lookup and the
// synonym table used to normalize verbs.
func New(intents map[string]types.Intent, syn *lexicon.Synonyms) *Extractor {
	cp := make(map[string]types.Intent, len(intents))
	for k, v := range intents {
		cp[k] = v
	}
	return &Extractor{intents: cp, syn: syn}
}

type builder struct {
	tokens []types.Token
	syn    *lexicon.Synonyms
	slots  map[string]Slot
}

// Extract resolves the intent of the winning rule and fills slots from its
// captures.
func (e *Extractor) Extract(res matcher.Result, tokens []types.Token) (types.Intent, SlotMap) {
	intent, ok := e.intents[res.RuleID]
	if !ok {
		intent = types.Unknown
	}

	b := &builder{tokens: tokens, syn: e.syn, slots: make(map[string]Slot)}
	c := res.Captures
	if sp, ok := c["action"]; ok {
		b.setVerb(SlotAction, sp.Start)
	}

	switch intent {
	case types.FunctionDef:
		b.function(c)
	case types.ClassDef:
		b.class(c)
	case types.Conditional:
		b.conditional(c)
	case types.Loop:
		b.loop(c)
	}

	return intent, SlotMap{tokens: tokens, slots: b.slots}
}

func (b *builder) has(name string) bool {
	_, ok := b.slots[name]
	return ok
}

func (b *builder) set(name string, sp types.Span) {
	if sp.Empty() {
		return
	}
	b.slots[name] = Slot{Kind: KindSpan, Span: sp}
}

func (b *builder) setClause(name string, sp types.Span) {
	if sp.Empty() {
		return
	}
	b.slots[name] = Slot{Kind: KindClause, Span: sp}
}

func (b *builder) setList(name string, items []types.Span) {
	if len(items) == 0 {
		return
	}
	b.slots[name] = Slot{
		Kind:  KindList,
		Span:  types.Span{Start: items[0].Start, End: items[len(items)-1].End},
		Items: items,
	}
}

func (b *builder) setVerb(name string, i int) {
	b.slots[name] = Slot{
		Kind:      KindSpan,
		Span:      types.Span{Start: i, End: i + 1},
		Canonical: b.syn.Normalize(b.lemma(i)),
	}
}

func (b *builder) function(c map[string]types.Span) {
	op, ok := c["operation"]
	if !ok {
		if body, ok := c["body"]; ok {
			b.purpose(body)
		}
		return
	}

	b.setVerb(SlotOperation, op.Start)
	end := op.End
	if cond, ok := c["condition"]; ok {
		b.condition(cond, true)
		end = cond.End
	}
	if body, ok := c["body"]; ok {
		b.object(body)
		end = body.End
	}
	b.setClause(SlotPurpose, types.Span{Start: op.Start, End: end})
}

// purpose reads the clause after "a function": an optional explicit name,
// an introducer, the operation verb and its object.
func (b *builder) purpose(sp types.Span) {
	i := sp.Start
	if i+1 < sp.End && namingVerbs[b.lemma(i)] {
		b.set(SlotName, types.Span{Start: i + 1, End: i + 2})
		i += 2
	}
	for i < sp.End && purposeIntroducers[b.lemma(i)] {
		i++
	}

	j := i
	for j < sp.End && (b.category(j) == types.Aux || b.category(j) == types.Adverb || b.category(j) == types.Particle) {
		j++
	}
	if j < sp.End && b.category(j) == types.Verb {
		b.setClause(SlotPurpose, types.Span{Start: j, End: sp.End})
		b.setVerb(SlotOperation, j)
		b.object(types.Span{Start: j + 1, End: sp.End})
		return
	}

	b.setClause(SlotPurpose, types.Span{Start: i, End: sp.End})
	b.object(types.Span{Start: i, End: sp.End})
}

// object splits what follows an operation verb into subject, source and
// relative condition. A coordinated verb after an input verb ("takes a
// list and returns its sum") moves the first object to the input slot.
func (b *builder) object(sp types.Span) {
	sp = b.trim(sp, isEdge)
	if sp.Empty() {
		return
	}
	if conditionIntroducers[b.lemma(sp.Start)] {
		b.condition(types.Span{Start: sp.Start + 1, End: sp.End}, true)
		return
	}

	k := b.nextBoundary(sp.Start, sp.End)
	b.set(SlotSubject, b.trim(types.Span{Start: sp.Start, End: k}, isEdge))

	for k < sp.End {
		next := b.nextBoundary(k+1, sp.End)
		l := b.lemma(k)
		switch {
		case b.verbFollows(k, sp.End):
			op, ok := b.slots[SlotOperation]
			if !ok || !inputVerbs[b.lemma(op.Span.Start)] {
				return
			}
			if s, ok := b.slots[SlotSubject]; ok {
				b.slots[SlotInput] = s
				delete(b.slots, SlotSubject)
			}
			b.setVerb(SlotOperation, k+1)
			b.object(types.Span{Start: k + 2, End: sp.End})
			return
		case sourceDelimiters[l]:
			if !b.has(SlotSource) {
				b.set(SlotSource, b.trim(types.Span{Start: k + 1, End: next}, isEdge))
			}
		case relativeIntroducers[l], conditionIntroducers[l]:
			if !b.has(SlotCondition) {
				b.condition(types.Span{Start: k + 1, End: next}, false)
			}
		}
		k = next
	}
}

// condition records a condition clause and splits it at the first copula
// (or verb) into subject and predicate. A source phrase inside the
// predicate ("is present in the list") is split off as the source.
func (b *builder) condition(sp types.Span, withSubject bool) {
	sp = b.trim(sp, isEdge)
	if sp.Len() >= 2 && b.lemma(sp.End-2) == "or" && b.lemma(sp.End-1) == "not" {
		sp.End -= 2
	}
	sp = b.trim(sp, isEdge)
	if sp.Empty() {
		return
	}
	b.setClause(SlotCondition, sp)

	verb, predStart := -1, -1
	for k := sp.Start; k < sp.End; k++ {
		if b.category(k) == types.Aux {
			verb, predStart = k, k+1
			break
		}
		if verb < 0 && k > sp.Start && b.category(k) == types.Verb {
			verb, predStart = k, k
		}
	}
	if verb < 0 {
		if withSubject {
			b.set(SlotSubject, sp)
		}
		return
	}

	if withSubject {
		b.set(SlotSubject, b.trim(types.Span{Start: sp.Start, End: verb}, isEdge))
	}

	pred := types.Span{Start: predStart, End: sp.End}
	for k := pred.Start + 1; k < pred.End; k++ {
		if sourceDelimiters[b.lemma(k)] {
			if !b.has(SlotSource) {
				b.set(SlotSource, b.trim(types.Span{Start: k + 1, End: pred.End}, isEdge))
			}
			pred.End = k
			break
		}
	}
	b.set(SlotPredicate, b.trim(pred, isEdgeOrDet))
}

func (b *builder) conditional(c map[string]types.Span) {
	if cond, ok := c["condition"]; ok {
		b.condition(cond, true)
	}
	b.branch(SlotThen, c, "then_verb", "then")
	b.branch(SlotElse, c, "else_verb", "else")
}

func (b *builder) branch(slot string, c map[string]types.Span, verbKey, restKey string) {
	v, ok := c[verbKey]
	if !ok {
		return
	}
	end := v.End
	if r, ok := c[restKey]; ok && r.End > end {
		end = r.End
	}
	sp := b.trim(types.Span{Start: v.Start, End: end}, isEdge)
	b.slots[slot] = Slot{
		Kind:      KindClause,
		Span:      sp,
		Canonical: b.syn.Normalize(b.lemma(v.Start)),
	}
}

func (b *builder) loop(c map[string]types.Span) {
	for _, name := range []string{SlotVar, SlotStart, SlotStop} {
		if sp, ok := c[name]; ok {
			b.set(name, sp)
		}
	}
	if it, ok := c["iterable"]; ok {
		it = b.trim(it, isEdge)
		b.set(SlotIterable, it)
		b.set(SlotSource, it)
	}
	b.branch(SlotBody, c, "body_verb", "body")

	// "print even numbers from 1 to 10": words between the verb and the
	// loop variable restrict the iteration
	if v, ok := c["var"]; ok {
		if bv, ok := c["body_verb"]; ok && bv.End < v.Start {
			b.set(SlotPredicate, b.trim(types.Span{Start: bv.End, End: v.Start}, isEdgeOrDet))
		}
	}
}

type methodRegion struct {
	lead int // first token of the region, including its determiners
	kw   int // the "method" keyword
}

func (b *builder) class(c map[string]types.Span) {
	if name, ok := c["name"]; ok {
		b.set(SlotSubject, name)
	}
	body, ok := c["body"]
	if !ok {
		return
	}
	b.setClause(SlotPurpose, body)

	regions := b.methodRegions(body)
	attrEnd := body.End
	if len(regions) > 0 {
		attrEnd = regions[0].lead
	}

	cursor := body.Start
	if !b.has(SlotSubject) {
		cursor = b.className(types.Span{Start: body.Start, End: attrEnd})
	}
	b.attributes(types.Span{Start: cursor, End: attrEnd})
	b.methods(regions, body.End)
}

// className finds the class name at the start of sp and returns the index
// after it.
func (b *builder) className(sp types.Span) int {
	i := sp.Start
	for i < sp.End && (b.category(i) == types.Determiner || namingVerbs[b.lemma(i)]) {
		i++
	}
	if end := b.nominalRun(i, sp.End); end > i {
		b.set(SlotSubject, types.Span{Start: i, End: end})
		return end
	}

	// "a class to represent a bank account"
	if i < sp.End && purposeIntroducers[b.lemma(i)] {
		k := i + 1
		for k < sp.End && b.category(k) != types.Verb {
			k++
		}
		k++
		for k < sp.End && (b.category(k) == types.Determiner || b.category(k) == types.Adjective) {
			k++
		}
		if end := b.nominalRun(k, sp.End); end > k {
			b.set(SlotSubject, types.Span{Start: k, End: end})
			return end
		}
	}
	return i
}

func (b *builder) nominalRun(i, end int) int {
	j := i
	for j < end && b.category(j).IsNominal() && !attributeNouns[b.lemma(j)] {
		j++
	}
	return j
}

func (b *builder) attributes(sp types.Span) {
	k := sp.Start
	for k < sp.End && !attributeMarkers[b.lemma(k)] {
		k++
	}
	if k >= sp.End {
		return
	}
	i := k + 1
	for i < sp.End && (b.category(i) == types.Determiner || attributeNouns[b.lemma(i)] || b.tokens[i].Text == ":") {
		i++
	}
	region := b.trim(types.Span{Start: i, End: sp.End}, isEdgeOrDet)
	b.setList(SlotAttributes, b.splitList(region))
}

func (b *builder) methodRegions(body types.Span) []methodRegion {
	var out []methodRegion
	floor := body.Start
	for k := body.Start; k < body.End; k++ {
		if !methodKeywords[b.lemma(k)] {
			continue
		}
		lead := k
		for lead-1 >= floor {
			switch b.category(lead - 1) {
			case types.Determiner, types.Numeral, types.CoordConj, types.Punctuation:
				lead--
				continue
			}
			break
		}
		out = append(out, methodRegion{lead: lead, kw: k})
		floor = k + 1
	}
	return out
}

func (b *builder) methods(regions []methodRegion, end int) {
	var items []types.Span
	for idx, r := range regions {
		stop := end
		if idx+1 < len(regions) {
			stop = regions[idx+1].lead
		}
		i := r.kw + 1
		for i < stop && (purposeIntroducers[b.lemma(i)] || b.category(i) == types.Aux || b.tokens[i].Text == ":") {
			i++
		}
		clause := b.trim(types.Span{Start: i, End: stop}, isEdge)
		if clause.Empty() {
			continue
		}
		items = append(items, b.mergeVerbItems(b.splitList(clause))...)
	}
	b.setList(SlotMethods, items)
}
