package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gnoswap-labs/nlc/internal/types"
)

// Slot names produced by the extractor.
const (
	SlotAction     = "action"
	SlotOperation  = "operation"
	SlotName       = "name"
	SlotSubject    = "subject"
	SlotPredicate  = "predicate"
	SlotCondition  = "condition"
	SlotSource     = "source"
	SlotInput      = "input"
	SlotPurpose    = "purpose"
	SlotAttributes = "attributes"
	SlotMethods    = "methods"
	SlotThen       = "then"
	SlotElse       = "else"
	SlotVar        = "var"
	SlotIterable   = "iterable"
	SlotStart      = "start"
	SlotStop       = "stop"
	SlotBody       = "body"
)

// Kind tells how a slot value is shaped.
type Kind int

const (
	// KindSpan is a single contiguous token span.
	KindSpan Kind = iota
	// KindList is an enumeration split on "and" and ",".
	KindList
	// KindClause is a span that starts at a verb or clause introducer.
	KindClause
)

func (k Kind) String() string {
	switch k {
	case KindSpan:
		return "span"
	case KindList:
		return "list"
	case KindClause:
		return "clause"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Slot is one extracted piece of an instruction. Canonical holds the
// synonym-normalized lemma for verb slots.
type Slot struct {
	Kind      Kind
	Span      types.Span
	Items     []types.Span
	Canonical string
}

// SlotMap holds every slot extracted from one instruction together with the
// tokens the spans point into.
type SlotMap struct {
	tokens []types.Token
	slots  map[string]Slot
}

// NewSlotMap builds a SlotMap directly. It is mostly useful for tests.
func NewSlotMap(tokens []types.Token, slots map[string]Slot) SlotMap {
	cp := make(map[string]Slot, len(slots))
	for k, v := range slots {
		cp[k] = v
	}
	return SlotMap{tokens: tokens, slots: cp}
}

func (m SlotMap) Get(name string) (Slot, bool) {
	s, ok := m.slots[name]
	return s, ok
}

func (m SlotMap) Has(name string) bool {
	_, ok := m.slots[name]
	return ok
}

// Tokens returns the tokens covered by a span or clause slot.
func (m SlotMap) Tokens(name string) []types.Token {
	s, ok := m.slots[name]
	if !ok {
		return nil
	}
	return s.Span.Slice(m.tokens)
}

// Text returns the surface text of a span or clause slot, or the items of a
// list slot joined by ", ".
func (m SlotMap) Text(name string) string {
	s, ok := m.slots[name]
	if !ok {
		return ""
	}
	if s.Kind == KindList {
		parts := make([]string, len(s.Items))
		for i, it := range s.Items {
			parts[i] = it.Text(m.tokens)
		}
		return strings.Join(parts, ", ")
	}
	return s.Span.Text(m.tokens)
}

// Canonical returns the normalized verb of a slot, or "".
func (m SlotMap) Canonical(name string) string {
	return m.slots[name].Canonical
}

// Items returns the tokens of every item of a list slot.
func (m SlotMap) Items(name string) [][]types.Token {
	s, ok := m.slots[name]
	if !ok {
		return nil
	}
	out := make([][]types.Token, 0, len(s.Items))
	for _, it := range s.Items {
		out = append(out, it.Slice(m.tokens))
	}
	return out
}

// Names returns the filled slot names in lexical order.
func (m SlotMap) Names() []string {
	names := make([]string, 0, len(m.slots))
	for name := range m.slots {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns the whole instruction.
func (m SlotMap) All() []types.Token {
	return m.tokens
}

func (m SlotMap) String() string {
	var sb strings.Builder
	for i, name := range m.Names() {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%q", name, m.Text(name))
	}
	return sb.String()
}
