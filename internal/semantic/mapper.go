// Package semantic turns an intent and its slots into an IR tree.
//
// Function bodies come from the idiom table when the instruction's
// fingerprint contains one of an idiom's fingerprints. Otherwise the
// mapper tries to synthesize statements from known predicates and verbs,
// and falls back to a placeholder body with a CodeGenWarning.
package semantic

import (
	"fmt"
	"strings"

	"github.com/gnoswap-labs/nlc/internal/extract"
	"github.com/gnoswap-labs/nlc/internal/ir"
	"github.com/gnoswap-labs/nlc/internal/lexicon"
	"github.com/gnoswap-labs/nlc/internal/types"
)

// Result is the outcome of mapping one instruction.
type Result struct {
	Node     ir.Node
	Idiom    string
	Warnings []types.CodeGenWarning
}

type handler func(*mapping) (ir.Node, error)

// Mapper holds the immutable tables shared by every Map call.
type Mapper struct {
	idioms   *IdiomTable
	syn      *lexicon.Synonyms
	handlers map[types.Intent]handler
}

// New creates a mapper over an idiom table and a synonym table.
func New(idioms *IdiomTable, syn *lexicon.Synonyms) *Mapper {
	return &Mapper{
		idioms: idioms,
		syn:    syn,
		handlers: map[types.Intent]handler{
			types.FunctionDef: (*mapping).function,
			types.ClassDef:    (*mapping).class,
			types.Conditional: (*mapping).conditional,
			types.Loop:        (*mapping).loop,
		},
	}
}

// Idioms returns the idiom table the mapper resolves against.
func (m *Mapper) Idioms() *IdiomTable {
	return m.idioms
}

// mapping is the state of a single Map call.
type mapping struct {
	m        *Mapper
	intent   types.Intent
	slots    extract.SlotMap
	idiom    string
	warnings []types.CodeGenWarning
}

// Map builds the IR tree for one instruction. It fails with a
// *types.SemanticError when a slot the intent needs is missing.
func (m *Mapper) Map(intent types.Intent, slots extract.SlotMap) (Result, error) {
	h, ok := m.handlers[intent]
	if !ok {
		return Result{}, &types.SemanticError{Intent: intent, MissingSlot: "intent"}
	}

	st := &mapping{m: m, intent: intent, slots: slots}
	node, err := h(st)
	if err != nil {
		return Result{}, err
	}
	if err := ir.Validate(node); err != nil {
		return Result{}, fmt.Errorf("map %s: %w", intent, err)
	}
	return Result{Node: node, Idiom: st.idiom, Warnings: st.warnings}, nil
}

func (st *mapping) missing(slot string) error {
	return &types.SemanticError{Intent: st.intent, MissingSlot: slot}
}

func (st *mapping) warn(target, format string, args ...any) {
	st.warnings = append(st.warnings, types.CodeGenWarning{
		Reason: fmt.Sprintf(format, args...),
		Target: target,
	})
}

// placeholder is the body used when nothing better can be generated.
func (st *mapping) placeholder(target string, toks []types.Token) []ir.Statement {
	what := strings.TrimSuffix(sentence(toks), ".")
	if what == "" {
		what = "implement " + target
	}
	st.warn(target, "no idiom or synthesis rule matched; generated a placeholder body")
	return []ir.Statement{ir.Pass{Comment: "TODO: " + strings.ToLower(what[:1]) + what[1:]}}
}

// fingerprint collects the lookup keys of the instruction: the canonical
// action and operation, every content lemma of the purpose clause with its
// canonical synonym and "to:<lemma>" for conversion targets.
func (st *mapping) fingerprint(extra ...string) []string {
	seen := make(map[string]bool)
	var keys []string
	add := func(k string) {
		if k != "" && !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}

	add(st.slots.Canonical(extract.SlotAction))
	add(st.slots.Canonical(extract.SlotOperation))
	for _, t := range st.slots.Tokens(extract.SlotOperation) {
		add(t.Lemma)
	}
	for _, k := range extra {
		add(k)
	}

	toks := st.slots.Tokens(extract.SlotPurpose)
	if len(toks) == 0 {
		toks = st.slots.All()
	}
	for i, t := range toks {
		if t.Category.IsContent() {
			add(t.Lemma)
			if c, ok := st.m.syn.Canonical(t.Lemma); ok {
				add(c)
			}
		}
		if (t.Lemma == "to" || t.Lemma == "into") && i+1 < len(toks) {
			add("to:" + toks[i+1].Lemma)
		}
	}
	return keys
}

func (st *mapping) phrase(slot string) phrase {
	return parsePhrase(st.slots.Tokens(slot))
}

// nameWords is the lower-cased text of tokens without determiners,
// punctuation and conjunctions.
func nameWords(toks []types.Token) []string {
	var out []string
	for _, t := range toks {
		switch t.Category {
		case types.Determiner, types.Punctuation, types.CoordConj, types.Pronoun:
			continue
		}
		out = append(out, strings.ToLower(t.Text))
	}
	return out
}

// untilConj cuts toks before the first coordinating conjunction.
func untilConj(toks []types.Token) []types.Token {
	for i, t := range toks {
		if t.Category == types.CoordConj || t.Category == types.Punctuation {
			return toks[:i]
		}
	}
	return toks
}
