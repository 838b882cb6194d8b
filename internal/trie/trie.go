package trie

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

/*
Arena-based fingerprint index

A fingerprint is an unordered set of keys. Before insertion the keys are
sorted and deduplicated, so every set has exactly one path through the trie
and the shape of the trie does not depend on insertion order.

Nodes live in a single slice and refer to their children by index. The root
is index 0. A node that ends a fingerprint carries the value stored for it.

Lookup walks every path whose keys are all present in the query set, which
yields all stored fingerprints that are subsets of the query.
*/

var (
	ErrDuplicate        = errors.New("fingerprint already registered")
	ErrEmptyFingerprint = errors.New("fingerprint has no keys")
)

// NodeIndex represents the index of a trie node.
type NodeIndex int

// Arena stores all trie nodes.
type Arena struct {
	nodes []arenaNode
}

type arenaNode struct {
	// children maps a key to the index of the child node.
	children map[string]NodeIndex
	isEnd    bool
	value    string
}

// NewArena creates a new arena holding only the root.
func NewArena() *Arena {
	arena := &Arena{
		nodes: make([]arenaNode, 0, 64),
	}
	arena.nodes = append(arena.nodes, arenaNode{children: make(map[string]NodeIndex)})
	return arena
}

func (a *Arena) newNode() NodeIndex {
	idx := NodeIndex(len(a.nodes))
	a.nodes = append(a.nodes, arenaNode{children: make(map[string]NodeIndex)})
	return idx
}

// Insert stores value under the canonical (sorted) path of keys.
func (a *Arena) Insert(keys []string, value string) error {
	path := Canonical(keys)
	if len(path) == 0 {
		return ErrEmptyFingerprint
	}

	current := NodeIndex(0)
	for _, part := range path {
		node := &a.nodes[current]
		childIdx, exists := node.children[part]
		if !exists {
			childIdx = a.newNode()
			// newNode may have grown the slice
			a.nodes[current].children[part] = childIdx
		}
		current = childIdx
	}

	end := &a.nodes[current]
	if end.isEnd {
		return fmt.Errorf("%w: {%s} maps to %s and %s", ErrDuplicate, strings.Join(path, ", "), end.value, value)
	}
	end.isEnd = true
	end.value = value
	return nil
}

// Hit is one stored fingerprint found by a subset search.
type Hit struct {
	Keys  []string
	Value string
}

// Subsets returns every stored fingerprint whose keys all appear in query.
// Hits are ordered by descending size, then by the lexical order of their
// joined keys.
func (a *Arena) Subsets(query map[string]bool) []Hit {
	var hits []Hit
	a.collect(NodeIndex(0), query, nil, &hits)
	sort.Slice(hits, func(i, j int) bool {
		if len(hits[i].Keys) != len(hits[j].Keys) {
			return len(hits[i].Keys) > len(hits[j].Keys)
		}
		return strings.Join(hits[i].Keys, " ") < strings.Join(hits[j].Keys, " ")
	})
	return hits
}

func (a *Arena) collect(idx NodeIndex, query map[string]bool, path []string, hits *[]Hit) {
	node := a.nodes[idx]
	if node.isEnd {
		keys := make([]string, len(path))
		copy(keys, path)
		*hits = append(*hits, Hit{Keys: keys, Value: node.value})
	}
	for key, child := range node.children {
		if query[key] {
			a.collect(child, query, append(path, key), hits)
		}
	}
}

// Equal checks whether two tries are identical in structure and content.
func (a *Arena) Equal(b *Arena) bool {
	if len(a.nodes) != len(b.nodes) {
		return false
	}
	return a.equalNodes(NodeIndex(0), b, NodeIndex(0))
}

func (a *Arena) equalNodes(aIdx NodeIndex, b *Arena, bIdx NodeIndex) bool {
	nodeA := a.nodes[aIdx]
	nodeB := b.nodes[bIdx]

	if nodeA.isEnd != nodeB.isEnd || nodeA.value != nodeB.value || len(nodeA.children) != len(nodeB.children) {
		return false
	}

	for _, key := range sortedKeys(nodeA.children) {
		childA := nodeA.children[key]
		childB, exists := nodeB.children[key]
		if !exists || !a.equalNodes(childA, b, childB) {
			return false
		}
	}
	return true
}

// DebugString returns a deterministic rendering of the trie.
func (a *Arena) DebugString() string {
	return a.debugStringNode(NodeIndex(0))
}

func (a *Arena) debugStringNode(idx NodeIndex) string {
	node := a.nodes[idx]
	var sb strings.Builder

	if node.isEnd {
		sb.WriteString("*")
		sb.WriteString(node.value)
	}
	for _, key := range sortedKeys(node.children) {
		sb.WriteString(key)
		sb.WriteString("(")
		sb.WriteString(a.debugStringNode(node.children[key]))
		sb.WriteString(")")
	}
	return sb.String()
}

func sortedKeys(m map[string]NodeIndex) []string {
	keys := make([]string, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Canonical returns the sorted, deduplicated, non-empty keys.
func Canonical(keys []string) []string {
	out := make([]string, 0, len(keys))
	seen := make(map[string]bool, len(keys))
	for _, k := range keys {
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Trie is the fingerprint index used by callers.
type Trie struct {
	arena *Arena
	size  int
}

// New returns an empty Trie.
func New() *Trie {
	return &Trie{arena: NewArena()}
}

// Insert registers value under the fingerprint keys.
func (t *Trie) Insert(keys []string, value string) error {
	if err := t.arena.Insert(keys, value); err != nil {
		return err
	}
	t.size++
	return nil
}

// Len returns the number of stored fingerprints.
func (t *Trie) Len() int {
	return t.size
}

// Best returns the most specific fingerprint contained in query.
func (t *Trie) Best(query []string) (Hit, bool) {
	hits := t.Subsets(query)
	if len(hits) == 0 {
		return Hit{}, false
	}
	return hits[0], true
}

// Subsets returns every fingerprint contained in query, most specific first.
func (t *Trie) Subsets(query []string) []Hit {
	set := make(map[string]bool, len(query))
	for _, q := range query {
		set[q] = true
	}
	return t.arena.Subsets(set)
}

// Equal checks whether two tries hold the same fingerprints and values.
func (t *Trie) Equal(other *Trie) bool {
	return t.arena.Equal(other.arena)
}

// DebugString returns a deterministic rendering of the trie.
func (t *Trie) DebugString() string {
	return t.arena.DebugString()
}
