// Package reindex changes the position index of words. Because the index is
// part of a word's identity, a move builds a replacement word, rewires its
// edges and root membership, and repoints every binding that referenced the
// old word or its edges.
package reindex

import (
	"errors"
	"fmt"
	"slices"

	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/semgraph"
)

// ErrIndexCollision is the panic value (wrapped) raised when a move targets an
// identity that is still occupied. It signals a caller that shifted words in
// the wrong order.
var ErrIndexCollision = errors.New("reindex: target index occupied")

// MoveNode moves w to newIndex and returns the replacement word. Moving a word
// to its current index does nothing and reports false. b may be nil.
func MoveNode(g *semgraph.Graph, b *binding.Bindings, w *semgraph.Word, newIndex int) (*semgraph.Word, bool) {
	if w.Index == newIndex {
		return w, false
	}
	if !g.ContainsWord(w) {
		panic(fmt.Errorf("reindex: move of %v: %w", w, semgraph.ErrNotMember))
	}
	repl := w.WithIndex(newIndex)
	if g.Lookup(repl.Key()) != nil {
		panic(fmt.Errorf("%w: moving %v to %d", ErrIndexCollision, w, newIndex))
	}

	in := g.IncomingEdges(w)
	out := g.OutgoingEdges(w)
	wasRoot := g.IsRoot(w)

	g.RemoveWord(w)
	if err := g.AddWord(repl); err != nil {
		panic(fmt.Errorf("%w: %v", ErrIndexCollision, err))
	}

	swap := func(x *semgraph.Word) *semgraph.Word {
		if x == w {
			return repl
		}
		return x
	}
	rewired := make(map[*semgraph.Edge]*semgraph.Edge, len(in)+len(out))
	for _, e := range slices.Concat(in, out) {
		if _, done := rewired[e]; done {
			// A self loop shows up in both lists.
			continue
		}
		ne, err := g.AddEdge(swap(e.Gov), swap(e.Dep), e.Reln, e.Weight, e.Extra)
		if err != nil {
			panic(fmt.Errorf("reindex: rewiring %v: %w", e, err))
		}
		rewired[e] = ne
	}
	if wasRoot {
		if err := g.AddRoot(repl); err != nil {
			panic(fmt.Errorf("reindex: root transfer: %w", err))
		}
	}

	if b != nil {
		b.ReplaceWord(w, repl)
		for old, ne := range rewired {
			b.ReplaceEdge(old, ne)
		}
	}
	return repl, true
}

// MoveNodes moves every word whose index satisfies pred to dest(index).
// Words are visited in ascending order, or descending when reverse is set.
// Shifting right needs reverse=true and shifting left reverse=false; the
// other order collides with a word that has not moved yet.
func MoveNodes(g *semgraph.Graph, b *binding.Bindings, pred func(int) bool, dest func(int) int, reverse bool) bool {
	var selected []*semgraph.Word
	for _, w := range g.Words() {
		if pred(w.Index) {
			selected = append(selected, w)
		}
	}
	if reverse {
		slices.Reverse(selected)
	}
	changed := false
	for _, w := range selected {
		if _, moved := MoveNode(g, b, w, dest(w.Index)); moved {
			changed = true
		}
	}
	return changed
}

// ShiftRight opens room after from: every word with index >= from moves n
// places to the right.
func ShiftRight(g *semgraph.Graph, b *binding.Bindings, from, n int) bool {
	return MoveNodes(g, b, func(i int) bool { return i >= from }, func(i int) int { return i + n }, true)
}

// ShiftLeft closes a gap: every word with index > after moves one place left.
func ShiftLeft(g *semgraph.Graph, b *binding.Bindings, after int) bool {
	return MoveNodes(g, b, func(i int) bool { return i > after }, func(i int) int { return i - 1 }, false)
}

// RemoveAndCompact removes w and, unless another word (a copy) still occupies
// its index, moves every later word one place to the left. Bindings to w are
// dropped.
func RemoveAndCompact(g *semgraph.Graph, b *binding.Bindings, w *semgraph.Word) bool {
	if !g.RemoveWord(w) {
		return false
	}
	if b != nil {
		b.Forget(w)
	}
	if g.WordByIndex(w.Index) == nil {
		ShiftLeft(g, b, w.Index)
	}
	return true
}
