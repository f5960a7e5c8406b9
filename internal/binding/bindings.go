// Package binding holds the name tables produced by a pattern match: names
// bound to words and names bound to edges.
//
// Edits never change a word's identity in place. When a word or edge is
// replaced, every name that pointed at the old object is repointed with
// ReplaceWord or ReplaceEdge before the next edit runs.
package binding

import (
	"maps"
	"slices"

	"github.com/vk/semgraft/internal/semgraph"
)

// Bindings maps names to words and edges. The zero value is not usable; use New.
type Bindings struct {
	words map[string]*semgraph.Word
	edges map[string]*semgraph.Edge
}

// New returns empty bindings.
func New() *Bindings {
	return &Bindings{
		words: make(map[string]*semgraph.Word),
		edges: make(map[string]*semgraph.Edge),
	}
}

// Word returns the word bound to name.
func (b *Bindings) Word(name string) (*semgraph.Word, bool) {
	w, ok := b.words[name]
	return w, ok
}

// Edge returns the edge bound to name.
func (b *Bindings) Edge(name string) (*semgraph.Edge, bool) {
	e, ok := b.edges[name]
	return e, ok
}

// BindWord binds name to w, replacing any previous binding.
func (b *Bindings) BindWord(name string, w *semgraph.Word) {
	b.words[name] = w
}

// BindEdge binds name to e, replacing any previous binding.
func (b *Bindings) BindEdge(name string, e *semgraph.Edge) {
	b.edges[name] = e
}

// WordNames returns the bound word names, sorted.
func (b *Bindings) WordNames() []string {
	return slices.Sorted(maps.Keys(b.words))
}

// EdgeNames returns the bound edge names, sorted.
func (b *Bindings) EdgeNames() []string {
	return slices.Sorted(maps.Keys(b.edges))
}

// ReplaceWord repoints every name bound to old at repl. It returns the number
// of names updated.
func (b *Bindings) ReplaceWord(old, repl *semgraph.Word) int {
	n := 0
	for name, w := range b.words {
		if w == old {
			b.words[name] = repl
			n++
		}
	}
	return n
}

// ReplaceEdge repoints every name bound to old at repl.
func (b *Bindings) ReplaceEdge(old, repl *semgraph.Edge) int {
	n := 0
	for name, e := range b.edges {
		if e == old {
			b.edges[name] = repl
			n++
		}
	}
	return n
}

// Forget drops every binding to w and to edges touching w.
func (b *Bindings) Forget(w *semgraph.Word) {
	maps.DeleteFunc(b.words, func(_ string, x *semgraph.Word) bool { return x == w })
	maps.DeleteFunc(b.edges, func(_ string, e *semgraph.Edge) bool { return e.Gov == w || e.Dep == w })
}

// ForgetEdge drops every binding to e.
func (b *Bindings) ForgetEdge(e *semgraph.Edge) {
	maps.DeleteFunc(b.edges, func(_ string, x *semgraph.Edge) bool { return x == e })
}

// Ambiguous reports whether two distinct names are bound to the same word.
func (b *Bindings) Ambiguous() bool {
	seen := make(map[*semgraph.Word]struct{}, len(b.words))
	for _, w := range b.words {
		if _, dup := seen[w]; dup {
			return true
		}
		seen[w] = struct{}{}
	}
	return false
}

// Clone returns an independent copy of the name tables. Words and edges are shared.
func (b *Bindings) Clone() *Bindings {
	return &Bindings{words: maps.Clone(b.words), edges: maps.Clone(b.edges)}
}

// Rebase translates the bindings onto g, typically a clone of the graph the
// match was made against. Words are looked up by key and edges by value;
// names with no counterpart in g are dropped.
func (b *Bindings) Rebase(g *semgraph.Graph) *Bindings {
	out := New()
	for name, w := range b.words {
		if nw := g.Lookup(w.Key()); nw != nil {
			out.words[name] = nw
		}
	}
	for name, e := range b.edges {
		gov := g.Lookup(e.Gov.Key())
		dep := g.Lookup(e.Dep.Key())
		if gov == nil || dep == nil {
			continue
		}
		for _, ne := range g.OutgoingEdges(gov) {
			if ne.Dep == dep && ne.SameValue(e) {
				out.edges[name] = ne
				break
			}
		}
	}
	return out
}
