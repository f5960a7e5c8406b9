package semgraph

import (
	"errors"
	"fmt"
	"slices"
)

var (
	// ErrNotMember is returned when an operation names a word the graph does not hold.
	ErrNotMember = errors.New("word is not a member of the graph")
	// ErrDuplicateWord is returned when a word's key is already taken.
	ErrDuplicateWord = errors.New("word key already present")
)

// Graph is a dependency graph over words.
type Graph struct {
	words map[Key]*Word
	out   map[Key][]*Edge
	in    map[Key][]*Edge
	roots map[Key]struct{}
}

// New returns an empty graph.
func New() *Graph {
	return &Graph{
		words: make(map[Key]*Word),
		out:   make(map[Key][]*Edge),
		in:    make(map[Key][]*Edge),
		roots: make(map[Key]struct{}),
	}
}

// Size returns the number of words.
func (g *Graph) Size() int {
	return len(g.words)
}

// IsEmpty reports whether the graph holds no words.
func (g *Graph) IsEmpty() bool {
	return len(g.words) == 0
}

// AddWord inserts w. The key of w must not already be in use.
func (g *Graph) AddWord(w *Word) error {
	k := w.Key()
	if _, exists := g.words[k]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateWord, w)
	}
	g.words[k] = w
	return nil
}

// ContainsWord reports whether w itself (not merely a word with the same key)
// is a member of the graph.
func (g *Graph) ContainsWord(w *Word) bool {
	if w == nil {
		return false
	}
	return g.words[w.Key()] == w
}

// Lookup returns the word with key k, or nil.
func (g *Graph) Lookup(k Key) *Word {
	return g.words[k]
}

// WordByIndex returns the word at index with the lowest copy count, or nil.
func (g *Graph) WordByIndex(index int) *Word {
	var found *Word
	for _, w := range g.words {
		if w.Index != index {
			continue
		}
		if found == nil || Compare(w, found) < 0 {
			found = w
		}
	}
	return found
}

// Words returns all words in Compare order.
func (g *Graph) Words() []*Word {
	ws := make([]*Word, 0, len(g.words))
	for _, w := range g.words {
		ws = append(ws, w)
	}
	SortWords(ws)
	return ws
}

// MaxIndex returns the highest position index, or 0 for an empty graph.
func (g *Graph) MaxIndex() int {
	highest := 0
	for k := range g.words {
		if k.Index > highest {
			highest = k.Index
		}
	}
	return highest
}

// RemoveWord removes w together with its incident edges and root membership.
// It reports whether w was a member.
func (g *Graph) RemoveWord(w *Word) bool {
	if !g.ContainsWord(w) {
		return false
	}
	k := w.Key()
	for _, e := range slices.Clone(g.out[k]) {
		g.RemoveEdge(e)
	}
	for _, e := range slices.Clone(g.in[k]) {
		g.RemoveEdge(e)
	}
	delete(g.words, k)
	delete(g.out, k)
	delete(g.in, k)
	delete(g.roots, k)
	return true
}

// AddEdge creates and inserts an edge. Both endpoints must be members.
// Duplicates are not suppressed.
func (g *Graph) AddEdge(gov, dep *Word, reln string, weight float64, extra bool) (*Edge, error) {
	if !g.ContainsWord(gov) {
		return nil, fmt.Errorf("governor %v: %w", gov, ErrNotMember)
	}
	if !g.ContainsWord(dep) {
		return nil, fmt.Errorf("dependent %v: %w", dep, ErrNotMember)
	}
	e := &Edge{Gov: gov, Dep: dep, Reln: reln, Weight: weight, Extra: extra}
	g.out[gov.Key()] = append(g.out[gov.Key()], e)
	g.in[dep.Key()] = append(g.in[dep.Key()], e)
	return e, nil
}

// RemoveEdge removes e and reports whether it was present.
func (g *Graph) RemoveEdge(e *Edge) bool {
	if !g.ContainsEdge(e) {
		return false
	}
	gk, dk := e.Gov.Key(), e.Dep.Key()
	g.out[gk] = slices.DeleteFunc(g.out[gk], func(x *Edge) bool { return x == e })
	g.in[dk] = slices.DeleteFunc(g.in[dk], func(x *Edge) bool { return x == e })
	return true
}

// ContainsEdge reports whether e itself is in the graph.
func (g *Graph) ContainsEdge(e *Edge) bool {
	if e == nil || !g.ContainsWord(e.Gov) {
		return false
	}
	return slices.Contains(g.out[e.Gov.Key()], e)
}

// FindEdge returns an edge gov -reln-> dep, or nil.
func (g *Graph) FindEdge(gov, dep *Word, reln string) *Edge {
	if !g.ContainsWord(gov) {
		return nil
	}
	for _, e := range g.out[gov.Key()] {
		if e.Dep == dep && e.Reln == reln {
			return e
		}
	}
	return nil
}

// OutgoingEdges returns the edges governed by w, sorted.
func (g *Graph) OutgoingEdges(w *Word) []*Edge {
	if !g.ContainsWord(w) {
		return nil
	}
	return sortedEdges(g.out[w.Key()])
}

// IncomingEdges returns the edges whose dependent is w, sorted.
func (g *Graph) IncomingEdges(w *Word) []*Edge {
	if !g.ContainsWord(w) {
		return nil
	}
	return sortedEdges(g.in[w.Key()])
}

// Edges returns every edge of the graph, sorted.
func (g *Graph) Edges() []*Edge {
	var all []*Edge
	for _, es := range g.out {
		all = append(all, es...)
	}
	return sortedEdges(all)
}

func sortedEdges(es []*Edge) []*Edge {
	if len(es) == 0 {
		return nil
	}
	c := slices.Clone(es)
	slices.SortStableFunc(c, CompareEdges)
	return c
}

// Children returns the distinct dependents of w.
func (g *Graph) Children(w *Word) []*Word {
	return distinctWords(g.OutgoingEdges(w), func(e *Edge) *Word { return e.Dep })
}

// Parents returns the distinct governors of w.
func (g *Graph) Parents(w *Word) []*Word {
	return distinctWords(g.IncomingEdges(w), func(e *Edge) *Word { return e.Gov })
}

func distinctWords(es []*Edge, end func(*Edge) *Word) []*Word {
	seen := make(map[*Word]bool)
	var ws []*Word
	for _, e := range es {
		w := end(e)
		if !seen[w] {
			seen[w] = true
			ws = append(ws, w)
		}
	}
	SortWords(ws)
	return ws
}

// Roots returns the root words, sorted.
func (g *Graph) Roots() []*Word {
	ws := make([]*Word, 0, len(g.roots))
	for k := range g.roots {
		ws = append(ws, g.words[k])
	}
	SortWords(ws)
	return ws
}

// IsRoot reports whether w is a root.
func (g *Graph) IsRoot(w *Word) bool {
	if !g.ContainsWord(w) {
		return false
	}
	_, ok := g.roots[w.Key()]
	return ok
}

// AddRoot adds w to the root set.
func (g *Graph) AddRoot(w *Word) error {
	if !g.ContainsWord(w) {
		return fmt.Errorf("root %v: %w", w, ErrNotMember)
	}
	g.roots[w.Key()] = struct{}{}
	return nil
}

// RemoveRoot removes w from the root set and reports whether it was a root.
func (g *Graph) RemoveRoot(w *Word) bool {
	if !g.IsRoot(w) {
		return false
	}
	delete(g.roots, w.Key())
	return true
}

// SetRoots replaces the root set. Every word must be a member.
func (g *Graph) SetRoots(ws ...*Word) error {
	for _, w := range ws {
		if !g.ContainsWord(w) {
			return fmt.Errorf("root %v: %w", w, ErrNotMember)
		}
	}
	g.roots = make(map[Key]struct{}, len(ws))
	for _, w := range ws {
		g.roots[w.Key()] = struct{}{}
	}
	return nil
}

// RepairRoots restores a non-empty root set on a non-empty graph whose roots
// were all removed. The new roots are the words without governors, or the
// first word when every word has one. It reports whether it changed anything.
func (g *Graph) RepairRoots() bool {
	if len(g.roots) > 0 || len(g.words) == 0 {
		return false
	}
	ws := g.Words()
	for _, w := range ws {
		if len(g.in[w.Key()]) == 0 {
			g.roots[w.Key()] = struct{}{}
		}
	}
	if len(g.roots) == 0 {
		g.roots[ws[0].Key()] = struct{}{}
	}
	return true
}

// Descendants returns w and every word reachable from it along outgoing edges.
func (g *Graph) Descendants(w *Word) []*Word {
	if !g.ContainsWord(w) {
		return nil
	}
	return g.walk([]*Word{w}, func(x *Word) []*Word { return g.Children(x) })
}

// Component returns the weakly connected component that contains w.
func (g *Graph) Component(w *Word) []*Word {
	if !g.ContainsWord(w) {
		return nil
	}
	return g.walk([]*Word{w}, func(x *Word) []*Word {
		return append(g.Children(x), g.Parents(x)...)
	})
}

// Rooted returns every word reachable from some root.
func (g *Graph) Rooted() []*Word {
	return g.walk(g.Roots(), func(x *Word) []*Word { return g.Children(x) })
}

func (g *Graph) walk(start []*Word, next func(*Word) []*Word) []*Word {
	seen := make(map[*Word]bool)
	stack := slices.Clone(start)
	var out []*Word
	for len(stack) > 0 {
		w := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
		stack = append(stack, next(w)...)
	}
	SortWords(out)
	return out
}

// Clone returns an independent deep copy: new words, new edges, same roots.
func (g *Graph) Clone() *Graph {
	c := New()
	for k, w := range g.words {
		c.words[k] = w.Copy()
	}
	for k, es := range g.out {
		for _, e := range es {
			ne := &Edge{Gov: c.words[k], Dep: c.words[e.Dep.Key()], Reln: e.Reln, Weight: e.Weight, Extra: e.Extra}
			c.out[k] = append(c.out[k], ne)
			c.in[e.Dep.Key()] = append(c.in[e.Dep.Key()], ne)
		}
	}
	for k := range g.roots {
		c.roots[k] = struct{}{}
	}
	return c
}
