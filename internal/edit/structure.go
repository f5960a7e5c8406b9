package edit

import (
	"slices"
	"strconv"

	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/reindex"
	"github.com/vk/semgraft/internal/semgraph"
)

// SetRoots replaces the root set with the named words.
type SetRoots struct {
	Names []string
}

// NewSetRoots validates and returns a SetRoots edit.
func NewSetRoots(names []string) (*SetRoots, error) {
	if len(names) == 0 {
		return nil, invalid(LabelSetRoots, "at least one root name is required")
	}
	return &SetRoots{Names: slices.Clone(names)}, nil
}

func (e *SetRoots) Label() string { return LabelSetRoots }

func (e *SetRoots) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	ws, ok := words(g, b, e.Names)
	if !ok {
		return false
	}
	semgraph.SortWords(ws)
	if slices.Equal(ws, g.Roots()) {
		return false
	}
	if err := g.SetRoots(ws...); err != nil {
		inconsistent("setting roots: %v", err)
	}
	return true
}

func (e *SetRoots) EditString() string {
	lw := newLine(LabelSetRoots)
	for _, n := range e.Names {
		lw.bare(n)
	}
	return lw.String()
}

// ReindexGraph renumbers the words 1..n in word order. Copies of a word keep
// sharing the index of their original.
type ReindexGraph struct{}

// NewReindexGraph returns a ReindexGraph edit.
func NewReindexGraph() *ReindexGraph { return &ReindexGraph{} }

func (e *ReindexGraph) Label() string { return LabelReindexGraph }

func (e *ReindexGraph) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	ws := g.Words()
	targets := make([]int, len(ws))
	next := 0
	for i, w := range ws {
		if i == 0 || w.Index != ws[i-1].Index || w.SentIndex != ws[i-1].SentIndex {
			next++
		}
		targets[i] = next
	}

	// Targets are monotone in word order, so words moving left can go
	// lowest-first and words moving right highest-first without collisions.
	changed := false
	for i, w := range ws {
		if targets[i] < w.Index {
			reindex.MoveNode(g, b, w, targets[i])
			changed = true
		}
	}
	for i := len(ws) - 1; i >= 0; i-- {
		if targets[i] > ws[i].Index {
			reindex.MoveNode(g, b, ws[i], targets[i])
			changed = true
		}
	}
	return changed
}

func (e *ReindexGraph) EditString() string { return LabelReindexGraph }

// SetPhraseHead makes one word of a phrase its head. The phrase must hang off
// the rest of the graph by a single edge, or be rooted: every other member's
// governors lie inside the phrase. Internal edges are replaced by Reln edges
// from the new head, the external edge and root membership move to the new
// head, and so do edges leaving the phrase from other members.
type SetPhraseHead struct {
	Names     []string
	HeadIndex int
	Reln      string
	Weight    float64
}

// NewSetPhraseHead validates and returns a SetPhraseHead edit.
func NewSetPhraseHead(names []string, headIndex int, reln string, weight float64) (*SetPhraseHead, error) {
	if len(names) == 0 {
		return nil, invalid(LabelSetPhraseHead, "at least one -node is required")
	}
	if headIndex < 0 || headIndex >= len(names) {
		return nil, invalid(LabelSetPhraseHead, "-headIndex %d out of range for %d nodes", headIndex, len(names))
	}
	if reln == "" {
		return nil, invalid(LabelSetPhraseHead, "-reln is required")
	}
	return &SetPhraseHead{Names: slices.Clone(names), HeadIndex: headIndex, Reln: reln, Weight: weight}, nil
}

func (e *SetPhraseHead) Label() string { return LabelSetPhraseHead }

func (e *SetPhraseHead) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	ws, ok := words(g, b, e.Names)
	if !ok {
		return false
	}
	set := memberSet(ws)
	head := ws[e.HeadIndex]

	var tops []*semgraph.Word
	var external []*semgraph.Edge
	for _, w := range ws {
		in := g.IncomingEdges(w)
		outside := 0
		for _, ed := range in {
			if !set[ed.Gov] {
				external = append(external, ed)
				outside++
			}
		}
		if outside > 0 || len(in) == 0 || g.IsRoot(w) {
			tops = append(tops, w)
		}
	}
	if len(tops) != 1 || len(external) > 1 {
		return false
	}
	top := tops[0]
	if len(external) == 0 && !g.IsRoot(top) {
		return false
	}
	if top == head && e.alreadyHeaded(g, ws, head, set) {
		return false
	}

	for _, w := range ws {
		for _, ed := range g.OutgoingEdges(w) {
			if set[ed.Dep] {
				mustRemoveEdge(g, b, ed)
			}
		}
	}
	for _, w := range ws {
		if w != head {
			mustAddEdge(g, head, w, e.Reln, e.Weight, false)
		}
	}
	if len(external) == 1 && external[0].Dep != head {
		old := external[0]
		replaceEdge(g, b, old, old.Gov, head, old.Reln)
	}
	if top != head && g.IsRoot(top) {
		g.RemoveRoot(top)
		if err := g.AddRoot(head); err != nil {
			inconsistent("root transfer: %v", err)
		}
	}
	for _, w := range ws {
		if w == head {
			continue
		}
		for _, ed := range g.OutgoingEdges(w) {
			if !set[ed.Dep] {
				replaceEdge(g, b, ed, head, ed.Dep, ed.Reln)
			}
		}
	}
	return true
}

// alreadyHeaded reports whether the only internal edges are one Reln edge from
// head to each other member.
func (e *SetPhraseHead) alreadyHeaded(g *semgraph.Graph, ws []*semgraph.Word, head *semgraph.Word, set map[*semgraph.Word]bool) bool {
	internal := 0
	for _, w := range ws {
		for _, ed := range g.OutgoingEdges(w) {
			if !set[ed.Dep] {
				continue
			}
			if ed.Gov != head || ed.Reln != e.Reln {
				return false
			}
			internal++
		}
	}
	return internal == len(ws)-1
}

func (e *SetPhraseHead) EditString() string {
	lw := newLine(LabelSetPhraseHead)
	for _, n := range e.Names {
		lw.flag("node", n)
	}
	lw.flag("headIndex", strconv.Itoa(e.HeadIndex)).flag("reln", e.Reln)
	if e.Weight != semgraph.DefaultWeight {
		lw.flag("weight", formatWeight(e.Weight))
	}
	return lw.String()
}
