package edit

import (
	"slices"
	"strings"

	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/reindex"
	"github.com/vk/semgraft/internal/semgraph"
)

// MergeNodes fuses adjacent words into one. Exactly one member, the head, may
// have governors outside the group; every other member must be attached only
// inside it, with no edges leaving it. The head takes the concatenated text
// of the group in word order and the others are removed, closing the gaps in
// the numbering.
type MergeNodes struct {
	Names []string
	Attrs Attrs
}

// NewMergeNodes validates and returns a MergeNodes edit.
func NewMergeNodes(names []string, attrs map[string]string) (*MergeNodes, error) {
	if len(names) < 2 {
		return nil, invalid(LabelMergeNodes, "at least two -node names are required")
	}
	if hasDuplicate(names) {
		return nil, invalid(LabelMergeNodes, "duplicate -node in %v", names)
	}
	a, err := NewAttrs(LabelMergeNodes, attrs)
	if err != nil {
		return nil, err
	}
	return &MergeNodes{Names: slices.Clone(names), Attrs: a}, nil
}

func hasDuplicate(names []string) bool {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if seen[n] {
			return true
		}
		seen[n] = true
	}
	return false
}

func (e *MergeNodes) Label() string { return LabelMergeNodes }

func (e *MergeNodes) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	ws, ok := words(g, b, e.Names)
	if !ok {
		return false
	}
	semgraph.SortWords(ws)
	if !contiguous(ws) {
		return false
	}
	set := memberSet(ws)

	var head *semgraph.Word
	for _, w := range ws {
		if attachedInside(g, w, set) {
			for _, ed := range g.OutgoingEdges(w) {
				if !set[ed.Dep] {
					return false
				}
			}
			continue
		}
		if head != nil {
			return false
		}
		head = w
	}
	if head == nil {
		return false
	}

	mergeText(head, ws, "")
	e.Attrs.applyTo(head)

	for i := len(ws) - 1; i >= 0; i-- {
		if ws[i] != head {
			reindex.RemoveAndCompact(g, b, ws[i])
		}
	}
	return true
}

// attachedInside reports whether w has governors and all of them are in set.
func attachedInside(g *semgraph.Graph, w *semgraph.Word, set map[*semgraph.Word]bool) bool {
	if g.IsRoot(w) {
		return false
	}
	in := g.IncomingEdges(w)
	if len(in) == 0 {
		return false
	}
	for _, ed := range in {
		if !set[ed.Gov] {
			return false
		}
	}
	return true
}

// mergeText writes the joined text of sorted ws onto survivor. The lemma is
// only joined when every member has one.
func mergeText(survivor *semgraph.Word, ws []*semgraph.Word, sep string) {
	var texts, lemmas []string
	for _, w := range ws {
		texts = append(texts, w.Text)
		if w.Lemma != "" {
			lemmas = append(lemmas, w.Lemma)
		}
	}
	survivor.Text = strings.Join(texts, sep)
	survivor.Value = survivor.Text
	if len(lemmas) == len(ws) {
		survivor.Lemma = strings.Join(lemmas, sep)
	}
	survivor.Before = ws[0].Before
	survivor.After = ws[len(ws)-1].After
}

func (e *MergeNodes) EditString() string {
	lw := newLine(LabelMergeNodes)
	for _, n := range e.Names {
		lw.flag("node", n)
	}
	return lw.attrs(e.Attrs).String()
}

// CollapseSubtree folds every descendant of a word into the word itself. The
// survivor takes the space-joined text of the subtree in word order; edges
// from outside into collapsed members are redirected to the survivor.
type CollapseSubtree struct {
	Node string
}

// NewCollapseSubtree validates and returns a CollapseSubtree edit.
func NewCollapseSubtree(node string) (*CollapseSubtree, error) {
	if node == "" {
		return nil, invalid(LabelCollapseSubtree, "-node is required")
	}
	return &CollapseSubtree{Node: node}, nil
}

func (e *CollapseSubtree) Label() string { return LabelCollapseSubtree }

func (e *CollapseSubtree) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	root, ok := word(g, b, e.Node)
	if !ok {
		return false
	}
	members := g.Descendants(root)
	if len(members) < 2 {
		return false
	}
	// Validate before touching anything: no edge may lead back to the survivor.
	for _, m := range members {
		for _, ed := range g.OutgoingEdges(m) {
			if ed.Dep == root {
				return false
			}
		}
	}
	set := memberSet(members)

	mergeText(root, members, " ")
	for _, m := range members {
		if m == root {
			continue
		}
		if g.IsRoot(m) && !g.IsRoot(root) {
			if err := g.AddRoot(root); err != nil {
				inconsistent("root transfer: %v", err)
			}
		}
		for _, ed := range g.IncomingEdges(m) {
			if !set[ed.Gov] && g.FindEdge(ed.Gov, root, ed.Reln) == nil {
				mustAddEdge(g, ed.Gov, root, ed.Reln, ed.Weight, ed.Extra)
			}
		}
	}
	for i := len(members) - 1; i >= 0; i-- {
		if members[i] != root {
			reindex.RemoveAndCompact(g, b, members[i])
		}
	}
	g.RepairRoots()
	return true
}

func (e *CollapseSubtree) EditString() string {
	return newLine(LabelCollapseSubtree).flag("node", e.Node).String()
}
