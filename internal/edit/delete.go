package edit

import (
	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/reindex"
	"github.com/vk/semgraft/internal/semgraph"
)

// DeleteLeaf removes a word without dependents and closes the gap it leaves
// in the numbering.
type DeleteLeaf struct {
	Node string
}

// NewDeleteLeaf validates and returns a DeleteLeaf edit.
func NewDeleteLeaf(node string) (*DeleteLeaf, error) {
	if node == "" {
		return nil, invalid(LabelDeleteLeaf, "-node is required")
	}
	return &DeleteLeaf{Node: node}, nil
}

func (e *DeleteLeaf) Label() string { return LabelDeleteLeaf }

func (e *DeleteLeaf) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	w, ok := word(g, b, e.Node)
	if !ok || len(g.OutgoingEdges(w)) > 0 {
		return false
	}
	reindex.RemoveAndCompact(g, b, w)
	g.RepairRoots()
	return true
}

func (e *DeleteLeaf) EditString() string {
	return newLine(LabelDeleteLeaf).flag("node", e.Node).String()
}

// DeleteGraphFromNode removes the whole connected piece of the graph a word
// belongs to, following edges in both directions. Indices are left alone.
type DeleteGraphFromNode struct {
	Node string
}

// NewDeleteGraphFromNode validates and returns a DeleteGraphFromNode edit.
func NewDeleteGraphFromNode(node string) (*DeleteGraphFromNode, error) {
	if node == "" {
		return nil, invalid(LabelDeleteGraphFromNode, "-node is required")
	}
	return &DeleteGraphFromNode{Node: node}, nil
}

func (e *DeleteGraphFromNode) Label() string { return LabelDeleteGraphFromNode }

func (e *DeleteGraphFromNode) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	w, ok := word(g, b, e.Node)
	if !ok {
		return false
	}
	for _, x := range g.Component(w) {
		g.RemoveWord(x)
		b.Forget(x)
	}
	g.RepairRoots()
	return true
}

func (e *DeleteGraphFromNode) EditString() string {
	return newLine(LabelDeleteGraphFromNode).flag("node", e.Node).String()
}

// KillNonRootedNodes removes every word that no root reaches.
type KillNonRootedNodes struct{}

// NewKillNonRootedNodes returns a KillNonRootedNodes edit.
func NewKillNonRootedNodes() *KillNonRootedNodes { return &KillNonRootedNodes{} }

func (e *KillNonRootedNodes) Label() string { return LabelKillNonRootedNodes }

func (e *KillNonRootedNodes) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	if len(g.Roots()) == 0 {
		return false
	}
	rooted := memberSet(g.Rooted())
	changed := false
	for _, w := range g.Words() {
		if rooted[w] {
			continue
		}
		g.RemoveWord(w)
		b.Forget(w)
		changed = true
	}
	return changed
}

func (e *KillNonRootedNodes) EditString() string { return LabelKillNonRootedNodes }
