package edit

import (
	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/semgraph"
)

// AddEdge adds Gov -Reln-> Dep unless an edge with that relation already
// connects the two words.
type AddEdge struct {
	Gov    string
	Dep    string
	Reln   string
	Weight float64
}

// NewAddEdge validates and returns an AddEdge edit.
func NewAddEdge(gov, dep, reln string, weight float64) (*AddEdge, error) {
	if gov == "" || dep == "" || reln == "" {
		return nil, invalid(LabelAddEdge, "-gov, -dep and -reln are required")
	}
	return &AddEdge{Gov: gov, Dep: dep, Reln: reln, Weight: weight}, nil
}

func (e *AddEdge) Label() string { return LabelAddEdge }

func (e *AddEdge) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	gov, ok := word(g, b, e.Gov)
	if !ok {
		return false
	}
	dep, ok := word(g, b, e.Dep)
	if !ok {
		return false
	}
	if g.FindEdge(gov, dep, e.Reln) != nil {
		return false
	}
	mustAddEdge(g, gov, dep, e.Reln, e.Weight, false)
	return true
}

func (e *AddEdge) EditString() string {
	lw := newLine(LabelAddEdge).flag("gov", e.Gov).flag("dep", e.Dep).flag("reln", e.Reln)
	if e.Weight != semgraph.DefaultWeight {
		lw.flag("weight", formatWeight(e.Weight))
	}
	return lw.String()
}

// RemoveEdge removes every edge matching the endpoints and relation. An empty
// Gov or Dep matches any word on that side and an empty Reln any relation.
type RemoveEdge struct {
	Reln string
	Gov  string
	Dep  string
}

// NewRemoveEdge validates and returns a RemoveEdge edit.
func NewRemoveEdge(reln, gov, dep string) (*RemoveEdge, error) {
	if gov == "" && dep == "" {
		return nil, invalid(LabelRemoveEdge, "at least one of -gov and -dep is required")
	}
	return &RemoveEdge{Reln: reln, Gov: gov, Dep: dep}, nil
}

func (e *RemoveEdge) Label() string { return LabelRemoveEdge }

func (e *RemoveEdge) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	var gov, dep *semgraph.Word
	var ok bool
	if e.Gov != "" {
		if gov, ok = word(g, b, e.Gov); !ok {
			return false
		}
	}
	if e.Dep != "" {
		if dep, ok = word(g, b, e.Dep); !ok {
			return false
		}
	}
	var candidates []*semgraph.Edge
	if gov != nil {
		candidates = g.OutgoingEdges(gov)
	} else {
		candidates = g.IncomingEdges(dep)
	}
	changed := false
	for _, c := range candidates {
		if dep != nil && c.Dep != dep {
			continue
		}
		if e.Reln != "" && c.Reln != e.Reln {
			continue
		}
		mustRemoveEdge(g, b, c)
		changed = true
	}
	return changed
}

func (e *RemoveEdge) EditString() string {
	return newLine(LabelRemoveEdge).optFlag("reln", e.Reln).optFlag("gov", e.Gov).optFlag("dep", e.Dep).String()
}

// RemoveNamedEdge removes a bound edge.
type RemoveNamedEdge struct {
	Edge string
}

// NewRemoveNamedEdge validates and returns a RemoveNamedEdge edit.
func NewRemoveNamedEdge(edgeName string) (*RemoveNamedEdge, error) {
	if edgeName == "" {
		return nil, invalid(LabelRemoveNamedEdge, "-edge is required")
	}
	return &RemoveNamedEdge{Edge: edgeName}, nil
}

func (e *RemoveNamedEdge) Label() string { return LabelRemoveNamedEdge }

func (e *RemoveNamedEdge) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	ed, ok := edge(g, b, e.Edge)
	if !ok {
		return false
	}
	mustRemoveEdge(g, b, ed)
	return true
}

func (e *RemoveNamedEdge) EditString() string {
	return newLine(LabelRemoveNamedEdge).flag("edge", e.Edge).String()
}

// RelabelNamedEdge gives a bound edge a new relation. If the same endpoints
// are already connected with that relation, the existing edge is kept and the
// name follows it.
type RelabelNamedEdge struct {
	Edge string
	Reln string
}

// NewRelabelNamedEdge validates and returns a RelabelNamedEdge edit.
func NewRelabelNamedEdge(edgeName, reln string) (*RelabelNamedEdge, error) {
	if edgeName == "" || reln == "" {
		return nil, invalid(LabelRelabelNamedEdge, "-edge and -reln are required")
	}
	return &RelabelNamedEdge{Edge: edgeName, Reln: reln}, nil
}

func (e *RelabelNamedEdge) Label() string { return LabelRelabelNamedEdge }

func (e *RelabelNamedEdge) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	old, ok := edge(g, b, e.Edge)
	if !ok || old.Reln == e.Reln {
		return false
	}
	return replaceEdge(g, b, old, old.Gov, old.Dep, e.Reln)
}

func (e *RelabelNamedEdge) EditString() string {
	return newLine(LabelRelabelNamedEdge).flag("edge", e.Edge).flag("reln", e.Reln).String()
}

// replaceEdge swaps old for gov -reln-> dep, reusing an equivalent edge when
// one exists, and repoints the bindings of old.
func replaceEdge(g *semgraph.Graph, b *binding.Bindings, old *semgraph.Edge, gov, dep *semgraph.Word, reln string) bool {
	target := g.FindEdge(gov, dep, reln)
	if !g.RemoveEdge(old) {
		inconsistent("edge %v vanished", old)
	}
	if target == nil {
		target = mustAddEdge(g, gov, dep, reln, old.Weight, old.Extra)
	}
	b.ReplaceEdge(old, target)
	return true
}

// ReattachNamedEdge moves one or both endpoints of a bound edge.
type ReattachNamedEdge struct {
	Edge string
	Gov  string
	Dep  string
}

// NewReattachNamedEdge validates and returns a ReattachNamedEdge edit.
func NewReattachNamedEdge(edgeName, gov, dep string) (*ReattachNamedEdge, error) {
	if edgeName == "" {
		return nil, invalid(LabelReattachNamedEdge, "-edge is required")
	}
	if gov == "" && dep == "" {
		return nil, invalid(LabelReattachNamedEdge, "at least one of -gov and -dep is required")
	}
	return &ReattachNamedEdge{Edge: edgeName, Gov: gov, Dep: dep}, nil
}

func (e *ReattachNamedEdge) Label() string { return LabelReattachNamedEdge }

func (e *ReattachNamedEdge) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	old, ok := edge(g, b, e.Edge)
	if !ok {
		return false
	}
	gov, dep := old.Gov, old.Dep
	if e.Gov != "" {
		if gov, ok = word(g, b, e.Gov); !ok {
			return false
		}
	}
	if e.Dep != "" {
		if dep, ok = word(g, b, e.Dep); !ok {
			return false
		}
	}
	if gov == old.Gov && dep == old.Dep {
		return false
	}
	return replaceEdge(g, b, old, gov, dep, old.Reln)
}

func (e *ReattachNamedEdge) EditString() string {
	return newLine(LabelReattachNamedEdge).flag("edge", e.Edge).optFlag("gov", e.Gov).optFlag("dep", e.Dep).String()
}

// KillAllIncomingEdges removes every edge pointing at a word.
type KillAllIncomingEdges struct {
	Node string
}

// NewKillAllIncomingEdges validates and returns a KillAllIncomingEdges edit.
func NewKillAllIncomingEdges(node string) (*KillAllIncomingEdges, error) {
	if node == "" {
		return nil, invalid(LabelKillAllIncomingEdges, "-node is required")
	}
	return &KillAllIncomingEdges{Node: node}, nil
}

func (e *KillAllIncomingEdges) Label() string { return LabelKillAllIncomingEdges }

func (e *KillAllIncomingEdges) Apply(g *semgraph.Graph, b *binding.Bindings) bool {
	w, ok := word(g, b, e.Node)
	if !ok {
		return false
	}
	in := g.IncomingEdges(w)
	for _, ed := range in {
		mustRemoveEdge(g, b, ed)
	}
	return len(in) > 0
}

func (e *KillAllIncomingEdges) EditString() string {
	return newLine(LabelKillAllIncomingEdges).flag("node", e.Node).String()
}
