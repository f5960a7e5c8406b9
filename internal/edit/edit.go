// Package edit implements the catalog of graph edits a rewrite rule can run
// after a match.
//
// # Contract
//
// Every edit is validated once, when it is constructed (New* functions or
// ParseEditLine); construction errors wrap ErrInvalidEdit. Apply never returns
// an error: if a name is not bound, or a structural precondition does not
// hold, it leaves the graph untouched and reports false. A panic wrapping
// ErrInconsistent means the graph itself broke an invariant and the run
// cannot continue.
//
// # Identity
//
// Edits never change a word's index in place. Index changes go through
// package reindex, which replaces the word and repoints the bindings, so a
// name stays valid across every later edit of the same script.
//
// # Serialization
//
// EditString renders an edit as the line ParseEditLine reads back, e.g.
//
//	relabelNamedEdge -edge bad -reln advcl
//	addDep -gov antennae -reln dep -position -antennae -word blue
package edit

import (
	"errors"
	"fmt"

	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/semgraph"
)

var (
	// ErrInvalidEdit is wrapped by every construction error.
	ErrInvalidEdit = errors.New("invalid edit")
	// ErrInconsistent is wrapped by panics raised when the graph breaks an invariant mid-edit.
	ErrInconsistent = errors.New("graph inconsistency")
)

// Edit is one step of an edit script.
type Edit interface {
	// Label is the command name used in edit lines.
	Label() string
	// Apply runs the edit against g, resolving names through b, and reports
	// whether g changed.
	Apply(g *semgraph.Graph, b *binding.Bindings) bool
	// EditString renders the edit in the line format ParseEditLine reads.
	EditString() string
}

// Labels of the built-in edits.
const (
	LabelAddNode              = "addNode"
	LabelAddDep               = "addDep"
	LabelAddEdge              = "addEdge"
	LabelRemoveEdge           = "removeEdge"
	LabelRemoveNamedEdge      = "removeNamedEdge"
	LabelRelabelNamedEdge     = "relabelNamedEdge"
	LabelReattachNamedEdge    = "reattachNamedEdge"
	LabelKillAllIncomingEdges = "killAllIncomingEdges"
	LabelDeleteLeaf           = "deleteLeaf"
	LabelDeleteGraphFromNode  = "delete"
	LabelKillNonRootedNodes   = "killNonRootedNodes"
	LabelEditNode             = "editNode"
	LabelLemmatize            = "lemmatize"
	LabelMergeNodes           = "mergeNodes"
	LabelSplitWord            = "splitWord"
	LabelCombineMWT           = "combineMWT"
	LabelCollapseSubtree      = "collapseSubtree"
	LabelSetPhraseHead        = "setPhraseHead"
	LabelSetRoots             = "setRoots"
	LabelReindexGraph         = "reindexGraph"
)

func invalid(label, format string, args ...any) error {
	return fmt.Errorf("%w: %s: %s", ErrInvalidEdit, label, fmt.Sprintf(format, args...))
}

func inconsistent(format string, args ...any) {
	panic(fmt.Errorf("%w: %s", ErrInconsistent, fmt.Sprintf(format, args...)))
}

// word resolves name to a word that is still a member of g.
func word(g *semgraph.Graph, b *binding.Bindings, name string) (*semgraph.Word, bool) {
	w, ok := b.Word(name)
	if !ok || !g.ContainsWord(w) {
		return nil, false
	}
	return w, true
}

// words resolves every name, failing if one is missing or two names share a word.
func words(g *semgraph.Graph, b *binding.Bindings, names []string) ([]*semgraph.Word, bool) {
	out := make([]*semgraph.Word, 0, len(names))
	seen := make(map[*semgraph.Word]bool, len(names))
	for _, n := range names {
		w, ok := word(g, b, n)
		if !ok || seen[w] {
			return nil, false
		}
		seen[w] = true
		out = append(out, w)
	}
	return out, true
}

// edge resolves name to an edge that is still in g.
func edge(g *semgraph.Graph, b *binding.Bindings, name string) (*semgraph.Edge, bool) {
	e, ok := b.Edge(name)
	if !ok || !g.ContainsEdge(e) {
		return nil, false
	}
	return e, true
}

func mustAddEdge(g *semgraph.Graph, gov, dep *semgraph.Word, reln string, weight float64, extra bool) *semgraph.Edge {
	e, err := g.AddEdge(gov, dep, reln, weight, extra)
	if err != nil {
		inconsistent("adding %s edge %v -> %v: %v", reln, gov, dep, err)
	}
	return e
}

func mustRemoveEdge(g *semgraph.Graph, b *binding.Bindings, e *semgraph.Edge) {
	if !g.RemoveEdge(e) {
		inconsistent("edge %v vanished", e)
	}
	b.ForgetEdge(e)
}

// newWordLike returns a word at index sharing the document and sentence of
// the words already in g.
func newWordLike(g *semgraph.Graph, index int, text string) *semgraph.Word {
	w := semgraph.NewWord(index, text)
	if ws := g.Words(); len(ws) > 0 {
		w.DocID = ws[0].DocID
		w.SentIndex = ws[0].SentIndex
	}
	return w
}

func mustAddWord(g *semgraph.Graph, w *semgraph.Word) {
	if err := g.AddWord(w); err != nil {
		inconsistent("adding word: %v", err)
	}
}

// contiguous reports whether sorted words occupy consecutive indices.
func contiguous(ws []*semgraph.Word) bool {
	for i := 1; i < len(ws); i++ {
		if ws[i].Index != ws[i-1].Index+1 || ws[i].SentIndex != ws[i-1].SentIndex {
			return false
		}
	}
	return true
}

func memberSet(ws []*semgraph.Word) map[*semgraph.Word]bool {
	set := make(map[*semgraph.Word]bool, len(ws))
	for _, w := range ws {
		set[w] = true
	}
	return set
}
