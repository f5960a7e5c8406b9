package rewrite

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/edit"
	"github.com/vk/semgraft/internal/match"
	"github.com/vk/semgraft/internal/predicate"
	"github.com/vk/semgraft/internal/semgraph"
)

func newPattern(t *testing.T, uid string, spec match.Spec, lines ...string) *Pattern {
	t.Helper()
	m, err := match.NewStructural(spec)
	require.NoError(t, err)
	p := &Pattern{UID: uid, Match: m}
	for _, line := range lines {
		e, err := edit.ParseEditLine(line, nil, "en")
		require.NoError(t, err)
		p.Edits = append(p.Edits, e)
	}
	return p
}

func render(gs []*semgraph.Graph) []string {
	out := make([]string, len(gs))
	for i, g := range gs {
		out[i] = g.String()
	}
	return out
}

// dependents matches every word that has a governor.
var dependents = match.Spec{
	Nodes: []match.NodeSpec{{Name: "w"}},
	Edges: []match.EdgeSpec{{Dep: "w"}},
}

type recorder struct {
	mu    sync.Mutex
	fired map[string]int
	edits map[string]int
	noops int
}

func (r *recorder) PatternFired(uid string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fired[uid]++
}

func (r *recorder) EditApplied(_, label string, changed bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.edits[label]++
	if !changed {
		r.noops++
	}
}

func TestExecuteOneResultPerMatch(t *testing.T) {
	g := semgraph.MustParse("[ate-2 nsubj> I-1 obj> cake-3]")
	p := newPattern(t, "tag-dependents", dependents, "editNode -node w -tag DEP")

	got := p.Execute(context.Background(), g)
	require.Len(t, got, 2)
	assert.Equal(t, "DEP", got[0].WordByIndex(1).Tag)
	assert.Empty(t, got[0].WordByIndex(3).Tag)
	assert.Equal(t, "DEP", got[1].WordByIndex(3).Tag)
	assert.Empty(t, got[1].WordByIndex(1).Tag)

	assert.Empty(t, g.WordByIndex(1).Tag, "input untouched")
	assert.Empty(t, g.WordByIndex(3).Tag, "input untouched")
}

func TestExecuteDeduplicates(t *testing.T) {
	g := semgraph.MustParse("[ate-2 nsubj> I-1 obj> cake-3]")
	p := newPattern(t, "same-result", dependents, "addNode -name extra -word !")

	got := p.Execute(context.Background(), g)
	assert.Equal(t, []string{"[ate-2 nsubj> I-1 obj> cake-3]"}, render(got))
	assert.Equal(t, 4, got[0].Size())
}

func TestExecuteRejectsSharedWords(t *testing.T) {
	g := semgraph.MustParse("A-1")
	p := newPattern(t, "pair", match.Spec{Nodes: []match.NodeSpec{{Name: "x"}, {Name: "y"}}}, "editNode -node x -lemma a")
	assert.Empty(t, p.Execute(context.Background(), g))
}

func TestExecutePredicate(t *testing.T) {
	g := semgraph.MustParse("[ate-2 nsubj> I-1 obj> cake-3]")
	p := newPattern(t, "only-cake", dependents, "editNode -node w -tag NN")

	list, err := predicate.NewWordlist("food", "w", "word", []string{"cake"})
	require.NoError(t, err)
	p.Predicate = list

	got := p.Execute(context.Background(), g)
	require.Len(t, got, 1)
	assert.Equal(t, "[ate-2 nsubj> I-1 obj> cake/NN-3]", got[0].String())

	p.Predicate = predicate.Func(func(*binding.Bindings) bool { return false })
	assert.Empty(t, p.Execute(context.Background(), g))
}

func TestExecuteNamedEdgeSurvivesClone(t *testing.T) {
	g := semgraph.MustParse("[easy-3 nsubj> it-1 csubj> clean-5]")
	spec := match.Spec{
		Nodes: []match.NodeSpec{{Name: "source"}},
		Edges: []match.EdgeSpec{{Name: "bad", Gov: "source", Reln: "csubj"}},
	}
	p := newPattern(t, "csubj", spec, "relabelNamedEdge -edge bad -reln advcl")

	got := p.Execute(context.Background(), g)
	assert.Equal(t, []string{"[easy-3 nsubj> it-1 advcl> clean-5]"}, render(got))
}

func TestIteratePrunesToFixpoint(t *testing.T) {
	g := semgraph.MustParse("[A-1 dep> [B-2 dep> C-3]]")
	leaves := match.Spec{
		Nodes: []match.NodeSpec{{Name: "w"}},
		Edges: []match.EdgeSpec{{Dep: "w"}, {Gov: "w", Negated: true}},
	}
	rec := &recorder{fired: map[string]int{}, edits: map[string]int{}}
	p := newPattern(t, "prune", leaves, "deleteLeaf -node w")
	p.Observer = rec

	out, changed := p.Iterate(context.Background(), g)
	assert.True(t, changed)
	assert.Equal(t, "A-1", out.String())
	assert.Equal(t, "[A-1 dep> [B-2 dep> C-3]]", g.String(), "input untouched")
	assert.Equal(t, 2, rec.fired["prune"])
	assert.Equal(t, 2, rec.edits[edit.LabelDeleteLeaf])
	assert.Zero(t, rec.noops)

	again, changed := p.Iterate(context.Background(), out)
	assert.False(t, changed)
	assert.True(t, again.Equal(out))
}

func TestIterateRemoveThenPrune(t *testing.T) {
	g := semgraph.MustParse("[A-1 dep> [B-2 dep> C-3]]")
	spec := match.Spec{
		Nodes: []match.NodeSpec{{Name: "a", Root: true}, {Name: "b"}},
		Edges: []match.EdgeSpec{{Name: "e", Gov: "a", Dep: "b"}},
	}
	p := newPattern(t, "cut", spec, "removeNamedEdge -edge e", "killNonRootedNodes")

	out, changed := p.Iterate(context.Background(), g)
	assert.True(t, changed)
	assert.Equal(t, "A-1", out.String())
	assert.Equal(t, 1, out.Size())
}

func TestExpandAndExhaust(t *testing.T) {
	g := semgraph.MustParse("[A-1 dep> B-2 dep> C-3]")
	spec := match.Spec{
		Nodes: []match.NodeSpec{{Name: "gov"}},
		Edges: []match.EdgeSpec{{Name: "e", Gov: "gov", Reln: "dep"}},
	}
	relabel := newPattern(t, "relabel", spec, "relabelNamedEdge -edge e -reln obj")

	expanded := Expand(context.Background(), []*Pattern{relabel}, g)
	assert.Equal(t, []string{
		"[A-1 obj> B-2 dep> C-3]",
		"[A-1 dep> B-2 obj> C-3]",
	}, render(expanded))

	exhausted := Exhaust(context.Background(), []*Pattern{relabel}, g)
	assert.Equal(t, []string{
		"[A-1 obj> B-2 dep> C-3]",
		"[A-1 dep> B-2 obj> C-3]",
		"[A-1 obj> B-2 obj> C-3]",
	}, render(exhausted))
}

func TestExhaustDropsSource(t *testing.T) {
	g := semgraph.MustParse("[A-1 dep> B-2]")
	noop := newPattern(t, "noop", dependents, "editNode -node w -word B")
	assert.Empty(t, Exhaust(context.Background(), []*Pattern{noop}, g))
}
