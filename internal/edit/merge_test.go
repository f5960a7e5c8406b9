package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMergeNodes(t *testing.T) {
	cases := []struct {
		name  string
		graph string
		names map[string]int
		line  string
		want  string
	}{
		{
			name:  "punctuation after the head",
			graph: "[Fotticchia-3 flat> [prof-1 punct> .-2]]",
			names: map[string]int{"prof": 1, "dot": 2},
			line:  "mergeNodes -node prof -node dot",
			want:  "[Fotticchia-2 flat> prof.-1]",
		},
		{
			name:  "punctuation before the head",
			graph: "[Fotticchia-3 flat> [prof-2 punct> .-1]]",
			names: map[string]int{"prof": 2, "dot": 1},
			line:  "mergeNodes -node prof -node dot",
			want:  "[Fotticchia-2 flat> .prof-1]",
		},
		{
			name:  "three words into the root",
			graph: "[Fotticchia-3 flat> [prof-1 punct> .-2]]",
			names: map[string]int{"prof": 1, "dot": 2, "name": 3},
			line:  "mergeNodes -node prof -node dot -node name",
			want:  "prof.Fotticchia-1",
		},
		{
			name:  "argument order does not matter",
			graph: "[ate-2 nsubj> I-1 obj> [cream-4 compound> ice-3]]",
			names: map[string]int{"n1": 3, "n2": 4},
			line:  "mergeNodes -node n2 -node n1",
			want:  "[ate-2 nsubj> I-1 obj> icecream-3]",
		},
		{
			name:  "explicit text",
			graph: "[ate-2 nsubj> I-1 obj> [cream-4 compound> ice-3]]",
			names: map[string]int{"n1": 3, "n2": 4},
			line:  "mergeNodes -node n1 -node n2 -word ice-cream -lemma icecream",
			want:  "[ate-2 nsubj> I-1 obj> ice-cream-3]",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, b := fixture(t, tc.graph, tc.names)
			require.True(t, apply(t, g, b, tc.line))
			assert.Equal(t, tc.want, g.String())
			requireConsistent(t, g)
		})
	}

	t.Run("explicit lemma", func(t *testing.T) {
		g, b := fixture(t, "[ate-2 nsubj> I-1 obj> [cream-4 compound> ice-3]]", map[string]int{"n1": 3, "n2": 4})
		require.True(t, apply(t, g, b, "mergeNodes -node n1 -node n2 -lemma icecream"))
		w := g.WordByIndex(3)
		assert.Equal(t, "icecream", w.Text)
		assert.Equal(t, "icecream", w.Lemma)
	})

	t.Run("lemmas are joined when all present", func(t *testing.T) {
		g, b := fixture(t, "[ate-2 nsubj> I-1 obj> [cream-4 compound> ice-3]]", map[string]int{"n1": 3, "n2": 4})
		g.WordByIndex(3).Lemma = "ice"
		g.WordByIndex(4).Lemma = "cream"
		require.True(t, apply(t, g, b, "mergeNodes -node n1 -node n2"))
		assert.Equal(t, "icecream", g.WordByIndex(3).Lemma)
	})
}

func TestMergeNodesRefuses(t *testing.T) {
	cases := []struct {
		name  string
		graph string
		names map[string]int
		line  string
	}{
		{
			name:  "edge leaving the group",
			graph: "[prof-1 punct> [.-2 nmod> Fotticchia-3]]",
			names: map[string]int{"prof": 1, "dot": 2},
			line:  "mergeNodes -node prof -node dot",
		},
		{
			name:  "two heads",
			graph: "[prof-1 punct> .-2 flat> [Fotticchia-3 punct> .-2]]",
			names: map[string]int{"prof": 1, "dot": 2},
			line:  "mergeNodes -node prof -node dot",
		},
		{
			name:  "not adjacent",
			graph: "[A-1 dep> B-2 dep> C-3]",
			names: map[string]int{"a": 1, "c": 3},
			line:  "mergeNodes -node a -node c",
		},
		{
			name:  "unbound name",
			graph: "[A-1 dep> B-2]",
			names: map[string]int{"a": 1},
			line:  "mergeNodes -node a -node b",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, b := fixture(t, tc.graph, tc.names)
			before := g.Clone()
			assert.False(t, apply(t, g, b, tc.line))
			assert.True(t, before.Equal(g), "graph changed on refusal")
		})
	}

	t.Run("duplicate names", func(t *testing.T) {
		_, err := ParseEditLine("mergeNodes -node a -node a", nil, "en")
		assert.ErrorIs(t, err, ErrInvalidEdit)
	})
}

func TestCollapseSubtree(t *testing.T) {
	t.Run("flat subtree", func(t *testing.T) {
		g, b := fixture(t, "[live-1 obl> [City-4 compound> New-2 compound> York-3] punct> .-5]", map[string]int{"city": 4})
		require.True(t, apply(t, g, b, "collapseSubtree -node city"))

		assert.Equal(t, []string{"live-1", "New York City-2", ".-3"}, wordStrings(g.Words()))
		assert.Equal(t, "New York City", boundWord(t, b, "city").Text)
		assert.NotNil(t, g.FindEdge(g.WordByIndex(1), g.WordByIndex(2), "obl"))
		requireConsistent(t, g)
	})

	t.Run("outside edges into members move to the survivor", func(t *testing.T) {
		g, b := fixture(t, "[live-1 obl> [City-4 compound> New-2 compound> York-3] dep> York-3]", map[string]int{"city": 4})
		require.True(t, apply(t, g, b, "collapseSubtree -node city"))
		assert.Equal(t, []string{"live-1 -dep-> New York City-2", "live-1 -obl-> New York City-2"}, edgeSet(g))
	})

	t.Run("cycle back to the root", func(t *testing.T) {
		g, b := fixture(t, "[A-1 dep> [B-2 dep> A-1]]", map[string]int{"a": 1})
		assert.False(t, apply(t, g, b, "collapseSubtree -node a"))
	})

	t.Run("leaf", func(t *testing.T) {
		g, b := fixture(t, "[A-1 dep> B-2]", map[string]int{"b": 2})
		assert.False(t, apply(t, g, b, "collapseSubtree -node b"))
	})

	t.Run("root inside the subtree moves to the survivor", func(t *testing.T) {
		g, b := fixture(t, "[A-1 dep> B-2]", map[string]int{"a": 1, "b": 2})
		require.True(t, apply(t, g, b, "setRoots b"))
		require.True(t, apply(t, g, b, "collapseSubtree -node a"))

		assert.Equal(t, []string{"A B-1"}, wordStrings(g.Words()))
		assert.Equal(t, []string{"A B-1"}, wordStrings(g.Roots()))
		requireConsistent(t, g)
	})
}
