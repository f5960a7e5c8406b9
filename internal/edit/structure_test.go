package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetRoots(t *testing.T) {
	g, b := fixture(t, "[sat-3 nsubj> [cat-2 det> the-1]]", map[string]int{"cat": 2, "sat": 3})

	require.True(t, apply(t, g, b, "setRoots cat sat"))
	assert.Equal(t, []string{"cat-2", "sat-3"}, wordStrings(g.Roots()))
	assert.False(t, apply(t, g, b, "setRoots sat cat"), "same set")
	assert.False(t, apply(t, g, b, "setRoots cat nobody"))
}

func TestDeleteLeafAfterSetRoots(t *testing.T) {
	g, b := fixture(t, "[sat-3 nsubj> [cat-2 det> the-1]]", map[string]int{"the": 1, "cat": 2})

	require.True(t, apply(t, g, b, "setRoots cat"))
	require.True(t, apply(t, g, b, "deleteLeaf -node the"))

	assert.Equal(t, []string{"cat-1"}, wordStrings(g.Roots()))
	assert.Equal(t, []string{"cat-1", "sat-2"}, wordStrings(g.Words()))
	assert.NotNil(t, g.FindEdge(g.WordByIndex(2), g.WordByIndex(1), "nsubj"))
	requireConsistent(t, g)
}

func TestDeleteLeaf(t *testing.T) {
	g, b := fixture(t, "[sat-3 nsubj> [cat-2 det> the-1] punct> .-4]", map[string]int{"the": 1, "cat": 2, "dot": 4})

	assert.False(t, apply(t, g, b, "deleteLeaf -node cat"), "cat has a dependent")
	require.True(t, apply(t, g, b, "deleteLeaf -node the"))
	requireGraph(t, "[sat-2 nsubj> cat-1 punct> .-3]", g)
	assert.False(t, apply(t, g, b, "deleteLeaf -node the"), "already gone")

	require.True(t, apply(t, g, b, "deleteLeaf -node dot"))
	requireGraph(t, "[sat-2 nsubj> cat-1]", g)
}

func TestDeleteGraphFromNode(t *testing.T) {
	t.Run("removes the component", func(t *testing.T) {
		g, b := fixture(t, "[A-1 dep> B-2] C-3", map[string]int{"b": 2})
		require.True(t, apply(t, g, b, "delete -node b"))
		assert.Equal(t, []string{"C-3"}, wordStrings(g.Words()))
		assert.Equal(t, []string{"C-3"}, wordStrings(g.Roots()))
		_, bound := b.Word("b")
		assert.False(t, bound)
	})

	t.Run("prune after cutting an edge", func(t *testing.T) {
		g, b := fixture(t, "[A-1 dep> B-2]", map[string]int{"a": 1})
		bindEdge(t, g, b, "e", 1, 2, "dep")
		require.True(t, apply(t, g, b, "removeNamedEdge -edge e"))
		require.True(t, apply(t, g, b, "delete -node a"))
		assert.Equal(t, []string{"B-2"}, wordStrings(g.Words()))
		assert.Equal(t, []string{"B-2"}, wordStrings(g.Roots()))
	})
}

func TestKillNonRootedNodes(t *testing.T) {
	g, b := fixture(t, "[A-1 dep> B-2] C-3", map[string]int{"a": 1})
	require.True(t, apply(t, g, b, "setRoots a"))
	require.True(t, apply(t, g, b, "killNonRootedNodes"))
	assert.Equal(t, []string{"A-1", "B-2"}, wordStrings(g.Words()))
	assert.False(t, apply(t, g, b, "killNonRootedNodes"))
}

func TestReindexGraph(t *testing.T) {
	g, b := fixture(t, "[example-5 det> the-2 amod> foobar-4]", map[string]int{"ex": 5})

	require.True(t, apply(t, g, b, "reindexGraph"))
	requireGraph(t, "[example-3 det> the-1 amod> foobar-2]", g)
	assert.Equal(t, 3, boundWord(t, b, "ex").Index)

	snapshot := g.Clone()
	assert.False(t, apply(t, g, b, "reindexGraph"), "already dense")
	assert.True(t, snapshot.Equal(g), "second reindex changed %s into %s", snapshot, g)
	assert.Equal(t, 3, boundWord(t, b, "ex").Index)
}

func TestReindexGraphKeepsCopies(t *testing.T) {
	g, b := fixture(t, "[ate-3 nsubj> I-1 conj> ate-3.1]", nil)
	require.True(t, apply(t, g, b, "reindexGraph"))
	assert.Equal(t, []string{"I-1", "ate-2", "ate-2.1"}, wordStrings(g.Words()))
}

func TestSetPhraseHead(t *testing.T) {
	t.Run("phrase with an external governor", func(t *testing.T) {
		g, b := fixture(t, "[works-4 nsubj> [Bauer-3 flat> John-2 flat> Earl-1] obl> [Stanford-6 case> at-5]]",
			map[string]int{"earl": 1, "john": 2, "bauer": 3})

		require.True(t, apply(t, g, b, "setPhraseHead -node earl -node john -node bauer -headIndex 1 -reln flat"))
		requireGraph(t, "[works-4 nsubj> [John-2 flat> Earl-1 flat> Bauer-3] obl> [Stanford-6 case> at-5]]", g)
		requireConsistent(t, g)

		assert.False(t, apply(t, g, b, "setPhraseHead -node earl -node john -node bauer -headIndex 1 -reln flat"))
	})

	t.Run("rooted phrase", func(t *testing.T) {
		g, b := fixture(t, "[Bauer-5 nsubj> He-1 advmod> truly-2 cop> is-3 flat> John-4]",
			map[string]int{"john": 4, "bauer": 5})

		require.True(t, apply(t, g, b, "setPhraseHead -node john -node bauer -headIndex 0 -reln flat"))
		requireGraph(t, "[John-4 nsubj> He-1 advmod> truly-2 cop> is-3 flat> Bauer-5]", g)
		assert.False(t, apply(t, g, b, "setPhraseHead -node john -node bauer -headIndex 0 -reln flat"))
	})

	t.Run("not a phrase", func(t *testing.T) {
		const base = "[works-3 nsubj> John-1 obj> Bauer-2]"
		g, b := fixture(t, base, map[string]int{"john": 1, "bauer": 2})
		assert.False(t, apply(t, g, b, "setPhraseHead -node john -node bauer -headIndex 0 -reln flat"))
		requireGraph(t, base, g)
	})
}

func TestSetPhraseHeadHeadIndexRange(t *testing.T) {
	_, err := ParseEditLine("setPhraseHead -node a -node b -headIndex 2 -reln flat", nil, "en")
	assert.ErrorIs(t, err, ErrInvalidEdit)
}
