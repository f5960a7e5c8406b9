package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddDepPositions(t *testing.T) {
	const base = "[has-2 nsubj> Jennifer-1 obj> antennae-3]"
	names := map[string]int{"jennifer": 1, "has": 2, "antennae": 3}

	cases := []struct {
		name string
		line string
		want string
	}{
		{"append by default", "addDep -gov antennae -reln dep -word blue",
			"[has-2 nsubj> Jennifer-1 obj> [antennae-3 dep> blue-4]]"},
		{"explicit end", "addDep -gov antennae -reln dep -word blue -position +",
			"[has-2 nsubj> Jennifer-1 obj> [antennae-3 dep> blue-4]]"},
		{"start of sentence", "addDep -gov antennae -reln dep -word blue -position -",
			"[has-3 nsubj> Jennifer-2 obj> [antennae-4 dep> blue-1]]"},
		{"before a word", "addDep -gov antennae -reln dep -word blue -position -antennae",
			"[has-2 nsubj> Jennifer-1 obj> [antennae-4 dep> blue-3]]"},
		{"after the last word", "addDep -gov antennae -reln dep -word blue -position +antennae",
			"[has-2 nsubj> Jennifer-1 obj> [antennae-3 dep> blue-4]]"},
		{"after a middle word", "addDep -gov antennae -reln dep -word blue -position +jennifer",
			"[has-3 nsubj> Jennifer-1 obj> [antennae-4 dep> blue-2]]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, b := fixture(t, base, names)
			require.True(t, apply(t, g, b, tc.line))
			requireGraph(t, tc.want, g)
			requireConsistent(t, g)

			// The governor's name follows it through the shift.
			assert.Equal(t, "antennae", boundWord(t, b, "antennae").Text)
			assert.True(t, g.ContainsWord(boundWord(t, b, "antennae")))
		})
	}

	t.Run("missing position word", func(t *testing.T) {
		g, b := fixture(t, base, names)
		assert.False(t, apply(t, g, b, "addDep -gov antennae -reln dep -word blue -position -nothere"))
		requireGraph(t, base, g)
	})

	t.Run("missing governor", func(t *testing.T) {
		g, b := fixture(t, base, names)
		assert.False(t, apply(t, g, b, "addDep -gov nothere -reln dep -word blue"))
	})

	t.Run("binds the new word", func(t *testing.T) {
		g, b := fixture(t, base, names)
		require.True(t, apply(t, g, b, `addDep -gov antennae -reln dep -name color -word blue -lemma blue -position -antennae -weight 0.5`))
		blue := boundWord(t, b, "color")
		assert.Equal(t, 3, blue.Index)
		assert.Equal(t, "blue", blue.Lemma)
		e := g.FindEdge(boundWord(t, b, "antennae"), blue, "dep")
		require.NotNil(t, e)
		assert.Equal(t, 0.5, e.Weight)
	})

	t.Run("multi word text", func(t *testing.T) {
		g, b := fixture(t, base, names)
		e, err := ParseEditLine("addDep -gov has -reln discourse", map[string]string{"word": "xin chào"}, "en")
		require.NoError(t, err)
		require.True(t, e.Apply(g, b))
		assert.Equal(t, "xin chào", g.WordByIndex(4).Text)
	})
}

func TestAddNode(t *testing.T) {
	g, b := fixture(t, "[has-2 nsubj> Jennifer-1]", nil)
	require.True(t, apply(t, g, b, "addNode -name extra -word antennae -tag NNS"))
	w := boundWord(t, b, "extra")
	assert.Equal(t, 3, w.Index)
	assert.Equal(t, "NNS", w.Tag)
	assert.Empty(t, g.IncomingEdges(w))
	requireConsistent(t, g)
}

func TestEditNode(t *testing.T) {
	t.Run("sets attributes", func(t *testing.T) {
		g, b := fixture(t, "[has-2 nsubj> Jennifer-1]", map[string]int{"j": 1})
		require.True(t, apply(t, g, b, "editNode -node j -lemma jennifer -pos NNP -ner PERSON"))
		j := g.WordByIndex(1)
		assert.Equal(t, "jennifer", j.Lemma)
		assert.Equal(t, "NNP", j.Tag)
		assert.Equal(t, "PERSON", j.NER)

		assert.False(t, apply(t, g, b, "editNode -node j -lemma jennifer"), "already equal")
	})

	t.Run("morpho features", func(t *testing.T) {
		g, b := fixture(t, "[has-2 nsubj> Jennifer-1]", map[string]int{"j": 1})
		require.True(t, apply(t, g, b, "editNode -node j -morphofeatures Number=Sing|Gender=Fem"))
		require.True(t, apply(t, g, b, "editNode -node j -updateMorphoFeatures Person=3"))
		assert.Equal(t, map[string]string{"Number": "Sing", "Gender": "Fem", "Person": "3"}, g.WordByIndex(1).Features)

		require.True(t, apply(t, g, b, "editNode -node j -removeMorphoFeatures Gender"))
		assert.NotContains(t, g.WordByIndex(1).Features, "Gender")
		assert.False(t, apply(t, g, b, "editNode -node j -removeMorphoFeatures Gender"))
	})

	t.Run("remove attribute", func(t *testing.T) {
		g, b := fixture(t, "[has/VBZ-2 nsubj> Jennifer-1]", map[string]int{"h": 2})
		require.True(t, apply(t, g, b, "editNode -node h -remove tag"))
		assert.Empty(t, g.WordByIndex(2).Tag)
	})

	t.Run("index is not an attribute", func(t *testing.T) {
		_, err := ParseEditLine("editNode -node j -idx 3", nil, "en")
		assert.ErrorIs(t, err, ErrInvalidEdit)
	})

	t.Run("nothing to do", func(t *testing.T) {
		_, err := ParseEditLine("editNode -node j", nil, "en")
		assert.ErrorIs(t, err, ErrInvalidEdit)
	})
}

func TestLemmatize(t *testing.T) {
	g, b := fixture(t, "[has/VBZ-2 nsubj> Jennifer/NNP-1 obj> [antennae/NNS-3 amod> green/JJ-4]]",
		map[string]int{"j": 1, "h": 2, "a": 3, "g": 4})

	for _, name := range []string{"j", "h", "a", "g"} {
		require.True(t, apply(t, g, b, "lemmatize -node "+name), name)
	}
	assert.Equal(t, "Jennifer", g.WordByIndex(1).Lemma)
	assert.Equal(t, "have", g.WordByIndex(2).Lemma)
	assert.Equal(t, "antenna", g.WordByIndex(3).Lemma)
	assert.Equal(t, "green", g.WordByIndex(4).Lemma)

	assert.False(t, apply(t, g, b, "lemmatize -node h"), "lemma already set")

	_, err := ParseEditLine("lemmatize -node h", nil, "French")
	assert.ErrorIs(t, err, ErrInvalidEdit)
}
