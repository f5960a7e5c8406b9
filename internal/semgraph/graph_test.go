package semgraph

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func texts(ws []*Word) []string {
	out := make([]string, 0, len(ws))
	for _, w := range ws {
		out = append(out, w.String())
	}
	return out
}

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.True(t, g.IsEmpty())
	assert.Empty(t, g.Roots())
	assert.Equal(t, 0, g.MaxIndex())
}

func TestAddWord(t *testing.T) {
	g := New()
	a := NewWord(1, "a")
	require.NoError(t, g.AddWord(a))
	assert.True(t, g.ContainsWord(a))

	err := g.AddWord(NewWord(1, "other"))
	assert.ErrorIs(t, err, ErrDuplicateWord)

	// Same key, different object: not a member.
	assert.False(t, g.ContainsWord(NewWord(1, "a")))
	assert.Same(t, a, g.Lookup(Key{Index: 1}))
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		a, b := NewWord(1, "a"), NewWord(2, "b")
		require.NoError(t, g.AddWord(a))
		require.NoError(t, g.AddWord(b))

		e, err := g.AddEdge(a, b, "obj", DefaultWeight, false)
		require.NoError(t, err)
		assert.True(t, g.ContainsEdge(e))
		assert.Equal(t, []*Edge{e}, g.OutgoingEdges(a))
		assert.Equal(t, []*Edge{e}, g.IncomingEdges(b))
		assert.Same(t, e, g.FindEdge(a, b, "obj"))
		assert.Nil(t, g.FindEdge(a, b, "nsubj"))
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		a := NewWord(1, "a")
		require.NoError(t, g.AddWord(a))

		_, err := g.AddEdge(NewWord(5, "x"), a, "dep", 1, false)
		assert.ErrorIs(t, err, ErrNotMember)
		assert.ErrorContains(t, err, "governor")

		_, err = g.AddEdge(a, NewWord(5, "x"), "dep", 1, false)
		assert.ErrorContains(t, err, "dependent")
	})
}

func TestRemoveWordCascades(t *testing.T) {
	g := MustParse("[A-1 obj> B-2 obj> [C-3 dep> D-4]]")
	c := g.WordByIndex(3)
	require.NotNil(t, c)

	assert.True(t, g.RemoveWord(c))
	assert.False(t, g.RemoveWord(c))
	assert.Len(t, g.Edges(), 1)
	assert.Empty(t, g.IncomingEdges(g.WordByIndex(4)))
	assert.Equal(t, 3, g.Size())

	root := g.WordByIndex(1)
	assert.True(t, g.RemoveWord(root))
	assert.Empty(t, g.Roots())
	assert.True(t, g.RepairRoots())
	assert.Equal(t, []string{"B-2", "D-4"}, texts(g.Roots()))
}

func TestRepairRootsCycle(t *testing.T) {
	g := New()
	a, b := NewWord(1, "a"), NewWord(2, "b")
	require.NoError(t, g.AddWord(a))
	require.NoError(t, g.AddWord(b))
	_, err := g.AddEdge(a, b, "dep", 1, false)
	require.NoError(t, err)
	_, err = g.AddEdge(b, a, "dep", 1, false)
	require.NoError(t, err)

	assert.True(t, g.RepairRoots())
	assert.Equal(t, []string{"a-1"}, texts(g.Roots()))
	assert.False(t, g.RepairRoots(), "non-empty roots are left alone")
}

func TestSetRoots(t *testing.T) {
	g := MustParse("[A-1 dep> B-2]")
	b := g.WordByIndex(2)
	require.NoError(t, g.SetRoots(b))
	assert.True(t, g.IsRoot(b))
	assert.False(t, g.IsRoot(g.WordByIndex(1)))

	err := g.SetRoots(NewWord(9, "z"))
	assert.ErrorIs(t, err, ErrNotMember)
	assert.True(t, g.IsRoot(b), "a failed SetRoots keeps the old set")
}

func TestTraversal(t *testing.T) {
	g := MustParse("[A-1 obj> B-2 obj> [C-3 dep> D-4]] E-5")

	assert.Equal(t, []string{"C-3", "D-4"}, texts(g.Descendants(g.WordByIndex(3))))
	assert.Equal(t, []string{"A-1", "B-2", "C-3", "D-4"}, texts(g.Component(g.WordByIndex(4))))
	assert.Equal(t, []string{"A-1", "B-2", "C-3", "D-4", "E-5"}, texts(g.Rooted()))
	assert.Equal(t, []string{"B-2", "C-3"}, texts(g.Children(g.WordByIndex(1))))
	assert.Equal(t, []string{"C-3"}, texts(g.Parents(g.WordByIndex(4))))
}

func TestCompareOrdersBySentenceIndexCopy(t *testing.T) {
	ws := []*Word{
		{SentIndex: 1, Index: 1},
		{SentIndex: 0, Index: 3, CopyCount: 1},
		{SentIndex: 0, Index: 3},
		{SentIndex: 0, Index: 2},
	}
	SortWords(ws)
	var keys []Key
	for _, w := range ws {
		keys = append(keys, w.Key())
	}
	want := []Key{
		{Index: 2},
		{Index: 3},
		{Index: 3, CopyCount: 1},
		{SentIndex: 1, Index: 1},
	}
	if diff := cmp.Diff(want, keys); diff != "" {
		t.Errorf("sort order mismatch (-want +got):\n%s", diff)
	}
}

func TestClone(t *testing.T) {
	g := MustParse("[has-2 nsubj> Jennifer/NNP-1 obj> antennae-3]")
	g.WordByIndex(1).Features = map[string]string{"Number": "Sing"}
	c := g.Clone()

	require.True(t, g.Equal(c))
	assert.Equal(t, g.Fingerprint(), c.Fingerprint())
	assert.NotSame(t, g.WordByIndex(1), c.WordByIndex(1))

	c.WordByIndex(1).Features["Number"] = "Plur"
	c.WordByIndex(3).Lemma = "antenna"
	assert.Equal(t, "Sing", g.WordByIndex(1).Features["Number"])
	assert.Empty(t, g.WordByIndex(3).Lemma)
	assert.False(t, g.Equal(c))
	assert.NotEqual(t, g.Fingerprint(), c.Fingerprint())

	e := c.FindEdge(c.WordByIndex(2), c.WordByIndex(3), "obj")
	require.NotNil(t, e)
	assert.True(t, c.RemoveEdge(e))
	assert.Len(t, g.Edges(), 2)
}

func TestEqualIgnoresConstructionOrder(t *testing.T) {
	a := MustParse("[A-1 obj> B-2 nsubj> C-3]")
	b := MustParse("[A-1 nsubj> C-3 obj> B-2]")
	assert.True(t, a.Equal(b))
	assert.Equal(t, a.Fingerprint(), b.Fingerprint())

	c := MustParse("[A-1 obj> B-2 nsubj> C-3] D-4")
	assert.False(t, a.Equal(c))
}

func TestAttributes(t *testing.T) {
	w := NewWord(1, "has")

	changed, err := w.SetAttr("POS", "VBZ")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "VBZ", w.Tag)

	changed, err = w.SetAttr("tag", "VBZ")
	require.NoError(t, err)
	assert.False(t, changed)

	_, err = w.SetAttr("idx", "3")
	assert.ErrorIs(t, err, ErrIndexAttribute)
	_, err = w.SetAttr("color", "red")
	assert.ErrorIs(t, err, ErrUnknownAttribute)

	changed, err = w.SetAttr("morphofeatures", "Tense=Pres|Number=Sing")
	require.NoError(t, err)
	assert.True(t, changed)
	v, err := w.Attr("feats")
	require.NoError(t, err)
	assert.Equal(t, "Number=Sing|Tense=Pres", v)

	changed, err = w.SetAttr("word", "have")
	require.NoError(t, err)
	assert.True(t, changed)
	assert.Equal(t, "have", w.Value)
}
