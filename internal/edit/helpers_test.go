package edit

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/semgraft/internal/binding"
	"github.com/vk/semgraft/internal/semgraph"
)

// fixture parses a compact graph and binds names to words by index.
func fixture(t *testing.T, graph string, names map[string]int) (*semgraph.Graph, *binding.Bindings) {
	t.Helper()
	g, err := semgraph.Parse(graph)
	require.NoError(t, err)
	b := binding.New()
	for name, idx := range names {
		w := g.WordByIndex(idx)
		require.NotNil(t, w, "no word at index %d", idx)
		b.BindWord(name, w)
	}
	return g, b
}

// bindEdge binds name to the edge gov -reln-> dep, addressed by index.
func bindEdge(t *testing.T, g *semgraph.Graph, b *binding.Bindings, name string, gov, dep int, reln string) {
	t.Helper()
	e := g.FindEdge(g.WordByIndex(gov), g.WordByIndex(dep), reln)
	require.NotNil(t, e, "no %s edge %d -> %d", reln, gov, dep)
	b.BindEdge(name, e)
}

// apply parses line and runs it.
func apply(t *testing.T, g *semgraph.Graph, b *binding.Bindings, line string) bool {
	t.Helper()
	e, err := ParseEditLine(line, nil, "en")
	require.NoError(t, err, line)
	return e.Apply(g, b)
}

func requireGraph(t *testing.T, want string, g *semgraph.Graph) {
	t.Helper()
	expected := semgraph.MustParse(want)
	require.Truef(t, expected.Equal(g), "graphs differ\nwant: %s\n got: %s", expected, g)
}

// requireConsistent checks the graph invariants every edit must keep.
func requireConsistent(t *testing.T, g *semgraph.Graph) {
	t.Helper()
	for _, e := range g.Edges() {
		require.True(t, g.ContainsWord(e.Gov), "dangling governor on %v", e)
		require.True(t, g.ContainsWord(e.Dep), "dangling dependent on %v", e)
	}
	if !g.IsEmpty() {
		require.NotEmpty(t, g.Roots(), "non-empty graph without roots")
	}
}

func boundWord(t *testing.T, b *binding.Bindings, name string) *semgraph.Word {
	t.Helper()
	w, ok := b.Word(name)
	require.True(t, ok, "name %q not bound", name)
	return w
}

func edgeSet(g *semgraph.Graph) []string {
	var out []string
	for _, e := range g.Edges() {
		out = append(out, e.String())
	}
	return out
}

func wordStrings(ws []*semgraph.Word) []string {
	out := make([]string, len(ws))
	for i, w := range ws {
		out[i] = w.String()
	}
	return out
}
