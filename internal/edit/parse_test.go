package edit

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEditStringRoundTrip(t *testing.T) {
	lines := []string{
		"addNode -name n -word blue",
		"addDep -gov antennae -reln dep -position +antennae -word blue",
		"addDep -gov a -reln dep -name n -weight 0.5 -word blue -lemma blue",
		"addEdge -gov a -dep b -reln obj -weight 2",
		"removeEdge -reln obj -gov a",
		"removeEdge -dep b",
		"removeNamedEdge -edge e",
		"relabelNamedEdge -edge e -reln dep",
		"reattachNamedEdge -edge e -dep d",
		"killAllIncomingEdges -node x",
		"deleteLeaf -node x",
		"delete -node x",
		"killNonRootedNodes",
		"editNode -node j -lemma x -updateMorphoFeatures Person=3 -remove tag",
		"lemmatize -node x",
		`mergeNodes -node a -node b -word "New York"`,
		"splitWord -node fb -regex (foo)bar -regex foo(bar) -headIndex 0 -reln dep -name 0=asdf",
		`splitWord -node x -exact do -exact "n't" -headIndex 0 -reln dep`,
		`combineMWT -node it -node s -word "it's"`,
		"collapseSubtree -node x",
		"setPhraseHead -node a -node b -headIndex 1 -reln flat",
		"setRoots a b",
		"reindexGraph",
	}
	for _, line := range lines {
		t.Run(line, func(t *testing.T) {
			e, err := ParseEditLine(line, nil, "en")
			require.NoError(t, err)
			assert.Equal(t, line, e.EditString())

			again, err := ParseEditLine(e.EditString(), nil, "en")
			require.NoError(t, err)
			assert.Equal(t, e.EditString(), again.EditString())
		})
	}
}

func TestParseEditLineNormalizes(t *testing.T) {
	cases := []struct {
		line string
		want string
	}{
		{"ADDDEP -reln dep -gov a -form blue -pos JJ", "addDep -gov a -reln dep -word blue -tag JJ"},
		{"editNode -node j -feats Number=Sing", "editNode -node j -morphofeatures Number=Sing"},
		{"addDep -gov a -reln dep -weight 1.0 -word x", "addDep -gov a -reln dep -word x"},
		{"addDep -gov a -reln dep -nodearg {word:blue;tag:JJ}", "addDep -gov a -reln dep -word blue -tag JJ"},
		{"addNode -name n -word 'a b'", `addNode -name n -word "a b"`},
	}
	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			e, err := ParseEditLine(tc.line, nil, "en")
			require.NoError(t, err)
			assert.Equal(t, tc.want, e.EditString())
		})
	}
}

func TestParseEditLineExtraAttributes(t *testing.T) {
	e, err := ParseEditLine("addDep -gov a -reln dep", map[string]string{"word": "blue", "lemma": "blue"}, "en")
	require.NoError(t, err)
	dep, ok := e.(*AddDep)
	require.True(t, ok)
	assert.Equal(t, Attrs{"word": "blue", "lemma": "blue"}, dep.Attrs)
}

func TestParseEditLineErrors(t *testing.T) {
	for _, line := range []string{
		"",
		"frobnicate -node x",
		"addDep -gov a -reln dep -idx 3 -word x",
		"addDep -gov a -word x",
		"addDep -gov a -reln dep -word x -weight heavy",
		"addEdge -gov a -dep b -reln obj -word x",
		"removeNamedEdge",
		"relabelNamedEdge -edge e",
		"reattachNamedEdge -edge e",
		"deleteLeaf -node",
		"killNonRootedNodes extra",
		"reindexGraph -lemma x",
		"setRoots",
		`addNode -name n -word "unterminated`,
		"addDep -gov a -reln dep -nodearg word:blue",
		"combineMWT -node a",
		"combineMWT -node a -node b -lemma x",
		"mergeNodes -node a",
		"deleteLeaf -node a -node b",
		"delete -node a -node b",
		"killAllIncomingEdges -node a -node b",
		"collapseSubtree -node a -node b",
		"editNode -node a -node b -lemma x",
		"lemmatize -node a -node b",
		"splitWord -node a -node b -exact x -exact y -reln dep",
		"addNode -name n -name m -word x",
		"addEdge -gov a -gov b -dep c -reln obj",
		"removeEdge -gov a -dep b -dep c",
		"relabelNamedEdge -edge e -reln a -reln b",
		"removeNamedEdge -edge e -edge f",
	} {
		_, err := ParseEditLine(line, nil, "en")
		assert.ErrorIs(t, err, ErrInvalidEdit, "%q", line)
	}
}
