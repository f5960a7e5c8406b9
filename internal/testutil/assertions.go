package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/semgraft/internal/semgraph"
)

// AssertGraphs checks that the compact output holds exactly the wanted graphs,
// in order. Graphs are compared structurally, so the wanted ones may list
// dependents in any order.
func AssertGraphs(t *testing.T, result *HarnessResult, want ...string) {
	t.Helper()
	require.NoError(t, result.Err)

	got := result.Lines()
	require.Len(t, got, len(want), "output:\n%s", result.Output)
	for i, line := range got {
		g, err := semgraph.Parse(line)
		require.NoError(t, err, "output line %d", i+1)
		expected := semgraph.MustParse(want[i])
		require.Truef(t, expected.Equal(g), "graph %d differs\nwant: %s\n got: %s", i+1, expected, g)
	}
}

// AssertRuleFired checks the debug log for an edit applied by the rule.
func AssertRuleFired(t *testing.T, result *HarnessResult, uid string) {
	t.Helper()
	expected := fmt.Sprintf("pattern=%s", uid)
	require.True(t,
		strings.Contains(result.LogOutput, expected),
		"expected rule %q to fire, but the logs do not mention it", uid,
	)
}
