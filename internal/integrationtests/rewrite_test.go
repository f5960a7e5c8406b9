package integration_tests

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/semgraft/internal/app"
	"github.com/vk/semgraft/internal/testutil"
)

var compact = app.Config{InputFormat: app.FormatCompact}

func TestRewrite_SplitsContractionInCoNLLU(t *testing.T) {
	rules := map[string]string{"split.hcl": `
rule "split-dont" {
  language = "en"
  node "w" { word = "don't" }
  edits = ["splitWord -node w -exact do -exact \"n't\" -reln dep"]
}
`}
	input := "1\tI\tI\tPRON\tPRP\t_\t3\tnsubj\t_\t_\n" +
		"2\tdon't\tdo\tAUX\tVBP\t_\t3\taux\t_\t_\n" +
		"3\tsleep\tsleep\tVERB\tVB\t_\t0\troot\t_\t_\n\n"

	result := testutil.RunIntegrationTest(t, rules, input, app.Config{})

	require.NoError(t, result.Err)
	want := "1\tI\tI\tPRON\tPRP\t_\t4\tnsubj\t_\t_\n" +
		"2-3\tdon't\t_\t_\t_\t_\t_\t_\t_\t_\n" +
		"2\tdo\t_\tAUX\tVBP\t_\t4\taux\t_\t_\n" +
		"3\tn't\t_\t_\t_\t_\t2\tdep\t_\t_\n" +
		"4\tsleep\tsleep\tVERB\tVB\t_\t0\troot\t_\t_\n\n"
	require.Equal(t, want, result.Output)
	testutil.AssertRuleFired(t, result, "split-dont")
}

func TestRewrite_RemoveThenPrune(t *testing.T) {
	rules := map[string]string{"prune.hcl": `
rule "detach-punct" {
  node "p" {}
  edge {
    name = "e"
    dep  = "p"
    reln = "punct"
  }
  edits = ["removeNamedEdge -edge e", "killNonRootedNodes"]
}
`}

	result := testutil.RunIntegrationTest(t, rules, "[ran-1 punct> bang-2 advmod> fast-3]\n", compact)

	testutil.AssertGraphs(t, result, "[ran-1 advmod> fast-3]")
}

func TestRewrite_RulesRunInFileOrder(t *testing.T) {
	rules := map[string]string{
		"a.hcl": `
rule "amod-to-nmod" {
  node "gov" {}
  node "dep" {}
  edge {
    name = "e"
    gov  = "gov"
    dep  = "dep"
    reln = "amod"
  }
  when {
    wordlist = "temperatures"
    node     = "dep"
  }
  edits = ["relabelNamedEdge -edge e -reln nmod"]
}
`,
		"b.hcl": `
rule "nmod-to-obl" {
  node "gov" {}
  node "dep" {}
  edge {
    name = "e"
    gov  = "gov"
    dep  = "dep"
    reln = "nmod"
  }
  edits = ["relabelNamedEdge -edge e -reln obl"]
}
`,
		"lists/temperatures.hcl": `
wordlist "temperatures" {
  file = "temperatures.txt"
}
`,
		"lists/temperatures.txt": "hot\ncold\n",
	}

	result := testutil.RunIntegrationTest(t, rules, "[pizza-3 amod> hot-1 amod> big-2]\n", compact)

	testutil.AssertGraphs(t, result, "[pizza-3 obl> hot-1 amod> big-2]")
	testutil.AssertRuleFired(t, result, "amod-to-nmod")
	testutil.AssertRuleFired(t, result, "nmod-to-obl")
}

func TestRewrite_ExhaustCombinesRules(t *testing.T) {
	rules := map[string]string{"rules.hcl": `
rule "add-blue" {
  node "n" { word = "/antennae?/" }
  edge {
    dep  = "n"
    reln = "obj"
  }
  edge {
    gov     = "n"
    reln    = "amod"
    negated = true
  }
  edits = ["addDep -gov n -reln amod -position -n -word blue"]
}

rule "drop-subject" {
  node "s" {}
  edge {
    dep  = "s"
    reln = "nsubj"
  }
  edits = ["deleteLeaf -node s", "reindexGraph"]
}
`}
	cfg := compact
	cfg.Mode = app.ModeExhaust

	result := testutil.RunIntegrationTest(t, rules, "[has-2 nsubj> Jennifer-1 obj> antennae-3]\n", cfg)

	testutil.AssertGraphs(t, result,
		"[has-2 nsubj> Jennifer-1 obj> [antennae-4 amod> blue-3]]",
		"[has-1 obj> antennae-2]",
		"[has-1 obj> [antennae-3 amod> blue-2]]",
	)
}

func TestRewrite_BrokenRuleFailsStartup(t *testing.T) {
	rules := map[string]string{"broken.hcl": `
rule "broken" {
  node "a" {}
  edits = ["relabelNamedEdge -edge e"]
}
`}

	result := testutil.RunIntegrationTest(t, rules, "", compact)

	require.Error(t, result.Err)
	require.Contains(t, result.Err.Error(), "application startup panicked")
	require.Contains(t, result.Err.Error(), "registry validation failed")
	require.Nil(t, result.App)
}

func TestRewrite_CancelledRun(t *testing.T) {
	rules := map[string]string{"prune.hcl": `
rule "drop-punct" {
  node "p" {}
  edge {
    dep  = "p"
    reln = "punct"
  }
  edits = ["deleteLeaf -node p"]
}
`}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := testutil.RunIntegrationTestWithContext(ctx, t, rules, "[ran-1 punct> bang-2]\n", compact)

	require.ErrorIs(t, result.Err, context.Canceled)
	require.Empty(t, result.Output)
}
