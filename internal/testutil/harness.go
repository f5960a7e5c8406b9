// Package testutil provides the harness the integration tests drive the whole
// application through: rule files on disk, sentences in, rewritten graphs out.
package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/semgraft/internal/app"
	"github.com/vk/semgraft/internal/hcl"
)

// HarnessResult holds the outcomes of an integration test run.
type HarnessResult struct {
	Output    string
	LogOutput string
	Err       error
	App       *app.App
}

// Lines returns the non-empty output lines.
func (r *HarnessResult) Lines() []string {
	var lines []string
	for _, l := range strings.Split(r.Output, "\n") {
		if l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// RunIntegrationTest runs the app with a background context. See
// RunIntegrationTestWithContext.
func RunIntegrationTest(t *testing.T, files map[string]string, input string, cfg app.Config) *HarnessResult {
	t.Helper()
	return RunIntegrationTestWithContext(context.Background(), t, files, input, cfg)
}

// RunIntegrationTestWithContext writes files under a temporary "rules"
// directory, builds the app over it and runs it on input. Startup panics are
// recovered into Err. Unset config fields get the NewConfig defaults; the
// log level is always debug.
func RunIntegrationTestWithContext(ctx context.Context, t *testing.T, files map[string]string, input string, cfg app.Config) *HarnessResult {
	t.Helper()

	rulesDir := filepath.Join(t.TempDir(), "rules")
	require.NoError(t, os.Mkdir(rulesDir, 0o755))
	for name, content := range files {
		filePath := filepath.Join(rulesDir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(filePath), 0o755))
		require.NoError(t, os.WriteFile(filePath, []byte(content), 0o644))
	}

	cfg.RulesPaths = []string{rulesDir}
	cfg.LogLevel = "debug"
	cfg.LogFormat = "text"
	appConfig, err := app.NewConfig(cfg)
	require.NoError(t, err)

	out, logs := &app.SafeBuffer{}, &app.SafeBuffer{}
	result := &HarnessResult{}
	func() {
		defer func() {
			if r := recover(); r != nil {
				result.Err = fmt.Errorf("application startup panicked | %v", r)
			}
		}()
		result.App = app.NewApp(out, logs, appConfig, hcl.NewLoader())
	}()

	if result.Err == nil {
		result.Err = result.App.Run(ctx, strings.NewReader(input))
	}
	result.Output = out.String()
	result.LogOutput = logs.String()

	if os.Getenv("SEMGRAFT_TEST_LOGS") == "true" {
		t.Logf("--- Full Log Output for %s ---\n%s", t.Name(), result.LogOutput)
	}
	return result
}
