package host_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxhq/lintfx/core"
	"github.com/oxhq/lintfx/host"
	"github.com/oxhq/lintfx/lang"
	"github.com/oxhq/lintfx/lang/golang"
	"github.com/oxhq/lintfx/lang/javascript"
	"github.com/oxhq/lintfx/projcache"
	"github.com/oxhq/lintfx/rules"
)

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	files := map[string]string{
		"go.mod": "module example.com/proj\n\ngo 1.22\n",
		"main.go": `package main

import "fmt"

func main() {
	fmt.Println("hello")
}
`,
		"util.go": `package main

// TODO: split this up
func helper() {}
`,
		"web/app.js": `function run() {
	console.log("running");
}
`,
		"README.md":          "not source\n",
		"vendor/skip.go":     "package skip\n",
		".hidden/skipped.go": "package hidden\n",
	}
	for name, content := range files {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return root
}

func newRunner() *host.Runner {
	return &host.Runner{
		Langs:  lang.NewRegistry(golang.New(), javascript.New()),
		Rules:  rules.All,
		Cache:  projcache.New(),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
}

func TestRunner_Run(t *testing.T) {
	root := writeProject(t)

	report, err := newRunner().Run(context.Background(), host.Scope{Root: root})
	require.NoError(t, err)

	assert.Equal(t, 3, report.FilesScanned, "vendor, hidden and non-source files are skipped")
	assert.True(t, report.Findings >= 3, "expected println, todo and console findings, got %d", report.Findings)

	// Results are sorted by path for deterministic aggregation.
	var paths []string
	for _, f := range report.Files {
		require.NoError(t, f.Err)
		paths = append(paths, f.Path)
	}
	for i := 1; i < len(paths); i++ {
		assert.Less(t, paths[i-1], paths[i])
	}
}

func TestRunner_Filters(t *testing.T) {
	root := writeProject(t)
	runner := newRunner()
	runner.Disabled = map[core.RuleID]bool{"todo-comment": true}

	report, err := runner.Run(context.Background(), host.Scope{
		Root:    root,
		Include: []string{"**/*.go"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, report.FilesScanned, "js files excluded by include glob")
	for _, f := range report.Files {
		for _, d := range f.Set.Diagnostics {
			assert.NotEqual(t, core.RuleID("todo-comment"), d.Rule)
		}
	}
}

func TestRunner_MinImpact(t *testing.T) {
	root := writeProject(t)
	runner := newRunner()
	runner.MinImpact = core.ImpactCritical

	report, err := runner.Run(context.Background(), host.Scope{Root: root})
	require.NoError(t, err)
	assert.Zero(t, report.Findings, "only the critical-impact rule survives and it has nothing to say")
}

func TestApplyFixes(t *testing.T) {
	source := []byte("aaa bbb ccc\n")

	fix := func(start, end uint32, repl string) core.Fix {
		built, err := core.NewFix("f", core.Edit{Range: core.SourceRange{Start: start, End: end}, Replacement: repl})
		require.NoError(t, err)
		return built
	}

	diags := []core.Diagnostic{
		{Rule: "r1", Range: core.SourceRange{Start: 0, End: 3}, Fixes: []core.Fix{fix(0, 3, "xxx")}},
		{Rule: "r2", Range: core.SourceRange{Start: 4, End: 7}, Fixes: []core.Fix{fix(4, 7, "yyy")}},
		// Conflicts with r1's fix; arbitration skips it.
		{Rule: "r3", Range: core.SourceRange{Start: 1, End: 5}, Fixes: []core.Fix{fix(1, 5, "zzz")}},
		// No fix at all.
		{Rule: "r4", Range: core.SourceRange{Start: 8, End: 11}},
	}

	patched, applied := host.ApplyFixes(source, diags)
	assert.Equal(t, 2, applied)
	assert.Equal(t, "xxx yyy ccc\n", string(patched))
}

func TestPreview(t *testing.T) {
	source := []byte("line one\nline two\n")
	fix, err := core.NewFix("rewrite", core.Edit{
		Range:       core.SourceRange{Start: 0, End: 8},
		Replacement: "line 1",
	})
	require.NoError(t, err)

	diff, err := host.Preview("sample.txt", source, fix)
	require.NoError(t, err)
	assert.True(t, strings.Contains(diff, "-line one"), "diff: %s", diff)
	assert.True(t, strings.Contains(diff, "+line 1"), "diff: %s", diff)
}

func TestWriteFileAtomic(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	require.NoError(t, os.WriteFile(path, []byte("old"), 0o600))

	require.NoError(t, host.WriteFileAtomic(path, []byte("new")))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm(), "mode preserved")

	leftovers, err := filepath.Glob(filepath.Join(dir, "*.tmp.*"))
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}
