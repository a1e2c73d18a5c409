// Package host drives the analysis core across a project: it discovers
// files, runs one engine session per file in parallel, and owns everything
// the core deliberately does not — fix arbitration, fix application, and
// result aggregation.
package host

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/oxhq/lintfx/core"
	"github.com/oxhq/lintfx/engine"
	"github.com/oxhq/lintfx/lang"
	"github.com/oxhq/lintfx/projcache"
)

// Scope defines which files one run covers.
type Scope struct {
	Root     string
	Include  []string // doublestar globs relative to Root; empty means every known extension
	Exclude  []string
	MaxFiles int // 0 = unlimited
}

var skipDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"vendor":       true,
	"testdata":     true,
}

// Runner runs sessions across files. Sessions share only the fact cache;
// every file gets its own registry build, reporter and walk.
type Runner struct {
	Langs *lang.Registry

	// Rules builds a fresh rule set per session. Two-phase rules carry
	// per-file state, so bindings are never shared between sessions.
	Rules func() []engine.Binding

	Cache     *projcache.Cache
	Severity  map[core.RuleID]core.Severity
	Disabled  map[core.RuleID]bool
	MinImpact core.Impact
	Workers   int
	Logger    *slog.Logger
}

// FileResult is the outcome of one file session.
type FileResult struct {
	Path     string               `json:"path"`
	Language string               `json:"language"`
	Set      core.DiagnosticSet   `json:"set"`
	Failures []engine.RuleFailure `json:"-"`
	Err      error                `json:"-"`
}

// Report aggregates every file result of one run.
type Report struct {
	Root         string        `json:"root"`
	Files        []FileResult  `json:"files"`
	FilesScanned int           `json:"files_scanned"`
	Findings     int           `json:"findings"`
	Duration     time.Duration `json:"duration_ns"`
}

// Run discovers files in scope and analyzes them, one session per file.
// File order in the report is sorted by path; no cross-file ordering is
// guaranteed during execution.
func (r *Runner) Run(ctx context.Context, scope Scope) (*Report, error) {
	started := time.Now()

	files, err := r.discover(scope)
	if err != nil {
		return nil, err
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	var (
		mu      sync.Mutex
		results []FileResult
	)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for _, path := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res := r.checkFile(ctx, scope.Root, path)
			mu.Lock()
			results = append(results, res)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool { return results[i].Path < results[j].Path })

	report := &Report{
		Root:         scope.Root,
		Files:        results,
		FilesScanned: len(results),
		Duration:     time.Since(started),
	}
	for _, res := range results {
		report.Findings += res.Set.Len()
	}
	return report, nil
}

func (r *Runner) discover(scope Scope) ([]string, error) {
	root := scope.Root
	if root == "" {
		root = "."
	}

	var files []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (skipDirs[d.Name()] || strings.HasPrefix(d.Name(), ".")) {
				return filepath.SkipDir
			}
			return nil
		}
		if scope.MaxFiles > 0 && len(files) >= scope.MaxFiles {
			return filepath.SkipAll
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)

		if _, known := r.Langs.ForFile(path); !known {
			return nil
		}
		if !matchAny(scope.Include, rel, true) || matchAny(scope.Exclude, rel, false) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("discover files under %s: %w", root, err)
	}
	return files, nil
}

// matchAny matches rel against doublestar globs; empty pattern lists fall
// back to the given default.
func matchAny(patterns []string, rel string, whenEmpty bool) bool {
	if len(patterns) == 0 {
		return whenEmpty
	}
	for _, p := range patterns {
		if ok, err := doublestar.Match(p, rel); err == nil && ok {
			return true
		}
	}
	return false
}

func (r *Runner) checkFile(ctx context.Context, root, path string) FileResult {
	cfg, _ := r.Langs.ForFile(path)
	res := FileResult{Path: path, Language: cfg.Language()}

	source, err := os.ReadFile(path)
	if err != nil {
		res.Err = fmt.Errorf("read %s: %w", path, err)
		return res
	}

	tree, err := lang.Parse(ctx, cfg, source)
	if err != nil {
		res.Err = err
		return res
	}
	defer tree.Close()

	session, err := engine.NewSession(engine.Options{
		FilePath:          path,
		ProjectRoot:       root,
		Source:            source,
		Root:              tree.RootNode(),
		Kinds:             cfg,
		Rules:             r.enabledRules(),
		SeverityOverrides: r.Severity,
		Facts:             r.Cache,
		Logger:            r.Logger,
	})
	if err != nil {
		res.Err = err
		return res
	}

	res.Set, res.Err = session.Run()
	res.Failures = session.Failures()
	return res
}

// enabledRules filters the fresh rule set by the host's disable list and
// minimum impact threshold. Descriptor metadata is made for exactly this
// kind of prioritization.
func (r *Runner) enabledRules() []engine.Binding {
	all := r.Rules()
	enabled := make([]engine.Binding, 0, len(all))
	for _, b := range all {
		if r.Disabled[b.Descriptor.ID] {
			continue
		}
		if r.MinImpact != "" && b.Descriptor.Impact.Rank() < r.MinImpact.Rank() {
			continue
		}
		enabled = append(enabled, b)
	}
	return enabled
}
