package engine

import (
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/oxhq/lintfx/core"
)

// RunContext is the per-session capability handed to rule callbacks: report
// diagnostics, read the file, defer work past the walk, and consult the
// project fact cache. One RunContext serves all rules of a session; the
// engine stamps the currently running rule before each invocation.
type RunContext struct {
	session *Session
	current core.RuleID
}

// FilePath returns the path of the file under analysis.
func (rc *RunContext) FilePath() string {
	return rc.session.opts.FilePath
}

// ProjectRoot returns the project root the session was created for.
func (rc *RunContext) ProjectRoot() string {
	return rc.session.opts.ProjectRoot
}

// Source returns the raw file text. Callers must not mutate it.
func (rc *RunContext) Source() []byte {
	return rc.session.opts.Source
}

// Root returns the root node of the borrowed syntax tree.
func (rc *RunContext) Root() *sitter.Node {
	return rc.session.opts.Root
}

// Text returns the source text covered by a node.
func (rc *RunContext) Text(node *sitter.Node) string {
	return node.Content(rc.session.opts.Source)
}

// NodeRange returns the byte range covered by a node.
func NodeRange(node *sitter.Node) core.SourceRange {
	return rangeOf(node)
}

// Report submits a diagnostic to the session reporter. The rule field is
// stamped with the running rule when empty, and the severity is resolved
// from host overrides or the rule descriptor when unset. Duplicate
// (rule, range) reports are silently dropped, first write wins. A malformed
// or out-of-bounds range is recorded as a rule-internal failure and
// returned; it never reaches the final set.
func (rc *RunContext) Report(d core.Diagnostic) error {
	d = rc.stamp(d)
	if _, err := rc.session.reporter.report(d); err != nil {
		rc.session.recordFailure(d.Rule, d.Range, err)
		return err
	}
	return nil
}

// ReportWithFix submits a diagnostic and asks the synthesizer to derive a
// fix from the rule-supplied generator. A rejected fix (overlapping or
// out-of-bounds edits, or a panicking generator) is logged and dropped
// while the diagnostic itself is still reported.
func (rc *RunContext) ReportWithFix(d core.Diagnostic, gen FixGenerator) error {
	d = rc.stamp(d)
	added, err := rc.session.reporter.report(d)
	if err != nil {
		rc.session.recordFailure(d.Rule, d.Range, err)
		return err
	}
	if !added {
		return nil
	}
	if fix := rc.session.synthesize(rc, d, gen); fix != nil {
		rc.session.reporter.attachFix(d, *fix)
	}
	return nil
}

// Defer enqueues a task to run once after the walk completes, in enqueue
// order, under the same isolation as immediate callbacks. Two-phase rules
// use this to decide only with whole-file context in hand. Deferring is
// only legal while the walk is in progress.
func (rc *RunContext) Defer(task DeferredFunc) {
	s := rc.session
	if s.phase != phaseWalking {
		s.recordFailure(rc.current, core.SourceRange{},
			fmt.Errorf("defer called in phase %s", s.phase))
		return
	}
	s.deferred = append(s.deferred, deferredTask{rule: rc.current, fn: task})
}

// Fact resolves a project-level fact through the shared cache. With no cache
// configured every fact is a negative; rules need no nil checks.
func (rc *RunContext) Fact(factKind string, compute func() (any, error)) core.Fact {
	facts := rc.session.opts.Facts
	if facts == nil {
		return core.Fact{}
	}
	return facts.GetOrCompute(rc.session.opts.ProjectRoot, factKind, compute)
}

func (rc *RunContext) stamp(d core.Diagnostic) core.Diagnostic {
	if d.Rule == "" {
		d.Rule = rc.current
	}
	if d.Severity == "" {
		d.Severity = rc.session.severityFor(d.Rule)
	}
	return d
}
