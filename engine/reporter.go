package engine

import (
	"fmt"
	"sort"

	"github.com/oxhq/lintfx/core"
)

type dedupKey struct {
	rule  core.RuleID
	start uint32
	end   uint32
}

// reporter is the sink every rule writes to. It owns deduplication, range
// validation and final assembly of the diagnostic set.
type reporter struct {
	fileLen   uint32
	seen      map[dedupKey]struct{}
	diags     []core.Diagnostic
	finalized bool
}

func newReporter(fileLen int) *reporter {
	return &reporter{
		fileLen: uint32(fileLen),
		seen:    make(map[dedupKey]struct{}),
	}
}

// report inserts a diagnostic unless an equal (rule, start, end) key already
// exists; the first write wins and later duplicates are silently dropped.
// An out-of-bounds or malformed range is a construction error returned to
// the calling rule's isolation boundary, never stored.
func (r *reporter) report(d core.Diagnostic) (bool, error) {
	if r.finalized {
		return false, fmt.Errorf("report %s: session already finalized", d.Rule)
	}
	if !d.Range.Valid() || d.Range.End > r.fileLen {
		return false, fmt.Errorf("diagnostic %s [%d,%d) in %d-byte file: %w",
			d.Rule, d.Range.Start, d.Range.End, r.fileLen, core.ErrInvalidRange)
	}

	key := dedupKey{rule: d.Rule, start: d.Range.Start, end: d.Range.End}
	if _, dup := r.seen[key]; dup {
		return false, nil
	}
	r.seen[key] = struct{}{}
	r.diags = append(r.diags, d)
	return true, nil
}

// attachFix appends a fix to an already stored diagnostic.
func (r *reporter) attachFix(d core.Diagnostic, fix core.Fix) {
	key := dedupKey{rule: d.Rule, start: d.Range.Start, end: d.Range.End}
	for i := range r.diags {
		got := dedupKey{rule: r.diags[i].Rule, start: r.diags[i].Range.Start, end: r.diags[i].Range.End}
		if got == key {
			r.diags[i].Fixes = append(r.diags[i].Fixes, fix)
			return
		}
	}
}

// finalize freezes the reporter and returns diagnostics sorted by
// (range.start, rule, range.end) for deterministic output.
func (r *reporter) finalize() []core.Diagnostic {
	r.finalized = true
	sort.SliceStable(r.diags, func(i, j int) bool {
		a, b := r.diags[i], r.diags[j]
		if a.Range.Start != b.Range.Start {
			return a.Range.Start < b.Range.Start
		}
		if a.Rule != b.Rule {
			return a.Rule < b.Rule
		}
		return a.Range.End < b.Range.End
	})
	return r.diags
}
