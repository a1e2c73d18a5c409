package core

import (
	"errors"
	"fmt"
	"sort"
)

// RuleID is the stable string identity of a rule, unique within a session.
type RuleID string

// Severity of a reported diagnostic.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityHint    Severity = "hint"
)

// Impact classifies how serious a violation of a rule is. It is metadata for
// prioritization and reporting, never for correctness.
type Impact string

const (
	ImpactLow      Impact = "low"
	ImpactMedium   Impact = "medium"
	ImpactHigh     Impact = "high"
	ImpactCritical Impact = "critical"
)

// Rank returns a comparable ordering for impact levels, higher is more severe.
func (i Impact) Rank() int {
	switch i {
	case ImpactLow:
		return 1
	case ImpactMedium:
		return 2
	case ImpactHigh:
		return 3
	case ImpactCritical:
		return 4
	default:
		return 0
	}
}

// Cost classifies how expensive a rule is to evaluate.
type Cost string

const (
	CostLow    Cost = "low"
	CostMedium Cost = "medium"
	CostHigh   Cost = "high"
)

// RuleDescriptor is the static metadata of one rule. Created once at
// registration and never mutated after the session registry is built.
type RuleDescriptor struct {
	ID              RuleID   `json:"id"`
	Description     string   `json:"description,omitempty"`
	DefaultSeverity Severity `json:"default_severity"`
	Impact          Impact   `json:"impact"`
	Cost            Cost     `json:"cost"`
}

// SourceRange is a half-open byte range [Start, End) within one file's text.
type SourceRange struct {
	Start uint32 `json:"start"`
	End   uint32 `json:"end"`
}

// Valid reports whether the range is well formed (Start <= End).
func (r SourceRange) Valid() bool {
	return r.Start <= r.End
}

// Len returns the number of bytes covered by the range.
func (r SourceRange) Len() uint32 {
	if !r.Valid() {
		return 0
	}
	return r.End - r.Start
}

// Overlaps reports whether two ranges share at least one byte. Touching
// ranges ([0,3) and [3,5)) do not overlap.
func (r SourceRange) Overlaps(o SourceRange) bool {
	return r.Start < o.End && o.Start < r.End
}

// Diagnostic is one reported policy violation. Owned by the session reporter
// from creation until the final set is handed to the caller.
type Diagnostic struct {
	Rule       RuleID      `json:"rule"`
	Range      SourceRange `json:"range"`
	Message    string      `json:"message"`
	Correction string      `json:"correction,omitempty"`
	Severity   Severity    `json:"severity"`
	Fixes      []Fix       `json:"fixes,omitempty"`
}

// Edit replaces the bytes at Range with Replacement. A zero-length range is
// an insertion, an empty replacement is a deletion.
type Edit struct {
	Range       SourceRange `json:"range"`
	Replacement string      `json:"replacement"`
}

// Fix is an ordered, pairwise non-overlapping sequence of edits resolving one
// diagnostic, plus a human-readable label. All edits apply to the same file.
type Fix struct {
	Label string `json:"label"`
	Edits []Edit `json:"edits"`
}

// ErrOverlappingEdits is returned when a fix is constructed from edits whose
// ranges overlap. Overlap is a construction error, never resolved silently.
var ErrOverlappingEdits = errors.New("fix edits overlap")

// ErrInvalidRange is returned for a malformed or out-of-bounds source range.
var ErrInvalidRange = errors.New("invalid source range")

// NewFix builds a fix from the given edits, ordered by start offset. It fails
// with ErrOverlappingEdits if any two edits share bytes, and with
// ErrInvalidRange if any edit range is malformed.
func NewFix(label string, edits ...Edit) (Fix, error) {
	ordered := make([]Edit, len(edits))
	copy(ordered, edits)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Range.Start < ordered[j].Range.Start
	})

	for i, e := range ordered {
		if !e.Range.Valid() {
			return Fix{}, fmt.Errorf("edit %d [%d,%d): %w", i, e.Range.Start, e.Range.End, ErrInvalidRange)
		}
		if i > 0 && ordered[i-1].Range.Overlaps(e.Range) {
			return Fix{}, fmt.Errorf("edits %d and %d: %w", i-1, i, ErrOverlappingEdits)
		}
	}

	return Fix{Label: label, Edits: ordered}, nil
}

// DiagnosticSet is the ordered result of one analysis session over one file.
type DiagnosticSet struct {
	File        string       `json:"file"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Len returns the number of diagnostics in the set.
func (s DiagnosticSet) Len() int {
	return len(s.Diagnostics)
}

// Fact is one cached project-level value. Found is false when the underlying
// source (a manifest, usually) is absent or unreadable; both cases are a
// legitimate, cacheable negative.
type Fact struct {
	Value any  `json:"value"`
	Found bool `json:"found"`
}
