package engine

import (
	"fmt"

	"github.com/oxhq/lintfx/core"
)

// FixGenerator derives candidate edits for one reported diagnostic. It gets
// read access to the tree and file through the run context and returns a
// label plus zero or more edits. Generators propose; applying edits is the
// host's job.
type FixGenerator func(rc *RunContext, d core.Diagnostic) (label string, edits []core.Edit)

// synthesize validates generator output into a fix. Edits are clamped to the
// file bounds; a fix with overlapping edits, an edit starting past the end
// of the file, or a panicking generator yields nil and a failure record.
// The diagnostic that requested the fix is unaffected either way.
func (s *Session) synthesize(rc *RunContext, d core.Diagnostic, gen FixGenerator) (fix *core.Fix) {
	if gen == nil {
		return nil
	}

	defer func() {
		if r := recover(); r != nil {
			s.recordFailure(d.Rule, d.Range, fmt.Errorf("fix generator panicked: %v", r))
			fix = nil
		}
	}()

	label, edits := gen(rc, d)
	if len(edits) == 0 {
		return nil
	}

	fileLen := uint32(len(s.opts.Source))
	clamped := make([]core.Edit, 0, len(edits))
	for _, e := range edits {
		if e.Range.Start > fileLen {
			s.recordFailure(d.Rule, e.Range,
				fmt.Errorf("fix edit starts at %d past end of %d-byte file: %w",
					e.Range.Start, fileLen, core.ErrInvalidRange))
			return nil
		}
		if e.Range.End > fileLen {
			e.Range.End = fileLen
		}
		clamped = append(clamped, e)
	}

	built, err := core.NewFix(label, clamped...)
	if err != nil {
		s.recordFailure(d.Rule, d.Range, fmt.Errorf("fix rejected: %w", err))
		return nil
	}
	return &built
}
