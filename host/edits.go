package host

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/pmezard/go-difflib/difflib"

	"github.com/oxhq/lintfx/core"
)

// applyEdits returns source with the fix's edits applied. Edits arrive
// ordered and non-overlapping (the synthesizer guarantees it), so applying
// back to front keeps earlier offsets stable.
func applyEdits(source []byte, edits []core.Edit) []byte {
	out := append([]byte(nil), source...)
	for i := len(edits) - 1; i >= 0; i-- {
		e := edits[i]
		patched := make([]byte, 0, len(out)-int(e.Range.Len())+len(e.Replacement))
		patched = append(patched, out[:e.Range.Start]...)
		patched = append(patched, e.Replacement...)
		patched = append(patched, out[e.Range.End:]...)
		out = patched
	}
	return out
}

// Preview renders a unified diff of applying one fix to the file's source.
func Preview(path string, source []byte, fix core.Fix) (string, error) {
	patched := applyEdits(source, fix.Edits)
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(source)),
		B:        difflib.SplitLines(string(patched)),
		FromFile: path,
		ToFile:   path + " (" + fix.Label + ")",
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff %s: %w", path, err)
	}
	return text, nil
}

// ApplyFixes applies the first fix of each diagnostic to source, arbitrating
// conflicts between diagnostics: fixes are taken in start-offset order and
// a fix touching bytes an accepted fix already claimed is skipped. Returns
// the patched source and how many fixes were applied. The core proposes
// edits; this arbitration is deliberately a host decision.
func ApplyFixes(source []byte, diags []core.Diagnostic) ([]byte, int) {
	type candidate struct {
		fix   core.Fix
		start uint32
	}
	var candidates []candidate
	for _, d := range diags {
		if len(d.Fixes) == 0 || len(d.Fixes[0].Edits) == 0 {
			continue
		}
		candidates = append(candidates, candidate{fix: d.Fixes[0], start: d.Fixes[0].Edits[0].Range.Start})
	}
	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].start < candidates[j].start })

	var (
		accepted []core.Edit
		applied  int
	)
	for _, c := range candidates {
		if overlapsAny(c.fix.Edits, accepted) {
			continue
		}
		accepted = append(accepted, c.fix.Edits...)
		applied++
	}
	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].Range.Start < accepted[j].Range.Start })

	return applyEdits(source, accepted), applied
}

func overlapsAny(edits, against []core.Edit) bool {
	for _, e := range edits {
		for _, a := range against {
			if e.Range.Overlaps(a.Range) {
				return true
			}
		}
	}
	return false
}

// WriteFileAtomic replaces path with content via a temp file and rename, so
// a crash mid-write never leaves a half-patched file behind.
func WriteFileAtomic(path string, content []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".lintfx.tmp.*")
	if err != nil {
		return fmt.Errorf("create temp for %s: %w", path, err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(content); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp for %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp for %s: %w", path, err)
	}
	if err := os.Chmod(tmpPath, mode); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp for %s: %w", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
