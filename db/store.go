package db

import (
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/oxhq/lintfx/core"
	"github.com/oxhq/lintfx/host"
	"github.com/oxhq/lintfx/models"
)

// SaveReport persists one run and all of its findings in a transaction.
// Impact is rule metadata rather than diagnostic payload, so the caller
// supplies the rule-to-impact table alongside the report.
func SaveReport(db *gorm.DB, report *host.Report, impacts map[core.RuleID]core.Impact) (*models.Run, error) {
	now := time.Now()
	run := &models.Run{
		ID:           models.NewID(),
		RootPath:     report.Root,
		StartedAt:    now.Add(-report.Duration),
		CompletedAt:  &now,
		FilesScanned: report.FilesScanned,
		FindingCount: report.Findings,
	}

	for _, file := range report.Files {
		run.FailureCount += len(file.Failures)
		for _, d := range file.Set.Diagnostics {
			finding := models.Finding{
				ID:         models.NewID(),
				RunID:      run.ID,
				RuleID:     string(d.Rule),
				FilePath:   file.Path,
				Language:   file.Language,
				StartByte:  d.Range.Start,
				EndByte:    d.Range.End,
				Severity:   string(d.Severity),
				Impact:     string(impacts[d.Rule]),
				Message:    d.Message,
				Correction: d.Correction,
			}
			if len(d.Fixes) > 0 {
				encoded, err := json.Marshal(d.Fixes)
				if err != nil {
					return nil, fmt.Errorf("encode fixes for %s: %w", d.Rule, err)
				}
				finding.Fixes = encoded
			}
			run.Findings = append(run.Findings, finding)
		}
	}

	if err := db.Create(run).Error; err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	return run, nil
}

// RecentRuns returns the latest runs, newest first.
func RecentRuns(db *gorm.DB, limit int) ([]models.Run, error) {
	if limit <= 0 {
		limit = 10
	}
	var runs []models.Run
	err := db.Order("started_at DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}
