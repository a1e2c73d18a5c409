package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Run represents one whole-project analysis run.
type Run struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)"`
	RootPath    string    `gorm:"type:varchar(512);not null"`
	StartedAt   time.Time `gorm:"autoCreateTime"`
	CompletedAt *time.Time

	// Statistics
	FilesScanned int `gorm:"default:0"`
	FindingCount int `gorm:"default:0"`
	FailureCount int `gorm:"default:0"`

	// Relationships
	Findings []Finding `gorm:"foreignKey:RunID"`
}

// Finding is one persisted diagnostic.
type Finding struct {
	ID    string `gorm:"primaryKey;type:varchar(36)"`
	RunID string `gorm:"type:varchar(36);index"`

	// Origin
	RuleID   string `gorm:"type:varchar(128);index"`
	FilePath string `gorm:"type:varchar(512);index"`
	Language string `gorm:"type:varchar(50)"`

	// Location (byte offsets within the file)
	StartByte uint32
	EndByte   uint32

	// Payload
	Severity   string         `gorm:"type:varchar(16)"`
	Impact     string         `gorm:"type:varchar(16)"`
	Message    string         `gorm:"type:text"`
	Correction string         `gorm:"type:text"`
	Fixes      datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// NewID returns a fresh identifier for runs and findings.
func NewID() string {
	return uuid.NewString()
}
