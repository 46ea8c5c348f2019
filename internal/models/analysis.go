package models

import (
	"time"

	"gorm.io/datatypes"
)

// Round-data provenance recorded on an analysis.
const (
	SourceHandicapService = "handicap_service"
	SourceScorecard       = "scorecard"
	SourceNone            = "none"
)

// Analysis is one persisted coaching analysis. The model's structured reply
// is stored verbatim as a JSON document and only ever replaced wholesale.
type Analysis struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID uint   `gorm:"index;not null" json:"user_id"`

	GolferName string         `gorm:"size:255" json:"golfer_name"`
	CourseName string         `gorm:"size:255" json:"course_name"`
	Handicap   *float64       `json:"handicap,omitempty"`
	Source     string         `gorm:"size:32;not null" json:"source"`
	RoundCount int            `gorm:"not null" json:"round_count"`
	Result     datatypes.JSON `gorm:"type:json;not null" json:"result"`

	CreatedAt time.Time `json:"created_at"`
}

// RoundRecord is the raw round payload attached to an analysis for display
// and audit. Immutable once written.
type RoundRecord struct {
	ID         uint           `gorm:"primaryKey" json:"id"`
	AnalysisID string         `gorm:"size:36;index;not null" json:"analysis_id"`
	CourseName string         `gorm:"size:255" json:"course_name"`
	PlayedAt   *time.Time     `json:"played_at,omitempty"`
	TotalScore *int           `json:"total_score,omitempty"`
	Payload    datatypes.JSON `gorm:"type:json;not null" json:"payload"`
	CreatedAt  time.Time      `json:"created_at"`
}
