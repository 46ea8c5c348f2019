package dto

import (
	"encoding/json"
	"time"

	"github.com/fairwaylabs/caddie-api/internal/golf"
	"github.com/fairwaylabs/caddie-api/internal/models"
)

// AnalyzeRequest carries the multipart form fields of an analysis request.
// Scorecard images travel separately as file headers.
type AnalyzeRequest struct {
	Name        string   `json:"name" validate:"required,max=255"`
	Handicap    *float64 `json:"handicap,omitempty" validate:"omitempty,gte=-10,lte=54"`
	CourseName  string   `json:"course_name" validate:"omitempty,max=255"`
	MissPattern string   `json:"miss_pattern" validate:"omitempty,max=255"`
	Strengths   string   `json:"strengths" validate:"omitempty,max=512"`
	GHINNumber  string   `json:"ghin_number" validate:"omitempty,numeric,max=10"`
	Preview     bool     `json:"preview"`
}

// AnalyzeResponse is the reply for POST /analyze.
type AnalyzeResponse struct {
	Success          bool                `json:"success"`
	Analysis         golf.AnalysisResult `json:"analysis"`
	AnalysisID       string              `json:"analysisId,omitempty"`
	CreditsRemaining *int                `json:"creditsRemaining,omitempty"`
	Rounds           []golf.Round        `json:"rounds,omitempty"`
	Source           string              `json:"source"`
}

// AnalysisSummary is the list view of a stored analysis.
type AnalysisSummary struct {
	ID         string    `json:"id"`
	GolferName string    `json:"golfer_name"`
	CourseName string    `json:"course_name,omitempty"`
	Handicap   *float64  `json:"handicap,omitempty"`
	Source     string    `json:"source"`
	RoundCount int       `json:"round_count"`
	CreatedAt  time.Time `json:"created_at"`
}

// AnalysisDetail is the full stored analysis including the verbatim result
// document.
type AnalysisDetail struct {
	AnalysisSummary
	Result json.RawMessage `json:"result"`
}

// NewAnalysisSummary converts a stored analysis to its list view.
func NewAnalysisSummary(a models.Analysis) AnalysisSummary {
	return AnalysisSummary{
		ID:         a.ID,
		GolferName: a.GolferName,
		CourseName: a.CourseName,
		Handicap:   a.Handicap,
		Source:     a.Source,
		RoundCount: a.RoundCount,
		CreatedAt:  a.CreatedAt,
	}
}

// NewAnalysisSummarySlice converts a slice of stored analyses.
func NewAnalysisSummarySlice(items []models.Analysis) []AnalysisSummary {
	out := make([]AnalysisSummary, 0, len(items))
	for _, item := range items {
		out = append(out, NewAnalysisSummary(item))
	}
	return out
}

// NewAnalysisDetail converts a stored analysis to its full view.
func NewAnalysisDetail(a models.Analysis) AnalysisDetail {
	return AnalysisDetail{
		AnalysisSummary: NewAnalysisSummary(a),
		Result:          json.RawMessage(a.Result),
	}
}
