package dto

import (
	"encoding/json"
	"time"

	"github.com/fairwaylabs/caddie-api/internal/models"
)

// CourseStrategyRequest carries the multipart form fields of a
// course-strategy request; the optional scorecard image travels separately.
type CourseStrategyRequest struct {
	CourseName string   `json:"course_name" validate:"required,max=255"`
	TeeSet     string   `json:"tee_set" validate:"omitempty,max=64"`
	Notes      string   `json:"notes" validate:"omitempty,max=1024"`
	Handicap   *float64 `json:"handicap,omitempty" validate:"omitempty,gte=-10,lte=54"`
}

// CourseStrategyResponse is the stored strategy view.
type CourseStrategyResponse struct {
	ID         string          `json:"id"`
	CourseName string          `json:"course_name"`
	TeeSet     string          `json:"tee_set,omitempty"`
	Notes      string          `json:"notes,omitempty"`
	Strategy   json.RawMessage `json:"strategy"`
	CreatedAt  time.Time       `json:"created_at"`
}

// NewCourseStrategyResponse converts a stored strategy to its view.
func NewCourseStrategyResponse(s models.CourseStrategy) CourseStrategyResponse {
	return CourseStrategyResponse{
		ID:         s.ID,
		CourseName: s.CourseName,
		TeeSet:     s.TeeSet,
		Notes:      s.Notes,
		Strategy:   json.RawMessage(s.Strategy),
		CreatedAt:  s.CreatedAt,
	}
}

// NewCourseStrategyResponseSlice converts a slice of stored strategies.
func NewCourseStrategyResponseSlice(items []models.CourseStrategy) []CourseStrategyResponse {
	out := make([]CourseStrategyResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewCourseStrategyResponse(item))
	}
	return out
}
