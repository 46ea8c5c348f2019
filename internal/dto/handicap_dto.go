package dto

import (
	"github.com/fairwaylabs/caddie-api/internal/golf"
	"github.com/fairwaylabs/caddie-api/pkg/ghin"
)

// GolferResponse is the normalized handicap-service golfer view.
type GolferResponse struct {
	GHINNumber    string   `json:"ghin_number"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	HandicapIndex *float64 `json:"handicap_index,omitempty"`
	Club          string   `json:"club,omitempty"`
	State         string   `json:"state,omitempty"`
}

// NewGolferResponse converts a provider golfer to the API view.
func NewGolferResponse(g ghin.Golfer) GolferResponse {
	return GolferResponse{
		GHINNumber:    g.GHINNumber,
		FirstName:     g.FirstName,
		LastName:      g.LastName,
		HandicapIndex: g.HandicapIndex,
		Club:          g.Club,
		State:         g.State,
	}
}

// ScoresResponse wraps normalized round history.
type ScoresResponse struct {
	GHINNumber string       `json:"ghin_number"`
	Rounds     []golf.Round `json:"rounds"`
}
