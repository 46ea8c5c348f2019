package golf

import "time"

// FairwayResult describes the outcome of a tee shot on a driving hole.
type FairwayResult string

const (
	FairwayHit       FairwayResult = "hit"
	FairwayMissLeft  FairwayResult = "miss_left"
	FairwayMissRight FairwayResult = "miss_right"
	FairwayMissShort FairwayResult = "miss_short"
	FairwayNone      FairwayResult = ""
)

// GreenMiss describes the direction an approach shot missed the green.
type GreenMiss string

const (
	GreenMissShort GreenMiss = "short"
	GreenMissLong  GreenMiss = "long"
	GreenMissLeft  GreenMiss = "left"
	GreenMissRight GreenMiss = "right"
	GreenMissNone  GreenMiss = ""
)

// Hole is one hole within a played round. Optional fields are pointers so
// that "not recorded" is distinguishable from zero.
type Hole struct {
	Number    int           `json:"number"`
	Par       *int          `json:"par,omitempty"`
	Yardage   *int          `json:"yardage,omitempty"`
	Score     *int          `json:"score,omitempty"`
	Fairway   FairwayResult `json:"fairway,omitempty"`
	GIR       *bool         `json:"gir,omitempty"`
	GreenMiss GreenMiss     `json:"green_miss,omitempty"`
	Putts     *int          `json:"putts,omitempty"`
	Penalties int           `json:"penalties,omitempty"`
	SandShots int           `json:"sand_shots,omitempty"`
	SandSave  bool          `json:"sand_save,omitempty"`
}

// OverPar returns score minus par, false when either side is unrecorded.
func (h Hole) OverPar() (int, bool) {
	if h.Par == nil || h.Score == nil {
		return 0, false
	}
	return *h.Score - *h.Par, true
}

// RoundStats carries round-level totals reported without hole detail.
type RoundStats struct {
	FairwaysHit *int `json:"fairways_hit,omitempty"`
	Greens      *int `json:"greens_in_regulation,omitempty"`
	Putts       *int `json:"putts,omitempty"`
	Penalties   *int `json:"penalties,omitempty"`
}

// Round is one played round as fetched from the handicap service or
// extracted from a scorecard image. Immutable once built.
type Round struct {
	ID           string      `json:"id,omitempty"`
	Date         time.Time   `json:"date"`
	CourseName   string      `json:"course_name"`
	TotalScore   *int        `json:"total_score,omitempty"`
	CourseRating *float64    `json:"course_rating,omitempty"`
	SlopeRating  *int        `json:"slope_rating,omitempty"`
	Differential *float64    `json:"differential,omitempty"`
	TeeSet       string      `json:"tee_set,omitempty"`
	HolesPlayed  int         `json:"holes_played,omitempty"`
	Stats        *RoundStats `json:"stats,omitempty"`
	Holes        []Hole      `json:"holes,omitempty"`
}

// HasHoleDetail reports whether the round carries any hole-by-hole records.
func (r Round) HasHoleDetail() bool {
	return len(r.Holes) > 0
}

// IntPtr, FloatPtr and BoolPtr are small helpers for building optional fields.
func IntPtr(v int) *int { return &v }

// FloatPtr returns a pointer to v.
func FloatPtr(v float64) *float64 { return &v }

// BoolPtr returns a pointer to v.
func BoolPtr(v bool) *bool { return &v }
