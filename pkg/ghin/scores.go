package ghin

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/fairwaylabs/caddie-api/internal/golf"
)

// Provider wire shapes. Field names follow the upstream API; they never
// leave this package.

type wireGolfer struct {
	GHINNumber    string   `json:"ghin_number"`
	FirstName     string   `json:"first_name"`
	LastName      string   `json:"last_name"`
	HandicapIndex *float64 `json:"handicap_index"`
	ClubName      string   `json:"club_name"`
	State         string   `json:"state"`
}

type wireHole struct {
	HoleNumber    int    `json:"hole_number"`
	Par           *int   `json:"par"`
	Yardage       *int   `json:"yardage"`
	AdjustedScore *int   `json:"adjusted_gross_score"`
	RawScore      *int   `json:"raw_score"`
	Putts         *int   `json:"putts"`
	FairwayHit    *bool  `json:"fairway_hit"`
	DriveAccuracy string `json:"drive_accuracy"`
	GIRFlag       *bool  `json:"gir_flag"`
	ApproachMiss  string `json:"approach_shot_miss_location"`
	Penalties     *int   `json:"penalties"`
	SandShots     *int   `json:"sand_shots"`
	SandSave      *bool  `json:"sand_save"`
}

type wireScore struct {
	ID            int        `json:"id"`
	PlayedOn      string     `json:"played_on"`
	CourseName    string     `json:"course_name"`
	AdjustedGross *int       `json:"adjusted_gross_score"`
	CourseRating  *float64   `json:"course_rating"`
	SlopeRating   *int       `json:"slope_rating"`
	Differential  *float64   `json:"differential"`
	TeeName       string     `json:"tee_name"`
	NumberOfHoles int        `json:"number_of_holes"`
	Statistics    *wireStats `json:"statistics"`
	HoleDetails   []wireHole `json:"hole_details"`
}

type wireStats struct {
	FairwaysHit *int `json:"fairways_hit"`
	GIR         *int `json:"gir"`
	Putts       *int `json:"putts"`
	Penalties   *int `json:"penalties"`
}

// LookupGolfer fetches the golfer record for a GHIN number.
func (c *Client) LookupGolfer(ctx context.Context, ghinNumber string) (Golfer, error) {
	query := url.Values{"ghin_number": {strings.TrimSpace(ghinNumber)}}

	var payload struct {
		Golfers []wireGolfer `json:"golfers"`
	}
	if err := c.get(ctx, "/golfers/search", query, &payload); err != nil {
		return Golfer{}, err
	}
	if len(payload.Golfers) == 0 {
		return Golfer{}, ErrGolferNotFound
	}

	g := payload.Golfers[0]
	return Golfer{
		GHINNumber:    g.GHINNumber,
		FirstName:     g.FirstName,
		LastName:      g.LastName,
		HandicapIndex: g.HandicapIndex,
		Club:          g.ClubName,
		State:         g.State,
	}, nil
}

// RecentScores fetches up to limit recent rounds for a golfer, newest first,
// normalized into golf.Round values.
func (c *Client) RecentScores(ctx context.Context, ghinNumber string, limit int) ([]golf.Round, error) {
	if limit <= 0 {
		limit = 20
	}
	query := url.Values{
		"ghin_number": {strings.TrimSpace(ghinNumber)},
		"limit":       {strconv.Itoa(limit)},
	}

	var payload struct {
		Scores []wireScore `json:"scores"`
	}
	if err := c.get(ctx, "/scores", query, &payload); err != nil {
		return nil, err
	}

	rounds := make([]golf.Round, 0, len(payload.Scores))
	for _, s := range payload.Scores {
		rounds = append(rounds, normalizeScore(s))
	}
	return rounds, nil
}

func normalizeScore(s wireScore) golf.Round {
	round := golf.Round{
		ID:           strconv.Itoa(s.ID),
		CourseName:   strings.TrimSpace(s.CourseName),
		TotalScore:   s.AdjustedGross,
		CourseRating: s.CourseRating,
		SlopeRating:  s.SlopeRating,
		Differential: s.Differential,
		TeeSet:       strings.TrimSpace(s.TeeName),
		HolesPlayed:  s.NumberOfHoles,
	}
	if parsed, err := time.Parse("2006-01-02", s.PlayedOn); err == nil {
		round.Date = parsed
	}
	if s.Statistics != nil {
		round.Stats = &golf.RoundStats{
			FairwaysHit: s.Statistics.FairwaysHit,
			Greens:      s.Statistics.GIR,
			Putts:       s.Statistics.Putts,
			Penalties:   s.Statistics.Penalties,
		}
	}
	for _, wh := range s.HoleDetails {
		round.Holes = append(round.Holes, normalizeHole(wh))
	}
	return round
}

func normalizeHole(wh wireHole) golf.Hole {
	hole := golf.Hole{
		Number:  wh.HoleNumber,
		Par:     wh.Par,
		Yardage: wh.Yardage,
		Putts:   wh.Putts,
		GIR:     wh.GIRFlag,
	}
	if wh.RawScore != nil {
		hole.Score = wh.RawScore
	} else {
		hole.Score = wh.AdjustedScore
	}
	hole.Fairway = normalizeDrive(wh.FairwayHit, wh.DriveAccuracy)
	hole.GreenMiss = normalizeApproachMiss(wh.ApproachMiss)
	if wh.Penalties != nil && *wh.Penalties > 0 {
		hole.Penalties = *wh.Penalties
	}
	if wh.SandShots != nil && *wh.SandShots > 0 {
		hole.SandShots = *wh.SandShots
	}
	if wh.SandSave != nil {
		hole.SandSave = *wh.SandSave
	}
	return hole
}

func normalizeDrive(hit *bool, accuracy string) golf.FairwayResult {
	if hit != nil && *hit {
		return golf.FairwayHit
	}
	switch strings.ToLower(strings.TrimSpace(accuracy)) {
	case "left":
		return golf.FairwayMissLeft
	case "right":
		return golf.FairwayMissRight
	case "short":
		return golf.FairwayMissShort
	default:
		// A miss with no recorded direction carries no directional signal.
		return golf.FairwayNone
	}
}

func normalizeApproachMiss(raw string) golf.GreenMiss {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "short":
		return golf.GreenMissShort
	case "long":
		return golf.GreenMissLong
	case "left":
		return golf.GreenMissLeft
	case "right":
		return golf.GreenMissRight
	default:
		return golf.GreenMissNone
	}
}
