package ai

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/fairwaylabs/caddie-api/internal/golf"
)

const extractionPrompt = `Read the attached golf scorecard images and transcribe every round you can see.
Respond with a single JSON object: {"rounds": [...]}.
Each round: {"date": "YYYY-MM-DD" or null, "course_name": string or null, "total_score": integer or null, "tee_set": string or null, "holes": [...]}.
Each hole: {"number": integer 1-18, "par": integer or null, "yardage": integer or null, "score": integer or null, "putts": integer or null, "fairway": "hit"|"miss_left"|"miss_right"|"miss_short"|null, "gir": boolean or null, "green_miss": "short"|"long"|"left"|"right"|null, "penalties": integer or null}.
Transcribe only what is legible. Use null for anything you cannot read; never guess values. If no scorecard is readable, return {"rounds": []}.`

type extractedHole struct {
	Number    int     `json:"number"`
	Par       *int    `json:"par"`
	Yardage   *int    `json:"yardage"`
	Score     *int    `json:"score"`
	Putts     *int    `json:"putts"`
	Fairway   *string `json:"fairway"`
	GIR       *bool   `json:"gir"`
	GreenMiss *string `json:"green_miss"`
	Penalties *int    `json:"penalties"`
}

type extractedRound struct {
	Date       *string         `json:"date"`
	CourseName *string         `json:"course_name"`
	TotalScore *int            `json:"total_score"`
	TeeSet     *string         `json:"tee_set"`
	Holes      []extractedHole `json:"holes"`
}

type extractionPayload struct {
	Rounds []extractedRound `json:"rounds"`
}

func parseExtractedRounds(content string) ([]golf.Round, error) {
	var payload extractionPayload
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadModelReply, err)
	}

	rounds := make([]golf.Round, 0, len(payload.Rounds))
	for _, er := range payload.Rounds {
		round := golf.Round{TotalScore: er.TotalScore}
		if er.CourseName != nil {
			round.CourseName = strings.TrimSpace(*er.CourseName)
		}
		if er.TeeSet != nil {
			round.TeeSet = strings.TrimSpace(*er.TeeSet)
		}
		if er.Date != nil {
			if parsed, err := time.Parse("2006-01-02", strings.TrimSpace(*er.Date)); err == nil {
				round.Date = parsed
			}
		}
		for _, eh := range er.Holes {
			if eh.Number < 1 || eh.Number > 18 {
				continue
			}
			hole := golf.Hole{
				Number:  eh.Number,
				Par:     eh.Par,
				Yardage: eh.Yardage,
				Score:   eh.Score,
				Putts:   eh.Putts,
				GIR:     eh.GIR,
			}
			if eh.Fairway != nil {
				hole.Fairway = normalizeFairway(*eh.Fairway)
			}
			if eh.GreenMiss != nil {
				hole.GreenMiss = normalizeGreenMiss(*eh.GreenMiss)
			}
			if eh.Penalties != nil && *eh.Penalties > 0 {
				hole.Penalties = *eh.Penalties
			}
			round.Holes = append(round.Holes, hole)
		}
		round.HolesPlayed = len(round.Holes)
		rounds = append(rounds, round)
	}

	return rounds, nil
}

func normalizeFairway(raw string) golf.FairwayResult {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "hit":
		return golf.FairwayHit
	case "miss_left", "left":
		return golf.FairwayMissLeft
	case "miss_right", "right":
		return golf.FairwayMissRight
	case "miss_short", "short":
		return golf.FairwayMissShort
	default:
		return golf.FairwayNone
	}
}

func normalizeGreenMiss(raw string) golf.GreenMiss {
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
