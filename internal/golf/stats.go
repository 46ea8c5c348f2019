package golf

import (
	"math"
	"sort"
)

// Policy constants for hole-trend identification. Fixed, not configurable.
const (
	troubleHoleThreshold = 0.5
	birdieHoleThreshold  = 0.3
	worstPenaltyHoleCap  = 3
)

// Distribution counts hole results classified against par.
type Distribution struct {
	Eagles  int `json:"eagles"`
	Birdies int `json:"birdies"`
	Pars    int `json:"pars"`
	Bogeys  int `json:"bogeys"`
	Doubles int `json:"doubles"`
	Triples int `json:"triples"`
	Worse   int `json:"worse"`
}

// Total returns the number of classified holes.
func (d Distribution) Total() int {
	return d.Eagles + d.Birdies + d.Pars + d.Bogeys + d.Doubles + d.Triples + d.Worse
}

// ParTypeStats aggregates performance on one par type (3, 4 or 5).
type ParTypeStats struct {
	Count       int          `json:"count"`
	AvgScore    *float64     `json:"avg_score,omitempty"`
	AvgOverPar  *float64     `json:"avg_over_par,omitempty"`
	Scoring     Distribution `json:"scoring"`
	GIRAttempts int          `json:"gir_attempts"`
	GIRHits     int          `json:"gir_hits"`
	GIRPct      *int         `json:"gir_pct,omitempty"`
}

// DirectionPct holds a distribution of misses by direction, as integer
// percentages of observed misses. Nil when no miss was observed.
type DirectionPct struct {
	Short *int `json:"short,omitempty"`
	Long  *int `json:"long,omitempty"`
	Left  *int `json:"left,omitempty"`
	Right *int `json:"right,omitempty"`
}

// HoleTrend is one hole's mean performance across the analyzed rounds.
type HoleTrend struct {
	Hole       int     `json:"hole"`
	Par        *int    `json:"par,omitempty"`
	AvgOverPar float64 `json:"avg_over_par"`
	Samples    int     `json:"samples"`
}

// HolePenalty is the accumulated penalty-stroke total on one hole number.
type HolePenalty struct {
	Hole    int `json:"hole"`
	Strokes int `json:"strokes"`
}

// AggregateStats is the derived view over a set of rounds. Every averaged or
// percentage field is nil (not zero) when its sample size is zero.
type AggregateStats struct {
	RoundsAnalyzed       int `json:"rounds_analyzed"`
	RoundsWithHoleDetail int `json:"rounds_with_hole_detail"`

	AvgScore        *float64 `json:"avg_score,omitempty"`
	AvgDifferential *float64 `json:"avg_differential,omitempty"`

	Scoring   Distribution `json:"scoring"`
	ParThrees ParTypeStats `json:"par_threes"`
	ParFours  ParTypeStats `json:"par_fours"`
	ParFives  ParTypeStats `json:"par_fives"`

	GIRPct        *int         `json:"gir_pct,omitempty"`
	GreenMisses   DirectionPct `json:"green_misses"`
	FairwayMisses DirectionPct `json:"fairway_misses"`

	PuttsPerGIRHole    *float64 `json:"putts_per_gir_hole,omitempty"`
	PuttsPerMissedGIR  *float64 `json:"putts_per_missed_gir,omitempty"`
	UpAndDownPct       *int     `json:"up_and_down_pct,omitempty"`
	SandSavePct        *int     `json:"sand_save_pct,omitempty"`
	AvgPenaltiesPerRnd *float64 `json:"avg_penalties_per_round,omitempty"`

	WorstPenaltyHoles []HolePenalty `json:"worst_penalty_holes,omitempty"`
	TroubleHoles      []HoleTrend   `json:"trouble_holes,omitempty"`
	BirdieHoles       []HoleTrend   `json:"birdie_holes,omitempty"`
}

// HasHoleMetrics reports whether any hole-derived sub-metric carries data.
func (s AggregateStats) HasHoleMetrics() bool {
	return s.RoundsWithHoleDetail > 0 && s.Scoring.Total() > 0
}

// HasMetrics reports whether any measured sub-metric carries data, including
// round-level averages from rounds without hole detail.
func (s AggregateStats) HasMetrics() bool {
	return s.AvgScore != nil || s.AvgDifferential != nil || s.HasHoleMetrics()
}

type holeBucket struct {
	hole    int
	par     *int
	overSum int
	samples int
	penalty int
}

type parTypeAcc struct {
	scoreSum int
	overSum  int
	samples  int
}

// Aggregate derives AggregateStats from an ordered sequence of rounds. Pure
// and deterministic; an empty or detail-free input degrades to nil metrics
// rather than failing.
func Aggregate(rounds []Round) AggregateStats {
	stats := AggregateStats{RoundsAnalyzed: len(rounds)}

	var scoreSum, diffSum float64
	var scoreN, diffN int
	for _, r := range rounds {
		if r.TotalScore != nil {
			scoreSum += float64(*r.TotalScore)
			scoreN++
		}
		if r.Differential != nil {
			diffSum += *r.Differential
			diffN++
		}
	}
	if scoreN > 0 {
		stats.AvgScore = FloatPtr(round2(scoreSum / float64(scoreN)))
	}
	if diffN > 0 {
		stats.AvgDifferential = FloatPtr(round2(diffSum / float64(diffN)))
	}

	buckets := map[int]*holeBucket{}
	parAccs := map[int]*parTypeAcc{3: {}, 4: {}, 5: {}}
	var (
		fwLeft, fwRight, fwShort         int
		gmShort, gmLong, gmLeft, gmRight int
		girPuttSum, girPuttN             int
		missPuttSum, missPuttN           int
		udAttempts, udSuccess            int
		sandAttempts, sandSaves          int
		penaltyTotal                     int
	)

	for _, r := range rounds {
		if !r.HasHoleDetail() {
			continue
		}
		stats.RoundsWithHoleDetail++

		for _, h := range r.Holes {
			b := buckets[h.Number]
			if b == nil {
				b = &holeBucket{hole: h.Number}
				buckets[h.Number] = b
			}
			if h.Par != nil {
				b.par = h.Par
			}
			b.penalty += h.Penalties
			penaltyTotal += h.Penalties

			switch h.Fairway {
			case FairwayMissLeft:
				fwLeft++
			case FairwayMissRight:
				fwRight++
			case FairwayMissShort:
				fwShort++
			}
			switch h.GreenMiss {
			case GreenMissShort:
				gmShort++
			case GreenMissLong:
				gmLong++
			case GreenMissLeft:
				gmLeft++
			case GreenMissRight:
				gmRight++
			}

			over, scored := h.OverPar()
			if scored {
				b.overSum += over
				b.samples++
				classify(over, &stats.Scoring)
			}

			// Holes with no recorded par are skipped for par-type metrics
			// only; they still feed the overall accumulators above.
			if h.Par != nil {
				if pt := stats.parType(*h.Par); pt != nil {
					if h.GIR != nil {
						pt.GIRAttempts++
						if *h.GIR {
							pt.GIRHits++
						}
					}
					if scored {
						pt.Count++
						classify(over, &pt.Scoring)
						acc := parAccs[*h.Par]
						acc.scoreSum += *h.Score
						acc.overSum += over
						acc.samples++
					}
				}
			}

			if h.GIR != nil {
				if *h.GIR {
					if h.Putts != nil {
						girPuttSum += *h.Putts
						girPuttN++
					}
				} else {
					if h.Putts != nil {
						missPuttSum += *h.Putts
						missPuttN++
					}
					if scored {
						udAttempts++
						if over <= 0 {
							udSuccess++
						}
					}
				}
			}

			if h.SandShots > 0 {
				sandAttempts++
				if h.SandSave {
					sandSaves++
				}
			}
		}
	}

	finishParType(&stats.ParThrees, parAccs[3])
	finishParType(&stats.ParFours, parAccs[4])
	finishParType(&stats.ParFives, parAccs[5])

	girAttempts := stats.ParThrees.GIRAttempts + stats.ParFours.GIRAttempts + stats.ParFives.GIRAttempts
	girHits := stats.ParThrees.GIRHits + stats.ParFours.GIRHits + stats.ParFives.GIRHits
	stats.GIRPct = pct(girHits, girAttempts)

	// Miss-direction percentages are a distribution over observed misses,
	// never over holes played.
	fwMisses := fwLeft + fwRight + fwShort
	stats.FairwayMisses = DirectionPct{
		Left:  missPct(fwLeft, fwMisses),
		Right: missPct(fwRight, fwMisses),
		Short: missPct(fwShort, fwMisses),
	}
	gmMisses := gmShort + gmLong + gmLeft + gmRight
	stats.GreenMisses = DirectionPct{
		Short: missPct(gmShort, gmMisses),
		Long:  missPct(gmLong, gmMisses),
		Left:  missPct(gmLeft, gmMisses),
		Right: missPct(gmRight, gmMisses),
	}

	if girPuttN > 0 {
		stats.PuttsPerGIRHole = FloatPtr(round2(float64(girPuttSum) / float64(girPuttN)))
	}
	if missPuttN > 0 {
		stats.PuttsPerMissedGIR = FloatPtr(round2(float64(missPuttSum) / float64(missPuttN)))
	}
	stats.UpAndDownPct = pct(udSuccess, udAttempts)
	stats.SandSavePct = pct(sandSaves, sandAttempts)
	if stats.RoundsWithHoleDetail > 0 {
		stats.AvgPenaltiesPerRnd = FloatPtr(round2(float64(penaltyTotal) / float64(stats.RoundsWithHoleDetail)))
	}

	stats.WorstPenaltyHoles = worstPenaltyHoles(buckets)
	stats.TroubleHoles, stats.BirdieHoles = holeTrends(buckets)

	return stats
}

func (s *AggregateStats) parType(par int) *ParTypeStats {
	switch par {
	case 3:
		return &s.ParThrees
	case 4:
		return &s.ParFours
	case 5:
		return &s.ParFives
	default:
		return nil
	}
}

func classify(over int, d *Distribution) {
	switch {
	case over <= -2:
		d.Eagles++
	case over == -1:
		d.Birdies++
	case over == 0:
		d.Pars++
	case over == 1:
		d.Bogeys++
	case over == 2:
		d.Doubles++
	case over == 3:
		d.Triples++
	default:
		d.Worse++
	}
}

func finishParType(pt *ParTypeStats, acc *parTypeAcc) {
	pt.GIRPct = pct(pt.GIRHits, pt.GIRAttempts)
	if acc == nil || acc.samples == 0 {
		return
	}
	pt.AvgScore = FloatPtr(round2(float64(acc.scoreSum) / float64(acc.samples)))
	pt.AvgOverPar = FloatPtr(round2(float64(acc.overSum) / float64(acc.samples)))
}

func worstPenaltyHoles(buckets map[int]*holeBucket) []HolePenalty {
	var out []HolePenalty
	for _, b := range buckets {
		if b.penalty > 0 {
			out = append(out, HolePenalty{Hole: b.hole, Strokes: b.penalty})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Strokes != out[j].Strokes {
			return out[i].Strokes > out[j].Strokes
		}
		return out[i].Hole < out[j].Hole
	})
	if len(out) > worstPenaltyHoleCap {
		out = out[:worstPenaltyHoleCap]
	}
	return out
}

func holeTrends(buckets map[int]*holeBucket) (trouble, birdie []HoleTrend) {
	for _, b := range buckets {
		if b.samples == 0 {
			continue
		}
		avg := round2(float64(b.overSum) / float64(b.samples))
		trend := HoleTrend{Hole: b.hole, Par: b.par, AvgOverPar: avg, Samples: b.samples}
		if avg > troubleHoleThreshold {
			trouble = append(trouble, trend)
		}
		if avg < birdieHoleThreshold && b.par != nil && (*b.par == 4 || *b.par == 5) {
			birdie = append(birdie, trend)
		}
	}
	sort.Slice(trouble, func(i, j int) bool {
		if trouble[i].AvgOverPar != trouble[j].AvgOverPar {
			return trouble[i].AvgOverPar > trouble[j].AvgOverPar
		}
		return trouble[i].Hole < trouble[j].Hole
	})
	sort.Slice(birdie, func(i, j int) bool {
		if birdie[i].AvgOverPar != birdie[j].AvgOverPar {
			return birdie[i].AvgOverPar < birdie[j].AvgOverPar
		}
		return birdie[i].Hole < birdie[j].Hole
	})
	return trouble, birdie
}

func pct(part, whole int) *int {
	if whole == 0 {
		return nil
	}
	v := int(math.Round(float64(part) / float64(whole) * 100))
	return &v
}

// missPct is pct for direction shares: a direction with zero observed
// misses stays nil rather than rendering as 0%.
func missPct(count, whole int) *int {
	if count == 0 {
		return nil
	}
	return pct(count, whole)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
