package golf

import (
	"fmt"
	"strings"
)

// ResponseSchema is the JSON Schema the model's analysis reply must conform
// to. It is embedded verbatim in the prompt and compiled for strict
// validation of the reply.
const ResponseSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["summary", "par_strategies", "scoring_areas", "hole_plans", "practice_plan", "handicap_path"],
  "properties": {
    "summary": {"type": "string", "minLength": 1},
    "par_strategies": {
      "type": "object",
      "required": ["par_threes", "par_fours", "par_fives"],
      "properties": {
        "par_threes": {"type": "string"},
        "par_fours": {"type": "string"},
        "par_fives": {"type": "string"}
      }
    },
    "scoring_areas": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["area", "assessment", "priority"],
        "properties": {
          "area": {"type": "string"},
          "assessment": {"type": "string"},
          "priority": {"type": "integer", "minimum": 1}
        }
      }
    },
    "trouble_holes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["hole", "note"],
        "properties": {
          "hole": {"type": "integer", "minimum": 1, "maximum": 18},
          "note": {"type": "string"}
        }
      }
    },
    "strength_holes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["hole", "note"],
        "properties": {
          "hole": {"type": "integer", "minimum": 1, "maximum": 18},
          "note": {"type": "string"}
        }
      }
    },
    "hole_plans": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["hole", "par", "target", "club"],
        "properties": {
          "hole": {"type": "integer", "minimum": 1, "maximum": 18},
          "par": {"type": "integer", "minimum": 3, "maximum": 5},
          "target": {"type": "string"},
          "club": {"type": "string"},
          "note": {"type": "string"}
        }
      }
    },
    "practice_plan": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["focus", "drill", "frequency"],
        "properties": {
          "focus": {"type": "string"},
          "drill": {"type": "string"},
          "frequency": {"type": "string"}
        }
      }
    },
    "mental_game": {"type": "array", "items": {"type": "string"}},
    "target_stats": {
      "type": "object",
      "properties": {
        "fairway_pct": {"type": "integer"},
        "gir_pct": {"type": "integer"},
        "putts_per_round": {"type": "number"},
        "avg_score": {"type": "number"}
      }
    },
    "handicap_path": {"type": "string"}
  }
}`

// BuildAnalysisPrompt assembles the coaching request sent to the language
// model. Byte-identical output for identical input: the model call is the
// only non-deterministic step and it stays behind this boundary.
func BuildAnalysisPrompt(req AnalysisRequest) string {
	var b strings.Builder

	b.WriteString("# Golfer Profile\n")
	writeField(&b, "Name", req.Name)
	if req.Handicap != nil {
		fmt.Fprintf(&b, "Handicap index: %.1f\n", *req.Handicap)
	} else {
		b.WriteString("Handicap index: not provided\n")
	}
	writeField(&b, "Home course", req.HomeCourse)
	writeField(&b, "Self-reported miss pattern", req.MissPattern)
	writeField(&b, "Self-reported strengths", req.Strengths)

	if req.Layout != nil && len(req.Layout.Holes) > 0 {
		writeLayoutSection(&b, req.Layout)
	}

	if req.Stats != nil && req.Stats.HasMetrics() {
		writeStatsSection(&b, req.Stats)
	} else {
		b.WriteString("\n# Performance Analytics\n")
		b.WriteString("No measured statistics are available for this golfer. ")
		b.WriteString("Base your shot-pattern advice on the self-reported miss pattern above.\n")
	}

	if len(req.Rounds) > 0 {
		writeRoundsSection(&b, req.Rounds)
	}

	writeTaskSection(&b, req.Handicap)

	return b.String()
}

func writeField(b *strings.Builder, label, value string) {
	if strings.TrimSpace(value) == "" {
		value = "not provided"
	}
	fmt.Fprintf(b, "%s: %s\n", label, strings.TrimSpace(value))
}

func writeLayoutSection(b *strings.Builder, layout *CourseLayout) {
	b.WriteString("\n# Course Layout")
	if layout.CourseName != "" {
		fmt.Fprintf(b, " — %s", layout.CourseName)
	}
	b.WriteString("\n")
	if layout.Source == LayoutSourceDatabase {
		b.WriteString("Source: authoritative course database.\n")
	} else {
		b.WriteString("Source: reconstructed from the golfer's score history; treat par and yardage as best-effort.\n")
	}
	for _, h := range layout.Holes {
		fmt.Fprintf(b, "Hole %d:", h.Number)
		if h.Par != nil {
			fmt.Fprintf(b, " par %d", *h.Par)
		} else {
			b.WriteString(" par unknown")
		}
		if h.Yardage != nil {
			fmt.Fprintf(b, ", %d yds", *h.Yardage)
		}
		if h.AvgScore != nil {
			fmt.Fprintf(b, ", avg score %.2f over %d rounds", *h.AvgScore, h.Samples)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(b, "Totals: par %d over %d holes with known par", layout.TotalPar, layout.HolesWithPar)
	if layout.HolesWithYardage > 0 {
		fmt.Fprintf(b, ", %d yds over %d holes with known yardage", layout.TotalYardage, layout.HolesWithYardage)
	}
	b.WriteString(".\n")
}

func writeStatsSection(b *strings.Builder, s *AggregateStats) {
	b.WriteString("\n# Performance Analytics\n")
	fmt.Fprintf(b, "Rounds analyzed: %d (%d with hole-by-hole detail).\n", s.RoundsAnalyzed, s.RoundsWithHoleDetail)
	if s.AvgScore != nil {
		fmt.Fprintf(b, "Average score: %.2f.\n", *s.AvgScore)
	}
	if s.AvgDifferential != nil {
		fmt.Fprintf(b, "Average differential: %.2f.\n", *s.AvgDifferential)
	}

	// Hole-derived lines only when hole detail was actually recorded;
	// round-level averages above stand on their own.
	if !s.HasHoleMetrics() {
		return
	}

	d := s.Scoring
	fmt.Fprintf(b, "Scoring distribution: %d eagles, %d birdies, %d pars, %d bogeys, %d doubles, %d triples, %d worse.\n",
		d.Eagles, d.Birdies, d.Pars, d.Bogeys, d.Doubles, d.Triples, d.Worse)

	writeParTypeLine(b, "Par 3s", s.ParThrees)
	writeParTypeLine(b, "Par 4s", s.ParFours)
	writeParTypeLine(b, "Par 5s", s.ParFives)

	if s.GIRPct != nil {
		fmt.Fprintf(b, "Greens in regulation: %d%% overall.\n", *s.GIRPct)
	}
	writeMissLine(b, "Green misses", s.GreenMisses)
	writeMissLine(b, "Fairway misses", s.FairwayMisses)

	if s.PuttsPerGIRHole != nil {
		fmt.Fprintf(b, "Putts per hole when on in regulation: %.2f.\n", *s.PuttsPerGIRHole)
	}
	if s.PuttsPerMissedGIR != nil {
		fmt.Fprintf(b, "Putts per hole after a missed green: %.2f.\n", *s.PuttsPerMissedGIR)
	}
	if s.UpAndDownPct != nil {
		fmt.Fprintf(b, "Up-and-down rate: %d%%.\n", *s.UpAndDownPct)
	}
	if s.SandSavePct != nil {
		fmt.Fprintf(b, "Sand-save rate: %d%%.\n", *s.SandSavePct)
	}
	if s.AvgPenaltiesPerRnd != nil {
		fmt.Fprintf(b, "Average penalty strokes per round: %.2f.\n", *s.AvgPenaltiesPerRnd)
	}
	for _, p := range s.WorstPenaltyHoles {
		fmt.Fprintf(b, "Penalty hotspot: hole %d, %d total penalty strokes.\n", p.Hole, p.Strokes)
	}
	for _, t := range s.TroubleHoles {
		fmt.Fprintf(b, "Trouble hole %d: averaging %+.2f against par over %d plays.\n", t.Hole, t.AvgOverPar, t.Samples)
	}
	for _, t := range s.BirdieHoles {
		fmt.Fprintf(b, "Birdie opportunity hole %d: averaging %+.2f against par over %d plays.\n", t.Hole, t.AvgOverPar, t.Samples)
	}
}

func writeParTypeLine(b *strings.Builder, label string, pt ParTypeStats) {
	if pt.Count == 0 {
		return
	}
	fmt.Fprintf(b, "%s: %d holes, avg %.2f", label, pt.Count, *pt.AvgScore)
	fmt.Fprintf(b, " (%+.2f vs par)", *pt.AvgOverPar)
	if pt.GIRPct != nil {
		fmt.Fprintf(b, ", GIR %d%%", *pt.GIRPct)
	}
	b.WriteString(".\n")
}

func writeMissLine(b *strings.Builder, label string, d DirectionPct) {
	parts := make([]string, 0, 4)
	if d.Left != nil {
		parts = append(parts, fmt.Sprintf("%d%% left", *d.Left))
	}
	if d.Right != nil {
		parts = append(parts, fmt.Sprintf("%d%% right", *d.Right))
	}
	if d.Short != nil {
		parts = append(parts, fmt.Sprintf("%d%% short", *d.Short))
	}
	if d.Long != nil {
		parts = append(parts, fmt.Sprintf("%d%% long", *d.Long))
	}
	if len(parts) == 0 {
		return
	}
	fmt.Fprintf(b, "%s (share of observed misses): %s.\n", label, strings.Join(parts, ", "))
}

func writeRoundsSection(b *strings.Builder, rounds []Round) {
	b.WriteString("\n# Recent Rounds\n")
	for _, r := range rounds {
		fmt.Fprintf(b, "%s", r.Date.Format("2006-01-02"))
		if r.CourseName != "" {
			fmt.Fprintf(b, " at %s", r.CourseName)
		}
		if r.TotalScore != nil {
			fmt.Fprintf(b, ": %d", *r.TotalScore)
		} else {
			b.WriteString(": score not recorded")
		}
		if r.Differential != nil {
			fmt.Fprintf(b, " (differential %.1f)", *r.Differential)
		}
		if r.TeeSet != "" {
			fmt.Fprintf(b, ", %s tees", r.TeeSet)
		}
		if r.HasHoleDetail() {
			fmt.Fprintf(b, ", %d holes detailed", len(r.Holes))
		}
		b.WriteString("\n")
	}
}

func writeTaskSection(b *strings.Builder, handicap *float64) {
	b.WriteString("\n# Task\n")
	b.WriteString("Act as an experienced golf coach. Produce a personalized strategy and practice plan for this golfer.\n")
	b.WriteString("Rules:\n")
	b.WriteString("- When measured statistics and self-reported tendencies disagree, trust the measured statistics.\n")
	b.WriteString("- If no course layout section is present above, return \"hole_plans\" as an empty list. Never invent holes, pars, or yardages.\n")
	b.WriteString("- Ground all handicap-improvement guidance in the benchmark table below.\n")

	b.WriteString("\n# Benchmark Table (typical stats by handicap)\n")
	for _, row := range Benchmarks() {
		fmt.Fprintf(b, "Handicap %d: avg score %.0f, %d%% fairways, %d%% GIR, %.0f putts/round, %d%% up-and-down.\n",
			row.Handicap, row.AvgScore, row.FairwayPct, row.GIRPct, row.PuttsPerRound, row.UpAndDownPct)
	}
	if handicap != nil {
		current := BenchmarkFor(*handicap)
		next := NextBenchmark(*handicap)
		fmt.Fprintf(b, "This golfer plays nearest the %d-handicap row (%d%% fairways, %d%% GIR). The next milestone is the %d-handicap row (%d%% fairways, %d%% GIR).\n",
			current.Handicap, current.FairwayPct, current.GIRPct, next.Handicap, next.FairwayPct, next.GIRPct)
	}

	b.WriteString("\nRespond with a single JSON object conforming exactly to this schema:\n")
	b.WriteString(ResponseSchema)
	b.WriteString("\n")
}

// BuildCourseStrategyPrompt assembles the single-call prompt for a
// course-specific strategy request. Deterministic like BuildAnalysisPrompt.
func BuildCourseStrategyPrompt(courseName, teeSet, notes string, handicap *float64, hasScorecard bool) string {
	var b strings.Builder
	b.WriteString("# Course Strategy Request\n")
	writeField(&b, "Course", courseName)
	writeField(&b, "Tees", teeSet)
	if handicap != nil {
		fmt.Fprintf(&b, "Handicap index: %.1f\n", *handicap)
	} else {
		b.WriteString("Handicap index: not provided\n")
	}
	writeField(&b, "Notes", notes)
	if hasScorecard {
		b.WriteString("\nA scorecard image for this course is attached. Read hole numbers, pars and yardages from it; ignore anything illegible rather than guessing.\n")
	}
	b.WriteString("\nAct as an experienced golf coach. Produce a course-management strategy for this course as a single JSON object with the keys ")
	b.WriteString(`"overview" (string), "key_holes" (array of {hole, advice}), "club_selection" (string), and "scoring_targets" (string).`)
	b.WriteString(" Only describe holes you can actually see on the scorecard; with no scorecard, keep \"key_holes\" empty.\n")
	return b.String()
}
