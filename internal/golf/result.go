package golf

// ParStrategies carries the model's per-par-type playing strategy.
type ParStrategies struct {
	ParThrees string `json:"par_threes"`
	ParFours  string `json:"par_fours"`
	ParFives  string `json:"par_fives"`
}

// ScoringArea is the model's assessment of one scoring area.
type ScoringArea struct {
	Area       string `json:"area"`
	Assessment string `json:"assessment"`
	Priority   int    `json:"priority"`
}

// HoleNote attaches advice to a specific hole number.
type HoleNote struct {
	Hole int    `json:"hole"`
	Note string `json:"note"`
}

// HolePlan is one entry of the hole-by-hole game plan. Present only when a
// course layout was available; the model is instructed to return an empty
// list rather than invent holes.
type HolePlan struct {
	Hole   int    `json:"hole"`
	Par    int    `json:"par"`
	Target string `json:"target"`
	Club   string `json:"club"`
	Note   string `json:"note,omitempty"`
}

// PracticeItem is one entry of the practice plan.
type PracticeItem struct {
	Focus     string `json:"focus"`
	Drill     string `json:"drill"`
	Frequency string `json:"frequency"`
}

// TargetStats are the measurable goals the model sets for the golfer.
type TargetStats struct {
	FairwayPct    *int     `json:"fairway_pct,omitempty"`
	GIRPct        *int     `json:"gir_pct,omitempty"`
	PuttsPerRound *float64 `json:"putts_per_round,omitempty"`
	AvgScore      *float64 `json:"avg_score,omitempty"`
}

// AnalysisResult is the structured coaching reply from the language model.
// Persisted verbatim as one JSON document; never partially updated.
type AnalysisResult struct {
	Summary       string         `json:"summary"`
	ParStrategies ParStrategies  `json:"par_strategies"`
	ScoringAreas  []ScoringArea  `json:"scoring_areas"`
	TroubleHoles  []HoleNote     `json:"trouble_holes"`
	StrengthHoles []HoleNote     `json:"strength_holes"`
	HolePlans     []HolePlan     `json:"hole_plans"`
	PracticePlan  []PracticeItem `json:"practice_plan"`
	MentalGame    []string       `json:"mental_game"`
	TargetStats   TargetStats    `json:"target_stats"`
	HandicapPath  string         `json:"handicap_path"`
}

// AnalysisRequest bundles everything the prompt assembler needs for one
// analysis. Transient; exists only for the duration of one request.
type AnalysisRequest struct {
	Name        string
	Handicap    *float64
	HomeCourse  string
	MissPattern string
	Strengths   string
	Rounds      []Round
	Layout      *CourseLayout
	Stats       *AggregateStats
}
