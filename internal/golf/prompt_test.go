package golf

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func samplePromptRequest() AnalysisRequest {
	rounds := []Round{
		detailedRound("Pine Hollow", []Hole{
			{Number: 1, Par: IntPtr(4), Yardage: IntPtr(390), Score: IntPtr(5), Fairway: FairwayMissLeft, GIR: BoolPtr(false), GreenMiss: GreenMissShort, Putts: IntPtr(2)},
			{Number: 2, Par: IntPtr(3), Yardage: IntPtr(155), Score: IntPtr(3), GIR: BoolPtr(true), Putts: IntPtr(2)},
		}),
	}
	stats := Aggregate(rounds)
	layout, _ := ExtractLayout("Pine Hollow", rounds)
	return AnalysisRequest{
		Name:        "Jordan Baker",
		Handicap:    FloatPtr(15),
		HomeCourse:  "Pine Hollow",
		MissPattern: "slice off the tee",
		Strengths:   "putting",
		Rounds:      rounds,
		Layout:      &layout,
		Stats:       &stats,
	}
}

func TestBuildAnalysisPromptDeterministic(t *testing.T) {
	req := samplePromptRequest()
	first := BuildAnalysisPrompt(req)
	second := BuildAnalysisPrompt(req)
	require.Equal(t, first, second)
	require.NotEmpty(t, first)
}

func TestBuildAnalysisPromptBenchmarkRowVerbatim(t *testing.T) {
	prompt := BuildAnalysisPrompt(samplePromptRequest())
	require.Contains(t, prompt, "35% fairways, 22% GIR")
	require.Contains(t, prompt, "the 15-handicap row")
}

func TestBuildAnalysisPromptSectionsPresent(t *testing.T) {
	prompt := BuildAnalysisPrompt(samplePromptRequest())
	require.Contains(t, prompt, "# Golfer Profile")
	require.Contains(t, prompt, "# Course Layout — Pine Hollow")
	require.Contains(t, prompt, "reconstructed from the golfer's score history")
	require.Contains(t, prompt, "# Performance Analytics")
	require.Contains(t, prompt, "# Recent Rounds")
	require.Contains(t, prompt, "# Benchmark Table")
	require.Contains(t, prompt, ResponseSchema)
}

func TestBuildAnalysisPromptNoDataPlaceholder(t *testing.T) {
	req := AnalysisRequest{Name: "Jordan Baker", MissPattern: "hook"}
	prompt := BuildAnalysisPrompt(req)

	require.Contains(t, prompt, "No measured statistics are available")
	require.Contains(t, prompt, "self-reported miss pattern")
	require.NotContains(t, prompt, "# Course Layout")
	require.NotContains(t, prompt, "# Recent Rounds")
	// The no-layout policy line must always instruct an empty hole plan.
	require.Contains(t, prompt, `return "hole_plans" as an empty list`)
}

func TestBuildAnalysisPromptScoreOnlyRounds(t *testing.T) {
	rounds := []Round{
		{CourseName: "Pine Hollow", TotalScore: IntPtr(85), Differential: FloatPtr(12.1)},
		{CourseName: "Pine Hollow", TotalScore: IntPtr(88), Differential: FloatPtr(14.3)},
	}
	stats := Aggregate(rounds)
	prompt := BuildAnalysisPrompt(AnalysisRequest{Name: "Jordan Baker", Rounds: rounds, Stats: &stats})

	require.Contains(t, prompt, "# Performance Analytics")
	require.Contains(t, prompt, "Average score: 86.50.")
	require.Contains(t, prompt, "Average differential: 13.20.")
	require.NotContains(t, prompt, "No measured statistics are available")
	// No hole detail was recorded, so hole-derived lines stay out.
	require.NotContains(t, prompt, "Scoring distribution:")
	require.NotContains(t, prompt, "Fairway misses")
}

func TestBuildAnalysisPromptLayoutRequiresHoles(t *testing.T) {
	req := samplePromptRequest()
	req.Layout = &CourseLayout{CourseName: "Pine Hollow", Source: LayoutSourceHistory}
	prompt := BuildAnalysisPrompt(req)
	require.NotContains(t, prompt, "# Course Layout")
}

func TestBuildAnalysisPromptAuthoritativeProvenance(t *testing.T) {
	req := samplePromptRequest()
	req.Layout.Source = LayoutSourceDatabase
	prompt := BuildAnalysisPrompt(req)
	require.Contains(t, prompt, "authoritative course database")
}

func TestBuildCourseStrategyPromptDeterministic(t *testing.T) {
	first := BuildCourseStrategyPrompt("Ocean Links", "blue", "windy in the afternoon", FloatPtr(12.4), true)
	second := BuildCourseStrategyPrompt("Ocean Links", "blue", "windy in the afternoon", FloatPtr(12.4), true)
	require.Equal(t, first, second)
	require.Contains(t, first, "scorecard image for this course is attached")

	noCard := BuildCourseStrategyPrompt("Ocean Links", "", "", nil, false)
	require.NotContains(t, noCard, "attached")
	require.Contains(t, noCard, `keep "key_holes" empty`)
}

func TestBenchmarkForNearestRow(t *testing.T) {
	require.Equal(t, 15, BenchmarkFor(15).Handicap)
	require.Equal(t, 15, BenchmarkFor(16.9).Handicap)
	require.Equal(t, 25, BenchmarkFor(31).Handicap)
	require.Equal(t, 0, BenchmarkFor(-2).Handicap)
	require.Equal(t, 10, NextBenchmark(15).Handicap)
	require.Equal(t, 0, NextBenchmark(0).Handicap)
}

func TestResponseSchemaIsWellFormed(t *testing.T) {
	require.True(t, strings.HasPrefix(strings.TrimSpace(ResponseSchema), "{"))
	require.Contains(t, ResponseSchema, `"hole_plans"`)
	require.Contains(t, ResponseSchema, `"practice_plan"`)
}
