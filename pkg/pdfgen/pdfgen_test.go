package pdfgen

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/caddie-api/internal/golf"
)

func fullResult() golf.AnalysisResult {
	return golf.AnalysisResult{
		Summary: "Solid ball striker held back by short-game leaks.",
		ParStrategies: golf.ParStrategies{
			ParThrees: "Aim center of green.",
			ParFours:  "Favor the left half of fairways.",
			ParFives:  "Lay up to a full-wedge number.",
		},
		ScoringAreas: []golf.ScoringArea{
			{Area: "short_game", Assessment: "Up-and-down rate well below benchmark.", Priority: 1},
		},
		TroubleHoles:  []golf.HoleNote{{Hole: 3, Note: "Club down off the tee."}},
		StrengthHoles: []golf.HoleNote{{Hole: 14, Note: "Green light with driver."}},
		HolePlans: []golf.HolePlan{
			{Hole: 1, Par: 4, Target: "left-center fairway", Club: "3-wood", Note: "Driver brings bunkers in play."},
			{Hole: 2, Par: 3, Target: "center of green", Club: "7-iron"},
		},
		PracticePlan: []golf.PracticeItem{
			{Focus: "Wedge distance control", Drill: "Clock drill at 50/75/100 yards.", Frequency: "Twice weekly"},
		},
		MentalGame:   []string{"Commit to the club before stepping in."},
		TargetStats:  golf.TargetStats{FairwayPct: golf.IntPtr(40), GIRPct: golf.IntPtr(28), PuttsPerRound: golf.FloatPtr(31.5)},
		HandicapPath: "Moving from 15 toward 10 requires 40% fairways and 31% GIR.",
	}
}

func testGolfer() Golfer {
	return Golfer{Name: "Jordan Baker", Handicap: golf.FloatPtr(15), CourseName: "Pine Hollow"}
}

func TestStrategyCardProducesPDF(t *testing.T) {
	data, err := StrategyCard(fullResult(), testGolfer())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "%PDF"))
	require.Greater(t, len(data), 1000)
}

func TestPracticePlanProducesPDF(t *testing.T) {
	data, err := PracticePlan(fullResult(), testGolfer())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "%PDF"))
	require.Greater(t, len(data), 1000)
}

func TestRenderersTolerateMinimalResult(t *testing.T) {
	minimal := golf.AnalysisResult{Summary: "Short summary."}

	strategy, err := StrategyCard(minimal, Golfer{Name: "A"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(strategy), "%PDF"))

	practice, err := PracticePlan(minimal, Golfer{Name: "A"})
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(practice), "%PDF"))
}

func TestStrategyCardPaginatesLongHolePlans(t *testing.T) {
	result := fullResult()
	result.HolePlans = nil
	for i := 1; i <= 18; i++ {
		result.HolePlans = append(result.HolePlans, golf.HolePlan{
			Hole: i, Par: 4, Target: "center", Club: "driver",
			Note: strings.Repeat("long note ", 10),
		})
	}

	data, err := StrategyCard(result, testGolfer())
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(data), "%PDF"))
}

func TestTruncate(t *testing.T) {
	require.Equal(t, "short", truncate("short", 10))
	require.Equal(t, "exactly10!", truncate("exactly10!", 10))
	out := truncate(strings.Repeat("x", 50), 10)
	require.Len(t, out, 10)
	require.True(t, strings.HasSuffix(out, "..."))
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	out := truncate(strings.Repeat("é", 50), 10)
	require.True(t, utf8.ValidString(out))
	require.Equal(t, strings.Repeat("é", 7)+"...", out)

	// Rune count, not byte count, decides whether anything is cut.
	require.Equal(t, "ééééé", truncate("ééééé", 5))
}
