package pdfgen

import (
	"fmt"

	"github.com/fairwaylabs/caddie-api/internal/golf"
)

// PracticePlan renders the practice-plan document.
func PracticePlan(result golf.AnalysisResult, golfer Golfer) ([]byte, error) {
	d := newDoc()
	d.header("Practice Plan", golfer)

	d.sectionTitle("Coach's Summary")
	d.paragraph(result.Summary, maxSummaryLen)

	if len(result.ScoringAreas) > 0 {
		d.sectionTitle("Priority Areas")
		for _, a := range result.ScoringAreas {
			d.labeled(fmt.Sprintf("#%d %s", a.Priority, truncate(a.Area, 24)), a.Assessment, maxStrategyLen)
		}
	}

	if len(result.PracticePlan) > 0 {
		d.sectionTitle("Practice Schedule")
		for _, item := range result.PracticePlan {
			d.ensureSpace(3 * lineHeight)
			d.pdf.SetFont("Helvetica", "B", 10)
			d.pdf.SetX(marginX)
			d.pdf.CellFormat(contentWidth, lineHeight, truncate(item.Focus, maxTargetLen), "", 1, "L", false, 0, "")
			d.pdf.SetFont("Helvetica", "", 10)
			d.pdf.SetX(marginX)
			d.pdf.MultiCell(contentWidth, lineHeight, truncate(item.Drill, maxDrillLen), "", "L", false)
			d.pdf.SetFont("Helvetica", "I", 9)
			d.pdf.SetX(marginX)
			d.pdf.CellFormat(contentWidth, lineHeight, truncate(item.Frequency, maxTargetLen), "", 1, "L", false, 0, "")
			d.pdf.Ln(2)
		}
	}

	if len(result.MentalGame) > 0 {
		d.sectionTitle("Mental Game")
		for _, mantra := range result.MentalGame {
			d.bullet(mantra, maxMantraLen)
		}
		d.pdf.Ln(2)
	}

	if line := targetLine(result.TargetStats); line != "" {
		d.sectionTitle("Targets to Track")
		d.paragraph(line, maxStrategyLen)
	}

	if result.HandicapPath != "" {
		d.sectionTitle("Handicap Goal")
		d.paragraph(result.HandicapPath, maxSummaryLen)
	}

	return d.bytes()
}
