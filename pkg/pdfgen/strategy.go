package pdfgen

import (
	"fmt"

	"github.com/fairwaylabs/caddie-api/internal/golf"
)

// StrategyCard renders the on-course strategy document.
func StrategyCard(result golf.AnalysisResult, golfer Golfer) ([]byte, error) {
	d := newDoc()
	d.header("Course Strategy Card", golfer)

	d.sectionTitle("Game Overview")
	d.paragraph(result.Summary, maxSummaryLen)

	d.sectionTitle("Strategy by Par")
	d.labeled("Par 3s", result.ParStrategies.ParThrees, maxStrategyLen)
	d.labeled("Par 4s", result.ParStrategies.ParFours, maxStrategyLen)
	d.labeled("Par 5s", result.ParStrategies.ParFives, maxStrategyLen)

	if len(result.TroubleHoles) > 0 {
		d.sectionTitle("Trouble Holes")
		for _, h := range result.TroubleHoles {
			d.bullet(fmt.Sprintf("Hole %d: %s", h.Hole, h.Note), maxNoteLen)
		}
		d.pdf.Ln(2)
	}

	if len(result.StrengthHoles) > 0 {
		d.sectionTitle("Scoring Holes")
		for _, h := range result.StrengthHoles {
			d.bullet(fmt.Sprintf("Hole %d: %s", h.Hole, h.Note), maxNoteLen)
		}
		d.pdf.Ln(2)
	}

	if len(result.HolePlans) > 0 {
		d.sectionTitle("Hole-by-Hole Plan")
		writeHolePlanTable(d, result.HolePlans)
	}

	if line := targetLine(result.TargetStats); line != "" {
		d.sectionTitle("Target Stats")
		d.paragraph(line, maxStrategyLen)
	}

	if result.HandicapPath != "" {
		d.sectionTitle("Path to a Lower Handicap")
		d.paragraph(result.HandicapPath, maxSummaryLen)
	}

	return d.bytes()
}

func writeHolePlanTable(d *doc, plans []golf.HolePlan) {
	const (
		colHole   = 14.0
		colPar    = 12.0
		colClub   = 28.0
		colTarget = 56.0
	)
	colNote := contentWidth - colHole - colPar - colClub - colTarget

	writeHeaderRow := func() {
		d.pdf.SetFont("Helvetica", "B", 9)
		d.pdf.SetFillColor(228, 238, 228)
		d.pdf.SetX(marginX)
		d.pdf.CellFormat(colHole, 6, "Hole", "1", 0, "C", true, 0, "")
		d.pdf.CellFormat(colPar, 6, "Par", "1", 0, "C", true, 0, "")
		d.pdf.CellFormat(colClub, 6, "Club", "1", 0, "L", true, 0, "")
		d.pdf.CellFormat(colTarget, 6, "Target", "1", 0, "L", true, 0, "")
		d.pdf.CellFormat(colNote, 6, "Note", "1", 1, "L", true, 0, "")
	}

	d.ensureSpace(6 * 8)
	writeHeaderRow()
	d.pdf.SetFont("Helvetica", "", 9)
	for _, p := range plans {
		if d.pdf.GetY()+6 > bottomLimit {
			d.pdf.AddPage()
			writeHeaderRow()
			d.pdf.SetFont("Helvetica", "", 9)
		}
		d.pdf.SetX(marginX)
		d.pdf.CellFormat(colHole, 6, fmt.Sprintf("%d", p.Hole), "1", 0, "C", false, 0, "")
		d.pdf.CellFormat(colPar, 6, fmt.Sprintf("%d", p.Par), "1", 0, "C", false, 0, "")
		d.pdf.CellFormat(colClub, 6, truncate(p.Club, 18), "1", 0, "L", false, 0, "")
		d.pdf.CellFormat(colTarget, 6, truncate(p.Target, 38), "1", 0, "L", false, 0, "")
		d.pdf.CellFormat(colNote, 6, truncate(p.Note, 52), "1", 1, "L", false, 0, "")
	}
	d.pdf.Ln(2)
}
