// Package pdfgen renders analysis results into fixed-layout PDF documents:
// a strategy card and a practice plan. Layout is tracked with a running
// vertical offset; optional sections are omitted entirely when absent.
package pdfgen

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/jung-kurt/gofpdf"

	"github.com/fairwaylabs/caddie-api/internal/golf"
)

// Golfer holds the display fields printed in document headers.
type Golfer struct {
	Name       string
	Handicap   *float64
	CourseName string
}

// Fixed truncation widths per field. Constants, not computed from the
// available space.
const (
	maxSummaryLen  = 600
	maxStrategyLen = 280
	maxNoteLen     = 120
	maxTargetLen   = 60
	maxDrillLen    = 160
	maxMantraLen   = 100
)

const (
	pageWidth    = 210.0
	marginX      = 15.0
	contentWidth = pageWidth - 2*marginX
	bottomLimit  = 272.0
	lineHeight   = 5.5
)

type doc struct {
	pdf *gofpdf.Fpdf
}

func newDoc() *doc {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginX, 18, marginX)
	pdf.SetAutoPageBreak(false, 0)
	pdf.AddPage()
	return &doc{pdf: pdf}
}

func (d *doc) bytes() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func (d *doc) ensureSpace(height float64) {
	if d.pdf.GetY()+height > bottomLimit {
		d.pdf.AddPage()
	}
}

func (d *doc) header(title string, golfer Golfer) {
	d.pdf.SetFillColor(20, 83, 45)
	d.pdf.Rect(0, 0, pageWidth, 26, "F")
	d.pdf.SetTextColor(255, 255, 255)
	d.pdf.SetFont("Helvetica", "B", 18)
	d.pdf.SetXY(marginX, 7)
	d.pdf.CellFormat(contentWidth, 8, title, "", 1, "L", false, 0, "")

	sub := truncate(golfer.Name, maxTargetLen)
	if golfer.Handicap != nil {
		sub += fmt.Sprintf("  |  Handicap %.1f", *golfer.Handicap)
	}
	if golfer.CourseName != "" {
		sub += "  |  " + truncate(golfer.CourseName, maxTargetLen)
	}
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetXY(marginX, 16)
	d.pdf.CellFormat(contentWidth, 6, sub, "", 1, "L", false, 0, "")

	d.pdf.SetTextColor(30, 30, 30)
	d.pdf.SetY(32)
}

func (d *doc) sectionTitle(title string) {
	d.ensureSpace(14)
	d.pdf.SetFont("Helvetica", "B", 13)
	d.pdf.SetTextColor(20, 83, 45)
	d.pdf.SetX(marginX)
	d.pdf.CellFormat(contentWidth, 8, title, "", 1, "L", false, 0, "")
	d.pdf.SetTextColor(30, 30, 30)
	d.pdf.Ln(1)
}

func (d *doc) paragraph(text string, maxLen int) {
	if text == "" {
		return
	}
	d.ensureSpace(4 * lineHeight)
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetX(marginX)
	d.pdf.MultiCell(contentWidth, lineHeight, truncate(text, maxLen), "", "L", false)
	d.pdf.Ln(2)
}

func (d *doc) labeled(label, text string, maxLen int) {
	if text == "" {
		return
	}
	d.ensureSpace(3 * lineHeight)
	d.pdf.SetFont("Helvetica", "B", 10)
	d.pdf.SetX(marginX)
	d.pdf.CellFormat(34, lineHeight, label, "", 0, "L", false, 0, "")
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.MultiCell(contentWidth-34, lineHeight, truncate(text, maxLen), "", "L", false)
	d.pdf.Ln(1)
}

func (d *doc) bullet(text string, maxLen int) {
	if text == "" {
		return
	}
	d.ensureSpace(2 * lineHeight)
	d.pdf.SetFont("Helvetica", "", 10)
	d.pdf.SetX(marginX)
	d.pdf.CellFormat(6, lineHeight, "-", "", 0, "L", false, 0, "")
	d.pdf.MultiCell(contentWidth-6, lineHeight, truncate(text, maxLen), "", "L", false)
}

// truncate cuts on rune boundaries so multi-byte text is never split
// mid-character.
func truncate(s string, max int) string {
	if max <= 3 || utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max-3]) + "..."
}

func targetLine(t golf.TargetStats) string {
	parts := ""
	appendPart := func(p string) {
		if parts != "" {
			parts += "   "
		}
		parts += p
	}
	if t.FairwayPct != nil {
		appendPart(fmt.Sprintf("Fairways %d%%", *t.FairwayPct))
	}
	if t.GIRPct != nil {
		appendPart(fmt.Sprintf("GIR %d%%", *t.GIRPct))
	}
	if t.PuttsPerRound != nil {
		appendPart(fmt.Sprintf("Putts %.1f/round", *t.PuttsPerRound))
	}
	if t.AvgScore != nil {
		appendPart(fmt.Sprintf("Score %.1f", *t.AvgScore))
	}
	return parts
}
