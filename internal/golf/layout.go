package golf

import (
	"sort"
	"strings"
)

// LayoutSource tags where a course layout came from.
type LayoutSource string

const (
	// LayoutSourceDatabase marks a layout taken from an authoritative
	// course database.
	LayoutSourceDatabase LayoutSource = "course_database"
	// LayoutSourceHistory marks a layout reconstructed from score history.
	LayoutSourceHistory LayoutSource = "score_history"
)

// LayoutHole is the best-effort view of one hole on a course.
type LayoutHole struct {
	Number   int      `json:"number"`
	Par      *int     `json:"par,omitempty"`
	Yardage  *int     `json:"yardage,omitempty"`
	AvgScore *float64 `json:"avg_score,omitempty"`
	Samples  int      `json:"samples"`
}

// CourseLayout is a hole-by-hole course description plus totals.
type CourseLayout struct {
	CourseName       string       `json:"course_name"`
	Source           LayoutSource `json:"source"`
	Holes            []LayoutHole `json:"holes"`
	TotalPar         int          `json:"total_par"`
	TotalYardage     int          `json:"total_yardage"`
	HolesWithPar     int          `json:"holes_with_par"`
	HolesWithYardage int          `json:"holes_with_yardage"`
}

// ExtractLayout reconstructs a course layout from round history. When
// courseName is non-empty only rounds on that course qualify. Returns false
// when no qualifying round carries hole detail; callers must treat that as
// "no layout", never substitute invented holes.
func ExtractLayout(courseName string, rounds []Round) (CourseLayout, bool) {
	type acc struct {
		par      *int
		yardage  *int
		scoreSum int
		samples  int
	}
	byHole := map[int]*acc{}
	name := strings.TrimSpace(courseName)

	for _, r := range rounds {
		if name != "" && !strings.EqualFold(strings.TrimSpace(r.CourseName), name) {
			continue
		}
		if name == "" && r.CourseName != "" {
			name = strings.TrimSpace(r.CourseName)
		}
		for _, h := range r.Holes {
			a := byHole[h.Number]
			if a == nil {
				a = &acc{}
				byHole[h.Number] = a
			}
			// Last write wins for par and yardage: they should be stable
			// across rounds, but data-entry errors exist and the most
			// recent observation is the best guess.
			if h.Par != nil {
				a.par = h.Par
			}
			if h.Yardage != nil {
				a.yardage = h.Yardage
			}
			if h.Score != nil {
				a.scoreSum += *h.Score
				a.samples++
			}
		}
	}

	if len(byHole) == 0 {
		return CourseLayout{}, false
	}

	layout := CourseLayout{CourseName: name, Source: LayoutSourceHistory}
	for number, a := range byHole {
		hole := LayoutHole{Number: number, Par: a.par, Yardage: a.yardage, Samples: a.samples}
		if a.samples > 0 {
			hole.AvgScore = FloatPtr(round2(float64(a.scoreSum) / float64(a.samples)))
		}
		if a.par != nil {
			layout.TotalPar += *a.par
			layout.HolesWithPar++
		}
		if a.yardage != nil {
			layout.TotalYardage += *a.yardage
			layout.HolesWithYardage++
		}
		layout.Holes = append(layout.Holes, hole)
	}
	sort.Slice(layout.Holes, func(i, j int) bool {
		return layout.Holes[i].Number < layout.Holes[j].Number
	})

	return layout, true
}
