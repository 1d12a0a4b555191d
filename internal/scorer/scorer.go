// Package scorer aggregates heterogeneous check-group results into a single
// comparable score. It is a pure function of its input: no I/O, no clock,
// no dependency on any other component.
package scorer

import (
	"fmt"
	"math"

	"github.com/cruisecg/SEOAnalysisTools/internal/model"
)

// Score reduces ordered check groups to an overall 0..100 score, a letter
// grade and the ordered high-priority warning list.
//
// Each group contributes score/maxScore * weight. Groups whose items carry
// zero attainable points are excluded entirely: they add to neither the
// numerator nor the denominator, so an empty category never drags the score
// to zero or divides by zero.
func Score(groups []model.CheckGroup) (int, model.Grade, []string) {
	var (
		totalWeighted float64
		totalPossible float64
		warnings      []string
	)

	for _, group := range groups {
		maxScore := group.MaxScore()
		if maxScore > 0 {
			totalWeighted += float64(group.Score) / float64(maxScore) * float64(group.Weight)
			totalPossible += float64(group.Weight)
		}

		// Warning order is a visible contract: group order as given, item
		// order within group as given.
		for _, item := range group.Items {
			if item.Priority == model.PriorityHigh && item.Score < item.Weight {
				warnings = append(warnings, fmt.Sprintf("%s: %s", group.Name, item.Advice))
			}
		}
	}

	overall := 0
	if totalPossible > 0 {
		overall = int(math.Round(totalWeighted / totalPossible * 100))
	}

	return overall, GradeFor(overall), warnings
}

// GradeFor maps an overall score to its letter band. Bounds are inclusive on
// the lower edge of each band.
func GradeFor(overall int) model.Grade {
	switch {
	case overall >= 90:
		return model.GradeA
	case overall >= 80:
		return model.GradeB
	case overall >= 70:
		return model.GradeC
	case overall >= 60:
		return model.GradeD
	default:
		return model.GradeE
	}
}
