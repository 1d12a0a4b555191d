// Package evaluator runs the SEO rule checks against a fetched page snapshot
// and produces the ordered check groups the scorer aggregates. It performs no
// network I/O: everything it inspects is already in the snapshot.
package evaluator

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cruisecg/SEOAnalysisTools/internal/logging"
	"github.com/cruisecg/SEOAnalysisTools/internal/model"
)

type Evaluator struct {
	logger logging.Logger
}

func New(logger logging.Logger) *Evaluator {
	return &Evaluator{
		logger: logger.With(logging.Field{Key: "component", Value: "evaluator"}),
	}
}

// Evaluate inspects the snapshot and returns the five check groups in their
// canonical order. Group weights come from the caller's weights snapshot, so
// a concurrent weight update never affects an in-flight evaluation.
func (e *Evaluator) Evaluate(snap *model.PageSnapshot, weights model.Weights) ([]model.CheckGroup, error) {
	if snap == nil {
		return nil, fmt.Errorf("nil snapshot")
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(snap.HTML))
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	groups := []model.CheckGroup{
		technicalChecks(doc, snap, weights.Technical),
		contentChecks(doc, snap, weights.Content),
		structuredDataChecks(doc, weights.StructuredData),
		performanceChecks(doc, snap, weights.Performance),
		socialChecks(doc, weights.Social),
	}
	return groups, nil
}

// newGroup assembles a group and derives its score from the item scores, so
// the group invariant (score == sum of item scores) holds by construction.
func newGroup(name string, weight int, items []model.CheckItem) model.CheckGroup {
	score := 0
	for _, item := range items {
		score += item.Score
	}
	return model.CheckGroup{Name: name, Weight: weight, Score: score, Items: items}
}

func getAttr(sel *goquery.Selection, name string) string {
	v, _ := sel.Attr(name)
	return strings.TrimSpace(v)
}

// scoreIf awards the full weight when cond holds, zero otherwise.
func scoreIf(cond bool, weight int) int {
	if cond {
		return weight
	}
	return 0
}
