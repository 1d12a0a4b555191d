package evaluator

import (
	"encoding/json"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cruisecg/SEOAnalysisTools/internal/model"
)

func structuredDataChecks(doc *goquery.Document, weight int) model.CheckGroup {
	blocks, types := collectJSONLD(doc)

	items := []model.CheckItem{
		{
			ID:       "json-ld",
			Label:    "JSON-LD structured data present",
			Weight:   10,
			Score:    scoreIf(blocks > 0, 10),
			Evidence: map[string]any{"blocks": blocks},
			Advice:   "Embed JSON-LD structured data describing the page",
			Priority: model.PriorityMedium,
		},
		{
			ID:       "schema-types",
			Label:    "Structured data declares schema.org types",
			Weight:   5,
			Score:    scoreIf(len(types) > 0, 5),
			Evidence: map[string]any{"types": types},
			Advice:   "Give each JSON-LD block an @type from schema.org",
			Priority: model.PriorityLow,
		},
	}
	return newGroup("structured_data", weight, items)
}

// collectJSONLD counts ld+json script blocks and gathers the @type values of
// those that parse. Malformed blocks still count as present; they just
// contribute no types.
func collectJSONLD(doc *goquery.Document) (blocks int, types []string) {
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, s *goquery.Selection) {
		blocks++

		var payload map[string]any
		if err := json.Unmarshal([]byte(s.Text()), &payload); err != nil {
			return
		}
		switch v := payload["@type"].(type) {
		case string:
			if t := strings.TrimSpace(v); t != "" {
				types = append(types, t)
			}
		case []any:
			for _, entry := range v {
				if t, ok := entry.(string); ok && strings.TrimSpace(t) != "" {
					types = append(types, strings.TrimSpace(t))
				}
			}
		}
	})
	return blocks, types
}
