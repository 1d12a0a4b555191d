package evaluator

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/cruisecg/SEOAnalysisTools/internal/model"
)

func socialChecks(doc *goquery.Document, weight int) model.CheckGroup {
	items := []model.CheckItem{
		checkOpenGraph(doc),
		checkTwitterCard(doc),
	}
	return newGroup("social", weight, items)
}

func checkOpenGraph(doc *goquery.Document) model.CheckItem {
	present := map[string]bool{}
	doc.Find(`head meta[property]`).Each(func(_ int, s *goquery.Selection) {
		prop := getAttr(s, "property")
		if getAttr(s, "content") != "" {
			present[prop] = true
		}
	})

	// Score tracks the three tags share previews actually need.
	required := []string{"og:title", "og:description", "og:image"}
	found := 0
	for _, tag := range required {
		if present[tag] {
			found++
		}
	}

	const weight = 9
	return model.CheckItem{
		ID:       "open-graph",
		Label:    "Open Graph tags for link previews",
		Weight:   weight,
		Score:    found * weight / len(required),
		Evidence: map[string]any{"found": found, "required": required},
		Advice:   "Add og:title, og:description and og:image meta tags",
		Priority: model.PriorityMedium,
	}
}

func checkTwitterCard(doc *goquery.Document) model.CheckItem {
	card := ""
	doc.Find(`head meta[name="twitter:card"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		card = getAttr(s, "content")
		return false
	})

	return model.CheckItem{
		ID:       "twitter-card",
		Label:    "Twitter card declared",
		Weight:   5,
		Score:    scoreIf(card != "", 5),
		Evidence: map[string]any{"card": card},
		Advice:   "Declare a twitter:card meta tag",
		Priority: model.PriorityLow,
	}
}
