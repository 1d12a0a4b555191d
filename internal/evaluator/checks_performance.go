package evaluator

import (
	"github.com/PuerkitoBio/goquery"

	"github.com/cruisecg/SEOAnalysisTools/internal/model"
)

func performanceChecks(doc *goquery.Document, snap *model.PageSnapshot, weight int) model.CheckGroup {
	items := []model.CheckItem{
		checkDocumentSize(snap),
		checkInlineScripts(doc),
		checkResourceHints(doc),
	}
	return newGroup("performance", weight, items)
}

func checkDocumentSize(snap *model.PageSnapshot) model.CheckItem {
	size := len(snap.HTML)

	score := 0
	switch {
	case size <= 100<<10: // 100 KiB
		score = 10
	case size <= 512<<10:
		score = 5
	}

	return model.CheckItem{
		ID:       "document-size",
		Label:    "HTML document is lean",
		Weight:   10,
		Score:    score,
		Evidence: map[string]any{"bytes": size},
		Advice:   "Keep the HTML payload under 100 KiB",
		Priority: model.PriorityMedium,
	}
}

func checkInlineScripts(doc *goquery.Document) model.CheckItem {
	inline := 0
	doc.Find("script").Each(func(_ int, s *goquery.Selection) {
		if getAttr(s, "src") == "" && len(s.Text()) > 0 {
			inline++
		}
	})

	return model.CheckItem{
		ID:       "inline-scripts",
		Label:    "Few inline script blocks",
		Weight:   5,
		Score:    scoreIf(inline <= 3, 5),
		Evidence: map[string]any{"inline_scripts": inline},
		Advice:   "Move large inline scripts into cacheable external files",
		Priority: model.PriorityLow,
	}
}

func checkResourceHints(doc *goquery.Document) model.CheckItem {
	hints := doc.Find(`head link[rel="preload"], head link[rel="preconnect"], head link[rel="dns-prefetch"]`).Length()
	return model.CheckItem{
		ID:       "resource-hints",
		Label:    "Resource hints declared",
		Weight:   5,
		Score:    scoreIf(hints > 0, 5),
		Evidence: map[string]any{"hints": hints},
		Advice:   "Use preload/preconnect hints for critical third-party origins",
		Priority: model.PriorityLow,
	}
}
