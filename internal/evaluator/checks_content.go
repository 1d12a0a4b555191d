package evaluator

import (
	"math"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cruisecg/SEOAnalysisTools/internal/model"
)

func contentChecks(doc *goquery.Document, snap *model.PageSnapshot, weight int) model.CheckGroup {
	items := []model.CheckItem{
		checkH1(doc),
		checkHeadingStructure(doc),
		checkWordCount(doc),
		checkImageAlts(doc),
		checkLinkProfile(doc, snap),
	}
	return newGroup("content", weight, items)
}

func checkH1(doc *goquery.Document) model.CheckItem {
	count := doc.Find("h1").Length()
	return model.CheckItem{
		ID:       "h1",
		Label:    "Exactly one H1 heading",
		Weight:   10,
		Score:    scoreIf(count == 1, 10),
		Evidence: map[string]any{"h1_count": count},
		Advice:   "Use exactly one H1 that states the page topic",
		Priority: model.PriorityHigh,
	}
}

func checkHeadingStructure(doc *goquery.Document) model.CheckItem {
	// A page that uses H2s below its H1 signals an actual content outline.
	hasH2 := doc.Find("h2").Length() > 0
	return model.CheckItem{
		ID:       "heading-structure",
		Label:    "Subheadings structure the content",
		Weight:   5,
		Score:    scoreIf(hasH2, 5),
		Advice:   "Break the content up with H2 subheadings",
		Priority: model.PriorityLow,
	}
}

func checkWordCount(doc *goquery.Document) model.CheckItem {
	body := doc.Find("body").First().Clone()
	body.Find("script, style, noscript").Remove()
	words := len(strings.Fields(body.Text()))

	score := 0
	switch {
	case words >= 300:
		score = 10
	case words >= 100:
		score = 5
	}

	return model.CheckItem{
		ID:       "word-count",
		Label:    "Sufficient textual content",
		Weight:   10,
		Score:    score,
		Evidence: map[string]any{"word_count": words},
		Advice:   "Thin pages rank poorly; aim for at least 300 words of body text",
		Priority: model.PriorityMedium,
	}
}

func checkImageAlts(doc *goquery.Document) model.CheckItem {
	total := 0
	withAlt := 0
	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		total++
		if getAttr(s, "alt") != "" {
			withAlt++
		}
	})

	// Pages without images get full credit; otherwise score tracks coverage.
	const weight = 10
	score := weight
	if total > 0 {
		score = int(math.Round(float64(withAlt) / float64(total) * weight))
	}

	return model.CheckItem{
		ID:       "img-alt",
		Label:    "Images carry alt text",
		Weight:   weight,
		Score:    score,
		Evidence: map[string]any{"images": total, "with_alt": withAlt},
		Advice:   "Add alt attributes to all content images",
		Priority: model.PriorityMedium,
	}
}

func checkLinkProfile(doc *goquery.Document, snap *model.PageSnapshot) model.CheckItem {
	var host string
	if u, err := url.Parse(snap.FinalURL); err == nil {
		host = u.Hostname()
	}

	internal := 0
	external := 0
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href := getAttr(s, "href")
		if href == "" || strings.HasPrefix(href, "#") ||
			strings.HasPrefix(strings.ToLower(href), "javascript:") ||
			strings.HasPrefix(strings.ToLower(href), "mailto:") {
			return
		}
		u, err := url.Parse(href)
		if err != nil {
			return
		}
		if u.Hostname() == "" || u.Hostname() == host {
			internal++
		} else {
			external++
		}
	})

	return model.CheckItem{
		ID:       "link-profile",
		Label:    "Page links to internal content",
		Weight:   5,
		Score:    scoreIf(internal > 0, 5),
		Evidence: map[string]any{"internal": internal, "external": external},
		Advice:   "Link to related pages on the same site",
		Priority: model.PriorityLow,
	}
}
