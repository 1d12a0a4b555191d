package evaluator

import (
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/cruisecg/SEOAnalysisTools/internal/model"
)

func technicalChecks(doc *goquery.Document, snap *model.PageSnapshot, weight int) model.CheckGroup {
	items := []model.CheckItem{
		checkStatusCode(snap),
		checkHTTPS(snap),
		checkTitle(doc),
		checkMetaDescription(doc),
		checkCanonical(doc),
		checkViewport(doc),
		checkCharset(doc),
		checkRobotsTxt(snap),
		checkSitemap(snap),
	}
	return newGroup("technical", weight, items)
}

func checkStatusCode(snap *model.PageSnapshot) model.CheckItem {
	return model.CheckItem{
		ID:       "status-code",
		Label:    "Page responds with 200 OK",
		Weight:   10,
		Score:    scoreIf(snap.StatusCode == http.StatusOK, 10),
		Evidence: map[string]any{"status_code": snap.StatusCode},
		Advice:   "Make the page return HTTP 200; error and redirect statuses hurt indexing",
		Priority: model.PriorityHigh,
	}
}

func checkHTTPS(snap *model.PageSnapshot) model.CheckItem {
	secure := strings.HasPrefix(strings.ToLower(snap.FinalURL), "https://")
	return model.CheckItem{
		ID:       "https",
		Label:    "Served over HTTPS",
		Weight:   5,
		Score:    scoreIf(secure, 5),
		Evidence: map[string]any{"final_url": snap.FinalURL},
		Advice:   "Serve the page over HTTPS",
		Priority: model.PriorityHigh,
	}
}

func checkTitle(doc *goquery.Document) model.CheckItem {
	title := strings.TrimSpace(doc.Find("head title").First().Text())
	length := len([]rune(title))

	score := 0
	switch {
	case length >= 10 && length <= 60:
		score = 10
	case length > 0:
		score = 5
	}

	return model.CheckItem{
		ID:       "title",
		Label:    "Title tag present and well-sized",
		Weight:   10,
		Score:    score,
		Evidence: map[string]any{"title": title, "length": length},
		Advice:   "Add a descriptive <title> between 10 and 60 characters",
		Priority: model.PriorityHigh,
	}
}

func checkMetaDescription(doc *goquery.Document) model.CheckItem {
	desc := ""
	doc.Find(`head meta[name="description"]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		desc = getAttr(s, "content")
		return false
	})
	length := len([]rune(desc))

	score := 0
	switch {
	case length >= 50 && length <= 160:
		score = 10
	case length > 0:
		score = 5
	}

	return model.CheckItem{
		ID:       "meta-description",
		Label:    "Meta description present and well-sized",
		Weight:   10,
		Score:    score,
		Evidence: map[string]any{"length": length},
		Advice:   "Add a meta description between 50 and 160 characters",
		Priority: model.PriorityHigh,
	}
}

func checkCanonical(doc *goquery.Document) model.CheckItem {
	href := getAttr(doc.Find(`head link[rel="canonical"]`).First(), "href")
	return model.CheckItem{
		ID:       "canonical",
		Label:    "Canonical URL declared",
		Weight:   5,
		Score:    scoreIf(href != "", 5),
		Evidence: map[string]any{"canonical": href},
		Advice:   "Declare a canonical URL to avoid duplicate-content dilution",
		Priority: model.PriorityMedium,
	}
}

func checkViewport(doc *goquery.Document) model.CheckItem {
	content := getAttr(doc.Find(`head meta[name="viewport"]`).First(), "content")
	return model.CheckItem{
		ID:       "viewport",
		Label:    "Mobile viewport configured",
		Weight:   5,
		Score:    scoreIf(content != "", 5),
		Evidence: map[string]any{"viewport": content},
		Advice:   "Add a responsive viewport meta tag",
		Priority: model.PriorityMedium,
	}
}

func checkCharset(doc *goquery.Document) model.CheckItem {
	declared := doc.Find("head meta[charset]").Length() > 0
	if !declared {
		// Legacy form: <meta http-equiv="Content-Type" content="...; charset=...">
		doc.Find(`head meta[http-equiv]`).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			if strings.EqualFold(getAttr(s, "http-equiv"), "Content-Type") &&
				strings.Contains(strings.ToLower(getAttr(s, "content")), "charset=") {
				declared = true
				return false
			}
			return true
		})
	}
	return model.CheckItem{
		ID:       "charset",
		Label:    "Character encoding declared",
		Weight:   5,
		Score:    scoreIf(declared, 5),
		Advice:   "Declare the document character encoding with <meta charset>",
		Priority: model.PriorityLow,
	}
}

func checkRobotsTxt(snap *model.PageSnapshot) model.CheckItem {
	return model.CheckItem{
		ID:       "robots-txt",
		Label:    "robots.txt reachable",
		Weight:   5,
		Score:    scoreIf(len(snap.RobotsTxt) > 0, 5),
		Advice:   "Provide a robots.txt at the site root",
		Priority: model.PriorityLow,
	}
}

func checkSitemap(snap *model.PageSnapshot) model.CheckItem {
	return model.CheckItem{
		ID:       "sitemap",
		Label:    "sitemap.xml reachable",
		Weight:   5,
		Score:    scoreIf(len(snap.SitemapXML) > 0, 5),
		Advice:   "Provide a sitemap.xml at the site root",
		Priority: model.PriorityLow,
	}
}
