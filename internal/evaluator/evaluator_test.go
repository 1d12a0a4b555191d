package evaluator

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/cruisecg/SEOAnalysisTools/internal/model"
	"github.com/cruisecg/SEOAnalysisTools/internal/testutil"
)

var richPage = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>A well optimized landing page title</title>
<meta name="description" content="This description is comfortably inside the fifty to one hundred and sixty character window search engines like.">
<link rel="canonical" href="https://example.com/">
<link rel="preconnect" href="https://cdn.example.com">
<meta property="og:title" content="Landing">
<meta property="og:description" content="Preview text">
<meta property="og:image" content="https://example.com/hero.png">
<meta name="twitter:card" content="summary">
<script type="application/ld+json">{"@context":"https://schema.org","@type":"WebPage","name":"Landing"}</script>
</head>
<body>
<h1>The one heading</h1>
<h2>A subheading</h2>
<p>` + strings.Repeat("meaningful words about the topic ", 70) + `</p>
<img src="/hero.png" alt="Hero image">
<a href="/about">About us</a>
<a href="https://other.example.org/">Elsewhere</a>
</body>
</html>`

func snapshotFor(html string) *model.PageSnapshot {
	return &model.PageSnapshot{
		RequestedURL: "https://example.com/",
		FinalURL:     "https://example.com/",
		StatusCode:   http.StatusOK,
		HTML:         []byte(html),
		RobotsTxt:    []byte("User-agent: *\n"),
		SitemapXML:   []byte("<urlset/>"),
		FetchedAt:    time.Now(),
	}
}

func findItem(t *testing.T, groups []model.CheckGroup, groupName, itemID string) model.CheckItem {
	t.Helper()
	for _, g := range groups {
		if g.Name != groupName {
			continue
		}
		for _, item := range g.Items {
			if item.ID == itemID {
				return item
			}
		}
	}
	t.Fatalf("item %s/%s not found", groupName, itemID)
	return model.CheckItem{}
}

func TestEvaluate_GroupShape(t *testing.T) {
	t.Parallel()
	e := New(&testutil.DummyLogger{})

	groups, err := e.Evaluate(snapshotFor(richPage), model.DefaultWeights())
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}

	wantOrder := []string{"technical", "content", "structured_data", "performance", "social"}
	if len(groups) != len(wantOrder) {
		t.Fatalf("got %d groups", len(groups))
	}
	totalWeight := 0
	for i, g := range groups {
		if g.Name != wantOrder[i] {
			t.Errorf("group[%d] = %s, want %s", i, g.Name, wantOrder[i])
		}
		totalWeight += g.Weight

		itemSum := 0
		for _, item := range g.Items {
			if item.Score < 0 || item.Score > item.Weight {
				t.Errorf("%s/%s: score %d outside 0..%d", g.Name, item.ID, item.Score, item.Weight)
			}
			itemSum += item.Score
		}
		if g.Score != itemSum {
			t.Errorf("%s: group score %d != item sum %d", g.Name, g.Score, itemSum)
		}
	}
	if totalWeight != 100 {
		t.Errorf("group weights sum to %d, want 100", totalWeight)
	}
}

func TestEvaluate_RichPageScoresFully(t *testing.T) {
	t.Parallel()
	e := New(&testutil.DummyLogger{})

	groups, err := e.Evaluate(snapshotFor(richPage), model.DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}

	for _, probe := range []struct{ group, item string }{
		{"technical", "title"},
		{"technical", "meta-description"},
		{"technical", "https"},
		{"content", "h1"},
		{"content", "word-count"},
		{"content", "img-alt"},
		{"structured_data", "json-ld"},
		{"structured_data", "schema-types"},
		{"performance", "document-size"},
		{"social", "open-graph"},
		{"social", "twitter-card"},
	} {
		item := findItem(t, groups, probe.group, probe.item)
		if item.Score != item.Weight {
			t.Errorf("%s/%s: score %d/%d, want full marks", probe.group, probe.item, item.Score, item.Weight)
		}
	}
}

func TestEvaluate_BarePageLosesPoints(t *testing.T) {
	t.Parallel()
	e := New(&testutil.DummyLogger{})

	snap := snapshotFor("<html><head></head><body><p>short</p></body></html>")
	snap.RobotsTxt = nil
	snap.SitemapXML = nil
	snap.FinalURL = "http://example.com/"

	groups, err := e.Evaluate(snap, model.DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}

	for _, probe := range []struct{ group, item string }{
		{"technical", "title"},
		{"technical", "meta-description"},
		{"technical", "https"},
		{"technical", "robots-txt"},
		{"content", "h1"},
		{"content", "word-count"},
		{"structured_data", "json-ld"},
		{"social", "open-graph"},
	} {
		item := findItem(t, groups, probe.group, probe.item)
		if item.Score != 0 {
			t.Errorf("%s/%s: score %d, want 0", probe.group, probe.item, item.Score)
		}
	}
}

func TestEvaluate_PartialCredit(t *testing.T) {
	t.Parallel()
	e := New(&testutil.DummyLogger{})

	// Title too long for full credit, one of two images missing alt text.
	html := `<html><head><title>` + strings.Repeat("long ", 20) + `</title></head>
	<body><img src="a.png" alt="a"><img src="b.png"></body></html>`
	groups, err := e.Evaluate(snapshotFor(html), model.DefaultWeights())
	if err != nil {
		t.Fatal(err)
	}

	title := findItem(t, groups, "technical", "title")
	if title.Score != 5 {
		t.Errorf("overlong title score = %d, want 5", title.Score)
	}

	alts := findItem(t, groups, "content", "img-alt")
	if alts.Score != 5 {
		t.Errorf("half alt coverage score = %d, want 5", alts.Score)
	}
}

func TestEvaluate_WeightsFlowThrough(t *testing.T) {
	t.Parallel()
	e := New(&testutil.DummyLogger{})

	w := model.Weights{Technical: 50, Content: 20, StructuredData: 10, Performance: 10, Social: 10}
	groups, err := e.Evaluate(snapshotFor(richPage), w)
	if err != nil {
		t.Fatal(err)
	}
	if groups[0].Weight != 50 || groups[1].Weight != 20 {
		t.Errorf("weights not applied: %d/%d", groups[0].Weight, groups[1].Weight)
	}
}

func TestEvaluate_NilSnapshot(t *testing.T) {
	t.Parallel()
	e := New(&testutil.DummyLogger{})

	if _, err := e.Evaluate(nil, model.DefaultWeights()); err == nil {
		t.Fatal("expected error for nil snapshot")
	}
}
