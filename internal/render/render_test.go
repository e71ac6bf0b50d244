package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/consts"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/verdict"
)

// A buffer has no colour support, so output is plain text.
func plain() *Renderer {
	return New(&bytes.Buffer{}, Options{})
}

func TestBadge(t *testing.T) {
	t.Parallel()
	r := plain()

	assert.Equal(t, "[PARTIALLY TRUE]", r.Badge(verdict.Normalize("partially true")))
	assert.Equal(t, "[AI GENERATED]", r.Badge(verdict.AIGenerated))
}

func TestBar(t *testing.T) {
	t.Parallel()

	assert.Equal(t, strings.Repeat("█", 10)+strings.Repeat("░", 10), Bar(50))
	assert.Equal(t, strings.Repeat("░", 20), Bar(-3))
	assert.Equal(t, strings.Repeat("█", 20), Bar(250))
}

func TestSanitize(t *testing.T) {
	t.Parallel()
	r := plain()

	assert.Equal(t, "Tom & Jerry", r.Sanitize("<script>alert(1)</script><b>Tom</b> & Jerry"))
	assert.Equal(t, "a < b", r.Sanitize("a < b"))
}

func TestAnalysisSections(t *testing.T) {
	t.Parallel()
	r := plain()

	out := r.Analysis("- **Verdict**: Likely true\nSome detail\n- **Sources**: see below")
	assert.Equal(t, "Verdict\n  Likely true\n  Some detail\n\nSources\n  see below", out)
}

func TestAnalysisFallback(t *testing.T) {
	t.Parallel()
	r := plain()

	assert.Equal(t, "  no structure here\n  at all", r.Analysis("no structure here\nat all"))
	assert.Empty(t, r.Analysis("   "))
}

func TestFactCheck(t *testing.T) {
	t.Parallel()
	r := plain()

	resp := &structs.FactCheckResponse{FactCheckResult: structs.FactCheckResult{
		Claim:                 "The moon is cheese",
		Analysis:              "- **Verdict**: False\n- **Explanation**: It is rock.",
		Sources:               []structs.Source{{Title: "NASA", URL: "https://nasa.gov"}, {URL: "https://esa.int"}},
		ConfidenceScore:       92,
		ConfidenceExplanation: "Strong consensus",
	}}

	out := r.FactCheck(resp)
	assert.True(t, strings.HasPrefix(out, "[FALSE] The moon is cheese"))
	assert.Contains(t, out, "92%")
	assert.Contains(t, out, "Strong consensus")
	assert.Contains(t, out, "Explanation\n  It is rock.")
	assert.Contains(t, out, "1. NASA\n     https://nasa.gov")
	assert.Contains(t, out, "2. https://esa.int")

	assert.Equal(t, noResult, r.FactCheck(&structs.FactCheckResponse{}))
}

func TestBatchNumbersClaims(t *testing.T) {
	t.Parallel()
	r := plain()

	out := r.Batch(&structs.BatchResponse{Results: []structs.FactCheckResult{
		{Claim: "a", Verdict: "TRUE"},
		{Claim: "b", Verdict: "nonsense"},
	}})
	assert.Contains(t, out, "Claim 1 of 2")
	assert.Contains(t, out, "[TRUE] a")
	assert.Contains(t, out, "[UNVERIFIABLE] b")
}

func TestMedia(t *testing.T) {
	t.Parallel()
	r := plain()

	out := r.Media(&structs.MediaAuthenticity{
		Analysis:              "**Verdict**: AI-generated\n**Evidence**: smooth skin",
		ConfidenceScore:       70,
		PotentialImplications: "Could mislead voters",
	})
	assert.True(t, strings.HasPrefix(out, "[AI GENERATED]"))
	assert.Contains(t, out, "Potential Implications\n  Could mislead voters")
}

func TestURLSafety(t *testing.T) {
	t.Parallel()
	r := plain()

	out := r.URLSafety(&structs.URLSafety{
		URL:             "https://phish.example",
		RiskAnalysis:    "- **Overall Safety Verdict**: Risky\n- **Risk Level**: High",
		Recommendations: "Do not log in\n\n- Report the site",
		Confidence:      "85",
	})
	assert.True(t, strings.HasPrefix(out, "[RISKY] https://phish.example HIGH RISK"))
	assert.Contains(t, out, "Confidence: 85")
	assert.Contains(t, out, "Recommendations\n  • Do not log in\n  • Report the site")
}

func TestURLSafetyConfidenceIsNotRisk(t *testing.T) {
	t.Parallel()
	r := plain()

	out := r.URLSafety(&structs.URLSafety{
		URL:          "https://example.com",
		Verdict:      "SAFE",
		RiskAnalysis: "- **Details**: well-known site",
		Confidence:   "High",
	})
	assert.True(t, strings.HasPrefix(out, "[SAFE] https://example.com"))
	assert.NotContains(t, out, "HIGH RISK")
	assert.Contains(t, out, "Confidence: High")
}

func TestMediaAnalysisVariants(t *testing.T) {
	t.Parallel()
	r := plain()

	out := r.MediaAnalysis(&structs.MediaAnalysis{
		AnalysisType: structs.AnalysisBiasRating,
		BiasRating:   "Center",
		BalanceScore: "7",
		Tips:         "Compare outlets",
	})
	assert.Contains(t, out, "Bias Rating Center")
	assert.Contains(t, out, "Left ──────────●────────── Right")
	assert.Contains(t, out, "7/10")
	assert.Contains(t, out, "• Compare outlets")

	out = r.MediaAnalysis(&structs.MediaAnalysis{
		AnalysisType:     structs.AnalysisNeutralSummary,
		NeutralSummary:   "Both sides agree on facts.",
		AlternativeViews: "View A\nView B",
	})
	assert.Contains(t, out, "Neutral Summary\n  Both sides agree on facts.")
	assert.Contains(t, out, "Alternative Views\n  • View A\n  • View B")

	assert.Equal(t, noResult, r.MediaAnalysis(&structs.MediaAnalysis{}))
}

func TestSpectrumUnrated(t *testing.T) {
	t.Parallel()
	r := plain()

	assert.Contains(t, r.Spectrum("satire"), "(unrated)")
	assert.True(t, strings.HasPrefix(r.Spectrum("Far Left"), "Left ●"))
	assert.True(t, strings.HasSuffix(r.Spectrum("Far Right"), "● Right"))
}

func TestSocialContextIncludesFactCheck(t *testing.T) {
	t.Parallel()
	r := plain()

	out := r.SocialContext(&structs.SocialMediaContext{
		ContextAnalysis: "Posted during an election.",
		FactCheckResult: &structs.FactCheckResult{Claim: "x", Verdict: "MISLEADING"},
	})
	assert.Contains(t, out, "Posted during an election.")
	assert.Contains(t, out, "Fact Check\n[MISLEADING] x")
}

func TestSearch(t *testing.T) {
	t.Parallel()
	r := plain()

	assert.Equal(t, `No results found for "vaccines".`, r.Search(&structs.SearchResponse{Query: "vaccines"}))

	out := r.Search(&structs.SearchResponse{Query: "q", Results: []structs.SearchHit{{Title: "WHO", URL: "https://who.int", Content: "Facts"}}})
	assert.Contains(t, out, "1 results for \"q\"")
	assert.Contains(t, out, "1. WHO\n   https://who.int\n   Facts")
}

func TestHistory(t *testing.T) {
	t.Parallel()
	r := plain()

	assert.Equal(t, "No recent urls.", r.History(consts.HistoryURLs, nil))
	assert.Equal(t, "Recent urls\n  1. https://b\n  2. https://a", r.History(consts.HistoryURLs, []string{"https://b", "https://a"}))
}

func TestHealth(t *testing.T) {
	t.Parallel()
	r := plain()

	assert.Equal(t, "Backend http://x: unknown", r.Health(&structs.Health{}, "http://x"))
	assert.Contains(t, r.Health(&structs.Health{Status: "healthy", Timestamp: 1}, "http://x"), "healthy (reported ")
}

func TestSpinReturnsError(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	boom := errors.New("boom")
	assert.ErrorIs(t, Spin(&buf, "Analyzing", func() error { return boom }), boom)
	assert.NoError(t, Spin(&buf, "Analyzing", func() error { return nil }))
}
