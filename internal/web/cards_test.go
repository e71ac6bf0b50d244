package web

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/verdict"
)

func TestFactCheckCardDerivesVerdict(t *testing.T) {
	t.Parallel()

	c := factCheckCard(structs.FactCheckResult{
		Claim:    "water is wet",
		Analysis: "- **Verdict**: Partially True\n- **Context**: depends",
	})
	assert.True(t, c.HasVerdict)
	assert.Equal(t, verdict.PartiallyTrue, c.Verdict)
	assert.Equal(t, "water is wet", c.Heading)
	require.Len(t, c.Sections, 2)
	assert.Equal(t, "Context", c.Sections[1].Title)
}

func TestFactCheckCardFallsBackToUnverifiable(t *testing.T) {
	t.Parallel()

	c := factCheckCard(structs.FactCheckResult{Claim: "x"})
	assert.Equal(t, verdict.Unverifiable, c.Verdict)
	assert.Empty(t, c.Sections)
}

func TestURLSafetyCardRisk(t *testing.T) {
	t.Parallel()

	c := urlSafetyCard(&structs.URLSafety{
		URL:          "https://bad.example",
		Verdict:      "RISKY",
		RiskAnalysis: "- **Risk Level**: High\n- **Details**: phishing kit",
	})
	assert.Equal(t, verdict.Risky, c.Verdict)
	assert.Equal(t, verdict.RiskHigh, c.Risk)
	assert.Equal(t, "High risk", c.RiskLabel)
}

func TestURLSafetyCardIgnoresConfidenceForRisk(t *testing.T) {
	t.Parallel()

	c := urlSafetyCard(&structs.URLSafety{
		URL:          "https://example.com",
		Verdict:      "SAFE",
		RiskAnalysis: "- **Details**: well-known site",
		Confidence:   "High",
	})
	assert.Equal(t, verdict.Safe, c.Verdict)
	assert.Equal(t, verdict.RiskUnknown, c.Risk)
	assert.Empty(t, c.RiskLabel)
	assert.Equal(t, "High", c.ConfidenceText)
}

func TestMediaAnalysisCardVariants(t *testing.T) {
	t.Parallel()

	rating := mediaAnalysisCard(&structs.MediaAnalysis{
		AnalysisType: structs.AnalysisBiasRating,
		BiasRating:   "Right",
		BalanceScore: "4",
	})
	assert.Equal(t, 75, rating.Spectrum)
	assert.Equal(t, 40, rating.Balance)
	assert.Equal(t, 4, rating.BalanceScore)

	summary := mediaAnalysisCard(&structs.MediaAnalysis{
		AnalysisType:     structs.AnalysisNeutralSummary,
		NeutralSummary:   "both sides agree on the facts",
		AlternativeViews: "view one\nview two",
	})
	assert.Equal(t, -1, summary.Spectrum)
	require.Len(t, summary.Blocks, 1)
	require.Len(t, summary.Lists, 1)
	assert.Equal(t, []string{"view one", "view two"}, summary.Lists[0].Items)
}

func TestSocialCardsIncludeFactCheck(t *testing.T) {
	t.Parallel()

	cards := socialCards(&structs.SocialMediaContext{
		ContextAnalysis: "posted during an election",
		FactCheckResult: &structs.FactCheckResult{Claim: "c", Verdict: "FALSE"},
	})
	require.Len(t, cards, 2)
	assert.False(t, cards[0].HasVerdict)
	assert.Equal(t, verdict.False, cards[1].Verdict)
}
