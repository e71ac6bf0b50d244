package verdict

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStyleOfKnownVerdicts(t *testing.T) {
	t.Parallel()

	assert.Equal(t, TonePositive, StyleOf(True).Tone)
	assert.Equal(t, ToneNegative, StyleOf(Deepfake).Tone)
	assert.Equal(t, ToneSynthetic, StyleOf(AIGenerated).Tone)
	assert.Equal(t, ToneWarning, StyleOf(RequiresCaution).Tone)
	assert.Equal(t, "bg-green-100 dark:bg-green-900/30", StyleOf(Safe).Background)
	assert.Equal(t, "bg-red-500/20 text-red-700 dark:text-red-300", StyleOf(Risky).Badge)
}

func TestStyleOfUnknownFallsBackToNeutral(t *testing.T) {
	t.Parallel()

	for _, v := range []Verdict{"", "MAYBE", "true", "SORT_OF_TRUE"} {
		assert.Equal(t, StyleOf(Unverifiable), StyleOf(v), "verdict %q", v)
		assert.Equal(t, ToneNeutral, StyleOf(v).Tone)
	}
	assert.Equal(t, StyleOf(Unclear), StyleOf("NOPE"))
}

func TestNormalize(t *testing.T) {
	t.Parallel()

	assert.Equal(t, LikelyAuthentic, Normalize("likely authentic"))
	assert.Equal(t, AIGenerated, Normalize(" AI-generated. "))
	assert.Equal(t, PartiallyTrue, Normalize("[Partially  True]"))
	assert.Equal(t, RequiresCaution, Normalize("requires caution"))
}

func TestLabel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "PARTIALLY TRUE", PartiallyTrue.Label())
	assert.Equal(t, "REQUIRES CAUTION", RequiresCaution.Label())
	assert.Equal(t, "UNVERIFIABLE", Verdict("").Label())
}

func TestResolve(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Deepfake, Resolve("DEEPFAKE", "", Unclear))
	assert.Equal(t, False, Resolve("", "- **Verdict**: False\n- **Analysis**: no", Unverifiable))
	assert.Equal(t, LikelyAuthentic, Resolve("", "- **Verdict**: likely authentic, minor artifacts", Unclear))
	assert.Equal(t, Safe, Resolve("", "- **Overall Safety Verdict**: Safe to visit", Unclear))
	assert.Equal(t, Unclear, Resolve("weird", "no sections here", Unclear))
	assert.Equal(t, Misleading, Resolve("weird", "**Verdict:** Misleading", Unverifiable))

	// Table entries only match as whole words.
	_, ok := FromAnalysis("- **Overall Safety Verdict**: Safety could not be determined")
	assert.False(t, ok)
	_, ok = FromAnalysis("- **Verdict**: Falsely attributed but the claim itself is accurate")
	assert.False(t, ok)
	assert.Equal(t, Unclear, Resolve("", "- **Overall Safety Verdict**: Safety could not be determined", Unclear))
	assert.Equal(t, Risky, Resolve("", "- **Verdict**: Risky site with many redirects", Unclear))
}

func TestRiskLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RiskHigh, RiskLevel("High risk: phishing"))
	assert.Equal(t, RiskHigh, RiskLevel("dangerous"))
	assert.Equal(t, RiskMedium, RiskLevel("Moderate"))
	assert.Equal(t, RiskLow, RiskLevel("Looks safe"))
	assert.Equal(t, RiskUnknown, RiskLevel("n/a"))
	assert.Equal(t, RiskHigh, RiskLevel("Unsafe"))
	assert.Equal(t, RiskHigh, RiskLevel("This site is not safe"))
	assert.Equal(t, RiskUnknown, RiskLevel("Follow the steps below"))
	assert.Equal(t, RiskLow, RiskLevel("Low"))
	assert.Equal(t, ToneNegative, RiskHigh.Tone())
	assert.Equal(t, ToneNeutral, RiskUnknown.Tone())
}

func TestBiasPosition(t *testing.T) {
	t.Parallel()

	cases := map[string]int{
		"Left":         25,
		"Center-Left":  37,
		"center left":  37,
		"Center":       50,
		"Center-Right": 63,
		"Right":        75,
		"Far Right":    100,
		"Far Left":     0,
		"Neutral":      50,
	}
	for rating, want := range cases {
		got, ok := BiasPosition(rating)
		assert.True(t, ok, rating)
		assert.Equal(t, want, got, rating)
	}

	got, ok := BiasPosition("unknown")
	assert.False(t, ok)
	assert.Equal(t, 50, got)
}

func TestPercentClamps(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 70, BalancePercent(7))
	assert.Equal(t, 100, BalancePercent(12))
	assert.Equal(t, 0, BalancePercent(-1))
	assert.Equal(t, 73, ConfidencePercent(72.6))
	assert.Equal(t, 100, ConfidencePercent(140))
	assert.Equal(t, 0, ConfidencePercent(-3))
}
