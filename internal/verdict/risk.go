package verdict

import (
	"strings"
	"unicode"
)

type Risk int

const (
	RiskUnknown Risk = iota
	RiskLow
	RiskMedium
	RiskHigh
)

// RiskLevel buckets a free-text risk description for the URL-safety badge.
// Only whole words count, and "unsafe" or "not safe" read as high.
func RiskLevel(text string) Risk {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	has := func(want string) bool {
		for _, w := range words {
			if w == want {
				return true
			}
		}
		return false
	}
	notSafe := false
	for i := 1; i < len(words); i++ {
		if words[i] == "safe" && words[i-1] == "not" {
			notSafe = true
		}
	}

	switch {
	case has("high") || has("dangerous") || has("unsafe") || has("malicious") || notSafe:
		return RiskHigh
	case has("medium") || has("moderate"):
		return RiskMedium
	case has("low") || has("safe") || has("minimal"):
		return RiskLow
	}
	return RiskUnknown
}

func (r Risk) Tone() Tone {
	switch r {
	case RiskHigh:
		return ToneNegative
	case RiskMedium:
		return ToneCaution
	case RiskLow:
		return TonePositive
	}
	return ToneNeutral
}

type biasMark struct {
	label    string
	position int
}

// Ordered longest label first so "Center-Left" is not read as "Left".
var biasSpectrum = []biasMark{
	{"far left", 0},
	{"far right", 100},
	{"center-left", 37},
	{"centre-left", 37},
	{"center-right", 63},
	{"centre-right", 63},
	{"left", 25},
	{"right", 75},
	{"center", 50},
	{"centre", 50},
	{"neutral", 50},
}

// BiasPosition places a bias rating on a 0 (far left) to 100 (far right)
// spectrum. Unrecognised ratings sit at the centre with ok=false.
func BiasPosition(rating string) (position int, ok bool) {
	lower := strings.ToLower(strings.TrimSpace(rating))
	lower = strings.ReplaceAll(lower, " - ", "-")
	lower = strings.ReplaceAll(lower, "center left", "center-left")
	lower = strings.ReplaceAll(lower, "center right", "center-right")
	for _, m := range biasSpectrum {
		if strings.Contains(lower, m.label) {
			return m.position, true
		}
	}
	return 50, false
}

// BalancePercent converts a 1-10 balance score to a 0-100 bar width,
// clamping out-of-range input.
func BalancePercent(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 10:
		return 100
	}
	return score * 10
}

// ConfidencePercent clamps a backend confidence score to 0-100.
func ConfidencePercent(score float64) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	}
	return int(score + 0.5)
}
