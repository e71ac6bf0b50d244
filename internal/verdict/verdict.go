// Package verdict maps backend verdict strings to display styles.
package verdict

import (
	"strings"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/sections"
)

type Verdict string

const (
	True            Verdict = "TRUE"
	False           Verdict = "FALSE"
	Misleading      Verdict = "MISLEADING"
	PartiallyTrue   Verdict = "PARTIALLY_TRUE"
	Unverifiable    Verdict = "UNVERIFIABLE"
	LikelyAuthentic Verdict = "LIKELY_AUTHENTIC"
	Manipulated     Verdict = "MANIPULATED"
	AIGenerated     Verdict = "AI_GENERATED"
	Unclear         Verdict = "UNCLEAR"
	Safe            Verdict = "SAFE"
	Risky           Verdict = "RISKY"
	RequiresCaution Verdict = "REQUIRES_CAUTION"
	Deepfake        Verdict = "DEEPFAKE"
)

// Tone is the colour family of a style, shared by every surface.
type Tone int

const (
	ToneNeutral Tone = iota
	TonePositive
	ToneNegative
	ToneWarning
	ToneCaution
	ToneSynthetic
)

func (t Tone) String() string {
	switch t {
	case TonePositive:
		return "green"
	case ToneNegative:
		return "red"
	case ToneWarning:
		return "orange"
	case ToneCaution:
		return "yellow"
	case ToneSynthetic:
		return "purple"
	default:
		return "gray"
	}
}

// Style is the background, text and badge class triple for a verdict.
type Style struct {
	Background string
	Text       string
	Badge      string
	Tone       Tone
}

func toned(t Tone) Style {
	c := t.String()
	if t == ToneNeutral {
		return Style{
			Background: "bg-gray-100 dark:bg-gray-800",
			Text:       "text-gray-700 dark:text-gray-400",
			Badge:      "bg-gray-500/20 text-gray-700 dark:text-gray-300",
			Tone:       t,
		}
	}
	return Style{
		Background: "bg-" + c + "-100 dark:bg-" + c + "-900/30",
		Text:       "text-" + c + "-700 dark:text-" + c + "-400",
		Badge:      "bg-" + c + "-500/20 text-" + c + "-700 dark:text-" + c + "-300",
		Tone:       t,
	}
}

var styles = map[Verdict]Style{
	True:            toned(TonePositive),
	False:           toned(ToneNegative),
	Misleading:      toned(ToneWarning),
	PartiallyTrue:   toned(ToneCaution),
	Unverifiable:    toned(ToneNeutral),
	LikelyAuthentic: toned(TonePositive),
	Manipulated:     toned(ToneNegative),
	AIGenerated:     toned(ToneSynthetic),
	Unclear:         toned(ToneNeutral),
	Safe:            toned(TonePositive),
	Risky:           toned(ToneNegative),
	RequiresCaution: toned(ToneWarning),
	Deepfake:        toned(ToneNegative),
}

// StyleOf looks v up in the table. Unknown verdicts get the UNVERIFIABLE
// style.
func StyleOf(v Verdict) Style {
	if s, ok := styles[v]; ok {
		return s
	}
	return styles[Unverifiable]
}

// Known reports whether v has its own table entry.
func Known(v Verdict) bool {
	_, ok := styles[v]
	return ok
}

// Normalize turns free text such as "likely authentic" or "AI-generated."
// into table form. It does not check the table.
func Normalize(s string) Verdict {
	s = strings.TrimSpace(s)
	s = strings.Trim(s, ".!*[]()\"'`")
	s = strings.TrimSpace(s)
	s = strings.ToUpper(s)
	s = strings.NewReplacer(" ", "_", "-", "_").Replace(s)
	for strings.Contains(s, "__") {
		s = strings.ReplaceAll(s, "__", "_")
	}
	return Verdict(s)
}

// Label is the display form: underscores become spaces.
func (v Verdict) Label() string {
	if v == "" {
		return string(Unverifiable)
	}
	return strings.ReplaceAll(string(v), "_", " ")
}

func (v Verdict) Style() Style {
	return StyleOf(v)
}

// verdictTitles are the section titles the backend prompts use for the
// verdict line, in lookup order.
var verdictTitles = []string{"Verdict", "Overall Safety Verdict", "Safety Verdict"}

// Resolve returns the payload's verdict if it sent one, otherwise the verdict
// found in the analysis text. The result is always a table entry; anything
// unrecognised becomes fallback.
func Resolve(field, analysis string, fallback Verdict) Verdict {
	if field != "" {
		if v := Normalize(field); Known(v) {
			return v
		}
	}
	if v, ok := FromAnalysis(analysis); ok {
		return v
	}
	return fallback
}

// FromAnalysis reads the verdict section of an analysis report. The first
// table entry found at the start of the section body wins, so "Likely
// authentic, with minor compression artifacts" still resolves.
func FromAnalysis(analysis string) (Verdict, bool) {
	secs := sections.Parse(analysis)
	for _, title := range verdictTitles {
		body, ok := secs.Lookup(title)
		if !ok {
			continue
		}
		first := body
		if i := strings.IndexAny(first, "\n,;:("); i >= 0 {
			first = first[:i]
		}
		if v := Normalize(first); Known(v) {
			return v, true
		}
		if v, ok := longestPrefix(Normalize(body)); ok {
			return v, true
		}
	}
	return "", false
}

// longestPrefix finds the longest table entry that s starts with as whole
// words: "SAFE" matches "SAFE_TO_VISIT" but not "SAFETY_UNKNOWN".
func longestPrefix(s Verdict) (Verdict, bool) {
	var best Verdict
	for v := range styles {
		if hasWordPrefix(string(s), string(v)) && len(v) > len(best) {
			best = v
		}
	}
	return best, best != ""
}

func hasWordPrefix(s, prefix string) bool {
	if !strings.HasPrefix(s, prefix) {
		return false
	}
	if len(s) == len(prefix) {
		return true
	}
	next := s[len(prefix)]
	return !(next >= 'A' && next <= 'Z' || next >= 'a' && next <= 'z' || next >= '0' && next <= '9')
}
