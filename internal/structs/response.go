package structs

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Envelope is the part every backend response shares.
type Envelope struct {
	Status string `json:"status,omitempty"`
	Error  string `json:"error,omitempty"`
}

func (e Envelope) Failed() bool {
	return e.Status == StatusError
}

type Source struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// DisplayTitle falls back to the URL when the backend sent no title.
func (s Source) DisplayTitle() string {
	if strings.TrimSpace(s.Title) != "" {
		return s.Title
	}
	return s.URL
}

type SearchHit struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Content string `json:"content"`
}

// Text decodes a JSON string, number, bool, null or array of strings.
// The backend is loose about a few fields (balance_score is "N/A" or 7,
// recommendations is a string or a list).
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*t = ""
		return nil
	}

	switch data[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	case '[':
		var items []Text
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		parts := make([]string, 0, len(items))
		for _, item := range items {
			parts = append(parts, string(item))
		}
		*t = Text(strings.Join(parts, "\n"))
	default:
		*t = Text(string(data))
	}
	return nil
}

func (t Text) String() string {
	return string(t)
}

// Int parses the leading integer of the text ("7", "7/10", "7.5"); ok is
// false when there is none.
func (t Text) Int() (int, bool) {
	s := strings.TrimSpace(string(t))
	end := 0
	for end < len(s) && (s[end] >= '0' && s[end] <= '9' || end == 0 && s[end] == '-') {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

type FactCheckResult struct {
	Claim                 string   `json:"claim,omitempty"`
	Verdict               string   `json:"verdict,omitempty"`
	Analysis              string   `json:"analysis"`
	Sources               []Source `json:"sources"`
	ConfidenceScore       float64  `json:"confidence_score"`
	ConfidenceExplanation string   `json:"confidence_explanation"`
}

// FactCheckResponse covers both shapes /api/fact-check returns: a single
// inline result, or a results list when several claims were sent.
type FactCheckResponse struct {
	Envelope
	FactCheckResult
	Results []FactCheckResult `json:"results,omitempty"`
}

// Items returns the results as a list whichever shape was received.
func (r FactCheckResponse) Items() []FactCheckResult {
	if len(r.Results) > 0 {
		return r.Results
	}
	if r.Analysis == "" && r.Claim == "" {
		return nil
	}
	return []FactCheckResult{r.FactCheckResult}
}

type BatchResponse struct {
	Envelope
	Results []FactCheckResult `json:"results"`
}

// MediaAuthenticity is the image and video authenticity payload.
type MediaAuthenticity struct {
	Envelope
	Verdict               string  `json:"verdict,omitempty"`
	Analysis              string  `json:"analysis"`
	ConfidenceScore       float64 `json:"confidence_score"`
	ConfidenceExplanation string  `json:"confidence_explanation"`
	PotentialImplications string  `json:"potential_implications,omitempty"`
}

type URLSafety struct {
	Envelope
	URL             string   `json:"url,omitempty"`
	Verdict         string   `json:"verdict,omitempty"`
	Analysis        string   `json:"analysis,omitempty"`
	RiskAnalysis    string   `json:"risk_analysis,omitempty"`
	Recommendations Text     `json:"recommendations,omitempty"`
	Confidence      Text     `json:"confidence,omitempty"`
	Sources         []Source `json:"sources"`
}

// Body returns the risk analysis, or the plain analysis from backends that
// only send that.
func (u URLSafety) Body() string {
	if u.RiskAnalysis != "" {
		return u.RiskAnalysis
	}
	return u.Analysis
}

type BiasRadar struct {
	Envelope
	Analysis     string   `json:"analysis"`
	BalanceScore Text     `json:"balance_score"`
	Tips         Text     `json:"tips"`
	Sources      []Source `json:"sources"`
}

type AnalysisType string

const (
	AnalysisBiasRating     AnalysisType = "bias_rating"
	AnalysisNeutralSummary AnalysisType = "neutral_summary"
)

// MediaAnalysis is discriminated by AnalysisType; only the fields of the
// matching variant are set.
type MediaAnalysis struct {
	Envelope
	AnalysisType AnalysisType `json:"analysis_type"`

	BiasRating   string `json:"bias_rating,omitempty"`
	BalanceScore Text   `json:"balance_score,omitempty"`
	BiasAnalysis string `json:"bias_analysis,omitempty"`
	Tips         Text   `json:"tips,omitempty"`

	NeutralSummary   string `json:"neutral_summary,omitempty"`
	AlternativeViews Text   `json:"alternative_views,omitempty"`
	EducationTips    Text   `json:"education_tips,omitempty"`

	Analysis string   `json:"analysis,omitempty"`
	Sources  []Source `json:"sources,omitempty"`
}

type NeutralNews struct {
	Envelope
	NeutralAnalysis    string   `json:"neutral_analysis"`
	AlternativeSources []Source `json:"alternative_sources"`
}

type SocialMediaContext struct {
	Envelope
	ContextAnalysis string           `json:"context_analysis"`
	FactCheckResult *FactCheckResult `json:"fact_check_result,omitempty"`
}

type SearchResponse struct {
	Envelope
	Query   string      `json:"query"`
	Results []SearchHit `json:"results"`
}

type Health struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
}
