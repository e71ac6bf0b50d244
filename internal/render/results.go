package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/consts"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/sections"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/verdict"
)

const noResult = "No result returned."

func (r *Renderer) factCheckItem(item structs.FactCheckResult, showClaim bool) string {
	v := verdict.Resolve(item.Verdict, item.Analysis, verdict.Unverifiable)

	header := r.Badge(v)
	if showClaim && item.Claim != "" {
		header += " " + r.Sanitize(item.Claim)
	}

	confidence := r.Confidence(item.ConfidenceScore)
	if item.ConfidenceExplanation != "" {
		confidence += "\n" + indent(r.muted.Render(r.Sanitize(item.ConfidenceExplanation)))
	}

	return join(
		header,
		confidence,
		r.Analysis(item.Analysis),
		r.Sources("Sources", item.Sources),
	)
}

func (r *Renderer) FactCheck(resp *structs.FactCheckResponse) string {
	items := resp.Items()
	if len(items) == 0 {
		return noResult
	}
	return r.factCheckItems(items)
}

func (r *Renderer) factCheckItems(items []structs.FactCheckResult) string {
	if len(items) == 1 {
		return r.factCheckItem(items[0], true)
	}
	parts := make([]string, 0, len(items))
	for i, item := range items {
		parts = append(parts, r.heading.Render(fmt.Sprintf("Claim %d of %d", i+1, len(items)))+"\n"+r.factCheckItem(item, true))
	}
	return strings.Join(parts, "\n\n"+r.muted.Render(strings.Repeat("─", barWidth*2))+"\n\n")
}

func (r *Renderer) Batch(resp *structs.BatchResponse) string {
	if len(resp.Results) == 0 {
		return noResult
	}
	return r.factCheckItems(resp.Results)
}

// Media renders an image or video authenticity result.
func (r *Renderer) Media(resp *structs.MediaAuthenticity) string {
	v := verdict.Resolve(resp.Verdict, resp.Analysis, verdict.Unclear)

	confidence := r.Confidence(resp.ConfidenceScore)
	if resp.ConfidenceExplanation != "" {
		confidence += "\n" + indent(r.muted.Render(r.Sanitize(resp.ConfidenceExplanation)))
	}

	return join(
		r.Badge(v),
		confidence,
		r.Analysis(resp.Analysis),
		r.Section("Potential Implications", resp.PotentialImplications),
	)
}

var riskLabels = map[verdict.Risk]string{
	verdict.RiskLow:    "LOW RISK",
	verdict.RiskMedium: "MEDIUM RISK",
	verdict.RiskHigh:   "HIGH RISK",
}

func (r *Renderer) URLSafety(resp *structs.URLSafety) string {
	body := resp.Body()
	v := verdict.Resolve(resp.Verdict, body, verdict.Unclear)

	header := r.Badge(v)
	if resp.URL != "" {
		header += " " + r.Sanitize(resp.URL)
	}

	if riskText, ok := sections.Parse(body).Lookup("Risk Level"); ok {
		if risk := verdict.RiskLevel(riskText); risk != verdict.RiskUnknown {
			header += " " + r.tone(risk.Tone()).Render(riskLabels[risk])
		}
	}

	var confidence string
	if c := strings.TrimSpace(resp.Confidence.String()); c != "" {
		confidence = "Confidence: " + r.Sanitize(c)
	}

	return join(
		header,
		confidence,
		r.Analysis(body),
		r.List("Recommendations", resp.Recommendations.String()),
		r.Sources("Sources", resp.Sources),
	)
}

func (r *Renderer) BiasRadar(resp *structs.BiasRadar) string {
	out := join(
		r.Analysis(resp.Analysis),
		r.Balance(resp.BalanceScore),
		r.List("Tips", resp.Tips.String()),
		r.Sources("Sources", resp.Sources),
	)
	if out == "" {
		return noResult
	}
	return out
}

func (r *Renderer) MediaAnalysis(resp *structs.MediaAnalysis) string {
	var out string
	switch resp.AnalysisType {
	case structs.AnalysisBiasRating:
		var rating string
		if resp.BiasRating != "" {
			rating = r.heading.Render("Bias Rating") + " " + r.Sanitize(resp.BiasRating) + "\n" + r.Spectrum(resp.BiasRating)
		}
		out = join(
			rating,
			r.Balance(resp.BalanceScore),
			r.Analysis(resp.BiasAnalysis),
			r.List("Tips", resp.Tips.String()),
		)
	case structs.AnalysisNeutralSummary:
		out = join(
			r.Section("Neutral Summary", resp.NeutralSummary),
			r.List("Alternative Views", resp.AlternativeViews.String()),
			r.List("Media Literacy Tips", resp.EducationTips.String()),
		)
	default:
		out = r.Analysis(resp.Analysis)
	}
	out = join(out, r.Sources("Sources", resp.Sources))
	if out == "" {
		return noResult
	}
	return out
}

func (r *Renderer) NeutralNews(resp *structs.NeutralNews) string {
	out := join(
		r.Analysis(resp.NeutralAnalysis),
		r.Sources("Alternative Sources", resp.AlternativeSources),
	)
	if out == "" {
		return noResult
	}
	return out
}

func (r *Renderer) SocialContext(resp *structs.SocialMediaContext) string {
	var factCheck string
	if resp.FactCheckResult != nil {
		factCheck = r.heading.Render("Fact Check") + "\n" + r.factCheckItem(*resp.FactCheckResult, true)
	}
	out := join(r.Analysis(resp.ContextAnalysis), factCheck)
	if out == "" {
		return noResult
	}
	return out
}

func (r *Renderer) Search(resp *structs.SearchResponse) string {
	if len(resp.Results) == 0 {
		return fmt.Sprintf("No results found for %q.", r.Sanitize(resp.Query))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%s %q", r.heading.Render(fmt.Sprintf("%d results for", len(resp.Results))), r.Sanitize(resp.Query))
	for i, hit := range resp.Results {
		title := hit.Title
		if title == "" {
			title = hit.URL
		}
		fmt.Fprintf(&b, "\n\n%d. %s", i+1, r.Sanitize(title))
		if hit.URL != "" {
			b.WriteString("\n   " + r.muted.Render(r.Sanitize(hit.URL)))
		}
		if c := strings.TrimSpace(r.Sanitize(hit.Content)); c != "" {
			b.WriteString("\n   " + c)
		}
	}
	return b.String()
}

func (r *Renderer) Health(h *structs.Health, backendURL string) string {
	status := h.Status
	if status == "" {
		status = "unknown"
	}
	out := fmt.Sprintf("Backend %s: %s", backendURL, status)
	if h.Timestamp > 0 {
		sec := int64(h.Timestamp)
		nsec := int64((h.Timestamp - float64(sec)) * 1e9)
		out += " (reported " + humanize.Time(time.Unix(sec, nsec)) + ")"
	}
	return out
}

func (r *Renderer) History(kind consts.HistoryKind, values []string) string {
	if len(values) == 0 {
		return fmt.Sprintf("No recent %s.", kind)
	}
	var b strings.Builder
	b.WriteString(r.heading.Render("Recent " + kind.String()))
	for i, v := range values {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, v)
	}
	return b.String()
}
