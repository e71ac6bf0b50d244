package web

import (
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/sections"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/verdict"
)

// Card is one result panel on a page. Zero-valued parts are not shown.
type Card struct {
	Heading string

	Verdict    verdict.Verdict
	HasVerdict bool

	// Confidence is 0-100, or -1 when the result carries none.
	Confidence     int
	ConfidenceNote string
	ConfidenceText string

	Risk      verdict.Risk
	RiskLabel string

	Sections sections.Sections
	Blocks   []Block
	Lists    []List
	Sources  []Source

	BiasRating string
	// Spectrum is the 0-100 bias position, or -1.
	Spectrum int
	// Balance is the balance score as a 0-100 width, or -1.
	Balance      int
	BalanceScore int

	Hits []structs.SearchHit
}

type Block struct {
	Title string
	Body  string
}

type List struct {
	Title string
	Items []string
}

type Source struct {
	Title string
	URL   string
}

func newCard(heading string) Card {
	return Card{Heading: heading, Confidence: -1, Spectrum: -1, Balance: -1}
}

func (c *Card) setVerdict(v verdict.Verdict) {
	c.Verdict = v
	c.HasVerdict = true
}

func (c Card) Style() verdict.Style {
	return c.Verdict.Style()
}

func (c *Card) addList(title, text string) {
	if items := sections.Lines(text); len(items) > 0 {
		c.Lists = append(c.Lists, List{Title: title, Items: items})
	}
}

func (c *Card) addBlock(title, body string) {
	if body != "" {
		c.Blocks = append(c.Blocks, Block{Title: title, Body: body})
	}
}

func (c *Card) addAnalysis(text string) {
	if text != "" {
		c.Sections = sections.Parse(text)
	}
}

func (c *Card) addSources(src []structs.Source) {
	for _, s := range src {
		c.Sources = append(c.Sources, Source{Title: s.DisplayTitle(), URL: s.URL})
	}
}

func (c *Card) setBalance(score structs.Text) {
	if n, ok := score.Int(); ok {
		c.BalanceScore = n
		c.Balance = verdict.BalancePercent(n)
	}
}

func factCheckCard(item structs.FactCheckResult) Card {
	c := newCard(item.Claim)
	c.setVerdict(verdict.Resolve(item.Verdict, item.Analysis, verdict.Unverifiable))
	c.Confidence = verdict.ConfidencePercent(item.ConfidenceScore)
	c.ConfidenceNote = item.ConfidenceExplanation
	c.addAnalysis(item.Analysis)
	c.addSources(item.Sources)
	return c
}

func factCheckCards(items []structs.FactCheckResult) []Card {
	cards := make([]Card, 0, len(items))
	for _, item := range items {
		cards = append(cards, factCheckCard(item))
	}
	return cards
}

func mediaCard(resp *structs.MediaAuthenticity) Card {
	c := newCard("")
	c.setVerdict(verdict.Resolve(resp.Verdict, resp.Analysis, verdict.Unclear))
	c.Confidence = verdict.ConfidencePercent(resp.ConfidenceScore)
	c.ConfidenceNote = resp.ConfidenceExplanation
	c.addAnalysis(resp.Analysis)
	c.addBlock("Potential Implications", resp.PotentialImplications)
	return c
}

func urlSafetyCard(resp *structs.URLSafety) Card {
	body := resp.Body()
	c := newCard(resp.URL)
	c.setVerdict(verdict.Resolve(resp.Verdict, body, verdict.Unclear))
	c.ConfidenceText = resp.Confidence.String()
	c.addAnalysis(body)

	// Only a Risk Level section sets the badge; confidence is not risk.
	if riskText, ok := c.Sections.Lookup("Risk Level"); ok {
		c.Risk = verdict.RiskLevel(riskText)
	}
	c.RiskLabel = riskLabels[c.Risk]

	c.addList("Recommendations", resp.Recommendations.String())
	c.addSources(resp.Sources)
	return c
}

var riskLabels = map[verdict.Risk]string{
	verdict.RiskLow:    "Low risk",
	verdict.RiskMedium: "Medium risk",
	verdict.RiskHigh:   "High risk",
}

func biasRadarCard(resp *structs.BiasRadar) Card {
	c := newCard("")
	c.addAnalysis(resp.Analysis)
	c.setBalance(resp.BalanceScore)
	c.addList("Tips", resp.Tips.String())
	c.addSources(resp.Sources)
	return c
}

func mediaAnalysisCard(resp *structs.MediaAnalysis) Card {
	c := newCard("")
	switch resp.AnalysisType {
	case structs.AnalysisBiasRating:
		c.BiasRating = resp.BiasRating
		if resp.BiasRating != "" {
			c.Spectrum, _ = verdict.BiasPosition(resp.BiasRating)
		}
		c.setBalance(resp.BalanceScore)
		c.addAnalysis(resp.BiasAnalysis)
		c.addList("Tips", resp.Tips.String())
	case structs.AnalysisNeutralSummary:
		c.addBlock("Neutral Summary", resp.NeutralSummary)
		c.addList("Alternative Views", resp.AlternativeViews.String())
		c.addList("Media Literacy Tips", resp.EducationTips.String())
	default:
		c.addAnalysis(resp.Analysis)
	}
	c.addSources(resp.Sources)
	return c
}

func neutralNewsCard(resp *structs.NeutralNews) Card {
	c := newCard("")
	c.addAnalysis(resp.NeutralAnalysis)
	c.addSources(resp.AlternativeSources)
	return c
}

func socialCards(resp *structs.SocialMediaContext) []Card {
	c := newCard("Context")
	c.addAnalysis(resp.ContextAnalysis)
	cards := []Card{c}
	if resp.FactCheckResult != nil {
		cards = append(cards, factCheckCard(*resp.FactCheckResult))
	}
	return cards
}

func searchCard(resp *structs.SearchResponse) Card {
	c := newCard(resp.Query)
	c.Hits = resp.Results
	return c
}
