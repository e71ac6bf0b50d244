// Package render formats backend results for the terminal and for chat
// replies. All backend text is sanitised before it is shown.
package render

import (
	"fmt"
	"html"
	"io"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/microcosm-cc/bluemonday"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/sections"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/verdict"
)

const (
	defaultWidth = 80
	barWidth     = 20
)

var toneColors = map[verdict.Tone]lipgloss.Color{
	verdict.ToneNeutral:   lipgloss.Color("#9E9E9E"),
	verdict.TonePositive:  lipgloss.Color("#43A047"),
	verdict.ToneNegative:  lipgloss.Color("#E53935"),
	verdict.ToneWarning:   lipgloss.Color("#FB8C00"),
	verdict.ToneCaution:   lipgloss.Color("#FDD835"),
	verdict.ToneSynthetic: lipgloss.Color("#8E24AA"),
}

type Options struct {
	Width int
	// Markdown renders unsectioned analysis text through glamour.
	Markdown bool
}

type Renderer struct {
	lip    *lipgloss.Renderer
	md     *glamour.TermRenderer
	policy *bluemonday.Policy
	width  int

	heading lipgloss.Style
	muted   lipgloss.Style
}

// New returns a renderer whose colour support follows w.
func New(w io.Writer, opts Options) *Renderer {
	width := opts.Width
	if width <= 0 {
		width = defaultWidth
	}

	lip := lipgloss.NewRenderer(w)
	r := &Renderer{
		lip:     lip,
		policy:  bluemonday.StrictPolicy(),
		width:   width,
		heading: lip.NewStyle().Bold(true).Foreground(lipgloss.Color("#2196F3")),
		muted:   lip.NewStyle().Foreground(lipgloss.Color("#9E9E9E")),
	}

	if opts.Markdown {
		md, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err == nil {
			r.md = md
		}
	}
	return r
}

// Sanitize strips any markup from backend text. The strict policy escapes
// entities, which are turned back into plain characters for display.
func (r *Renderer) Sanitize(s string) string {
	return html.UnescapeString(r.policy.Sanitize(s))
}

func (r *Renderer) tone(t verdict.Tone) lipgloss.Style {
	return r.lip.NewStyle().Bold(true).Foreground(toneColors[t])
}

// Badge renders a verdict label in its tone colour, e.g. "[PARTIALLY TRUE]".
func (r *Renderer) Badge(v verdict.Verdict) string {
	return r.tone(v.Style().Tone).Render("[" + v.Label() + "]")
}

// Bar draws a fixed-width meter for pct (0-100).
func Bar(pct int) string {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	filled := pct * barWidth / 100
	return strings.Repeat("█", filled) + strings.Repeat("░", barWidth-filled)
}

func confidenceTone(pct int) verdict.Tone {
	switch {
	case pct >= 80:
		return verdict.TonePositive
	case pct >= 50:
		return verdict.ToneCaution
	}
	return verdict.ToneNegative
}

func (r *Renderer) Confidence(score float64) string {
	pct := verdict.ConfidencePercent(score)
	return fmt.Sprintf("Confidence %s %d%%", r.tone(confidenceTone(pct)).Render(Bar(pct)), pct)
}

// Analysis renders sectioned report text as headed blocks. Text without
// section titles is shown whole, through glamour when enabled.
func (r *Renderer) Analysis(text string) string {
	text = r.Sanitize(text)
	if strings.TrimSpace(text) == "" {
		return ""
	}

	secs := sections.Parse(text)
	if secs.Fallback() {
		return r.markdown(secs[0].Body)
	}

	var b strings.Builder
	for i, sec := range secs {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(r.heading.Render(sec.Title))
		b.WriteString("\n")
		if sec.Body != "" {
			b.WriteString(indent(sec.Body))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func (r *Renderer) markdown(s string) string {
	if r.md != nil {
		out, err := r.md.Render(s)
		if err == nil {
			return strings.Trim(out, "\n")
		}
	}
	return indent(strings.TrimSpace(s))
}

// Section renders a titled free-text block; empty bodies render nothing.
func (r *Renderer) Section(title, body string) string {
	body = strings.TrimSpace(r.Sanitize(body))
	if body == "" {
		return ""
	}
	return r.heading.Render(title) + "\n" + indent(body)
}

// List renders newline-delimited text as bullets.
func (r *Renderer) List(title, text string) string {
	items := sections.Lines(r.Sanitize(text))
	if len(items) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.heading.Render(title))
	for _, item := range items {
		b.WriteString("\n  • ")
		b.WriteString(strings.TrimLeft(item, "-•* "))
	}
	return b.String()
}

func (r *Renderer) Sources(title string, sources []structs.Source) string {
	if len(sources) == 0 {
		return ""
	}
	var b strings.Builder
	b.WriteString(r.heading.Render(title))
	for i, s := range sources {
		fmt.Fprintf(&b, "\n  %d. %s", i+1, r.Sanitize(s.DisplayTitle()))
		if s.URL != "" && s.Title != "" {
			b.WriteString("\n     ")
			b.WriteString(r.muted.Render(r.Sanitize(s.URL)))
		}
	}
	return b.String()
}

// Spectrum draws a left-to-right bias line with a marker at the rating's
// position.
func (r *Renderer) Spectrum(rating string) string {
	pos, ok := verdict.BiasPosition(rating)
	line := []rune(strings.Repeat("─", barWidth+1))
	line[pos*barWidth/100] = '●'
	out := "Left " + string(line) + " Right"
	if !ok {
		out += r.muted.Render("  (unrated)")
	}
	return out
}

// Balance draws the 1-10 balance score as a meter. Scores that are not
// numbers render nothing.
func (r *Renderer) Balance(score structs.Text) string {
	n, ok := score.Int()
	if !ok {
		return ""
	}
	pct := verdict.BalancePercent(n)
	return fmt.Sprintf("Balance    %s %d/10", r.tone(confidenceTone(pct)).Render(Bar(pct)), n)
}

func indent(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = "  " + l
		}
	}
	return strings.Join(lines, "\n")
}

func join(parts ...string) string {
	kept := parts[:0]
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
