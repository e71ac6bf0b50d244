package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin/render"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/verdict"
)

//go:embed templates/*.html
var templateFS embed.FS

type pageDef struct {
	Name        string
	Title       string
	Description string
	// Template is the page body: "text-form", "upload", "fact-check",
	// "home" or "history".
	Template string

	Field       string
	Label       string
	Placeholder string
	Multiline   bool
	Accept      string
}

var pageDefs = []pageDef{
	{Name: "fact-check", Title: "Fact Check", Description: "Verify claims and detect misinformation with AI-powered analysis", Template: "fact-check"},
	{Name: "batch", Title: "Batch Fact Check", Description: "Fact-check multiple claims simultaneously", Template: "text-form",
		Field: "claims", Label: "Claims (comma-separated)", Placeholder: "Claim one, claim two, claim three", Multiline: true},
	{Name: "image", Title: "Image Authenticity", Description: "Detect manipulated, deepfake, or AI-generated images", Template: "upload",
		Field: "image", Label: "Image (JPG, PNG)", Accept: "image/*"},
	{Name: "video", Title: "Video Deepfake Detection", Description: "Detect deepfake videos and manipulated content", Template: "upload",
		Field: "video", Label: "Video (MP4)", Accept: "video/*"},
	{Name: "url-safety", Title: "URL Safety", Description: "Analyze websites for safety, phishing, malware, and credibility", Template: "text-form",
		Field: "url", Label: "Website URL", Placeholder: "https://example.com"},
	{Name: "bias-radar", Title: "Bias Radar", Description: "Analyze media sources for political bias and credibility", Template: "text-form",
		Field: "source", Label: "News source", Placeholder: "e.g. Reuters, BBC, CNN"},
	{Name: "media-bias", Title: "Media Bias", Description: "Analyze news sources and articles for political bias", Template: "text-form",
		Field: "input", Label: "Source or article URL", Placeholder: "bbc.com or https://news.example/article"},
	{Name: "neutral-news", Title: "Neutral News", Description: "Get a balanced, neutral summary of a news article", Template: "text-form",
		Field: "article", Label: "Article URL or text", Placeholder: "Paste an article URL or its text", Multiline: true},
	{Name: "social", Title: "Social Media Context", Description: "Analyze social media posts for context and fact-check claims", Template: "text-form",
		Field: "post_url", Label: "Post URL", Placeholder: "https://x.com/user/status/..."},
	{Name: "search", Title: "Search", Description: "Search for fact-checked information and verified sources", Template: "text-form",
		Field: "query", Label: "Search query", Placeholder: "What do you want to verify?"},
	{Name: "history", Title: "History", Description: "Recently checked URLs, sources and searches", Template: "history"},
}

var homePage = pageDef{Name: "home", Title: "LUMINA", Description: "Tools for combating misinformation", Template: "home"}

func findPage(name string) pageDef {
	for _, p := range pageDefs {
		if p.Name == name {
			return p
		}
	}
	return homePage
}

var templateFuncs = template.FuncMap{
	"bytes": func(n int64) string { return humanize.IBytes(uint64(n)) },
	"toneBadge": func(t verdict.Tone) string {
		switch t {
		case verdict.ToneNeutral:
			return verdict.StyleOf(verdict.Unverifiable).Badge
		case verdict.TonePositive:
			return verdict.StyleOf(verdict.True).Badge
		case verdict.ToneNegative:
			return verdict.StyleOf(verdict.False).Badge
		case verdict.ToneCaution:
			return verdict.StyleOf(verdict.PartiallyTrue).Badge
		}
		return verdict.StyleOf(verdict.Misleading).Badge
	},
	"title": func(s string) string {
		if s == "" {
			return s
		}
		return strings.ToUpper(s[:1]) + s[1:]
	},
	"pct": func(n int) string { return fmt.Sprintf("%d%%", n) },
}

// htmlPages renders each page inside the shared layout.
type htmlPages map[string]*template.Template

func (p htmlPages) Instance(name string, data any) render.Render {
	t, ok := p[name]
	if !ok {
		t = p[homePage.Template]
	}
	return render.HTML{Template: t, Name: "layout", Data: data}
}

func loadPages() (htmlPages, error) {
	base, err := template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html", "templates/cards.html")
	if err != nil {
		return nil, fmt.Errorf("error parsing layout: %w", err)
	}

	bodies, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}

	pages := make(htmlPages)
	for _, path := range bodies {
		name := strings.TrimSuffix(strings.TrimPrefix(path, "templates/"), ".html")
		if name == "layout" || name == "cards" {
			continue
		}
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(templateFS, path); err != nil {
			return nil, fmt.Errorf("error parsing %s: %w", path, err)
		}
		pages[name] = t
	}
	return pages, nil
}
