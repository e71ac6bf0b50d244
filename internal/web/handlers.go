package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sort"

	"github.com/dustin/go-humanize"
	"github.com/gin-gonic/gin"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/consts"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/forms"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/validate"
)

// multipartOverhead is allowed on top of the file ceiling for the other
// form fields and part headers.
const multipartOverhead = 1 << 20

var errUploadTooLarge = errors.New("upload too large")

type language struct {
	Code string
	Name string
}

type historyList struct {
	Kind   consts.HistoryKind
	Values []string
}

type view struct {
	Page      pageDef
	Pages     []pageDef
	Flash     string
	Values    map[string]string
	Cards     []Card
	Submitted bool
	Languages []language
	Limits    forms.Limits
	Recent    []string
	History   []historyList
}

func languages() []language {
	out := make([]language, 0, len(consts.Languages))
	for code, name := range consts.Languages {
		out = append(out, language{Code: code, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func (s *Server) newView(c *gin.Context, p pageDef) *view {
	v := &view{
		Page:      p,
		Pages:     pageDefs,
		Values:    map[string]string{"language": consts.DefaultLanguage},
		Languages: languages(),
		Limits:    s.forms.Limits(),
	}
	switch p.Name {
	case "url-safety", homePage.Name:
		v.Recent = s.recent(c.Request.Context(), consts.HistoryURLs)
	case "history":
		for _, kind := range []consts.HistoryKind{consts.HistoryURLs, consts.HistorySources, consts.HistorySearch} {
			v.History = append(v.History, historyList{Kind: kind, Values: s.recent(c.Request.Context(), kind)})
		}
	}
	return v
}

func (s *Server) recent(ctx context.Context, kind consts.HistoryKind) []string {
	values, err := s.forms.History().Recent(ctx, kind, 0)
	if err != nil {
		s.logger.Warn("Failed to load history", "kind", kind, "error", err)
		return nil
	}
	return values
}

func (s *Server) render(c *gin.Context, status int, v *view) {
	c.HTML(status, v.Page.Template, v)
}

func (s *Server) fail(c *gin.Context, v *view, err error) {
	status := http.StatusBadGateway
	v.Flash = "Error: " + err.Error()
	switch {
	case errors.Is(err, validate.ErrValidation):
		status = http.StatusBadRequest
		v.Flash = err.Error()
	case errors.Is(err, errUploadTooLarge):
		status = http.StatusRequestEntityTooLarge
		v.Flash = err.Error()
	case errors.Is(err, forms.ErrBusy):
		status = http.StatusTooManyRequests
		v.Flash = "Still working on your previous request"
	}
	s.render(c, status, v)
}

func (s *Server) home(c *gin.Context) {
	s.render(c, http.StatusOK, s.newView(c, homePage))
}

func (s *Server) show(p pageDef) gin.HandlerFunc {
	return func(c *gin.Context) {
		s.render(c, http.StatusOK, s.newView(c, p))
	}
}

func (s *Server) healthz(c *gin.Context) {
	if s.health == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	h, err := s.health.Health(c.Request.Context())
	if err != nil {
		s.logger.Warn("Backend health check failed", "error", err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "backend": h.Status, "timestamp": h.Timestamp})
}

// readUpload returns nil when the field was not sent.
func (s *Server) readUpload(c *gin.Context, field string, maxBytes int64) (*structs.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
			return nil, nil
		case errors.As(err, &tooLarge):
			return nil, fmt.Errorf("%w: files must be less than %s", errUploadTooLarge, humanize.IBytes(uint64(maxBytes)))
		}
		return nil, fmt.Errorf("error reading upload: %w", err)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("error opening upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("error reading upload: %w", err)
	}
	upload := structs.NewUpload(fh.Filename, data)
	return &upload, nil
}

func limitBody(c *gin.Context, maxBytes int64) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes+multipartOverhead)
}

func (s *Server) factCheck(c *gin.Context) {
	v := s.newView(c, findPage("fact-check"))
	maxBytes := s.forms.Limits().MaxImageBytes
	limitBody(c, maxBytes)

	img, err := s.readUpload(c, "image", maxBytes)
	in := forms.FactCheckInput{
		Claim:      c.PostForm("claim"),
		Image:      img,
		Language:   c.PostForm("language"),
		MultiClaim: c.PostForm("multi") != "",
	}
	v.Values["claim"] = in.Claim
	if in.Language != "" {
		v.Values["language"] = in.Language
	}
	if err != nil {
		s.fail(c, v, err)
		return
	}

	resp, err := s.forms.FactCheck().Submit(c.Request.Context(), in)
	if err != nil {
		s.fail(c, v, err)
		return
	}
	v.Submitted = true
	v.Cards = factCheckCards(resp.Items())
	s.render(c, http.StatusOK, v)
}

func (s *Server) uploadPage(c *gin.Context, page string, maxBytes int64, submit func(context.Context, structs.Upload) (*structs.MediaAuthenticity, error)) {
	p := findPage(page)
	v := s.newView(c, p)
	limitBody(c, maxBytes)

	upload, err := s.readUpload(c, p.Field, maxBytes)
	if err != nil {
		s.fail(c, v, err)
		return
	}
	if upload == nil {
		upload = &structs.Upload{}
	}

	resp, err := submit(c.Request.Context(), *upload)
	if err != nil {
		s.fail(c, v, err)
		return
	}
	v.Submitted = true
	v.Cards = []Card{mediaCard(resp)}
	s.render(c, http.StatusOK, v)
}

func (s *Server) image(c *gin.Context) {
	s.uploadPage(c, "image", s.forms.Limits().MaxImageBytes, s.forms.Image().Submit)
}

func (s *Server) video(c *gin.Context) {
	s.uploadPage(c, "video", s.forms.Limits().MaxVideoBytes, s.forms.Video().Submit)
}

// submitText runs a single-field page.
func submitText[In, Out any](s *Server, c *gin.Context, page string, form *forms.Form[In, Out], input func(string) In, cards func(*Out) []Card) {
	p := findPage(page)
	v := s.newView(c, p)
	value := c.PostForm(p.Field)
	v.Values[p.Field] = value

	resp, err := form.Submit(c.Request.Context(), input(value))
	if err != nil {
		s.fail(c, v, err)
		return
	}
	if p.Name == "url-safety" {
		v.Recent = s.recent(c.Request.Context(), consts.HistoryURLs)
	}
	v.Submitted = true
	v.Cards = cards(resp)
	s.render(c, http.StatusOK, v)
}

func asString(s string) string { return s }

func (s *Server) batch(c *gin.Context) {
	submitText(s, c, "batch", s.forms.Batch(), asString, func(r *structs.BatchResponse) []Card {
		return factCheckCards(r.Results)
	})
}

func (s *Server) urlSafety(c *gin.Context) {
	input := func(u string) forms.URLSafetyInput { return forms.URLSafetyInput{URL: u} }
	submitText(s, c, "url-safety", s.forms.URLSafety(), input, func(r *structs.URLSafety) []Card {
		return []Card{urlSafetyCard(r)}
	})
}

func (s *Server) biasRadar(c *gin.Context) {
	submitText(s, c, "bias-radar", s.forms.BiasRadar(), asString, func(r *structs.BiasRadar) []Card {
		return []Card{biasRadarCard(r)}
	})
}

func (s *Server) mediaBias(c *gin.Context) {
	submitText(s, c, "media-bias", s.forms.MediaAnalysis(), asString, func(r *structs.MediaAnalysis) []Card {
		return []Card{mediaAnalysisCard(r)}
	})
}

func (s *Server) neutralNews(c *gin.Context) {
	submitText(s, c, "neutral-news", s.forms.NeutralNews(), asString, func(r *structs.NeutralNews) []Card {
		return []Card{neutralNewsCard(r)}
	})
}

func (s *Server) social(c *gin.Context) {
	submitText(s, c, "social", s.forms.SocialContext(), asString, socialCards)
}

func (s *Server) search(c *gin.Context) {
	submitText(s, c, "search", s.forms.Search(), asString, func(r *structs.SearchResponse) []Card {
		return []Card{searchCard(r)}
	})
}

func (s *Server) clearHistory(c *gin.Context) {
	kind := consts.HistoryKind(c.PostForm("kind"))
	switch kind {
	case consts.HistoryURLs, consts.HistorySources, consts.HistorySearch:
	default:
		c.String(http.StatusBadRequest, "unknown history kind")
		return
	}
	if err := s.forms.History().Clear(c.Request.Context(), kind); err != nil {
		s.logger.Error("Failed to clear history", "kind", kind, "error", err)
		c.String(http.StatusInternalServerError, "failed to clear history")
		return
	}
	c.Redirect(http.StatusSeeOther, "/history")
}
