package forms

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/api"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/consts"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/history"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/validate"
)

// Backend is the subset of *api.Client the forms call.
type Backend interface {
	FactCheck(ctx context.Context, req api.FactCheckRequest) (*structs.FactCheckResponse, error)
	ImageAuthenticity(ctx context.Context, image structs.Upload) (*structs.MediaAuthenticity, error)
	VideoAuthenticity(ctx context.Context, video structs.Upload) (*structs.MediaAuthenticity, error)
	URLSafety(ctx context.Context, target string, asForm bool) (*structs.URLSafety, error)
	BiasRadar(ctx context.Context, source string) (*structs.BiasRadar, error)
	MediaAnalysis(ctx context.Context, input string) (*structs.MediaAnalysis, error)
	NeutralNews(ctx context.Context, articleURL string) (*structs.NeutralNews, error)
	SocialMediaContext(ctx context.Context, postURL string) (*structs.SocialMediaContext, error)
	Search(ctx context.Context, query string) (*structs.SearchResponse, error)
	BatchFactCheck(ctx context.Context, claims []string) (*structs.BatchResponse, error)
}

var _ Backend = (*api.Client)(nil)

type Limits struct {
	MaxBatchClaims int
	MaxImageBytes  int64
	MaxVideoBytes  int64
	// MaxImageDimension downscales larger images before upload; 0 disables.
	MaxImageDimension int
}

func DefaultLimits() Limits {
	return Limits{
		MaxBatchClaims: consts.MaxBatchClaims,
		MaxImageBytes:  consts.MaxImageBytes,
		MaxVideoBytes:  consts.MaxVideoBytes,
	}
}

// Set builds forms bound to one backend and history store. Each call to a
// form method returns a fresh form with its own state.
type Set struct {
	backend  Backend
	history  history.Store
	limits   Limits
	language string
	logger   *slog.Logger
}

func NewSet(backend Backend, store history.Store, limits Limits, language string, logger *slog.Logger) *Set {
	if store == nil {
		store = history.Discard{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	if language == "" {
		language = consts.DefaultLanguage
	}
	return &Set{
		backend:  backend,
		history:  store,
		limits:   limits,
		language: language,
		logger:   logger,
	}
}

func (s *Set) Limits() Limits {
	return s.limits
}

func (s *Set) History() history.Store {
	return s.history
}

// remember records value in history. Failures are logged, never returned:
// the analysis already succeeded.
func (s *Set) remember(ctx context.Context, kind consts.HistoryKind, value string) {
	if err := s.history.Add(ctx, kind, value); err != nil {
		s.logger.Warn("Failed to record history", "kind", kind, "error", err)
	}
}

type FactCheckInput struct {
	Claim    string
	Image    *structs.Upload
	Language string
	// MultiClaim asks the backend to split the text into several claims.
	MultiClaim bool
}

func (s *Set) FactCheck() *Form[FactCheckInput, structs.FactCheckResponse] {
	prepare := func(in FactCheckInput) (FactCheckInput, error) {
		claim, err := validate.Text("a claim to fact-check", in.Claim)
		if err != nil {
			return in, err
		}
		in.Claim = claim
		if in.Language == "" {
			in.Language = s.language
		}
		if in.Image != nil && !in.Image.Empty() {
			img, err := s.prepareImage(*in.Image)
			if err != nil {
				return in, err
			}
			in.Image = &img
		} else {
			in.Image = nil
		}
		return in, nil
	}
	call := func(ctx context.Context, in FactCheckInput) (*structs.FactCheckResponse, error) {
		return s.backend.FactCheck(ctx, api.FactCheckRequest{
			Claim:      in.Claim,
			Image:      in.Image,
			Language:   in.Language,
			MultiClaim: in.MultiClaim,
		})
	}
	return newForm("fact-check", s.logger, prepare, call)
}

func (s *Set) Batch() *Form[string, structs.BatchResponse] {
	prepare := func(in string) (string, error) {
		_, err := validate.Claims(in, s.limits.MaxBatchClaims)
		return in, err
	}
	call := func(ctx context.Context, in string) (*structs.BatchResponse, error) {
		claims, err := validate.Claims(in, s.limits.MaxBatchClaims)
		if err != nil {
			return nil, err
		}
		return s.backend.BatchFactCheck(ctx, claims)
	}
	return newForm("batch", s.logger, prepare, call)
}

func (s *Set) prepareImage(u structs.Upload) (structs.Upload, error) {
	mime, err := validate.File(validate.KindImage, u.Data, s.limits.MaxImageBytes)
	if err != nil {
		return u, err
	}
	u.ContentType = mime
	resized, err := u.Downscale(s.limits.MaxImageDimension)
	if err != nil {
		return u, fmt.Errorf("error preparing image: %w", err)
	}
	s.logger.Debug("Prepared upload", "name", u.Name, "bytes", u.Size(), "sha256", u.Hash(), "resized", resized)
	return u, nil
}

func (s *Set) Image() *Form[structs.Upload, structs.MediaAuthenticity] {
	return newForm("image", s.logger, s.prepareImage, s.backend.ImageAuthenticity)
}

func (s *Set) Video() *Form[structs.Upload, structs.MediaAuthenticity] {
	prepare := func(u structs.Upload) (structs.Upload, error) {
		mime, err := validate.File(validate.KindVideo, u.Data, s.limits.MaxVideoBytes)
		if err != nil {
			return u, err
		}
		u.ContentType = mime
		s.logger.Debug("Prepared upload", "name", u.Name, "bytes", u.Size(), "sha256", u.Hash())
		return u, nil
	}
	return newForm("video", s.logger, prepare, s.backend.VideoAuthenticity)
}

type URLSafetyInput struct {
	URL string
	// AsForm posts to the form-encoded endpoint variant.
	AsForm bool
}

func (s *Set) URLSafety() *Form[URLSafetyInput, structs.URLSafety] {
	prepare := func(in URLSafetyInput) (URLSafetyInput, error) {
		u, err := validate.URL(in.URL)
		in.URL = u
		return in, err
	}
	call := func(ctx context.Context, in URLSafetyInput) (*structs.URLSafety, error) {
		return s.backend.URLSafety(ctx, in.URL, in.AsForm)
	}
	f := newForm("url-safety", s.logger, prepare, call)
	f.onSuccess = func(ctx context.Context, in URLSafetyInput, _ *structs.URLSafety) {
		s.remember(ctx, consts.HistoryURLs, in.URL)
	}
	return f
}

func text(field string) func(string) (string, error) {
	return func(in string) (string, error) {
		return validate.Text(field, in)
	}
}

func (s *Set) BiasRadar() *Form[string, structs.BiasRadar] {
	f := newForm("bias-radar", s.logger, text("a source to analyze"), s.backend.BiasRadar)
	f.onSuccess = func(ctx context.Context, in string, _ *structs.BiasRadar) {
		s.remember(ctx, consts.HistorySources, in)
	}
	return f
}

func (s *Set) MediaAnalysis() *Form[string, structs.MediaAnalysis] {
	f := newForm("media-analysis", s.logger, text("a source or URL"), s.backend.MediaAnalysis)
	f.onSuccess = func(ctx context.Context, in string, _ *structs.MediaAnalysis) {
		s.remember(ctx, consts.HistorySources, in)
	}
	return f
}

func (s *Set) NeutralNews() *Form[string, structs.NeutralNews] {
	return newForm("neutral-news", s.logger, text("an article URL or paste article text"), s.backend.NeutralNews)
}

func (s *Set) SocialContext() *Form[string, structs.SocialMediaContext] {
	return newForm("social-context", s.logger, text("a social media post URL"), s.backend.SocialMediaContext)
}

func (s *Set) Search() *Form[string, structs.SearchResponse] {
	f := newForm("search", s.logger, text("a search query"), s.backend.Search)
	f.onSuccess = func(ctx context.Context, in string, _ *structs.SearchResponse) {
		s.remember(ctx, consts.HistorySearch, in)
	}
	return f
}
