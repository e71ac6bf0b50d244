package consts

import (
	"time"
)

const (
	DefaultBackendURL = "http://127.0.0.1:8000"
	DefaultTimeout    = 120 * time.Second
	DefaultLanguage   = "en"
	DefaultListenAddr = ":3000"

	MaxBatchClaims = 5

	MaxImageBytes = 10 * 1024 * 1024
	MaxVideoBytes = 15 * 1024 * 1024

	HistorySize = 10

	RedisHistoryKey = "lumina:history:"
)

type Endpoint string

func (e Endpoint) String() string {
	return string(e)
}

const (
	EndpointFactCheck          Endpoint = "/api/fact-check"
	EndpointImageAuthenticity  Endpoint = "/api/image-authenticity"
	EndpointVideoAuthenticity  Endpoint = "/api/video-authenticity"
	EndpointURLSafety          Endpoint = "/api/url-safety"
	EndpointURLSafetyForm      Endpoint = "/api/url-safety-form"
	EndpointBiasRadar          Endpoint = "/api/bias-radar"
	EndpointMediaAnalysis      Endpoint = "/api/media-analysis"
	EndpointNeutralNews        Endpoint = "/api/neutral-news"
	EndpointSocialMediaContext Endpoint = "/api/social-media-context"
	EndpointSearch             Endpoint = "/api/search"
	EndpointBatchFactCheck     Endpoint = "/api/batch-fact-check"
	EndpointHealth             Endpoint = "/health"
)

// HistoryKind names a recent-history list.
type HistoryKind string

func (k HistoryKind) String() string {
	return string(k)
}

const (
	HistoryURLs    HistoryKind = "urls"
	HistorySearch  HistoryKind = "search"
	HistorySources HistoryKind = "sources"
)

var (
	// Languages offered by the fact-check form.
	Languages = map[string]string{
		"en": "English",
		"es": "Spanish",
		"fr": "French",
		"de": "German",
		"it": "Italian",
		"pt": "Portuguese",
		"zh": "Chinese",
	}
)
