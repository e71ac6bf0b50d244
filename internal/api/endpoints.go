package api

import (
	"context"
	"net/url"

	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/consts"
	"github.com/LaZy-Wolf/LUMINA--Tool-for-Combating-Misinformation/internal/structs"
)

type FactCheckRequest struct {
	Claim string
	// Image is optional; the backend reads the claim from it with OCR.
	Image    *structs.Upload
	Language string
	// MultiClaim sends the text in the "claims" field, which makes the
	// backend answer with a results list.
	MultiClaim bool
}

func (c *Client) FactCheck(ctx context.Context, req FactCheckRequest) (*structs.FactCheckResponse, error) {
	var form multipartForm
	if req.MultiClaim {
		form.addField("claims", req.Claim)
	} else {
		form.addField("claim", req.Claim)
	}
	if req.Language != "" {
		form.addField("preferred_language", req.Language)
	}
	if req.Image != nil && !req.Image.Empty() {
		form.addFile("image", *req.Image)
	}

	var resp structs.FactCheckResponse
	if err := c.postMultipart(ctx, consts.EndpointFactCheck, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ImageAuthenticity(ctx context.Context, image structs.Upload) (*structs.MediaAuthenticity, error) {
	var form multipartForm
	form.addFile("image", image)

	var resp structs.MediaAuthenticity
	if err := c.postMultipart(ctx, consts.EndpointImageAuthenticity, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) VideoAuthenticity(ctx context.Context, video structs.Upload) (*structs.MediaAuthenticity, error) {
	var form multipartForm
	form.addFile("video", video)

	var resp structs.MediaAuthenticity
	if err := c.postMultipart(ctx, consts.EndpointVideoAuthenticity, form, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// URLSafety posts JSON to /api/url-safety, or a multipart form to
// /api/url-safety-form when asForm is set.
func (c *Client) URLSafety(ctx context.Context, target string, asForm bool) (*structs.URLSafety, error) {
	var resp structs.URLSafety
	var err error
	if asForm {
		var form multipartForm
		form.addField("url", target)
		err = c.postMultipart(ctx, consts.EndpointURLSafetyForm, form, &resp)
	} else {
		err = c.postJSON(ctx, consts.EndpointURLSafety, map[string]string{"url": target}, &resp)
	}
	if err != nil {
		return nil, err
	}
	if resp.URL == "" {
		resp.URL = target
	}
	return &resp, nil
}

func (c *Client) BiasRadar(ctx context.Context, source string) (*structs.BiasRadar, error) {
	var resp structs.BiasRadar
	if err := c.postJSON(ctx, consts.EndpointBiasRadar, map[string]string{"source": source}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) MediaAnalysis(ctx context.Context, input string) (*structs.MediaAnalysis, error) {
	var resp structs.MediaAnalysis
	if err := c.postJSON(ctx, consts.EndpointMediaAnalysis, map[string]string{"input": input}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) NeutralNews(ctx context.Context, articleURL string) (*structs.NeutralNews, error) {
	var resp structs.NeutralNews
	if err := c.postJSON(ctx, consts.EndpointNeutralNews, map[string]string{"article_url": articleURL}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) SocialMediaContext(ctx context.Context, postURL string) (*structs.SocialMediaContext, error) {
	var resp structs.SocialMediaContext
	if err := c.postJSON(ctx, consts.EndpointSocialMediaContext, map[string]string{"post_url": postURL}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Search(ctx context.Context, query string) (*structs.SearchResponse, error) {
	var resp structs.SearchResponse
	if err := c.get(ctx, consts.EndpointSearch, url.Values{"query": {query}}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) BatchFactCheck(ctx context.Context, claims []string) (*structs.BatchResponse, error) {
	var resp structs.BatchResponse
	if err := c.postJSON(ctx, consts.EndpointBatchFactCheck, map[string][]string{"claims": claims}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Health(ctx context.Context) (*structs.Health, error) {
	var resp structs.Health
	if err := c.get(ctx, consts.EndpointHealth, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
