// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package candidates

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/time/rate"

	"github.com/tomtom215/recipebox/internal/recipe"
)

// maxResponseBytes caps how much of an upstream body is decoded.
const maxResponseBytes = 8 << 20

// HTTPConfig configures an HTTPSource.
type HTTPConfig struct {
	// URL is the batch endpoint. The batch size is sent as ?number=n.
	URL string

	// APIKey is sent as the X-API-Key header when set.
	APIKey string

	// Timeout bounds a single request. Zero leaves it to the context.
	Timeout time.Duration

	// RatePerSecond limits outbound requests. Zero disables the limit.
	RatePerSecond float64
	Burst         int
}

// HTTPSource fetches candidates from an external recipe API.
//
// The upstream returns {"recipes": [...]} with records in the same JSON
// shape as recipe.Recipe.
type HTTPSource struct {
	cfg     HTTPConfig
	client  *http.Client
	limiter *rate.Limiter
}

// NewHTTPSource creates an HTTP source. client may be nil.
func NewHTTPSource(cfg HTTPConfig, client *http.Client) (*HTTPSource, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid candidate source URL %q", cfg.URL)
	}
	if client == nil {
		client = &http.Client{Timeout: cfg.Timeout}
	}
	s := &HTTPSource{cfg: cfg, client: client}
	if cfg.RatePerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}
	return s, nil
}

type batchResponse struct {
	Recipes []recipe.Recipe `json:"recipes"`
}

// FetchBatch requests up to n recipes. Records without a valid ID are
// dropped.
func (s *HTTPSource) FetchBatch(ctx context.Context, n int) ([]recipe.Recipe, error) {
	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	u, _ := url.Parse(s.cfg.URL) //nolint:errcheck // validated in NewHTTPSource
	q := u.Query()
	q.Set("number", strconv.Itoa(n))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	if s.cfg.APIKey != "" {
		req.Header.Set("X-API-Key", s.cfg.APIKey)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("candidate fetch: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("candidate fetch failed with status %d", resp.StatusCode)
	}

	var body batchResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode candidates: %w", err)
	}

	out := sanitize(body.Recipes)
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out, nil
}
