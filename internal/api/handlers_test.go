// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/tomtom215/recipebox/internal/middleware"
	"github.com/tomtom215/recipebox/internal/models"
	"github.com/tomtom215/recipebox/internal/recipe"
	"github.com/tomtom215/recipebox/internal/recommend"
	"github.com/tomtom215/recipebox/internal/recommend/candidates"
	"github.com/tomtom215/recipebox/internal/recommend/storage"
)

type testServer struct {
	store   *storage.MemoryStore
	engine  *recommend.Engine
	handler http.Handler
}

func newTestServer(t *testing.T, cfg HandlerConfig, mw *ChiMiddlewareConfig) *testServer {
	t.Helper()

	store := storage.NewMemoryStore()
	engine, err := recommend.NewEngine(recommend.DefaultConfig(), recommend.StoresFrom(store), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}

	if cfg.Recipes == nil {
		cfg.Recipes = store
	}
	if cfg.Source == nil {
		cfg.Source = candidates.NewStoreSource(store, recipe.Filter{})
	}
	if mw == nil {
		mw = DefaultChiMiddlewareConfig()
		mw.RateLimitDisabled = true
	}

	h := NewHandler(engine, cfg, zerolog.Nop())
	return &testServer{
		store:   store,
		engine:  engine,
		handler: NewRouter(h, NewChiMiddleware(mw)).SetupChi(),
	}
}

func (s *testServer) do(t *testing.T, method, target, body string) (*httptest.ResponseRecorder, models.APIResponse) {
	t.Helper()

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	var resp models.APIResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not JSON: %v: %s", err, rec.Body.String())
	}
	return rec, resp
}

func (s *testServer) seed(t *testing.T, recipes ...recipe.Recipe) {
	t.Helper()
	for _, r := range recipes {
		if err := s.store.PutRecipe(context.Background(), r); err != nil {
			t.Fatalf("PutRecipe(%s) error = %v", r.ID, err)
		}
	}
}

func dataMap(t *testing.T, resp models.APIResponse) map[string]interface{} {
	t.Helper()
	m, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data is %T, want object", resp.Data)
	}
	return m
}

func errorCode(resp models.APIResponse) string {
	if resp.Error == nil {
		return ""
	}
	return resp.Error.Code
}

func TestSimilarity(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		body     string
		wantCode int
		wantErr  string
	}{
		{
			name:     "valid pair",
			body:     `{"input":{"title":"Chicken Curry","ingredients":["chicken","rice"],"cuisine":"indian"},"candidate":{"id":"r1","title":"Chicken Curry","ingredients":["chicken","rice"],"cuisine":"indian"}}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "explicit weights",
			body:     `{"input":{"title":"Soup"},"candidate":{"id":"r1","title":"Soup"},"weights":{"title":1}}`,
			wantCode: http.StatusOK,
		},
		{
			name:     "malformed json",
			body:     `{"input":`,
			wantCode: http.StatusBadRequest,
			wantErr:  models.ErrCodeInvalidJSON,
		},
		{
			name:     "unknown feature weight",
			body:     `{"input":{},"candidate":{},"weights":{"color":1}}`,
			wantCode: http.StatusBadRequest,
			wantErr:  models.ErrCodeValidation,
		},
		{
			name:     "negative weight",
			body:     `{"input":{},"candidate":{},"weights":{"title":-1}}`,
			wantCode: http.StatusBadRequest,
			wantErr:  models.ErrCodeValidation,
		},
		{
			name:     "invalid user id",
			body:     `{"user_id":"not valid!","input":{},"candidate":{}}`,
			wantCode: http.StatusBadRequest,
			wantErr:  models.ErrCodeValidation,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t, HandlerConfig{}, nil)

			rec, resp := s.do(t, http.MethodPost, "/api/v1/similarity", tt.body)
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if got := errorCode(resp); got != tt.wantErr {
				t.Errorf("error code = %q, want %q", got, tt.wantErr)
			}
			if tt.wantErr != "" {
				return
			}
			score, ok := dataMap(t, resp)["score"].(float64)
			if !ok || score < 0 || score > 1 {
				t.Errorf("score = %v, want value in [0,1]", dataMap(t, resp)["score"])
			}
		})
	}
}

func TestWarnings_UsesStoreWhenNoCandidates(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, HandlerConfig{}, nil)
	s.seed(t,
		recipe.Recipe{ID: "a", Title: "Pancakes"},
		recipe.Recipe{ID: "b", Title: "Waffles"},
		recipe.Recipe{ID: "c", Title: "Crepes"},
	)

	rec, resp := s.do(t, http.MethodPost, "/api/v1/warnings", `{"input":{"id":"a","title":"Pancakes"}}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := dataMap(t, resp)["compared"]; got != float64(2) {
		t.Errorf("compared = %v, want 2 (input excluded)", got)
	}
}

func TestWarnings_ExplicitCandidates(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, HandlerConfig{}, nil)

	body := `{"input":{"title":"Pancakes"},"candidates":[{"id":"x","title":"Pancakes"}]}`
	rec, resp := s.do(t, http.MethodPost, "/api/v1/warnings", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := dataMap(t, resp)["compared"]; got != float64(1) {
		t.Errorf("compared = %v, want 1", got)
	}

	// Candidates must carry an ID.
	rec, resp = s.do(t, http.MethodPost, "/api/v1/warnings", `{"input":{},"candidates":[{"title":"x"}]}`)
	if rec.Code != http.StatusBadRequest || errorCode(resp) != models.ErrCodeValidation {
		t.Errorf("status = %d code = %q, want 400 %s", rec.Code, errorCode(resp), models.ErrCodeValidation)
	}
}

func TestRecordInteraction(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, HandlerConfig{}, nil)

	body := `{"event_id":"evt-1","user_id":"u1","subject_ids":["r1"],"decision":"liked","features":{"title":0.8}}`

	rec, resp := s.do(t, http.MethodPost, "/api/v1/interactions", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("first status = %d: %s", rec.Code, rec.Body.String())
	}
	data := dataMap(t, resp)
	if data["recorded"] != true || data["count"] != float64(1) {
		t.Errorf("first data = %v", data)
	}
	if data["learned"] != false {
		t.Errorf("learned before min interactions: %v", data["learned"])
	}

	rec, resp = s.do(t, http.MethodPost, "/api/v1/interactions", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("duplicate status = %d: %s", rec.Code, rec.Body.String())
	}
	if dataMap(t, resp)["duplicate"] != true {
		t.Errorf("duplicate flag missing: %v", resp.Data)
	}

	n, err := s.store.CountInteractions(context.Background(), "u1", recipe.SignalLike)
	if err != nil {
		t.Fatalf("CountInteractions() error = %v", err)
	}
	if n != 1 {
		t.Errorf("stored interactions = %d, want 1", n)
	}
}

func TestRecordInteraction_Validation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"missing user", `{"decision":"liked"}`},
		{"unknown decision", `{"user_id":"u1","decision":"loved"}`},
		{"unknown signal", `{"user_id":"u1","decision":"liked","signal":"share"}`},
		{"score out of range", `{"user_id":"u1","decision":"liked","score":1.5}`},
		{"bad subject id", `{"user_id":"u1","decision":"liked","subject_ids":["a b"]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t, HandlerConfig{}, nil)

			rec, resp := s.do(t, http.MethodPost, "/api/v1/interactions", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400: %s", rec.Code, rec.Body.String())
			}
			if errorCode(resp) != models.ErrCodeValidation {
				t.Errorf("code = %q, want %s", errorCode(resp), models.ErrCodeValidation)
			}
		})
	}
}

func TestRecordInteraction_BodyTooLarge(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, HandlerConfig{MaxBodyBytes: 16}, nil)

	rec, _ := s.do(t, http.MethodPost, "/api/v1/interactions", `{"user_id":"u1","decision":"liked","features":{}}`)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413", rec.Code)
	}
}

func TestWeightsEndpoints(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		method   string
		target   string
		wantCode int
		wantErr  string
	}{
		{"defaults", http.MethodGet, "/api/v1/weights/u1/similarity", http.StatusOK, ""},
		{"signal without model", http.MethodGet, "/api/v1/weights/u1/view", http.StatusBadRequest, models.ErrCodeInvalidSignal},
		{"unknown signal", http.MethodGet, "/api/v1/weights/u1/share", http.StatusBadRequest, models.ErrCodeInvalidSignal},
		{"invalid user", http.MethodGet, "/api/v1/weights/bad%20user/like", http.StatusBadRequest, models.ErrCodeInvalidUserID},
		{"metrics before training", http.MethodGet, "/api/v1/weights/u1/like/metrics", http.StatusNotFound, models.ErrCodeNotFound},
		{"train enqueues", http.MethodPost, "/api/v1/weights/u1/save/train", http.StatusAccepted, ""},
		{"train wrong method", http.MethodGet, "/api/v1/weights/u1/save/train", http.StatusMethodNotAllowed, models.ErrCodeMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			s := newTestServer(t, HandlerConfig{}, nil)

			rec, resp := s.do(t, tt.method, tt.target, "")
			if rec.Code != tt.wantCode {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
			if got := errorCode(resp); got != tt.wantErr {
				t.Errorf("error code = %q, want %q", got, tt.wantErr)
			}
		})
	}
}

func TestGetWeights_ReturnsStored(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, HandlerConfig{}, nil)

	stored := recipe.WeightVector{recipe.FeatureTitle: 0.7, recipe.FeatureCuisine: 0.3}
	if err := s.store.PutWeights(context.Background(), "u1", recipe.SignalLike, stored); err != nil {
		t.Fatalf("PutWeights() error = %v", err)
	}

	rec, resp := s.do(t, http.MethodGet, "/api/v1/weights/u1/like", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	weights, ok := dataMap(t, resp)["weights"].(map[string]interface{})
	if !ok {
		t.Fatalf("weights = %v", dataMap(t, resp)["weights"])
	}
	if weights["title"] != 0.7 || weights["cuisine"] != 0.3 || len(weights) != 2 {
		t.Errorf("weights = %v, want stored vector", weights)
	}
}

func TestTrainWeights_QueueFull(t *testing.T) {
	t.Parallel()

	store := storage.NewMemoryStore()
	cfg := recommend.DefaultConfig()
	cfg.Training.QueueSize = 1
	engine, err := recommend.NewEngine(cfg, recommend.StoresFrom(store), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitDisabled = true
	s := &testServer{
		store:   store,
		engine:  engine,
		handler: NewRouter(NewHandler(engine, HandlerConfig{Recipes: store}, zerolog.Nop()), NewChiMiddleware(mw)).SetupChi(),
	}

	if rec, _ := s.do(t, http.MethodPost, "/api/v1/weights/u1/like/train", ""); rec.Code != http.StatusAccepted {
		t.Fatalf("first train status = %d", rec.Code)
	}
	rec, resp := s.do(t, http.MethodPost, "/api/v1/weights/u2/like/train", "")
	if rec.Code != http.StatusTooManyRequests || errorCode(resp) != models.ErrCodeQueueFull {
		t.Errorf("status = %d code = %q, want 429 %s", rec.Code, errorCode(resp), models.ErrCodeQueueFull)
	}
}

func TestGetRecommendations(t *testing.T) {
	t.Parallel()

	t.Run("store candidates", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, HandlerConfig{}, nil)
		s.seed(t, recipe.Recipe{ID: "a", Title: "Soup"}, recipe.Recipe{ID: "b", Title: "Stew"})

		rec, resp := s.do(t, http.MethodGet, "/api/v1/recommendations/u1?limit=1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		items, ok := dataMap(t, resp)["items"].([]interface{})
		if !ok || len(items) > 1 {
			t.Errorf("items = %v, want at most 1", dataMap(t, resp)["items"])
		}
	})

	t.Run("failing source falls back", func(t *testing.T) {
		t.Parallel()
		failing := candidates.SourceFunc(func(context.Context, int) ([]recipe.Recipe, error) {
			return nil, errors.New("upstream down")
		})
		s := newTestServer(t, HandlerConfig{Source: failing}, nil)

		rec, resp := s.do(t, http.MethodGet, "/api/v1/recommendations/u1", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		if reason := dataMap(t, resp)["reason"]; reason == nil || reason == "" {
			t.Errorf("reason = %v, want fallback reason", reason)
		}
	})

	t.Run("invalid user", func(t *testing.T) {
		t.Parallel()
		s := newTestServer(t, HandlerConfig{}, nil)

		rec, resp := s.do(t, http.MethodGet, "/api/v1/recommendations/bad%20user", "")
		if rec.Code != http.StatusBadRequest || errorCode(resp) != models.ErrCodeInvalidUserID {
			t.Errorf("status = %d code = %q", rec.Code, errorCode(resp))
		}
	})
}

func TestSearchRecipes(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, HandlerConfig{}, nil)
	s.seed(t,
		recipe.Recipe{ID: "a", Title: "Green Curry", Cuisine: "thai"},
		recipe.Recipe{ID: "b", Title: "Red Curry", Cuisine: "indian"},
		recipe.Recipe{ID: "c", Title: "Pancakes"},
	)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/recipes/search?q=curry&cuisine=thai", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if got := dataMap(t, resp)["count"]; got != float64(1) {
		t.Errorf("count = %v, want 1", got)
	}

	rec, resp = s.do(t, http.MethodGet, "/api/v1/recipes/search", "")
	if rec.Code != http.StatusBadRequest || errorCode(resp) != models.ErrCodeValidation {
		t.Errorf("missing q: status = %d code = %q", rec.Code, errorCode(resp))
	}
}

func TestHealthEndpoints(t *testing.T) {
	t.Parallel()

	ok := ReadinessCheck{Name: "store", Check: func(context.Context) error { return nil }}
	down := ReadinessCheck{Name: "redis", Check: func(context.Context) error { return errors.New("connection refused") }}

	tests := []struct {
		name     string
		checks   []ReadinessCheck
		target   string
		wantCode int
	}{
		{"live ignores checks", []ReadinessCheck{down}, "/api/v1/health/live", http.StatusOK},
		{"ready", []ReadinessCheck{ok}, "/api/v1/health/ready", http.StatusOK},
		{"not ready", []ReadinessCheck{ok, down}, "/api/v1/health/ready", http.StatusServiceUnavailable},
		{"summary", []ReadinessCheck{ok}, "/api/v1/health", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			perf := middleware.NewPerformanceMonitor(100, time.Second, zerolog.Nop())
			s := newTestServer(t, HandlerConfig{Checks: tt.checks, Perf: perf, Version: "test"}, nil)

			rec, _ := s.do(t, http.MethodGet, tt.target, "")
			if rec.Code != tt.wantCode {
				t.Errorf("status = %d, want %d: %s", rec.Code, tt.wantCode, rec.Body.String())
			}
		})
	}
}

func TestRouter_NotFoundEnvelope(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, HandlerConfig{}, nil)

	rec, resp := s.do(t, http.MethodGet, "/api/v1/nothing-here", "")
	if rec.Code != http.StatusNotFound || errorCode(resp) != models.ErrCodeNotFound {
		t.Errorf("status = %d code = %q", rec.Code, errorCode(resp))
	}
	if rec.Header().Get(middleware.RequestIDHeader) == "" {
		t.Error("request id header missing")
	}
}

func TestRouter_RateLimit(t *testing.T) {
	t.Parallel()

	mw := DefaultChiMiddlewareConfig()
	mw.RateLimitRequests = 1
	mw.RateLimitWindow = time.Hour
	s := newTestServer(t, HandlerConfig{}, mw)

	if rec, _ := s.do(t, http.MethodGet, "/api/v1/recipes/search?q=x", ""); rec.Code != http.StatusOK {
		t.Fatalf("first status = %d", rec.Code)
	}
	rec, resp := s.do(t, http.MethodGet, "/api/v1/recipes/search?q=x", "")
	if rec.Code != http.StatusTooManyRequests || errorCode(resp) != models.ErrCodeRateLimitExceeded {
		t.Errorf("status = %d code = %q, want 429", rec.Code, errorCode(resp))
	}

	// Health has its own budget.
	if rec, _ := s.do(t, http.MethodGet, "/api/v1/health/live", ""); rec.Code != http.StatusOK {
		t.Errorf("health status = %d, want 200", rec.Code)
	}
}

func TestRouter_SecurityHeaders(t *testing.T) {
	t.Parallel()
	s := newTestServer(t, HandlerConfig{}, nil)

	rec, _ := s.do(t, http.MethodGet, "/api/v1/weights/u1/like", "")
	if got := rec.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q", got)
	}
	if got := rec.Header().Get("Cache-Control"); got != "no-store" {
		t.Errorf("Cache-Control = %q", got)
	}
}
