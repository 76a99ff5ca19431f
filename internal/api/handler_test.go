package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strategia/content-service/internal/analytics"
	"github.com/strategia/content-service/internal/ratelimit"
	"github.com/strategia/content-service/internal/service"
	"github.com/strategia/content-service/pkg/models"
)

type memContacts struct{}

func (memContacts) SaveContactSubmission(sub *models.ContactSubmission) error {
	sub.ID = "sub-1"
	return nil
}

type noMailer struct{}

func (noMailer) Enabled() bool { return false }
func (noMailer) SendContactNotification(context.Context, *models.ContactSubmission) error {
	return nil
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	articles := []*models.Article{
		{ID: "a1", Title: "Implementación ERP", Excerpt: "Guía completa", PublishedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)},
		{ID: "a2", Title: "Gobernanza Corporativa", Body: "Un ERP exige método.", PublishedAt: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)},
	}
	episodes := []*models.Episode{
		{ID: "e1", Title: "ERP en la práctica", Description: "Casos", PublishedAt: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)},
	}

	svc := service.New(
		articles, episodes,
		ratelimit.New("share", 20, time.Minute, log),
		ratelimit.New("contact", 5, 10*time.Minute, log),
		analytics.NewRecorder(1000),
		analytics.NewRecorder(500),
		memContacts{}, noMailer{}, log,
	)

	r := gin.New()
	RegisterRoutes(r, NewHandler(svc, log))
	return r
}

func doJSON(r *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSearchEnvelope(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/v1/search?q=erp", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "public, max-age=60", w.Header().Get("Cache-Control"))

	var resp struct {
		Success      bool                  `json:"success"`
		Query        string                `json:"query"`
		Type         string                `json:"type"`
		SortBy       string                `json:"sortBy"`
		TotalResults int                   `json:"totalResults"`
		Results      []models.SearchResult `json:"results"`
		Breakdown    map[string]int        `json:"breakdown"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "erp", resp.Query)
	assert.Equal(t, "all", resp.Type)
	assert.Equal(t, "relevance", resp.SortBy)
	assert.Equal(t, 3, resp.TotalResults)
	assert.Equal(t, 2, resp.Breakdown["blog"])
	assert.Equal(t, 1, resp.Breakdown["podcast"])

	// result items follow the envelope's camelCase convention
	assert.Contains(t, w.Body.String(), `"relevanceScore"`)
	assert.Contains(t, w.Body.String(), `"publishedAt"`)
}

func TestSearchMissingQuery(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(r, http.MethodGet, "/v1/search", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), `"success":false`)
}

func TestSearchRejectsBadParams(t *testing.T) {
	r := newTestRouter(t)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/v1/search?q=erp&type=video", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/v1/search?q=erp&limit=0", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/v1/search?q=erp&limit=abc", nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/v1/search?q=erp&sortBy=title", nil).Code)
}

func TestSearchSuggestionsMode(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/v1/search?q=e&suggestions=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		TotalResults int `json:"totalResults"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Zero(t, resp.TotalResults, "single-character query returns nothing")

	w = doJSON(r, http.MethodGet, "/v1/search?q=erp&suggestions=true", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.TotalResults)
}

func TestTrackShareEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(r, http.MethodPost, "/v1/share", service.ShareRequest{
		ContentID:   "a1",
		ContentType: "blog",
		Platform:    "linkedin",
		URL:         "https://example.com/blog/a1",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodPost, "/v1/share", service.ShareRequest{Platform: "myspace"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "fields")
}

func TestTrackShareRateLimitHeaders(t *testing.T) {
	r := newTestRouter(t)
	body := service.ShareRequest{ContentID: "a1", ContentType: "blog", Platform: "copy"}

	var w *httptest.ResponseRecorder
	for i := 0; i < 21; i++ {
		w = doJSON(r, http.MethodPost, "/v1/share", body)
	}
	require.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "20", w.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	reset := w.Header().Get("X-RateLimit-Reset")
	_, err := time.Parse(time.RFC3339, reset)
	assert.NoError(t, err)
}

func TestContactEndpoint(t *testing.T) {
	r := newTestRouter(t)
	w := doJSON(r, http.MethodPost, "/v1/contact", service.ContactRequest{
		Name: "Ana", Email: "ana@example.com", Message: "Hola",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sub-1")

	w = doJSON(r, http.MethodPost, "/v1/contact", service.ContactRequest{Email: "not-an-email"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestContactRateLimit(t *testing.T) {
	r := newTestRouter(t)
	body := service.ContactRequest{Name: "Ana", Email: "ana@example.com", Message: "Hola"}

	var w *httptest.ResponseRecorder
	for i := 0; i < 6; i++ {
		w = doJSON(r, http.MethodPost, "/v1/contact", body)
	}
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
}

func TestViewsFeedAnalyticsEndpoint(t *testing.T) {
	r := newTestRouter(t)

	for i := 0; i < 2; i++ {
		w := doJSON(r, http.MethodPost, "/v1/views", service.ViewRequest{
			ContentID: "a1", ContentType: "blog", EventType: models.EventImpression,
		})
		require.Equal(t, http.StatusOK, w.Code)
	}
	w := doJSON(r, http.MethodPost, "/v1/views", service.ViewRequest{
		ContentID: "a1", ContentType: "blog", EventType: models.EventClick,
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/v1/analytics/views?days=7", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Stats analytics.Statistics `json:"stats"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 3, resp.Stats.TotalEvents)
	assert.InDelta(t, 50.0, resp.Stats.ClickThrough, 1e-9)
}

func TestAnalyticsDaysValidation(t *testing.T) {
	r := newTestRouter(t)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/v1/analytics/shares?days=-1", nil).Code)
}

func TestSearchLimitIsCapped(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	// a catalog well beyond the cap so the truncation is observable
	var articles []*models.Article
	for i := 0; i < 60; i++ {
		articles = append(articles, &models.Article{
			ID:          fmt.Sprintf("a%d", i),
			Title:       "Estrategia de crecimiento",
			PublishedAt: time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC),
		})
	}
	svc := service.New(
		articles, nil,
		ratelimit.New("share", 20, time.Minute, log),
		ratelimit.New("contact", 5, 10*time.Minute, log),
		analytics.NewRecorder(1000),
		analytics.NewRecorder(500),
		memContacts{}, noMailer{}, log,
	)
	r := gin.New()
	RegisterRoutes(r, NewHandler(svc, log))

	w := doJSON(r, http.MethodGet, "/v1/search?q=estrategia&limit=500", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		TotalResults int                   `json:"totalResults"`
		Results      []models.SearchResult `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 50, resp.TotalResults)
	assert.Len(t, resp.Results, 50)
}

func TestParseLimit(t *testing.T) {
	l, err := parseLimit("10")
	require.NoError(t, err)
	assert.Equal(t, 10, l)

	l, err = parseLimit("500")
	require.NoError(t, err)
	assert.Equal(t, maxLimit, l)

	for _, bad := range []string{"0", "-3", "abc", ""} {
		_, err := parseLimit(bad)
		assert.Error(t, err, "limit %q should be rejected", bad)
	}
}
