package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/strategia/content-service/internal/search"
	"github.com/strategia/content-service/internal/service"
)

const (
	defaultLimit = 10
	maxLimit     = 50
)

type Handler struct {
	svc *service.Service
	log *slog.Logger
}

func NewHandler(svc *service.Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func RegisterRoutes(r *gin.Engine, h *Handler) {
	v1 := r.Group("/v1")
	{
		v1.GET("/search", h.Search)
		v1.POST("/share", h.TrackShare)
		v1.POST("/views", h.RecordView)
		v1.POST("/contact", h.SubmitContact)
		v1.GET("/analytics/views", h.ViewStats)
		v1.GET("/analytics/shares", h.ShareStats)
	}
}

// Search: GET /v1/search?q=...&type=all&limit=10&sortBy=relevance&suggestions=false
func (h *Handler) Search(c *gin.Context) {
	q := c.Query("q")
	if q == "" {
		badRequest(c, "missing required parameter q")
		return
	}

	typeFilter := c.DefaultQuery("type", search.TypeAll)
	switch typeFilter {
	case search.TypeAll, search.TypeBlog, search.TypePodcast:
	default:
		badRequest(c, "type must be all, blog or podcast")
		return
	}

	sortBy := c.DefaultQuery("sortBy", search.SortRelevance)
	if sortBy != search.SortRelevance && sortBy != search.SortDate {
		badRequest(c, "sortBy must be relevance or date")
		return
	}

	limit, err := parseLimit(c.DefaultQuery("limit", strconv.Itoa(defaultLimit)))
	if err != nil {
		badRequest(c, "limit must be a positive integer")
		return
	}

	suggestions := c.Query("suggestions") == "true"

	var resp service.SearchResponse
	if suggestions {
		resp = h.svc.Suggest(c.Request.Context(), q, limit)
	} else {
		resp = h.svc.Search(c.Request.Context(), search.Options{
			Query:  q,
			Type:   typeFilter,
			Limit:  limit,
			SortBy: sortBy,
		})
	}

	c.Header("Cache-Control", "public, max-age=60")
	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"query":        q,
		"type":         typeFilter,
		"sortBy":       sortBy,
		"totalResults": len(resp.Results),
		"results":      resp.Results,
		"breakdown": gin.H{
			"blog":    resp.Breakdown["blog"],
			"podcast": resp.Breakdown["podcast"],
		},
	})
}

// TrackShare: POST /v1/share
func (h *Handler) TrackShare(c *gin.Context) {
	var req service.ShareRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, "invalid json: "+err.Error())
		return
	}

	if err := h.svc.TrackShare(c.Request.Context(), c.ClientIP(), req); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "share recorded"})
}

// RecordView: POST /v1/views
func (h *Handler) RecordView(c *gin.Context) {
	var req service.ViewRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, "invalid json: "+err.Error())
		return
	}

	if err := h.svc.RecordView(c.Request.Context(), req); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "event recorded"})
}

// SubmitContact: POST /v1/contact
func (h *Handler) SubmitContact(c *gin.Context) {
	var req service.ContactRequest
	if err := c.BindJSON(&req); err != nil {
		badRequest(c, "invalid json: "+err.Error())
		return
	}

	sub, err := h.svc.SubmitContact(c.Request.Context(), c.ClientIP(), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "id": sub.ID})
}

// ViewStats: GET /v1/analytics/views?days=30
func (h *Handler) ViewStats(c *gin.Context) {
	days, err := parseDays(c.DefaultQuery("days", "30"))
	if err != nil {
		badRequest(c, "days must be a positive integer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": h.svc.ViewStatistics(days)})
}

// ShareStats: GET /v1/analytics/shares?days=30
func (h *Handler) ShareStats(c *gin.Context) {
	days, err := parseDays(c.DefaultQuery("days", "30"))
	if err != nil {
		badRequest(c, "days must be a positive integer")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "stats": h.svc.ShareStatistics(days)})
}

// writeError maps service errors onto the response taxonomy: 400 with
// field messages, 429 with retry metadata, 500 with a generic message
// that leaks nothing.
func (h *Handler) writeError(c *gin.Context, err error) {
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "validation failed", "fields": verr.Fields})
		return
	}

	var rerr *service.RateLimitError
	if errors.As(err, &rerr) {
		res := rerr.Result
		retryAfter := int(time.Until(res.ResetAt).Seconds())
		if retryAfter < 0 {
			retryAfter = 0
		}
		c.Header("Retry-After", strconv.Itoa(retryAfter))
		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Header("X-RateLimit-Reset", res.ResetAt.UTC().Format(time.RFC3339))
		c.JSON(http.StatusTooManyRequests, gin.H{"success": false, "error": "too many requests"})
		return
	}

	h.log.Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal server error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": msg})
}

// parseLimit enforces a positive integer capped at maxLimit.
func parseLimit(s string) (int, error) {
	l, err := strconv.Atoi(s)
	if err != nil || l <= 0 {
		return 0, errors.New("invalid limit")
	}
	if l > maxLimit {
		l = maxLimit
	}
	return l, nil
}

func parseDays(s string) (int, error) {
	d, err := strconv.Atoi(s)
	if err != nil || d <= 0 {
		return 0, errors.New("invalid days")
	}
	return d, nil
}
