package service

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"

	"github.com/strategia/content-service/internal/analytics"
	"github.com/strategia/content-service/internal/ratelimit"
	"github.com/strategia/content-service/internal/search"
	"github.com/strategia/content-service/pkg/models"
)

// ContactStore persists contact submissions.
type ContactStore interface {
	SaveContactSubmission(*models.ContactSubmission) error
}

// ContactMailer notifies the team about a submission, best-effort.
type ContactMailer interface {
	Enabled() bool
	SendContactNotification(context.Context, *models.ContactSubmission) error
}

// Share platforms the tracking endpoint accepts.
var validPlatforms = map[string]bool{
	"linkedin": true,
	"twitter":  true,
	"facebook": true,
	"whatsapp": true,
	"email":    true,
	"copy":     true,
	"native":   true,
}

// Service wires the immutable content catalog to search, rate limiting,
// analytics and the contact pipeline. The catalog slices are never
// mutated after construction, so they are safe for concurrent reads.
type Service struct {
	articles []*models.Article
	episodes []*models.Episode

	shareLimiter   *ratelimit.Limiter
	contactLimiter *ratelimit.Limiter

	views  *analytics.Recorder
	shares *analytics.Recorder

	contacts ContactStore
	mailer   ContactMailer
	log      *slog.Logger
}

func New(
	articles []*models.Article,
	episodes []*models.Episode,
	shareLimiter, contactLimiter *ratelimit.Limiter,
	views, shares *analytics.Recorder,
	contacts ContactStore,
	m ContactMailer,
	log *slog.Logger,
) *Service {
	return &Service{
		articles:       articles,
		episodes:       episodes,
		shareLimiter:   shareLimiter,
		contactLimiter: contactLimiter,
		views:          views,
		shares:         shares,
		contacts:       contacts,
		mailer:         m,
		log:            log,
	}
}

// SearchResponse carries the results plus the per-type breakdown the
// search page renders as facet counts.
type SearchResponse struct {
	Results   []models.SearchResult
	Breakdown map[string]int
}

// Search runs a full catalog search. Validation happened at the boundary;
// an empty query still short-circuits to an empty response here.
func (s *Service) Search(ctx context.Context, opts search.Options) SearchResponse {
	results := search.Search(s.articles, s.episodes, opts)
	return SearchResponse{Results: results, Breakdown: breakdown(results)}
}

// Suggest returns the autocomplete result set, balanced across types.
func (s *Service) Suggest(ctx context.Context, query string, limit int) SearchResponse {
	results := search.Suggest(s.articles, s.episodes, query, limit)
	return SearchResponse{Results: results, Breakdown: breakdown(results)}
}

func breakdown(results []models.SearchResult) map[string]int {
	b := map[string]int{models.ContentTypeBlog: 0, models.ContentTypePodcast: 0}
	for _, r := range results {
		b[r.Type]++
	}
	return b
}

// ShareRequest is the payload of the share-tracking endpoint.
type ShareRequest struct {
	ContentID   string `json:"contentId"`
	ContentType string `json:"contentType"`
	Platform    string `json:"platform"`
	URL         string `json:"url"`
}

func (r ShareRequest) validate() []string {
	var fields []string
	if strings.TrimSpace(r.ContentID) == "" {
		fields = append(fields, "contentId is required")
	}
	if r.ContentType != models.ContentTypeBlog && r.ContentType != models.ContentTypePodcast {
		fields = append(fields, "contentType must be blog or podcast")
	}
	if !validPlatforms[r.Platform] {
		fields = append(fields, "platform is not supported")
	}
	return fields
}

// TrackShare checks the per-IP window, validates the payload and records
// the share event. Rate limiting runs before any other work.
func (s *Service) TrackShare(ctx context.Context, clientIP string, req ShareRequest) error {
	if res := s.shareLimiter.Check(ctx, clientIP); !res.Allowed {
		return &RateLimitError{Result: res}
	}
	if fields := req.validate(); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}

	err := s.shares.Record(models.AnalyticsEvent{
		Type:        models.EventShare,
		ContentID:   req.ContentID,
		ContentType: req.ContentType,
		Platform:    req.Platform,
		Metadata:    map[string]string{"url": req.URL},
	})
	if err != nil {
		return fmt.Errorf("record share: %w", err)
	}
	return nil
}

// ViewRequest is the payload of the view/recommendation tracking endpoint.
type ViewRequest struct {
	ContentID       string `json:"contentId"`
	ContentType     string `json:"contentType"`
	EventType       string `json:"eventType"`
	SourceContentID string `json:"sourceContentId"`
}

func (r ViewRequest) validate() []string {
	var fields []string
	if strings.TrimSpace(r.ContentID) == "" {
		fields = append(fields, "contentId is required")
	}
	if r.ContentType != models.ContentTypeBlog && r.ContentType != models.ContentTypePodcast {
		fields = append(fields, "contentType must be blog or podcast")
	}
	switch r.EventType {
	case models.EventView, models.EventImpression, models.EventClick:
	default:
		fields = append(fields, "eventType must be view, recommendation_impression or recommendation_click")
	}
	return fields
}

// RecordView appends a view or recommendation event to the view log.
func (s *Service) RecordView(ctx context.Context, req ViewRequest) error {
	if fields := req.validate(); len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	err := s.views.Record(models.AnalyticsEvent{
		Type:            req.EventType,
		ContentID:       req.ContentID,
		ContentType:     req.ContentType,
		SourceContentID: req.SourceContentID,
	})
	if err != nil {
		return fmt.Errorf("record view: %w", err)
	}
	return nil
}

// ContactRequest is the payload of the contact endpoint.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Company string `json:"company"`
	Message string `json:"message"`
}

func (r ContactRequest) validate() []string {
	var fields []string
	if strings.TrimSpace(r.Name) == "" {
		fields = append(fields, "name is required")
	}
	if _, err := mail.ParseAddress(r.Email); err != nil {
		fields = append(fields, "email is not a valid address")
	}
	if strings.TrimSpace(r.Message) == "" {
		fields = append(fields, "message is required")
	}
	return fields
}

// SubmitContact persists the submission and mails the notification.
// Mail failure is logged and swallowed; the submission is already safe
// in the database by then.
func (s *Service) SubmitContact(ctx context.Context, clientIP string, req ContactRequest) (*models.ContactSubmission, error) {
	if res := s.contactLimiter.Check(ctx, clientIP); !res.Allowed {
		return nil, &RateLimitError{Result: res}
	}
	if fields := req.validate(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	sub := &models.ContactSubmission{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.TrimSpace(req.Email),
		Company: strings.TrimSpace(req.Company),
		Message: strings.TrimSpace(req.Message),
	}
	if err := s.contacts.SaveContactSubmission(sub); err != nil {
		return nil, fmt.Errorf("save contact submission: %w", err)
	}

	if s.mailer != nil && s.mailer.Enabled() {
		if err := s.mailer.SendContactNotification(ctx, sub); err != nil {
			s.log.Warn("contact notification mail failed", "submission", sub.ID, "error", err)
		}
	}
	return sub, nil
}

// ViewStatistics aggregates the view log over the trailing window.
func (s *Service) ViewStatistics(windowDays int) analytics.Statistics {
	return s.views.Statistics(windowDays)
}

// ShareStatistics aggregates the share log over the trailing window.
func (s *Service) ShareStatistics(windowDays int) analytics.ShareStats {
	return s.shares.ShareStatistics(windowDays)
}

// PruneLimiters drops expired rate-limit state; scheduled hourly.
func (s *Service) PruneLimiters() {
	s.shareLimiter.Prune()
	s.contactLimiter.Prune()
}
