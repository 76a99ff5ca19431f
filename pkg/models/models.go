package models

import (
	"time"

	dbtypes "github.com/strategia/content-service/internal/db"
)

// Article is a blog post from the CMS catalog. Immutable once loaded.
type Article struct {
	ID          string              `db:"id" json:"id"`
	Title       string              `db:"title" json:"title"`
	Slug        string              `db:"slug" json:"slug"`
	Excerpt     string              `db:"excerpt" json:"excerpt"`
	Body        string              `db:"body" json:"body"`
	Author      string              `db:"author" json:"author"`
	Category    string              `db:"category" json:"category"`
	Tags        dbtypes.StringSlice `db:"tags" json:"tags"`
	PublishedAt time.Time           `db:"published_at" json:"published_at"`
}

// Episode is a podcast episode from the CMS catalog. Immutable once loaded.
type Episode struct {
	ID          string              `db:"id" json:"id"`
	Title       string              `db:"title" json:"title"`
	Slug        string              `db:"slug" json:"slug"`
	Description string              `db:"description" json:"description"`
	ShowNotes   string              `db:"show_notes" json:"show_notes"`
	Hosts       dbtypes.StringSlice `db:"hosts" json:"hosts"`
	Guests      dbtypes.StringSlice `db:"guests" json:"guests"`
	Category    string              `db:"category" json:"category"`
	Tags        dbtypes.StringSlice `db:"tags" json:"tags"`
	PublishedAt time.Time           `db:"published_at" json:"published_at"`
}

// Content type discriminators used in search results and analytics events.
const (
	ContentTypeBlog    = "blog"
	ContentTypePodcast = "podcast"
)

// SearchResult is created per query and discarded after the response.
// Keys are camelCase to match the rest of the search envelope.
type SearchResult struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Slug        string    `json:"slug"`
	Score       float64   `json:"relevanceScore"`
	Category    string    `json:"category"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"publishedAt"`
}

// Analytics event types. Anything else is rejected at the boundary.
const (
	EventView       = "view"
	EventImpression = "recommendation_impression"
	EventClick      = "recommendation_click"
	EventShare      = "share"
)

// AnalyticsEvent is one entry in the capped in-process event log.
type AnalyticsEvent struct {
	ID              string            `json:"id"`
	Timestamp       time.Time         `json:"timestamp"`
	Type            string            `json:"event_type"`
	ContentID       string            `json:"content_id"`
	ContentType     string            `json:"content_type"`
	SourceContentID string            `json:"source_content_id,omitempty"`
	Platform        string            `json:"platform,omitempty"`
	Metadata        map[string]string `json:"metadata,omitempty"`
}

// ContactSubmission is persisted before the notification mail goes out.
type ContactSubmission struct {
	ID         string    `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Email      string    `db:"email" json:"email"`
	Company    string    `db:"company" json:"company"`
	Message    string    `db:"message" json:"message"`
	ReceivedAt time.Time `db:"received_at" json:"received_at"`
}
