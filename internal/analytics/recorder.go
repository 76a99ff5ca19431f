// Package analytics keeps a capped in-process log of content interaction
// events and derives aggregate statistics from it on demand. State is
// process-local; a best-effort Reporter can mirror events to an external
// collector without ever affecting the recorded outcome.
package analytics

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/strategia/content-service/pkg/models"
)

var validTypes = map[string]bool{
	models.EventView:       true,
	models.EventImpression: true,
	models.EventClick:      true,
	models.EventShare:      true,
}

// Recorder is an append-only event log, newest first, capped at maxEvents.
// Once full, each append evicts the oldest entry.
type Recorder struct {
	mu        sync.Mutex
	events    []models.AnalyticsEvent
	maxEvents int
	now       func() time.Time
	reporter  *Reporter
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithClock injects a deterministic time source for tests.
func WithClock(now func() time.Time) RecorderOption {
	return func(r *Recorder) { r.now = now }
}

// WithReporter mirrors every recorded event to an external collector,
// fire-and-forget.
func WithReporter(rep *Reporter) RecorderOption {
	return func(r *Recorder) { r.reporter = rep }
}

func NewRecorder(maxEvents int, opts ...RecorderOption) *Recorder {
	if maxEvents <= 0 {
		maxEvents = 1000
	}
	r := &Recorder{
		events:    make([]models.AnalyticsEvent, 0, maxEvents),
		maxEvents: maxEvents,
		now:       time.Now,
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Record validates and appends one event, stamping ID and timestamp when
// absent. The log is prepended so events stay newest first.
func (r *Recorder) Record(ev models.AnalyticsEvent) error {
	if !validTypes[ev.Type] {
		return fmt.Errorf("analytics: unknown event type %q", ev.Type)
	}
	if ev.ContentID == "" {
		return fmt.Errorf("analytics: event missing content id")
	}
	if ev.ID == "" {
		ev.ID = uuid.New().String()
	}
	if ev.Timestamp.IsZero() {
		ev.Timestamp = r.now()
	}

	r.mu.Lock()
	r.events = append([]models.AnalyticsEvent{ev}, r.events...)
	if len(r.events) > r.maxEvents {
		r.events = r.events[:r.maxEvents]
	}
	r.mu.Unlock()

	if r.reporter != nil {
		r.reporter.Report(ev)
	}
	return nil
}

// Events returns a copy of the log, newest first.
func (r *Recorder) Events() []models.AnalyticsEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.AnalyticsEvent, len(r.events))
	copy(out, r.events)
	return out
}

// Len reports the current log size.
func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.events)
}
