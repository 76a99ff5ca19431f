package analytics

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/strategia/content-service/pkg/models"
)

// Reporter posts events to an external analytics collector. It is a
// best-effort side channel: Report returns before the request finishes
// and a failed delivery is only logged, never surfaced to the caller.
type Reporter struct {
	url string
	hc  *http.Client
	log *slog.Logger
}

// NewReporter builds a reporter for the given collector URL. If httpClient
// is nil a default with a short timeout is used.
func NewReporter(url string, httpClient *http.Client, log *slog.Logger) *Reporter {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 5 * time.Second}
	}
	return &Reporter{url: url, hc: httpClient, log: log}
}

// Report dispatches the event on its own goroutine and returns
// immediately. The outcome is deliberately discarded.
func (r *Reporter) Report(ev models.AnalyticsEvent) {
	go r.send(ev)
}

func (r *Reporter) send(ev models.AnalyticsEvent) {
	b, err := json.Marshal(ev)
	if err != nil {
		r.log.Debug("analytics report marshal failed", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.url, bytes.NewReader(b))
	if err != nil {
		r.log.Debug("analytics report request failed", "error", err)
		return
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.hc.Do(req)
	if err != nil {
		r.log.Debug("analytics report delivery failed", "error", err)
		return
	}
	resp.Body.Close()
	if resp.StatusCode >= 300 {
		r.log.Debug("analytics collector rejected event", "status", resp.StatusCode)
	}
}
