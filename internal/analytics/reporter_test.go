package analytics

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strategia/content-service/pkg/models"
)

func TestReporterDeliversEvent(t *testing.T) {
	received := make(chan models.AnalyticsEvent, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var ev models.AnalyticsEvent
		require.NoError(t, json.NewDecoder(r.Body).Decode(&ev))
		received <- ev
	}))
	defer srv.Close()

	rep := NewReporter(srv.URL, srv.Client(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	rep.Report(models.AnalyticsEvent{ID: "ev1", Type: models.EventShare, ContentID: "a1"})

	select {
	case ev := <-received:
		assert.Equal(t, "ev1", ev.ID)
	case <-time.After(2 * time.Second):
		t.Fatal("collector never received the event")
	}
}

func TestRecordSucceedsWhenCollectorIsDown(t *testing.T) {
	rep := NewReporter("http://127.0.0.1:1", nil, slog.New(slog.NewTextHandler(io.Discard, nil)))
	r := NewRecorder(10, WithReporter(rep))

	err := r.Record(models.AnalyticsEvent{Type: models.EventView, ContentID: "a1"})
	assert.NoError(t, err)
	assert.Equal(t, 1, r.Len())
}
