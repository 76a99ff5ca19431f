package analytics

import (
	"sort"
	"time"

	"github.com/strategia/content-service/pkg/models"
)

// ContentCount pairs a content id with how often it appeared in the window.
type ContentCount struct {
	ContentID   string `json:"content_id"`
	ContentType string `json:"content_type"`
	Count       int    `json:"count"`
}

// Statistics is derived from the event log on every call, so it is always
// consistent with the log at computation time. Never stored.
type Statistics struct {
	WindowDays   int            `json:"window_days"`
	TotalEvents  int            `json:"total_events"`
	CountsByType map[string]int `json:"counts_by_type"`
	ClickThrough float64        `json:"click_through_rate"`
	TopContent   []ContentCount `json:"top_content"`
	EventsPerDay map[string]int `json:"events_per_day"`
}

// Statistics filters the log to the trailing windowDays and aggregates.
// Click-through rate is clicks/impressions as a percentage, zero when
// there are no impressions.
func (r *Recorder) Statistics(windowDays int) Statistics {
	if windowDays <= 0 {
		windowDays = 30
	}
	cutoff := r.now().AddDate(0, 0, -windowDays)

	stats := Statistics{
		WindowDays:   windowDays,
		CountsByType: map[string]int{},
		EventsPerDay: map[string]int{},
	}

	byContent := map[string]*ContentCount{}
	for _, ev := range r.Events() {
		if ev.Timestamp.Before(cutoff) {
			continue
		}
		stats.TotalEvents++
		stats.CountsByType[ev.Type]++
		stats.EventsPerDay[ev.Timestamp.Format(time.DateOnly)]++

		cc, ok := byContent[ev.ContentID]
		if !ok {
			cc = &ContentCount{ContentID: ev.ContentID, ContentType: ev.ContentType}
			byContent[ev.ContentID] = cc
		}
		cc.Count++
	}

	impressions := stats.CountsByType[models.EventImpression]
	clicks := stats.CountsByType[models.EventClick]
	if impressions > 0 {
		stats.ClickThrough = float64(clicks) / float64(impressions) * 100
	}

	for _, cc := range byContent {
		stats.TopContent = append(stats.TopContent, *cc)
	}
	sort.SliceStable(stats.TopContent, func(i, j int) bool {
		if stats.TopContent[i].Count != stats.TopContent[j].Count {
			return stats.TopContent[i].Count > stats.TopContent[j].Count
		}
		return stats.TopContent[i].ContentID < stats.TopContent[j].ContentID
	})
	if len(stats.TopContent) > 10 {
		stats.TopContent = stats.TopContent[:10]
	}
	return stats
}

// ShareStats narrows Statistics to share events grouped by platform.
type ShareStats struct {
	WindowDays       int            `json:"window_days"`
	TotalShares      int            `json:"total_shares"`
	SharesByPlatform map[string]int `json:"shares_by_platform"`
	TopShared        []ContentCount `json:"top_shared"`
}

// ShareStatistics aggregates only share events from the trailing window.
func (r *Recorder) ShareStatistics(windowDays int) ShareStats {
	if windowDays <= 0 {
		windowDays = 30
	}
	cutoff := r.now().AddDate(0, 0, -windowDays)

	stats := ShareStats{
		WindowDays:       windowDays,
		SharesByPlatform: map[string]int{},
	}

	byContent := map[string]*ContentCount{}
	for _, ev := range r.Events() {
		if ev.Type != models.EventShare || ev.Timestamp.Before(cutoff) {
			continue
		}
		stats.TotalShares++
		stats.SharesByPlatform[ev.Platform]++

		cc, ok := byContent[ev.ContentID]
		if !ok {
			cc = &ContentCount{ContentID: ev.ContentID, ContentType: ev.ContentType}
			byContent[ev.ContentID] = cc
		}
		cc.Count++
	}

	for _, cc := range byContent {
		stats.TopShared = append(stats.TopShared, *cc)
	}
	sort.SliceStable(stats.TopShared, func(i, j int) bool {
		if stats.TopShared[i].Count != stats.TopShared[j].Count {
			return stats.TopShared[i].Count > stats.TopShared[j].Count
		}
		return stats.TopShared[i].ContentID < stats.TopShared[j].ContentID
	})
	if len(stats.TopShared) > 10 {
		stats.TopShared = stats.TopShared[:10]
	}
	return stats
}
