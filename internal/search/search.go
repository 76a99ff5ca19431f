package search

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/strategia/content-service/pkg/models"
)

// Type filter values accepted by Search.
const (
	TypeAll     = "all"
	TypeBlog    = models.ContentTypeBlog
	TypePodcast = models.ContentTypePodcast
)

// Sort policies.
const (
	SortRelevance = "relevance"
	SortDate      = "date"
)

// Options controls one search invocation.
type Options struct {
	Query  string
	Type   string // all | blog | podcast
	Limit  int
	SortBy string // relevance | date
}

// Search scores every item of the selected collections, drops non-matches,
// sorts and truncates. An empty or all-whitespace query returns an empty
// slice, not an error.
func Search(articles []*models.Article, episodes []*models.Episode, opts Options) []models.SearchResult {
	if strings.TrimSpace(opts.Query) == "" {
		return []models.SearchResult{}
	}

	results := collect(articles, episodes, opts)
	sortResults(results, opts.SortBy)

	if opts.Limit > 0 && len(results) > opts.Limit {
		results = results[:opts.Limit]
	}
	return results
}

// Suggest is the autocomplete variant: it needs at least two characters of
// query and aims for a half/half split between blogs and podcasts,
// backfilling from the combined pool when one side is scarce.
func Suggest(articles []*models.Article, episodes []*models.Episode, query string, limit int) []models.SearchResult {
	if utf8.RuneCountInString(strings.TrimSpace(query)) < 2 {
		return []models.SearchResult{}
	}
	if limit <= 0 {
		limit = 10
	}

	opts := Options{Query: query, Type: TypeAll, SortBy: SortRelevance}
	all := collect(articles, episodes, opts)
	sortResults(all, SortRelevance)

	half := limit / 2
	if half == 0 {
		half = 1
	}

	picked := make([]models.SearchResult, 0, limit)
	used := make(map[string]bool, limit)
	counts := map[string]int{}
	for _, r := range all {
		if len(picked) >= limit {
			break
		}
		if counts[r.Type] >= half {
			continue
		}
		picked = append(picked, r)
		used[r.Type+r.ID] = true
		counts[r.Type]++
	}
	// backfill from whatever remains, best score first
	for _, r := range all {
		if len(picked) >= limit {
			break
		}
		if used[r.Type+r.ID] {
			continue
		}
		picked = append(picked, r)
		used[r.Type+r.ID] = true
	}
	return picked
}

func collect(articles []*models.Article, episodes []*models.Episode, opts Options) []models.SearchResult {
	if opts.Type == "" {
		opts.Type = TypeAll
	}
	results := []models.SearchResult{}

	if opts.Type == TypeAll || opts.Type == TypeBlog {
		for _, a := range articles {
			s := ScoreArticle(a, opts.Query)
			if s == 0 {
				continue
			}
			results = append(results, models.SearchResult{
				ID:          a.ID,
				Type:        models.ContentTypeBlog,
				Title:       a.Title,
				Description: a.Excerpt,
				Slug:        a.Slug,
				Score:       s,
				Category:    a.Category,
				Tags:        a.Tags,
				PublishedAt: a.PublishedAt,
			})
		}
	}
	if opts.Type == TypeAll || opts.Type == TypePodcast {
		for _, e := range episodes {
			s := ScoreEpisode(e, opts.Query)
			if s == 0 {
				continue
			}
			results = append(results, models.SearchResult{
				ID:          e.ID,
				Type:        models.ContentTypePodcast,
				Title:       e.Title,
				Description: e.Description,
				Slug:        e.Slug,
				Score:       s,
				Category:    e.Category,
				Tags:        e.Tags,
				PublishedAt: e.PublishedAt,
			})
		}
	}
	return results
}

// sortResults orders in place. Stable sort keeps input order on equal keys
// so tied scores stay deterministic.
func sortResults(results []models.SearchResult, sortBy string) {
	switch sortBy {
	case SortDate:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].PublishedAt.After(results[j].PublishedAt)
		})
	default:
		sort.SliceStable(results, func(i, j int) bool {
			return results[i].Score > results[j].Score
		})
	}
}
