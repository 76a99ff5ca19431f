package search

import (
	"strings"

	"github.com/strategia/content-service/pkg/models"
)

// Field weights. Title matches dominate, body occurrences are capped so a
// single repeated word cannot outrank a title hit.
const (
	titleWeight       = 3.0
	titleExactBonus   = 5.0
	titlePrefixBonus  = 2.0
	bodyWeight        = 2.0
	bodyOccurrenceCap = 10
	tagWeight         = 1.5
	categoryWeight    = 1.5
	personWeight      = 1.5
)

// ScoreArticle computes the relevance of one article against a raw query.
// Zero means no match; callers filter those out.
func ScoreArticle(a *models.Article, query string) float64 {
	return score(query, a.Title, a.Body+" "+a.Excerpt, a.Tags, a.Category, []string{a.Author})
}

// ScoreEpisode computes the relevance of one episode against a raw query.
func ScoreEpisode(e *models.Episode, query string) float64 {
	people := make([]string, 0, len(e.Hosts)+len(e.Guests))
	people = append(people, e.Hosts...)
	people = append(people, e.Guests...)
	return score(query, e.Title, e.Description+" "+e.ShowNotes, e.Tags, e.Category, people)
}

func score(query, title, body string, tags []string, category string, people []string) float64 {
	q := Normalize(query)
	ts := strings.Fields(q)
	if len(ts) == 0 {
		return 0
	}

	nTitle := Normalize(title)
	nBody := Normalize(body)
	nCategory := Normalize(category)

	var s float64
	for _, term := range ts {
		if strings.Contains(nTitle, term) {
			s += titleWeight
		}
		if n := strings.Count(nBody, term); n > 0 {
			if n > bodyOccurrenceCap {
				n = bodyOccurrenceCap
			}
			s += bodyWeight * float64(n)
		}
		for _, tag := range tags {
			if strings.Contains(Normalize(tag), term) {
				s += tagWeight
				break
			}
		}
		if strings.Contains(nCategory, term) {
			s += categoryWeight
		}
		for _, p := range people {
			if strings.Contains(Normalize(p), term) {
				s += personWeight
				break
			}
		}
	}

	if nTitle == q {
		s += titleExactBonus
	}
	if strings.HasPrefix(nTitle, q) {
		s += titlePrefixBonus
	}
	return s
}
