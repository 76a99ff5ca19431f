package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	dbtypes "github.com/strategia/content-service/internal/db"
	"github.com/strategia/content-service/pkg/models"
)

// PgStore reads the content catalog the CMS maintains and persists
// contact-form submissions. The catalog tables are written by the admin
// panel; this service only ever reads them.
type PgStore struct {
	db *sqlx.DB
}

func NewPgStore(db *sql.DB) *PgStore {
	return &PgStore{db: sqlx.NewDb(db, "postgres")}
}

func RunMigrations(db *sql.DB) error {
	initSQL := `
CREATE TABLE IF NOT EXISTS articles(
  id UUID PRIMARY KEY,
  title TEXT NOT NULL,
  slug TEXT NOT NULL,
  excerpt TEXT NOT NULL DEFAULT '',
  body TEXT NOT NULL DEFAULT '',
  author TEXT NOT NULL DEFAULT '',
  category TEXT NOT NULL DEFAULT '',
  tags JSONB NOT NULL DEFAULT '[]',
  published_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS episodes(
  id UUID PRIMARY KEY,
  title TEXT NOT NULL,
  slug TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  show_notes TEXT NOT NULL DEFAULT '',
  hosts JSONB NOT NULL DEFAULT '[]',
  guests JSONB NOT NULL DEFAULT '[]',
  category TEXT NOT NULL DEFAULT '',
  tags JSONB NOT NULL DEFAULT '[]',
  published_at TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS contact_submissions(
  id UUID PRIMARY KEY,
  name TEXT NOT NULL,
  email TEXT NOT NULL,
  company TEXT NOT NULL DEFAULT '',
  message TEXT NOT NULL,
  received_at TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_articles_published ON articles(published_at);
CREATE INDEX IF NOT EXISTS idx_episodes_published ON episodes(published_at);
-- GIN indexes for jsonb tag containment queries from the admin panel
CREATE INDEX IF NOT EXISTS idx_articles_tags ON articles USING GIN (tags);
CREATE INDEX IF NOT EXISTS idx_episodes_tags ON episodes USING GIN (tags);
`
	_, err := db.Exec(initSQL)
	return err
}

// LoadArticles returns the published article catalog, newest first. The
// result is a read-only snapshot for the in-memory search layer.
func (p *PgStore) LoadArticles() ([]*models.Article, error) {
	rows := []*models.Article{}
	query := `
SELECT id,title,slug,excerpt,body,author,category,tags,published_at
FROM articles
WHERE published_at <= NOW()
ORDER BY published_at DESC
`
	if err := p.db.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("load articles: %w", err)
	}
	return rows, nil
}

// LoadEpisodes returns the published episode catalog, newest first.
func (p *PgStore) LoadEpisodes() ([]*models.Episode, error) {
	rows := []*models.Episode{}
	query := `
SELECT id,title,slug,description,show_notes,hosts,guests,category,tags,published_at
FROM episodes
WHERE published_at <= NOW()
ORDER BY published_at DESC
`
	if err := p.db.Select(&rows, query); err != nil {
		return nil, fmt.Errorf("load episodes: %w", err)
	}
	return rows, nil
}

// SaveContactSubmission persists one contact-form submission, assigning ID
// and timestamp when the caller left them empty.
func (p *PgStore) SaveContactSubmission(sub *models.ContactSubmission) error {
	if sub.ID == "" {
		sub.ID = uuid.New().String()
	}
	if sub.ReceivedAt.IsZero() {
		sub.ReceivedAt = time.Now().UTC()
	}

	stmt := `
INSERT INTO contact_submissions (id, name, email, company, message, received_at)
VALUES ($1,$2,$3,$4,$5,$6)
`
	if _, err := p.db.Exec(stmt, sub.ID, sub.Name, sub.Email, sub.Company, sub.Message, sub.ReceivedAt); err != nil {
		return fmt.Errorf("insert contact submission id=%s: %w", sub.ID, err)
	}
	return nil
}

// SeedArticles upserts articles, used by the catalog-import command.
// Tags marshal through dbtypes.StringSlice to jsonb.
func (p *PgStore) SeedArticles(articles []*models.Article) error {
	tx, err := p.db.Beginx()
	if err != nil {
		return err
	}

	stmt := `
INSERT INTO articles (id, title, slug, excerpt, body, author, category, tags, published_at)
VALUES ($1,$2,$3,$4,$5,$6,$7,$8::jsonb,$9)
ON CONFLICT (id) DO UPDATE SET
 title=EXCLUDED.title,
 slug=EXCLUDED.slug,
 excerpt=EXCLUDED.excerpt,
 body=EXCLUDED.body,
 author=EXCLUDED.author,
 category=EXCLUDED.category,
 tags=EXCLUDED.tags,
 published_at=EXCLUDED.published_at;
`

	for _, a := range articles {
		if a.ID == "" {
			a.ID = uuid.New().String()
		}
		if a.Tags == nil {
			a.Tags = dbtypes.StringSlice{}
		}
		if a.PublishedAt.IsZero() {
			a.PublishedAt = time.Now().UTC()
		}

		if _, err := tx.Exec(stmt, a.ID, a.Title, a.Slug, a.Excerpt, a.Body, a.Author, a.Category, a.Tags, a.PublishedAt); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert article id=%s: %w", a.ID, err)
		}
	}
	return tx.Commit()
}

// SeedEpisodes upserts episodes, same contract as SeedArticles.
func (p *PgStore) SeedEpisodes(episodes []*models.Episode) error {
	tx, err := p.db.Beginx()
	if err != nil {
		return err
	}

	stmt := `
INSERT INTO episodes (id, title, slug, description, show_notes, hosts, guests, category, tags, published_at)
VALUES ($1,$2,$3,$4,$5,$6::jsonb,$7::jsonb,$8,$9::jsonb,$10)
ON CONFLICT (id) DO UPDATE SET
 title=EXCLUDED.title,
 slug=EXCLUDED.slug,
 description=EXCLUDED.description,
 show_notes=EXCLUDED.show_notes,
 hosts=EXCLUDED.hosts,
 guests=EXCLUDED.guests,
 category=EXCLUDED.category,
 tags=EXCLUDED.tags,
 published_at=EXCLUDED.published_at;
`

	for _, e := range episodes {
		if e.ID == "" {
			e.ID = uuid.New().String()
		}
		if e.Tags == nil {
			e.Tags = dbtypes.StringSlice{}
		}
		if e.Hosts == nil {
			e.Hosts = dbtypes.StringSlice{}
		}
		if e.Guests == nil {
			e.Guests = dbtypes.StringSlice{}
		}
		if e.PublishedAt.IsZero() {
			e.PublishedAt = time.Now().UTC()
		}

		if _, err := tx.Exec(stmt, e.ID, e.Title, e.Slug, e.Description, e.ShowNotes, e.Hosts, e.Guests, e.Category, e.Tags, e.PublishedAt); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert episode id=%s: %w", e.ID, err)
		}
	}
	return tx.Commit()
}
