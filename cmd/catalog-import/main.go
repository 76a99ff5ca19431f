// Command catalog-import loads articles and episodes from JSON exports of
// the CMS into the catalog tables. Used to seed local databases and to
// backfill a fresh deployment.
package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"github.com/strategia/content-service/internal/store"
	"github.com/strategia/content-service/pkg/models"
)

func envOrDefault(key, d string) string {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	return v
}

func main() {
	articlesPath := flag.String("articles", "", "path to a JSON array of articles")
	episodesPath := flag.String("episodes", "", "path to a JSON array of episodes")
	flag.Parse()

	_ = godotenv.Load()
	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *articlesPath == "" && *episodesPath == "" {
		log.Error("nothing to import, pass -articles and/or -episodes")
		os.Exit(1)
	}

	dbHost := envOrDefault("DB_HOST", "localhost")
	dbPort := envOrDefault("DB_PORT", "5432")
	dbName := envOrDefault("DB_NAME", "content_db")
	dbUser := envOrDefault("DB_USER", "content_user")
	dbPass := envOrDefault("DB_PASS", "content")

	pgURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
	db, err := sql.Open("postgres", pgURL)
	if err != nil {
		log.Error("db open failed", "error", err)
		os.Exit(1)
	}
	if err := db.Ping(); err != nil {
		log.Error("could not connect to db", "error", err)
		os.Exit(1)
	}
	if err := store.RunMigrations(db); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	repo := store.NewPgStore(db)

	if *articlesPath != "" {
		var articles []*models.Article
		if err := readJSON(*articlesPath, &articles); err != nil {
			log.Error("reading articles failed", "path", *articlesPath, "error", err)
			os.Exit(1)
		}
		if err := repo.SeedArticles(articles); err != nil {
			log.Error("importing articles failed", "error", err)
			os.Exit(1)
		}
		log.Info("articles imported", "count", len(articles))
	}

	if *episodesPath != "" {
		var episodes []*models.Episode
		if err := readJSON(*episodesPath, &episodes); err != nil {
			log.Error("reading episodes failed", "path", *episodesPath, "error", err)
			os.Exit(1)
		}
		if err := repo.SeedEpisodes(episodes); err != nil {
			log.Error("importing episodes failed", "error", err)
			os.Exit(1)
		}
		log.Info("episodes imported", "count", len(episodes))
	}
}

func readJSON(path string, out any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(out)
}
