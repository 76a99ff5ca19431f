package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"

	"github.com/strategia/content-service/internal/analytics"
	"github.com/strategia/content-service/internal/api"
	"github.com/strategia/content-service/internal/mailer"
	"github.com/strategia/content-service/internal/ratelimit"
	"github.com/strategia/content-service/internal/service"
	"github.com/strategia/content-service/internal/store"
)

func envOrDefault(key, d string) string {
	v := os.Getenv(key)
	if v == "" {
		return d
	}
	return v
}

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	dbHost := envOrDefault("DB_HOST", "localhost")
	dbPort := envOrDefault("DB_PORT", "5432")
	dbName := envOrDefault("DB_NAME", "content_db")
	dbUser := envOrDefault("DB_USER", "content_user")
	dbPass := envOrDefault("DB_PASS", "content")
	redisAddr := envOrDefault("REDIS_ADDR", "localhost:6379")
	port := envOrDefault("PORT", "8080")

	pgURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", dbUser, dbPass, dbHost, dbPort, dbName)
	db, err := sql.Open("postgres", pgURL)
	if err != nil {
		log.Error("db open failed", "error", err)
		os.Exit(1)
	}
	// simple ping + wait (db might be starting in docker)
	for i := 0; i < 10; i++ {
		if err = db.Ping(); err == nil {
			break
		}
		log.Info("waiting for db", "attempt", i+1, "error", err)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		log.Error("could not connect to db", "error", err)
		os.Exit(1)
	}

	if err := store.RunMigrations(db); err != nil {
		log.Error("migrations failed", "error", err)
		os.Exit(1)
	}

	repo := store.NewPgStore(db)
	articles, err := repo.LoadArticles()
	if err != nil {
		log.Error("loading article catalog failed", "error", err)
		os.Exit(1)
	}
	episodes, err := repo.LoadEpisodes()
	if err != nil {
		log.Error("loading episode catalog failed", "error", err)
		os.Exit(1)
	}
	log.Info("catalog loaded", "articles", len(articles), "episodes", len(episodes))

	// redis is optional: the limiter falls back to in-process windows when
	// it is missing or goes away
	var shareOpts, contactOpts []ratelimit.Option
	rdb := redis.NewClient(&redis.Options{Addr: redisAddr})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis ping failed, rate limiting is process-local", "error", err)
	}
	cancel()
	rstore := ratelimit.NewRedisStore(rdb)
	shareOpts = append(shareOpts, ratelimit.WithPrimary(rstore))
	contactOpts = append(contactOpts, ratelimit.WithPrimary(rstore))

	shareLimiter := ratelimit.New("share", 20, time.Minute, log, shareOpts...)
	contactLimiter := ratelimit.New("contact", 5, 10*time.Minute, log, contactOpts...)

	var recorderOpts []analytics.RecorderOption
	if collectorURL := os.Getenv("ANALYTICS_COLLECTOR_URL"); collectorURL != "" {
		recorderOpts = append(recorderOpts, analytics.WithReporter(analytics.NewReporter(collectorURL, nil, log)))
	}
	views := analytics.NewRecorder(1000, recorderOpts...)
	shares := analytics.NewRecorder(500, recorderOpts...)

	m := mailer.New(
		os.Getenv("SMTP2GO_API_KEY"),
		os.Getenv("CONTACT_SENDER"),
		os.Getenv("CONTACT_RECIPIENT"),
	)
	if !m.Enabled() {
		log.Warn("mailer not configured, contact notifications disabled")
	}

	svc := service.New(articles, episodes, shareLimiter, contactLimiter, views, shares, repo, m, log)

	c := cron.New()
	c.AddFunc("@hourly", svc.PruneLimiters)
	c.AddFunc("@daily", func() {
		stats := svc.ViewStatistics(1)
		log.Info("daily analytics summary",
			"events", stats.TotalEvents,
			"click_through", stats.ClickThrough)
	})
	c.Start()
	defer c.Stop()

	handler := api.NewHandler(svc, log)
	router := gin.Default()
	api.RegisterRoutes(router, handler)

	log.Info("listening", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Error("server failed", "error", err)
		os.Exit(1)
	}
}
