// Command auth runs the Questify auth service: user registration, login,
// token issuance and revocation, plus the outbox relay that publishes user
// events.
package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"questify/internal/auth/handler"
	"questify/internal/auth/revocation"
	"questify/internal/auth/service"
	"questify/internal/auth/store"
	"questify/internal/auth/token"
	"questify/pkg/events"
	"questify/pkg/platform/config"
	"questify/pkg/platform/httpserver"
	"questify/pkg/platform/kafka"
	"questify/pkg/platform/logger"
	"questify/pkg/platform/metrics"
	"questify/pkg/platform/outbox"
	"questify/pkg/platform/ratelimit"
	"questify/pkg/platform/redisclient"
	"questify/pkg/platform/tx"
)

func main() {
	cfg := config.FromEnv("auth", ":8081")
	log := logger.New(cfg.Name)
	m := metrics.New(cfg.Name)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Error("open postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	users := store.NewPostgresUsers(db)
	outboxStore := outbox.NewStore(db)
	if err := users.EnsureSchema(ctx); err != nil {
		log.Error("ensure users schema", "error", err)
		os.Exit(1)
	}
	if err := outboxStore.EnsureSchema(ctx); err != nil {
		log.Error("ensure outbox schema", "error", err)
		os.Exit(1)
	}

	if err := kafka.EnsureTopics(ctx, cfg.KafkaBrokers, 3, events.TopicUsers); err != nil {
		log.Error("ensure topics", "error", err)
		os.Exit(1)
	}
	producer, err := kafka.NewProducer(cfg.KafkaBrokers, log, m)
	if err != nil {
		log.Error("connect kafka", "error", err)
		os.Exit(1)
	}
	defer producer.Close()
	relay := outbox.NewRelay(outboxStore, producer, log, m, cfg.OutboxPoll)

	var revocations revocation.List = revocation.NewMemoryList()
	redisConn, err := redisclient.New(cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisConn != nil {
		defer redisConn.Close()
		revocations = revocation.NewRedisList(redisConn.Client)
	} else {
		log.Warn("REDIS_URL unset, revoked tokens held in memory only")
	}

	tokens := token.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.TokenTTL)
	svc := service.New(users, outboxStore, tokens, revocations, tx.Runner(db), log)

	adminGmail := envOr("ADMIN_GMAIL", "admin@questify.dev")
	adminPassword := envOr("ADMIN_PASSWORD", "admin-change-me")
	if _, err := svc.EnsureAdmin(ctx, adminGmail, adminPassword); err != nil {
		log.Error("ensure admin account", "error", err)
		os.Exit(1)
	}

	var limiterStore ratelimit.Store = ratelimit.NewMemory()
	if redisConn != nil {
		limiterStore = ratelimit.NewRedis(redisConn.Client)
	}
	limiter := ratelimit.NewLimiter(limiterStore, cfg.RateLimit, cfg.RateLimitWindow, log)

	router := chi.NewRouter()
	router.Use(limiter.Middleware)
	handler.New(svc, tokens, revocations, m, log).Register(router)
	router.Handle("/metrics", promhttp.Handler())

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting auth service", "addr", cfg.Addr)

	group, ctx := errgroup.WithContext(ctx)
	group.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	group.Go(func() error {
		return relay.Run(ctx)
	})
	group.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("service stopped", "error", err)
		os.Exit(1)
	}
	log.Info("auth service stopped")
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
