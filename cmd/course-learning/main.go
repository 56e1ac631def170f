// Command course-learning runs the Questify learning service: enrollments,
// progress, inventories and leaderboards. It consumes user and course-mgmt
// events to maintain its read models and relays its own events through the
// outbox.
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
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"questify/internal/auth/revocation"
	"questify/internal/auth/token"
	"questify/internal/learning/handler"
	"questify/internal/learning/leaderboard"
	"questify/internal/learning/projection"
	"questify/internal/learning/service"
	"questify/internal/learning/store"
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
	cfg := config.FromEnv("course-learning", ":8083")
	log := logger.New(cfg.Name)
	m := metrics.New("course_learning")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("pgx", cfg.PostgresDSN)
	if err != nil {
		log.Error("open postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	enrollments := store.NewPostgres(db)
	outboxStore := outbox.NewStore(db)
	if err := enrollments.EnsureSchema(ctx); err != nil {
		log.Error("ensure learning schema", "error", err)
		os.Exit(1)
	}
	if err := outboxStore.EnsureSchema(ctx); err != nil {
		log.Error("ensure outbox schema", "error", err)
		os.Exit(1)
	}

	if err := kafka.EnsureTopics(ctx, cfg.KafkaBrokers, 3,
		events.TopicCourseLearning, events.TopicUsers, events.TopicCourseMgmt); err != nil {
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

	eventRouter := kafka.NewRouter(log, m)
	projection.New(enrollments, log).Register(eventRouter)
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup,
		[]string{events.TopicUsers, events.TopicCourseMgmt}, eventRouter, log)
	if err != nil {
		log.Error("start consumer", "error", err)
		os.Exit(1)
	}

	var revocations revocation.List = revocation.NewMemoryList()
	var board leaderboard.Board = leaderboard.NewMemory()
	redisConn, err := redisclient.New(cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisConn != nil {
		defer redisConn.Close()
		revocations = revocation.NewRedisList(redisConn.Client)
		board = leaderboard.NewRedisBoard(redisConn.Client)
	} else {
		log.Warn("REDIS_URL unset, leaderboards held in memory only")
	}

	tokens := token.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.TokenTTL)
	svc := service.New(enrollments, outboxStore, board, tx.Runner(db), log)

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
	log.Info("starting course-learning service", "addr", cfg.Addr)

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
		return consumer.Run(ctx)
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
	log.Info("course-learning service stopped")
}
