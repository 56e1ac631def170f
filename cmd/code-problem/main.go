// Command code-problem runs the Questify code problem service: problem
// authoring, attempt submission and judging. It consumes course-mgmt events
// to track challenge ownership and relays attempt events through the
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
	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"questify/internal/auth/revocation"
	"questify/internal/auth/token"
	"questify/internal/codeproblem/handler"
	"questify/internal/codeproblem/projection"
	"questify/internal/codeproblem/service"
	"questify/internal/codeproblem/store"
	"questify/pkg/apperrors"
	"questify/pkg/clients"
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
	cfg := config.FromEnv("code-problem", ":8084")
	log := logger.New(cfg.Name)
	m := metrics.New("code_problem")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sql.Open("postgres", cfg.PostgresDSN)
	if err != nil {
		log.Error("open postgres", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	problems := store.NewPostgres(db)
	outboxStore := outbox.NewStore(db)
	if err := problems.EnsureSchema(ctx); err != nil {
		log.Error("ensure problem schema", "error", err)
		os.Exit(1)
	}
	if err := outboxStore.EnsureSchema(ctx); err != nil {
		log.Error("ensure outbox schema", "error", err)
		os.Exit(1)
	}

	if err := kafka.EnsureTopics(ctx, cfg.KafkaBrokers, 3,
		events.TopicCodeProblem, events.TopicCourseMgmt); err != nil {
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
	projection.New(problems, log).Register(eventRouter)
	consumer, err := kafka.NewConsumer(cfg.KafkaBrokers, cfg.ConsumerGroup,
		[]string{events.TopicCourseMgmt}, eventRouter, log)
	if err != nil {
		log.Error("start consumer", "error", err)
		os.Exit(1)
	}

	var revocations revocation.List = revocation.NewMemoryList()
	redisConn, err := redisclient.New(cfg.RedisURL)
	if err != nil {
		log.Error("connect redis", "error", err)
		os.Exit(1)
	}
	if redisConn != nil {
		defer redisConn.Close()
		revocations = revocation.NewRedisList(redisConn.Client)
	}

	learningURL := envOr("COURSE_LEARNING_URL", "http://localhost:8083")
	enrollments := &enrollmentGate{clients.NewCourseLearningClient(learningURL, log)}

	tokens := token.NewService(cfg.JWTSigningKey, cfg.JWTIssuer, cfg.TokenTTL)
	svc := service.New(problems, outboxStore, enrollments, tx.Runner(db), log)

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
	log.Info("starting code-problem service", "addr", cfg.Addr)

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
	log.Info("code-problem service stopped")
}

// enrollmentGate adapts the learning service client to the submit guard.
type enrollmentGate struct {
	learning *clients.CourseLearningClient
}

func (g *enrollmentGate) Enrolled(ctx context.Context, studentID, courseID uuid.UUID) (bool, error) {
	_, err := g.learning.GetEnrollmentByStudentAndCourse(ctx, courseID, studentID)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
