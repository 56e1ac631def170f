// Package handler exposes enrollments, inventories and leaderboards under
// /api/course-learning.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"questify/internal/learning"
	"questify/internal/learning/service"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/platform/httpjson"
	"questify/pkg/platform/metrics"
	"questify/pkg/platform/middleware"
	"questify/pkg/requestcontext"
)

// Service is the learning surface the handler needs.
type Service interface {
	Enroll(ctx context.Context, courseID uuid.UUID) (learning.UserCourse, error)
	UpdateProgress(ctx context.Context, id uuid.UUID, params service.UpdateProgressParams) (learning.UserCourse, error)
	ListEnrollments(ctx context.Context) ([]learning.UserCourse, error)
	GetEnrollment(ctx context.Context, id uuid.UUID) (learning.UserCourse, error)
	GetEnrollmentByStudentAndCourse(ctx context.Context, studentID, courseID uuid.UUID) (learning.UserCourse, error)
	GetInventory(ctx context.Context, courseID uuid.UUID) (learning.Inventory, error)
	Leaderboard(ctx context.Context, courseID uuid.UUID, limit int64) ([]learning.LeaderboardEntry, error)
}

type Handler struct {
	logger      *slog.Logger
	enrollments Service
	metrics     *metrics.Metrics
	validator   middleware.TokenValidator
	revocations middleware.RevocationChecker
}

func New(enrollments Service, validator middleware.TokenValidator, revocations middleware.RevocationChecker, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		logger:      logger,
		enrollments: enrollments,
		metrics:     m,
		validator:   validator,
		revocations: revocations,
	}
}

// Register mounts the learning routes with the standard chain. Enrollment
// lookup by id stays open for peer services; leaderboards are public.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	h.use(router)

	auth := middleware.Require(middleware.RequireAuth)

	router.With(auth).Post("/enrollments", h.handleEnroll)
	router.With(auth).Get("/enrollments", h.handleListEnrollments)
	router.Get("/enrollments/{id}", h.handleGetEnrollment)
	router.Get("/courses/{id}/enrollments/{studentId}", h.handleGetEnrollmentByStudent)
	router.With(auth).Patch("/enrollments/{id}", h.handleUpdateProgress)
	router.With(auth).Get("/courses/{id}/inventory", h.handleGetInventory)
	router.Get("/courses/{id}/leaderboard", h.handleLeaderboard)

	r.Mount("/api/course-learning", router)
}

func (h *Handler) use(r chi.Router) {
	r.Use(middleware.Recovery(h.logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.ClientMetadata)
	r.Use(middleware.Logger(h.logger))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)
	r.Use(middleware.Instrument(h.metrics))
	r.Use(middleware.Authenticate(h.validator, h.revocations, h.logger))
}

type enrollRequest struct {
	CourseID uuid.UUID `json:"courseId"`
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req enrollRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid enroll request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	enrollment, err := h.enrollments.Enroll(ctx, req.CourseID)
	if err != nil {
		h.warn(ctx, "enroll failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, enrollment)
}

func (h *Handler) handleListEnrollments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	enrollments, err := h.enrollments.ListEnrollments(ctx)
	if err != nil {
		h.warn(ctx, "enrollment list failed", err)
		httpjson.WriteError(w, err)
		return
	}
	if enrollments == nil {
		enrollments = []learning.UserCourse{}
	}
	httpjson.Write(w, http.StatusOK, enrollments)
}

func (h *Handler) handleGetEnrollment(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	enrollment, err := h.enrollments.GetEnrollment(ctx, id)
	if err != nil {
		h.warn(ctx, "enrollment lookup failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, enrollment)
}

func (h *Handler) handleGetEnrollmentByStudent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	studentID, ok := h.pathID(w, r, "studentId")
	if !ok {
		return
	}
	enrollment, err := h.enrollments.GetEnrollmentByStudentAndCourse(ctx, studentID, courseID)
	if err != nil {
		h.warn(ctx, "enrollment lookup failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, enrollment)
}

type progressRequest struct {
	Point            *int                     `json:"point"`
	CompletionStatus *events.CompletionStatus `json:"completionStatus"`
}

func (h *Handler) handleUpdateProgress(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req progressRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid progress request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	enrollment, err := h.enrollments.UpdateProgress(ctx, id, service.UpdateProgressParams{
		Point:            req.Point,
		CompletionStatus: req.CompletionStatus,
	})
	if err != nil {
		h.warn(ctx, "progress update failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, enrollment)
}

func (h *Handler) handleGetInventory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	inventory, err := h.enrollments.GetInventory(ctx, courseID)
	if err != nil {
		h.warn(ctx, "inventory lookup failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, inventory)
}

func (h *Handler) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	limit := int64(10)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || parsed <= 0 {
			httpjson.WriteError(w, apperrors.BadRequest("Limit must be a positive number"))
			return
		}
		limit = parsed
	}

	entries, err := h.enrollments.Leaderboard(ctx, courseID, limit)
	if err != nil {
		h.warn(ctx, "leaderboard read failed", err)
		httpjson.WriteError(w, err)
		return
	}
	if entries == nil {
		entries = []learning.LeaderboardEntry{}
	}
	httpjson.Write(w, http.StatusOK, entries)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		httpjson.WriteError(w, apperrors.NotFound())
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}
