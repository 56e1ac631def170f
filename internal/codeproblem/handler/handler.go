// Package handler exposes code problems and attempts under /api/code-problem.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"questify/internal/codeproblem"
	"questify/internal/codeproblem/service"
	"questify/pkg/apperrors"
	"questify/pkg/platform/httpjson"
	"questify/pkg/platform/metrics"
	"questify/pkg/platform/middleware"
	"questify/pkg/requestcontext"
)

// Service is the code-problem surface the handler needs.
type Service interface {
	CreateProblem(ctx context.Context, challengeID uuid.UUID, params service.CreateProblemParams) (codeproblem.CodeProblem, error)
	UpdateProblem(ctx context.Context, id uuid.UUID, params service.UpdateProblemParams) (codeproblem.CodeProblem, error)
	GetProblem(ctx context.Context, id uuid.UUID) (codeproblem.CodeProblem, error)
	ListProblems(ctx context.Context, challengeID uuid.UUID) ([]codeproblem.CodeProblem, error)
	Submit(ctx context.Context, problemID uuid.UUID, params service.SubmitParams) (codeproblem.Attempt, error)
	GetAttempt(ctx context.Context, id uuid.UUID) (codeproblem.Attempt, error)
	ListAttempts(ctx context.Context, problemID uuid.UUID) ([]codeproblem.Attempt, error)
}

type Handler struct {
	logger      *slog.Logger
	problems    Service
	metrics     *metrics.Metrics
	validator   middleware.TokenValidator
	revocations middleware.RevocationChecker
}

func New(problems Service, validator middleware.TokenValidator, revocations middleware.RevocationChecker, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		logger:      logger,
		problems:    problems,
		metrics:     m,
		validator:   validator,
		revocations: revocations,
	}
}

// Register mounts the code-problem routes with the standard chain. Problem
// reads are open so the learning UI can render them; authoring needs a
// teacher and submissions need a signed-in user.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	h.use(router)

	auth := middleware.Require(middleware.RequireAuth)
	teacher := middleware.Require(middleware.RequireAuth, middleware.RequireTeacher)

	router.Get("/challenges/{id}/problems", h.handleListProblems)
	router.With(teacher).Post("/challenges/{id}/problems", h.handleCreateProblem)
	router.Get("/problems/{id}", h.handleGetProblem)
	router.With(teacher).Put("/problems/{id}", h.handleUpdateProblem)

	router.With(auth).Post("/problems/{id}/attempts", h.handleSubmit)
	router.With(auth).Get("/problems/{id}/attempts", h.handleListAttempts)
	router.With(auth).Get("/attempts/{id}", h.handleGetAttempt)

	r.Mount("/api/code-problem", router)
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

// problemRequest covers create and update; nil means absent.
type problemRequest struct {
	Title       *string                 `json:"title"`
	Description *string                 `json:"description"`
	StarterCode *string                 `json:"starterCode"`
	TestCases   *[]codeproblem.TestCase `json:"testCases"`
	GoldReward  *int                    `json:"goldReward"`
	PointReward *int                    `json:"pointReward"`
	IsDeleted   *bool                   `json:"isDeleted"`
}

func (h *Handler) handleCreateProblem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	challengeID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req problemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid problem request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	params := service.CreateProblemParams{}
	if req.Title != nil {
		params.Title = *req.Title
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.StarterCode != nil {
		params.StarterCode = *req.StarterCode
	}
	if req.TestCases != nil {
		params.TestCases = *req.TestCases
	}
	if req.GoldReward != nil {
		params.GoldReward = *req.GoldReward
	}
	if req.PointReward != nil {
		params.PointReward = *req.PointReward
	}

	problem, err := h.problems.CreateProblem(ctx, challengeID, params)
	if err != nil {
		h.warn(ctx, "problem create failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, problem)
}

func (h *Handler) handleUpdateProblem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req problemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid problem request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	problem, err := h.problems.UpdateProblem(ctx, id, service.UpdateProblemParams{
		Title:       req.Title,
		Description: req.Description,
		StarterCode: req.StarterCode,
		TestCases:   req.TestCases,
		GoldReward:  req.GoldReward,
		PointReward: req.PointReward,
		IsDeleted:   req.IsDeleted,
	})
	if err != nil {
		h.warn(ctx, "problem update failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, problem)
}

func (h *Handler) handleGetProblem(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	problem, err := h.problems.GetProblem(ctx, id)
	if err != nil {
		h.warn(ctx, "problem lookup failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, problem)
}

func (h *Handler) handleListProblems(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	challengeID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	problems, err := h.problems.ListProblems(ctx, challengeID)
	if err != nil {
		h.warn(ctx, "problem list failed", err)
		httpjson.WriteError(w, err)
		return
	}
	if problems == nil {
		problems = []codeproblem.CodeProblem{}
	}
	httpjson.Write(w, http.StatusOK, problems)
}

type submitRequest struct {
	Code    string   `json:"code"`
	Outputs []string `json:"outputs"`
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	problemID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid submit request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	attempt, err := h.problems.Submit(ctx, problemID, service.SubmitParams{
		Code:    req.Code,
		Outputs: req.Outputs,
	})
	if err != nil {
		h.warn(ctx, "submit failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, attempt)
}

func (h *Handler) handleGetAttempt(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	attempt, err := h.problems.GetAttempt(ctx, id)
	if err != nil {
		h.warn(ctx, "attempt lookup failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, attempt)
}

func (h *Handler) handleListAttempts(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	problemID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	attempts, err := h.problems.ListAttempts(ctx, problemID)
	if err != nil {
		h.warn(ctx, "attempt list failed", err)
		httpjson.WriteError(w, err)
		return
	}
	if attempts == nil {
		attempts = []codeproblem.Attempt{}
	}
	httpjson.Write(w, http.StatusOK, attempts)
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
