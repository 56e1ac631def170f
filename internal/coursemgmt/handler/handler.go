// Package handler exposes course authoring over HTTP under
// /api/course-mgmt.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"questify/internal/coursemgmt"
	"questify/internal/coursemgmt/service"
	"questify/pkg/apperrors"
	"questify/pkg/platform/httpjson"
	"questify/pkg/platform/metrics"
	"questify/pkg/platform/middleware"
	"questify/pkg/requestcontext"
)

// Service is the authoring surface the handler needs.
type Service interface {
	CreateCourse(ctx context.Context, params service.CreateCourseParams) (coursemgmt.Course, error)
	UpdateCourse(ctx context.Context, id uuid.UUID, params service.UpdateCourseParams) (coursemgmt.Course, error)
	DeleteCourse(ctx context.Context, id uuid.UUID) error
	SubmitCourse(ctx context.Context, id uuid.UUID) (coursemgmt.Course, error)
	ApproveCourse(ctx context.Context, id uuid.UUID) (coursemgmt.Course, error)
	RejectCourse(ctx context.Context, id uuid.UUID) (coursemgmt.Course, error)
	GetCourse(ctx context.Context, id uuid.UUID) (coursemgmt.Course, error)
	ListCourses(ctx context.Context) ([]coursemgmt.Course, error)

	CreateIslandTemplate(ctx context.Context, params service.CreateIslandTemplateParams) (coursemgmt.IslandTemplate, error)
	UpdateIslandTemplate(ctx context.Context, id uuid.UUID, params service.UpdateIslandTemplateParams) (coursemgmt.IslandTemplate, error)
	ListIslandTemplates(ctx context.Context) ([]coursemgmt.IslandTemplate, error)

	CreateIsland(ctx context.Context, courseID uuid.UUID, params service.CreateIslandParams) (coursemgmt.Island, error)
	UpdateIsland(ctx context.Context, id uuid.UUID, params service.UpdateIslandParams) (coursemgmt.Island, error)
	ListIslands(ctx context.Context, courseID uuid.UUID) ([]coursemgmt.Island, error)
	AddPrerequisite(ctx context.Context, islandID, prerequisiteID uuid.UUID) error
	RemovePrerequisite(ctx context.Context, islandID, prerequisiteID uuid.UUID) error
	ListPrerequisites(ctx context.Context, islandID uuid.UUID) ([]coursemgmt.PrerequisiteIsland, error)

	CreateLevel(ctx context.Context, islandID uuid.UUID, params service.CreateLevelParams) (coursemgmt.Level, error)
	UpdateLevel(ctx context.Context, id uuid.UUID, params service.UpdateLevelParams) (coursemgmt.Level, error)
	ListLevels(ctx context.Context, islandID uuid.UUID) ([]coursemgmt.Level, error)
	CreateChallenge(ctx context.Context, levelID uuid.UUID) (coursemgmt.Challenge, error)
	UpdateChallenge(ctx context.Context, id uuid.UUID, params service.UpdateChallengeParams) (coursemgmt.Challenge, error)
	UpsertSlide(ctx context.Context, challengeID uuid.UUID, params service.UpsertSlideParams) (coursemgmt.Slide, error)
	ListSlides(ctx context.Context, challengeID uuid.UUID) ([]coursemgmt.Slide, error)

	CreateItemTemplate(ctx context.Context, params service.CreateItemTemplateParams) (coursemgmt.ItemTemplate, error)
	UpdateItemTemplate(ctx context.Context, id uuid.UUID, params service.UpdateItemTemplateParams) (coursemgmt.ItemTemplate, error)
	ListItemTemplates(ctx context.Context) ([]coursemgmt.ItemTemplate, error)
	AttachItemTemplate(ctx context.Context, courseID, itemTemplateID uuid.UUID) error
	DetachItemTemplate(ctx context.Context, courseID, itemTemplateID uuid.UUID) error
	ListCourseItemTemplates(ctx context.Context, courseID uuid.UUID) ([]coursemgmt.CourseItemTemplate, error)
}

type Handler struct {
	logger      *slog.Logger
	courses     Service
	metrics     *metrics.Metrics
	validator   middleware.TokenValidator
	revocations middleware.RevocationChecker
}

func New(courses Service, validator middleware.TokenValidator, revocations middleware.RevocationChecker, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		logger:      logger,
		courses:     courses,
		metrics:     m,
		validator:   validator,
		revocations: revocations,
	}
}

// Register mounts the authoring routes with the standard chain. Reads are
// open to any authenticated user; writes require the teacher guard, and
// review plus template maintenance require admin.
func (h *Handler) Register(r chi.Router) {
	router := chi.NewRouter()
	h.use(router)

	teacher := middleware.Require(middleware.RequireAuth, middleware.RequireTeacher)
	admin := middleware.Require(middleware.RequireAuth, middleware.RequireAdmin)

	router.Get("/courses", h.handleListCourses)
	router.Get("/courses/{id}", h.handleGetCourse)
	router.With(teacher).Post("/courses", h.handleCreateCourse)
	router.With(teacher).Put("/courses/{id}", h.handleUpdateCourse)
	router.With(teacher).Delete("/courses/{id}", h.handleDeleteCourse)
	router.With(teacher).Post("/courses/{id}/submit", h.handleSubmitCourse)
	router.With(admin).Patch("/courses/{id}/approve", h.handleApproveCourse)
	router.With(admin).Patch("/courses/{id}/reject", h.handleRejectCourse)

	router.Get("/island-templates", h.handleListIslandTemplates)
	router.With(admin).Post("/island-templates", h.handleCreateIslandTemplate)
	router.With(admin).Put("/island-templates/{id}", h.handleUpdateIslandTemplate)

	router.Get("/courses/{id}/islands", h.handleListIslands)
	router.With(teacher).Post("/courses/{id}/islands", h.handleCreateIsland)
	router.With(teacher).Put("/islands/{id}", h.handleUpdateIsland)
	router.Get("/islands/{id}/prerequisites", h.handleListPrerequisites)
	router.With(teacher).Post("/islands/{id}/prerequisites", h.handleAddPrerequisite)
	router.With(teacher).Delete("/islands/{id}/prerequisites/{prerequisiteId}", h.handleRemovePrerequisite)

	router.Get("/islands/{id}/levels", h.handleListLevels)
	router.With(teacher).Post("/islands/{id}/levels", h.handleCreateLevel)
	router.With(teacher).Put("/levels/{id}", h.handleUpdateLevel)
	router.With(teacher).Post("/levels/{id}/challenges", h.handleCreateChallenge)
	router.With(teacher).Put("/challenges/{id}", h.handleUpdateChallenge)
	router.Get("/challenges/{id}/slides", h.handleListSlides)
	router.With(teacher).Put("/challenges/{id}/slides", h.handleUpsertSlide)

	router.Get("/item-templates", h.handleListItemTemplates)
	router.With(admin).Post("/item-templates", h.handleCreateItemTemplate)
	router.With(admin).Put("/item-templates/{id}", h.handleUpdateItemTemplate)
	router.Get("/courses/{id}/item-templates", h.handleListCourseItemTemplates)
	router.With(teacher).Post("/courses/{id}/item-templates/{templateId}", h.handleAttachItemTemplate)
	router.With(teacher).Delete("/courses/{id}/item-templates/{templateId}", h.handleDetachItemTemplate)

	r.Mount("/api/course-mgmt", router)
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

type courseRequest struct {
	Name               *string   `json:"name"`
	Description        *string   `json:"description"`
	BackgroundImage    *string   `json:"backgroundImage"`
	Thumbnail          *string   `json:"thumbnail"`
	LearningObjectives *[]string `json:"learningObjectives"`
	Requirements       *[]string `json:"requirements"`
	Price              *float64  `json:"price"`
}

func (h *Handler) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid course request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	params := service.CreateCourseParams{}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.BackgroundImage != nil {
		params.BackgroundImage = *req.BackgroundImage
	}
	if req.Thumbnail != nil {
		params.Thumbnail = *req.Thumbnail
	}
	if req.LearningObjectives != nil {
		params.LearningObjectives = *req.LearningObjectives
	}
	if req.Requirements != nil {
		params.Requirements = *req.Requirements
	}
	if req.Price != nil {
		params.Price = *req.Price
	}

	course, err := h.courses.CreateCourse(ctx, params)
	if err != nil {
		h.warn(ctx, "course create failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, course)
}

func (h *Handler) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req courseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid course request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	course, err := h.courses.UpdateCourse(ctx, id, service.UpdateCourseParams{
		Name:               req.Name,
		Description:        req.Description,
		BackgroundImage:    req.BackgroundImage,
		Thumbnail:          req.Thumbnail,
		LearningObjectives: req.LearningObjectives,
		Requirements:       req.Requirements,
		Price:              req.Price,
	})
	if err != nil {
		h.warn(ctx, "course update failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, course)
}

func (h *Handler) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.courses.DeleteCourse(ctx, id); err != nil {
		h.warn(ctx, "course delete failed", err)
		httpjson.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleSubmitCourse(w http.ResponseWriter, r *http.Request) {
	h.transitionCourse(w, r, h.courses.SubmitCourse)
}

func (h *Handler) handleApproveCourse(w http.ResponseWriter, r *http.Request) {
	h.transitionCourse(w, r, h.courses.ApproveCourse)
}

func (h *Handler) handleRejectCourse(w http.ResponseWriter, r *http.Request) {
	h.transitionCourse(w, r, h.courses.RejectCourse)
}

func (h *Handler) transitionCourse(w http.ResponseWriter, r *http.Request, move func(context.Context, uuid.UUID) (coursemgmt.Course, error)) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	course, err := move(ctx, id)
	if err != nil {
		h.warn(ctx, "course transition failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, course)
}

func (h *Handler) handleGetCourse(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	course, err := h.courses.GetCourse(ctx, id)
	if err != nil {
		h.warn(ctx, "course lookup failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, course)
}

func (h *Handler) handleListCourses(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courses, err := h.courses.ListCourses(ctx)
	if err != nil {
		h.warn(ctx, "course list failed", err)
		httpjson.WriteError(w, err)
		return
	}
	if courses == nil {
		courses = []coursemgmt.Course{}
	}
	httpjson.Write(w, http.StatusOK, courses)
}

// pathID parses the named uuid path segment; malformed ids read as a
// missing resource.
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
