// Package handler exposes the auth service over HTTP under /api/users and
// /api/admin.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"questify/internal/auth"
	"questify/internal/auth/service"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/platform/httpjson"
	"questify/pkg/platform/metrics"
	"questify/pkg/platform/middleware"
	"questify/pkg/requestcontext"
)

// Service is the account operations surface the handler needs.
type Service interface {
	Register(ctx context.Context, params service.RegisterParams) (auth.User, string, error)
	SignIn(ctx context.Context, gmail, password string) (auth.User, string, error)
	SignOut(ctx context.Context) error
	CurrentUser(ctx context.Context) (auth.User, error)
	GetUser(ctx context.Context, id uuid.UUID) (auth.User, error)
	ListUsers(ctx context.Context) ([]auth.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, params service.UpdateProfileParams) (auth.User, error)
	SetStatus(ctx context.Context, userID uuid.UUID, status events.UserStatus) (auth.User, error)
}

type Handler struct {
	logger      *slog.Logger
	users       Service
	metrics     *metrics.Metrics
	validator   middleware.TokenValidator
	revocations middleware.RevocationChecker
}

func New(users Service, validator middleware.TokenValidator, revocations middleware.RevocationChecker, m *metrics.Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		logger:      logger,
		users:       users,
		metrics:     m,
		validator:   validator,
		revocations: revocations,
	}
}

// Register mounts the public and admin routes with the standard chain.
func (h *Handler) Register(r chi.Router) {
	usersRouter := chi.NewRouter()
	h.use(usersRouter)
	usersRouter.Post("/signup", h.handleSignUp)
	usersRouter.Post("/signin", h.handleSignIn)
	usersRouter.With(middleware.Require(middleware.RequireAuth)).Post("/signout", h.handleSignOut)
	usersRouter.Get("/currentuser", h.handleCurrentUser)
	usersRouter.With(middleware.Require(middleware.RequireAuth)).Put("/profile", h.handleUpdateProfile)
	usersRouter.Get("/{id}", h.handleGetUser)
	r.Mount("/api/users", usersRouter)

	adminRouter := chi.NewRouter()
	h.use(adminRouter)
	adminRouter.Use(middleware.Require(middleware.RequireAuth, middleware.RequireAdmin))
	adminRouter.Get("/users", h.handleListUsers)
	adminRouter.Patch("/users/{id}/suspend", h.handleSuspend)
	adminRouter.Patch("/users/{id}/reactivate", h.handleReactivate)
	r.Mount("/api/admin", adminRouter)
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

type credentialsRequest struct {
	Gmail     string      `json:"gmail"`
	Password  string      `json:"password"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      events.Role `json:"role"`
}

type sessionResponse struct {
	Token string          `json:"token"`
	User  auth.PublicUser `json:"user"`
}

func (h *Handler) handleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid signup request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	user, token, err := h.users.Register(ctx, service.RegisterParams{
		Gmail:     req.Gmail,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
	})
	if err != nil {
		h.warn(ctx, "signup failed", err)
		httpjson.WriteError(w, err)
		return
	}

	httpjson.Write(w, http.StatusCreated, sessionResponse{Token: token, User: user.Public()})
}

func (h *Handler) handleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid signin request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	user, token, err := h.users.SignIn(ctx, req.Gmail, req.Password)
	if err != nil {
		h.warn(ctx, "signin failed", err)
		httpjson.WriteError(w, err)
		return
	}

	httpjson.Write(w, http.StatusOK, sessionResponse{Token: token, User: user.Public()})
}

func (h *Handler) handleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := h.users.SignOut(ctx); err != nil {
		h.logger.ErrorContext(ctx, "signout failed",
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
		httpjson.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCurrentUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	// Anonymous requests get an explicit null rather than an error, so
	// frontends can probe session state with one call.
	if _, ok := requestcontext.CurrentUser(ctx); !ok {
		httpjson.Write(w, http.StatusOK, map[string]any{"currentUser": nil})
		return
	}

	user, err := h.users.CurrentUser(ctx)
	if err != nil {
		h.warn(ctx, "current user lookup failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, map[string]any{"currentUser": user.Public()})
}

type updateProfileRequest struct {
	Gmail     *string `json:"gmail"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	current, _ := requestcontext.CurrentUser(ctx)

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid profile request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	user, err := h.users.UpdateProfile(ctx, current.ID, service.UpdateProfileParams{
		Gmail:     req.Gmail,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		h.warn(ctx, "profile update failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, user.Public())
}

func (h *Handler) handleGetUser(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteError(w, apperrors.NotFound())
		return
	}

	user, lookupErr := h.users.GetUser(ctx, id)
	if lookupErr != nil {
		h.warn(ctx, "user lookup failed", lookupErr)
		httpjson.WriteError(w, lookupErr)
		return
	}
	httpjson.Write(w, http.StatusOK, user.Public())
}

func (h *Handler) handleListUsers(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	users, err := h.users.ListUsers(ctx)
	if err != nil {
		h.warn(ctx, "user list failed", err)
		httpjson.WriteError(w, err)
		return
	}

	public := make([]auth.PublicUser, 0, len(users))
	for _, user := range users {
		public = append(public, user.Public())
	}
	httpjson.Write(w, http.StatusOK, public)
}

func (h *Handler) handleSuspend(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, events.UserStatusSuspended)
}

func (h *Handler) handleReactivate(w http.ResponseWriter, r *http.Request) {
	h.setStatus(w, r, events.UserStatusActive)
}

func (h *Handler) setStatus(w http.ResponseWriter, r *http.Request, status events.UserStatus) {
	ctx := r.Context()

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpjson.WriteError(w, apperrors.NotFound())
		return
	}

	user, statusErr := h.users.SetStatus(ctx, id, status)
	if statusErr != nil {
		h.warn(ctx, "status change failed", statusErr)
		httpjson.WriteError(w, statusErr)
		return
	}
	httpjson.Write(w, http.StatusOK, user.Public())
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}
