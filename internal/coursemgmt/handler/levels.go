package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"questify/internal/coursemgmt"
	"questify/internal/coursemgmt/service"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/platform/httpjson"
)

type levelRequest struct {
	Name        *string                  `json:"name"`
	Position    *int                     `json:"position"`
	ContentType *events.LevelContentType `json:"contentType"`
	IsDeleted   *bool                    `json:"isDeleted"`
}

func (h *Handler) handleCreateLevel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	islandID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req levelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid level request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	params := service.CreateLevelParams{}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.Position != nil {
		params.Position = *req.Position
	}
	if req.ContentType != nil {
		params.ContentType = *req.ContentType
	}

	level, err := h.courses.CreateLevel(ctx, islandID, params)
	if err != nil {
		h.warn(ctx, "level create failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, level)
}

func (h *Handler) handleUpdateLevel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req levelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid level request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	level, err := h.courses.UpdateLevel(ctx, id, service.UpdateLevelParams{
		Name:        req.Name,
		Position:    req.Position,
		ContentType: req.ContentType,
		IsDeleted:   req.IsDeleted,
	})
	if err != nil {
		h.warn(ctx, "level update failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, level)
}

func (h *Handler) handleListLevels(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	islandID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	levels, err := h.courses.ListLevels(ctx, islandID)
	if err != nil {
		h.warn(ctx, "level list failed", err)
		httpjson.WriteError(w, err)
		return
	}
	if levels == nil {
		levels = []coursemgmt.Level{}
	}
	httpjson.Write(w, http.StatusOK, levels)
}

func (h *Handler) handleCreateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	levelID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	challenge, err := h.courses.CreateChallenge(ctx, levelID)
	if err != nil {
		h.warn(ctx, "challenge create failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, challenge)
}

type challengeRequest struct {
	TeacherID *uuid.UUID `json:"teacherId"`
	IsDeleted *bool      `json:"isDeleted"`
}

func (h *Handler) handleUpdateChallenge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req challengeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid challenge request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	challenge, err := h.courses.UpdateChallenge(ctx, id, service.UpdateChallengeParams{
		TeacherID: req.TeacherID,
		IsDeleted: req.IsDeleted,
	})
	if err != nil {
		h.warn(ctx, "challenge update failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, challenge)
}

type slideRequest struct {
	ID          uuid.UUID         `json:"id"`
	Title       *string           `json:"title"`
	Description *string           `json:"description"`
	Index       *int              `json:"index"`
	Type        *events.SlideType `json:"type"`
	IsDeleted   *bool             `json:"isDeleted"`
}

func (h *Handler) handleUpsertSlide(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	challengeID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req slideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid slide request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	slide, err := h.courses.UpsertSlide(ctx, challengeID, service.UpsertSlideParams{
		ID:          req.ID,
		Title:       req.Title,
		Description: req.Description,
		Index:       req.Index,
		Type:        req.Type,
		IsDeleted:   req.IsDeleted,
	})
	if err != nil {
		h.warn(ctx, "slide upsert failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, slide)
}

func (h *Handler) handleListSlides(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	challengeID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	slides, err := h.courses.ListSlides(ctx, challengeID)
	if err != nil {
		h.warn(ctx, "slide list failed", err)
		httpjson.WriteError(w, err)
		return
	}
	if slides == nil {
		slides = []coursemgmt.Slide{}
	}
	httpjson.Write(w, http.StatusOK, slides)
}
