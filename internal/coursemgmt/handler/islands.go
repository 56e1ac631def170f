package handler

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"

	"questify/internal/coursemgmt"
	"questify/internal/coursemgmt/service"
	"questify/pkg/apperrors"
	"questify/pkg/platform/httpjson"
)

type islandTemplateRequest struct {
	Name      *string `json:"name"`
	ImageURL  *string `json:"imageUrl"`
	IsDeleted *bool   `json:"isDeleted"`
}

func (h *Handler) handleCreateIslandTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req islandTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid island template request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	params := service.CreateIslandTemplateParams{}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.ImageURL != nil {
		params.ImageURL = *req.ImageURL
	}

	template, err := h.courses.CreateIslandTemplate(ctx, params)
	if err != nil {
		h.warn(ctx, "island template create failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, template)
}

func (h *Handler) handleUpdateIslandTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req islandTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid island template request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	template, err := h.courses.UpdateIslandTemplate(ctx, id, service.UpdateIslandTemplateParams{
		Name:      req.Name,
		ImageURL:  req.ImageURL,
		IsDeleted: req.IsDeleted,
	})
	if err != nil {
		h.warn(ctx, "island template update failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, template)
}

func (h *Handler) handleListIslandTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	templates, err := h.courses.ListIslandTemplates(ctx)
	if err != nil {
		h.warn(ctx, "island template list failed", err)
		httpjson.WriteError(w, err)
		return
	}
	if templates == nil {
		templates = []coursemgmt.IslandTemplate{}
	}
	httpjson.Write(w, http.StatusOK, templates)
}

type islandRequest struct {
	TemplateID      *uuid.UUID `json:"templateId"`
	Name            *string    `json:"name"`
	Position        *int       `json:"position"`
	BackgroundImage *string    `json:"backgroundImage"`
	IsDeleted       *bool      `json:"isDeleted"`
}

func (h *Handler) handleCreateIsland(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req islandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid island request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	params := service.CreateIslandParams{TemplateID: req.TemplateID}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.Position != nil {
		params.Position = *req.Position
	}
	if req.BackgroundImage != nil {
		params.BackgroundImage = *req.BackgroundImage
	}

	island, err := h.courses.CreateIsland(ctx, courseID, params)
	if err != nil {
		h.warn(ctx, "island create failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, island)
}

func (h *Handler) handleUpdateIsland(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req islandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid island request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	island, err := h.courses.UpdateIsland(ctx, id, service.UpdateIslandParams{
		Name:            req.Name,
		Position:        req.Position,
		TemplateID:      req.TemplateID,
		BackgroundImage: req.BackgroundImage,
		IsDeleted:       req.IsDeleted,
	})
	if err != nil {
		h.warn(ctx, "island update failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, island)
}

func (h *Handler) handleListIslands(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	islands, err := h.courses.ListIslands(ctx, courseID)
	if err != nil {
		h.warn(ctx, "island list failed", err)
		httpjson.WriteError(w, err)
		return
	}
	if islands == nil {
		islands = []coursemgmt.Island{}
	}
	httpjson.Write(w, http.StatusOK, islands)
}

type prerequisiteRequest struct {
	PrerequisiteIslandID uuid.UUID `json:"prerequisiteIslandId"`
}

func (h *Handler) handleAddPrerequisite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	islandID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req prerequisiteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid prerequisite request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	if err := h.courses.AddPrerequisite(ctx, islandID, req.PrerequisiteIslandID); err != nil {
		h.warn(ctx, "prerequisite add failed", err)
		httpjson.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRemovePrerequisite(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	islandID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	prerequisiteID, ok := h.pathID(w, r, "prerequisiteId")
	if !ok {
		return
	}

	if err := h.courses.RemovePrerequisite(ctx, islandID, prerequisiteID); err != nil {
		h.warn(ctx, "prerequisite remove failed", err)
		httpjson.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListPrerequisites(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	islandID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	links, err := h.courses.ListPrerequisites(ctx, islandID)
	if err != nil {
		h.warn(ctx, "prerequisite list failed", err)
		httpjson.WriteError(w, err)
		return
	}
	if links == nil {
		links = []coursemgmt.PrerequisiteIsland{}
	}
	httpjson.Write(w, http.StatusOK, links)
}
