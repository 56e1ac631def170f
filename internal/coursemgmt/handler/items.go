package handler

import (
	"encoding/json"
	"net/http"

	"questify/internal/coursemgmt"
	"questify/internal/coursemgmt/service"
	"questify/pkg/apperrors"
	"questify/pkg/events"
	"questify/pkg/platform/httpjson"
)

type itemTemplateRequest struct {
	Name        *string                `json:"name"`
	Gold        *int                   `json:"gold"`
	EffectType  *events.ItemEffectType `json:"effectType"`
	Description *string                `json:"description"`
	Img         *string                `json:"img"`
	IsDeleted   *bool                  `json:"isDeleted"`
}

func (h *Handler) handleCreateItemTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req itemTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid item template request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	params := service.CreateItemTemplateParams{}
	if req.Name != nil {
		params.Name = *req.Name
	}
	if req.Gold != nil {
		params.Gold = *req.Gold
	}
	if req.EffectType != nil {
		params.EffectType = *req.EffectType
	}
	if req.Description != nil {
		params.Description = *req.Description
	}
	if req.Img != nil {
		params.Img = *req.Img
	}

	template, err := h.courses.CreateItemTemplate(ctx, params)
	if err != nil {
		h.warn(ctx, "item template create failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, template)
}

func (h *Handler) handleUpdateItemTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	id, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}

	var req itemTemplateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid item template request", err)
		httpjson.WriteError(w, apperrors.BadRequest("Invalid request body"))
		return
	}

	template, err := h.courses.UpdateItemTemplate(ctx, id, service.UpdateItemTemplateParams{
		Name:        req.Name,
		Gold:        req.Gold,
		EffectType:  req.EffectType,
		Description: req.Description,
		Img:         req.Img,
		IsDeleted:   req.IsDeleted,
	})
	if err != nil {
		h.warn(ctx, "item template update failed", err)
		httpjson.WriteError(w, err)
		return
	}
	httpjson.Write(w, http.StatusOK, template)
}

func (h *Handler) handleListItemTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	templates, err := h.courses.ListItemTemplates(ctx)
	if err != nil {
		h.warn(ctx, "item template list failed", err)
		httpjson.WriteError(w, err)
		return
	}
	if templates == nil {
		templates = []coursemgmt.ItemTemplate{}
	}
	httpjson.Write(w, http.StatusOK, templates)
}

func (h *Handler) handleAttachItemTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	templateID, ok := h.pathID(w, r, "templateId")
	if !ok {
		return
	}

	if err := h.courses.AttachItemTemplate(ctx, courseID, templateID); err != nil {
		h.warn(ctx, "item attach failed", err)
		httpjson.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDetachItemTemplate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	templateID, ok := h.pathID(w, r, "templateId")
	if !ok {
		return
	}

	if err := h.courses.DetachItemTemplate(ctx, courseID, templateID); err != nil {
		h.warn(ctx, "item detach failed", err)
		httpjson.WriteError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleListCourseItemTemplates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	courseID, ok := h.pathID(w, r, "id")
	if !ok {
		return
	}
	links, err := h.courses.ListCourseItemTemplates(ctx, courseID)
	if err != nil {
		h.warn(ctx, "course item list failed", err)
		httpjson.WriteError(w, err)
		return
	}
	if links == nil {
		links = []coursemgmt.CourseItemTemplate{}
	}
	httpjson.Write(w, http.StatusOK, links)
}
