package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/intakehq/intake/internal/core"
	"github.com/intakehq/intake/internal/core/store"
	apperrors "github.com/intakehq/intake/internal/errors"
	"github.com/intakehq/intake/internal/metrics"
	"github.com/intakehq/intake/internal/server/middleware"
)

// AdminHandler serves the authenticated triage endpoints.
type AdminHandler struct {
	store *store.Store
}

// NewAdminHandler creates the admin handler.
func NewAdminHandler(st *store.Store) *AdminHandler {
	return &AdminHandler{store: st}
}

// feedbackPage mirrors the page shape existing admin tooling consumes.
type feedbackPage struct {
	Content       []core.Feedback `json:"content"`
	Page          int             `json:"page"`
	Size          int             `json:"size"`
	TotalElements int             `json:"totalElements"`
	TotalPages    int             `json:"totalPages"`
}

// List handles GET /api/admin/feedback. Query parameters are decoded into
// filter params and resolved to a single effective filter combination.
func (h *AdminHandler) List(w http.ResponseWriter, r *http.Request) {
	params, problems := core.ParseFilterParams(r.URL.Query().Get)
	if len(problems) > 0 {
		writeFieldErrors(w, problems)
		return
	}

	spec := core.ResolveFilter(params)
	metrics.RecordFeedbackList(string(spec.Kind))

	records, err := h.store.ListFeedback(r.Context(), spec)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	total, err := h.store.CountFeedback(r.Context(), spec)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	if records == nil {
		records = []core.Feedback{}
	}

	totalPages := 0
	if spec.Size > 0 {
		totalPages = (total + spec.Size - 1) / spec.Size
	}

	writeJSON(w, http.StatusOK, feedbackPage{
		Content:       records,
		Page:          spec.Page,
		Size:          spec.Size,
		TotalElements: total,
		TotalPages:    totalPages,
	})
}

// Get handles GET /api/admin/feedback/{id}.
func (h *AdminHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := h.feedbackID(w, r)
	if !ok {
		return
	}

	f, err := h.store.GetFeedback(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	if f == nil {
		respondWithError(w, r, apperrors.NewNotFoundError("Feedback not found"))
		return
	}

	writeJSON(w, http.StatusOK, f)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/admin/feedback/{id}/status.
func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := h.feedbackID(w, r)
	if !ok {
		return
	}

	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, map[string]string{"body": "request body must be valid JSON"})
		return
	}

	status, valid := core.ParseStatus(req.Status)
	if !valid {
		writeFieldErrors(w, map[string]string{"status": "status is invalid"})
		return
	}

	previous, err := h.store.GetFeedback(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	if previous == nil {
		respondWithError(w, r, apperrors.NewNotFoundError("Feedback not found"))
		return
	}

	if _, err := h.store.UpdateFeedbackStatus(r.Context(), id, status); err != nil {
		respondWithError(w, r, err)
		return
	}

	metrics.RecordStatusTransition(string(previous.Status), string(status))

	previous.Status = status
	writeJSON(w, http.StatusOK, previous)
}

type priorityRequest struct {
	Priority string `json:"priority"`
}

// UpdatePriority handles PATCH /api/admin/feedback/{id}/priority.
func (h *AdminHandler) UpdatePriority(w http.ResponseWriter, r *http.Request) {
	id, ok := h.feedbackID(w, r)
	if !ok {
		return
	}

	var req priorityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, map[string]string{"body": "request body must be valid JSON"})
		return
	}

	priority, valid := core.ParsePriority(req.Priority)
	if !valid {
		writeFieldErrors(w, map[string]string{"priority": "priority is invalid"})
		return
	}

	updated, err := h.store.UpdateFeedbackPriority(r.Context(), id, priority)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	if !updated {
		respondWithError(w, r, apperrors.NewNotFoundError("Feedback not found"))
		return
	}

	f, err := h.store.GetFeedback(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, f)
}

type responseRequest struct {
	Response string `json:"response"`
}

// CreateResponse handles POST /api/admin/feedback/{id}/responses.
func (h *AdminHandler) CreateResponse(w http.ResponseWriter, r *http.Request) {
	id, ok := h.feedbackID(w, r)
	if !ok {
		return
	}

	var req responseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, map[string]string{"body": "request body must be valid JSON"})
		return
	}
	if req.Response == "" {
		writeFieldErrors(w, map[string]string{"response": "response is required"})
		return
	}

	f, err := h.store.GetFeedback(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	if f == nil {
		respondWithError(w, r, apperrors.NewNotFoundError("Feedback not found"))
		return
	}

	adminID := "unknown"
	if claims := middleware.GetClaims(r.Context()); claims != nil {
		adminID = claims.Subject()
	}

	resp := core.AdminResponse{
		ID:         uuid.New(),
		FeedbackID: id,
		AdminID:    adminID,
		Response:   req.Response,
		CreatedAt:  time.Now().UTC(),
	}

	if err := h.store.InsertAdminResponse(r.Context(), resp); err != nil {
		respondWithError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// ListResponses handles GET /api/admin/feedback/{id}/responses.
func (h *AdminHandler) ListResponses(w http.ResponseWriter, r *http.Request) {
	id, ok := h.feedbackID(w, r)
	if !ok {
		return
	}

	responses, err := h.store.ListAdminResponses(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	if responses == nil {
		responses = []core.AdminResponse{}
	}

	writeJSON(w, http.StatusOK, responses)
}

// ListAttachments handles GET /api/admin/feedback/{id}/attachments.
func (h *AdminHandler) ListAttachments(w http.ResponseWriter, r *http.Request) {
	id, ok := h.feedbackID(w, r)
	if !ok {
		return
	}

	attachments, err := h.store.ListAttachments(r.Context(), id)
	if err != nil {
		respondWithError(w, r, err)
		return
	}
	if attachments == nil {
		attachments = []core.Attachment{}
	}

	writeJSON(w, http.StatusOK, attachments)
}

func (h *AdminHandler) feedbackID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeFieldErrors(w, map[string]string{"id": "id must be a UUID"})
		return uuid.UUID{}, false
	}
	return id, true
}
