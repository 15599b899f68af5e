package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/intakehq/intake/internal/core"
	"github.com/intakehq/intake/internal/core/store"
	"github.com/intakehq/intake/internal/metrics"
)

// FeedbackHandler serves the public feedback intake endpoint.
type FeedbackHandler struct {
	store *store.Store
}

// NewFeedbackHandler creates the public feedback handler.
func NewFeedbackHandler(st *store.Store) *FeedbackHandler {
	return &FeedbackHandler{store: st}
}

// submitRequest is the submission payload as clients send it.
type submitRequest struct {
	UserID   string `json:"userId"`
	Message  string `json:"message"`
	Rating   int    `json:"rating"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// Submit handles POST /api/feedback. Validation failures return 400 with a
// bare field -> reason map, which existing clients depend on.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeFieldErrors(w, map[string]string{"body": "request body must be valid JSON"})
		return
	}

	f := core.NewFeedback()
	f.UserID = req.UserID
	f.Message = req.Message
	f.Rating = req.Rating
	f.Category = core.Category(req.Category)
	f.Priority = core.Priority(req.Priority)

	// Store canonical uppercase values so filters match regardless of the
	// casing clients submit.
	if category, ok := core.ParseCategory(req.Category); ok {
		f.Category = category
	}
	if priority, ok := core.ParsePriority(req.Priority); ok {
		f.Priority = priority
	}

	if problems := f.ValidateSubmission(); len(problems) > 0 {
		metrics.RecordFeedbackSubmitted(req.Category, false)
		writeFieldErrors(w, problems)
		return
	}

	if err := h.store.InsertFeedback(r.Context(), f); err != nil {
		metrics.RecordFeedbackSubmitted(string(f.Category), false)
		respondWithError(w, r, err)
		return
	}

	metrics.RecordFeedbackSubmitted(string(f.Category), true)
	writeJSON(w, http.StatusCreated, f)
}

func writeFieldErrors(w http.ResponseWriter, problems map[string]string) {
	writeJSON(w, http.StatusBadRequest, problems)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
