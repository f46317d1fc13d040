package handler

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/signal-verifier/internal/application/verify"
	"github.com/signal-verifier/internal/domain"
	"github.com/signal-verifier/internal/pkg/validate"
)

// HistoryReader serves per-user verification history lookups.
type HistoryReader interface {
	RecentByUser(ctx context.Context, userID string, limit int32) ([]domain.HistoryEntry, error)
}

// VerificationHandler accepts screenshot submissions from the chat-bot
// process and hands them to the worker queue.
type VerificationHandler struct {
	worker  *verify.Worker
	history HistoryReader
}

func NewVerificationHandler(worker *verify.Worker, history HistoryReader) *VerificationHandler {
	return &VerificationHandler{worker: worker, history: history}
}

type submitRequest struct {
	SubmitterID string `json:"submitter_id" validate:"required"`
	DisplayName string `json:"display_name"`
	GuildID     string `json:"guild_id" validate:"required"`
	ImageBase64 string `json:"image_base64" validate:"required"`
}

// Submit enqueues one verification job. The response only acknowledges
// intake; the outcome arrives through the notification sink.
func (h *VerificationHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	image, err := base64.StdEncoding.DecodeString(req.ImageBase64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "image_base64 is not valid base64")
		return
	}

	job := domain.VerificationJob{
		SubmitterID: req.SubmitterID,
		DisplayName: req.DisplayName,
		GuildID:     req.GuildID,
		Image:       image,
	}
	if err := h.worker.Enqueue(job); err != nil {
		writeError(w, http.StatusServiceUnavailable, "verification queue is full, try again shortly")
		return
	}
	writeJSON(w, http.StatusAccepted, MessageEnvelope{Message: "verification queued"})
}

// History returns a user's most recent verification attempts, newest first.
func (h *VerificationHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	limit := int32(10)
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > 100 {
			writeError(w, http.StatusBadRequest, "limit must be between 1 and 100")
			return
		}
		limit = int32(n)
	}

	entries, err := h.history.RecentByUser(r.Context(), userID, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not load verification history")
		return
	}
	writeJSON(w, http.StatusOK, HistoryEnvelope{Entries: entries})
}
