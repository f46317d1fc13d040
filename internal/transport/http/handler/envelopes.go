package handler

import (
	"encoding/json"
	"net/http"

	"github.com/signal-verifier/internal/domain"
)

// MessageEnvelope is the generic response wrapper.
type MessageEnvelope struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HistoryEnvelope wraps verification-history responses.
type HistoryEnvelope struct {
	Entries []domain.HistoryEntry `json:"entries"`
}

// LinkStatusEnvelope wraps link-status responses.
type LinkStatusEnvelope struct {
	Linked  bool                   `json:"linked"`
	Account *domain.LinkedIdentity `json:"account,omitempty"`
	Error   string                 `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, MessageEnvelope{Error: msg})
}
