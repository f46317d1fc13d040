package handler

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/signal-verifier/internal/application/link"
	"github.com/signal-verifier/internal/domain"
	"github.com/signal-verifier/internal/pkg/validate"
)

// LinkHandler serves the two public halves of the account-linking flow: the
// signed start redirect and the OAuth callback.
type LinkHandler struct {
	svc link.Service
}

func NewLinkHandler(svc link.Service) *LinkHandler {
	return &LinkHandler{svc: svc}
}

type startParams struct {
	UserID string `validate:"required"`
	TS     string `validate:"required"`
	Sig    string `validate:"required,len=64,hexadecimal"`
}

// Start validates the signed start link and redirects the user to the
// provider's authorization page.
func (h *LinkHandler) Start(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := startParams{
		UserID: q.Get("user_id"),
		TS:     q.Get("ts"),
		Sig:    q.Get("sig"),
	}
	if err := validate.Struct(params); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.svc.VerifyStartSignature(params.UserID, params.TS, params.Sig); err != nil {
		status := http.StatusUnauthorized
		if errors.Is(err, domain.ErrBadRequest) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err.Error())
		return
	}

	authorizeURL, err := h.svc.BeginAuthorization(r.Context(), params.UserID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not start linking, try again")
		return
	}
	http.Redirect(w, r, authorizeURL, http.StatusFound)
}

// Callback completes the flow after the provider redirects back. Failures
// render a human-readable page since the browser is the caller here.
func (h *LinkHandler) Callback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if denied := q.Get("error"); denied != "" {
		writePage(w, http.StatusBadRequest, "Linking cancelled",
			"The authorization was denied. Return to the chat and request a new link.")
		return
	}
	state, code := q.Get("state"), q.Get("code")
	if state == "" || code == "" {
		writePage(w, http.StatusBadRequest, "Invalid callback",
			"Missing state or code. Return to the chat and request a new link.")
		return
	}

	linked, err := h.svc.CompleteLink(r.Context(), state, code)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, domain.ErrNotFound) {
			status = http.StatusGone
		}
		writePage(w, status, "Linking failed",
			"This link is invalid or expired. Return to the chat and request a new one.")
		return
	}

	writePage(w, http.StatusOK, "Account linked",
		fmt.Sprintf("@%s is now linked. You can close this tab and post your screenshot.", linked.ExternalUsername))
}

// Status reports whether a user has a linked account. Served on the internal
// surface for the bot process, not the public one.
func (h *LinkHandler) Status(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	linked, err := h.svc.Status(r.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeJSON(w, http.StatusOK, LinkStatusEnvelope{Linked: false})
			return
		}
		writeError(w, http.StatusInternalServerError, "could not load link status")
		return
	}
	writeJSON(w, http.StatusOK, LinkStatusEnvelope{Linked: true, Account: linked})
}

// Unlink removes a user's linked account.
func (h *LinkHandler) Unlink(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	removed, err := h.svc.Unlink(r.Context(), userID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "could not unlink account")
		return
	}
	if !removed {
		writeError(w, http.StatusNotFound, "no linked account")
		return
	}
	writeJSON(w, http.StatusOK, MessageEnvelope{Message: "account unlinked"})
}

func writePage(w http.ResponseWriter, status int, title, body string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	fmt.Fprintf(w, "<!doctype html><html><head><title>%s</title></head><body><h1>%s</h1><p>%s</p></body></html>", title, title, body)
}
