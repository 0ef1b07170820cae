package handler

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/dockerlabs/internal/hostinfo"
)

type Handler struct {
	logger    *slog.Logger
	responder *hostinfo.Responder
}

func New(logger *slog.Logger, responder *hostinfo.Responder) *Handler {
	return &Handler{
		logger:    logger,
		responder: responder,
	}
}

// Root writes the host name greeting as plain text. A failed host name
// lookup yields a bare 500.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	body, err := h.responder.Root()
	if err != nil {
		h.logger.Error("Failed to resolve hostname",
			slog.String("path", r.URL.Path),
			slog.Any("err", err))
		w.WriteHeader(http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = io.WriteString(w, body)
}

// Health writes the static health record.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, hostinfo.Healthy())
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
