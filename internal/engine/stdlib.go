package engine

import (
	"log/slog"
	"net/http"

	"github.com/angeloszaimis/dockerlabs/internal/handler"
	"github.com/angeloszaimis/dockerlabs/internal/hostinfo"
)

func newStdlib(responder *hostinfo.Responder, logger *slog.Logger) *http.ServeMux {
	h := handler.New(logger, responder)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", h.Root)
	mux.HandleFunc("GET /health", h.Health)

	return mux
}
