package engine

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/angeloszaimis/dockerlabs/internal/handler"
	"github.com/angeloszaimis/dockerlabs/internal/hostinfo"
)

func newChi(responder *hostinfo.Responder, logger *slog.Logger) *chi.Mux {
	h := handler.New(logger, responder)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", h.Root)
	r.Get("/health", h.Health)

	return r
}
