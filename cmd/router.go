package main

import (
	"net/http"

	"github.com/angeloszaimis/dockerlabs/internal/engine"
	"github.com/angeloszaimis/dockerlabs/internal/metrics"
)

// setupAdminRouter serves operational endpoints that must never appear on
// the public address.
func setupAdminRouter(metricsCollector *metrics.Collector, kind engine.Kind) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /metrics", metricsCollector.Handler(kind.String()))

	return mux
}
