package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/angeloszaimis/dockerlabs/config"
	"github.com/angeloszaimis/dockerlabs/internal/engine"
	"github.com/angeloszaimis/dockerlabs/internal/healthcheck"
	"github.com/angeloszaimis/dockerlabs/internal/hostinfo"
	"github.com/angeloszaimis/dockerlabs/internal/httpserver"
	"github.com/angeloszaimis/dockerlabs/internal/metrics"
	"github.com/angeloszaimis/dockerlabs/internal/middleware"
	"github.com/angeloszaimis/dockerlabs/pkg/logger"
)

const (
	metricsBufferSize = 1024
	probeTimeout      = 3 * time.Second
)

func main() {
	flags := config.NewFlagSet(os.Args[0])
	probe := flags.Bool("probe", false, "check /health on the configured address and exit")

	if err := flags.Parse(os.Args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}

	cfg, err := config.Load(flags)
	if err != nil {
		slog.Error("failed to load config", slog.Any("err", err))
		os.Exit(1)
	}

	log := logger.New(cfg.Logging.Level, cfg.Server.Environment == config.EnvProd, cfg.Server.Environment)

	if *probe {
		ctx, cancel := context.WithTimeout(context.Background(), probeTimeout)
		defer cancel()

		client := &http.Client{Timeout: probeTimeout}
		if err := healthcheck.Probe(ctx, client, healthURL(cfg.Server.Address)); err != nil {
			log.Error("Health probe failed", slog.Any("err", err))
			os.Exit(1)
		}
		os.Exit(0)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, cfg, log, nil); err != nil {
		log.Error("Service stopped with error", slog.Any("err", err))
		os.Exit(1)
	}
}

// run serves until ctx is done or a listener fails. ready, when non-nil,
// receives the bound public and admin addresses once both listen.
func run(ctx context.Context, cfg *config.Config, log *slog.Logger, ready chan<- []string) error {
	kind := cfg.EngineKind()
	readTimeout, writeTimeout, shutdownTimeout, healthInterval := cfg.Durations()

	log = log.With(slog.String("engine", kind.String()))

	collectorCtx, stopCollector := context.WithCancel(context.Background())
	defer stopCollector()

	collector := metrics.NewCollector(metricsBufferSize, log)
	collector.Start(collectorCtx)

	responder := hostinfo.NewResponder(kind.Accelerated(), nil)

	public, err := engine.New(kind, responder, log)
	if err != nil {
		return fmt.Errorf("build engine: %w", err)
	}

	opts := []httpserver.Option{
		httpserver.WithReadTimeout(readTimeout),
		httpserver.WithWriteTimeout(writeTimeout),
		httpserver.WithShutdownTimeout(shutdownTimeout),
	}

	srv, err := httpserver.New(cfg.Server.Address, middleware.Instrument(log, collector)(public), opts...)
	if err != nil {
		return fmt.Errorf("create server: %w", err)
	}

	servers := []*httpserver.Server{srv}

	if cfg.Admin.Address != "" {
		admin, err := httpserver.New(cfg.Admin.Address, setupAdminRouter(collector, kind), opts...)
		if err != nil {
			return fmt.Errorf("create admin server: %w", err)
		}
		servers = append(servers, admin)
	}

	addrs := make([]string, 0, len(servers))
	for _, s := range servers {
		if err := s.Listen(); err != nil {
			for _, bound := range servers {
				_ = bound.Shutdown(context.Background())
			}
			return fmt.Errorf("listen on %s: %w", s.Addr(), err)
		}
		addrs = append(addrs, s.Addr())
	}

	srvErrCh := make(chan error, len(servers))
	for _, s := range servers {
		go func(s *httpserver.Server) {
			srvErrCh <- s.Start()
		}(s)
	}

	log.Info("Serving",
		slog.String("address", addrs[0]),
		slog.Bool("tagged", responder.Tagged()))
	if len(addrs) > 1 {
		log.Info("Serving admin endpoints", slog.String("address", addrs[1]))
	}

	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()

	if healthInterval > 0 {
		client := &http.Client{Timeout: probeTimeout}
		go healthcheck.Watch(watchCtx, client, healthURL(addrs[0]), healthInterval, log, func(healthy bool) {
			collector.Emit(metrics.MetricEvent{
				Type:      metrics.EventHealthChanged,
				Timestamp: time.Now(),
				Healthy:   healthy,
			})
		})
	}

	if ready != nil {
		ready <- addrs
	}

	var runErr error
	select {
	case <-ctx.Done():
		log.Info("Shutting down gracefully...")
	case runErr = <-srvErrCh:
		if runErr == nil {
			runErr = errors.New("server stopped unexpectedly")
		}
	}

	stopWatch()
	for _, s := range servers {
		if err := s.Shutdown(context.Background()); err != nil {
			log.Error("Error during shutdown", slog.Any("err", err))
		}
	}

	return runErr
}

// healthURL points at /health on addr, substituting loopback for an
// unspecified host.
func healthURL(addr string) string {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return "http://" + addr + "/health"
	}

	if host == "" || host == "0.0.0.0" || host == "::" {
		host = "127.0.0.1"
	}

	return "http://" + net.JoinHostPort(host, port) + "/health"
}
