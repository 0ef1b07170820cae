package healthcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/angeloszaimis/dockerlabs/internal/hostinfo"
)

const maxBodySize = 4 << 10

// Probe sends one GET to url and succeeds only on a 200 whose body reports
// the healthy status.
func Probe(ctx context.Context, client *http.Client, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build probe request: %w", err)
	}

	res, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("probe %s: %w", url, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("probe %s: unexpected status %d", url, res.StatusCode)
	}

	var health hostinfo.Health
	if err := json.NewDecoder(io.LimitReader(res.Body, maxBodySize)).Decode(&health); err != nil {
		return fmt.Errorf("probe %s: decode body: %w", url, err)
	}

	if health.Status != hostinfo.StatusHealthy {
		return fmt.Errorf("probe %s: status %q", url, health.Status)
	}

	return nil
}

// Watch probes url every interval until ctx is done. onChange is called with
// the first observed state and on every transition after that.
func Watch(
	ctx context.Context,
	client *http.Client,
	url string,
	interval time.Duration,
	logger *slog.Logger,
	onChange func(healthy bool),
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var (
		known   bool
		healthy bool
	)

	for {
		select {
		case <-ctx.Done():
			logger.Info("Health watch stopped", slog.String("url", url))
			return

		case <-ticker.C:
			err := Probe(ctx, client, url)
			if ctx.Err() != nil {
				continue
			}

			current := err == nil
			if known && current == healthy {
				continue
			}
			known = true
			healthy = current

			if healthy {
				logger.Info("Service is up", slog.String("url", url))
			} else {
				logger.Warn("Service is down",
					slog.String("url", url),
					slog.Any("err", err))
			}

			if onChange != nil {
				onChange(healthy)
			}
		}
	}
}
