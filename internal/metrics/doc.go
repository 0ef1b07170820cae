// Package metrics collects request and health statistics for the service.
//
// It uses a channel-based event pipeline to asynchronously collect:
//   - Request counts per route
//   - Response times with percentile calculations (P50, P95, P99)
//   - HTTP status code distribution per route
//   - The service's own health state, as observed by the health watcher
//
// The collector runs in a dedicated goroutine and processes events without blocking
// the request path. Producers send with non-blocking semantics so a full buffer
// drops the event instead of slowing a request down.
//
// Example usage:
//
//	collector := metrics.NewCollector(1000, logger)
//	collector.Start(ctx)
//
//	collector.EventChannel() <- metrics.MetricEvent{
//		Type:       metrics.EventRequestServed,
//		Route:      metrics.RouteRoot,
//		Duration:   150 * time.Microsecond,
//		StatusCode: 200,
//	}
//
//	snapshot := collector.Snapshot("echo")
//
// Snapshots are served as JSON on the admin listener only.
package metrics
