package metrics

import (
	"context"
	"log/slog"
	"time"
)

type EventType string

const (
	EventRequestServed EventType = "request_served"
	EventHealthChanged EventType = "health_changed"
)

type MetricEvent struct {
	Type       EventType
	Timestamp  time.Time
	Route      string
	Duration   time.Duration
	StatusCode int
	Healthy    bool
}

type Collector struct {
	eventCh chan MetricEvent
	metrics *Metrics
	logger  *slog.Logger
}

func NewCollector(bufferSize int, logger *slog.Logger) *Collector {
	return &Collector{
		eventCh: make(chan MetricEvent, bufferSize),
		metrics: NewMetrics(),
		logger:  logger,
	}
}

func (c *Collector) EventChannel() chan<- MetricEvent {
	return c.eventCh
}

// Emit sends an event without blocking. It reports false when the buffer
// is full and the event was dropped.
func (c *Collector) Emit(event MetricEvent) bool {
	select {
	case c.eventCh <- event:
		return true
	default:
		return false
	}
}

func (c *Collector) Start(ctx context.Context) {
	go c.run(ctx)
}

func (c *Collector) run(ctx context.Context) {
	c.logger.Info("Metrics collector started")
	defer c.logger.Info("Metrics collector stopped")

	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		case <-ctx.Done():
			// Drain remaining events before shutdown
			c.drain()
			return
		}
	}
}

func (c *Collector) processEvent(event MetricEvent) {
	switch event.Type {
	case EventRequestServed:
		c.metrics.RecordRequest(event.Route, event.Duration, event.StatusCode)

	case EventHealthChanged:
		c.metrics.UpdateHealthStatus(event.Healthy)

	default:
		c.logger.Debug("Ignoring unknown metric event", slog.String("type", string(event.Type)))
	}
}

func (c *Collector) drain() {
	for {
		select {
		case event := <-c.eventCh:
			c.processEvent(event)
		default:
			return
		}
	}
}

func (c *Collector) Snapshot(engine string) Snapshot {
	return c.metrics.Snapshot(engine)
}
