package metrics

import (
	"sort"
	"sync"
	"time"
)

// Route labels. Anything that is not a public route is folded into
// RouteOther so unknown paths cannot grow the metric set.
const (
	RouteRoot   = "/"
	RouteHealth = "/health"
	RouteOther  = "other"
)

const maxSamples = 1000

type Metrics struct {
	mutex         sync.RWMutex
	requests      map[string]int64
	responseTimes map[string][]time.Duration
	statusCodes   map[string]map[int]int64
	healthy       bool
	healthKnown   bool
	startTime     time.Time
}

type Snapshot struct {
	TotalRequests int64                   `json:"total_requests"`
	Uptime        time.Duration           `json:"uptime"`
	Engine        string                  `json:"engine"`
	Healthy       *bool                   `json:"healthy,omitempty"`
	Routes        map[string]RouteMetrics `json:"routes"`
}

type RouteMetrics struct {
	Requests    int64         `json:"requests"`
	AvgResponse time.Duration `json:"avg_response"`
	P50Response time.Duration `json:"p50_response"`
	P95Response time.Duration `json:"p95_response"`
	P99Response time.Duration `json:"p99_response"`
	StatusCodes map[int]int64 `json:"status_codes"`
}

// RouteLabel maps a request path to its metric label.
func RouteLabel(path string) string {
	switch path {
	case RouteRoot, RouteHealth:
		return path
	default:
		return RouteOther
	}
}

func NewMetrics() *Metrics {
	return &Metrics{
		requests:      make(map[string]int64),
		responseTimes: make(map[string][]time.Duration),
		statusCodes:   make(map[string]map[int]int64),
		startTime:     time.Now(),
	}
}

func (m *Metrics) RecordRequest(route string, duration time.Duration, statusCode int) {
	m.mutex.Lock()
	defer m.mutex.Unlock()

	m.requests[route]++

	m.responseTimes[route] = append(m.responseTimes[route], duration)
	if len(m.responseTimes[route]) > maxSamples {
		m.responseTimes[route] = m.responseTimes[route][1:]
	}

	if m.statusCodes[route] == nil {
		m.statusCodes[route] = make(map[int]int64)
	}
	m.statusCodes[route][statusCode]++
}

func (m *Metrics) UpdateHealthStatus(healthy bool) {
	m.mutex.Lock()
	defer m.mutex.Unlock()
	m.healthy = healthy
	m.healthKnown = true
}

func (m *Metrics) Snapshot(engine string) Snapshot {
	m.mutex.RLock()
	defer m.mutex.RUnlock()

	snap := Snapshot{
		Uptime: time.Since(m.startTime),
		Engine: engine,
		Routes: make(map[string]RouteMetrics),
	}

	if m.healthKnown {
		healthy := m.healthy
		snap.Healthy = &healthy
	}

	for route, count := range m.requests {
		snap.TotalRequests += count

		codes := make(map[int]int64, len(m.statusCodes[route]))
		for code, n := range m.statusCodes[route] {
			codes[code] = n
		}

		rm := RouteMetrics{
			Requests:    count,
			StatusCodes: codes,
		}

		durations := m.responseTimes[route]
		if len(durations) > 0 {
			sorted := make([]time.Duration, len(durations))
			copy(sorted, durations)
			sort.Slice(sorted, func(i, j int) bool {
				return sorted[i] < sorted[j]
			})

			rm.AvgResponse = average(sorted)
			rm.P50Response = percentile(sorted, 0.50)
			rm.P95Response = percentile(sorted, 0.95)
			rm.P99Response = percentile(sorted, 0.99)
		}

		snap.Routes[route] = rm
	}

	return snap
}

func average(durations []time.Duration) time.Duration {
	if len(durations) == 0 {
		return 0
	}

	var sum time.Duration
	for _, d := range durations {
		sum += d
	}

	return sum / time.Duration(len(durations))
}

func percentile(sorted []time.Duration, p float64) time.Duration {
	if len(sorted) == 0 {
		return 0
	}

	index := int(float64(len(sorted)) * p)
	if index >= len(sorted) {
		index = len(sorted) - 1
	}

	return sorted[index]
}
