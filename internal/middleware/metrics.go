package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by command name.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracemap_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// TracesCreated counts successfully created traces.
	TracesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracemap_traces_created_total",
		Help: "Total number of traces created",
	})

	// TraceLifecycleTransitions counts delete/restore transitions by action.
	TraceLifecycleTransitions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "tracemap_trace_lifecycle_transitions_total",
		Help: "Total number of trace lifecycle transitions by action",
	}, []string{"action"})

	// DiscoveryRequests counts nearby-trace discovery queries.
	DiscoveryRequests = promauto.NewCounter(prometheus.CounterOpts{
		Name: "tracemap_discovery_requests_total",
		Help: "Total number of discovery queries",
	})

	// DiscoveryResultSize records how many traces each discovery query returned.
	DiscoveryResultSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "tracemap_discovery_result_size",
		Help:    "Number of traces returned per discovery query",
		Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
	})
)

var (
	promOnce sync.Once
	prom     *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus middleware for the given service name.
// The default registry is used so the scrape endpoint also serves the domain
// counters above; the middleware is a singleton because registering the HTTP
// collectors twice would panic.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		prom = fiberprometheus.NewWithDefaultRegistry(serviceName)
	})
	return prom
}

// MetricsMiddleware returns the Fiber handler recording per-request HTTP metrics.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
