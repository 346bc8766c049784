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
		Name: "recipebox_redis_errors_total",
		Help: "Total number of Redis errors by command",
	}, []string{"command"})

	// ImagesStored counts images accepted by the intake pipeline, by format.
	ImagesStored = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_images_stored_total",
		Help: "Total number of uploaded images stored, by decoded format",
	}, []string{"format"})

	// ImagesRejected counts uploads the intake pipeline refused, by reason.
	ImagesRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "recipebox_images_rejected_total",
		Help: "Total number of uploaded images rejected, by reason",
	}, []string{"reason"})
)

var (
	promOnce sync.Once
	promHTTP *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus HTTP middleware for the given service
// name. Collectors register in the default registry, so the middleware is
// built once and shared; later calls ignore the name and return the same
// instance.
func InitMetrics(service string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promHTTP = fiberprometheus.New(service)
	})
	return promHTTP
}

// MetricsMiddleware returns the request-instrumentation handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
