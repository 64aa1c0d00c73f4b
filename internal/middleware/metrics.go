package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_redis_error_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// EmailsEnqueued counts emails published to the dispatch queue by kind.
	EmailsEnqueued = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_emails_enqueued_total",
		Help: "Total number of emails enqueued for delivery",
	}, []string{"kind"})

	// EmailsDelivered counts emails the worker handed off to SMTP by kind and outcome.
	EmailsDelivered = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bloghub_emails_delivered_total",
		Help: "Total number of emails processed by the delivery worker",
	}, []string{"kind", "outcome"})
)

// InitMetrics creates the Prometheus middleware for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware wraps the fiberprometheus middleware as a fiber.Handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
