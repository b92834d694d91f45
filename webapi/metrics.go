package webapi

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var operationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "banking",
	Name:      "operations_total",
	Help:      "Count of banking operations by kind and outcome.",
}, []string{"op", "outcome"})

func countOp(op string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	operationsTotal.WithLabelValues(op, outcome).Inc()
}

// MetricsHandler exposes the Prometheus registry.
func MetricsHandler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}
