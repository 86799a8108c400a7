package instutil

import (
	"log/slog"
	"regexp"
	"strings"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	requestCount atomic.Pointer[prometheus.CounterVec]

	namespaceSanitizer = regexp.MustCompile("[^a-zA-Z0-9]+")
)

// InitMetrics registers the gateway request counter under a namespace
// derived from the service name. It is a no-op for services that leave
// metrics disabled; CountRequest silently does nothing in that case.
func InitMetrics(serviceName string) {
	namespace := strings.ToLower(namespaceSanitizer.ReplaceAllString(serviceName, ""))

	metric := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "api_requests_total",
		Help:      "Outbound API requests issued through the request gateway.",
	}, []string{"method", "outcome"})

	err := prometheus.Register(metric)
	if err != nil {
		slog.Error("failed to register request counter", "error", err)
		return
	}

	requestCount.Store(metric)
}

// CountRequest records one gateway request with its outcome ("success",
// "transport_error", "status_error", "parse_error").
func CountRequest(method, outcome string) {
	metric := requestCount.Load()
	if metric == nil {
		return
	}
	metric.WithLabelValues(method, outcome).Inc()
}
