// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
)

// # Request Metrics

// HTTPMetrics holds the request collectors exported on /metrics.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTPMetrics creates the collectors and registers them with registerer.
func NewHTTPMetrics(registerer prometheus.Registerer) *HTTPMetrics {
	metrics := &HTTPMetrics{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "portal",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "portal",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by method and route.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	registerer.MustRegister(metrics.requests, metrics.duration)
	return metrics
}

// Middleware records one observation per request.
//
// Routes are labelled with the chi pattern (e.g. /api/v1/users/{username})
// so path parameters never explode label cardinality.
func (metrics *HTTPMetrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		startTime := time.Now()
		wrappedWriter := newStatusRecorder(writer)

		next.ServeHTTP(wrappedWriter, request)

		route := "unmatched"
		if routeContext := chi.RouteContext(request.Context()); routeContext != nil {
			if pattern := routeContext.RoutePattern(); pattern != "" {
				route = pattern
			}
		}

		metrics.requests.WithLabelValues(request.Method, route, strconv.Itoa(wrappedWriter.status)).Inc()
		metrics.duration.WithLabelValues(request.Method, route).Observe(time.Since(startTime).Seconds())
	})
}
