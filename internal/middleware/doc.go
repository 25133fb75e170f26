// Recipebox - Recipe Similarity and Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/recipebox

/*
Package middleware provides HTTP middleware components for the Recipebox API.

Key Components:

  - RequestID: request and correlation IDs for log tracing
  - PrometheusMetrics: request count, latency and in-flight instrumentation
  - Compression: gzip responses for clients that accept it
  - PerformanceMonitor: in-process latency percentiles per route, reported by
    the health endpoint

All middleware has the func(http.Handler) http.Handler shape so it can be
passed to chi's r.Use. Metrics and the performance monitor label requests by
chi route pattern ("/api/v1/weights/{userID}/{signal}") rather than raw path,
so user and recipe IDs never become label values.

Middleware Stack:

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors)
	r.Use(middleware.PrometheusMetrics)
	r.Use(perf.Middleware)
	r.Use(middleware.Compression)
*/
package middleware
