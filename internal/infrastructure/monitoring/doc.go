/*
Package monitoring exports kernel and HTTP metrics to Prometheus.

# Overview

Metrics implements kernel.Observer: every kernel event bumps
nucleus_ops_total{op,result} and refreshes the pool gauges
(nucleus_procs_free, nucleus_sems_free, nucleus_asl_length). HTTP requests
are counted by the gin Middleware.

Each Metrics owns a private registry.

# Usage

	metrics := monitoring.NewMetrics()
	n, _ := kernel.New(cfg, kernel.WithObserver(metrics))

	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
