package fstore

import (
	"github.com/VictoriaMetrics/metrics"
)

// Operation counters and lock wait histogram, exposed in Prometheus text
// format via metrics.WritePrometheus.
var (
	getOps       = metrics.GetOrCreateCounter(`flatkv_operations_total{op="get"}`)
	setOps       = metrics.GetOrCreateCounter(`flatkv_operations_total{op="set"}`)
	updateOps    = metrics.GetOrCreateCounter(`flatkv_operations_total{op="update"}`)
	deleteOps    = metrics.GetOrCreateCounter(`flatkv_operations_total{op="delete"}`)
	incrementOps = metrics.GetOrCreateCounter(`flatkv_operations_total{op="increment"}`)

	lockWait = metrics.GetOrCreateHistogram(`flatkv_lock_wait_seconds`)
)
