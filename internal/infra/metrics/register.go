package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Metric files enqueue their collectors from init funcs; the binary flushes
// the queue into the default registry once the process is wired up.
var (
	registerOnce sync.Once
	pending      []prometheus.Collector
)

func register(cs ...prometheus.Collector) {
	pending = append(pending, cs...)
}

// MustRegister installs every queued collector. Only the first call does
// work; later calls are no-ops.
func MustRegister() {
	registerOnce.Do(func() {
		if len(pending) > 0 {
			prometheus.MustRegister(pending...)
		}
	})
}
