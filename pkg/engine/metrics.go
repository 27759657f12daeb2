// ABOUTME: Prometheus metrics for the engine
// ABOUTME: Gauges read pool state at scrape time
package engine

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/Resonate-Protocol/voicepool-go/pkg/voice"
)

const metricsNamespace = "voicepool"

// metrics exposes pool statistics as collectors read at scrape time
type metrics struct {
	collectors []prometheus.Collector
	reg        prometheus.Registerer
}

func newMetrics(pool *voice.Pool) *metrics {
	gauge := func(name, help string, value func(voice.Stats) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return value(pool.Stats()) })
	}
	counter := func(name, help string, value func(voice.Stats) float64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      name,
			Help:      help,
		}, func() float64 { return value(pool.Stats()) })
	}

	return &metrics{collectors: []prometheus.Collector{
		gauge("voices_active", "Voices currently leased from the pool.",
			func(s voice.Stats) float64 { return float64(s.Active) }),
		gauge("voices_paused", "Leased voices that are paused.",
			func(s voice.Stats) float64 { return float64(s.Paused) }),
		gauge("pool_size", "Fixed number of voices in the pool.",
			func(s voice.Stats) float64 { return float64(s.Size) }),
		counter("plays_total", "Successful play requests.",
			func(s voice.Stats) float64 { return float64(s.Plays) }),
		counter("exhausted_total", "Play requests rejected because the pool was full.",
			func(s voice.Stats) float64 { return float64(s.Exhausted) }),
		counter("reclaimed_total", "Voices reclaimed by the sweep after finishing on their own.",
			func(s voice.Stats) float64 { return float64(s.Reclaimed) }),
	}}
}

func (m *metrics) register(reg prometheus.Registerer) error {
	for i, c := range m.collectors {
		if err := reg.Register(c); err != nil {
			for _, done := range m.collectors[:i] {
				reg.Unregister(done)
			}
			return fmt.Errorf("failed to register metrics: %w", err)
		}
	}
	m.reg = reg
	return nil
}

func (m *metrics) unregister() {
	if m.reg == nil {
		return
	}
	for _, c := range m.collectors {
		m.reg.Unregister(c)
	}
	m.reg = nil
}
