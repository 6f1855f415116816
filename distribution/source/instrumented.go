package source

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/GrahamDennis/distributions/distribution"
)

var (
	drawsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "distributions_source_draws_total",
			Help: "Number of words drawn from a bit source.",
		},
		[]string{"source", "width"},
	)
	sourceCollectors = []prometheus.Collector{
		drawsTotal,
	}

	metricsOnce sync.Once
)

func initMetrics() {
	metricsOnce.Do(func() {
		prometheus.MustRegister(sourceCollectors...)
	})
}

var _ distribution.BitSource = (*Instrumented)(nil)

// Instrumented wraps a bit source and counts the words drawn from it,
// both locally and in the distributions_source_draws_total counter.
type Instrumented struct {
	src distribution.BitSource

	draws32 prometheus.Counter
	draws64 prometheus.Counter

	local32 uint64
	local64 uint64
}

// Instrument wraps src, labeling its metrics with name.
func Instrument(src distribution.BitSource, name string) *Instrumented {
	initMetrics()

	return &Instrumented{
		src:     src,
		draws32: drawsTotal.WithLabelValues(name, "32"),
		draws64: drawsTotal.WithLabelValues(name, "64"),
	}
}

// Uint32 draws a 32-bit word from the wrapped source.
func (s *Instrumented) Uint32() uint32 {
	s.local32++
	s.draws32.Inc()
	return s.src.Uint32()
}

// Uint64 draws a 64-bit word from the wrapped source.
func (s *Instrumented) Uint64() uint64 {
	s.local64++
	s.draws64.Inc()
	return s.src.Uint64()
}

// Draws returns the number of 32-bit and 64-bit words drawn through s.
func (s *Instrumented) Draws() (uint32s, uint64s uint64) {
	return s.local32, s.local64
}
