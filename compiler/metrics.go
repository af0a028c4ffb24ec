package compiler

import (
	"github.com/influxdata/flowgraph"
	"github.com/prometheus/client_golang/prometheus"
)

// compilerMetrics holds metrics related to compiling program trees.
type compilerMetrics struct {
	compiles *prometheus.CounterVec
	duration prometheus.Histogram
}

func newCompilerMetrics() *compilerMetrics {
	const (
		namespace = "flowgraph"
		subsystem = "compiler"
	)

	return &compilerMetrics{
		compiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "compiles_total",
			Help:      "Number of compilations, by error code",
		}, []string{"code"}),

		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "compile_duration_seconds",
			Help:      "Histogram of the time spent compiling a program tree",
			Buckets:   prometheus.ExponentialBuckets(1e-5, 4, 8),
		}),
	}
}

// PrometheusCollectors returns the collectors to register.
func (m *compilerMetrics) PrometheusCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.compiles,
		m.duration,
	}
}

// codeLabel returns the code label value recorded for a compile that ended
// with err.
func codeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	switch flowgraph.ErrorCode(err) {
	case flowgraph.ECycle:
		return "cycle"
	case flowgraph.EUnresolved:
		return "unresolved"
	case flowgraph.ENoValue:
		return "no_value"
	case flowgraph.ESignature:
		return "signature"
	case flowgraph.EDuplicate:
		return "duplicate"
	case flowgraph.EYield:
		return "yield"
	case flowgraph.EUnclosed:
		return "unclosed"
	case flowgraph.EInvalid:
		return "invalid"
	default:
		return "internal"
	}
}
