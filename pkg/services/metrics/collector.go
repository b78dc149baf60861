package metrics

import (
	"errors"
	"time"

	"github.com/nspcc-dev/michelson-go/pkg/vm"
	"github.com/nspcc-dev/michelson-go/pkg/vm/opcode"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "michelson"

// Collector gathers instruction statistics of VMs it's attached to as an
// observer. It's safe for concurrent use.
type Collector struct {
	executed *prometheus.CounterVec
	failures *prometheus.CounterVec
	times    *prometheus.HistogramVec
}

var _ vm.Observer = (*Collector)(nil)

// NewCollector creates a collector and registers its metrics in r.
func NewCollector(r prometheus.Registerer) (*Collector, error) {
	c := &Collector{
		executed: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Help:      "Number of executed instructions",
				Name:      "instructions_total",
				Namespace: namespace,
			},
			[]string{"opcode"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Help:      "Number of failed instructions by error kind",
				Name:      "failures_total",
				Namespace: namespace,
			},
			[]string{"opcode", "kind"},
		),
		times: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Help:      "Instruction execution time",
				Name:      "instruction_duration_seconds",
				Namespace: namespace,
				Buckets:   prometheus.ExponentialBuckets(1e-6, 4, 10),
			},
			[]string{"opcode"},
		),
	}
	for _, m := range []prometheus.Collector{c.executed, c.failures, c.times} {
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Executed implements vm.Observer. Failures are counted once, by the
// instruction they originate from.
func (c *Collector) Executed(op opcode.Opcode, d time.Duration, err error) {
	name := op.String()
	c.executed.WithLabelValues(name).Inc()
	c.times.WithLabelValues(name).Observe(d.Seconds())
	if err == nil {
		return
	}
	var e *vm.Error
	if errors.As(err, &e) {
		if e.Op == name {
			c.failures.WithLabelValues(name, e.Kind.String()).Inc()
		}
		return
	}
	c.failures.WithLabelValues(name, "unknown").Inc()
}
