package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	coremetrics "github.com/gridflow/lvplan/core/metrics"
)

// PromSink exposes the latest run summary as Prometheus metrics.
type PromSink struct {
	runs        prometheus.Counter
	summary     *prometheus.GaugeVec
	connections prometheus.Gauge
}

// NewPromSink registers the planner metrics on the default registerer. The
// Prometheus HTTP server is started separately with StartPromServer.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global one.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	runs := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "lvplan_runs_total",
		Help: "Total number of distribution runs",
	})
	summary := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "lvplan_run_summary",
		Help: "Summary values of the latest distribution run",
	}, []string{"field"})
	connections := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "lvplan_final_connections",
		Help: "Number of final connections derived from the latest run",
	})

	if err := reg.Register(runs); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			runs = are.ExistingCollector.(prometheus.Counter)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(summary); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			summary = are.ExistingCollector.(*prometheus.GaugeVec)
		} else {
			return nil, err
		}
	}
	if err := reg.Register(connections); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			connections = are.ExistingCollector.(prometheus.Gauge)
		} else {
			return nil, err
		}
	}
	return &PromSink{runs: runs, summary: summary, connections: connections}, nil
}

// RecordRun publishes the summary of a completed run.
func (s *PromSink) RecordRun(ev coremetrics.RunEvent) error {
	s.runs.Inc()
	sum := ev.Summary
	s.summary.WithLabelValues("transformers").Set(float64(sum.TransformerCount))
	s.summary.WithLabelValues("breakers").Set(float64(sum.BreakerCount))
	s.summary.WithLabelValues("meters").Set(float64(sum.MeterCount))
	s.summary.WithLabelValues("total_cdl_amps").Set(sum.TotalCDLAmps)
	s.summary.WithLabelValues("balance_score").Set(sum.BalanceScore)
	s.summary.WithLabelValues("efficiency_percent").Set(sum.EfficiencyPercent)
	s.summary.WithLabelValues("overloaded_breakers").Set(float64(sum.OverloadedBreakers))
	s.summary.WithLabelValues("overloaded_transformers").Set(float64(sum.OverloadedTransformers))
	return nil
}

// RecordConnectionCount publishes the connection count of the latest run.
func (s *PromSink) RecordConnectionCount(_ string, count int) error {
	s.connections.Set(float64(count))
	return nil
}
