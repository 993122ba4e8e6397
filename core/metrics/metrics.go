package metrics

import (
	"time"

	"github.com/gridflow/lvplan/core/model"
)

// RunEvent captures one completed distribution run for observability.
type RunEvent struct {
	RunID    string
	Summary  model.DistributionSummary
	Duration time.Duration
	Time     time.Time
}

// Sink records run events. Implementations live under infra/metrics.
type Sink interface {
	RecordRun(ev RunEvent) error
}

// ConnectionCountRecorder is implemented by sinks able to record the number
// of final connections derived from a run.
type ConnectionCountRecorder interface {
	RecordConnectionCount(runID string, count int) error
}

// NopSink implements Sink with no-op methods.
type NopSink struct{}

func (NopSink) RecordRun(RunEvent) error                { return nil }
func (NopSink) RecordConnectionCount(string, int) error { return nil }

// Config selects and configures the metrics backends.
type Config struct {
	PrometheusEnabled bool   `json:"prometheus_enabled" yaml:"prometheus_enabled"`
	PrometheusAddr    string `json:"prometheus_addr" yaml:"prometheus_addr"`

	InfluxEnabled bool   `json:"influx_enabled" yaml:"influx_enabled"`
	InfluxURL     string `json:"influx_url" yaml:"influx_url"`
	InfluxToken   string `json:"influx_token" yaml:"influx_token"`
	InfluxOrg     string `json:"influx_org" yaml:"influx_org"`
	InfluxBucket  string `json:"influx_bucket" yaml:"influx_bucket"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.PrometheusAddr == "" {
		c.PrometheusAddr = ":9090"
	}
}
