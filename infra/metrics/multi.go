package metrics

import coremetrics "github.com/gridflow/lvplan/core/metrics"

// MultiSink fans run events out to multiple sinks.
type MultiSink struct {
	Sinks []coremetrics.Sink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...coremetrics.Sink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordRun forwards the event to all sinks, returning the first error.
func (m *MultiSink) RecordRun(ev coremetrics.RunEvent) error {
	for _, s := range m.Sinks {
		if err := s.RecordRun(ev); err != nil {
			return err
		}
	}
	return nil
}

// RecordConnectionCount forwards the count to sinks that support it.
func (m *MultiSink) RecordConnectionCount(runID string, count int) error {
	for _, s := range m.Sinks {
		if rec, ok := s.(coremetrics.ConnectionCountRecorder); ok {
			if err := rec.RecordConnectionCount(runID, count); err != nil {
				return err
			}
		}
	}
	return nil
}
