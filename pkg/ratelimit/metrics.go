package ratelimit

// MetricsRecorder is an ambient observability hook. The orchestrator calls
// it around every Limit decision; nothing in the hot path needs to nil-check
// it because NoOpMetricsRecorder is always the default.
type MetricsRecorder interface {
	Add(name string, value float64, tags map[string]string)
	Observe(name string, value float64, tags map[string]string)
}

// NoOpMetricsRecorder is a placeholder that does nothing. It ensures the
// orchestrator never has to check "if recorder != nil" in its hot path.
type NoOpMetricsRecorder struct{}

func (NoOpMetricsRecorder) Add(name string, value float64, tags map[string]string)     {}
func (NoOpMetricsRecorder) Observe(name string, value float64, tags map[string]string) {}
