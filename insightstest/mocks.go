package insightstest

import (
	"strings"
	"sync"
	"time"

	insights "github.com/cupidlabs/insights-go"
)

// Compile-time interface assertions to catch drift between mock
// implementations and the interfaces they implement.
var (
	_ insights.Metrics          = (*MockMetrics)(nil)
	_ insights.StructuredLogger = (*MockLogger)(nil)
)

// MockMetrics records all metrics operations for later verification.
type MockMetrics struct {
	mu       sync.Mutex
	Counters map[string]int64
	Gauges   map[string]float64
	Timings  map[string][]int64 // Duration in nanoseconds
}

// NewMockMetrics creates a new mock metrics collector.
func NewMockMetrics() *MockMetrics {
	return &MockMetrics{
		Counters: make(map[string]int64),
		Gauges:   make(map[string]float64),
		Timings:  make(map[string][]int64),
	}
}

// IncrementCounter implements Metrics.IncrementCounter.
func (m *MockMetrics) IncrementCounter(name string, value int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counters[name] += value
}

// RecordDuration implements Metrics.RecordDuration.
func (m *MockMetrics) RecordDuration(name string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Timings[name] = append(m.Timings[name], duration.Nanoseconds())
}

// SetGauge implements Metrics.SetGauge.
func (m *MockMetrics) SetGauge(name string, value float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Gauges[name] = value
}

// GetCounter returns the value of a counter.
func (m *MockMetrics) GetCounter(name string) int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Counters[name]
}

// GetTimings returns all recorded timings for a metric.
func (m *MockMetrics) GetTimings(name string) []int64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]int64{}, m.Timings[name]...)
}

// Reset clears all recorded metrics.
func (m *MockMetrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Counters = make(map[string]int64)
	m.Gauges = make(map[string]float64)
	m.Timings = make(map[string][]int64)
}

// LogEntry is one captured log call.
type LogEntry struct {
	Level   string
	Message string
	Args    []any
}

// MockLogger captures all log output for later verification.
type MockLogger struct {
	mu      sync.Mutex
	Entries []LogEntry
}

// NewMockLogger creates a new mock logger.
func NewMockLogger() *MockLogger {
	return &MockLogger{}
}

func (l *MockLogger) log(level, msg string, args ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = append(l.Entries, LogEntry{Level: level, Message: msg, Args: args})
}

// Debug implements StructuredLogger.Debug.
func (l *MockLogger) Debug(msg string, args ...any) { l.log("DEBUG", msg, args...) }

// Info implements StructuredLogger.Info.
func (l *MockLogger) Info(msg string, args ...any) { l.log("INFO", msg, args...) }

// Warn implements StructuredLogger.Warn.
func (l *MockLogger) Warn(msg string, args ...any) { l.log("WARN", msg, args...) }

// Error implements StructuredLogger.Error.
func (l *MockLogger) Error(msg string, args ...any) { l.log("ERROR", msg, args...) }

// Messages returns all captured log messages.
func (l *MockLogger) Messages() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = e.Message
	}
	return out
}

// HasMessage returns true if any entry's message contains the substring.
func (l *MockLogger) HasMessage(substring string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.Entries {
		if strings.Contains(e.Message, substring) {
			return true
		}
	}
	return false
}

// Reset clears all captured entries.
func (l *MockLogger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Entries = nil
}
