package providers

import (
	"chatsync/internal/structures"
	"fmt"
	"sync"
	"testing"
	"time"
)

// nopLogger satisfies Logger for providers that only need a sink.
type nopLogger struct{}

func (nopLogger) Errorf(TypeEnum, string, ...interface{}) {}
func (nopLogger) Warnf(TypeEnum, string, ...interface{})  {}
func (nopLogger) Infof(TypeEnum, string, ...interface{})  {}
func (nopLogger) Debugf(TypeEnum, string, ...interface{}) {}
func (nopLogger) Fatalf(TypeEnum, string, ...interface{}) {}
func (nopLogger) Close()                                  {}

// recordingLogger captures formatted lines per level.
type recordingLogger struct {
	mu    sync.Mutex
	lines map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{lines: map[string][]string{}}
}

func (l *recordingLogger) record(level string, t TypeEnum, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines[level] = append(l.lines[level], t.String()+": "+fmt.Sprintf(format, args...))
}

func (l *recordingLogger) Errorf(t TypeEnum, format string, args ...interface{}) {
	l.record("error", t, format, args...)
}
func (l *recordingLogger) Warnf(t TypeEnum, format string, args ...interface{}) {
	l.record("warn", t, format, args...)
}
func (l *recordingLogger) Infof(t TypeEnum, format string, args ...interface{}) {
	l.record("info", t, format, args...)
}
func (l *recordingLogger) Debugf(t TypeEnum, format string, args ...interface{}) {
	l.record("debug", t, format, args...)
}
func (l *recordingLogger) Fatalf(t TypeEnum, format string, args ...interface{}) {
	l.record("fatal", t, format, args...)
}
func (l *recordingLogger) Close() {}

func (l *recordingLogger) count(level string) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.lines[level])
}

// countingMetrics records only what the providers themselves emit.
type countingMetrics struct {
	mu        sync.Mutex
	requests  map[string]int // endpoint + ":" + status bucket source value
	durations map[string]int
	hits      int
	misses    int
}

func newCountingMetrics() *countingMetrics {
	return &countingMetrics{requests: map[string]int{}, durations: map[string]int{}}
}

func (m *countingMetrics) IncRequestsTotal(endpoint string, status int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.requests[fmt.Sprintf("%s:%d", endpoint, status)]++
}

func (m *countingMetrics) ObserveRequestDuration(endpoint string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.durations[endpoint]++
}

func (m *countingMetrics) IncDelivery(_, _ string)                 {}
func (m *countingMetrics) ObserveDeliveryDuration(_ time.Duration) {}
func (m *countingMetrics) AddFlushed(_ int)                        {}
func (m *countingMetrics) IncQueueDropped()                        {}

func (m *countingMetrics) IncCacheHits() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hits++
}

func (m *countingMetrics) IncCacheMisses() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.misses++
}

func validConfig(t *testing.T) *structures.Config {
	t.Helper()
	return &structures.Config{
		WebServer:   structures.Server{Host: "127.0.0.1", Port: 18090},
		Persistence: structures.Persistence{StateDir: t.TempDir(), SaveInterval: 60},
		Logger:      structures.LoggerConfig{Level: "info", Mode: 0o644, Dir: t.TempDir()},
	}
}
