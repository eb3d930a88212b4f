package testutil

import (
	"chatsync/internal/models"
	"chatsync/internal/providers"
	"sync"
	"time"

	json "github.com/goccy/go-json"
)

// MockLogger implements providers.Logger and records calls.
type MockLogger struct {
	mu   sync.Mutex
	Logs []LogEntry
}

type LogEntry struct {
	Level  string
	Type   providers.TypeEnum
	Format string
	Args   []interface{}
}

func (m *MockLogger) record(level string, t providers.TypeEnum, format string, args ...interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Logs = append(m.Logs, LogEntry{Level: level, Type: t, Format: format, Args: args})
}

func (m *MockLogger) Errorf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("error", t, format, args...)
}
func (m *MockLogger) Warnf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("warn", t, format, args...)
}
func (m *MockLogger) Debugf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("debug", t, format, args...)
}
func (m *MockLogger) Infof(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("info", t, format, args...)
}
func (m *MockLogger) Fatalf(t providers.TypeEnum, format string, args ...interface{}) {
	m.record("fatal", t, format, args...)
}
func (m *MockLogger) Close() {}

// MockNotifier implements providers.NotifierInterface and records calls.
type MockNotifier struct {
	mu    sync.Mutex
	Calls []NotifyCall
}

type NotifyCall struct {
	Kind    providers.NotifyKind
	Message string
}

func (m *MockNotifier) Notify(kind providers.NotifyKind, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, NotifyCall{Kind: kind, Message: message})
}

func (m *MockNotifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}

// MockStateManager implements interfaces.StateManagerInterface in memory.
// Records round-trip through JSON so tests cover the persisted shapes.
type MockStateManager struct {
	mu      sync.Mutex
	Records map[string][]byte
	SaveErr error
	Saves   int
}

func NewMockStateManager() *MockStateManager {
	return &MockStateManager{Records: make(map[string][]byte)}
}

func (m *MockStateManager) LoadRecord(name string, v any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.Records[name]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (m *MockStateManager) SaveRecord(name string, v any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Saves++
	if m.SaveErr != nil {
		return m.SaveErr
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.Records[name] = raw
	return nil
}

// MockHost implements providers.HostInterface with settable state.
type MockHost struct {
	mu             sync.Mutex
	ChatID         string
	Character      string
	History        []models.HistoryMessage
	turnHandlers   []func(int)
	switchHandlers []func()
}

func (m *MockHost) OnTurnCompleted(handler func(turnIndex int)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.turnHandlers = append(m.turnHandlers, handler)
}

func (m *MockHost) OnConversationSwitched(handler func()) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.switchHandlers = append(m.switchHandlers, handler)
}

func (m *MockHost) GetConversationHistory() []models.HistoryMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]models.HistoryMessage, len(m.History))
	copy(out, m.History)
	return out
}

func (m *MockHost) GetActiveCharacterName() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Character
}

func (m *MockHost) GetActiveConversationID() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ChatID
}

func (m *MockHost) FireTurnCompleted(turnIndex int) {
	m.mu.Lock()
	handlers := append([]func(int){}, m.turnHandlers...)
	m.mu.Unlock()
	for _, h := range handlers {
		h(turnIndex)
	}
}

func (m *MockHost) FireConversationSwitched() {
	m.mu.Lock()
	handlers := append([]func(){}, m.switchHandlers...)
	m.mu.Unlock()
	for _, h := range handlers {
		h()
	}
}

func (m *MockHost) SetState(chatID, character string, history []models.HistoryMessage) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ChatID = chatID
	m.Character = character
	m.History = history
}

// MockMetrics implements providers.MetricsProviderInterface.
type MockMetrics struct {
	mu         sync.Mutex
	Deliveries map[string]int // key: kind + ":" + outcome
	Flushed    int
	Dropped    int
}

func NewMockMetrics() *MockMetrics {
	return &MockMetrics{Deliveries: make(map[string]int)}
}

func (m *MockMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (m *MockMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (m *MockMetrics) ObserveDeliveryDuration(_ time.Duration)          {}
func (m *MockMetrics) IncCacheHits()                                    {}
func (m *MockMetrics) IncCacheMisses()                                  {}

func (m *MockMetrics) IncDelivery(kind, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Deliveries[kind+":"+outcome]++
}

func (m *MockMetrics) AddFlushed(count int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Flushed += count
}

func (m *MockMetrics) IncQueueDropped() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Dropped++
}

func (m *MockMetrics) DeliveryCount(kind, outcome string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Deliveries[kind+":"+outcome]
}

// MockCompressor implements interfaces.CompressorInterface with injectable
// behavior; the default is identity.
type MockCompressor struct {
	CompressFn   func([]byte) ([]byte, error)
	DecompressFn func([]byte) ([]byte, error)
}

func (m *MockCompressor) Compress(val []byte) ([]byte, error) {
	if m.CompressFn != nil {
		return m.CompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

func (m *MockCompressor) Decompress(val []byte) ([]byte, error) {
	if m.DecompressFn != nil {
		return m.DecompressFn(val)
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}
