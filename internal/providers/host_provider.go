package providers

import (
	"chatsync/internal/models"
	"sync"
)

// HostInterface is the collaboration surface of the host chat application.
// The sync core only ever talks to the host through it.
type HostInterface interface {
	OnTurnCompleted(handler func(turnIndex int))
	OnConversationSwitched(handler func())
	GetConversationHistory() []models.HistoryMessage
	GetActiveCharacterName() string
	GetActiveConversationID() string
}

// HostState is the daemon-side host implementation, fed by the control API.
// Pushing a snapshot with a new conversation id replaces the tracked state
// first and then fires the switch handlers, so a handler that needs the
// previous conversation must keep its own snapshot of it.
type HostState struct {
	mu             sync.Mutex
	chatID         string
	character      string
	history        []models.HistoryMessage
	turnHandlers   []func(int)
	switchHandlers []func()
}

func NewHostState() *HostState {
	return &HostState{}
}

func (h *HostState) OnTurnCompleted(handler func(turnIndex int)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.turnHandlers = append(h.turnHandlers, handler)
}

func (h *HostState) OnConversationSwitched(handler func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.switchHandlers = append(h.switchHandlers, handler)
}

func (h *HostState) GetConversationHistory() []models.HistoryMessage {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.HistoryMessage, len(h.history))
	copy(out, h.history)
	return out
}

func (h *HostState) GetActiveCharacterName() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.character
}

func (h *HostState) GetActiveConversationID() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.chatID
}

// SetSnapshot replaces the tracked conversation state. Returns true when the
// conversation id changed, in which case the switch handlers have been fired.
func (h *HostState) SetSnapshot(chatID, character string, history []models.HistoryMessage) bool {
	h.mu.Lock()
	switched := h.chatID != "" && chatID != h.chatID
	h.chatID = chatID
	h.character = character
	h.history = make([]models.HistoryMessage, len(history))
	copy(h.history, history)
	handlers := h.switchHandlers
	h.mu.Unlock()

	if switched {
		for _, handler := range handlers {
			handler()
		}
	}
	return switched
}

// FireTurnCompleted invokes the registered turn handlers with the index of
// the just-produced message.
func (h *HostState) FireTurnCompleted(turnIndex int) {
	h.mu.Lock()
	handlers := h.turnHandlers
	h.mu.Unlock()
	for _, handler := range handlers {
		handler(turnIndex)
	}
}
