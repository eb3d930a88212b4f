package services

import (
	"chatsync/internal/models"
	"chatsync/internal/providers"
	"context"
	"sync"
	"time"
)

type SyncServiceInterface interface {
	// Register hooks the adapter into the host's event surface.
	Register()
	HandleTurnCompleted(turnIndex int)
	HandleConversationSwitched()
}

// SyncService is the event adapter: it turns raw host notifications into
// payloads for the delivery engine. It keeps its own snapshot of the tracked
// conversation so the switch-away sync covers the conversation as last seen,
// even after the host has already moved on to the new one.
type SyncService struct {
	mu       sync.Mutex
	host     providers.HostInterface
	settings SettingsServiceInterface
	dedup    DedupServiceInterface
	delivery DeliveryServiceInterface
	idle     IdleAggregatorInterface
	logger   providers.Logger

	trackedChatID    string
	trackedCharacter string
	trackedHistory   []models.HistoryMessage
}

func NewSyncService(host providers.HostInterface, settings SettingsServiceInterface, dedup DedupServiceInterface, delivery DeliveryServiceInterface, idle IdleAggregatorInterface, logger providers.Logger) SyncServiceInterface {
	return &SyncService{
		host:     host,
		settings: settings,
		dedup:    dedup,
		delivery: delivery,
		idle:     idle,
		logger:   logger,
	}
}

func (ss *SyncService) Register() {
	ss.host.OnTurnCompleted(ss.HandleTurnCompleted)
	ss.host.OnConversationSwitched(ss.HandleConversationSwitched)
}

// HandleTurnCompleted locates the assistant message at turnIndex and the
// nearest preceding user message. Anything else — user message at the index,
// short history, index out of range — is a no-op, not an error.
func (ss *SyncService) HandleTurnCompleted(turnIndex int) {
	s := ss.settings.Get()
	if !s.Enabled {
		return
	}

	history := ss.host.GetConversationHistory()
	if len(history) < 2 || turnIndex < 0 || turnIndex >= len(history) {
		return
	}
	if history[turnIndex].Role != models.RoleAssistant {
		return
	}

	userText := ""
	for i := turnIndex - 1; i >= 0; i-- {
		if history[i].Role == models.RoleUser {
			userText = history[i].Text
			break
		}
	}

	chatID := ss.host.GetActiveConversationID()
	character := ss.host.GetActiveCharacterName()
	ss.track(chatID, character, history)

	if s.RealtimeSync {
		turn := models.Turn{
			UserText:       userText,
			AssistantText:  history[turnIndex].Text,
			ConversationID: chatID,
			CharacterName:  character,
			Timestamp:      time.Now(),
		}
		if err := ss.delivery.Deliver(context.Background(), models.NewMessagePayload(&turn)); err != nil {
			ss.logger.Debugf(providers.TypeSync, "Realtime sync failed for chat %s: %s", chatID, err)
		}
	}

	ss.idle.Reset()
}

// HandleConversationSwitched flushes the previous conversation once before
// tracking the new one, so switching away never loses the transcript to the
// idle timeout.
func (ss *SyncService) HandleConversationSwitched() {
	s := ss.settings.Get()

	ss.mu.Lock()
	prevChatID := ss.trackedChatID
	prevCharacter := ss.trackedCharacter
	prevHistory := ss.trackedHistory
	ss.mu.Unlock()

	if s.Enabled && s.FullConversationSync && prevChatID != "" {
		payload := models.NewFullConversationPayload(prevCharacter, prevChatID, prevHistory)
		if payload.MessageCount > 0 && !ss.dedup.ShouldSuppress(payload) {
			if err := ss.delivery.Deliver(context.Background(), payload); err != nil {
				ss.logger.Debugf(providers.TypeSync, "Switch-away sync failed for chat %s: %s", prevChatID, err)
			}
		}
	}

	ss.track(ss.host.GetActiveConversationID(), ss.host.GetActiveCharacterName(), ss.host.GetConversationHistory())
	if !s.Enabled {
		return
	}
	ss.idle.Reset()
}

func (ss *SyncService) track(chatID, character string, history []models.HistoryMessage) {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.trackedChatID = chatID
	ss.trackedCharacter = character
	ss.trackedHistory = make([]models.HistoryMessage, len(history))
	copy(ss.trackedHistory, history)
}
