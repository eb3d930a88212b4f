package services

import (
	"chatsync/internal/models"
	"chatsync/internal/providers"
	"context"
	"sync"
	"time"
)

type IdleAggregatorInterface interface {
	// Reset rearms the idle countdown, cancelling any prior one. When full
	// conversation sync is disabled the aggregator stays quiescent.
	Reset()
	Disarm()
}

// IdleAggregator submits one full-conversation snapshot after a quiet period.
// Every turn or conversation switch rearms the countdown (debounce, not
// accumulate); at most one timer is ever armed.
type IdleAggregator struct {
	mu       sync.Mutex
	timer    *time.Timer
	host     providers.HostInterface
	settings SettingsServiceInterface
	dedup    DedupServiceInterface
	delivery DeliveryServiceInterface
	logger   providers.Logger

	// timeoutOverride shortens the countdown in tests.
	timeoutOverride time.Duration
}

func NewIdleAggregator(host providers.HostInterface, settings SettingsServiceInterface, dedup DedupServiceInterface, delivery DeliveryServiceInterface, logger providers.Logger) IdleAggregatorInterface {
	return &IdleAggregator{
		host:     host,
		settings: settings,
		dedup:    dedup,
		delivery: delivery,
		logger:   logger,
	}
}

func (a *IdleAggregator) Reset() {
	s := a.settings.Get()

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	if !s.Enabled || !s.FullConversationSync {
		return
	}

	timeout := s.IdleTimeout()
	if a.timeoutOverride > 0 {
		timeout = a.timeoutOverride
	}
	a.timer = time.AfterFunc(timeout, a.fire)
}

func (a *IdleAggregator) Disarm() {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *IdleAggregator) fire() {
	s := a.settings.Get()
	if !s.Enabled || !s.FullConversationSync {
		return
	}

	chatID := a.host.GetActiveConversationID()
	if chatID == "" {
		return
	}
	payload := models.NewFullConversationPayload(a.host.GetActiveCharacterName(), chatID, a.host.GetConversationHistory())
	if payload.MessageCount == 0 {
		return
	}
	if a.dedup.ShouldSuppress(payload) {
		return
	}

	a.logger.Infof(providers.TypeSync, "Idle timeout reached, syncing conversation %s (%d messages)", chatID, payload.MessageCount)
	if err := a.delivery.Deliver(context.Background(), payload); err != nil {
		a.logger.Debugf(providers.TypeSync, "Idle conversation sync failed: %s", err)
	}
}
