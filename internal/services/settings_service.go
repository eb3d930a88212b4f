package services

import (
	"chatsync/internal/models"
	"chatsync/internal/providers"
	"chatsync/internal/syncstate/interfaces"
	"sync"

	json "github.com/goccy/go-json"
)

type SettingsServiceInterface interface {
	Get() models.SyncSettings
	// Update applies a mutation, normalizes the result and persists it
	// best-effort. Every settings change goes through here.
	Update(mutate func(*models.SyncSettings))
	// Patch applies a partial JSON document over the current settings;
	// keys absent from the document are left untouched.
	Patch(raw []byte) (models.SyncSettings, error)
	Restore()
}

type SettingsService struct {
	mu      sync.Mutex
	current models.SyncSettings
	state   interfaces.StateManagerInterface
	logger  providers.Logger
}

func NewSettingsService(state interfaces.StateManagerInterface, logger providers.Logger) SettingsServiceInterface {
	return &SettingsService{
		current: models.DefaultSyncSettings(),
		state:   state,
		logger:  logger,
	}
}

func (sv *SettingsService) Get() models.SyncSettings {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	return sv.current
}

func (sv *SettingsService) Update(mutate func(*models.SyncSettings)) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	mutate(&sv.current)
	sv.current.Normalize()
	sv.persist()
}

func (sv *SettingsService) Patch(raw []byte) (models.SyncSettings, error) {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	next := sv.current
	if err := json.Unmarshal(raw, &next); err != nil {
		return sv.current, err
	}
	next.Normalize()
	sv.current = next
	sv.persist()
	return sv.current, nil
}

// Restore merges the persisted settings record over the defaults, so records
// written by an older version load with missing keys backfilled.
func (sv *SettingsService) Restore() {
	var raw json.RawMessage
	if !sv.state.LoadRecord(interfaces.RecordSettings, &raw) {
		return
	}
	merged, err := models.MergeSyncSettings(raw)
	if err != nil {
		sv.logger.Warnf(providers.TypeApp, "Settings record invalid, using defaults: %s", err)
		return
	}
	sv.mu.Lock()
	defer sv.mu.Unlock()
	sv.current = merged
}

// persist is fire-and-forget: a failed settings write never interrupts the
// sync pipeline. Callers hold sv.mu.
func (sv *SettingsService) persist() {
	if err := sv.state.SaveRecord(interfaces.RecordSettings, sv.current); err != nil {
		sv.logger.Warnf(providers.TypeApp, "Failed to persist settings: %s", err)
	}
}
