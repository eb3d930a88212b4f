package services

import (
	"chatsync/internal/models"
	"chatsync/internal/syncstate/interfaces"
	"chatsync/internal/testutil"
	"errors"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSettings(state *testutil.MockStateManager) SettingsServiceInterface {
	return NewSettingsService(state, &testutil.MockLogger{})
}

func TestSettingsService_DefaultsBeforeRestore(t *testing.T) {
	sv := newTestSettings(testutil.NewMockStateManager())
	assert.Equal(t, models.DefaultSyncSettings(), sv.Get())
}

func TestSettingsService_UpdatePersists(t *testing.T) {
	state := testutil.NewMockStateManager()
	sv := newTestSettings(state)

	sv.Update(func(s *models.SyncSettings) {
		s.EndpointURL = "http://example.com/sync"
	})

	assert.Equal(t, "http://example.com/sync", sv.Get().EndpointURL)
	assert.Contains(t, state.Records, interfaces.RecordSettings)
}

func TestSettingsService_UpdateNormalizes(t *testing.T) {
	sv := newTestSettings(testutil.NewMockStateManager())

	sv.Update(func(s *models.SyncSettings) {
		s.MaxBufferSize = 0
	})

	assert.Equal(t, 100, sv.Get().MaxBufferSize)
}

func TestSettingsService_UpdateSurvivesPersistFailure(t *testing.T) {
	state := testutil.NewMockStateManager()
	state.SaveErr = errors.New("disk full")
	sv := newTestSettings(state)

	sv.Update(func(s *models.SyncSettings) {
		s.RealtimeSync = false
	})

	assert.False(t, sv.Get().RealtimeSync)
}

func TestSettingsService_PatchPartial(t *testing.T) {
	sv := newTestSettings(testutil.NewMockStateManager())

	updated, err := sv.Patch([]byte(`{"idleTimeoutMinutes":2,"notifyOnError":true}`))
	require.NoError(t, err)

	assert.Equal(t, 2, updated.IdleTimeoutMinutes)
	assert.True(t, updated.NotifyOnError)
	// Untouched keys survive.
	assert.True(t, updated.Enabled)
	assert.Equal(t, 100, updated.MaxBufferSize)
}

func TestSettingsService_PatchInvalidJSON(t *testing.T) {
	sv := newTestSettings(testutil.NewMockStateManager())

	before := sv.Get()
	_, err := sv.Patch([]byte("not json"))

	assert.Error(t, err)
	assert.Equal(t, before, sv.Get())
}

func TestSettingsService_RestoreMergesPersistedRecord(t *testing.T) {
	state := testutil.NewMockStateManager()
	// A partial record from an older version: only two keys present.
	raw, _ := json.Marshal(map[string]any{"endpointUrl": "http://old.example/sync", "enabled": false})
	require.NoError(t, state.SaveRecord(interfaces.RecordSettings, json.RawMessage(raw)))

	sv := newTestSettings(state)
	sv.Restore()

	s := sv.Get()
	assert.Equal(t, "http://old.example/sync", s.EndpointURL)
	assert.False(t, s.Enabled)
	assert.Equal(t, 100, s.MaxBufferSize)
	assert.True(t, s.DedupEnabled)
}

func TestSettingsService_RestoreMissingRecordKeepsDefaults(t *testing.T) {
	sv := newTestSettings(testutil.NewMockStateManager())
	sv.Restore()
	assert.Equal(t, models.DefaultSyncSettings(), sv.Get())
}
