package models

import (
	"time"

	json "github.com/goccy/go-json"
)

const (
	defaultIdleTimeoutMinutes = 5
	defaultMaxBufferSize      = 100
)

// SyncSettings is the runtime-mutable configuration of the sync pipeline.
// It lives in the persisted settings record, not in the daemon config file.
type SyncSettings struct {
	Enabled              bool       `json:"enabled"`
	EndpointURL          string     `json:"endpointUrl"`
	RealtimeSync         bool       `json:"realtimeSync"`
	FullConversationSync bool       `json:"fullConversationSync"`
	IdleTimeoutMinutes   int        `json:"idleTimeoutMinutes"`
	OfflineBufferEnabled bool       `json:"offlineBufferEnabled"`
	MaxBufferSize        int        `json:"maxBufferSize"`
	DedupEnabled         bool       `json:"dedupEnabled"`
	NotifyOnSuccess      bool       `json:"notifyOnSuccess"`
	NotifyOnError        bool       `json:"notifyOnError"`
	LastSyncTime         *time.Time `json:"lastSyncTime"`
}

func DefaultSyncSettings() SyncSettings {
	return SyncSettings{
		Enabled:              true,
		EndpointURL:          "http://127.0.0.1:3001/sync",
		RealtimeSync:         true,
		FullConversationSync: true,
		IdleTimeoutMinutes:   defaultIdleTimeoutMinutes,
		OfflineBufferEnabled: true,
		MaxBufferSize:        defaultMaxBufferSize,
		DedupEnabled:         true,
		NotifyOnSuccess:      false,
		NotifyOnError:        false,
	}
}

// MergeSyncSettings layers a previously persisted (possibly partial) settings
// document over the defaults. Keys missing from the document keep their
// default value, so settings written by an older version stay loadable.
func MergeSyncSettings(raw []byte) (SyncSettings, error) {
	s := DefaultSyncSettings()
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &s); err != nil {
			return DefaultSyncSettings(), err
		}
	}
	s.Normalize()
	return s, nil
}

// Normalize clamps out-of-range values back to usable ones.
func (s *SyncSettings) Normalize() {
	if s.IdleTimeoutMinutes < 1 {
		s.IdleTimeoutMinutes = defaultIdleTimeoutMinutes
	}
	if s.MaxBufferSize < 1 {
		s.MaxBufferSize = defaultMaxBufferSize
	}
}

func (s *SyncSettings) IdleTimeout() time.Duration {
	return time.Duration(s.IdleTimeoutMinutes) * time.Minute
}
