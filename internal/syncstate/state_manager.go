package syncstate

import (
	"chatsync/internal/providers"
	"chatsync/internal/structures"
	"chatsync/internal/syncstate/interfaces"
	"os"
	"path/filepath"

	json "github.com/goccy/go-json"
)

// StateManager keeps each record in its own compressed file under the state
// dir. Writes go through a tmp file with fsync + rename so a crash never
// leaves a half-written record behind.
type StateManager struct {
	dir        string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewStateManager(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (interfaces.StateManagerInterface, error) {
	if err := os.MkdirAll(conf.Persistence.StateDir, 0o755); err != nil {
		return nil, err
	}
	return &StateManager{
		dir:        conf.Persistence.StateDir,
		compressor: compressor,
		logger:     logger,
	}, nil
}

func (sm *StateManager) recordPath(name string) string {
	return filepath.Join(sm.dir, name+".dat")
}

func (sm *StateManager) LoadRecord(name string, v any) bool {
	data, err := os.ReadFile(sm.recordPath(name))
	if err != nil {
		if !os.IsNotExist(err) {
			sm.logger.Warnf(providers.TypeApp, "Record %s unreadable, resetting: %s", name, err)
		}
		return false
	}

	decompressed, err := sm.compressor.Decompress(data)
	if err != nil {
		sm.logger.Warnf(providers.TypeApp, "Record %s corrupt, resetting: %s", name, err)
		return false
	}

	if err := json.Unmarshal(decompressed, v); err != nil {
		sm.logger.Warnf(providers.TypeApp, "Record %s corrupt, resetting: %s", name, err)
		return false
	}
	return true
}

func (sm *StateManager) SaveRecord(name string, v any) error {
	jsonData, err := json.Marshal(v)
	if err != nil {
		return err
	}
	data, err := sm.compressor.Compress(jsonData)
	if err != nil {
		return err
	}

	fileName := sm.recordPath(name)
	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	_, err = file.Write(data)
	if err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}
