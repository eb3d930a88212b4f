package interfaces

// Fixed record names of the persisted state layout.
const (
	RecordSettings     = "sync_settings"
	RecordFingerprints = "sync_fingerprints"
	RecordQueue        = "offline_queue"
)

type CompressorInterface interface {
	Compress(val []byte) ([]byte, error)
	Decompress(val []byte) ([]byte, error)
}

// StateManagerInterface is the local key-value persistence used by the sync
// core: independent JSON records keyed by fixed names, re-read at startup
// and re-written after every mutation.
type StateManagerInterface interface {
	// LoadRecord reads a record into v. Returns false when the record is
	// absent or unreadable; a corrupt record is treated as absent so a bad
	// file never blocks startup.
	LoadRecord(name string, v any) bool
	SaveRecord(name string, v any) error
}

type SchedulerInterface interface {
	Init()
	Stop()
	Restore() error
	Persist() error
}
