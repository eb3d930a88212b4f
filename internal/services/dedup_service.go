package services

import (
	"chatsync/internal/models"
	"chatsync/internal/providers"
	"chatsync/internal/syncstate/interfaces"
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/zeebo/blake3"
)

// fingerprintPrefixLen bounds the text slice that contributes to a
// fingerprint. Intentionally lossy: enough to catch exact re-delivery
// (duplicate host events) without hashing full transcripts.
const fingerprintPrefixLen = 100

type DedupServiceInterface interface {
	// ShouldSuppress reports whether the payload's content was already
	// queued for delivery. On first sight the fingerprint is recorded and
	// the set persisted best-effort.
	ShouldSuppress(p models.SyncPayload) bool
	Size() int
	Restore()
	Persist() error
}

type DedupService struct {
	settings SettingsServiceInterface
	set      *models.FingerprintSet
	state    interfaces.StateManagerInterface
	logger   providers.Logger
}

func NewDedupService(settings SettingsServiceInterface, set *models.FingerprintSet, state interfaces.StateManagerInterface, logger providers.Logger) DedupServiceInterface {
	return &DedupService{
		settings: settings,
		set:      set,
		state:    state,
		logger:   logger,
	}
}

// fingerprintFor digests the identity-relevant fields of a payload. The two
// payload kinds hash under distinct leading tags so a message and a
// conversation snapshot over similar text never collide. Conversation
// fingerprints cover only message count and the newest message, so edits to
// older history entries don't retrigger a sync.
func fingerprintFor(p *models.SyncPayload) string {
	var key string
	if p.Kind == models.KindFullConversation {
		key = strings.Join([]string{
			"conv",
			p.ChatID,
			strconv.Itoa(p.MessageCount),
			textPrefix(p.LastMessageText()),
		}, "\x1f")
	} else {
		key = strings.Join([]string{
			"msg",
			p.Character,
			p.ChatID,
			textPrefix(p.UserMessage),
			textPrefix(p.AssistantMessage),
		}, "\x1f")
	}
	sum := blake3.Sum256([]byte(key))
	return hex.EncodeToString(sum[:16])
}

func textPrefix(s string) string {
	if len(s) > fingerprintPrefixLen {
		return s[:fingerprintPrefixLen]
	}
	return s
}

func (d *DedupService) ShouldSuppress(p models.SyncPayload) bool {
	if !d.settings.Get().DedupEnabled {
		return false
	}
	fp := fingerprintFor(&p)
	if !d.set.Add(fp) {
		d.logger.Debugf(providers.TypeSync, "Suppressed duplicate %s payload for chat %s", p.Kind, p.ChatID)
		return true
	}
	if err := d.Persist(); err != nil {
		d.logger.Warnf(providers.TypeApp, "Failed to persist fingerprints: %s", err)
	}
	return false
}

func (d *DedupService) Size() int {
	return d.set.Len()
}

func (d *DedupService) Restore() {
	var fps []string
	if d.state.LoadRecord(interfaces.RecordFingerprints, &fps) {
		d.set.Restore(fps)
	}
}

func (d *DedupService) Persist() error {
	return d.state.SaveRecord(interfaces.RecordFingerprints, d.set.Snapshot())
}
