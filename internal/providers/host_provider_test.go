package providers

import (
	"chatsync/internal/models"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleHistory() []models.HistoryMessage {
	return []models.HistoryMessage{
		{Role: models.RoleUser, Text: "hi"},
		{Role: models.RoleAssistant, Text: "hello"},
	}
}

func TestHostState_FirstSnapshotIsNotASwitch(t *testing.T) {
	h := NewHostState()
	fired := 0
	h.OnConversationSwitched(func() { fired++ })

	switched := h.SetSnapshot("chat-1", "Aria", sampleHistory())

	assert.False(t, switched)
	assert.Zero(t, fired)
	assert.Equal(t, "chat-1", h.GetActiveConversationID())
	assert.Equal(t, "Aria", h.GetActiveCharacterName())
	assert.Len(t, h.GetConversationHistory(), 2)
}

func TestHostState_ChangedConversationFiresSwitch(t *testing.T) {
	h := NewHostState()
	var observed string
	h.OnConversationSwitched(func() {
		// The switch fires after the state is replaced; handlers see the
		// new conversation through the host and rely on their own snapshot
		// of the previous one.
		observed = h.GetActiveConversationID()
	})
	h.SetSnapshot("chat-1", "Aria", sampleHistory())

	switched := h.SetSnapshot("chat-2", "Bram", nil)

	assert.True(t, switched)
	assert.Equal(t, "chat-2", observed)
}

func TestHostState_SameConversationDoesNotFireSwitch(t *testing.T) {
	h := NewHostState()
	fired := 0
	h.OnConversationSwitched(func() { fired++ })
	h.SetSnapshot("chat-1", "Aria", sampleHistory())

	switched := h.SetSnapshot("chat-1", "Aria", append(sampleHistory(), models.HistoryMessage{Role: models.RoleUser, Text: "more"}))

	assert.False(t, switched)
	assert.Zero(t, fired)
	assert.Len(t, h.GetConversationHistory(), 3)
}

func TestHostState_FireTurnCompleted(t *testing.T) {
	h := NewHostState()
	var indices []int
	h.OnTurnCompleted(func(i int) { indices = append(indices, i) })
	h.OnTurnCompleted(func(i int) { indices = append(indices, i*10) })

	h.FireTurnCompleted(2)

	assert.Equal(t, []int{2, 20}, indices)
}

func TestHostState_HistoryIsIsolated(t *testing.T) {
	h := NewHostState()
	src := sampleHistory()
	h.SetSnapshot("chat-1", "Aria", src)

	src[0].Text = "mutated"
	got := h.GetConversationHistory()
	require.Len(t, got, 2)
	assert.Equal(t, "hi", got[0].Text)

	got[1].Text = "also mutated"
	assert.Equal(t, "hello", h.GetConversationHistory()[1].Text)
}
