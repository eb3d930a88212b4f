package models

import "time"

const (
	KindMessage          = "message"
	KindFullConversation = "full_conversation"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// HistoryMessage is one entry of the host's in-memory transcript.
type HistoryMessage struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Turn is one completed user/assistant exchange. Ephemeral — it only exists
// as an argument between the event adapter and the delivery engine.
type Turn struct {
	UserText       string
	AssistantText  string
	ConversationID string
	CharacterName  string
	Timestamp      time.Time
}

type ConversationMessage struct {
	Role      string    `json:"role"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SyncPayload is the wire unit, tagged by Kind. Message fields and
// conversation fields are mutually exclusive; the zero values of the unused
// half are omitted from the serialized form.
type SyncPayload struct {
	Kind             string                `json:"kind"`
	Character        string                `json:"character"`
	ChatID           string                `json:"chatId"`
	UserMessage      string                `json:"userMessage,omitempty"`
	AssistantMessage string                `json:"assistantMessage,omitempty"`
	MessageCount     int                   `json:"messageCount,omitempty"`
	Messages         []ConversationMessage `json:"messages,omitempty"`
	Timestamp        time.Time             `json:"timestamp"`
}

func NewMessagePayload(t *Turn) SyncPayload {
	return SyncPayload{
		Kind:             KindMessage,
		Character:        t.CharacterName,
		ChatID:           t.ConversationID,
		UserMessage:      t.UserText,
		AssistantMessage: t.AssistantText,
		Timestamp:        t.Timestamp,
	}
}

// NewFullConversationPayload builds a snapshot payload from a transcript,
// dropping system-role entries. Assistant messages carry the character name,
// everything else is attributed to the user.
func NewFullConversationPayload(character, chatID string, history []HistoryMessage) SyncPayload {
	messages := make([]ConversationMessage, 0, len(history))
	for _, m := range history {
		if m.Role == RoleSystem {
			continue
		}
		name := "User"
		if m.Role == RoleAssistant {
			name = character
		}
		messages = append(messages, ConversationMessage{
			Role:      m.Role,
			Name:      name,
			Content:   m.Text,
			Timestamp: m.Timestamp,
		})
	}
	return SyncPayload{
		Kind:         KindFullConversation,
		Character:    character,
		ChatID:       chatID,
		MessageCount: len(messages),
		Messages:     messages,
		Timestamp:    time.Now(),
	}
}

// LastMessageText returns the content of the newest conversation message,
// or the empty string for message-kind payloads.
func (p *SyncPayload) LastMessageText() string {
	if len(p.Messages) == 0 {
		return ""
	}
	return p.Messages[len(p.Messages)-1].Content
}
