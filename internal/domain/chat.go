package domain

import (
	"slices"
	"strings"

	"github.com/google/uuid"
)

// ChatMessage is one line of room chat
type ChatMessage struct {
	ID         string `json:"id"`
	SenderID   string `json:"senderId"`
	SenderName string `json:"senderName"`
	Text       string `json:"text"`
	Timestamp  int64  `json:"timestamp"` // unix millis
	Color      string `json:"color"`
}

// SubmitMessage appends a chat line. Chat works in every phase; the oldest
// line is evicted once the room holds MaxChatMessages.
func (r *Room) SubmitMessage(playerID, text string) (ChatMessage, error) {
	player := r.player(playerID)
	if player == nil {
		return ChatMessage{}, ErrPlayerNotFound
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return ChatMessage{}, ErrEmptyMessage
	}

	msg := ChatMessage{
		ID:         uuid.NewString(),
		SenderID:   player.ID,
		SenderName: player.Name,
		Text:       text,
		Timestamp:  r.now().UnixMilli(),
		Color:      player.Color,
	}

	r.ChatMessages = append(r.ChatMessages, msg)
	if over := len(r.ChatMessages) - MaxChatMessages; over > 0 {
		r.ChatMessages = slices.Delete(r.ChatMessages, 0, over)
	}

	return msg, nil
}
