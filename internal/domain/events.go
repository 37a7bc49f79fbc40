package domain

import (
	"encoding/json"
	"time"
)

// EventType represents the type of room event
type EventType string

const (
	EventRoomUpdate    EventType = "room_update"
	EventWordReveal    EventType = "word_reveal"
	EventNewDrawing    EventType = "new_drawing"
	EventNewMessage    EventType = "new_message"
	EventPlayerGuessed EventType = "player_guessed"
	EventVoteCast      EventType = "vote_cast"
	EventDrawStroke    EventType = "draw_stroke"
	EventPlayerLeft    EventType = "player_left"
)

// RoomEvent is something the room tells its members
type RoomEvent struct {
	Type      EventType   `json:"type"`
	RoomCode  string      `json:"roomCode"`
	PlayerID  string      `json:"playerId,omitempty"` // If set, only this player receives it
	ExcludeID string      `json:"-"`                  // If set, everyone but this player receives it
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

// NewEvent creates a room-wide event
func NewEvent(eventType EventType, roomCode string, payload interface{}) *RoomEvent {
	return &RoomEvent{
		Type:      eventType,
		RoomCode:  roomCode,
		Payload:   payload,
		Timestamp: time.Now(),
	}
}

// NewPlayerEvent creates an event for a single player
func NewPlayerEvent(eventType EventType, roomCode, playerID string, payload interface{}) *RoomEvent {
	event := NewEvent(eventType, roomCode, payload)
	event.PlayerID = playerID
	return event
}

// NewEventExcluding creates an event for everyone except one player
func NewEventExcluding(eventType EventType, roomCode, excludeID string, payload interface{}) *RoomEvent {
	event := NewEvent(eventType, roomCode, payload)
	event.ExcludeID = excludeID
	return event
}

// Payload types for different events

// WordReveal is sent privately to each player when drawing starts
type WordReveal struct {
	Role       Role    `json:"role"`
	Word       *string `json:"word"` // nil for the impostor
	IsImposter bool    `json:"isImposter"`
}

// NewDrawingPayload is sent when a turn's drawing lands
type NewDrawingPayload struct {
	PlayerID string `json:"playerId"`
	Round    int    `json:"round"`
	Data     string `json:"data"`
}

// PlayerGuessedPayload is sent after a guess, without the guess text
type PlayerGuessedPayload struct {
	PlayerID  string `json:"playerId"`
	IsCorrect bool   `json:"isCorrect"`
	IsLocked  bool   `json:"isLocked"`
}

// VoteCastPayload is sent when someone votes
type VoteCastPayload struct {
	VoterID string `json:"voterId"`
}

// DrawStrokePayload relays a live stroke to the other players
type DrawStrokePayload struct {
	PlayerID string          `json:"playerId"`
	Stroke   json.RawMessage `json:"stroke"`
}

// PlayerLeftPayload is sent after a player disconnects
type PlayerLeftPayload struct {
	PlayerID string `json:"playerId"`
}
