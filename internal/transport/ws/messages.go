package ws

import (
	"encoding/json"
	"time"

	"imposterartist/internal/domain"
)

// MessageType represents the type of WebSocket message
type MessageType string

// Client → Server message types
const (
	MsgCreateRoom     MessageType = "create_room"
	MsgJoinRoom       MessageType = "join_room"
	MsgStartGame      MessageType = "start_game"
	MsgSubmitWord     MessageType = "submit_word"
	MsgSubmitDrawing  MessageType = "submit_drawing"
	MsgSubmitMessage  MessageType = "submit_message"
	MsgSubmitVote     MessageType = "submit_vote"
	MsgForceVote      MessageType = "force_vote"
	MsgResetGame      MessageType = "reset_game"
	MsgSubmitGuess    MessageType = "submit_guess"
	MsgDrawStroke     MessageType = "draw_stroke"
	MsgUpdateSettings MessageType = "update_settings"
	MsgSuggestWord    MessageType = "suggest_word"
	MsgAIDrawing      MessageType = "ai_drawing"
	MsgAIChat         MessageType = "ai_chat"
	MsgAIVote         MessageType = "ai_vote"
	MsgPing           MessageType = "ping"
)

// Server → Client message types. Room events use their own type names
// (room_update, word_reveal, ...).
const (
	MsgResponse MessageType = "response"
	MsgPong     MessageType = "pong"
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type      MessageType     `json:"type"`
	RequestID string          `json:"requestId,omitempty"`
	Payload   json.RawMessage `json:"payload,omitempty"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type      MessageType `json:"type"`
	RequestID string      `json:"requestId,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Timestamp string      `json:"timestamp"`
}

// NewServerMessage creates a new server message with current timestamp
func NewServerMessage(msgType MessageType, payload interface{}) *ServerMessage {
	return &ServerMessage{
		Type:      msgType,
		Payload:   payload,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// ResponsePayload answers exactly one client request
type ResponsePayload struct {
	Success bool        `json:"success"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// Failure strings sent back to the requesting client
const (
	FailCreateRoom         = "Failed to create room"
	FailRoomNotFound       = "Room not found"
	FailGameInProgress     = "Game already in progress"
	FailRoomFull           = "Room is full"
	FailStartNotHost       = "Only host can start game"
	FailNotEnoughPlayers   = "Not enough players"
	FailInvalidSubmission  = "Invalid submission"
	FailInvalidDrawing     = "Not your turn or invalid action"
	FailSendMessage        = "Failed to send message"
	FailInvalidVote        = "Invalid vote"
	FailForceVote          = "Failed to force vote (only host can do this)"
	FailResetNotHost       = "Only host can reset game"
	FailInvalidGuess       = "Invalid guess"
	FailSettingsNotHost    = "Only host can change settings"
	FailInvalidSettings    = "Invalid settings"
	FailSuggestWord        = "Failed to suggest word"
	FailRateLimited        = "Rate limit exceeded"
	FailAlreadyInRoom      = "Already in a room"
	FailInvalidMessage     = "Invalid message format"
	FailUnknownMessageType = "Unknown message type"
)

// Client message payloads

// CreateRoomPayload is the payload for create_room. A bare JSON string is
// read as the player name.
type CreateRoomPayload struct {
	PlayerName string `json:"playerName"`
	Avatar     string `json:"avatar,omitempty"`
}

// UnmarshalJSON accepts either an object or a bare player name
func (p *CreateRoomPayload) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		p.PlayerName = name
		return nil
	}
	type plain CreateRoomPayload
	return json.Unmarshal(data, (*plain)(p))
}

// JoinRoomPayload is the payload for join_room
type JoinRoomPayload struct {
	RoomCode   string `json:"roomCode"`
	PlayerName string `json:"playerName"`
	Avatar     string `json:"avatar,omitempty"`
}

// RoomPayload names the room an action targets. A bare JSON string is read
// as the room code.
type RoomPayload struct {
	RoomCode string `json:"roomCode"`
}

// UnmarshalJSON accepts either an object or a bare room code
func (p *RoomPayload) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err == nil {
		p.RoomCode = code
		return nil
	}
	type plain RoomPayload
	return json.Unmarshal(data, (*plain)(p))
}

// SubmitWordPayload is the payload for submit_word
type SubmitWordPayload struct {
	RoomCode string `json:"roomCode"`
	Word     string `json:"word"`
}

// SubmitDrawingPayload is the payload for submit_drawing
type SubmitDrawingPayload struct {
	RoomCode    string `json:"roomCode"`
	DrawingData string `json:"drawingData"`
}

// SubmitMessagePayload is the payload for submit_message
type SubmitMessagePayload struct {
	RoomCode string `json:"roomCode"`
	Message  string `json:"message"`
}

// SubmitVotePayload is the payload for submit_vote
type SubmitVotePayload struct {
	RoomCode    string `json:"roomCode"`
	CandidateID string `json:"candidateId"`
}

// SubmitGuessPayload is the payload for submit_guess
type SubmitGuessPayload struct {
	RoomCode string `json:"roomCode"`
	Guess    string `json:"guess"`
}

// DrawStrokePayload is the payload for draw_stroke
type DrawStrokePayload struct {
	RoomCode string          `json:"roomCode"`
	Stroke   json.RawMessage `json:"stroke"`
}

// UpdateSettingsPayload is the payload for update_settings
type UpdateSettingsPayload struct {
	RoomCode string `json:"roomCode"`
	domain.SettingsPatch
}

// Response data

// CreateRoomData is returned by create_room
type CreateRoomData struct {
	RoomCode string               `json:"roomCode"`
	Player   domain.Player        `json:"player"`
	Room     *domain.RoomSnapshot `json:"room"`
}

// JoinRoomData is returned by join_room
type JoinRoomData struct {
	Player domain.Player        `json:"player"`
	Room   *domain.RoomSnapshot `json:"room"`
}

// SuggestWordData is returned by suggest_word
type SuggestWordData struct {
	Word string `json:"word"`
}

// VoteData is returned by ai_vote
type VoteData struct {
	CandidateID string `json:"candidateId"`
}
