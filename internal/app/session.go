package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"

	"imposterartist/internal/domain"
	"imposterartist/internal/generator"
)

// eventBufferSize bounds the per-room outbound event queue
const eventBufferSize = 256

// ClientConnection represents a connected client
type ClientConnection interface {
	Send(message interface{}) error
	GetPlayerID() string
	Close() error
}

// Session wraps a room with concurrency control and client fan-out.
// Every room mutation runs under mu; events are queued under the same lock
// and delivered in order by eventLoop.
type Session struct {
	room      *domain.Room
	mu        sync.Mutex
	closed    bool
	clients   map[string]ClientConnection // playerID -> client
	clientsMu sync.RWMutex
	opts      Options
	logger    *slog.Logger

	events chan *domain.RoomEvent
	done   chan struct{}
	once   sync.Once
}

// NewSession creates a session for a room and starts its event loop
func NewSession(room *domain.Room, opts Options, logger *slog.Logger) *Session {
	session := &Session{
		room:    room,
		clients: make(map[string]ClientConnection),
		opts:    opts.withDefaults(),
		logger:  logger.With("roomCode", room.RoomCode),
		events:  make(chan *domain.RoomEvent, eventBufferSize),
		done:    make(chan struct{}),
	}

	go session.eventLoop()

	return session
}

// RoomCode returns the room code
func (s *Session) RoomCode() string {
	return s.room.RoomCode
}

// PlayerCount returns the number of players
func (s *Session) PlayerCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.room.Players)
}

// Phase returns the current phase
func (s *Session) Phase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Phase
}

// CanJoin reports why a new player could not join, or nil
func (s *Session) CanJoin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrRoomNotFound
	}
	return s.room.CanJoin()
}

// Snapshot returns the redacted public state
func (s *Session) Snapshot() *domain.RoomSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.Snapshot()
}

// HasPlayer reports whether the player is in the room
func (s *Session) HasPlayer(playerID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.room.HasPlayer(playerID)
}

// Join adds a player and registers their client
func (s *Session) Join(playerID, name, avatar string, client ClientConnection) (domain.Player, *domain.RoomSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return domain.Player{}, nil, domain.ErrRoomNotFound
	}
	if err := s.room.CanJoin(); err != nil {
		return domain.Player{}, nil, err
	}

	player, err := s.room.AddPlayer(playerID, name, avatar)
	if err != nil {
		return domain.Player{}, nil, err
	}

	if client != nil {
		s.registerClient(playerID, client)
	}

	snapshot := s.room.Snapshot()
	s.queueEvent(domain.NewEvent(domain.EventRoomUpdate, s.room.RoomCode, snapshot))
	s.logger.Info("player joined", "playerID", playerID, "players", len(s.room.Players))

	return player, snapshot, nil
}

// Leave removes a departed player. It reports whether the room is now empty,
// in which case the session refuses further joins and the caller must
// delete it from the store.
func (s *Session) Leave(playerID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.unregisterClient(playerID)

	before := s.room.Phase
	empty, err := s.room.RemovePlayer(playerID)
	if err != nil {
		return false, err
	}
	s.logger.Info("player left", "playerID", playerID, "players", len(s.room.Players))

	if empty {
		s.closed = true
		return true, nil
	}

	s.broadcastState(before)
	s.queueEvent(domain.NewEvent(domain.EventPlayerLeft, s.room.RoomCode, &domain.PlayerLeftPayload{PlayerID: playerID}))

	return false, nil
}

// StartGame moves the lobby into word submission (host only)
func (s *Session) StartGame(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.IsHost(playerID) {
		return domain.ErrNotHost
	}

	before := s.room.Phase
	if err := s.room.StartGame(); err != nil {
		return err
	}

	s.logger.Info("game started", "players", len(s.room.Players))
	s.broadcastState(before)
	return nil
}

// SubmitWord records a candidate word; the last one starts drawing
func (s *Session) SubmitWord(playerID, word string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.room.Phase
	if err := s.room.SubmitWord(playerID, word); err != nil {
		return err
	}

	s.broadcastState(before)
	return nil
}

// SubmitDrawing records the current player's turn
func (s *Session) SubmitDrawing(playerID, imageData string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submitDrawing(playerID, imageData, nil)
}

// submitDrawing applies a drawing (caller must hold lock)
func (s *Session) submitDrawing(playerID, imageData string, turn *domain.Turn) error {
	before := s.room.Phase
	round := s.room.Round

	var err error
	if turn != nil {
		err = s.room.SubmitDrawingForTurn(playerID, imageData, *turn)
	} else {
		err = s.room.SubmitDrawing(playerID, imageData)
	}
	if err != nil {
		return err
	}

	s.broadcastState(before)
	s.queueEvent(domain.NewEvent(domain.EventNewDrawing, s.room.RoomCode, &domain.NewDrawingPayload{
		PlayerID: playerID,
		Round:    round,
		Data:     imageData,
	}))
	return nil
}

// SubmitMessage appends a chat line
func (s *Session) SubmitMessage(playerID, text string) (domain.ChatMessage, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submitMessage(playerID, text)
}

func (s *Session) submitMessage(playerID, text string) (domain.ChatMessage, error) {
	before := s.room.Phase
	msg, err := s.room.SubmitMessage(playerID, text)
	if err != nil {
		return domain.ChatMessage{}, err
	}

	s.queueEvent(domain.NewEvent(domain.EventNewMessage, s.room.RoomCode, msg))
	s.broadcastState(before)
	return msg, nil
}

// GuessOutcome is what the guesser learns about their guess
type GuessOutcome struct {
	IsCorrect bool    `json:"isCorrect"`
	Word      *string `json:"word"`
}

// SubmitGuess records a guess at the secret word
func (s *Session) SubmitGuess(playerID, guess string) (GuessOutcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.room.Phase
	result, err := s.room.SubmitGuess(playerID, guess)
	if err != nil {
		return GuessOutcome{}, err
	}

	outcome := GuessOutcome{IsCorrect: result.IsCorrect}
	if result.IsCorrect {
		word := s.room.Word
		outcome.Word = &word
	}

	s.queueEvent(domain.NewEvent(domain.EventPlayerGuessed, s.room.RoomCode, &domain.PlayerGuessedPayload{
		PlayerID:  playerID,
		IsCorrect: result.IsCorrect,
		IsLocked:  result.IsCorrect,
	}))
	s.broadcastState(before)

	if s.room.Phase == domain.PhaseGameOver {
		s.logger.Info("game over", "winner", s.room.Winner, "reason", s.room.WinReason)
	}
	return outcome, nil
}

// SubmitVote records a vote; the last one resolves the game
func (s *Session) SubmitVote(voterID, candidateID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submitVote(voterID, candidateID)
}

func (s *Session) submitVote(voterID, candidateID string) error {
	before := s.room.Phase
	if err := s.room.SubmitVote(voterID, candidateID); err != nil {
		return err
	}

	s.broadcastState(before)
	s.queueEvent(domain.NewEvent(domain.EventVoteCast, s.room.RoomCode, &domain.VoteCastPayload{VoterID: voterID}))

	if s.room.Phase == domain.PhaseGameOver {
		s.logger.Info("game over", "winner", s.room.Winner, "reason", s.room.WinReason)
	}
	return nil
}

// ForceVote skips the rest of the drawing phase (host only)
func (s *Session) ForceVote(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.room.Phase
	if err := s.room.ForceVote(playerID); err != nil {
		return err
	}

	s.broadcastState(before)
	return nil
}

// ResetGame returns the room to the lobby (host only)
func (s *Session) ResetGame(playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.room.IsHost(playerID) {
		return domain.ErrNotHost
	}

	before := s.room.Phase
	s.room.ResetGame()

	s.broadcastState(before)
	return nil
}

// UpdateSettings applies a host's lobby settings change
func (s *Session) UpdateSettings(playerID string, patch domain.SettingsPatch) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.room.Phase
	if err := s.room.UpdateSettings(playerID, patch); err != nil {
		return err
	}

	s.broadcastState(before)
	return nil
}

// RelayStroke counts a live stroke and forwards it to everyone but the drawer
func (s *Session) RelayStroke(playerID string, stroke json.RawMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.room.Phase
	if err := s.room.RecordStroke(playerID); err != nil {
		return err
	}

	s.queueEvent(domain.NewEventExcluding(domain.EventDrawStroke, s.room.RoomCode, playerID, &domain.DrawStrokePayload{
		PlayerID: playerID,
		Stroke:   stroke,
	}))
	s.broadcastState(before)
	return nil
}

// SuggestWord asks the word generator for a candidate word
func (s *Session) SuggestWord(ctx context.Context, playerID string) (string, error) {
	if !s.HasPlayer(playerID) {
		return "", domain.ErrPlayerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.GeneratorTimeout)
	defer cancel()

	word, err := s.opts.Words.SuggestWord(ctx)
	if err != nil {
		return "", fmt.Errorf("suggest word: %w", err)
	}
	return word, nil
}

// AssistDrawing generates the current player's drawing and submits it for
// the turn it was generated for.
func (s *Session) AssistDrawing(ctx context.Context, playerID string) error {
	s.mu.Lock()
	if s.room.CurrentPlayerID() != playerID {
		s.mu.Unlock()
		return domain.ErrNotYourTurn
	}
	turn := s.room.CurrentTurn()
	reveal, err := s.room.Reveal(playerID)
	player, _ := s.room.Player(playerID)
	s.mu.Unlock()
	if err != nil {
		return err
	}

	req := generator.DrawingRequest{
		IsImposter: reveal.IsImposter,
		Round:      turn.Round,
		Color:      player.Color,
	}
	if reveal.Word != nil {
		req.Word = *reveal.Word
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.GeneratorTimeout)
	defer cancel()

	data, err := s.opts.Drawings.GenerateDrawing(ctx, req)
	if err != nil {
		return fmt.Errorf("generate drawing: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submitDrawing(playerID, data, &turn)
}

// AssistChat generates a chat line for the player and posts it
func (s *Session) AssistChat(ctx context.Context, playerID string) (domain.ChatMessage, error) {
	s.mu.Lock()
	player, ok := s.room.Player(playerID)
	req := generator.ChatRequest{
		PlayerName: player.Name,
		IsImposter: player.Role.IsImposter(),
		Phase:      s.room.Phase.String(),
	}
	if reveal, err := s.room.Reveal(playerID); err == nil && reveal.Word != nil {
		req.Word = *reveal.Word
	}
	s.mu.Unlock()
	if !ok {
		return domain.ChatMessage{}, domain.ErrPlayerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.GeneratorTimeout)
	defer cancel()

	text, err := s.opts.Chat.GenerateChat(ctx, req)
	if err != nil {
		return domain.ChatMessage{}, fmt.Errorf("generate chat: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.submitMessage(playerID, text)
}

// AssistVote picks a candidate for the player and casts the vote
func (s *Session) AssistVote(ctx context.Context, playerID string) (string, error) {
	s.mu.Lock()
	if s.room.Phase != domain.PhaseVoting {
		s.mu.Unlock()
		return "", domain.ErrInvalidPhase
	}
	player, ok := s.room.Player(playerID)
	req := generator.VoteRequest{
		VoterID:    playerID,
		Candidates: s.room.PlayerIDs(),
		IsImposter: player.Role.IsImposter(),
	}
	s.mu.Unlock()
	if !ok {
		return "", domain.ErrPlayerNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.GeneratorTimeout)
	defer cancel()

	candidateID, err := s.opts.Chat.SuggestVote(ctx, req)
	if err != nil {
		return "", fmt.Errorf("suggest vote: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.submitVote(playerID, candidateID); err != nil {
		return "", err
	}
	return candidateID, nil
}

// broadcastState queues a room_update, plus the private word reveals when
// the mutation just started the drawing phase (caller must hold lock).
func (s *Session) broadcastState(before domain.Phase) {
	s.queueEvent(domain.NewEvent(domain.EventRoomUpdate, s.room.RoomCode, s.room.Snapshot()))

	if before == domain.PhaseDrawing || s.room.Phase != domain.PhaseDrawing {
		return
	}

	for _, id := range s.room.PlayerIDs() {
		reveal, err := s.room.Reveal(id)
		if err != nil {
			s.logger.Error("failed to build word reveal", "playerID", id, "error", err)
			continue
		}
		s.queueEvent(domain.NewPlayerEvent(domain.EventWordReveal, s.room.RoomCode, id, &reveal))
	}
	s.logger.Info("drawing started", "players", len(s.room.Players))
}

// registerClient registers a client connection for a player
func (s *Session) registerClient(playerID string, client ClientConnection) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	s.clients[playerID] = client
}

// unregisterClient removes a client connection
func (s *Session) unregisterClient(playerID string) {
	s.clientsMu.Lock()
	defer s.clientsMu.Unlock()
	delete(s.clients, playerID)
}

// queueEvent adds an event to the broadcast queue
func (s *Session) queueEvent(event *domain.RoomEvent) {
	select {
	case s.events <- event:
	default:
		s.logger.Warn("event queue full, dropping event", "type", event.Type)
	}
}

// eventLoop processes events and broadcasts to clients
func (s *Session) eventLoop() {
	for {
		select {
		case <-s.done:
			return
		case event := <-s.events:
			s.broadcastEvent(event)
		}
	}
}

// broadcastEvent sends an event to the clients it is addressed to
func (s *Session) broadcastEvent(event *domain.RoomEvent) {
	s.clientsMu.RLock()
	defer s.clientsMu.RUnlock()

	if event.PlayerID != "" {
		if client, ok := s.clients[event.PlayerID]; ok {
			if err := client.Send(event); err != nil {
				s.logger.Debug("failed to send to client", "playerID", event.PlayerID, "error", err)
			}
		}
		return
	}

	for playerID, client := range s.clients {
		if playerID == event.ExcludeID {
			continue
		}
		if err := client.Send(event); err != nil {
			s.logger.Debug("failed to send to client", "playerID", playerID, "error", err)
		}
	}
}

// Close stops the event loop and closes any remaining client connections
func (s *Session) Close() {
	s.once.Do(func() {
		close(s.done)

		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		s.clientsMu.Lock()
		for _, client := range s.clients {
			client.Close()
		}
		s.clients = make(map[string]ClientConnection)
		s.clientsMu.Unlock()
	})
}
