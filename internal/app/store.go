package app

import (
	"crypto/rand"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"imposterartist/internal/domain"
	"imposterartist/internal/generator"
)

const (
	// RoomCodeLength is the length of generated room codes
	RoomCodeLength = 6

	// DefaultGeneratorTimeout bounds a single assist call
	DefaultGeneratorTimeout = 10 * time.Second
)

// RoomCodeChars are the characters room codes are drawn from
const RoomCodeChars = "0123456789"

// Options configures every room the store creates
type Options struct {
	Settings         domain.Settings
	MaxRounds        int
	Randomizer       domain.Randomizer
	Words            generator.WordGenerator
	Drawings         generator.DrawingGenerator
	Chat             generator.ChatGenerator
	GeneratorTimeout time.Duration
}

// DefaultOptions returns the stock room settings with the local generators
func DefaultOptions() Options {
	return Options{
		Settings:         domain.DefaultSettings(),
		MaxRounds:        domain.DefaultMaxRounds,
		GeneratorTimeout: DefaultGeneratorTimeout,
	}
}

func (o Options) withDefaults() Options {
	if o.Settings == (domain.Settings{}) {
		o.Settings = domain.DefaultSettings()
	}
	if o.MaxRounds <= 0 {
		o.MaxRounds = domain.DefaultMaxRounds
	}
	if o.Randomizer == nil {
		o.Randomizer = domain.DefaultRandomizer
	}
	if o.Words == nil {
		o.Words = generator.NewWordList(nil, nil)
	}
	if o.Drawings == nil {
		o.Drawings = generator.NewScribbler(nil)
	}
	if o.Chat == nil {
		o.Chat = generator.NewPhraseBook(nil)
	}
	if o.GeneratorTimeout <= 0 {
		o.GeneratorTimeout = DefaultGeneratorTimeout
	}
	return o
}

// Store owns every open room
type Store struct {
	sessions map[string]*Session
	mu       sync.RWMutex
	opts     Options
	logger   *slog.Logger
}

// NewStore creates an empty store
func NewStore(opts Options, logger *slog.Logger) *Store {
	return &Store{
		sessions: make(map[string]*Session),
		opts:     opts.withDefaults(),
		logger:   logger,
	}
}

// Create opens a room under a fresh code with the caller as host and first
// player. The host's client is registered before the first room_update.
func (st *Store) Create(hostID, name, avatar string, client ClientConnection) (*Session, domain.Player, *domain.RoomSnapshot, error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	var roomCode string
	for attempts := 0; attempts < 10; attempts++ {
		code, err := generateRoomCode()
		if err != nil {
			return nil, domain.Player{}, nil, err
		}
		if _, exists := st.sessions[code]; !exists {
			roomCode = code
			break
		}
	}
	if roomCode == "" {
		return nil, domain.Player{}, nil, fmt.Errorf("failed to generate unique room code")
	}

	room := domain.NewRoom(roomCode, hostID, st.opts.Randomizer)
	room.Settings = st.opts.Settings
	room.MaxRounds = st.opts.MaxRounds

	session := NewSession(room, st.opts, st.logger)
	player, snapshot, err := session.Join(hostID, name, avatar, client)
	if err != nil {
		session.Close()
		return nil, domain.Player{}, nil, err
	}

	st.sessions[roomCode] = session
	st.logger.Info("room created", "roomCode", roomCode, "hostID", hostID)

	return session, player, snapshot, nil
}

// Get returns the session for a room code
func (st *Store) Get(roomCode string) (*Session, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	session, ok := st.sessions[roomCode]
	if !ok {
		return nil, domain.ErrRoomNotFound
	}
	return session, nil
}

// Delete closes and removes a room
func (st *Store) Delete(roomCode string) {
	st.mu.Lock()
	defer st.mu.Unlock()

	if session, ok := st.sessions[roomCode]; ok {
		session.Close()
		delete(st.sessions, roomCode)
		st.logger.Info("room deleted", "roomCode", roomCode)
	}
}

// Count returns the number of open rooms
func (st *Store) Count() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// TotalPlayers returns the number of players across all rooms
func (st *Store) TotalPlayers() int {
	st.mu.RLock()
	sessions := make([]*Session, 0, len(st.sessions))
	for _, s := range st.sessions {
		sessions = append(sessions, s)
	}
	st.mu.RUnlock()

	total := 0
	for _, s := range sessions {
		total += s.PlayerCount()
	}
	return total
}

// Close shuts down every room
func (st *Store) Close() {
	st.mu.Lock()
	defer st.mu.Unlock()

	for _, session := range st.sessions {
		session.Close()
	}
	st.sessions = make(map[string]*Session)
}

// generateRoomCode draws a random numeric room code
func generateRoomCode() (string, error) {
	b := make([]byte, RoomCodeLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	code := make([]byte, RoomCodeLength)
	for i := range code {
		code[i] = RoomCodeChars[int(b[i])%len(RoomCodeChars)]
	}
	return string(code), nil
}
