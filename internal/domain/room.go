package domain

import (
	"slices"
	"strings"
	"time"
)

// Room is one game session. A Room is not safe for concurrent use; the
// owning session serializes every call.
//
// Operations validate before they mutate, so a call that returns an error
// leaves the room exactly as it was.
type Room struct {
	RoomCode         string
	HostID           string
	Phase            Phase
	Players          []*Player // join order is turn order
	Settings         Settings
	Word             string
	ImposterID       string
	CurrentTurnIndex int
	Round            int
	MaxRounds        int
	Drawings         []Drawing
	Guesses          []Guess
	ChatMessages     []ChatMessage
	Votes            map[string]string // voterID -> candidateID
	Winner           Winner
	WinReason        string
	WordSubmissions  []WordSubmission
	CreatedAt        time.Time

	rng Randomizer
	now func() time.Time
}

// NewRoom creates an empty room in the lobby. A nil rng uses DefaultRandomizer.
func NewRoom(code, hostID string, rng Randomizer) *Room {
	if rng == nil {
		rng = DefaultRandomizer
	}
	return &Room{
		RoomCode:  code,
		HostID:    hostID,
		Phase:     PhaseLobby,
		Players:   make([]*Player, 0),
		Settings:  DefaultSettings(),
		Round:     1,
		MaxRounds: DefaultMaxRounds,
		Votes:     make(map[string]string),
		CreatedAt: time.Now(),
		rng:       rng,
		now:       time.Now,
	}
}

// CanJoin checks the boundary preconditions for a new player
func (r *Room) CanJoin() error {
	if r.Phase != PhaseLobby {
		return ErrGameInProgress
	}
	if len(r.Players) >= r.Settings.MaxPlayers {
		return ErrRoomFull
	}
	return nil
}

// AddPlayer appends a player in join order and gives them a color.
// The player ceiling is the caller's concern, see CanJoin.
func (r *Room) AddPlayer(id, name, avatar string) (Player, error) {
	if r.indexOf(id) >= 0 {
		return Player{}, ErrAlreadyJoined
	}

	player := NewPlayer(id, name, avatar, pickColor(r.Players))
	r.Players = append(r.Players, player)

	return *player, nil
}

// RemovePlayer drops a player in any phase and reports whether the room is
// now empty, in which case the caller must delete it.
func (r *Room) RemovePlayer(playerID string) (bool, error) {
	idx := r.indexOf(playerID)
	if idx < 0 {
		return false, ErrPlayerNotFound
	}

	r.Players = slices.Delete(r.Players, idx, idx+1)
	if len(r.Players) == 0 {
		return true, nil
	}

	if r.HostID == playerID {
		r.HostID = r.Players[0].ID
	}

	r.discardVotesInvolving(playerID)
	r.WordSubmissions = slices.DeleteFunc(r.WordSubmissions, func(s WordSubmission) bool {
		return s.PlayerID == playerID
	})

	switch {
	case r.Phase.InProgress() && len(r.Players) < MinPlayers:
		r.ResetGame()

	case (r.Phase == PhaseDrawing || r.Phase == PhaseVoting) && playerID == r.ImposterID:
		r.finish(WinnerArtists, "The Imposter left the game.")

	case r.Phase == PhaseWordSubmission:
		if len(r.WordSubmissions) == len(r.Players) {
			r.assignRolesAndWord()
		}

	case r.Phase == PhaseDrawing:
		// Keep the pointer on whoever was next in line.
		if idx < r.CurrentTurnIndex {
			r.CurrentTurnIndex--
		}
		if r.CurrentTurnIndex >= len(r.Players) {
			r.completeRound()
		}

	case r.Phase == PhaseVoting:
		if r.allVoted() {
			r.resolve()
		}
	}

	return false, nil
}

// StartGame moves the lobby into word submission
func (r *Room) StartGame() error {
	if r.Phase != PhaseLobby {
		return ErrInvalidPhase
	}
	if len(r.Players) < MinPlayers {
		return ErrNotEnoughPlayers
	}

	r.Phase = PhaseWordSubmission
	r.WordSubmissions = make([]WordSubmission, 0, len(r.Players))
	for _, p := range r.Players {
		p.HasSubmittedWord = false
	}

	return nil
}

// SubmitWord records a player's candidate word. The last submission picks
// the impostor and the secret word and starts the drawing phase in the same
// call.
func (r *Room) SubmitWord(playerID, word string) error {
	if r.Phase != PhaseWordSubmission {
		return ErrInvalidPhase
	}

	player := r.player(playerID)
	if player == nil {
		return ErrPlayerNotFound
	}
	if player.HasSubmittedWord {
		return ErrAlreadySubmitted
	}

	word = strings.TrimSpace(word)
	if word == "" {
		return ErrEmptyWord
	}

	r.WordSubmissions = append(r.WordSubmissions, WordSubmission{PlayerID: playerID, Word: word})
	player.HasSubmittedWord = true

	if len(r.WordSubmissions) == len(r.Players) {
		r.assignRolesAndWord()
	}

	return nil
}

// assignRolesAndWord draws the impostor, then the secret word from everyone
// else's submissions.
func (r *Room) assignRolesAndWord() {
	imposter := r.Players[r.rng.Intn(len(r.Players))]
	r.ImposterID = imposter.ID

	candidates := make([]WordSubmission, 0, len(r.WordSubmissions))
	for _, s := range r.WordSubmissions {
		if s.PlayerID != imposter.ID {
			candidates = append(candidates, s)
		}
	}

	if len(candidates) > 0 {
		r.Word = candidates[r.rng.Intn(len(candidates))].Word
	} else {
		// Only reachable with a single player left.
		r.Word = r.WordSubmissions[0].Word
	}

	for _, p := range r.Players {
		if p.ID == r.ImposterID {
			p.Role = RoleImposter
		} else {
			p.Role = RoleArtist
		}
	}

	r.Phase = PhaseDrawing
	r.CurrentTurnIndex = 0
	r.Round = 1
}

// ResetGame clears everything the last game produced and returns to the
// lobby. Host, roster, settings and colors are kept.
func (r *Room) ResetGame() {
	r.Phase = PhaseLobby
	r.Word = ""
	r.ImposterID = ""
	r.CurrentTurnIndex = 0
	r.Round = 1
	r.Drawings = nil
	r.Guesses = nil
	r.ChatMessages = nil
	r.Votes = make(map[string]string)
	r.Winner = WinnerNone
	r.WinReason = ""
	r.WordSubmissions = nil

	for _, p := range r.Players {
		p.ResetForNewGame()
	}
}

// finish ends the game with the given outcome
func (r *Room) finish(winner Winner, reason string) {
	r.Phase = PhaseGameOver
	r.Winner = winner
	r.WinReason = reason
	r.CurrentTurnIndex = 0
}

// IsHost checks if the given player is the host
func (r *Room) IsHost(playerID string) bool {
	return r.HostID == playerID
}

// HasPlayer reports whether the player is in the room
func (r *Room) HasPlayer(playerID string) bool {
	return r.indexOf(playerID) >= 0
}

// Player returns a copy of the player with the given ID
func (r *Room) Player(playerID string) (Player, bool) {
	p := r.player(playerID)
	if p == nil {
		return Player{}, false
	}
	return *p, true
}

// PlayerIDs returns the player IDs in turn order
func (r *Room) PlayerIDs() []string {
	ids := make([]string, 0, len(r.Players))
	for _, p := range r.Players {
		ids = append(ids, p.ID)
	}
	return ids
}

func (r *Room) player(playerID string) *Player {
	if idx := r.indexOf(playerID); idx >= 0 {
		return r.Players[idx]
	}
	return nil
}

func (r *Room) indexOf(playerID string) int {
	return slices.IndexFunc(r.Players, func(p *Player) bool {
		return p.ID == playerID
	})
}
