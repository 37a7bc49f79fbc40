package domain

// RoomSnapshot is the full public state of a room as every member sees it.
// Until the game is over it carries nothing that would tell the impostor the
// word: no word, no impostor id, no roles, no submitted or guessed text.
type RoomSnapshot struct {
	RoomCode         string            `json:"roomCode"`
	HostID           string            `json:"hostId"`
	Players          []Player          `json:"players"`
	Phase            Phase             `json:"phase"`
	Settings         Settings          `json:"settings"`
	Word             *string           `json:"word"`
	ImposterID       *string           `json:"imposterId"`
	CurrentTurnIndex int               `json:"currentTurnIndex"`
	CurrentPlayerID  string            `json:"currentPlayerId,omitempty"`
	Round            int               `json:"round"`
	MaxRounds        int               `json:"maxRounds"`
	Drawings         []Drawing         `json:"drawings"`
	Guesses          []Guess           `json:"guesses"`
	ChatMessages     []ChatMessage     `json:"chatMessages"`
	Votes            map[string]string `json:"votes"`
	Winner           Winner            `json:"winner"`
	WinReason        *string           `json:"winReason"`
	WordSubmissions  []WordSubmission  `json:"wordSubmissions"`
}

// Snapshot returns a deep copy of the room's public state
func (r *Room) Snapshot() *RoomSnapshot {
	revealed := r.Phase == PhaseGameOver

	snap := &RoomSnapshot{
		RoomCode:         r.RoomCode,
		HostID:           r.HostID,
		Players:          make([]Player, 0, len(r.Players)),
		Phase:            r.Phase,
		Settings:         r.Settings,
		CurrentTurnIndex: r.CurrentTurnIndex,
		CurrentPlayerID:  r.CurrentPlayerID(),
		Round:            r.Round,
		MaxRounds:        r.MaxRounds,
		Drawings:         append(make([]Drawing, 0, len(r.Drawings)), r.Drawings...),
		Guesses:          make([]Guess, 0, len(r.Guesses)),
		ChatMessages:     append(make([]ChatMessage, 0, len(r.ChatMessages)), r.ChatMessages...),
		Votes:            make(map[string]string, len(r.Votes)),
		Winner:           r.Winner,
		WordSubmissions:  make([]WordSubmission, 0, len(r.WordSubmissions)),
	}

	for _, p := range r.Players {
		view := *p
		if !revealed {
			view.Role = RoleUnassigned
		}
		snap.Players = append(snap.Players, view)
	}

	for _, g := range r.Guesses {
		if !revealed {
			g.Guess = ""
		}
		snap.Guesses = append(snap.Guesses, g)
	}

	for _, s := range r.WordSubmissions {
		if !revealed {
			s.Word = ""
		}
		snap.WordSubmissions = append(snap.WordSubmissions, s)
	}

	for voter, candidate := range r.Votes {
		snap.Votes[voter] = candidate
	}

	if revealed {
		snap.Word = stringPtr(r.Word)
		snap.ImposterID = stringPtr(r.ImposterID)
	}
	if r.WinReason != "" {
		snap.WinReason = stringPtr(r.WinReason)
	}

	return snap
}

// Reveal returns the private role payload for one player
func (r *Room) Reveal(playerID string) (WordReveal, error) {
	p := r.player(playerID)
	if p == nil {
		return WordReveal{}, ErrPlayerNotFound
	}
	if !p.Role.Assigned() {
		return WordReveal{}, ErrInvalidPhase
	}

	reveal := WordReveal{
		Role:       p.Role,
		IsImposter: p.Role.IsImposter(),
	}
	if !reveal.IsImposter {
		reveal.Word = stringPtr(r.Word)
	}
	return reveal, nil
}

func stringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
