package domain

// Limits for host-adjustable settings
const (
	MinPlayers        = 2
	MaxPlayersLimit   = 20
	MaxRoundsLimit    = 10
	MaxStrokesPerTurn = 10
	MaxChatMessages   = 50
)

// Settings holds the lobby-configurable parameters of a room
type Settings struct {
	MaxPlayers      int  `json:"maxPlayers"`
	StrokesPerTurn  int  `json:"strokesPerTurn"`
	AllowExtraColor bool `json:"allowExtraColor"`
}

// DefaultSettings returns the settings every new room starts with
func DefaultSettings() Settings {
	return Settings{
		MaxPlayers:      8,
		StrokesPerTurn:  2,
		AllowExtraColor: true,
	}
}

// DefaultMaxRounds is the number of drawing rounds before voting
const DefaultMaxRounds = 3

// SettingsPatch carries a partial settings update from the host.
// Nil fields are left unchanged.
type SettingsPatch struct {
	MaxPlayers      *int  `json:"maxPlayers,omitempty"`
	MaxRounds       *int  `json:"maxRounds,omitempty"`
	StrokesPerTurn  *int  `json:"strokesPerTurn,omitempty"`
	AllowExtraColor *bool `json:"allowExtraColor,omitempty"`
}

// UpdateSettings applies a host's settings change. Only allowed in the lobby.
func (r *Room) UpdateSettings(requesterID string, patch SettingsPatch) error {
	if !r.IsHost(requesterID) {
		return ErrNotHost
	}
	if r.Phase != PhaseLobby {
		return ErrInvalidPhase
	}

	settings := r.Settings
	maxRounds := r.MaxRounds

	if patch.MaxPlayers != nil {
		n := *patch.MaxPlayers
		if n < MinPlayers || n > MaxPlayersLimit || n < len(r.Players) {
			return ErrInvalidSettings
		}
		settings.MaxPlayers = n
	}
	if patch.MaxRounds != nil {
		n := *patch.MaxRounds
		if n < 1 || n > MaxRoundsLimit {
			return ErrInvalidSettings
		}
		maxRounds = n
	}
	if patch.StrokesPerTurn != nil {
		n := *patch.StrokesPerTurn
		if n < 1 || n > MaxStrokesPerTurn {
			return ErrInvalidSettings
		}
		settings.StrokesPerTurn = n
	}
	if patch.AllowExtraColor != nil {
		settings.AllowExtraColor = *patch.AllowExtraColor
	}

	r.Settings = settings
	r.MaxRounds = maxRounds
	return nil
}
