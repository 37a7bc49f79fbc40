package domain

// Phase represents the current phase of a room
type Phase string

const (
	PhaseLobby          Phase = "LOBBY"           // Waiting for players to join
	PhaseWordSubmission Phase = "WORD_SUBMISSION" // Every player submits one candidate word
	PhaseDrawing        Phase = "DRAWING"         // Players take turns adding to the canvas
	PhaseVoting         Phase = "VOTING"          // Everyone votes for a suspect
	PhaseGameOver       Phase = "GAME_OVER"       // Winner decided, waiting for reset
)

// String returns the string representation of the phase
func (p Phase) String() string {
	return string(p)
}

// InProgress reports whether a game is running (roles or submissions exist).
func (p Phase) InProgress() bool {
	return p == PhaseWordSubmission || p == PhaseDrawing || p == PhaseVoting
}

// CanTransitionTo checks if a transition from current phase to target phase is valid
func (p Phase) CanTransitionTo(target Phase) bool {
	validTransitions := map[Phase][]Phase{
		PhaseLobby:          {PhaseWordSubmission},
		PhaseWordSubmission: {PhaseDrawing, PhaseLobby},
		PhaseDrawing:        {PhaseVoting, PhaseGameOver, PhaseLobby},
		PhaseVoting:         {PhaseGameOver, PhaseLobby},
		PhaseGameOver:       {PhaseLobby},
	}

	for _, phase := range validTransitions[p] {
		if phase == target {
			return true
		}
	}
	return false
}
