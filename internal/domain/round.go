package domain

// Turn identifies one drawing turn within a game
type Turn struct {
	Round int `json:"round"`
	Index int `json:"index"`
}

// CurrentTurn returns the room's turn pointer
func (r *Room) CurrentTurn() Turn {
	return Turn{Round: r.Round, Index: r.CurrentTurnIndex}
}

// CurrentPlayerID returns the ID of the player whose turn it is to draw,
// or "" outside the drawing phase.
func (r *Room) CurrentPlayerID() string {
	if r.Phase != PhaseDrawing || r.CurrentTurnIndex >= len(r.Players) {
		return ""
	}
	return r.Players[r.CurrentTurnIndex].ID
}

// SubmitDrawing records the current player's contribution and passes the turn
func (r *Room) SubmitDrawing(playerID, imageData string) error {
	return r.submitDrawing(playerID, imageData, nil)
}

// SubmitDrawingForTurn is SubmitDrawing for a drawing produced off the room
// lock: it is rejected with ErrStaleAction if the turn has moved on since
// the caller read it.
func (r *Room) SubmitDrawingForTurn(playerID, imageData string, turn Turn) error {
	return r.submitDrawing(playerID, imageData, &turn)
}

func (r *Room) submitDrawing(playerID, imageData string, expected *Turn) error {
	if r.Phase != PhaseDrawing {
		return ErrInvalidPhase
	}
	if expected != nil && *expected != r.CurrentTurn() {
		return ErrStaleAction
	}

	current := r.player(r.CurrentPlayerID())
	if current == nil || current.ID != playerID {
		return ErrNotYourTurn
	}
	if imageData == "" {
		return ErrEmptyDrawing
	}

	r.Drawings = append(r.Drawings, Drawing{
		PlayerID:  playerID,
		Round:     r.Round,
		ImageData: imageData,
		Timestamp: r.now().UnixMilli(),
	})
	current.ActionsTaken = 0

	r.CurrentTurnIndex++
	if r.CurrentTurnIndex >= len(r.Players) {
		r.completeRound()
	}

	return nil
}

// completeRound wraps the turn pointer and starts voting after the last round
func (r *Room) completeRound() {
	r.CurrentTurnIndex = 0
	r.Round++
	if r.Round > r.MaxRounds {
		r.Phase = PhaseVoting
		r.Votes = make(map[string]string)
	}
}

// RecordStroke counts one live stroke against the current player's turn
func (r *Room) RecordStroke(playerID string) error {
	if r.Phase != PhaseDrawing {
		return ErrInvalidPhase
	}

	current := r.player(r.CurrentPlayerID())
	if current == nil || current.ID != playerID {
		return ErrNotYourTurn
	}
	if current.ActionsTaken >= r.Settings.StrokesPerTurn {
		return ErrStrokeLimit
	}

	current.ActionsTaken++
	return nil
}

// ForceVote lets the host skip the rest of a stalled drawing phase
func (r *Room) ForceVote(requesterID string) error {
	if !r.IsHost(requesterID) {
		return ErrNotHost
	}
	if r.Phase != PhaseDrawing {
		return ErrInvalidPhase
	}

	r.Phase = PhaseVoting
	r.CurrentTurnIndex = 0
	r.Votes = make(map[string]string)

	return nil
}
