package domain

import "errors"

// Kind classifies a domain error for the gateway.
type Kind int

const (
	KindInternal     Kind = iota // not a domain rejection
	KindNotFound                 // referenced room or player does not exist
	KindPrecondition             // wrong phase, turn, role or ownership
	KindCapacity                 // room full or not enough players
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "NOT_FOUND"
	case KindPrecondition:
		return "PRECONDITION_FAILED"
	case KindCapacity:
		return "CAPACITY_EXCEEDED"
	default:
		return "INTERNAL"
	}
}

// Error is a rejection produced by the state machine.
type Error struct {
	Kind Kind
	msg  string
}

func (e *Error) Error() string {
	return e.msg
}

func newError(kind Kind, msg string) *Error {
	return &Error{Kind: kind, msg: msg}
}

// Domain errors
var (
	ErrRoomNotFound     = newError(KindNotFound, "room not found")
	ErrPlayerNotFound   = newError(KindNotFound, "player not found")
	ErrRoomFull         = newError(KindCapacity, "room is full")
	ErrNotEnoughPlayers = newError(KindCapacity, "not enough players to start")
	ErrGameInProgress   = newError(KindPrecondition, "game already in progress")
	ErrAlreadyJoined    = newError(KindPrecondition, "player already in room")
	ErrInvalidPhase     = newError(KindPrecondition, "invalid action for current phase")
	ErrNotHost          = newError(KindPrecondition, "only host can perform this action")
	ErrNotYourTurn      = newError(KindPrecondition, "not your turn")
	ErrAlreadySubmitted = newError(KindPrecondition, "already submitted a word")
	ErrAlreadyGuessed   = newError(KindPrecondition, "already guessed")
	ErrCannotVoteSelf   = newError(KindPrecondition, "cannot vote for yourself")
	ErrInvalidCandidate = newError(KindPrecondition, "invalid vote target")
	ErrEmptyWord        = newError(KindPrecondition, "word cannot be empty")
	ErrEmptyMessage     = newError(KindPrecondition, "message cannot be empty")
	ErrEmptyDrawing     = newError(KindPrecondition, "drawing cannot be empty")
	ErrStrokeLimit      = newError(KindPrecondition, "no strokes left this turn")
	ErrStaleAction      = newError(KindPrecondition, "turn has already advanced")
	ErrInvalidSettings  = newError(KindPrecondition, "invalid settings")
)

// KindOf reports the kind of err, looking through wrapping.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindInternal
}
