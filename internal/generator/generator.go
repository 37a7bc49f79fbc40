// Package generator provides the word, drawing and chat helpers a player can
// ask for instead of acting by hand. Every generator may block and honors
// context cancellation.
package generator

import (
	"context"
	"errors"
)

// ErrNoCandidates is returned when a vote suggestion has nobody to pick
var ErrNoCandidates = errors.New("no vote candidates")

// WordGenerator suggests a candidate secret word
type WordGenerator interface {
	SuggestWord(ctx context.Context) (string, error)
}

// DrawingRequest describes the turn a drawing is generated for
type DrawingRequest struct {
	Word       string // empty for the impostor
	IsImposter bool
	Round      int
	Color      string // player color, "#rrggbb"
}

// DrawingGenerator renders a drawing as a data URL
type DrawingGenerator interface {
	GenerateDrawing(ctx context.Context, req DrawingRequest) (string, error)
}

// ChatRequest describes who is speaking and what they are allowed to know
type ChatRequest struct {
	PlayerName string
	Word       string // empty for the impostor
	IsImposter bool
	Phase      string
}

// VoteRequest lists who a player may vote for
type VoteRequest struct {
	VoterID    string
	Candidates []string
	IsImposter bool
}

// ChatGenerator writes chat lines and vote suggestions
type ChatGenerator interface {
	GenerateChat(ctx context.Context, req ChatRequest) (string, error)
	SuggestVote(ctx context.Context, req VoteRequest) (string, error)
}
