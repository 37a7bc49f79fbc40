package generator

import (
	"context"
	"fmt"
	"slices"

	"imposterartist/internal/domain"
)

var (
	artistLines = []string{
		"I think I know who's faking it.",
		"That last line was a bit suspicious...",
		"Pretty sure we're all drawing the same thing.",
		"Someone is just copying the others.",
		"Mine is obvious if you know the word.",
	}

	imposterLines = []string{
		"I think I know who's faking it.",
		"Hmm, that could be a few things.",
		"Nice lines everyone, very clear.",
		"Someone is just copying the others.",
		"I'm keeping my eye on the quiet ones.",
	}

	votingLines = []string{
		"Time to decide.",
		"I'm going with my gut on this one.",
		"That drawing gave them away.",
	}
)

// PhraseBook writes canned chat lines that never leak the word
type PhraseBook struct {
	rng domain.Randomizer
}

// NewPhraseBook creates a PhraseBook. A nil rng uses domain.DefaultRandomizer.
func NewPhraseBook(rng domain.Randomizer) *PhraseBook {
	if rng == nil {
		rng = domain.DefaultRandomizer
	}
	return &PhraseBook{rng: rng}
}

// GenerateChat picks a line that suits the player's role and the phase
func (b *PhraseBook) GenerateChat(ctx context.Context, req ChatRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	lines := artistLines
	switch {
	case req.Phase == domain.PhaseVoting.String():
		lines = votingLines
	case req.IsImposter:
		lines = imposterLines
	}

	return lines[b.rng.Intn(len(lines))], nil
}

// SuggestVote picks one of the candidates other than the voter
func (b *PhraseBook) SuggestVote(ctx context.Context, req VoteRequest) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	candidates := slices.DeleteFunc(slices.Clone(req.Candidates), func(id string) bool {
		return id == req.VoterID
	})
	if len(candidates) == 0 {
		return "", fmt.Errorf("suggest vote for %s: %w", req.VoterID, ErrNoCandidates)
	}

	return candidates[b.rng.Intn(len(candidates))], nil
}
