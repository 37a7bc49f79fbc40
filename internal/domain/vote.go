package domain

import "fmt"

// VoteCount is one candidate's line in the tally
type VoteCount struct {
	PlayerID   string   `json:"playerId"`
	Name       string   `json:"name"`
	Votes      int      `json:"votes"`
	VotedBy    []string `json:"votedBy"` // voter IDs
	IsImposter bool     `json:"isImposter"`
}

// SubmitVote records or overwrites a vote. Once every player has voted the
// votes are resolved in the same call.
func (r *Room) SubmitVote(voterID, candidateID string) error {
	if voterID == candidateID {
		return ErrCannotVoteSelf
	}
	if r.Phase != PhaseVoting {
		return ErrInvalidPhase
	}
	if !r.HasPlayer(voterID) {
		return ErrPlayerNotFound
	}
	if !r.HasPlayer(candidateID) {
		return ErrInvalidCandidate
	}

	r.Votes[voterID] = candidateID

	if r.allVoted() {
		r.resolve()
	}

	return nil
}

// ResolveVotes ends the game from the current votes. A tie at the top,
// including no votes at all, lets the impostor survive.
func (r *Room) ResolveVotes() error {
	if r.Phase != PhaseVoting {
		return ErrInvalidPhase
	}
	r.resolve()
	return nil
}

func (r *Room) resolve() {
	ejected, ok := topCandidate(r.Tally())

	switch {
	case !ok:
		r.finish(WinnerImposter, "Vote ended in a tie. Imposter survives!")
	case ejected.PlayerID == r.ImposterID:
		r.markVotedOut(ejected.PlayerID)
		r.finish(WinnerArtists, "The Imposter was voted out!")
	default:
		r.markVotedOut(ejected.PlayerID)
		r.finish(WinnerImposter, fmt.Sprintf("Wrong player voted out! %s was innocent.", ejected.Name))
	}
}

// Tally counts the votes per present player, in turn order
func (r *Room) Tally() []VoteCount {
	counts := make([]VoteCount, 0, len(r.Players))
	byID := make(map[string]int, len(r.Players))

	for i, p := range r.Players {
		counts = append(counts, VoteCount{
			PlayerID:   p.ID,
			Name:       p.Name,
			VotedBy:    make([]string, 0),
			IsImposter: p.ID == r.ImposterID,
		})
		byID[p.ID] = i
	}

	// Walk voters in turn order so VotedBy is deterministic.
	for _, voter := range r.Players {
		candidate, ok := r.Votes[voter.ID]
		if !ok {
			continue
		}
		if i, ok := byID[candidate]; ok {
			counts[i].Votes++
			counts[i].VotedBy = append(counts[i].VotedBy, voter.ID)
		}
	}

	return counts
}

// topCandidate returns the single candidate with strictly the most votes
func topCandidate(counts []VoteCount) (VoteCount, bool) {
	var top VoteCount
	best, atBest := 0, 0

	for _, c := range counts {
		switch {
		case c.Votes > best:
			top, best, atBest = c, c.Votes, 1
		case c.Votes == best:
			atBest++
		}
	}

	if best == 0 || atBest != 1 {
		return VoteCount{}, false
	}
	return top, true
}

// allVoted reports whether every present player has a recorded vote
func (r *Room) allVoted() bool {
	if len(r.Players) == 0 {
		return false
	}
	for _, p := range r.Players {
		if _, ok := r.Votes[p.ID]; !ok {
			return false
		}
	}
	return true
}

// discardVotesInvolving drops a departed player's ballot and every ballot
// cast for them.
func (r *Room) discardVotesInvolving(playerID string) {
	delete(r.Votes, playerID)
	for voter, candidate := range r.Votes {
		if candidate == playerID {
			delete(r.Votes, voter)
		}
	}
}

func (r *Room) markVotedOut(playerID string) {
	if p := r.player(playerID); p != nil {
		p.VotedOut = true
	}
}
