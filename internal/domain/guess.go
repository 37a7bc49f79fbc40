package domain

import (
	"fmt"
	"strings"
)

// Guess is a player's one attempt at naming the secret word
type Guess struct {
	PlayerID  string `json:"playerId"`
	Guess     string `json:"guess"`
	IsCorrect bool   `json:"isCorrect"`
	Timestamp int64  `json:"timestamp"` // unix millis
}

// GuessResult tells the gateway how a guess landed
type GuessResult struct {
	IsCorrect  bool `json:"isCorrect"`
	IsImposter bool `json:"isImposter"`
}

// SubmitGuess records a guess during drawing. A correct guess locks the
// player in; a correct guess by the impostor wins the game on the spot.
func (r *Room) SubmitGuess(playerID, guess string) (GuessResult, error) {
	if r.Phase != PhaseDrawing {
		return GuessResult{}, ErrInvalidPhase
	}

	player := r.player(playerID)
	if player == nil {
		return GuessResult{}, ErrPlayerNotFound
	}
	if player.HasGuessed {
		return GuessResult{}, ErrAlreadyGuessed
	}

	guess = strings.TrimSpace(guess)
	if guess == "" {
		return GuessResult{}, ErrEmptyWord
	}

	result := GuessResult{
		IsCorrect:  strings.EqualFold(guess, r.Word),
		IsImposter: player.ID == r.ImposterID,
	}

	player.HasGuessed = true
	r.Guesses = append(r.Guesses, Guess{
		PlayerID:  playerID,
		Guess:     guess,
		IsCorrect: result.IsCorrect,
		Timestamp: r.now().UnixMilli(),
	})

	if result.IsCorrect {
		player.IsLocked = true
		if result.IsImposter {
			r.finish(WinnerImposter, fmt.Sprintf("%s (Imposter) guessed the word correctly!", player.Name))
		}
	}

	return result, nil
}
