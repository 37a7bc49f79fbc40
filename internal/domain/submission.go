package domain

// WordSubmission is one player's candidate for the secret word
type WordSubmission struct {
	PlayerID string `json:"playerId"`
	Word     string `json:"word"`
}

// Drawing is one turn's contribution to the shared canvas
type Drawing struct {
	PlayerID  string `json:"playerId"`
	Round     int    `json:"round"`
	ImageData string `json:"data"`
	Timestamp int64  `json:"timestamp"` // unix millis
}
