package domain

// DefaultAvatar is used when a client does not pick one
const DefaultAvatar = "👤"

// Palette holds the player colors in assignment order.
var Palette = []string{
	"#ef4444", "#3b82f6", "#22c55e", "#eab308",
	"#a855f7", "#ec4899", "#14b8a6", "#f97316",
}

// Player represents a player in a room
type Player struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Avatar           string `json:"avatar"`
	Color            string `json:"color"`
	Role             Role   `json:"role"`
	HasSubmittedWord bool   `json:"hasSubmittedWord"`
	IsLocked         bool   `json:"isLocked"`
	HasGuessed       bool   `json:"hasGuessed"`
	ActionsTaken     int    `json:"actionsTaken"`
	VotedOut         bool   `json:"votedOut"`
}

// NewPlayer creates a new player with the given identity and color
func NewPlayer(id, name, avatar, color string) *Player {
	if avatar == "" {
		avatar = DefaultAvatar
	}
	return &Player{
		ID:     id,
		Name:   name,
		Avatar: avatar,
		Color:  color,
	}
}

// ResetForNewGame clears everything a game put on the player
func (p *Player) ResetForNewGame() {
	p.Role = RoleUnassigned
	p.HasSubmittedWord = false
	p.IsLocked = false
	p.HasGuessed = false
	p.ActionsTaken = 0
	p.VotedOut = false
}

// pickColor returns the first palette color nobody uses, falling back to
// the first palette color once the palette is exhausted.
func pickColor(players []*Player) string {
	used := make(map[string]bool, len(players))
	for _, p := range players {
		used[p.Color] = true
	}
	for _, c := range Palette {
		if !used[c] {
			return c
		}
	}
	return Palette[0]
}
