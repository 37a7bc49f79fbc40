package domain

import (
	"encoding/json"
	"fmt"
)

// Role is a player's role in a game. The zero value is RoleUnassigned.
type Role int

const (
	RoleUnassigned Role = iota
	RoleArtist
	RoleImposter
)

// String returns the string representation of the role
func (r Role) String() string {
	switch r {
	case RoleArtist:
		return "ARTIST"
	case RoleImposter:
		return "IMPOSTER"
	default:
		return ""
	}
}

// IsImposter returns true if this role is the imposter
func (r Role) IsImposter() bool {
	return r == RoleImposter
}

// Assigned returns true once word selection has handed out roles
func (r Role) Assigned() bool {
	return r != RoleUnassigned
}

// MarshalJSON encodes an unassigned role as null.
func (r Role) MarshalJSON() ([]byte, error) {
	if r == RoleUnassigned {
		return []byte("null"), nil
	}
	return json.Marshal(r.String())
}

// UnmarshalJSON accepts null, "ARTIST" or "IMPOSTER".
func (r *Role) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*r = RoleUnassigned
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "":
		*r = RoleUnassigned
	case "ARTIST":
		*r = RoleArtist
	case "IMPOSTER":
		*r = RoleImposter
	default:
		return fmt.Errorf("unknown role %q", s)
	}
	return nil
}

// Winner names the winning side of a finished game
type Winner string

const (
	WinnerNone     Winner = ""
	WinnerArtists  Winner = "ARTISTS"
	WinnerImposter Winner = "IMPOSTER"
)

// MarshalJSON encodes WinnerNone as null.
func (w Winner) MarshalJSON() ([]byte, error) {
	if w == WinnerNone {
		return []byte("null"), nil
	}
	return json.Marshal(string(w))
}
