package domain

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshot_RedactsUntilGameOver(t *testing.T) {
	t.Parallel()
	r := drawingWith(t, 0, 0, "alice", "bob", "carol")
	_, err := r.SubmitGuess("bob", "w-bob")
	require.NoError(t, err)

	snap := r.Snapshot()
	assert.Nil(t, snap.Word)
	assert.Nil(t, snap.ImposterID)
	assert.Equal(t, "alice", snap.CurrentPlayerID)
	for _, p := range snap.Players {
		assert.Equal(t, RoleUnassigned, p.Role)
	}
	for _, s := range snap.WordSubmissions {
		assert.Empty(t, s.Word)
	}
	require.Len(t, snap.Guesses, 1)
	assert.Empty(t, snap.Guesses[0].Guess)
	assert.True(t, snap.Guesses[0].IsCorrect)

	raw, err := json.Marshal(snap)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "w-bob")
	assert.NotContains(t, string(raw), "w-carol")
}

func TestSnapshot_RevealsAtGameOver(t *testing.T) {
	t.Parallel()
	r := votingWith(t, 0, "alice", "bob", "carol")
	require.NoError(t, r.ResolveVotes())

	snap := r.Snapshot()
	require.NotNil(t, snap.Word)
	assert.Equal(t, r.Word, *snap.Word)
	require.NotNil(t, snap.ImposterID)
	assert.Equal(t, "alice", *snap.ImposterID)
	assert.Equal(t, RoleImposter, snap.Players[0].Role)
	require.NotNil(t, snap.WinReason)
	assert.Equal(t, "w-bob", snap.WordSubmissions[1].Word)
}

func TestSnapshot_IsDetached(t *testing.T) {
	t.Parallel()
	r := drawingWith(t, 0, 0, "alice", "bob")
	require.NoError(t, r.SubmitDrawing("alice", png))
	_, err := r.SubmitMessage("bob", "hello")
	require.NoError(t, err)

	snap := r.Snapshot()
	before := *snap
	before.Players = append([]Player(nil), snap.Players...)
	before.Drawings = append([]Drawing(nil), snap.Drawings...)
	before.ChatMessages = append([]ChatMessage(nil), snap.ChatMessages...)

	r.Players[0].Name = "Renamed"
	r.Drawings[0].ImageData = "changed"
	r.ChatMessages[0].Text = "changed"
	require.NoError(t, r.SubmitDrawing("bob", png))

	if diff := cmp.Diff(before.Players, snap.Players); diff != "" {
		t.Errorf("players changed under snapshot (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before.Drawings, snap.Drawings); diff != "" {
		t.Errorf("drawings changed under snapshot (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(before.ChatMessages, snap.ChatMessages); diff != "" {
		t.Errorf("chat changed under snapshot (-want +got):\n%s", diff)
	}
}

func TestReveal(t *testing.T) {
	t.Parallel()
	r := lobbyWith(t, nil, "alice", "bob")
	_, err := r.Reveal("alice")
	assert.ErrorIs(t, err, ErrInvalidPhase)

	r = drawingWith(t, 1, 0, "alice", "bob", "carol")

	imposter, err := r.Reveal("bob")
	require.NoError(t, err)
	assert.Equal(t, WordReveal{Role: RoleImposter, IsImposter: true}, imposter)

	artist, err := r.Reveal("carol")
	require.NoError(t, err)
	require.NotNil(t, artist.Word)
	assert.Equal(t, "w-alice", *artist.Word)
	assert.Equal(t, RoleArtist, artist.Role)

	_, err = r.Reveal("mallory")
	assert.ErrorIs(t, err, ErrPlayerNotFound)
}

func TestRoleJSON(t *testing.T) {
	t.Parallel()
	raw, err := json.Marshal(map[string]Role{"a": RoleUnassigned, "b": RoleArtist, "c": RoleImposter})
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":null,"b":"ARTIST","c":"IMPOSTER"}`, string(raw))

	var back map[string]Role
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, RoleImposter, back["c"])
	assert.Equal(t, RoleUnassigned, back["a"])
}
