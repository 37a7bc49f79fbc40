package ws

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imposterartist/internal/app"
	"imposterartist/internal/domain"
)

// frame is any server frame, payload left raw
type frame struct {
	Type      string          `json:"type"`
	RequestID string          `json:"requestId"`
	Payload   json.RawMessage `json:"payload"`
}

type response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error"`
	Data    json.RawMessage `json:"data"`
}

// peer is a test websocket client that keeps every non-response frame
type peer struct {
	t      *testing.T
	conn   *websocket.Conn
	seq    atomic.Int64
	events []frame
}

type harness struct {
	store  *app.Store
	server *httptest.Server
}

func newHarness(t *testing.T, limits Limits) *harness {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	opts := app.DefaultOptions()
	opts.Randomizer = zeroRandom{}
	store := app.NewStore(opts, logger)
	server := httptest.NewServer(NewHandler(store, []string{"*"}, limits, logger))
	t.Cleanup(func() {
		server.Close()
		store.Close()
	})
	return &harness{store: store, server: server}
}

// zeroRandom always picks the first option
type zeroRandom struct{}

func (zeroRandom) Intn(int) int { return 0 }

func (h *harness) dial(t *testing.T) *peer {
	t.Helper()
	url := "ws" + strings.TrimPrefix(h.server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return &peer{t: t, conn: conn}
}

func (p *peer) read() frame {
	p.t.Helper()
	require.NoError(p.t, p.conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	var f frame
	require.NoError(p.t, p.conn.ReadJSON(&f))
	return f
}

// call sends one action and waits for its response
func (p *peer) call(msgType MessageType, payload interface{}) response {
	p.t.Helper()
	id := fmt.Sprintf("r%d", p.seq.Add(1))
	raw, err := json.Marshal(payload)
	require.NoError(p.t, err)
	require.NoError(p.t, p.conn.WriteJSON(ClientMessage{Type: msgType, RequestID: id, Payload: raw}))

	for {
		f := p.read()
		if f.Type != string(MsgResponse) || f.RequestID != id {
			p.events = append(p.events, f)
			continue
		}
		var r response
		require.NoError(p.t, json.Unmarshal(f.Payload, &r))
		return r
	}
}

// await returns the first frame of a type, reading ahead if needed
func (p *peer) await(eventType domain.EventType) frame {
	p.t.Helper()
	for i, f := range p.events {
		if f.Type == string(eventType) {
			p.events = append(p.events[:i], p.events[i+1:]...)
			return f
		}
	}
	for {
		f := p.read()
		if f.Type == string(eventType) {
			return f
		}
		p.events = append(p.events, f)
	}
}

// eventPayload decodes the payload of a room event frame
func eventPayload(t *testing.T, f frame, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(f.Payload, v))
}

func createRoom(t *testing.T, p *peer, name string) string {
	t.Helper()
	r := p.call(MsgCreateRoom, CreateRoomPayload{PlayerName: name})
	require.True(t, r.Success, r.Error)
	var data struct {
		RoomCode string        `json:"roomCode"`
		Player   domain.Player `json:"player"`
	}
	require.NoError(t, json.Unmarshal(r.Data, &data))
	require.Len(t, data.RoomCode, 6)
	assert.Equal(t, name, data.Player.Name)
	return data.RoomCode
}

func joinRoom(t *testing.T, p *peer, code, name string) domain.Player {
	t.Helper()
	r := p.call(MsgJoinRoom, JoinRoomPayload{RoomCode: code, PlayerName: name})
	require.True(t, r.Success, r.Error)
	var data JoinRoomData
	require.NoError(t, json.Unmarshal(r.Data, &data))
	return data.Player
}

func TestGateway_CreateAndJoin(t *testing.T) {
	t.Parallel()
	h := newHarness(t, DefaultLimits())
	host, guest := h.dial(t), h.dial(t)

	code := createRoom(t, host, "Alice")
	player := joinRoom(t, guest, code, "Bob")
	assert.Equal(t, domain.Palette[1], player.Color)

	update := host.await(domain.EventRoomUpdate)
	var snap domain.RoomSnapshot
	eventPayload(t, update, &snap)
	assert.Equal(t, code, snap.RoomCode)

	r := h.dial(t).call(MsgJoinRoom, JoinRoomPayload{RoomCode: "ABCDEF", PlayerName: "Carol"})
	assert.False(t, r.Success)
	assert.Equal(t, FailRoomNotFound, r.Error)

	r = host.call(MsgJoinRoom, JoinRoomPayload{RoomCode: code, PlayerName: "Alice again"})
	assert.Equal(t, FailAlreadyInRoom, r.Error)
	r = host.call(MsgCreateRoom, "Alice")
	assert.Equal(t, FailAlreadyInRoom, r.Error)
}

func TestGateway_JoinRejections(t *testing.T) {
	t.Parallel()
	h := newHarness(t, DefaultLimits())
	host, guest := h.dial(t), h.dial(t)
	code := createRoom(t, host, "Alice")

	r := guest.call(MsgStartGame, RoomPayload{RoomCode: code})
	assert.Equal(t, FailStartNotHost, r.Error, "not a member yet")

	r = host.call(MsgStartGame, RoomPayload{RoomCode: code})
	assert.Equal(t, FailNotEnoughPlayers, r.Error)

	joinRoom(t, guest, code, "Bob")
	r = guest.call(MsgStartGame, RoomPayload{RoomCode: code})
	assert.Equal(t, FailStartNotHost, r.Error)

	r = host.call(MsgStartGame, code)
	require.True(t, r.Success, r.Error)

	r = h.dial(t).call(MsgJoinRoom, JoinRoomPayload{RoomCode: code, PlayerName: "Carol"})
	assert.Equal(t, FailGameInProgress, r.Error)
}

func TestGateway_WordRevealAndDrawing(t *testing.T) {
	t.Parallel()
	h := newHarness(t, DefaultLimits())
	host, guest := h.dial(t), h.dial(t)
	code := createRoom(t, host, "Alice")
	bob := joinRoom(t, guest, code, "Bob")

	require.True(t, host.call(MsgStartGame, RoomPayload{RoomCode: code}).Success)

	r := host.call(MsgSubmitWord, SubmitWordPayload{RoomCode: code, Word: ""})
	assert.Equal(t, FailInvalidSubmission, r.Error)

	require.True(t, host.call(MsgSubmitWord, SubmitWordPayload{RoomCode: code, Word: "cat"}).Success)
	require.True(t, guest.call(MsgSubmitWord, SubmitWordPayload{RoomCode: code, Word: "dog"}).Success)

	// The first player is the impostor and the word is Bob's.
	var hostReveal, guestReveal domain.WordReveal
	eventPayload(t, host.await(domain.EventWordReveal), &hostReveal)
	eventPayload(t, guest.await(domain.EventWordReveal), &guestReveal)
	assert.True(t, hostReveal.IsImposter)
	assert.Nil(t, hostReveal.Word)
	require.NotNil(t, guestReveal.Word)
	assert.Equal(t, "dog", *guestReveal.Word)

	r = guest.call(MsgSubmitDrawing, SubmitDrawingPayload{RoomCode: code, DrawingData: "data:image/png;base64,AAAA"})
	assert.Equal(t, FailInvalidDrawing, r.Error)

	r = host.call(MsgDrawStroke, DrawStrokePayload{RoomCode: code, Stroke: json.RawMessage(`{"x":1,"y":2}`)})
	require.True(t, r.Success, r.Error)
	var stroke domain.DrawStrokePayload
	eventPayload(t, guest.await(domain.EventDrawStroke), &stroke)
	assert.JSONEq(t, `{"x":1,"y":2}`, string(stroke.Stroke))

	r = host.call(MsgSubmitDrawing, SubmitDrawingPayload{RoomCode: code, DrawingData: "data:image/png;base64,AAAA"})
	require.True(t, r.Success, r.Error)
	var drawing domain.NewDrawingPayload
	eventPayload(t, guest.await(domain.EventNewDrawing), &drawing)
	assert.Equal(t, 1, drawing.Round)

	r = guest.call(MsgAIDrawing, RoomPayload{RoomCode: code})
	require.True(t, r.Success, r.Error)
	eventPayload(t, host.await(domain.EventNewDrawing), &drawing)
	eventPayload(t, host.await(domain.EventNewDrawing), &drawing)
	assert.Equal(t, bob.ID, drawing.PlayerID)
	assert.True(t, strings.HasPrefix(drawing.Data, "data:image/png;base64,"))
}

func TestGateway_GuessVoteAndReset(t *testing.T) {
	t.Parallel()
	h := newHarness(t, DefaultLimits())
	host, guest, third := h.dial(t), h.dial(t), h.dial(t)
	code := createRoom(t, host, "Alice")
	joinRoom(t, guest, code, "Bob")
	carol := joinRoom(t, third, code, "Carol")

	require.True(t, host.call(MsgStartGame, RoomPayload{RoomCode: code}).Success)
	for i, p := range []*peer{host, guest, third} {
		r := p.call(MsgSubmitWord, SubmitWordPayload{RoomCode: code, Word: fmt.Sprintf("word%d", i)})
		require.True(t, r.Success, r.Error)
	}

	r := guest.call(MsgSubmitGuess, SubmitGuessPayload{RoomCode: code, Guess: "word1"})
	require.True(t, r.Success, r.Error)
	var outcome app.GuessOutcome
	require.NoError(t, json.Unmarshal(r.Data, &outcome))
	assert.True(t, outcome.IsCorrect)

	r = guest.call(MsgSubmitGuess, SubmitGuessPayload{RoomCode: code, Guess: "again"})
	assert.Equal(t, FailInvalidGuess, r.Error)

	r = guest.call(MsgForceVote, RoomPayload{RoomCode: code})
	assert.Equal(t, FailForceVote, r.Error)
	require.True(t, host.call(MsgForceVote, RoomPayload{RoomCode: code}).Success)

	r = host.call(MsgSubmitVote, SubmitVotePayload{RoomCode: code, CandidateID: "nobody"})
	assert.Equal(t, FailInvalidVote, r.Error)

	r = guest.call(MsgAIVote, RoomPayload{RoomCode: code})
	require.True(t, r.Success, r.Error)
	var vote VoteData
	require.NoError(t, json.Unmarshal(r.Data, &vote))
	assert.NotEmpty(t, vote.CandidateID)
	host.await(domain.EventVoteCast)

	r = guest.call(MsgResetGame, RoomPayload{RoomCode: code})
	assert.Equal(t, FailResetNotHost, r.Error)
	require.True(t, host.call(MsgResetGame, RoomPayload{RoomCode: code}).Success)

	r = third.call(MsgSubmitMessage, SubmitMessagePayload{RoomCode: code, Message: "gg"})
	require.True(t, r.Success, r.Error)
	var msg domain.ChatMessage
	eventPayload(t, host.await(domain.EventNewMessage), &msg)
	assert.Equal(t, carol.ID, msg.SenderID)
	assert.Equal(t, "gg", msg.Text)
}

func TestGateway_OtherRoomRejected(t *testing.T) {
	t.Parallel()
	h := newHarness(t, DefaultLimits())
	a, b := h.dial(t), h.dial(t)
	codeA := createRoom(t, a, "Alice")
	codeB := createRoom(t, b, "Bob")
	require.NotEqual(t, codeA, codeB)

	r := a.call(MsgSubmitMessage, SubmitMessagePayload{RoomCode: codeB, Message: "hi"})
	assert.Equal(t, FailSendMessage, r.Error)

	r = a.call(MsgResetGame, codeB)
	assert.Equal(t, FailResetNotHost, r.Error)
}

func TestGateway_Settings(t *testing.T) {
	t.Parallel()
	h := newHarness(t, DefaultLimits())
	host, guest := h.dial(t), h.dial(t)
	code := createRoom(t, host, "Alice")
	joinRoom(t, guest, code, "Bob")

	r := guest.call(MsgUpdateSettings, map[string]interface{}{"roomCode": code, "maxRounds": 2})
	assert.Equal(t, FailSettingsNotHost, r.Error)

	r = host.call(MsgUpdateSettings, map[string]interface{}{"roomCode": code, "maxRounds": 99})
	assert.Equal(t, FailInvalidSettings, r.Error)

	r = host.call(MsgUpdateSettings, map[string]interface{}{"roomCode": code, "maxRounds": 2, "strokesPerTurn": 4})
	require.True(t, r.Success, r.Error)

	session, err := h.store.Get(code)
	require.NoError(t, err)
	snap := session.Snapshot()
	assert.Equal(t, 2, snap.MaxRounds)
	assert.Equal(t, 4, snap.Settings.StrokesPerTurn)

	r = host.call(MsgSuggestWord, RoomPayload{RoomCode: code})
	require.True(t, r.Success, r.Error)
	var word SuggestWordData
	require.NoError(t, json.Unmarshal(r.Data, &word))
	assert.NotEmpty(t, word.Word)
}

func TestGateway_DisconnectLeavesRoom(t *testing.T) {
	t.Parallel()
	h := newHarness(t, DefaultLimits())
	host, guest := h.dial(t), h.dial(t)
	code := createRoom(t, host, "Alice")
	bob := joinRoom(t, guest, code, "Bob")

	require.NoError(t, guest.conn.Close())

	var left domain.PlayerLeftPayload
	eventPayload(t, host.await(domain.EventPlayerLeft), &left)
	assert.Equal(t, bob.ID, left.PlayerID)

	require.NoError(t, host.conn.Close())
	require.Eventually(t, func() bool { return h.store.Count() == 0 }, 2*time.Second, 10*time.Millisecond)

	_, err := h.store.Get(code)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestGateway_RateLimit(t *testing.T) {
	t.Parallel()
	h := newHarness(t, Limits{MaxMessageBytes: 4096, RatePerSecond: 0.001, Burst: 1})
	p := h.dial(t)

	createRoom(t, p, "Alice")
	r := p.call(MsgStartGame, RoomPayload{RoomCode: "123456"})
	assert.Equal(t, FailRateLimited, r.Error)
}

func TestGateway_PingAndUnknown(t *testing.T) {
	t.Parallel()
	h := newHarness(t, DefaultLimits())
	p := h.dial(t)

	require.NoError(t, p.conn.WriteJSON(ClientMessage{Type: MsgPing, RequestID: "p1"}))
	f := p.read()
	assert.Equal(t, string(MsgPong), f.Type)
	assert.Equal(t, "p1", f.RequestID)

	r := p.call("fly_away", RoomPayload{})
	assert.Equal(t, FailUnknownMessageType, r.Error)
}

func TestOriginChecker(t *testing.T) {
	t.Parallel()
	req := func(origin string) *http.Request {
		r := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			r.Header.Set("Origin", origin)
		}
		return r
	}

	open := originChecker([]string{"*"})
	assert.True(t, open(req("https://evil.example.com")))

	listed := originChecker([]string{"https://play.example.com"})
	assert.True(t, listed(req("https://play.example.com")))
	assert.True(t, listed(req("")))
	assert.False(t, listed(req("https://evil.example.com")))
}

func TestPayloadDecoding(t *testing.T) {
	t.Parallel()
	var create CreateRoomPayload
	require.NoError(t, json.Unmarshal([]byte(`"Alice"`), &create))
	assert.Equal(t, "Alice", create.PlayerName)

	require.NoError(t, json.Unmarshal([]byte(`{"playerName":"Bob","avatar":"🐱"}`), &create))
	assert.Equal(t, CreateRoomPayload{PlayerName: "Bob", Avatar: "🐱"}, create)

	var room RoomPayload
	require.NoError(t, json.Unmarshal([]byte(`"123456"`), &room))
	assert.Equal(t, "123456", room.RoomCode)

	var settings UpdateSettingsPayload
	require.NoError(t, json.Unmarshal([]byte(`{"roomCode":"1","maxPlayers":5}`), &settings))
	require.NotNil(t, settings.MaxPlayers)
	assert.Equal(t, 5, *settings.MaxPlayers)
	assert.Nil(t, settings.MaxRounds)

	assert.Equal(t, "Anonymous", cleanName("  "))
	assert.Equal(t, 24, len([]rune(cleanName(strings.Repeat("é", 40)))))
}
