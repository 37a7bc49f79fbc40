package ws

import (
	"encoding/json"
	"errors"

	"imposterartist/internal/domain"
)

// action binds a client message type to its handler and failure text
type action struct {
	handle  func(c *Client, payload json.RawMessage) (interface{}, error)
	failure func(err error) string
	async   bool
}

// fixed returns a failure func that always yields msg
func fixed(msg string) func(error) string {
	return func(error) string { return msg }
}

var actions map[MessageType]action

func init() {
	actions = map[MessageType]action{
		MsgCreateRoom:     {handle: (*Client).createRoom, failure: createFailure},
		MsgJoinRoom:       {handle: (*Client).joinRoom, failure: joinFailure},
		MsgStartGame:      {handle: (*Client).startGame, failure: startFailure},
		MsgSubmitWord:     {handle: (*Client).submitWord, failure: fixed(FailInvalidSubmission)},
		MsgSubmitDrawing:  {handle: (*Client).submitDrawing, failure: fixed(FailInvalidDrawing)},
		MsgSubmitMessage:  {handle: (*Client).submitMessage, failure: fixed(FailSendMessage)},
		MsgSubmitVote:     {handle: (*Client).submitVote, failure: fixed(FailInvalidVote)},
		MsgForceVote:      {handle: (*Client).forceVote, failure: fixed(FailForceVote)},
		MsgResetGame:      {handle: (*Client).resetGame, failure: fixed(FailResetNotHost)},
		MsgSubmitGuess:    {handle: (*Client).submitGuess, failure: fixed(FailInvalidGuess)},
		MsgDrawStroke:     {handle: (*Client).drawStroke, failure: fixed(FailInvalidDrawing)},
		MsgUpdateSettings: {handle: (*Client).updateSettings, failure: settingsFailure},
		MsgSuggestWord:    {handle: (*Client).suggestWord, failure: fixed(FailSuggestWord), async: true},
		MsgAIDrawing:      {handle: (*Client).aiDrawing, failure: fixed(FailInvalidDrawing), async: true},
		MsgAIChat:         {handle: (*Client).aiChat, failure: fixed(FailSendMessage), async: true},
		MsgAIVote:         {handle: (*Client).aiVote, failure: fixed(FailInvalidVote), async: true},
	}
}

func createFailure(err error) string {
	if errors.Is(err, errAlreadyInRoom) {
		return FailAlreadyInRoom
	}
	return FailCreateRoom
}

func joinFailure(err error) string {
	switch {
	case errors.Is(err, errAlreadyInRoom):
		return FailAlreadyInRoom
	case errors.Is(err, domain.ErrGameInProgress):
		return FailGameInProgress
	case errors.Is(err, domain.ErrRoomFull):
		return FailRoomFull
	default:
		return FailRoomNotFound
	}
}

func startFailure(err error) string {
	if errors.Is(err, domain.ErrNotEnoughPlayers) {
		return FailNotEnoughPlayers
	}
	return FailStartNotHost
}

func settingsFailure(err error) string {
	if errors.Is(err, domain.ErrInvalidSettings) || errors.Is(err, errBadPayload) {
		return FailInvalidSettings
	}
	return FailSettingsNotHost
}

// createRoom handles create_room
func (c *Client) createRoom(raw json.RawMessage) (interface{}, error) {
	var p CreateRoomPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}

	c.roomMu.Lock()
	defer c.roomMu.Unlock()

	if c.session != nil {
		return nil, errAlreadyInRoom
	}

	session, player, room, err := c.store.Create(c.id, cleanName(p.PlayerName), p.Avatar, c)
	if err != nil {
		return nil, err
	}
	c.session = session

	return &CreateRoomData{RoomCode: session.RoomCode(), Player: player, Room: room}, nil
}

// joinRoom handles join_room
func (c *Client) joinRoom(raw json.RawMessage) (interface{}, error) {
	var p JoinRoomPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}

	c.roomMu.Lock()
	defer c.roomMu.Unlock()

	if c.session != nil {
		return nil, errAlreadyInRoom
	}

	session, err := c.store.Get(p.RoomCode)
	if err != nil {
		return nil, err
	}

	player, room, err := session.Join(c.id, cleanName(p.PlayerName), p.Avatar, c)
	if err != nil {
		return nil, err
	}
	c.session = session

	return &JoinRoomData{Player: player, Room: room}, nil
}

// startGame handles start_game
func (c *Client) startGame(raw json.RawMessage) (interface{}, error) {
	var p RoomPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}
	return nil, session.StartGame(c.id)
}

// submitWord handles submit_word
func (c *Client) submitWord(raw json.RawMessage) (interface{}, error) {
	var p SubmitWordPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}
	return nil, session.SubmitWord(c.id, p.Word)
}

// submitDrawing handles submit_drawing
func (c *Client) submitDrawing(raw json.RawMessage) (interface{}, error) {
	var p SubmitDrawingPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}
	return nil, session.SubmitDrawing(c.id, p.DrawingData)
}

// submitMessage handles submit_message
func (c *Client) submitMessage(raw json.RawMessage) (interface{}, error) {
	var p SubmitMessagePayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}
	_, err = session.SubmitMessage(c.id, p.Message)
	return nil, err
}

// submitVote handles submit_vote
func (c *Client) submitVote(raw json.RawMessage) (interface{}, error) {
	var p SubmitVotePayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}
	return nil, session.SubmitVote(c.id, p.CandidateID)
}

// forceVote handles force_vote
func (c *Client) forceVote(raw json.RawMessage) (interface{}, error) {
	var p RoomPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}
	return nil, session.ForceVote(c.id)
}

// resetGame handles reset_game
func (c *Client) resetGame(raw json.RawMessage) (interface{}, error) {
	var p RoomPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}
	return nil, session.ResetGame(c.id)
}

// submitGuess handles submit_guess
func (c *Client) submitGuess(raw json.RawMessage) (interface{}, error) {
	var p SubmitGuessPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}
	outcome, err := session.SubmitGuess(c.id, p.Guess)
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

// drawStroke handles draw_stroke
func (c *Client) drawStroke(raw json.RawMessage) (interface{}, error) {
	var p DrawStrokePayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}
	return nil, session.RelayStroke(c.id, p.Stroke)
}

// updateSettings handles update_settings
func (c *Client) updateSettings(raw json.RawMessage) (interface{}, error) {
	var p UpdateSettingsPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}
	return nil, session.UpdateSettings(c.id, p.SettingsPatch)
}

// suggestWord handles suggest_word
func (c *Client) suggestWord(raw json.RawMessage) (interface{}, error) {
	var p RoomPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.generatorContext()
	defer cancel()

	word, err := session.SuggestWord(ctx, c.id)
	if err != nil {
		return nil, err
	}
	return &SuggestWordData{Word: word}, nil
}

// aiDrawing handles ai_drawing
func (c *Client) aiDrawing(raw json.RawMessage) (interface{}, error) {
	var p RoomPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.generatorContext()
	defer cancel()

	return nil, session.AssistDrawing(ctx, c.id)
}

// aiChat handles ai_chat
func (c *Client) aiChat(raw json.RawMessage) (interface{}, error) {
	var p RoomPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.generatorContext()
	defer cancel()

	_, err = session.AssistChat(ctx, c.id)
	return nil, err
}

// aiVote handles ai_vote
func (c *Client) aiVote(raw json.RawMessage) (interface{}, error) {
	var p RoomPayload
	if err := decode(raw, &p); err != nil {
		return nil, err
	}
	session, err := c.sessionFor(p.RoomCode)
	if err != nil {
		return nil, err
	}

	ctx, cancel := c.generatorContext()
	defer cancel()

	candidateID, err := session.AssistVote(ctx, c.id)
	if err != nil {
		return nil, err
	}
	return &VoteData{CandidateID: candidateID}, nil
}
