package ws

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	"imposterartist/internal/app"
	"imposterartist/internal/domain"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period (must be less than pongWait)
	pingPeriod = (pongWait * 9) / 10

	// Size of the send channel buffer
	sendBufferSize = 256

	// Longest player name kept, in runes
	maxNameLength = 24

	defaultPlayerName = "Anonymous"
)

var (
	errAlreadyInRoom = errors.New("connection already in a room")
	errNotInRoom     = errors.New("connection not in that room")
	errBadPayload    = errors.New("invalid payload")
)

// Client is one websocket connection. Its id doubles as the player id in
// whichever room it joins.
type Client struct {
	conn    *websocket.Conn
	store   *app.Store
	id      string
	send    chan []byte
	done    chan struct{}
	limiter *rate.Limiter
	limits  Limits
	logger  *slog.Logger

	mu     sync.Mutex
	closed bool

	roomMu  sync.Mutex
	session *app.Session
}

// NewClient creates a new WebSocket client
func NewClient(conn *websocket.Conn, store *app.Store, id string, limits Limits, logger *slog.Logger) *Client {
	return &Client{
		conn:    conn,
		store:   store,
		id:      id,
		send:    make(chan []byte, sendBufferSize),
		done:    make(chan struct{}),
		limiter: rate.NewLimiter(rate.Limit(limits.RatePerSecond), limits.Burst),
		limits:  limits,
		logger:  logger.With("playerID", id),
	}
}

// GetPlayerID returns the player ID for this client
func (c *Client) GetPlayerID() string {
	return c.id
}

// Send implements app.ClientConnection interface
func (c *Client) Send(message interface{}) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	select {
	case c.send <- data:
		return nil
	default:
		c.logger.Warn("send buffer full, message dropped")
		return nil
	}
}

// Close implements app.ClientConnection interface
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}

	c.closed = true
	close(c.done)
	return c.conn.Close()
}

// Run starts the client's read and write pumps
func (c *Client) Run() {
	go c.writePump()
	c.readPump()
}

// readPump pumps messages from the WebSocket connection
func (c *Client) readPump() {
	defer func() {
		c.leave()
		c.Close()
	}()

	c.conn.SetReadLimit(c.limits.MaxMessageBytes)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Debug("websocket read error", "error", err)
			}
			break
		}

		c.handleMessage(message)
	}
}

// writePump pumps messages from the send channel to the WebSocket connection,
// one frame per message.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.done:
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// leave removes the player from their room after the connection drops,
// deleting the room when it empties.
func (c *Client) leave() {
	c.roomMu.Lock()
	session := c.session
	c.session = nil
	c.roomMu.Unlock()

	if session == nil {
		return
	}

	empty, err := session.Leave(c.id)
	if err != nil {
		c.logger.Debug("leave after disconnect", "roomCode", session.RoomCode(), "error", err)
		return
	}
	if empty {
		c.store.Delete(session.RoomCode())
	}
}

// handleMessage processes an incoming message from the client
func (c *Client) handleMessage(data []byte) {
	var msg ClientMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		c.respond(msg.RequestID, nil, errors.New(FailInvalidMessage))
		return
	}

	if msg.Type == MsgPing {
		reply := NewServerMessage(MsgPong, nil)
		reply.RequestID = msg.RequestID
		c.Send(reply)
		return
	}

	act, ok := actions[msg.Type]
	if !ok {
		c.respond(msg.RequestID, nil, errors.New(FailUnknownMessageType))
		return
	}

	if !c.limiter.Allow() {
		c.logger.Debug("rate limited", "action", msg.Type)
		c.respond(msg.RequestID, nil, errors.New(FailRateLimited))
		return
	}

	run := func() {
		result, err := act.handle(c, msg.Payload)
		if err != nil {
			if unexpected(err) {
				c.logger.Warn("action failed", "action", msg.Type, "error", err)
			} else {
				c.logger.Debug("action rejected", "action", msg.Type, "error", err)
			}
			c.respond(msg.RequestID, nil, errors.New(act.failure(err)))
			return
		}
		c.respond(msg.RequestID, result, nil)
	}

	// Generator-backed actions run off the read loop.
	if act.async {
		go run()
		return
	}
	run()
}

// respond sends the response frame for one request
func (c *Client) respond(requestID string, data interface{}, err error) {
	payload := &ResponsePayload{Success: err == nil, Data: data}
	if err != nil {
		payload.Error = err.Error()
	}

	msg := NewServerMessage(MsgResponse, payload)
	msg.RequestID = requestID
	c.Send(msg)
}

// sessionFor returns the session for roomCode if this connection belongs to it
func (c *Client) sessionFor(roomCode string) (*app.Session, error) {
	c.roomMu.Lock()
	defer c.roomMu.Unlock()

	if c.session == nil || c.session.RoomCode() != roomCode {
		return nil, errNotInRoom
	}
	return c.session, nil
}

// unexpected reports whether err is neither a domain rejection nor a
// malformed or misaddressed request
func unexpected(err error) bool {
	if domain.KindOf(err) != domain.KindInternal {
		return false
	}
	return !errors.Is(err, errBadPayload) && !errors.Is(err, errNotInRoom) && !errors.Is(err, errAlreadyInRoom)
}

// decode unmarshals an action payload
func decode(raw json.RawMessage, v interface{}) error {
	if len(raw) == 0 {
		return errBadPayload
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return errBadPayload
	}
	return nil
}

// cleanName trims a player name and caps its length
func cleanName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return defaultPlayerName
	}
	if runes := []rune(name); len(runes) > maxNameLength {
		name = string(runes[:maxNameLength])
	}
	return name
}

// generatorContext bounds an assist call by the connection's lifetime
func (c *Client) generatorContext() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		select {
		case <-c.done:
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}
