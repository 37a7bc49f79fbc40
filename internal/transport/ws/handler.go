package ws

import (
	"log/slog"
	"net/http"
	"slices"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"imposterartist/internal/app"
)

// Limits bounds what a single connection may send
type Limits struct {
	MaxMessageBytes int64
	RatePerSecond   float64
	Burst           int
}

// DefaultLimits returns limits that fit a base64 PNG drawing
func DefaultLimits() Limits {
	return Limits{
		MaxMessageBytes: 512 * 1024,
		RatePerSecond:   10,
		Burst:           20,
	}
}

// Handler handles WebSocket connections
type Handler struct {
	store    *app.Store
	upgrader websocket.Upgrader
	limits   Limits
	logger   *slog.Logger
}

// NewHandler creates a new WebSocket handler. An origin list containing "*"
// accepts any origin.
func NewHandler(store *app.Store, allowedOrigins []string, limits Limits, logger *slog.Logger) *Handler {
	return &Handler{
		store: store,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		limits: limits,
		logger: logger,
	}
}

// ServeHTTP upgrades the request and runs the connection until it closes.
// Rooms are created and joined over the socket, not the URL.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}

	client := NewClient(conn, h.store, uuid.NewString(), h.limits, h.logger)

	h.logger.Info("websocket connected", "playerID", client.GetPlayerID(), "remoteAddr", r.RemoteAddr)

	client.Run()

	h.logger.Info("websocket disconnected", "playerID", client.GetPlayerID())
}

// originChecker allows requests without an Origin header and those whose
// origin is listed
func originChecker(allowed []string) func(r *http.Request) bool {
	if len(allowed) == 0 || slices.Contains(allowed, "*") {
		return func(*http.Request) bool { return true }
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || slices.Contains(allowed, origin)
	}
}
