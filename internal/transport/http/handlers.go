package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"

	"imposterartist/internal/app"
	"imposterartist/internal/domain"
)

// qrSize is the edge length of invite QR codes in pixels
const qrSize = 256

// Response is a standard API response
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *ErrorInfo  `json:"error,omitempty"`
}

// ErrorInfo contains error details
type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// GetRoomResponse is the response for getting room info
type GetRoomResponse struct {
	RoomCode    string `json:"roomCode"`
	PlayerCount int    `json:"playerCount"`
	Phase       string `json:"phase"`
	CanJoin     bool   `json:"canJoin"`
	InviteLink  string `json:"inviteLink"`
}

// RoomExistsResponse is the response for checking if room exists
type RoomExistsResponse struct {
	Exists bool `json:"exists"`
}

// HealthResponse is the response for health check
type HealthResponse struct {
	Status string `json:"status"`
}

// StatsResponse is the response for stats endpoint
type StatsResponse struct {
	ActiveRooms  int `json:"activeRooms"`
	TotalPlayers int `json:"totalPlayers"`
}

// handleGetRoom handles GET /api/rooms/:roomCode
func (s *Server) handleGetRoom(c *gin.Context) {
	session, ok := s.lookupRoom(c)
	if !ok {
		return
	}

	s.sendSuccess(c, &GetRoomResponse{
		RoomCode:    session.RoomCode(),
		PlayerCount: session.PlayerCount(),
		Phase:       string(session.Phase()),
		CanJoin:     session.CanJoin() == nil,
		InviteLink:  s.inviteLink(c, session.RoomCode()),
	})
}

// handleRoomExists handles GET /api/rooms/:roomCode/exists
func (s *Server) handleRoomExists(c *gin.Context) {
	_, err := s.store.Get(strings.TrimSpace(c.Param("roomCode")))
	s.sendSuccess(c, &RoomExistsResponse{Exists: err == nil})
}

// handleRoomQR handles GET /api/rooms/:roomCode/qr with a PNG of the invite link
func (s *Server) handleRoomQR(c *gin.Context) {
	session, ok := s.lookupRoom(c)
	if !ok {
		return
	}

	png, err := qrcode.Encode(s.inviteLink(c, session.RoomCode()), qrcode.Medium, qrSize)
	if err != nil {
		s.logger.Error("qr encode failed", "roomCode", session.RoomCode(), "error", err)
		s.sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		return
	}

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/png", png)
}

// handleHealth handles GET /api/health
func (s *Server) handleHealth(c *gin.Context) {
	s.sendSuccess(c, &HealthResponse{Status: "ok"})
}

// handleStats handles GET /api/stats
func (s *Server) handleStats(c *gin.Context) {
	s.sendSuccess(c, &StatsResponse{
		ActiveRooms:  s.store.Count(),
		TotalPlayers: s.store.TotalPlayers(),
	})
}

// lookupRoom resolves the :roomCode parameter, writing the error response
// itself when the room is missing
func (s *Server) lookupRoom(c *gin.Context) (*app.Session, bool) {
	roomCode := strings.TrimSpace(c.Param("roomCode"))
	if roomCode == "" {
		s.sendError(c, http.StatusBadRequest, "MISSING_ROOM_CODE", "Room code is required")
		return nil, false
	}

	session, err := s.store.Get(roomCode)
	if err != nil {
		if errors.Is(err, domain.ErrRoomNotFound) {
			s.sendError(c, http.StatusNotFound, "ROOM_NOT_FOUND", "Room not found")
		} else {
			s.sendError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Internal server error")
		}
		return nil, false
	}
	return session, true
}

// inviteLink builds the join URL for a room, preferring the configured
// public URL over the request host
func (s *Server) inviteLink(c *gin.Context, roomCode string) string {
	base := strings.TrimRight(s.config.Server.PublicURL, "/")
	if base == "" {
		scheme := "http"
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			scheme = "https"
		}
		base = scheme + "://" + c.Request.Host
	}
	return base + "/join/" + roomCode
}

// sendSuccess sends a successful JSON response
func (s *Server) sendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, &Response{
		Success: true,
		Data:    data,
	})
}

// sendError sends an error JSON response
func (s *Server) sendError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, &Response{
		Success: false,
		Error: &ErrorInfo{
			Code:    code,
			Message: message,
		},
	})
}
