package server

import (
	"context"
	"errors"
	"net/http"

	"gamehub/internal/logging"
	"gamehub/internal/privategames"

	"github.com/gin-gonic/gin"
)

type gameURI struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

// createPrivateGameRequest bounds maxPlayers by the INTEGER max_players
// column.
type createPrivateGameRequest struct {
	Passwd     string `json:"passwd" binding:"required,passwd"`
	MaxPlayers *int   `json:"maxPlayers" binding:"required,min=0,max=2147483647"`
}

type joinPrivateGameRequest struct {
	Passwd string `json:"passwd"`
}

var createPrivateGameMessages = bindMessages{
	"Passwd": {
		"required": "passwd is required",
		"passwd":   "passwd must be 1-128 printable characters",
	},
	"MaxPlayers": {
		"required": "maxPlayers is required",
		"min":      "maxPlayers must not be negative",
		"max":      "maxPlayers is out of range",
	},
}

func (s *Server) handleListPrivateGames(c *gin.Context) {
	games, err := s.games.ListPrivateGames(c.Request.Context())
	if err != nil {
		s.writeGameError(c, err)
		return
	}
	if games == nil {
		games = []privategames.Summary{}
	}
	writeJSON(c, http.StatusOK, games)
}

func (s *Server) handleCreatePrivateGame(c *gin.Context) {
	var req createPrivateGameRequest
	if !bindJSON(c, &req, createPrivateGameMessages, "invalid private game") {
		return
	}
	created, err := s.games.CreatePrivateGame(c.Request.Context(), req.Passwd, *req.MaxPlayers)
	if err != nil {
		s.writeGameError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, created)
}

func (s *Server) handleJoinPrivateGame(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	var req joinPrivateGameRequest
	if !bindJSON(c, &req, nil, "invalid join request") {
		return
	}
	link, found, err := s.games.JoinPrivateGame(c.Request.Context(), uri.ID, req.Passwd)
	if err != nil {
		s.writeGameError(c, err)
		return
	}
	if !found {
		writeError(c, http.StatusNotFound, "private game not found")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"link": link})
}

func (s *Server) handleDeletePrivateGame(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	deleted, found, err := s.games.DeletePrivateGame(c.Request.Context(), uri.ID)
	if err != nil {
		s.writeGameError(c, err)
		return
	}
	if !found {
		writeError(c, http.StatusNotFound, "private game not found")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deleted": deleted})
}

func (s *Server) handlePlayers(c *gin.Context) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	players, found, err := s.games.Players(c.Request.Context(), uri.ID)
	if err != nil {
		s.writeGameError(c, err)
		return
	}
	if !found {
		writeError(c, http.StatusNotFound, "private game not found")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"currentPlayers": players})
}

func (s *Server) handleClaimSeat(c *gin.Context) {
	s.handleSeat(c, s.games.ClaimSeat)
}

func (s *Server) handleReleaseSeat(c *gin.Context) {
	s.handleSeat(c, s.games.ReleaseSeat)
}

func (s *Server) handleSeat(c *gin.Context, adjust func(context.Context, uint) (int, bool, error)) {
	var uri gameURI
	if !bindURI(c, &uri) {
		return
	}
	players, found, err := adjust(c.Request.Context(), uri.ID)
	if err != nil {
		s.writeGameError(c, err)
		return
	}
	if !found {
		writeError(c, http.StatusNotFound, "private game not found")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"id": uri.ID, "currentPlayers": players})
}

// writeGameError maps service failures to status codes. Data-access failures
// are logged with their operation and hidden from the client.
func (s *Server) writeGameError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, privategames.ErrInvalidMaxPlayers):
		writeError(c, http.StatusBadRequest, privategames.ErrInvalidMaxPlayers.Error())
	case errors.Is(err, privategames.ErrGameFull):
		writeError(c, http.StatusConflict, privategames.ErrGameFull.Error())
	case errors.Is(err, privategames.ErrNoSeatsTaken):
		writeError(c, http.StatusConflict, privategames.ErrNoSeatsTaken.Error())
	case errors.Is(err, privategames.ErrGatewayUnavailable):
		writeError(c, http.StatusServiceUnavailable, "game server unavailable")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		writeError(c, http.StatusServiceUnavailable, "request canceled")
	default:
		op, _ := privategames.OpOf(err)
		logging.Error(logging.FromContext(c.Request.Context(), s.logger), "private game request failed", err, "op", string(op))
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
