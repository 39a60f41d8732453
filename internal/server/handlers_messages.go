package server

import (
	"errors"
	"net/http"

	"gamehub/internal/db"
	"gamehub/internal/logging"
	"gamehub/internal/messages"

	"github.com/gin-gonic/gin"
)

type messageURI struct {
	ID uint `uri:"id" binding:"required,min=1"`
}

type conversationURI struct {
	ID      uint `uri:"id" binding:"required,min=1"`
	OtherID uint `uri:"otherId" binding:"required,min=1"`
}

type sendMessageRequest struct {
	SenderID   uint   `json:"senderId" binding:"required,min=1"`
	ReceiverID uint   `json:"receiverId" binding:"required,min=1,nefield=SenderID"`
	Content    string `json:"content" binding:"required,content"`
}

type editMessageRequest struct {
	Content string `json:"content" binding:"required,content"`
}

type mailboxQuery struct {
	Box string `form:"box" binding:"omitempty,oneof=inbox sent"`
}

var contentMessages = map[string]string{
	"required": messages.ErrEmptyContent.Error(),
	"content":  "content must be 1-2000 characters",
}

var sendMessageMessages = bindMessages{
	"SenderID":   {"required": messages.ErrMissingUser.Error(), "min": messages.ErrMissingUser.Error()},
	"ReceiverID": {"required": messages.ErrMissingUser.Error(), "min": messages.ErrMissingUser.Error(), "nefield": messages.ErrSelfMessage.Error()},
	"Content":    contentMessages,
}

var editMessageMessages = bindMessages{
	"Content": contentMessages,
}

type messageList struct {
	Messages   []db.Message   `json:"messages"`
	Pagination paginationData `json:"pagination"`
}

func (s *Server) handleSendMessage(c *gin.Context) {
	if !s.requireMessages(c) {
		return
	}
	var req sendMessageRequest
	if !bindJSON(c, &req, sendMessageMessages, "invalid message") {
		return
	}
	msg, err := s.messages.Send(c.Request.Context(), req.SenderID, req.ReceiverID, req.Content)
	if err != nil {
		s.writeMessageError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, msg)
}

func (s *Server) handleGetMessage(c *gin.Context) {
	if !s.requireMessages(c) {
		return
	}
	var uri messageURI
	if !bindURI(c, &uri) {
		return
	}
	msg, found, err := s.messages.Get(c.Request.Context(), uri.ID)
	s.writeMessage(c, msg, found, err)
}

func (s *Server) handleEditMessage(c *gin.Context) {
	if !s.requireMessages(c) {
		return
	}
	var uri messageURI
	if !bindURI(c, &uri) {
		return
	}
	var req editMessageRequest
	if !bindJSON(c, &req, editMessageMessages, "invalid message") {
		return
	}
	msg, found, err := s.messages.Edit(c.Request.Context(), uri.ID, req.Content)
	s.writeMessage(c, msg, found, err)
}

func (s *Server) handleMarkRead(c *gin.Context) {
	if !s.requireMessages(c) {
		return
	}
	var uri messageURI
	if !bindURI(c, &uri) {
		return
	}
	msg, found, err := s.messages.MarkRead(c.Request.Context(), uri.ID)
	s.writeMessage(c, msg, found, err)
}

func (s *Server) handleDeleteMessage(c *gin.Context) {
	if !s.requireMessages(c) {
		return
	}
	var uri messageURI
	if !bindURI(c, &uri) {
		return
	}
	deleted, err := s.messages.Delete(c.Request.Context(), uri.ID)
	if err != nil {
		s.writeMessageError(c, err)
		return
	}
	if !deleted {
		writeError(c, http.StatusNotFound, "message not found")
		return
	}
	writeJSON(c, http.StatusOK, gin.H{"deleted": true})
}

// handleUserMessages lists a user's inbox, or sent messages with ?box=sent.
func (s *Server) handleUserMessages(c *gin.Context) {
	if !s.requireMessages(c) {
		return
	}
	var uri messageURI
	if !bindURI(c, &uri) {
		return
	}
	var query mailboxQuery
	if !bindQuery(c, &query, "box must be inbox or sent") {
		return
	}
	page, perPage := parsePagination(c, defaultPerPage, maxPerPage)
	list := s.messages.Inbox
	if query.Box == "sent" {
		list = s.messages.Sent
	}
	rows, total, err := list(c.Request.Context(), uri.ID, messages.Page{Number: page, PerPage: perPage})
	if err != nil {
		s.writeMessageError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, messageList{Messages: rows, Pagination: buildPagination(page, perPage, total)})
}

func (s *Server) handleConversation(c *gin.Context) {
	if !s.requireMessages(c) {
		return
	}
	var uri conversationURI
	if !bindURI(c, &uri) {
		return
	}
	page, perPage := parsePagination(c, defaultPerPage, maxPerPage)
	rows, total, err := s.messages.Conversation(c.Request.Context(), uri.ID, uri.OtherID, messages.Page{Number: page, PerPage: perPage})
	if err != nil {
		s.writeMessageError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, messageList{Messages: rows, Pagination: buildPagination(page, perPage, total)})
}

func (s *Server) requireMessages(c *gin.Context) bool {
	if s.messages == nil {
		writeError(c, http.StatusServiceUnavailable, messages.ErrUnavailable.Error())
		return false
	}
	return true
}

func (s *Server) writeMessage(c *gin.Context, msg *db.Message, found bool, err error) {
	if err != nil {
		s.writeMessageError(c, err)
		return
	}
	if !found {
		writeError(c, http.StatusNotFound, "message not found")
		return
	}
	writeJSON(c, http.StatusOK, msg)
}

func (s *Server) writeMessageError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, messages.ErrUnavailable):
		writeError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, messages.ErrEmptyContent),
		errors.Is(err, messages.ErrContentTooLong),
		errors.Is(err, messages.ErrSelfMessage),
		errors.Is(err, messages.ErrMissingUser):
		writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, messages.ErrUnknownUser):
		writeError(c, http.StatusUnprocessableEntity, err.Error())
	default:
		logging.Error(logging.FromContext(c.Request.Context(), s.logger), "message request failed", err)
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}
