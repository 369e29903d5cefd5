package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dtroode/gophspace-server/internal/api/http/response"
	"github.com/dtroode/gophspace-server/internal/logger"
	"github.com/dtroode/gophspace-server/internal/model"
	"github.com/dtroode/gophspace-server/internal/service"
)

// MessageService defines message log operations.
type MessageService interface {
	Post(ctx context.Context, spaceID int64, author, text string) (model.Message, error)
	List(ctx context.Context, spaceID int64, userID string, q service.ListQuery) ([]model.Message, error)
	Get(ctx context.Context, spaceID, messageID int64, userID string) (model.Message, error)
	Delete(ctx context.Context, spaceID, messageID int64, userID string) error
}

// Message handles message endpoints of a space.
type Message struct {
	messages       MessageService
	contextManager ContextManager
	logger         *logger.Logger
}

// NewMessage creates a new Message handler.
func NewMessage(messages MessageService, contextManager ContextManager, logger *logger.Logger) *Message {
	return &Message{
		messages:       messages,
		contextManager: contextManager,
		logger:         logger,
	}
}

type postMessageRequest struct {
	Message string `json:"message"`
}

type postMessageResponse struct {
	ID  int64  `json:"id"`
	URI string `json:"uri"`
}

type messageResponse struct {
	ID      int64  `json:"id"`
	Author  string `json:"author"`
	Message string `json:"message"`
	Time    string `json:"time"`
	URI     string `json:"uri"`
}

type messagesResponse struct {
	Messages []messageResponse `json:"messages"`
}

func newMessageResponse(m model.Message) messageResponse {
	return messageResponse{
		ID:      m.ID,
		Author:  m.Author,
		Message: m.Text,
		Time:    m.CreatedAt.UTC().Format(time.RFC3339Nano),
		URI:     messageURI(m.SpaceID, m.ID),
	}
}

// Post appends a message to the space.
func (h *Message) Post(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.contextManager.GetUserIDFromContext(r.Context())

	spaceID, err := pathID(r, "spaceID")
	if err != nil {
		response.WriteError(w, err)
		return
	}

	var req postMessageRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.WriteError(w, err)
		return
	}

	msg, err := h.messages.Post(r.Context(), spaceID, userID, req.Message)
	if err != nil {
		fail(w, h.logger, "Message handler: post failed", err, "space_id", spaceID)
		return
	}

	uri := messageURI(spaceID, msg.ID)
	w.Header().Set("Location", uri)
	response.WriteJSON(w, http.StatusCreated, postMessageResponse{ID: msg.ID, URI: uri})
}

// List returns messages in a time window.
func (h *Message) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.contextManager.GetUserIDFromContext(r.Context())

	spaceID, err := pathID(r, "spaceID")
	if err != nil {
		response.WriteError(w, err)
		return
	}

	var q service.ListQuery
	if q.Since, err = queryTime(r, "since"); err != nil {
		response.WriteError(w, err)
		return
	}
	if q.Until, err = queryTime(r, "until"); err != nil {
		response.WriteError(w, err)
		return
	}
	if q.Limit, err = queryInt(r, "limit"); err != nil {
		response.WriteError(w, err)
		return
	}

	msgs, err := h.messages.List(r.Context(), spaceID, userID, q)
	if err != nil {
		fail(w, h.logger, "Message handler: list failed", err, "space_id", spaceID)
		return
	}

	resp := messagesResponse{Messages: make([]messageResponse, 0, len(msgs))}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, newMessageResponse(m))
	}
	response.WriteJSON(w, http.StatusOK, resp)
}

// Get returns one message.
func (h *Message) Get(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.contextManager.GetUserIDFromContext(r.Context())

	spaceID, err := pathID(r, "spaceID")
	if err != nil {
		response.WriteError(w, err)
		return
	}
	messageID, err := pathID(r, "messageID")
	if err != nil {
		response.WriteError(w, err)
		return
	}

	msg, err := h.messages.Get(r.Context(), spaceID, messageID, userID)
	if err != nil {
		fail(w, h.logger, "Message handler: get failed", err, "space_id", spaceID, "message_id", messageID)
		return
	}

	response.WriteJSON(w, http.StatusOK, newMessageResponse(msg))
}

// Delete removes a message on behalf of a moderator.
func (h *Message) Delete(w http.ResponseWriter, r *http.Request) {
	userID, _ := h.contextManager.GetUserIDFromContext(r.Context())

	spaceID, err := pathID(r, "spaceID")
	if err != nil {
		response.WriteError(w, err)
		return
	}
	messageID, err := pathID(r, "messageID")
	if err != nil {
		response.WriteError(w, err)
		return
	}

	if err := h.messages.Delete(r.Context(), spaceID, messageID, userID); err != nil {
		fail(w, h.logger, "Message handler: delete failed", err, "space_id", spaceID, "message_id", messageID)
		return
	}

	h.logger.Info("Message handler: message removed",
		"space_id", spaceID,
		"message_id", messageID,
		"moderator", userID)
	w.WriteHeader(http.StatusNoContent)
}
