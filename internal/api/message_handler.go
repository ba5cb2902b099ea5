package api

import (
	"net/http"

	"peakform/trainer-hub/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageHandler exposes direct messaging between users.
type MessageHandler struct {
	messageService service.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messageService service.MessageService) *MessageHandler {
	return &MessageHandler{messageService: messageService}
}

type SendMessageRequest struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required"`
}

// Send delivers a message from the authenticated user to another user.
func (h *MessageHandler) Send(c *gin.Context) {
	var req SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	senderID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	receiverID, err := primitive.ObjectIDFromHex(req.ReceiverID)
	if err != nil {
		respondValidation(c, map[string]string{"receiverId": "invalid id"})
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), senderID, receiverID, req.Content)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusCreated, message)
}

// Conversation pages through the messages exchanged with one other user,
// newest first.
func (h *MessageHandler) Conversation(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	otherID, err := primitive.ObjectIDFromHex(c.Param("userId"))
	if err != nil {
		respondValidation(c, map[string]string{"userId": "invalid id"})
		return
	}

	page := parsePage(c, 50)

	messages, total, err := h.messageService.Conversation(c.Request.Context(), userID, otherID, page)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondList(c, messages, pageMeta(page, total))
}

// MarkRead flags a received message as read.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	messageID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		respondValidation(c, map[string]string{"id": "invalid id"})
		return
	}

	message, err := h.messageService.MarkRead(c.Request.Context(), userID, messageID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, message)
}

// UnreadCount returns how many unread messages the authenticated user has.
func (h *MessageHandler) UnreadCount(c *gin.Context) {
	userID, err := getUserIDFromContext(c)
	if err != nil {
		respondError(c, http.StatusUnauthorized, "Unable to identify user from token")
		return
	}

	count, err := h.messageService.UnreadCount(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respond(c, http.StatusOK, gin.H{"unread": count})
}
