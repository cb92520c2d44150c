// internal/server/handlers/messages.go
package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"staydesk/internal/server/database"
	"staydesk/internal/server/models"
	"staydesk/pkg/api"
)

type MessageHandler struct {
	store Store
}

func NewMessageHandler(store Store) *MessageHandler {
	return &MessageHandler{store: store}
}

// List returns every message the caller sent or received, newest first.
func (h *MessageHandler) List(c *gin.Context) {
	userID := c.GetString(contextUserID)

	messages, err := h.store.GetMessagesForUser(c.Request.Context(), userID)
	if err != nil {
		log.Printf("Error loading messages for %s: %v", userID, err)
		abort(c, http.StatusInternalServerError, "could not load messages")
		return
	}
	c.JSON(http.StatusOK, models.MessagesToAPI(messages))
}

// Conversation returns the messages between the caller and :userId, oldest
// first.
func (h *MessageHandler) Conversation(c *gin.Context) {
	userID := c.GetString(contextUserID)
	otherID := c.Param("userId")

	if _, err := h.store.GetUser(c.Request.Context(), otherID); errors.Is(err, database.ErrUserNotFound) {
		abort(c, http.StatusNotFound, err.Error())
		return
	} else if err != nil {
		log.Printf("Error loading user %s: %v", otherID, err)
		abort(c, http.StatusInternalServerError, "could not load conversation")
		return
	}

	messages, err := h.store.GetConversation(c.Request.Context(), userID, otherID)
	if err != nil {
		log.Printf("Error loading conversation %s/%s: %v", userID, otherID, err)
		abort(c, http.StatusInternalServerError, "could not load conversation")
		return
	}
	c.JSON(http.StatusOK, models.MessagesToAPI(messages))
}

func (h *MessageHandler) Create(c *gin.Context) {
	userID := c.GetString(contextUserID)

	var req api.CreateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, "invalid request body")
		return
	}

	recipientID := req.RecipientID.String()
	switch {
	case strings.TrimSpace(req.Body) == "":
		abort(c, http.StatusBadRequest, "message body is required")
		return
	case recipientID == "":
		abort(c, http.StatusBadRequest, "recipient is required")
		return
	case recipientID == userID:
		abort(c, http.StatusBadRequest, "cannot message yourself")
		return
	}

	if _, err := h.store.GetUser(c.Request.Context(), recipientID); errors.Is(err, database.ErrUserNotFound) {
		abort(c, http.StatusNotFound, "recipient not found")
		return
	} else if err != nil {
		log.Printf("Error loading recipient %s: %v", recipientID, err)
		abort(c, http.StatusInternalServerError, "could not send message")
		return
	}

	msg, err := h.store.CreateMessage(c.Request.Context(), userID, recipientID, req.Body)
	if errors.Is(err, database.ErrUserNotFound) {
		abort(c, http.StatusNotFound, "recipient not found")
		return
	} else if err != nil {
		log.Printf("Error saving message from %s: %v", userID, err)
		abort(c, http.StatusInternalServerError, "could not send message")
		return
	}

	log.Printf("Message %s sent from %s to %s", msg.ID, userID, recipientID)
	c.JSON(http.StatusCreated, msg.ToAPI())
}
