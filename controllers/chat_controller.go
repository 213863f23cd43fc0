package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexa-backend/services"
)

type chatPayload struct {
	Message string `json:"message"`
}

type ChatController struct {
	Chat *services.ChatService
}

func NewChatController(chat *services.ChatService) *ChatController {
	return &ChatController{Chat: chat}
}

// PostMessage handles POST /api/chat (public).
func (ctrl *ChatController) PostMessage(c *gin.Context) {
	var payload chatPayload
	// a malformed body reads as an empty message; the bot answers with help
	_ = c.ShouldBindJSON(&payload)
	c.JSON(http.StatusOK, gin.H{"reply": ctrl.Chat.Reply(payload.Message)})
}
