package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"tripmap/internal/models/request_models"
	"tripmap/internal/services"
	"tripmap/pkg/utils"
)

type ChatController struct {
	chatService services.ChatServiceInterface
}

func NewChatController(chatService services.ChatServiceInterface) *ChatController {
	return &ChatController{
		chatService: chatService,
	}
}

func (ch *ChatController) Chat(c *gin.Context) {
	var req request_models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Messages) == 0 && req.Message == "" {
		utils.RespondError(c, http.StatusBadRequest, "messages is required")
		return
	}

	resp, err := ch.chatService.Chat(c.Request.Context(), req)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, resp, "")
}

func (ch *ChatController) Interactions(c *gin.Context) {
	interactions, err := ch.chatService.Interactions(c.Request.Context(), c.Param("id"))
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	utils.RespondSuccess(c, interactions, "")
}
