package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IzzulGod/dynamenu-ai/chat"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

type ChatController struct {
	Gateway *chat.Gateway
}

func NewChatController(gateway *chat.Gateway) *ChatController {
	return &ChatController{Gateway: gateway}
}

// SendMessage -> satu giliran chat dengan asisten. Balasan selalu berupa
// teks bersih tanpa directive; kegagalan provider sudah diturunkan ke
// jawaban kalengan di gateway.
func (cc *ChatController) SendMessage(c *gin.Context) {
	sessionID := c.GetString("session_id")

	var body struct {
		Content string  `json:"content" binding:"required"`
		TableID *string `json:"table_id"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	reply, err := cc.Gateway.SendMessage(c.Request.Context(), sessionID, body.TableID, body.Content)
	if err != nil {
		if errors.Is(err, chat.ErrEmptyMessage) {
			utils.RespondError(c, http.StatusBadRequest, err)
			return
		}
		respondServiceError(c, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Balasan assistant", gin.H{"message": reply})
}

// ListMessages -> log percakapan sesi ini (sudah terlipat duplikatnya)
func (cc *ChatController) ListMessages(c *gin.Context) {
	sessionID := c.GetString("session_id")
	msgs, err := cc.Gateway.ListMessages(sessionID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Riwayat percakapan", msgs)
}
