package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IzzulGod/dynamenu-ai/services"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

type TTSController struct {
	TTS *services.TTSService
}

func NewTTSController(tts *services.TTSService) *TTSController {
	return &TTSController{TTS: tts}
}

// Synthesize -> proxy text-to-speech. Di belakang RequireSession dan
// limiter 30 req/menit per sesi.
func (tc *TTSController) Synthesize(c *gin.Context) {
	var body struct {
		Text string `json:"text" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	audio, err := tc.TTS.Synthesize(c.Request.Context(), body.Text)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.Data(http.StatusOK, "audio/mpeg", audio)
}
