package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IzzulGod/dynamenu-ai/session"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

// NewSession -> bootstrap identitas sesi untuk tab baru. Client menyimpan
// token ini per tab dan mengirimkannya lewat header X-Session-ID.
func NewSession(c *gin.Context) {
	utils.RespondJSON(c, http.StatusOK, "Sesi dibuat", gin.H{
		"session_id": session.Generate(),
	})
}
