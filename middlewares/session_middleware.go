package middlewares

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/IzzulGod/dynamenu-ai/session"
	"github.com/IzzulGod/dynamenu-ai/utils"
)

// RequireSession memvalidasi header X-Session-ID untuk endpoint customer dan
// menaruh session id di context.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.GetHeader(session.HeaderName)
		if !session.Validate(sessionID) {
			utils.RespondError(c, http.StatusUnauthorized, errors.New("session ID tidak valid atau hilang"))
			c.Abort()
			return
		}
		c.Set("session_id", sessionID)
		c.Next()
	}
}
