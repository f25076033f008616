package middlewares

import (
	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/teamtask-app/utils"
)

// WebSocketAuthMiddleware memvalidasi token handshake SEBELUM upgrade.
// Token hilang/tidak valid -> 401, koneksi ditolak, tidak ada join room.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("user_id", claims.UserID)
		c.Set("role", claims.Role)
		c.Next()
	}
}
