package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nexa-backend/services"
)

const SessionCookie = "admin_session"

// RequireServerKey gates the public lead endpoint behind the X-Nexa-Key
// header. An empty configured key leaves the endpoint open.
func RequireServerKey(serverKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if serverKey != "" && c.GetHeader("X-Nexa-Key") != serverKey {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
			return
		}
		c.Next()
	}
}

// RequireAdmin gates admin APIs behind a valid signed session cookie.
func RequireAdmin(sessions *services.SessionService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(SessionCookie)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
			return
		}
		user, ok := sessions.Verify(token)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "unauthorized"})
			return
		}
		c.Set("admin_user", user)
		c.Next()
	}
}
