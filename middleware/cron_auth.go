package middleware

import (
	"crypto/subtle"
	"strings"

	"github.com/gin-gonic/gin"

	"moodmap-backend/utils"
)

// CronAuthMiddleware guards the cleanup endpoint with a shared secret
// supplied as a bearer token by the external cron runner. Comparison is
// constant time.
func CronAuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || secret == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
			utils.RespondWithUnauthorized(c, "Invalid or missing cron secret")
			c.Abort()
			return
		}
		c.Next()
	}
}
