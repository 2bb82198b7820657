package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dasgroupllc/archivebase/pkg/response"
)

// AuthMiddleware validates `Authorization: Bearer <key>` against the
// configured API key. An empty apiKey disables auth entirely (dev mode);
// the caller is expected to have warned about that at startup.
func AuthMiddleware(apiKey string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if apiKey == "" {
			c.Next()
			return
		}

		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, response.Err("Unauthorized"))
			return
		}
		c.Next()
	}
}
