package ginserver

import (
	"net/http"
	"strings"

	gin "github.com/gin-gonic/gin"
)

// userIDHeader carries the authenticated user's id, set by the gateway in
// front of this service. The engine trusts it and does no token validation
// of its own.
const userIDHeader = "X-User-ID"

func requireUser(c *gin.Context) (string, bool) {
	userID := strings.TrimSpace(c.GetHeader(userIDHeader))
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + userIDHeader + " header"})
		return "", false
	}
	return userID, true
}
