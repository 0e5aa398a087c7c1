package util

import (
	"github.com/gin-gonic/gin"
	apperrors "github.com/roozanaryal/TwitterClone-sub000/internal/errors"
)

// UserIDKey is the gin context key holding the authenticated viewer id.
const UserIDKey = "user_id"

// SetUserID records the authenticated viewer on the request.
func SetUserID(c *gin.Context, userID string) {
	c.Set(UserIDKey, userID)
}

// GetUserIDFromContext extracts the user ID from the Gin context.
// If the user is not authenticated, it responds with 401 and returns false.
func GetUserIDFromContext(c *gin.Context) (string, bool) {
	userID := c.GetString(UserIDKey)
	if userID == "" {
		RespondWithError(c, apperrors.Unauthorized("authentication required"))
		return "", false
	}
	return userID, true
}
