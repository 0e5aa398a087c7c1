package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/roozanaryal/TwitterClone-sub000/internal/auth"
	"github.com/roozanaryal/TwitterClone-sub000/internal/util"
)

// AuthMiddleware resolves the viewer and rejects the request with 401 when
// there is none.
func AuthMiddleware(resolver auth.IdentityResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, err := resolver.Resolve(c.Request)
		if err != nil {
			util.RespondWithError(c, err)
			return
		}
		util.SetUserID(c, userID)
		c.Next()
	}
}
