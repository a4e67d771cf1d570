package middleware

import (
	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"amazona/internal/auth"
)

const claimsKey = "user"

// CurrentUser returns the claims stored by IsAuth.
func CurrentUser(c *gin.Context) (*auth.Claims, bool) {
	value, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := value.(*auth.Claims)
	return claims, ok && claims != nil
}

// CurrentUserID returns the authenticated user's id.
func CurrentUserID(c *gin.Context) (primitive.ObjectID, bool) {
	claims, ok := CurrentUser(c)
	if !ok {
		return primitive.NilObjectID, false
	}
	id, err := claims.UserID()
	if err != nil {
		return primitive.NilObjectID, false
	}
	return id, true
}

// SetCurrentUser is used by tests and by routes that authenticate without a
// bearer header.
func SetCurrentUser(c *gin.Context, claims *auth.Claims) {
	c.Set(claimsKey, claims)
}
