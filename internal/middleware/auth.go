package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"restaurantadmin/internal/apperr"
	"restaurantadmin/internal/cache"
	"restaurantadmin/internal/models"
)

const (
	AccessCookie  = "access_token"
	RefreshCookie = "refresh_token"

	currentUserKey = "current_user"
	userIDKey      = "user_id"
)

var errLoginRequired = apperr.Unauthorized("Please login to access this resource")

type AccessVerifier interface {
	ParseAccess(token string) (string, error)
}

type SessionReader interface {
	Get(ctx context.Context, userID string) (models.User, error)
}

// Auth admits requests carrying a valid access token whose user still has a
// session snapshot. The snapshot becomes the request's current user.
func Auth(tokens AccessVerifier, sessions SessionReader) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := accessToken(c)
		if token == "" {
			abortWith(c, errLoginRequired)
			return
		}

		userID, err := tokens.ParseAccess(token)
		if err != nil {
			abortWith(c, err)
			return
		}

		user, err := sessions.Get(c.Request.Context(), userID)
		if err != nil {
			if errors.Is(err, cache.ErrSessionNotFound) {
				abortWith(c, errLoginRequired)
				return
			}
			abortWith(c, err)
			return
		}

		c.Set(currentUserKey, user)
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

func accessToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessCookie); err == nil && cookie != "" {
		return cookie
	}
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return ""
}

func CurrentUser(c *gin.Context) (models.User, bool) {
	v, ok := c.Get(currentUserKey)
	if !ok {
		return models.User{}, false
	}
	user, ok := v.(models.User)
	return user, ok
}

func UserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
