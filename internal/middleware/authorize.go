package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"

	"restaurantadmin/internal/apperr"
	"restaurantadmin/internal/models"
)

// RequireRoles must run after Auth.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	roleSet := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		roleSet[role] = struct{}{}
	}

	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			abortWith(c, errLoginRequired)
			return
		}

		if _, ok := roleSet[user.Role]; !ok {
			abortWith(c, apperr.Forbidden(fmt.Sprintf("Role: %s is not allowed to access this resource", user.Role)))
			return
		}

		c.Next()
	}
}
