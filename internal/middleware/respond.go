package middleware

import (
	"github.com/gin-gonic/gin"

	"restaurantadmin/internal/apperr"
)

func abortWith(c *gin.Context, err error) {
	appErr := apperr.Normalize(err)
	c.AbortWithStatusJSON(appErr.Status, gin.H{
		"success": false,
		"message": appErr.Message,
	})
}
