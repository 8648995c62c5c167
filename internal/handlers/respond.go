package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"restaurantadmin/internal/apperr"
)

// fail writes the uniform error body. Unclassified errors are logged since
// their detail never reaches the client.
func (h HandlerSet) fail(c *gin.Context, err error) {
	appErr := apperr.Normalize(err)
	if appErr.Status >= http.StatusInternalServerError {
		h.log.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Str("request_id", c.GetString("request_id")).
			Msg("request failed")
	}
	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.Status, gin.H{
		"success": false,
		"message": appErr.Message,
	})
}

// bind decodes a JSON body, mapping decode failures to a 400.
func bind(c *gin.Context, dst any) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return apperr.Wrap(http.StatusBadRequest, "Invalid request body", err)
	}
	return nil
}
