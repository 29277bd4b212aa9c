package middleware

import (
	"errors"

	apiError "compliance-portal/internal/errors"
	"compliance-portal/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Execute the handler first

		// detect any errors
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			var apiErr *apiError.APIError

			// if it's our custom APIError
			if !errors.As(err, &apiErr) {
				apiErr = classify(err)
			}

			logger := LoggerFrom(c)
			if apiErr.Status >= 500 {
				logger.Error("request failed", "status", apiErr.Status, "error", apiErr.Internal)
			} else {
				logger.Info(apiErr.Message, "status", apiErr.Status, "error", apiErr.Internal)
			}

			if c.Writer.Written() {
				return
			}
			c.AbortWithStatusJSON(apiErr.Status, apiErr)
		}
	}
}

// classify maps raw errors that escaped the service layer.
func classify(err error) *apiError.APIError {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apiError.NotFound("Not found", err)
	case errors.Is(err, store.ErrVersionConflict):
		return apiError.Conflict("Record was modified, reload and try again", err)
	case store.IsMalformed(err):
		return apiError.UnprocessableEntity("Stored data is malformed", err)
	default:
		// If it's a raw error we didn't wrap, treat as Internal
		return apiError.Internal(err)
	}
}
