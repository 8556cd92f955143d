package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/careflow/booking-api/internal/common"
)

// ErrorHandler maps errors attached by handlers to HTTP responses. Tagged
// APIErrors keep their status and body; anything else is logged and returned
// as a generic internal failure.
func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		ginErr := c.Errors.Last()

		if apiErr, ok := common.AsAPIError(ginErr.Err); ok {
			if apiErr.StatusCode >= 500 {
				logger.Error("request failed",
					zap.String("path", c.Request.URL.Path),
					zap.Error(ginErr.Err),
				)
			}
			c.AbortWithStatusJSON(apiErr.StatusCode, apiErr)
			return
		}

		logger.Error("unhandled application error",
			zap.String("path", c.Request.URL.Path),
			zap.Error(ginErr.Err),
		)
		e := common.ErrInternal.WithMsg(ginErr.Err.Error())
		c.AbortWithStatusJSON(e.StatusCode, e)
	}
}
