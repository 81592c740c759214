package api

import (
	"net/http"

	"neftit_waitlist/internal/service"
	"neftit_waitlist/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindConflict:
		return http.StatusConflict
	case service.KindInvalidCredentials:
		return http.StatusUnauthorized
	case service.KindConnectivity:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// abortWithError writes the user facing message of err with the status of
// its kind. Server side failures are logged with the full chain.
func abortWithError(c *gin.Context, op string, err error) {
	kind := service.KindOf(err)
	status := statusFor(kind)

	if status >= http.StatusInternalServerError {
		logger.Logger().Error(op, zap.Error(err))
	} else {
		logger.Logger().Info(op, zap.String("kind", kind.String()), zap.Error(err))
	}

	c.AbortWithStatusJSON(status, gin.H{
		"error": service.Message(err),
		"kind":  kind.String(),
	})
}

func NotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "page not found"})
}
