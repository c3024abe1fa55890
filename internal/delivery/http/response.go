package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/roomstyler/backend/internal/domain"
	"github.com/zeromicro/go-zero/core/logx"
)

// statusFor maps domain errors to HTTP status codes
func statusFor(err error) int {
	var maxBytesErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytesErr):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrRateLimited):
		return http.StatusTooManyRequests
	case errors.Is(err, domain.ErrSearchProvider):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrCorruptRecord):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes the {success:false, error} envelope used by the design routes
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	logError(c, status, err)
	c.AbortWithStatusJSON(status, gin.H{
		"success": false,
		"error":   err.Error(),
	})
}

// respondGalleryError writes the {ok:false, error} envelope used by the gallery routes
func respondGalleryError(c *gin.Context, err error) {
	status := statusFor(err)
	logError(c, status, err)
	c.AbortWithStatusJSON(status, gin.H{
		"ok":    false,
		"error": err.Error(),
	})
}

func logError(c *gin.Context, status int, err error) {
	logger := logx.WithContext(c.Request.Context())
	if status >= http.StatusInternalServerError {
		logger.Errorf("[HTTP] %s %s failed: %v", c.Request.Method, c.FullPath(), err)
		return
	}
	logger.Infof("[HTTP] %s %s rejected (%d): %v", c.Request.Method, c.FullPath(), status, err)
}
