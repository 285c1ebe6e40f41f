package response

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	domainerrors "myduka.backend/internal/domain/errors"
	"myduka.backend/pkg/logger"
)

// Success sends a success response
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, data)
}

// Error sends an error response. Anything that is not an AppError is logged
// and reported as a bare internal error.
func Error(c *gin.Context, err error) {
	var appErr *domainerrors.AppError
	if !errors.As(err, &appErr) {
		logger.Error(c.Request.Context(), "Unhandled error", zap.String("path", c.Request.URL.Path), zap.Error(err))
		appErr = domainerrors.InternalError(err)
	}

	c.JSON(appErr.Status, gin.H{
		"code":    appErr.Code,
		"message": appErr.Message,
	})
}

// ErrorWithCode sends an error response with a specific status and code
func ErrorWithCode(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"code":    code,
		"message": message,
	})
}
