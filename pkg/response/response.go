package response

import (
	"log/slog"
	"net/http"

	"yamdb/pkg/apperror"

	"github.com/gin-gonic/gin"
)

// Error writes the standard error body for err. Internal errors are logged and
// their message is hidden from the client.
func Error(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		slog.Error("internal error",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"error", err,
		)
		c.JSON(code, gin.H{"error": "internal server error"})
		return
	}

	body := gin.H{"error": err.Error()}
	if field := apperror.FieldOf(err); field != "" {
		body["field"] = field
	}
	c.JSON(code, body)
}

// AbortWithError is Error for middleware: it also stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}
