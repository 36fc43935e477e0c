package handler

import (
	"errors"
	"net/http"
	"strconv"

	appvalidator "yamdb/pkg/validator"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := appvalidator.Register(v); err != nil {
			panic(err)
		}
	}
}

// bindJSON binds the request body into obj and writes a 400 on failure.
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

// bindQuery binds query parameters into obj and writes a 400 on failure.
func bindQuery(c *gin.Context, obj any) bool {
	if err := c.ShouldBindQuery(obj); err != nil {
		writeBindError(c, err)
		return false
	}
	return true
}

func writeBindError(c *gin.Context, err error) {
	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": appvalidator.FormatValidationError(err),
			"field": appvalidator.FirstField(err),
		})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
}

// paramID parses a positive integer path parameter, writing a 404 when it is
// not one: such an id cannot name an existing row.
func paramID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id < 1 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return 0, false
	}
	return id, true
}

func isPartial(c *gin.Context) bool {
	return c.Request.Method == http.MethodPatch
}
