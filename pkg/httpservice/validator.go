package httpservice

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yourorg/pdf-editor-service/pkg/errors"
	"github.com/yourorg/pdf-editor-service/pkg/logging"
)

var validate = validator.New()

// ValidateJSON binds and validates a JSON request body into req. On failure
// it writes a 400 response and returns false; malformed bodies never reach
// the service layer.
func ValidateJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		appErr := errors.NewValidationError("Invalid JSON: " + err.Error())
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
		return false
	}

	if err := validate.Struct(req); err != nil {
		appErr := errors.NewValidationError("Validation failed: " + err.Error())
		c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
		return false
	}

	return true
}

// HandleError converts err to its HTTP status and writes the error body.
// The body carries only the textual message.
func HandleError(c *gin.Context, err error) {
	appErr := errors.FromError(err)
	c.JSON(appErr.HTTPStatus, gin.H{"error": appErr.Message})
	c.Abort()
}

// GetLogger retrieves the request-scoped logger.
func GetLogger(c *gin.Context) logging.Logger {
	return logging.FromContext(c.Request.Context())
}
