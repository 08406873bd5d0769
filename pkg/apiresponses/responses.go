package apiresponses

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Error codes carried next to the human readable message.
const (
	CodeNotFound   = "NOT_FOUND"
	CodeBadRequest = "BAD_REQUEST"
	CodeInternal   = "INTERNAL_ERROR"
)

// APIError is the body of every error response. Error is shown to users as
// is, so it never contains internal details.
type APIError struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, APIError{Error: message, Code: code})
}

// RespondNotFoundSimple answers 404 with message.
func RespondNotFoundSimple(c *gin.Context, message string) {
	respondError(c, http.StatusNotFound, CodeNotFound, message)
}

// RespondBadRequest answers 400 with message.
func RespondBadRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, CodeBadRequest, message)
}

// RespondInternalError logs err and answers 500 with "failed to <operation>".
func RespondInternalError(c *gin.Context, operation string, err error, log *zap.SugaredLogger) {
	if log != nil {
		log.Errorw("Request failed", "operation", operation, "error", err)
	}
	respondError(c, http.StatusInternalServerError, CodeInternal, "failed to "+operation)
}

func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
