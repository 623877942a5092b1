// Package response shapes the JSON envelopes returned by every endpoint.
package response

import (
	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/pkg/apperror"
)

// Envelope is the success body.
type Envelope struct {
	Success    bool   `json:"success"`
	StatusCode int    `json:"statusCode"`
	Data       any    `json:"data"`
	Message    string `json:"message"`
}

// ErrorEnvelope is the failure body.
type ErrorEnvelope struct {
	Success    bool                  `json:"success"`
	StatusCode int                   `json:"statusCode"`
	Message    string                `json:"message"`
	Errors     []apperror.FieldError `json:"errors"`
}

// JSON writes a success envelope.
func JSON(c *gin.Context, status int, data any, message string) {
	c.JSON(status, Envelope{
		Success:    status < 400,
		StatusCode: status,
		Data:       data,
		Message:    message,
	})
}

// Error writes a failure envelope for err.
func Error(c *gin.Context, err error) {
	status, body := ErrorBody(err)
	c.AbortWithStatusJSON(status, body)
}

// ErrorBody converts err into a status code and failure envelope. Messages of
// unexpected errors are not exposed.
func ErrorBody(err error) (int, ErrorEnvelope) {
	appErr, ok := apperror.As(err)
	if !ok {
		appErr = apperror.Unexpected("Internal server error", err)
	}

	status := appErr.Kind.HTTPStatus()
	message := appErr.Message
	if appErr.Kind == apperror.KindUnexpected && message == "" {
		message = "Internal server error"
	}

	fields := appErr.Fields
	if fields == nil {
		fields = []apperror.FieldError{}
	}

	return status, ErrorEnvelope{
		Success:    false,
		StatusCode: status,
		Message:    message,
		Errors:     fields,
	}
}
