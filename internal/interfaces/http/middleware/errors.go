package middleware

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/shopfront/storefront-api/internal/pkg/apperror"
	"github.com/shopfront/storefront-api/internal/pkg/response"
	"github.com/sirupsen/logrus"
)

// ErrorHandler writes the failure envelope for the last error attached to
// the context and turns panics into 500s.
func ErrorHandler(logger logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.WithFields(logrus.Fields{
					"request_id": c.GetString(requestIDKey),
					"panic":      rec,
				}).Error("recovered from panic")
				writeError(c, logger, apperror.Unexpected("", fmt.Errorf("panic: %v", rec)))
			}
		}()

		c.Next()

		if len(c.Errors) == 0 {
			return
		}
		writeError(c, logger, c.Errors.Last().Err)
	}
}

func writeError(c *gin.Context, logger logrus.FieldLogger, err error) {
	if apperror.KindOf(err) == apperror.KindUnexpected {
		logger.WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString(requestIDKey),
			"path":       c.Request.URL.Path,
		}).Error("request failed")
	}
	if c.Writer.Written() {
		return
	}
	status, body := response.ErrorBody(err)
	c.AbortWithStatusJSON(status, body)
}
