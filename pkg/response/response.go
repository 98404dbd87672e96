package response

import (
	"net/http"

	"anoa.com/recruitportal/pkg/apperror"
	"anoa.com/recruitportal/pkg/dto"
	"anoa.com/recruitportal/pkg/i18n"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RequestIDKey is the gin context key holding the request id.
const RequestIDKey = "request_id"

// LoggerKey is the gin context key holding the request logger.
const LoggerKey = "logger"

// UseLogger makes log the logger ResponseError reports internal errors to.
func UseLogger(log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(LoggerKey, log)
		c.Next()
	}
}

func loggerFrom(c *gin.Context) logrus.FieldLogger {
	if v, exists := c.Get(LoggerKey); exists {
		if log, ok := v.(logrus.FieldLogger); ok {
			return log
		}
	}
	return logrus.StandardLogger()
}

// Message translates key for the language of the current request.
func Message(c *gin.Context, key string) string {
	return i18n.Translate(c.GetHeader("Accept-Language"), key)
}

// Meta collects the caller metadata recorded with error log rows.
func Meta(c *gin.Context) dto.RequestMeta {
	return dto.RequestMeta{
		UserAgent: c.Request.UserAgent(),
		IPAddress: c.ClientIP(),
		RequestID: c.GetString(RequestIDKey),
	}
}

// Success writes {success:true, message} merged with extra.
func Success(c *gin.Context, key string, extra gin.H) {
	body := gin.H{"success": true, "message": Message(c, key)}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(http.StatusOK, body)
}

// ResponseError standardized error response. The cause of an internal error
// is logged, never written to the body.
func ResponseError(c *gin.Context, err error) {
	code := apperror.MapErrorToStatus(err)

	if code == http.StatusInternalServerError {
		loggerFrom(c).WithError(err).WithFields(logrus.Fields{
			"request_id": c.GetString(RequestIDKey),
			"path":       c.FullPath(),
		}).Error("internal error")
	}

	c.JSON(code, dto.MessageResponse{
		Success: false,
		Message: Message(c, apperror.KeyOf(err, i18n.Internal)),
	})
}

// AbortWithError writes the error body and stops the handler chain.
func AbortWithError(c *gin.Context, err error) {
	ResponseError(c, err)
	c.Abort()
}
