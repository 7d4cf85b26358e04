package middleware

import (
	"net/http"
	"time"

	"github.com/haierkeys/fast-note-pad/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// IntentKey gin.Context 中记录本次请求分发的意图类型
const IntentKey = "intent"

// AccessLogWithLogger logs one line per request, at WARN for 4xx and ERROR for 5xx
// AccessLogWithLogger 访问日志，按状态码选择日志级别
func AccessLogWithLogger(lg *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		url := path
		if q := c.Request.URL.RawQuery; q != "" {
			url += "?" + q
		}

		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String(logger.FieldMethod, c.Request.Method),
			zap.String(logger.FieldURL, url),
			zap.Int("status", status),
			zap.Duration(logger.FieldDuration, time.Since(start)),
			zap.String("ip", c.ClientIP()),
			zap.String(logger.FieldTraceID, GetTraceIDFromGin(c)),
		}
		if intent := c.GetString(IntentKey); intent != "" {
			fields = append(fields, zap.String(logger.FieldIntent, intent))
		}
		if errs := c.Errors.ByType(gin.ErrorTypePrivate); len(errs) > 0 {
			fields = append(fields, zap.String("errors", errs.String()))
		}

		if ce := lg.Check(accessLevel(status), path); ce != nil {
			ce.Write(fields...)
		}
	}
}

func accessLevel(status int) zapcore.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest:
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
