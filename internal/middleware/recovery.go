package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	lg "github.com/haierkeys/fast-note-pad/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RecoveryWithLogger turns a handler panic into a 500 response and one ERROR log.
// The panic value is echoed in details outside release mode.
// http.ErrAbortHandler is re-raised so net/http aborts the connection.
// RecoveryWithLogger 捕获 panic 并返回 500，release 模式下不回显 panic 内容
func RecoveryWithLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if err, ok := rec.(error); ok && errors.Is(err, http.ErrAbortHandler) {
				panic(rec)
			}

			fields := []zap.Field{
				zap.String("router", c.Request.URL.Path),
				zap.String(lg.FieldMethod, c.Request.Method),
				zap.String("query", c.Request.URL.RawQuery),
				zap.String("ip", c.ClientIP()),
				zap.String(lg.FieldTraceID, GetTraceIDFromGin(c)),
				zap.ByteString("stack", debug.Stack()),
			}
			if intent := c.GetString(IntentKey); intent != "" {
				fields = append(fields, zap.String(lg.FieldIntent, intent))
			}

			var msg string
			if err, ok := rec.(error); ok {
				msg = err.Error()
				logger.Error("Recovered from panic", append(fields, zap.Error(err))...)
			} else {
				msg = fmt.Sprint(rec)
				logger.Error("Recovered from unknown panic", append(fields, zap.String("panic_value", msg))...)
			}

			res := code.ErrorServerInternal.Clone()
			if gin.Mode() != gin.ReleaseMode {
				res = res.WithDetails(msg)
			}
			app.NewResponse(c).Abort(res)
		}()

		c.Next()
	}
}
