package api_router

import (
	"encoding/json"
	"expvar"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Expvar serves the published expvar variables. Each extra entry is
// evaluated per request and added next to them under its own key.
// Expvar 导出 expvar 变量，extra 中的条目按请求实时计算
func Expvar(extra map[string]func() any) gin.HandlerFunc {
	return func(c *gin.Context) {
		vars := make(map[string]any)
		expvar.Do(func(kv expvar.KeyValue) {
			vars[kv.Key] = json.RawMessage(kv.Value.String())
		})
		for k, fn := range extra {
			vars[k] = fn()
		}
		c.JSON(http.StatusOK, vars)
	}
}
