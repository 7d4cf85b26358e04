package limiter

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/juju/ratelimit"
)

// MethodLimiter 按路由路径限流
type MethodLimiter struct {
	*Limiter
}

func NewMethodLimiter() Face {
	return &MethodLimiter{
		Limiter: &Limiter{limiterBuckets: make(map[string]*ratelimit.Bucket)},
	}
}

// Key 取请求路径，忽略查询参数
func (l *MethodLimiter) Key(c *gin.Context) string {
	uri := c.Request.RequestURI
	index := strings.Index(uri, "?")
	if index == -1 {
		return uri
	}
	return uri[:index]
}

func (l *MethodLimiter) AddBuckets(rules ...BucketRule) Face {
	l.addBuckets(rules...)
	return l
}
