package middleware

import (
	"math"
	"strconv"

	"github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"
	"github.com/haierkeys/fast-note-pad/pkg/limiter"

	"github.com/gin-gonic/gin"
)

// RateLimiter takes one token per request from the bucket of its route.
// Routes without a bucket are not limited. Rejections carry Retry-After.
// RateLimiter 按路由令牌桶限流，无桶的路由不限流，拒绝时带 Retry-After
func RateLimiter(l limiter.Face) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := l.Key(c)
		bucket, ok := l.GetBucket(key)
		if !ok || bucket.TakeAvailable(1) > 0 {
			c.Next()
			return
		}
		retry := max(1, int(math.Round(1/bucket.Rate())))
		c.Header("Retry-After", strconv.Itoa(retry))
		app.NewResponse(c).Abort(code.ErrorTooManyRequests.Clone().WithDetails(key))
	}
}
