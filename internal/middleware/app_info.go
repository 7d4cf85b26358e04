package middleware

import (
	"github.com/gin-gonic/gin"
)

const (
	// AppVersionKey gin.Context 中存储应用版本的键
	AppVersionKey = "app_version"

	HeaderAppName    = "X-App-Name"
	HeaderAppVersion = "X-App-Version"
)

// AppInfo 在上下文和响应头中写入应用名称与版本
func AppInfo(name, version string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(AppVersionKey, version)
		c.Header(HeaderAppName, name)
		c.Header(HeaderAppVersion, version)
		c.Next()
	}
}
