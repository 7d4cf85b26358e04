package middleware

import (
	"github.com/haierkeys/fast-note-pad/pkg/app"
	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/gin-gonic/gin"
)

// NoFound answers unknown routes with ErrorNotFoundAPI, naming the method and path
// NoFound 未匹配路由返回 404，details 为 "METHOD path"
func NoFound() gin.HandlerFunc {
	return func(c *gin.Context) {
		app.NewResponse(c).Abort(code.ErrorNotFoundAPI.Clone().WithDetails(c.Request.Method + " " + c.Request.URL.Path))
	}
}
