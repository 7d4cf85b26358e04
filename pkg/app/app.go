// Package app holds the HTTP and websocket response plumbing shared by the routers
// Package app 路由共用的 HTTP / websocket 响应工具
package app

import (
	"strings"

	"github.com/haierkeys/fast-note-pad/pkg/code"

	"github.com/gin-gonic/gin"
)

// gin.Context 键
const (
	StatusCodeKey = "status_code"
	// LangKey 请求语言，由 lang 中间件写入
	LangKey = "lang"
	// TransKey 校验错误翻译器 ut.Translator
	TransKey = "trans"
)

type Response struct {
	Ctx *gin.Context
}

// Res is the envelope of every HTTP body and websocket frame
// Res 统一响应结构
type Res struct {
	Code    int    `json:"code"`
	Status  bool   `json:"status"`
	Message any    `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Details string `json:"details,omitempty"`
}

func NewResponse(ctx *gin.Context) *Response {
	return &Response{Ctx: ctx}
}

// NewRes builds the body for codeObj with the message in language,
// an empty language uses the global default
// NewRes 根据 codeObj 构建响应体，多条 details 以逗号连接
func NewRes(codeObj *code.Code, language string) Res {
	content := Res{
		Code:    codeObj.Code(),
		Status:  codeObj.Status(),
		Message: codeObj.Lang.MessageIn(language),
		Data:    codeObj.Data(),
	}
	if codeObj.HaveDetails() {
		content.Details = strings.Join(codeObj.Details(), ",")
	}
	return content
}

// ToResponse writes codeObj with its own HTTP status
// ToResponse 按 codeObj 的 HTTP 状态码输出
func (r *Response) ToResponse(codeObj *code.Code) {
	r.Ctx.Set(StatusCodeKey, codeObj.StatusCode())
	r.Ctx.JSON(codeObj.StatusCode(), NewRes(codeObj, r.Ctx.GetString(LangKey)))
}

// ToResponseData 输出 codeObj 并附带 data
func (r *Response) ToResponseData(codeObj *code.Code, data any) {
	r.ToResponse(codeObj.Clone().WithData(data))
}

// Abort writes codeObj and stops the handler chain
// Abort 输出 codeObj 并终止后续处理
func (r *Response) Abort(codeObj *code.Code) {
	r.ToResponse(codeObj)
	r.Ctx.Abort()
}
