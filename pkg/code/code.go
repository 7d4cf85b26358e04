// Package code declares the response codes returned over HTTP and websocket
// Package code 定义 HTTP 与 websocket 返回的业务码
package code

import (
	"fmt"
	"net/http"
	"sort"
	"sync"
)

// Code is a declared response code. Declared values are shared,
// call Clone before WithData or WithDetails.
// Code 业务码，声明的变量是共享的，附加数据前先 Clone
type Code struct {
	code       int
	status     bool
	httpStatus int
	Lang       lang

	data        any
	haveData    bool
	details     []string
	haveDetails bool
}

var (
	registryMu sync.Mutex
	registry   = map[int]*Code{}
)

func register(c *Code) *Code {
	registryMu.Lock()
	defer registryMu.Unlock()
	if prev, ok := registry[c.code]; ok {
		panic(fmt.Sprintf("code %d already declared as %q", c.code, prev.Lang.en))
	}
	registry[c.code] = c
	return c
}

// NewError 声明失败码，默认 HTTP 200
func NewError(code int, l lang) *Code {
	return register(&Code{code: code, status: false, Lang: l})
}

// NewSuss 声明成功码
func NewSuss(code int, l lang) *Code {
	return register(&Code{code: code, status: true, Lang: l})
}

// Lookup returns the declared code, used by clients decoding a Res
// Lookup 按数值查找已声明的业务码
func Lookup(code int) (*Code, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	c, ok := registry[code]
	return c, ok
}

// Declared 按数值升序返回所有业务码
func Declared() []int {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]int, 0, len(registry))
	for k := range registry {
		out = append(out, k)
	}
	sort.Ints(out)
	return out
}

// Clone 复制业务码，不带 data 与 details
func (e *Code) Clone() *Code {
	return &Code{code: e.code, status: e.status, httpStatus: e.httpStatus, Lang: e.Lang}
}

func (e *Code) Error() string { return e.Msg() }

func (e *Code) Code() int         { return e.code }
func (e *Code) Status() bool      { return e.status }
func (e *Code) Msg() string       { return e.Lang.GetMessage() }
func (e *Code) Data() any         { return e.data }
func (e *Code) Details() []string { return e.details }
func (e *Code) HaveData() bool    { return e.haveData }
func (e *Code) HaveDetails() bool { return e.haveDetails }

func (e *Code) WithData(data any) *Code {
	e.haveData = true
	e.data = data
	return e
}

// WithDetails replaces the details
// WithDetails 覆盖详情
func (e *Code) WithDetails(details ...string) *Code {
	e.haveDetails = true
	e.details = append([]string(nil), details...)
	return e
}

func (e *Code) withHTTPStatus(status int) *Code {
	e.httpStatus = status
	return e
}

// StatusCode HTTP 状态码，未声明时为 200
func (e *Code) StatusCode() int {
	if e.httpStatus != 0 {
		return e.httpStatus
	}
	return http.StatusOK
}
