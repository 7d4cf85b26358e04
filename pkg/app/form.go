package app

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

type ValidError struct {
	Key     string
	Message string
}

type ValidErrors []*ValidError

func (v *ValidError) Error() string {
	return v.Message
}

func (v ValidErrors) Error() string {
	return strings.Join(v.Errors(), ",")
}

func (v ValidErrors) Errors() []string {
	var errs []string
	for _, err := range v {
		errs = append(errs, err.Error())
	}
	return errs
}

// ErrorsToString 用于 code.WithDetails
func (v ValidErrors) ErrorsToString() string {
	return v.Error()
}

// MapsToString 字段名到错误信息
func (v ValidErrors) MapsToString() map[string]string {
	m := make(map[string]string, len(v))
	for _, err := range v {
		m[err.Key] = err.Message
	}
	return m
}

// BindAndValid binds the request into v and runs the validator tags.
// Messages are translated with the translator set by the lang middleware.
// BindAndValid 绑定并校验参数，使用 lang 中间件设置的翻译器
func BindAndValid(c *gin.Context, v any) (bool, ValidErrors) {
	return collect(c, c.ShouldBind(v))
}

// ValidStruct 校验已解码的结构体，用于 WebSocket 消息
func ValidStruct(c *gin.Context, v any) (bool, ValidErrors) {
	return collect(c, binding.Validator.ValidateStruct(v))
}

func collect(c *gin.Context, err error) (bool, ValidErrors) {
	if err == nil {
		return true, nil
	}

	var errs ValidErrors
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		errs = append(errs, &ValidError{Key: "body", Message: err.Error()})
		return false, errs
	}

	var trans ut.Translator
	if c != nil {
		if v, exists := c.Get(TransKey); exists {
			trans, _ = v.(ut.Translator)
		}
	}
	for _, e := range verrs {
		msg := e.Error()
		if trans != nil {
			msg = e.Translate(trans)
		}
		errs = append(errs, &ValidError{Key: e.Field(), Message: msg})
	}
	return false, errs
}
