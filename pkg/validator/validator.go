// Package validator gin 参数校验器，基于 go-playground/validator/v10
package validator

import (
	"path/filepath"
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	validatorV10 "github.com/go-playground/validator/v10"
)

// CustomValidator implements binding.StructValidator with a lazily built engine
// CustomValidator 实现 binding.StructValidator
type CustomValidator struct {
	once     sync.Once
	validate *validatorV10.Validate
}

var _ binding.StructValidator = (*CustomValidator)(nil)

// NewCustomValidator 创建校验器
func NewCustomValidator() *CustomValidator {
	return &CustomValidator{}
}

// ValidateStruct 校验结构体，非结构体直接通过
func (v *CustomValidator) ValidateStruct(obj any) error {
	if kindOfData(obj) != reflect.Struct {
		return nil
	}
	v.lazyinit()
	return v.validate.Struct(obj)
}

// Engine 返回底层 *validator.Validate
func (v *CustomValidator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *CustomValidator) lazyinit() {
	v.once.Do(func() {
		v.validate = validatorV10.New()
		v.validate.SetTagName("binding")
	})
}

func kindOfData(data any) reflect.Kind {
	value := reflect.ValueOf(data)
	kind := value.Kind()
	if kind == reflect.Ptr {
		kind = value.Elem().Kind()
	}
	return kind
}

// RegisterCustom 注册自定义校验规则到 binding.Validator
//
//	abs_path: 字符串必须是绝对路径
func RegisterCustom() error {
	validate, ok := binding.Validator.Engine().(*validatorV10.Validate)
	if !ok {
		return nil
	}
	return validate.RegisterValidation("abs_path", func(fl validatorV10.FieldLevel) bool {
		return filepath.IsAbs(fl.Field().String())
	})
}
