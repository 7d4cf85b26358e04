package validator

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	validatorV10 "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
)

// Init installs CustomValidator as gin's binding.Validator, reports json field
// names in errors and registers the en and zh translations
// Init 安装校验器并注册中英文翻译，返回 UniversalTranslator
func Init() (*ut.UniversalTranslator, error) {
	binding.Validator = NewCustomValidator()

	uni := ut.New(en.New(), en.New(), zh.New())

	validate, ok := binding.Validator.Engine().(*validatorV10.Validate)
	if !ok {
		return uni, nil
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	zhTran, _ := uni.GetTranslator("zh")
	enTran, _ := uni.GetTranslator("en")

	if err := zh_translations.RegisterDefaultTranslations(validate, zhTran); err != nil {
		return nil, err
	}
	if err := en_translations.RegisterDefaultTranslations(validate, enTran); err != nil {
		return nil, err
	}

	if err := RegisterCustom(); err != nil {
		return nil, err
	}
	return uni, nil
}
