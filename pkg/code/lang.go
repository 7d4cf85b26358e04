package code

import (
	"errors"
	"strings"
	"sync/atomic"
)

// lang stores the English and Chinese text of a code
// lang 存储英文和中文文本
type lang struct {
	en    string // English // 英文
	zh_cn string // Chinese // 中文
}

const FALLBACK_LNG = "en"

var supportedLanguages = []string{"en", "zh_cn"}

// Default language is English // 默认语言为英文
var lng atomic.Value

// GetMessage returns the message in the global default language
// GetMessage 返回全局默认语言的消息
func (l lang) GetMessage() string {
	return l.MessageIn(GetGlobalDefaultLang())
}

// MessageIn returns the message in language, falling back to English.
// An empty language means the global default.
// MessageIn 返回指定语言的消息，缺失时回退到英文，language 为空时使用全局默认语言
func (l lang) MessageIn(language string) string {
	if language == "" {
		language = GetGlobalDefaultLang()
	}
	switch normalize(language) {
	case "zh_cn", "zh":
		if l.zh_cn != "" {
			return l.zh_cn
		}
	}
	return l.en
}

// GetSupportedLanguages returns all languages a lang can hold
// GetSupportedLanguages 返回支持的所有语言
func GetSupportedLanguages() []string {
	return append([]string(nil), supportedLanguages...)
}

// SetGlobalDefaultLang sets the global default language, unknown languages reset it to English
// SetGlobalDefaultLang 设置全局默认语言，不支持的语言会重置为英文
func SetGlobalDefaultLang(language string) error {
	language = normalize(language)
	if language == "zh" {
		language = "zh_cn"
	}
	for _, l := range supportedLanguages {
		if language == l {
			lng.Store(language)
			return nil
		}
	}
	lng.Store(FALLBACK_LNG)
	return errors.New("unsupported language type, set defaulting to " + FALLBACK_LNG)
}

// GetGlobalDefaultLang gets the global default language
// GetGlobalDefaultLang 获取全局默认语言
func GetGlobalDefaultLang() string {
	if v, ok := lng.Load().(string); ok && v != "" {
		return v
	}
	return FALLBACK_LNG
}

func normalize(language string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(language), "-", "_"))
}
