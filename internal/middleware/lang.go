package middleware

import (
	"strings"

	"github.com/haierkeys/fast-note-pad/pkg/app"

	"github.com/gin-gonic/gin"
	ut "github.com/go-playground/universal-translator"
)

// LangWithTranslator picks the request language and its validation translator.
// Sources in order: ?lang=, the lang header, the first Accept-Language entry.
// Unknown languages fall back to en.
// LangWithTranslator 选择请求语言与校验翻译器，未知语言回退 en
func LangWithTranslator(uni *ut.UniversalTranslator) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := requestLang(c)

		trans, found := uni.GetTranslator(lang)
		if !found {
			lang = "en"
			trans, _ = uni.GetTranslator(lang)
		}
		c.Set(app.TransKey, trans)
		c.Set(app.LangKey, lang)
		c.Next()
	}
}

func requestLang(c *gin.Context) string {
	raw, ok := c.GetQuery("lang")
	if !ok {
		raw = c.GetHeader("lang")
	}
	if raw == "" {
		raw, _, _ = strings.Cut(c.GetHeader("Accept-Language"), ",")
		raw, _, _ = strings.Cut(raw, ";")
	}
	lang := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(raw), "-", "_"))
	if strings.HasPrefix(lang, "zh") {
		return "zh"
	}
	if base, _, found := strings.Cut(lang, "_"); found {
		return base
	}
	return lang
}
