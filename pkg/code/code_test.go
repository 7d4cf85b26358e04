package code

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLangFallback(t *testing.T) {
	t.Cleanup(func() { _ = SetGlobalDefaultLang("en") })

	assert.Equal(t, "Action done", SuccessSaved.Msg())

	assert.NoError(t, SetGlobalDefaultLang("zh-CN"))
	assert.Equal(t, "操作完成", SuccessSaved.Msg())

	assert.Error(t, SetGlobalDefaultLang("fr"))
	assert.Equal(t, "en", GetGlobalDefaultLang())
	assert.Equal(t, "Action done", SuccessSaved.Msg())

	assert.Equal(t, "x", lang{en: "x"}.MessageIn("zh_cn"))
}

func TestCloneDoesNotLeakData(t *testing.T) {
	c := ErrorInvalidParams.Clone().WithDetails("text is required").WithData(1)

	assert.True(t, c.HaveDetails())
	assert.True(t, c.HaveData())
	assert.False(t, ErrorInvalidParams.HaveDetails())
	assert.False(t, ErrorInvalidParams.HaveData())
	assert.Equal(t, ErrorInvalidParams.Code(), c.Code())
}

func TestStatusCode(t *testing.T) {
	assert.Equal(t, http.StatusOK, Success.StatusCode())
	assert.Equal(t, http.StatusNotFound, ErrorNoteNotFound.StatusCode())
	assert.Equal(t, http.StatusBadGateway, ErrorQuoteUnavailable.StatusCode())
}

func TestLookup(t *testing.T) {
	c, ok := Lookup(ErrorNoteNotFound.Code())
	assert.True(t, ok)
	assert.Same(t, ErrorNoteNotFound, c)

	_, ok = Lookup(-1)
	assert.False(t, ok)

	declared := Declared()
	assert.Contains(t, declared, Success.Code())
	assert.IsIncreasing(t, declared)
}

func TestDuplicateCodePanics(t *testing.T) {
	assert.Panics(t, func() { NewError(ErrorUnknownIntent.Code(), lang{en: "dup"}) })
}
