package app

import (
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type intentForm struct {
	Type string `json:"type" binding:"required"`
	Text string `json:"text"`
}

func TestBindAndValid(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(body string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("POST", "/api/intent", strings.NewReader(body))
		c.Request.Header.Set("Content-Type", "application/json")
		return c
	}

	var ok intentForm
	valid, errs := BindAndValid(newCtx(`{"type":"save"}`), &ok)
	assert.True(t, valid)
	assert.Nil(t, errs)
	assert.Equal(t, "save", ok.Type)

	var missing intentForm
	valid, errs = BindAndValid(newCtx(`{"text":"x"}`), &missing)
	assert.False(t, valid)
	require.Len(t, errs, 1)
	assert.Equal(t, "Type", errs[0].Key)
	assert.Contains(t, errs.MapsToString(), "Type")

	var broken intentForm
	valid, errs = BindAndValid(newCtx(`{`), &broken)
	assert.False(t, valid)
	assert.Equal(t, "body", errs[0].Key)
}
