package i18n

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestTranslate(t *testing.T) {
	tr := NewTranslator()

	tests := []struct {
		name   string
		key    string
		locale string
		want   string
	}{
		{name: "english stock limit", key: ErrKeyStockLimit, locale: "en", want: "Requested quantity exceeds available stock"},
		{name: "hindi empty cart", key: ErrKeyEmptyCart, locale: "hi", want: "कार्ट खाली है"},
		{name: "empty locale falls back to english", key: ErrKeyNotFound, locale: "", want: "Not found"},
		{name: "unknown locale falls back to english", key: ErrKeyNotFound, locale: "fr", want: "Not found"},
		{name: "unknown key returns key", key: "error.nope", locale: "en", want: "error.nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tr.Translate(tt.key, tt.locale))
		})
	}
}

func TestGetLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name   string
		header string
		want   string
	}{
		{name: "no header", header: "", want: "en"},
		{name: "plain hindi", header: "hi", want: "hi"},
		{name: "region variant", header: "hi-IN,hi;q=0.9,en;q=0.8", want: "hi"},
		{name: "unsupported language", header: "fr-FR,fr;q=0.9", want: "en"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := gin.CreateTestContext(httptest.NewRecorder())
			c.Request = httptest.NewRequest("GET", "/", nil)
			if tt.header != "" {
				c.Request.Header.Set(AcceptLanguageHeader, tt.header)
			}
			assert.Equal(t, tt.want, GetLocale(c))
		})
	}
}
