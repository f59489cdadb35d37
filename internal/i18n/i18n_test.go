//go:build !integration

package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func contextWithLanguage(header string) *gin.Context {
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodPost, "/api/plans/allocate", nil)
	if header != "" {
		c.Request.Header.Set(AcceptLanguageHeader, header)
	}
	return c
}

func TestGetTranslator(t *testing.T) {
	assert.Same(t, GetTranslator(), GetTranslator())
}

func TestTranslator_Translate(t *testing.T) {
	translator := NewTranslator()

	tests := []struct {
		name     string
		key      string
		locale   string
		expected string
	}{
		{name: "english", key: ErrKeyShipmentIndex, locale: "en", expected: "shipment_index: outside the allocation"},
		{name: "portuguese", key: ErrKeyExportFormat, locale: "pt", expected: "format: deve ser csv, xlsx ou pdf"},
		{name: "dutch", key: ErrKeyCatalogDisabled, locale: "nl", expected: "De catalogus is niet geconfigureerd"},
		{name: "empty locale uses english", key: ErrKeyInvalidPlanInput, locale: "", expected: "Invalid planning input"},
		{name: "unsupported locale uses english", key: ErrKeyTimeout, locale: "fr", expected: "Request timeout"},
		{name: "unknown key is returned", key: "error.unknown", locale: "pt", expected: "error.unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, translator.Translate(tt.key, tt.locale))
		})
	}
}

func TestGetLocale(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		expected string
	}{
		{name: "no header", header: "", expected: DefaultLocale},
		{name: "plain tag", header: "nl", expected: "nl"},
		{name: "region is ignored", header: "pt-BR", expected: "pt"},
		{name: "case insensitive", header: "NL-be", expected: "nl"},
		{name: "first of equal weights wins", header: "pt, nl", expected: "pt"},
		{name: "highest q wins", header: "en;q=0.5, nl;q=0.9, pt;q=0.7", expected: "nl"},
		{name: "unsupported first choice falls through", header: "fr-FR, de;q=0.9, pt;q=0.8", expected: "pt"},
		{name: "q zero excludes a language", header: "pt;q=0, fr", expected: DefaultLocale},
		{name: "malformed q counts as zero", header: "nl;q=abc, pt;q=0.1", expected: "pt"},
		{name: "wildcard only", header: "*", expected: DefaultLocale},
		{name: "nothing supported", header: "fr, de", expected: DefaultLocale},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetLocale(contextWithLanguage(tt.header)))
		})
	}
}

func TestMessage(t *testing.T) {
	c := contextWithLanguage("pt-BR,pt;q=0.9,en;q=0.8")
	assert.Equal(t, "Tempo limite da requisição excedido", Message(c, ErrKeyTimeout))

	c = contextWithLanguage("")
	assert.Equal(t, "Too many requests, please try again later", Message(c, ErrKeyRateLimitExceeded))
}

func TestCatalogs_AllLocalesComplete(t *testing.T) {
	keys := []string{
		ErrKeyInvalidRequest, ErrKeyInvalidRequestBody, ErrKeyInvalidPlanInput,
		ErrKeyShipmentIndex, ErrKeyExportFormat, ErrKeyInternalError,
		ErrKeyServiceUnavailable, ErrKeyCatalogDisabled, ErrKeyUnauthorized,
		ErrKeyAPIKeyRequired, ErrKeyInvalidAPIKey, ErrKeyForbidden, ErrKeyNotFound,
		ErrKeyRateLimitExceeded, ErrKeyConflict, ErrKeyInvalidToken,
		ErrKeyTokenRequired, ErrKeyTimeout,
	}

	for locale, msgs := range catalogs {
		assert.Len(t, msgs, len(keys), locale)
		for _, key := range keys {
			assert.NotEmpty(t, msgs[key], "%s missing in %s", key, locale)
		}
	}
}
