// Package i18n translates the error messages returned by the API.
package i18n

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is used when the client sends no supported language.
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator maps message keys to localized text.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a translator loaded with the built in catalogs.
func NewTranslator() *Translator {
	return &Translator{messages: catalogs}
}

// GetTranslator returns the process wide translator.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Supports reports whether a catalog exists for the locale.
func (t *Translator) Supports(locale string) bool {
	_, ok := t.messages[locale]
	return ok
}

// Translate returns the message for key in locale. Missing locales and keys
// fall back to DefaultLocale, and an unknown key is returned as is.
func (t *Translator) Translate(key, locale string) string {
	if msg, ok := t.messages[locale][key]; ok {
		return msg
	}
	if msg, ok := t.messages[DefaultLocale][key]; ok {
		return msg
	}
	return key
}

// Message translates key for the language negotiated on the request.
func Message(c *gin.Context, key string) string {
	return GetTranslator().Translate(key, GetLocale(c))
}

type languageRange struct {
	tag    string
	weight float64
}

// GetLocale negotiates the response language from Accept-Language. Ranges are
// tried by descending q value, then header order; region subtags are ignored.
func GetLocale(c *gin.Context) string {
	header := c.GetHeader(AcceptLanguageHeader)
	if header == "" {
		return DefaultLocale
	}

	ranges := parseAcceptLanguage(header)
	sort.SliceStable(ranges, func(i, j int) bool {
		return ranges[i].weight > ranges[j].weight
	})

	t := GetTranslator()
	for _, r := range ranges {
		if r.weight <= 0 {
			break
		}
		if t.Supports(r.tag) {
			return r.tag
		}
	}
	return DefaultLocale
}

func parseAcceptLanguage(header string) []languageRange {
	parts := strings.Split(header, ",")
	ranges := make([]languageRange, 0, len(parts))
	for _, part := range parts {
		fields := strings.Split(strings.TrimSpace(part), ";")
		tag := strings.ToLower(strings.TrimSpace(fields[0]))
		if tag == "" {
			continue
		}
		if base, _, found := strings.Cut(tag, "-"); found {
			tag = base
		}

		weight := 1.0
		for _, param := range fields[1:] {
			name, value, ok := strings.Cut(strings.TrimSpace(param), "=")
			if !ok || strings.TrimSpace(name) != "q" {
				continue
			}
			q, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
			if err != nil {
				q = 0
			}
			weight = q
		}
		ranges = append(ranges, languageRange{tag: tag, weight: weight})
	}
	return ranges
}

var catalogs = map[string]map[string]string{
	"en": {
		ErrKeyInvalidRequest:     "Invalid request",
		ErrKeyInvalidRequestBody: "Invalid request body",
		ErrKeyInvalidPlanInput:   "Invalid planning input",
		ErrKeyShipmentIndex:      "shipment_index: outside the allocation",
		ErrKeyExportFormat:       "format: must be one of csv, xlsx, pdf",
		ErrKeyInternalError:      "An unexpected error occurred",
		ErrKeyServiceUnavailable: "Catalog storage is temporarily unavailable",
		ErrKeyCatalogDisabled:    "Catalog storage is not configured",
		ErrKeyUnauthorized:       "Unauthorized",
		ErrKeyAPIKeyRequired:     "API key is required",
		ErrKeyInvalidAPIKey:      "Invalid API key",
		ErrKeyForbidden:          "Forbidden",
		ErrKeyNotFound:           "Not found",
		ErrKeyRateLimitExceeded:  "Too many requests, please try again later",
		ErrKeyConflict:           "Conflict",
		ErrKeyInvalidToken:       "Invalid or expired token",
		ErrKeyTokenRequired:      "Authentication token is required",
		ErrKeyTimeout:            "Request timeout",
	},
	"pt": {
		ErrKeyInvalidRequest:     "Requisição inválida",
		ErrKeyInvalidRequestBody: "Corpo da requisição inválido",
		ErrKeyInvalidPlanInput:   "Dados de planejamento inválidos",
		ErrKeyShipmentIndex:      "shipment_index: fora da alocação",
		ErrKeyExportFormat:       "format: deve ser csv, xlsx ou pdf",
		ErrKeyInternalError:      "Ocorreu um erro inesperado",
		ErrKeyServiceUnavailable: "O catálogo está temporariamente indisponível",
		ErrKeyCatalogDisabled:    "O catálogo não está configurado",
		ErrKeyUnauthorized:       "Não autorizado",
		ErrKeyAPIKeyRequired:     "Chave de API é obrigatória",
		ErrKeyInvalidAPIKey:      "Chave de API inválida",
		ErrKeyForbidden:          "Proibido",
		ErrKeyNotFound:           "Não encontrado",
		ErrKeyRateLimitExceeded:  "Muitas requisições, tente novamente mais tarde",
		ErrKeyConflict:           "Conflito",
		ErrKeyInvalidToken:       "Token inválido ou expirado",
		ErrKeyTokenRequired:      "Token de autenticação é obrigatório",
		ErrKeyTimeout:            "Tempo limite da requisição excedido",
	},
	"nl": {
		ErrKeyInvalidRequest:     "Ongeldig verzoek",
		ErrKeyInvalidRequestBody: "Ongeldige aanvraag body",
		ErrKeyInvalidPlanInput:   "Ongeldige planningsgegevens",
		ErrKeyShipmentIndex:      "shipment_index: buiten de toewijzing",
		ErrKeyExportFormat:       "format: moet csv, xlsx of pdf zijn",
		ErrKeyInternalError:      "Er is een onverwachte fout opgetreden",
		ErrKeyServiceUnavailable: "De catalogus is tijdelijk niet beschikbaar",
		ErrKeyCatalogDisabled:    "De catalogus is niet geconfigureerd",
		ErrKeyUnauthorized:       "Niet geautoriseerd",
		ErrKeyAPIKeyRequired:     "API-sleutel is vereist",
		ErrKeyInvalidAPIKey:      "Ongeldige API-sleutel",
		ErrKeyForbidden:          "Verboden",
		ErrKeyNotFound:           "Niet gevonden",
		ErrKeyRateLimitExceeded:  "Te veel verzoeken, probeer het later opnieuw",
		ErrKeyConflict:           "Conflict",
		ErrKeyInvalidToken:       "Ongeldig of verlopen token",
		ErrKeyTokenRequired:      "Authenticatietoken is vereist",
		ErrKeyTimeout:            "Time-out van het verzoek",
	},
}
