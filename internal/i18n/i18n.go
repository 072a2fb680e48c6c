// Package i18n provides internationalization support for the checkout
// service. It handles translation of user-facing messages and error messages.
package i18n

import (
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
)

const (
	// DefaultLocale is the default language locale (English).
	DefaultLocale = "en"
	// AcceptLanguageHeader is the HTTP header name for language preference.
	AcceptLanguageHeader = "Accept-Language"
)

var (
	defaultTranslator *Translator
	translatorOnce    sync.Once
)

// Translator handles message translation for different locales.
type Translator struct {
	messages map[string]map[string]string
}

// NewTranslator creates a new translator with the default messages.
func NewTranslator() *Translator {
	return &Translator{
		messages: getDefaultMessages(),
	}
}

// GetTranslator returns the default singleton translator instance.
func GetTranslator() *Translator {
	translatorOnce.Do(func() {
		defaultTranslator = NewTranslator()
	})
	return defaultTranslator
}

// Translate returns the translated message for the given key and locale.
// Falls back to DefaultLocale if the locale is not found.
func (t *Translator) Translate(key, locale string) string {
	if locale == "" {
		locale = DefaultLocale
	}

	localeMessages, ok := t.messages[locale]
	if !ok {
		localeMessages = t.messages[DefaultLocale]
	}

	msg, ok := localeMessages[key]
	if !ok {
		if defaultMessages := t.messages[DefaultLocale]; defaultMessages != nil {
			if fallbackMsg, exists := defaultMessages[key]; exists {
				return fallbackMsg
			}
		}
		return key
	}

	return msg
}

// GetLocale extracts the locale from the gin context.
// Checks Accept-Language header and falls back to DefaultLocale.
func GetLocale(c *gin.Context) string {
	acceptLang := c.GetHeader(AcceptLanguageHeader)
	if acceptLang == "" {
		return DefaultLocale
	}

	// Parse Accept-Language header (e.g., "hi-IN,hi;q=0.9,en;q=0.8")
	parts := strings.Split(acceptLang, ",")
	if len(parts) > 0 {
		lang := strings.TrimSpace(strings.Split(parts[0], ";")[0])
		if idx := strings.Index(lang, "-"); idx > 0 {
			lang = lang[:idx]
		}
		lang = strings.ToLower(lang)
		if _, ok := getDefaultMessages()[lang]; ok {
			return lang
		}
	}

	return DefaultLocale
}

// getDefaultMessages returns the default message translations.
func getDefaultMessages() map[string]map[string]string {
	return map[string]map[string]string{
		"en": {
			// Error messages
			"error.invalid_request":      "Invalid request",
			"error.invalid_request_body": "Invalid request body",
			"error.internal_error":       "An unexpected error occurred",
			"error.unauthorized":         "Unauthorized",
			"error.api_key_required":     "API key is required",
			"error.invalid_api_key":      "Invalid API key",
			"error.not_found":            "Not found",
			"error.rate_limit_exceeded":  "Too many requests, please try again later",
			"error.conflict":             "Conflict",
			"error.invalid_token":        "Invalid or expired token",
			"error.token_required":       "Authentication token is required",
			"error.timeout":              "Request timed out",

			"error.line_not_found":        "Item is not in the cart",
			"error.stock_limit":           "Requested quantity exceeds available stock",
			"error.empty_cart":            "Cart is empty",
			"error.no_session":            "No active checkout",
			"error.checkout_state":        "Operation not allowed at this checkout step",
			"error.stale_cart":            "Some items are no longer available",
			"error.confirm_in_flight":     "Order confirmation is already in progress",
			"error.payment_in_flight":     "An online payment from your previous attempt is still being processed",
			"error.unknown_gateway_order": "No payment is awaiting this gateway order",
			"error.payment_failed":        "Payment failed",
			"error.payment_unverified":    "Payment could not be verified",
			"error.order_record_failed":   "Payment succeeded but the order record failed; keep your payment reference",

			// Success messages
			"success.cart_updated":       "Cart updated",
			"success.checkout_confirmed": "Order placed successfully",
		},
		"hi": {
			// Error messages
			"error.invalid_request":      "अमान्य अनुरोध",
			"error.invalid_request_body": "अमान्य अनुरोध सामग्री",
			"error.internal_error":       "एक अप्रत्याशित त्रुटि हुई",
			"error.unauthorized":         "अनधिकृत",
			"error.api_key_required":     "API कुंजी आवश्यक है",
			"error.invalid_api_key":      "अमान्य API कुंजी",
			"error.not_found":            "नहीं मिला",
			"error.rate_limit_exceeded":  "बहुत अधिक अनुरोध, कृपया बाद में पुनः प्रयास करें",
			"error.conflict":             "विरोधाभास",
			"error.invalid_token":        "अमान्य या समाप्त टोकन",
			"error.token_required":       "प्रमाणीकरण टोकन आवश्यक है",
			"error.timeout":              "अनुरोध का समय समाप्त हो गया",

			"error.line_not_found":        "वस्तु कार्ट में नहीं है",
			"error.stock_limit":           "मांगी गई मात्रा उपलब्ध स्टॉक से अधिक है",
			"error.empty_cart":            "कार्ट खाली है",
			"error.no_session":            "कोई सक्रिय चेकआउट नहीं",
			"error.checkout_state":        "इस चेकआउट चरण पर यह कार्रवाई अनुमत नहीं है",
			"error.stale_cart":            "कुछ वस्तुएँ अब उपलब्ध नहीं हैं",
			"error.confirm_in_flight":     "ऑर्डर की पुष्टि पहले से चल रही है",
			"error.payment_in_flight":     "आपके पिछले प्रयास का ऑनलाइन भुगतान अभी भी संसाधित हो रहा है",
			"error.unknown_gateway_order": "इस गेटवे ऑर्डर के लिए कोई भुगतान प्रतीक्षित नहीं है",
			"error.payment_failed":        "भुगतान विफल रहा",
			"error.payment_unverified":    "भुगतान सत्यापित नहीं हो सका",
			"error.order_record_failed":   "भुगतान सफल रहा लेकिन ऑर्डर रिकॉर्ड विफल रहा; अपना भुगतान संदर्भ सुरक्षित रखें",

			// Success messages
			"success.cart_updated":       "कार्ट अपडेट हो गया",
			"success.checkout_confirmed": "ऑर्डर सफलतापूर्वक दिया गया",
		},
	}
}
