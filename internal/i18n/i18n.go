// Package i18n holds the popup and CLI strings in every supported language.
package i18n

import (
	"fmt"
	"strings"
)

const (
	// DefaultLanguage is used for unknown languages and for keys a translation lacks.
	DefaultLanguage = "en"
	// BerneseGermanMessages is the Swiss German dialect spoken in the Canton of Bern.
	BerneseGermanMessages = "ch_be"
)

// catalogs maps a language code to its messages, in display order of GetSupportedLanguages.
var catalogs = []struct {
	language string
	messages map[string]string
}{
	{DefaultLanguage, englishMessages},
	{BerneseGermanMessages, berneseGermanMessages},
}

// Localizer formats messages for one language, falling back to English per key.
type Localizer struct {
	language string
	messages map[string]string
}

// NewLocalizer creates a localizer. Codes are matched case-insensitively and
// "ch-be" is accepted for "ch_be"; unknown codes get English.
func NewLocalizer(language string) *Localizer {
	code := normalize(language)
	return &Localizer{
		language: code,
		messages: getMessages(code),
	}
}

// T returns the message for key formatted with args, or key itself when no
// language defines it.
func (l *Localizer) T(key string, args ...interface{}) string {
	message, ok := l.messages[key]
	if !ok {
		message, ok = englishMessages[key]
	}
	if !ok {
		return key
	}

	if len(args) == 0 {
		return message
	}
	return fmt.Sprintf(message, args...)
}

// Language returns the language code the localizer resolved to.
func (l *Localizer) Language() string {
	return l.language
}

func GetSupportedLanguages() []string {
	languages := make([]string, 0, len(catalogs))
	for _, c := range catalogs {
		languages = append(languages, c.language)
	}
	return languages
}

// IsSupported reports whether a translation exists for the language code.
func IsSupported(language string) bool {
	for _, c := range catalogs {
		if c.language == language {
			return true
		}
	}
	return false
}

func normalize(language string) string {
	code := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(language)), "-", "_")
	if IsSupported(code) {
		return code
	}
	return DefaultLanguage
}

func getMessages(language string) map[string]string {
	for _, c := range catalogs {
		if c.language == language {
			return c.messages
		}
	}
	return englishMessages
}
