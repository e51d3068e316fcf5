package messages

import (
	"fmt"
	"strings"

	i18n "github.com/goliatone/go-i18n"
)

// Supported lists the locales with catalogs.
var Supported = []string{"en", "zh"}

// Translations returns the static catalogs keyed by locale.
func Translations() i18n.Translations {
	return i18n.Translations{
		"en": newCatalog("en", english),
		"zh": newCatalog("zh", chinese),
	}
}

// Localizer renders message keys for a locale.
type Localizer struct {
	translator    i18n.Translator
	defaultLocale string
}

// NewLocalizer builds a Localizer over the static catalogs.
func NewLocalizer(defaultLocale string) (*Localizer, error) {
	if !isSupported(defaultLocale) {
		defaultLocale = "en"
	}
	translator, err := i18n.NewSimpleTranslator(
		i18n.NewStaticStore(Translations()),
		i18n.WithTranslatorDefaultLocale(defaultLocale),
	)
	if err != nil {
		return nil, fmt.Errorf("messages: translator: %w", err)
	}
	return &Localizer{translator: translator, defaultLocale: defaultLocale}, nil
}

// DefaultLocale returns the fallback locale.
func (l *Localizer) DefaultLocale() string {
	return l.defaultLocale
}

// Message translates key, returning key itself when no translation exists.
func (l *Localizer) Message(locale, key string, args ...any) string {
	if l == nil || l.translator == nil {
		return key
	}
	if !isSupported(locale) {
		locale = l.defaultLocale
	}
	out, err := l.translator.Translate(locale, key, args...)
	if err != nil || out == "" {
		return key
	}
	return out
}

// Negotiate picks the first supported locale from an Accept-Language header,
// falling back to the default locale.
func (l *Localizer) Negotiate(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := strings.TrimSpace(strings.SplitN(part, ";", 2)[0])
		if tag == "" {
			continue
		}
		base := strings.ToLower(strings.SplitN(tag, "-", 2)[0])
		if isSupported(base) {
			return base
		}
	}
	return l.DefaultLocale()
}

func isSupported(locale string) bool {
	for _, code := range Supported {
		if code == locale {
			return true
		}
	}
	return false
}

func newCatalog(locale string, entries map[string]string) *i18n.TranslationCatalog {
	catalog := &i18n.TranslationCatalog{
		Locale:   i18n.Locale{Code: locale},
		Messages: make(map[string]i18n.Message),
	}
	for key, template := range entries {
		msg := i18n.Message{}
		msg.SetContent(template)
		catalog.Messages[key] = msg
	}
	return catalog
}
