package i18n

import (
	"strings"
)

type Locale string

const (
	UK Locale = "uk"
	EN Locale = "en"

	Default = UK
)

func Supported(code string) bool {
	switch Locale(strings.ToLower(code)) {
	case UK, EN:
		return true
	}
	return false
}

// Text holds one translation per locale.
type Text map[Locale]string

// Get returns the translation for locale, falling back to the default
// locale and then to any non-empty translation.
func (t Text) Get(locale Locale) string {
	if v := strings.TrimSpace(t[locale]); v != "" {
		return t[locale]
	}
	if v := strings.TrimSpace(t[Default]); v != "" {
		return t[Default]
	}
	for _, l := range []Locale{UK, EN} {
		if v := strings.TrimSpace(t[l]); v != "" {
			return t[l]
		}
	}
	for _, v := range t {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

// Empty reports whether no locale carries a value.
func (t Text) Empty() bool {
	for _, v := range t {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// ResolveLocale picks the locale from the explicit query value, then from the
// Accept-Language header, then the default.
func ResolveLocale(query, acceptLanguage string) Locale {
	if Supported(query) {
		return Locale(strings.ToLower(query))
	}

	for _, part := range strings.Split(acceptLanguage, ",") {
		tag := strings.TrimSpace(part)
		if i := strings.Index(tag, ";"); i >= 0 {
			tag = tag[:i]
		}
		if i := strings.IndexAny(tag, "-_"); i >= 0 {
			tag = tag[:i]
		}
		if Supported(tag) {
			return Locale(strings.ToLower(tag))
		}
	}

	return Default
}
