// ABOUTME: Site locales and account language codes with conversions
// ABOUTME: Mirrors the site's i18n routing: en is unprefixed, tr lives under /tr

package locale

import (
	"fmt"
	"strings"
)

// Locale is a UI locale.
type Locale string

const (
	English Locale = "en"
	Turkish Locale = "tr"

	Default = English
)

// LanguageCode is the account-level language preference carried in tokens.
type LanguageCode string

const (
	EN LanguageCode = "EN"
	TR LanguageCode = "TR"
)

// ParseLocale accepts en/tr in any case. Anything else is the default.
func ParseLocale(s string) Locale {
	if strings.EqualFold(strings.TrimSpace(s), string(Turkish)) {
		return Turkish
	}
	return Default
}

// ParseLocaleStrict is ParseLocale for user input, rejecting unknown values.
func ParseLocaleStrict(s string) (Locale, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "en":
		return English, nil
	case "tr":
		return Turkish, nil
	}
	return "", fmt.Errorf("unsupported locale %q (want en or tr)", s)
}

// ParseLanguageCode normalizes "tr"/"TR"/"en"/"EN". ok is false otherwise.
func ParseLanguageCode(s string) (LanguageCode, bool) {
	switch LanguageCode(strings.ToUpper(strings.TrimSpace(s))) {
	case EN:
		return EN, true
	case TR:
		return TR, true
	}
	return "", false
}

// FromLocale maps en to EN and everything else to TR.
func FromLocale(l Locale) LanguageCode {
	if l == English {
		return EN
	}
	return TR
}

// Locale returns the UI locale for c, or "" for an unknown code.
func (c LanguageCode) Locale() Locale {
	switch c {
	case EN:
		return English
	case TR:
		return Turkish
	}
	return ""
}

// LocalizePath rewrites a site path for target. Any existing /tr prefix is
// removed first.
func LocalizePath(path string, target Locale) string {
	if path == "" || path[0] != '/' {
		path = "/" + path
	}

	prefix := "/" + string(Turkish)
	if path == prefix {
		path = "/"
	} else if strings.HasPrefix(path, prefix+"/") {
		path = strings.TrimPrefix(path, prefix)
	}

	if target != Turkish {
		return path
	}
	if path == "/" {
		return prefix
	}
	return prefix + path
}
