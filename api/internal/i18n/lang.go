package i18n

import (
	"strings"

	"golang.org/x/text/language"
)

// Lang is the closed set of UI languages.
type Lang string

const (
	AR Lang = "ar"
	FR Lang = "fr"
	EN Lang = "en"
)

// Default is the language the app starts in.
const Default = AR

var all = []Lang{AR, FR, EN}

var supportedTags = []language.Tag{
	language.Arabic,
	language.French,
	language.English,
}

var tagMatcher = language.NewMatcher(supportedTags)

// All returns the supported languages in display order.
func All() []Lang {
	out := make([]Lang, len(all))
	copy(out, all)
	return out
}

// Parse accepts an exact language code ("ar", "FR", " en ").
func Parse(s string) (Lang, bool) {
	switch Lang(strings.ToLower(strings.TrimSpace(s))) {
	case AR:
		return AR, true
	case FR:
		return FR, true
	case EN:
		return EN, true
	}
	return "", false
}

// Match maps an arbitrary BCP 47 code (e.g. Telegram's "fr-CA" or an
// Accept-Language header) onto the closest supported language.
// Unknown or empty input falls back to def.
func Match(code string, def Lang) Lang {
	code = strings.TrimSpace(code)
	if code == "" {
		return def
	}
	if l, ok := Parse(code); ok {
		return l
	}
	tags, _, err := language.ParseAcceptLanguage(code)
	if err != nil || len(tags) == 0 {
		return def
	}
	_, idx, conf := tagMatcher.Match(tags...)
	if conf == language.No {
		return def
	}
	return all[idx]
}

// RTL reports whether the language is written right-to-left.
func (l Lang) RTL() bool { return l == AR }

// Dir returns the HTML dir attribute value.
func (l Lang) Dir() string {
	if l.RTL() {
		return "rtl"
	}
	return "ltr"
}

// EnglishName is used inside LLM prompts.
func (l Lang) EnglishName() string {
	switch l {
	case AR:
		return "Arabic"
	case FR:
		return "French"
	default:
		return "English"
	}
}
