package i18n

// Text holds one string per supported language. Build values with T so the
// compiler enforces that no language is missing.
type Text struct {
	AR string `json:"ar"`
	FR string `json:"fr"`
	EN string `json:"en"`
}

func T(ar, fr, en string) Text {
	return Text{AR: ar, FR: fr, EN: en}
}

// Same uses one string for every language (user-typed subject names).
func Same(s string) Text {
	return T(s, s, s)
}

// In returns the translation for l, falling back to Arabic (the app default)
// when l is not a known language.
func (t Text) In(l Lang) string {
	switch l {
	case FR:
		return t.FR
	case EN:
		return t.EN
	default:
		return t.AR
	}
}
