package domain

// Language is the full tag a translation is stored under
type Language string

const (
	LangHebrew  Language = "hebrew"
	LangEnglish Language = "english"
	LangItalian Language = "italian"
	LangSpanish Language = "spanish"
	LangFrench  Language = "french"
)

// Languages is the fixed order translations are written in
var Languages = []Language{LangHebrew, LangEnglish, LangItalian, LangSpanish, LangFrench}

// languageCodes maps the short keys used in JSON payloads to full tags
var languageCodes = map[string]Language{
	"he": LangHebrew,
	"en": LangEnglish,
	"it": LangItalian,
	"es": LangSpanish,
	"fr": LangFrench,
}

// LanguageFromCode resolves a short code ("he", "en", ...) to its full tag.
func LanguageFromCode(code string) (Language, bool) {
	l, ok := languageCodes[code]
	return l, ok
}

// Label returns a short display label
func (l Language) Label() string {
	switch l {
	case LangHebrew:
		return "HE"
	case LangEnglish:
		return "EN"
	case LangItalian:
		return "IT"
	case LangSpanish:
		return "ES"
	case LangFrench:
		return "FR"
	}
	return string(l)
}
