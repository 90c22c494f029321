package salin

import "strings"

const (
	// DefaultSourceLang is the ISO 639-3 code for Ata Manobo.
	DefaultSourceLang = "atd"
	// DefaultTargetLang is English.
	DefaultTargetLang = "en"
)

// LanguageNames maps language codes to human-readable names for prompts.
var LanguageNames = map[string]string{
	// Manobo family (Mindanao)
	"atd": "Ata Manobo",
	"mbt": "Matigsalug Manobo",
	"mkx": "Kinamiging Manobo",
	"msm": "Agusan Manobo",
	"mta": "Cotabato Manobo",
	"obo": "Obo Manobo",

	// Contact and target languages
	"en":  "English",
	"ceb": "Cebuano",
	"tl":  "Tagalog",
	"fil": "Filipino",
}

// GetLanguageName returns the human-readable name for a language code.
// Region suffixes are ignored ("en_US" -> "English"); unknown codes fall
// back to the code itself.
func GetLanguageName(langCode string) string {
	if name, ok := LanguageNames[langCode]; ok {
		return name
	}
	if name, ok := LanguageNames[BaseLang(langCode)]; ok {
		return name
	}
	return langCode
}

// BaseLang extracts the lowercase base language code (e.g., "en" from "en_US" or "en-GB").
func BaseLang(langCode string) string {
	lang := strings.ToLower(langCode)
	if idx := strings.IndexAny(lang, "-_"); idx >= 0 {
		lang = lang[:idx]
	}
	return lang
}
