package speech

import (
	"strings"
)

// LanguageAuto asks the model to detect the language.
const LanguageAuto = "auto"

var DefaultLanguages = map[string]string{
	"en": "english",
	"ru": "russian",
	"uk": "ukrainian",
}

// MapLanguage turns a request hint into a model language identifier. Empty
// and "auto" hints map to "", unknown hints pass through unchanged.
func MapLanguage(languages map[string]string, hint string) string {
	key := strings.ToLower(strings.TrimSpace(hint))

	if key == "" || key == LanguageAuto {
		return ""
	}

	if value, ok := languages[key]; ok {
		return value
	}

	return hint
}
