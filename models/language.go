package models

// DefaultLanguage is assumed when a post declares no original language.
const DefaultLanguage = "en"

// supportedLanguages is the fixed allow-list of declared post languages.
var supportedLanguages = map[string]bool{
	"en": true, "si": true, "ta": true, "hi": true, "zh": true,
	"ja": true, "ko": true, "fr": true, "de": true, "es": true,
	"it": true, "pt": true, "ru": true, "ar": true, "nl": true,
	"sv": true, "no": true, "da": true, "fi": true, "pl": true,
	"tr": true, "th": true, "vi": true, "id": true,
}

// IsSupportedLanguage reports whether code is on the language allow-list.
func IsSupportedLanguage(code string) bool {
	return supportedLanguages[code]
}
