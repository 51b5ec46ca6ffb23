package voice

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// supportedLanguages is the language set the inference model accepts.
var supportedLanguages = map[string]string{
	"en":    "English",
	"es":    "Spanish",
	"fr":    "French",
	"de":    "German",
	"it":    "Italian",
	"pt":    "Portuguese",
	"pl":    "Polish",
	"tr":    "Turkish",
	"ru":    "Russian",
	"nl":    "Dutch",
	"cs":    "Czech",
	"ar":    "Arabic",
	"zh-cn": "Chinese (Simplified)",
	"ja":    "Japanese",
}

// SupportedLanguages returns the language code to display name map.
func SupportedLanguages() map[string]string {
	ret := make(map[string]string, len(supportedLanguages))
	for code, name := range supportedLanguages {
		ret[code] = name
	}
	return ret
}

// IsSupportedLanguage reports whether the model can synthesize code.
func IsSupportedLanguage(code string) bool {
	_, ok := supportedLanguages[strings.ToLower(code)]
	return ok
}

// DetectLanguage guesses the language of text, falling back to English
// when detection lands outside the model's supported set.
func DetectLanguage(text string) string {
	code := whatlanggo.DetectLang(text).Iso6391()
	if code == "zh" {
		code = "zh-cn"
	}
	if !IsSupportedLanguage(code) {
		return "en"
	}
	return code
}
