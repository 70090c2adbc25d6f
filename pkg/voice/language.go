package voice

import (
	"golang.org/x/text/language"
)

// Language is the display label of a voice-over language exactly as the
// extractor uses it when naming files.
type Language string

const (
	Chinese  Language = "Chinese"
	English  Language = "English(US)"
	Japanese Language = "Japanese"
	Korean   Language = "Korean"
)

// Languages lists the supported languages in extraction order.
func Languages() []Language {
	return []Language{Chinese, English, Japanese, Korean}
}

// SpeakerLanguage is the single language speaker names are sourced from,
// regardless of the clip's own language.
const SpeakerLanguage = English

// IsValid reports whether l is one of the supported languages.
func (l Language) IsValid() bool {
	switch l {
	case Chinese, English, Japanese, Korean:
		return true
	}
	return false
}

// TextMapFile returns the file name of the localization table for l.
func (l Language) TextMapFile() string {
	switch l {
	case Chinese:
		return "TextMapCHS.json"
	case English:
		return "TextMapEN.json"
	case Japanese:
		return "TextMapJP.json"
	case Korean:
		return "TextMapKR.json"
	}
	return ""
}

// Tag returns the BCP 47 tag for l, or language.Und when l is unset.
func (l Language) Tag() language.Tag {
	switch l {
	case Chinese:
		return language.SimplifiedChinese
	case English:
		return language.AmericanEnglish
	case Japanese:
		return language.Japanese
	case Korean:
		return language.Korean
	}
	return language.Und
}

// BaseCode returns the two-letter language code ("zh", "en", ...).
func (l Language) BaseCode() string {
	if !l.IsValid() {
		return ""
	}
	base, _ := l.Tag().Base()
	return base.String()
}
