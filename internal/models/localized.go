package models

import "golang.org/x/text/language"

// LocalizedText представляет переводы строки по кодам языков.
// Базовый язык - en, дополнительные - am и ti.
type LocalizedText struct {
	En string `json:"en"`
	Am string `json:"am,omitempty"`
	Ti string `json:"ti,omitempty"`
}

var supportedLanguages = []language.Tag{
	language.English,
	language.Amharic,
	language.MustParse("ti"),
}

var languageMatcher = language.NewMatcher(supportedLanguages)

// Resolve возвращает перевод для запрошенного языка.
// Порядок отката: запрошенный язык -> en -> запасная строка.
func (t *LocalizedText) Resolve(lang, fallback string) string {
	if t == nil {
		return fallback
	}

	value := t.En
	if lang != "" {
		if tag, err := language.Parse(lang); err == nil {
			_, index, _ := languageMatcher.Match(tag)
			switch supportedLanguages[index] {
			case language.Amharic:
				value = t.Am
			case supportedLanguages[2]:
				value = t.Ti
			}
		}
	}

	if value == "" {
		value = t.En
	}
	if value == "" {
		value = fallback
	}
	return value
}
