package lang

import (
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
)

const minDetectLength = 20

// Detect classifies text as Russian or English. It is advisory only: analyzers
// always take an explicit language.
func Detect(text string) Language {
	if utf8.RuneCountInString(strings.TrimSpace(text)) < minDetectLength {
		return Unknown
	}

	switch whatlanggo.DetectLang(text) {
	case whatlanggo.Rus:
		return Russian
	case whatlanggo.Eng:
		return English
	default:
		return detectByCharacters(text)
	}
}

// Is reports whether text is detected as language l.
func Is(text string, l Language) bool {
	return Detect(text) == l
}

func detectByCharacters(text string) Language {
	var cyrillic, latin int
	for _, r := range text {
		switch {
		case IsCyrillicLetter(r):
			cyrillic++
		case (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z'):
			latin++
		}
	}

	total := cyrillic + latin
	if total == 0 {
		return Unknown
	}

	ratio := float64(cyrillic) / float64(total)
	switch {
	case ratio > 0.5:
		return Russian
	case ratio < 0.2:
		return English
	default:
		return Unknown
	}
}

// IsCyrillicLetter matches the Russian alphabet only (а-я and ё in both cases).
func IsCyrillicLetter(r rune) bool {
	return (r >= 'а' && r <= 'я') || (r >= 'А' && r <= 'Я') || r == 'ё' || r == 'Ё'
}
