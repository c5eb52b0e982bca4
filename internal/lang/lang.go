package lang

import (
	"fmt"
	"strings"
)

type Language string

const (
	Unknown Language = ""
	Russian Language = "ru"
	English Language = "en"
	// Auto is accepted in requests and resolved through Detect before analysis.
	Auto Language = "auto"
)

func (l Language) String() string {
	if l == Unknown {
		return "unknown"
	}
	return string(l)
}

// Valid reports whether l is one of the analyzable languages.
func (l Language) Valid() bool {
	return l == Russian || l == English
}

func Parse(s string) (Language, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "ru":
		return Russian, nil
	case "en":
		return English, nil
	case "auto":
		return Auto, nil
	default:
		return Unknown, fmt.Errorf("unsupported language %q (want ru, en or auto)", s)
	}
}

// Pick returns ru when l is Russian and en otherwise.
func Pick(l Language, ru, en string) string {
	if l == Russian {
		return ru
	}
	return en
}
