package check

import (
	"os"
	"strconv"
	"strings"
	"time"

	"checktxt/internal/lang"
)

type Config struct {
	MaxChars              int
	Workers               int
	DefaultLanguage       lang.Language
	LanguageToolURL       string
	LanguageToolTimeoutMs int
	SearchProvider        string
	SerperAPIKey          string
	SerpAPIKey            string
	PlagiarismDelayMs     int
	Stemmer               string
	DBPath                string
}

func DefaultConfig() Config {
	return Config{
		MaxChars:              getenvInt("CHECKTXT_MAX_CHARS", 15000),
		Workers:               getenvInt("CHECKTXT_WORKERS", 4),
		DefaultLanguage:       getenvLanguage("CHECKTXT_DEFAULT_LANGUAGE", lang.Russian),
		LanguageToolURL:       getenv("LANGUAGETOOL_URL", "https://api.languagetool.org"),
		LanguageToolTimeoutMs: getenvInt("CHECKTXT_LT_TIMEOUT_MS", 15000),
		SearchProvider:        getenv("SEARCH_PROVIDER", "serper"),
		SerperAPIKey:          getenv("SERPER_API_KEY", ""),
		SerpAPIKey:            getenv("SERP_API_KEY", ""),
		PlagiarismDelayMs:     getenvInt("CHECKTXT_PLAG_DELAY_MS", 200),
		Stemmer:               getenv("CHECKTXT_STEMMER", "heuristic"),
		DBPath:                getenv("CHECKTXT_DB", ""),
	}
}

func (c Config) languageToolTimeout() time.Duration {
	return time.Duration(c.LanguageToolTimeoutMs) * time.Millisecond
}

func (c Config) plagiarismDelay() time.Duration {
	return time.Duration(c.PlagiarismDelayMs) * time.Millisecond
}

func getenv(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

func getenvInt(name string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getenvLanguage(name string, fallback lang.Language) lang.Language {
	l, err := lang.Parse(os.Getenv(name))
	if err != nil || !l.Valid() {
		return fallback
	}
	return l
}
