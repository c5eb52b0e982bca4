package workspace

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"checktxt/internal/lang"
)

const BaseDirName = "CheckTXT"

type Settings struct {
	Language     string   `json:"language"`
	PrivateMode  bool     `json:"private_mode"`
	SEOKeywords  []string `json:"seo_keywords"`
	Stemmer      string   `json:"stemmer"`
	Dictionaries []string `json:"dictionaries,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		Language:    string(lang.Auto),
		PrivateMode: false,
		SEOKeywords: []string{},
		Stemmer:     "heuristic",
	}
}

// AddKeyword stores the keyword trimmed and lowercased. It reports whether
// the list changed.
func (s *Settings) AddKeyword(keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	if keyword == "" || slices.Contains(s.SEOKeywords, keyword) {
		return false
	}
	s.SEOKeywords = append(s.SEOKeywords, keyword)
	return true
}

func (s *Settings) RemoveKeyword(keyword string) bool {
	keyword = strings.ToLower(strings.TrimSpace(keyword))
	i := slices.Index(s.SEOKeywords, keyword)
	if i < 0 {
		return false
	}
	s.SEOKeywords = slices.Delete(s.SEOKeywords, i, i+1)
	return true
}

func EnsureDefault() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return EnsureAt(filepath.Join(home, BaseDirName))
}

func EnsureAt(base string) (string, error) {
	paths := []string{
		filepath.Join(base, "configs"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "reports"),
	}

	for _, p := range paths {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return "", fmt.Errorf("mkdir %s: %w", p, err)
		}
	}

	if _, err := os.Stat(SettingsPath(base)); os.IsNotExist(err) {
		if err := SaveSettings(base, DefaultSettings()); err != nil {
			return "", err
		}
	}

	return base, nil
}

func SettingsPath(base string) string {
	return filepath.Join(base, "configs", "settings.json")
}

// DBPath is the default location of the check history database.
func DBPath(base string) string {
	return filepath.Join(base, "history.db")
}

// LoadSettings reads settings, filling defaults for a missing file or
// missing fields.
func LoadSettings(base string) (Settings, error) {
	s := DefaultSettings()
	raw, err := os.ReadFile(SettingsPath(base))
	if errors.Is(err, os.ErrNotExist) {
		return s, nil
	}
	if err != nil {
		return s, fmt.Errorf("read settings: %w", err)
	}
	if err := json.Unmarshal(raw, &s); err != nil {
		return DefaultSettings(), fmt.Errorf("parse settings: %w", err)
	}
	if s.SEOKeywords == nil {
		s.SEOKeywords = []string{}
	}
	return s, nil
}

func SaveSettings(base string, s Settings) error {
	raw, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal settings: %w", err)
	}
	if err := os.WriteFile(SettingsPath(base), raw, 0o644); err != nil {
		return fmt.Errorf("write settings: %w", err)
	}
	return nil
}
