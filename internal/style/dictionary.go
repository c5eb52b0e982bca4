package style

import (
	"embed"
	"fmt"
	"os"
	"regexp"

	"gopkg.in/yaml.v3"

	"checktxt/internal/lang"
)

//go:embed dictionaries/*.yaml
var builtinFS embed.FS

// Boundary values reject a match whose span touches a Cyrillic letter on the
// given side. RE2 has no lookaround, so this replaces (?<![а-яё]) style guards.
const (
	BoundaryNone   = ""
	BoundaryBefore = "before"
	BoundaryAfter  = "after"
	BoundaryBoth   = "both"
)

type Entry struct {
	Pattern    string `yaml:"pattern"`
	Message    string `yaml:"message"`
	Suggestion string `yaml:"suggestion,omitempty"`
	Boundary   string `yaml:"boundary,omitempty"`
	Group      int    `yaml:"group,omitempty"`
}

type Section struct {
	Type    IssueType `yaml:"type"`
	Entries []Entry   `yaml:"entries"`
}

// Dictionary is a set of pattern sections for one language. Sections are
// applied in file order.
type Dictionary struct {
	Language lang.Language `yaml:"language"`
	Sections []Section     `yaml:"sections"`
}

// LoadDictionary reads a user dictionary in the same YAML layout as the
// built-in ones.
func LoadDictionary(path string) (Dictionary, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Dictionary{}, fmt.Errorf("read dictionary: %w", err)
	}
	d, err := parseDictionary(raw)
	if err != nil {
		return Dictionary{}, fmt.Errorf("dictionary %s: %w", path, err)
	}
	return d, nil
}

func parseDictionary(raw []byte) (Dictionary, error) {
	var d Dictionary
	if err := yaml.Unmarshal(raw, &d); err != nil {
		return Dictionary{}, fmt.Errorf("parse yaml: %w", err)
	}
	if d.Language != lang.Russian && d.Language != lang.English {
		return Dictionary{}, fmt.Errorf("unsupported language %q", string(d.Language))
	}
	for _, s := range d.Sections {
		if !s.Type.dictionaryType() {
			return Dictionary{}, fmt.Errorf("unsupported section type %q", string(s.Type))
		}
	}
	return d, nil
}

func builtinDictionaries() ([]Dictionary, error) {
	out := make([]Dictionary, 0, 2)
	for _, name := range []string{"dictionaries/ru.yaml", "dictionaries/en.yaml"} {
		raw, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", name, err)
		}
		d, err := parseDictionary(raw)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", name, err)
		}
		out = append(out, d)
	}
	return out, nil
}

type rule struct {
	typ        IssueType
	re         *regexp.Regexp
	message    string
	suggestion string
	boundary   string
	group      int
}

func compileEntry(typ IssueType, e Entry) (rule, error) {
	switch e.Boundary {
	case BoundaryNone, BoundaryBefore, BoundaryAfter, BoundaryBoth:
	default:
		return rule{}, fmt.Errorf("pattern %q: unknown boundary %q", e.Pattern, e.Boundary)
	}
	re, err := regexp.Compile("(?i)" + e.Pattern)
	if err != nil {
		return rule{}, fmt.Errorf("pattern %q: %w", e.Pattern, err)
	}
	if e.Group < 0 || e.Group > re.NumSubexp() {
		return rule{}, fmt.Errorf("pattern %q: group %d out of range", e.Pattern, e.Group)
	}
	return rule{
		typ:        typ,
		re:         re,
		message:    e.Message,
		suggestion: e.Suggestion,
		boundary:   e.Boundary,
		group:      e.Group,
	}, nil
}
