// Package style flags wordy, clichéd, colloquial and passive phrasing plus
// shouting (CAPS runs, repeated exclamation marks).
package style

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"checktxt/internal/lang"
	"checktxt/internal/tokenize"
)

type IssueType string

const (
	Bureaucratic IssueType = "bureaucratic"
	Colloquial   IssueType = "colloquial"
	Cliche       IssueType = "cliche"
	Caps         IssueType = "caps"
	Passive      IssueType = "passive"
	Exclamation  IssueType = "exclamation"
)

// IssueTypes lists every type in display order.
var IssueTypes = []IssueType{Bureaucratic, Colloquial, Cliche, Caps, Passive, Exclamation}

func (t IssueType) dictionaryType() bool {
	switch t {
	case Bureaucratic, Colloquial, Cliche, Passive:
		return true
	}
	return false
}

// Issue offsets and lengths are in code points.
type Issue struct {
	Type       IssueType `json:"type"`
	Offset     int       `json:"offset"`
	Length     int       `json:"length"`
	Text       string    `json:"text"`
	Message    string    `json:"message"`
	Suggestion string    `json:"suggestion,omitempty"`
}

var (
	capsRun        = regexp.MustCompile(`[A-ZА-ЯЁ]{4,}`)
	exclamationRun = regexp.MustCompile(`!{2,}|[!?]{2,}`)
)

// Shorter CAPS runs are treated as acronyms.
const maxAcronymRunes = 5

// Checker holds compiled rules per language.
type Checker struct {
	ru []rule
	en []rule
}

var defaultChecker = mustDefaultChecker()

func mustDefaultChecker() *Checker {
	c, err := NewChecker()
	if err != nil {
		panic(err)
	}
	return c
}

// NewChecker compiles the built-in dictionaries followed by extra ones.
// Extra rules apply after the built-in rules of the same language.
func NewChecker(extra ...Dictionary) (*Checker, error) {
	builtin, err := builtinDictionaries()
	if err != nil {
		return nil, err
	}
	c := &Checker{}
	for _, d := range append(builtin, extra...) {
		for _, s := range d.Sections {
			for _, e := range s.Entries {
				r, err := compileEntry(s.Type, e)
				if err != nil {
					return nil, fmt.Errorf("%s %s: %w", d.Language, s.Type, err)
				}
				if d.Language == lang.Russian {
					c.ru = append(c.ru, r)
				} else {
					c.en = append(c.en, r)
				}
			}
		}
	}
	return c, nil
}

// Check runs the built-in dictionaries.
func Check(text string, language lang.Language) []Issue {
	return defaultChecker.Check(text, language)
}

// Check returns issues sorted by offset. When several issues start at the
// same offset only the first found is kept.
func (c *Checker) Check(text string, language lang.Language) []Issue {
	idx := tokenize.NewIndex(text)
	rules := c.en
	if language == lang.Russian {
		rules = c.ru
	}

	var all []Issue
	for _, r := range rules {
		all = append(all, r.find(text, idx)...)
	}
	all = append(all, capsIssues(text, idx, language)...)
	all = append(all, exclamationIssues(text, idx, language)...)

	sort.SliceStable(all, func(i, j int) bool { return all[i].Offset < all[j].Offset })

	out := make([]Issue, 0, len(all))
	last := -1
	for _, is := range all {
		if is.Offset == last {
			continue
		}
		out = append(out, is)
		last = is.Offset
	}
	return out
}

func (r rule) find(text string, idx *tokenize.Index) []Issue {
	if r.boundary == BoundaryNone {
		var out []Issue
		for _, loc := range r.re.FindAllStringSubmatchIndex(text, -1) {
			start, end := loc[2*r.group], loc[2*r.group+1]
			if start < 0 {
				continue
			}
			out = append(out, newIssue(r.typ, text, idx, start, end, r.message, r.suggestion))
		}
		return out
	}
	return r.findGuarded(text, idx)
}

// findGuarded scans left to right. A match rejected by the boundary guard is
// retried one character further on, the way a lookbehind failure would be.
func (r rule) findGuarded(text string, idx *tokenize.Index) []Issue {
	var out []Issue
	pos := 0
	for pos <= len(text) {
		loc := r.re.FindStringSubmatchIndex(text[pos:])
		if loc == nil {
			break
		}
		matchStart, matchEnd := pos+loc[0], pos+loc[1]
		spanStart, spanEnd := loc[2*r.group], loc[2*r.group+1]

		if spanStart >= 0 {
			spanStart += pos
			spanEnd += pos
			if r.boundaryOK(text, spanStart, spanEnd) {
				out = append(out, newIssue(r.typ, text, idx, spanStart, spanEnd, r.message, r.suggestion))
				pos = advance(text, matchStart, matchEnd)
				continue
			}
		}
		pos = advance(text, matchStart, matchStart)
	}
	return out
}

func (r rule) boundaryOK(text string, start, end int) bool {
	if r.boundary == BoundaryBefore || r.boundary == BoundaryBoth {
		if prev, size := utf8.DecodeLastRuneInString(text[:start]); size > 0 && lang.IsCyrillicLetter(prev) {
			return false
		}
	}
	if r.boundary == BoundaryAfter || r.boundary == BoundaryBoth {
		if next, size := utf8.DecodeRuneInString(text[end:]); size > 0 && lang.IsCyrillicLetter(next) {
			return false
		}
	}
	return true
}

// advance returns the next scan position, stepping over one rune when the
// match was empty or rejected.
func advance(text string, start, end int) int {
	if end > start {
		return end
	}
	if start >= len(text) {
		return len(text) + 1
	}
	_, size := utf8.DecodeRuneInString(text[start:])
	return start + size
}

func capsIssues(text string, idx *tokenize.Index, language lang.Language) []Issue {
	message := lang.Pick(language, "Избыточное использование заглавных букв", "Excessive use of capital letters")
	var out []Issue
	for _, loc := range capsRun.FindAllStringIndex(text, -1) {
		match := text[loc[0]:loc[1]]
		if utf8.RuneCountInString(match) <= maxAcronymRunes {
			continue
		}
		first, size := utf8.DecodeRuneInString(match)
		suggestion := string(first) + strings.ToLower(match[size:])
		out = append(out, newIssue(Caps, text, idx, loc[0], loc[1], message, suggestion))
	}
	return out
}

func exclamationIssues(text string, idx *tokenize.Index, language lang.Language) []Issue {
	message := lang.Pick(language, "Избыточные восклицательные/вопросительные знаки", "Excessive exclamation/question marks")
	var out []Issue
	for _, loc := range exclamationRun.FindAllStringIndex(text, -1) {
		match := text[loc[0]:loc[1]]
		suggestion := "?"
		if strings.Contains(match, "!") {
			suggestion = "!"
		}
		out = append(out, newIssue(Exclamation, text, idx, loc[0], loc[1], message, suggestion))
	}
	return out
}

func newIssue(typ IssueType, text string, idx *tokenize.Index, start, end int, message, suggestion string) Issue {
	matched := text[start:end]
	return Issue{
		Type:       typ,
		Offset:     idx.Rune(start),
		Length:     utf8.RuneCountInString(matched),
		Text:       matched,
		Message:    message,
		Suggestion: suggestion,
	}
}

var labels = map[IssueType][2]string{
	Bureaucratic: {"Канцеляризмы", "Wordy phrases"},
	Colloquial:   {"Разговорные слова", "Colloquial language"},
	Cliche:       {"Клише", "Cliches"},
	Caps:         {"КАПС", "CAPS"},
	Passive:      {"Пассивный залог", "Passive voice"},
	Exclamation:  {"Восклицания", "Exclamations"},
}

// TypeLabel returns a display name for t.
func TypeLabel(t IssueType, language lang.Language) string {
	l, ok := labels[t]
	if !ok {
		return string(t)
	}
	return lang.Pick(language, l[0], l[1])
}

// Group buckets issues by type. Every type has an entry, possibly empty.
func Group(issues []Issue) map[IssueType][]Issue {
	out := make(map[IssueType][]Issue, len(IssueTypes))
	for _, t := range IssueTypes {
		out[t] = []Issue{}
	}
	for _, is := range issues {
		out[is.Type] = append(out[is.Type], is)
	}
	return out
}
