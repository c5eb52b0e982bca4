// Package highlight turns analyzer findings into editor highlights and merges
// them into a non-overlapping set.
package highlight

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/google/uuid"

	"checktxt/internal/grammar"
	"checktxt/internal/lang"
	"checktxt/internal/ngram"
	"checktxt/internal/plagiarism"
	"checktxt/internal/style"
)

type Type string

const (
	Error      Type = "error"
	Style      Type = "style"
	Repeat     Type = "repeat"
	SEO        Type = "seo"
	Plagiarism Type = "plagiarism"
)

type Severity string

const (
	Info    Severity = "info"
	Warning Severity = "warning"
	Err     Severity = "error"
)

// Highlight offsets and lengths are in code points.
type Highlight struct {
	ID          string   `json:"id"`
	Offset      int      `json:"offset"`
	Length      int      `json:"length"`
	Type        Type     `json:"type"`
	Severity    Severity `json:"severity"`
	Message     string   `json:"message"`
	Suggestions []string `json:"suggestions,omitempty"`
}

func (h Highlight) End() int { return h.Offset + h.Length }

// IDFunc mints highlight IDs.
type IDFunc func() string

// Sequence returns IDs prefix-1, prefix-2, ... Each call starts a new counter,
// so IDs are only unique within one check.
func Sequence(prefix string) IDFunc {
	n := 0
	return func() string {
		n++
		return prefix + "-" + strconv.Itoa(n)
	}
}

// RandomIDs returns globally unique IDs.
func RandomIDs() IDFunc {
	return func() string { return uuid.NewString() }
}

const (
	maxReplacements   = 3
	maxRepeatResults  = 5
	maxRepeatPosition = 3
)

func FromGrammar(matches []grammar.Match, next IDFunc) []Highlight {
	out := make([]Highlight, 0, len(matches))
	for _, m := range matches {
		var suggestions []string
		if len(m.Replacements) > 0 {
			suggestions = m.Replacements[:min(maxReplacements, len(m.Replacements))]
		}
		out = append(out, Highlight{
			ID:          next(),
			Offset:      m.Offset,
			Length:      m.Length,
			Type:        Error,
			Severity:    Err,
			Message:     m.Message,
			Suggestions: suggestions,
		})
	}
	return out
}

func FromStyle(issues []style.Issue, next IDFunc) []Highlight {
	out := make([]Highlight, 0, len(issues))
	for _, is := range issues {
		var suggestions []string
		if is.Suggestion != "" {
			suggestions = []string{is.Suggestion}
		}
		out = append(out, Highlight{
			ID:          next(),
			Offset:      is.Offset,
			Length:      is.Length,
			Type:        Style,
			Severity:    Warning,
			Message:     is.Message,
			Suggestions: suggestions,
		})
	}
	return out
}

// FromNgrams marks the first few occurrences of the top repeats.
func FromNgrams(results []ngram.Result, language lang.Language, next IDFunc) []Highlight {
	var out []Highlight
	for _, r := range results[:min(maxRepeatResults, len(results))] {
		message := lang.Pick(language,
			fmt.Sprintf("Повтор: \"%s\" встречается %d раз", r.Ngram, r.Count),
			fmt.Sprintf("Repeat: \"%s\" occurs %d times", r.Ngram, r.Count),
		)
		for i, pos := range r.Positions[:min(maxRepeatPosition, len(r.Positions))] {
			length := 0
			if i < len(r.Lengths) {
				length = r.Lengths[i]
			}
			out = append(out, Highlight{
				ID:       next(),
				Offset:   pos,
				Length:   length,
				Type:     Repeat,
				Severity: Info,
				Message:  message,
			})
		}
	}
	return out
}

func FromPlagiarism(matches []plagiarism.Match, language lang.Language, next IDFunc) []Highlight {
	out := make([]Highlight, 0, len(matches))
	for _, m := range matches {
		out = append(out, Highlight{
			ID:       next(),
			Offset:   m.Offset,
			Length:   m.Length,
			Type:     Plagiarism,
			Severity: Warning,
			Message: lang.Pick(language,
				fmt.Sprintf("Возможный плагиат (%d источников)", len(m.Sources)),
				fmt.Sprintf("Possible plagiarism (%d sources)", len(m.Sources)),
			),
		})
	}
	return out
}

var priority = map[Type]int{
	Error:      4,
	Style:      3,
	Plagiarism: 2,
	Repeat:     1,
	SEO:        0,
}

// Merge keeps the highest priority highlight for every stretch of text. A
// highlight is accepted only if none of its characters is already claimed;
// it is never trimmed. The result is ordered by offset.
func Merge(highlights []Highlight) []Highlight {
	ranked := make([]Highlight, 0, len(highlights))
	for _, h := range highlights {
		if h.Offset < 0 || h.Length <= 0 {
			continue
		}
		ranked = append(ranked, h)
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return priority[ranked[i].Type] > priority[ranked[j].Type]
	})

	claimed := map[int]struct{}{}
	out := make([]Highlight, 0, len(ranked))
	for _, h := range ranked {
		if overlapsClaimed(claimed, h) {
			continue
		}
		for i := h.Offset; i < h.End(); i++ {
			claimed[i] = struct{}{}
		}
		out = append(out, h)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Offset < out[j].Offset })
	return out
}

func overlapsClaimed(claimed map[int]struct{}, h Highlight) bool {
	for i := h.Offset; i < h.End(); i++ {
		if _, ok := claimed[i]; ok {
			return true
		}
	}
	return false
}
