package chunk

import (
	"regexp"
	"strings"
)

var (
	sentenceEnd    = regexp.MustCompile(`[.!?]+`)
	paragraphBreak = regexp.MustCompile(`\n\s*\n`)
)

// Sentences splits text on runs of terminal punctuation. Fragments are trimmed
// and empty ones dropped.
func Sentences(text string) []string {
	return splitTrimmed(sentenceEnd, text)
}

// Paragraphs splits text on blank lines.
func Paragraphs(text string) []string {
	return splitTrimmed(paragraphBreak, text)
}

// Fields returns whitespace-delimited words. This is a volume count, looser
// than the tokenizer: "don't," is one field.
func Fields(text string) []string {
	return strings.Fields(text)
}

func splitTrimmed(sep *regexp.Regexp, text string) []string {
	parts := sep.Split(text, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
