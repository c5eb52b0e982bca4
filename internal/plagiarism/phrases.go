package plagiarism

import (
	"slices"
	"strings"

	"checktxt/internal/chunk"
)

// ExtractPhrases picks search phrases from each sentence of at least minWords
// words: the leading maxWords words and, for sentences more than twice as
// long, a phrase from the middle. Phrases are unique and at most maxPhrases.
func ExtractPhrases(text string, minWords, maxWords, maxPhrases int) []string {
	phrases := []string{}
	add := func(p string) {
		if !slices.Contains(phrases, p) {
			phrases = append(phrases, p)
		}
	}

	for _, sentence := range chunk.Sentences(text) {
		words := strings.Fields(sentence)
		if len(words) >= minWords {
			n := min(maxWords, len(words))
			add(strings.Join(words[:n], " "))

			if len(words) > n*2 {
				mid := len(words)/2 - n/2
				add(strings.Join(words[mid:mid+n], " "))
			}
		}
		if len(phrases) >= maxPhrases {
			break
		}
	}

	if len(phrases) > maxPhrases {
		phrases = phrases[:maxPhrases]
	}
	return phrases
}
