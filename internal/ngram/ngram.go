// Package ngram finds repeated word sequences of one to three words.
package ngram

import (
	"sort"
	"strings"
	"unicode"

	"checktxt/internal/lang"
	"checktxt/internal/tokenize"
)

const (
	DefaultMinCount = 3
	DefaultMaxN     = 3
	MaxResults      = 20
)

type Result struct {
	Ngram     string `json:"ngram"`
	Count     int    `json:"count"`
	Positions []int  `json:"positions"`
	// Lengths holds the code-point span of each occurrence in the source text.
	Lengths []int `json:"lengths"`
}

type group struct {
	result Result
	words  int
}

func AnalyzeDefault(text string, language lang.Language) []Result {
	return Analyze(text, language, DefaultMinCount, DefaultMaxN)
}

// Analyze groups identical n-gram windows, drops rare and stop-word-only groups
// and ranks the rest by count, then by number of words. An n-gram that is a
// substring of an already accepted one is suppressed.
func Analyze(text string, language lang.Language, minCount, maxN int) []Result {
	tokens := tokenize.Tokenize(text)
	if maxN < 1 || len(tokens) < maxN {
		return []Result{}
	}
	stop := stopWordsFor(language)

	var candidates []group
	for n := 1; n <= maxN; n++ {
		for _, g := range windows(tokens, n) {
			if g.result.Count < minCount {
				continue
			}
			if allStopWords(g.result.Ngram, stop) {
				continue
			}
			candidates = append(candidates, g)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].result.Count != candidates[j].result.Count {
			return candidates[i].result.Count > candidates[j].result.Count
		}
		return candidates[i].words > candidates[j].words
	})

	out := []Result{}
	for _, c := range candidates {
		if containedInAccepted(c.result.Ngram, out) {
			continue
		}
		out = append(out, c.result)
		if len(out) == MaxResults {
			break
		}
	}
	return out
}

// windows builds every contiguous n-token window, grouped by joined text in
// first-seen order.
func windows(tokens []tokenize.Token, n int) []group {
	if len(tokens) < n {
		return nil
	}
	byKey := map[string]int{}
	var groups []group
	words := make([]string, n)
	for i := 0; i+n <= len(tokens); i++ {
		for j := 0; j < n; j++ {
			words[j] = tokens[i+j].Word
		}
		key := strings.Join(words, " ")
		first, last := tokens[i], tokens[i+n-1]

		idx, ok := byKey[key]
		if !ok {
			idx = len(groups)
			byKey[key] = idx
			groups = append(groups, group{result: Result{Ngram: key}, words: n})
		}
		r := &groups[idx].result
		r.Positions = append(r.Positions, first.Offset)
		r.Lengths = append(r.Lengths, last.End()-first.Offset)
		r.Count++
	}
	return groups
}

// allStopWords covers both unigram and multi-word filtering: a single stop word
// is dropped, and a longer n-gram only when none of its words carry content.
func allStopWords(ngram string, stop map[string]struct{}) bool {
	for _, w := range strings.Split(ngram, " ") {
		if _, ok := stop[w]; !ok {
			return false
		}
	}
	return true
}

// containedInAccepted compares joined strings textually, so "ой" inside
// "мой дом" also counts as contained.
func containedInAccepted(ngram string, accepted []Result) bool {
	for _, a := range accepted {
		if a.Ngram != ngram && strings.Contains(a.Ngram, ngram) {
			return true
		}
	}
	return false
}

// FindPhrasePositions returns every code-point offset where phrase occurs in
// text, case-insensitively, including overlapping occurrences.
func FindPhrasePositions(text, phrase string) []int {
	hay := lowerRunes(text)
	needle := lowerRunes(phrase)
	positions := []int{}
	if len(needle) == 0 {
		return positions
	}
	for i := 0; i+len(needle) <= len(hay); i++ {
		if runesEqual(hay[i:i+len(needle)], needle) {
			positions = append(positions, i)
		}
	}
	return positions
}

// lowerRunes lowercases rune by rune so offsets stay aligned with the input.
func lowerRunes(s string) []rune {
	rs := []rune(s)
	for i, r := range rs {
		rs[i] = unicode.ToLower(r)
	}
	return rs
}

func runesEqual(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
