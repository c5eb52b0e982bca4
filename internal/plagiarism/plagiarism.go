// Package plagiarism estimates text uniqueness by searching the web for
// phrases taken from it.
package plagiarism

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"checktxt/internal/tokenize"
)

// ErrSearchFailed is returned when every phrase search failed.
var ErrSearchFailed = errors.New("plagiarism search failed")

type Options struct {
	MinWords   int
	MaxWords   int
	MaxPhrases int
	// Delay is the pause between consecutive searches.
	Delay time.Duration
}

func DefaultOptions() Options {
	return Options{MinWords: 5, MaxWords: 8, MaxPhrases: 20, Delay: 200 * time.Millisecond}
}

// Match offsets are code points; Offset is -1 when the phrase could not be
// located verbatim in the text.
type Match struct {
	Phrase  string   `json:"phrase"`
	Offset  int      `json:"offset"`
	Length  int      `json:"length"`
	Sources []Source `json:"sources"`
}

type Result struct {
	Uniqueness     int     `json:"uniqueness"`
	CheckedPhrases int     `json:"checkedPhrases"`
	Matches        []Match `json:"matches"`
}

// Check searches every extracted phrase. Failed searches are skipped; only
// when all of them fail is an error returned alongside the partial result.
func Check(ctx context.Context, text string, searcher Searcher, opts Options) (Result, error) {
	phrases := ExtractPhrases(text, opts.MinWords, opts.MaxWords, opts.MaxPhrases)
	res := Result{Uniqueness: 100, CheckedPhrases: len(phrases), Matches: []Match{}}
	if len(phrases) == 0 {
		return res, nil
	}

	var failures int
	var lastErr error
	for i, phrase := range phrases {
		if i > 0 && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return res, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}
		sources, err := searcher.Search(ctx, phrase)
		if err != nil {
			if ctx.Err() != nil {
				return res, ctx.Err()
			}
			failures++
			lastErr = err
			continue
		}
		if len(sources) == 0 {
			continue
		}
		res.Matches = append(res.Matches, Match{
			Phrase:  phrase,
			Offset:  locate(text, phrase),
			Length:  utf8.RuneCountInString(phrase),
			Sources: sources,
		})
	}

	res.Uniqueness = Uniqueness(len(res.Matches), len(phrases))
	if failures == len(phrases) {
		return res, fmt.Errorf("%w: %v", ErrSearchFailed, lastErr)
	}
	return res, nil
}

// Uniqueness is the share of phrases with no match, as a whole percentage.
func Uniqueness(matches, phrases int) int {
	if phrases == 0 || matches == 0 {
		return 100
	}
	return int(math.Round(math.Max(0, 100-float64(matches)/float64(phrases)*100)))
}

func locate(text, phrase string) int {
	i := strings.Index(text, phrase)
	if i < 0 {
		return -1
	}
	return utf8.RuneCountInString(text[:i])
}

// Similarity is the word overlap (Jaccard index) of phrase and snippet as a
// percentage with one decimal.
func Similarity(phrase, snippet string) float64 {
	a := wordSet(phrase)
	b := wordSet(snippet)
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	shared := 0
	for w := range a {
		if _, ok := b[w]; ok {
			shared++
		}
	}
	union := len(a) + len(b) - shared
	return roundTenth(float64(shared) / float64(union) * 100)
}

func wordSet(s string) map[string]struct{} {
	out := map[string]struct{}{}
	for _, tok := range tokenize.Tokenize(s) {
		out[tok.Word] = struct{}{}
	}
	return out
}

func roundTenth(v float64) float64 {
	return math.Round(v*10) / 10
}
