// Package seo measures keyword density over a document and its paragraphs and
// extracts the most frequent content words.
package seo

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"checktxt/internal/chunk"
	"checktxt/internal/lang"
)

const (
	MinKeywordDensity = 0.5
	MaxKeywordDensity = 3.0
	TopLemmasCount    = 10

	minWordLength      = 3
	minLemmaLength     = 3
	minSEOWords        = 300
	minParagraphs      = 3
	paragraphsFromWord = 200
	maxParagraphWords  = 150
)

type KeywordAnalysis struct {
	Word        string    `json:"word"`
	Count       int       `json:"count"`
	Density     float64   `json:"density"`
	ByParagraph []float64 `json:"byParagraph"`
}

type TopLemma struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type Result struct {
	Keywords        []KeywordAnalysis `json:"keywords"`
	TopLemmas       []TopLemma        `json:"topLemmas"`
	Recommendations []string          `json:"recommendations"`
}

func Analyze(text string, language lang.Language, keywords []string) Result {
	return AnalyzeWith(text, language, keywords, Lemmatize)
}

func AnalyzeWith(text string, language lang.Language, keywords []string, lemmatize Lemmatizer) Result {
	if lemmatize == nil {
		lemmatize = Lemmatize
	}
	paragraphs := chunk.Paragraphs(text)
	words := extractWords(text)
	paragraphWords := make([][]string, len(paragraphs))
	for i, p := range paragraphs {
		paragraphWords[i] = extractWords(p)
	}

	analyses := []KeywordAnalysis{}
	for _, kw := range keywords {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		m := newMatcher(kw, language, lemmatize)
		count := m.count(words)
		byParagraph := make([]float64, len(paragraphs))
		for i, pw := range paragraphWords {
			byParagraph[i] = round2(density(m.count(pw), len(pw)))
		}
		analyses = append(analyses, KeywordAnalysis{
			Word:        kw,
			Count:       count,
			Density:     round2(density(count, len(words))),
			ByParagraph: byParagraph,
		})
	}

	return Result{
		Keywords:        analyses,
		TopLemmas:       topLemmas(words, language, lemmatize, TopLemmasCount),
		Recommendations: recommendations(analyses, len(words), paragraphWords, language),
	}
}

type matcher struct {
	raw       string
	lemma     string
	language  lang.Language
	lemmatize Lemmatizer
}

func newMatcher(keyword string, language lang.Language, lemmatize Lemmatizer) matcher {
	return matcher{
		raw:       strings.ToLower(keyword),
		lemma:     lemmatize(keyword, language),
		language:  language,
		lemmatize: lemmatize,
	}
}

// count matches on the lemma, or on the raw keyword as a substring of the word
// to catch compounds the stemmer misses.
func (m matcher) count(words []string) int {
	n := 0
	for _, w := range words {
		if m.lemmatize(w, m.language) == m.lemma || strings.Contains(w, m.raw) {
			n++
		}
	}
	return n
}

func density(matches, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matches) / float64(total) * 100
}

func topLemmas(words []string, language lang.Language, lemmatize Lemmatizer, limit int) []TopLemma {
	stop := seoStopWordsFor(language)
	index := map[string]int{}
	var groups []TopLemma
	for _, w := range words {
		if _, ok := stop[w]; ok {
			continue
		}
		lemma := lemmatize(w, language)
		if utf8.RuneCountInString(lemma) < minLemmaLength {
			continue
		}
		i, ok := index[lemma]
		if !ok {
			i = len(groups)
			index[lemma] = i
			groups = append(groups, TopLemma{Word: w})
		}
		groups[i].Count++
	}

	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Count > groups[j].Count
	})
	if len(groups) > limit {
		groups = groups[:limit]
	}
	if groups == nil {
		groups = []TopLemma{}
	}
	return groups
}

func recommendations(keywords []KeywordAnalysis, wordCount int, paragraphWords [][]string, language lang.Language) []string {
	out := []string{}
	bounds := formatNumber(MinKeywordDensity) + "-" + formatNumber(MaxKeywordDensity)
	for _, kw := range keywords {
		switch {
		case kw.Density < MinKeywordDensity:
			out = append(out, lang.Pick(language,
				fmt.Sprintf("Плотность ключа \"%s\" (%.1f%%) слишком низкая. Рекомендуется %s%%.", kw.Word, kw.Density, bounds),
				fmt.Sprintf("Keyword \"%s\" density (%.1f%%) is too low. Recommended %s%%.", kw.Word, kw.Density, bounds),
			))
		case kw.Density > MaxKeywordDensity:
			out = append(out, lang.Pick(language,
				fmt.Sprintf("Плотность ключа \"%s\" (%.1f%%) слишком высокая. Возможно переспамлено.", kw.Word, kw.Density),
				fmt.Sprintf("Keyword \"%s\" density (%.1f%%) is too high. Might be over-optimized.", kw.Word, kw.Density),
			))
		}
	}

	if wordCount < minSEOWords {
		out = append(out, lang.Pick(language,
			fmt.Sprintf("Текст слишком короткий (%d слов). Для SEO рекомендуется минимум %d слов.", wordCount, minSEOWords),
			fmt.Sprintf("Text is too short (%d words). For SEO, minimum %d words recommended.", wordCount, minSEOWords),
		))
	}

	if len(paragraphWords) < minParagraphs && wordCount > paragraphsFromWord {
		out = append(out, lang.Pick(language,
			"Добавьте больше абзацев для улучшения читаемости.",
			"Add more paragraphs to improve readability.",
		))
	}

	for i, pw := range paragraphWords {
		if n := len(pw); n > maxParagraphWords {
			out = append(out, lang.Pick(language,
				fmt.Sprintf("Абзац %d слишком длинный (%d слов). Разбейте на несколько.", i+1, n),
				fmt.Sprintf("Paragraph %d is too long (%d words). Consider splitting.", i+1, n),
			))
		}
	}
	return out
}

// extractWords lowercases, strips everything but letters, digits and
// whitespace, and keeps words of at least three characters.
func extractWords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, text)

	fields := strings.Fields(cleaned)
	words := fields[:0]
	for _, f := range fields {
		if utf8.RuneCountInString(f) >= minWordLength {
			words = append(words, f)
		}
	}
	return words
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
