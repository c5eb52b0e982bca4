package readability

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"checktxt/internal/chunk"
	"checktxt/internal/lang"
)

const (
	LongWordMinLength = 7
	EasyAvgSentence   = 12
	HardAvgSentence   = 20
	longWordsWarning  = 20
	fewSentences      = 3
	fewSentencesWords = 100
)

type Level string

const (
	Easy   Level = "easy"
	Medium Level = "medium"
	Hard   Level = "hard"
)

type Result struct {
	AvgSentenceLength float64 `json:"avgSentenceLength"`
	LongWordsRatio    float64 `json:"longWordsRatio"`
	SentenceCount     int     `json:"sentenceCount"`
	WordCount         int     `json:"wordCount"`
	Level             Level   `json:"level"`
}

func Analyze(text string, _ lang.Language) Result {
	sentenceCount := len(chunk.Sentences(text))
	if sentenceCount == 0 {
		return Result{Level: Easy}
	}

	wordCount := len(chunk.Fields(text))
	longWords := 0
	for _, w := range letterWords(text) {
		if utf8.RuneCountInString(w) >= LongWordMinLength {
			longWords++
		}
	}

	avg := round1(float64(wordCount) / float64(sentenceCount))
	ratio := 0.0
	if wordCount > 0 {
		ratio = round1(float64(longWords) / float64(wordCount) * 100)
	}

	return Result{
		AvgSentenceLength: avg,
		LongWordsRatio:    ratio,
		SentenceCount:     sentenceCount,
		WordCount:         wordCount,
		Level:             LevelFor(avg),
	}
}

// LevelFor classifies by average sentence length only.
func LevelFor(avgSentenceLength float64) Level {
	switch {
	case avgSentenceLength <= EasyAvgSentence:
		return Easy
	case avgSentenceLength >= HardAvgSentence:
		return Hard
	default:
		return Medium
	}
}

// Recommendations derives advice from an already computed result.
func Recommendations(r Result, language lang.Language) []string {
	out := []string{}
	if r.AvgSentenceLength > HardAvgSentence {
		avg := formatNumber(r.AvgSentenceLength)
		out = append(out, lang.Pick(language,
			fmt.Sprintf("Средняя длина предложения (%s слов) слишком высокая. Попробуйте разбить длинные предложения.", avg),
			fmt.Sprintf("Average sentence length (%s words) is too high. Try breaking up long sentences.", avg),
		))
	}
	if r.LongWordsRatio > longWordsWarning {
		ratio := formatNumber(r.LongWordsRatio)
		out = append(out, lang.Pick(language,
			fmt.Sprintf("Много длинных слов (%s%%). Рассмотрите замену на более простые синонимы.", ratio),
			fmt.Sprintf("High ratio of long words (%s%%). Consider using simpler alternatives.", ratio),
		))
	}
	if r.SentenceCount < fewSentences && r.WordCount > fewSentencesWords {
		out = append(out, lang.Pick(language,
			"Текст содержит мало предложений. Добавьте больше разбивки на предложения.",
			"Text has few sentences. Add more sentence breaks.",
		))
	}
	return out
}

// letterWords lowercases, strips everything except letters, digits and
// whitespace, and splits on whitespace.
func letterWords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.IsSpace(r) {
			return unicode.ToLower(r)
		}
		return -1
	}, text)
	return strings.Fields(cleaned)
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
