// Package tokenize splits text into lowercased word tokens whose offsets point
// into the original string. Offsets and lengths are counted in Unicode code
// points.
package tokenize

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

type Token struct {
	Word   string `json:"word"`
	Offset int    `json:"offset"`
	Length int    `json:"length"`
}

// End returns the code-point offset just past the token.
func (t Token) End() int {
	return t.Offset + t.Length
}

// Tokenize returns maximal runs of letters and digits. Punctuation, symbols and
// whitespace separate tokens and are never returned.
func Tokenize(text string) []Token {
	tokens := []Token{}
	pos := 0
	start, startPos := -1, 0

	for i, r := range text {
		if isWordRune(r) {
			if start < 0 {
				start, startPos = i, pos
			}
		} else if start >= 0 {
			tokens = append(tokens, newToken(text[start:i], startPos, pos-startPos))
			start = -1
		}
		pos++
	}
	if start >= 0 {
		tokens = append(tokens, newToken(text[start:], startPos, pos-startPos))
	}
	return tokens
}

func newToken(raw string, offset, length int) Token {
	return Token{Word: strings.ToLower(raw), Offset: offset, Length: length}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r)
}

func RuneLen(s string) int {
	return utf8.RuneCountInString(s)
}
