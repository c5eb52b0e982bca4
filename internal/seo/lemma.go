package seo

import (
	"strings"
	"unicode/utf8"

	"github.com/kljensen/snowball/english"
	"github.com/kljensen/snowball/russian"

	"checktxt/internal/lang"
)

// Lemmatizer maps a lowercased word to the form used to cluster word variants.
type Lemmatizer func(word string, language lang.Language) string

// Russian endings are tried in this fixed order and the first one that leaves
// more than two letters is stripped, even when a longer ending would also fit.
// Duplicates are part of the list and harmless.
var russianEndings = []string{
	"ами", "ями", "ами", "ого", "его", "ому", "ему", "ым", "им", "ой", "ей",
	"ых", "их", "ая", "яя", "ое", "ее", "ие", "ые", "ую", "юю", "ав", "яв",
	"ив", "ов", "ев", "ий", "ый", "ая", "яя", "ую", "юю", "ом", "ем", "ах",
	"ях", "ам", "ям", "ей", "ой", "ию", "ью", "ия", "ья", "ие", "ье", "ий",
	"ей", "ой", "ую", "ию", "ею", "ою", "ая", "яя", "ое", "ее", "ие", "ые",
	"ми", "ти", "ть", "ся", "сь", "ет", "ит", "ут", "ют", "ат", "ят", "ем",
	"им", "ешь", "ишь", "ете", "ите", "ал", "ял", "ил", "ла", "ло", "ли",
}

// englishSuffixes are checked in order; at most one is removed. minLen is the
// word length the word must exceed.
var englishSuffixes = []struct {
	suffix string
	minLen int
}{
	{"ing", 5},
	{"ed", 4},
	{"s", 3},
	{"ly", 4},
	{"ment", 6},
	{"ness", 6},
}

// Lemmatize is the default suffix-stripping heuristic. It is crude on purpose:
// density numbers are calibrated against it.
func Lemmatize(word string, language lang.Language) string {
	lower := strings.ToLower(word)
	if language == lang.Russian {
		return lemmatizeRu(lower)
	}
	return lemmatizeEn(lower)
}

func lemmatizeRu(w string) string {
	n := utf8.RuneCountInString(w)
	for _, ending := range russianEndings {
		if strings.HasSuffix(w, ending) && n > utf8.RuneCountInString(ending)+2 {
			return strings.TrimSuffix(w, ending)
		}
	}
	return w
}

func lemmatizeEn(w string) string {
	n := utf8.RuneCountInString(w)
	for _, s := range englishSuffixes {
		if !strings.HasSuffix(w, s.suffix) || n <= s.minLen {
			continue
		}
		if s.suffix == "s" && strings.HasSuffix(w, "ss") {
			continue
		}
		return strings.TrimSuffix(w, s.suffix)
	}
	return w
}

// SnowballLemmatizer stems with the Snowball algorithms. It is more accurate
// than Lemmatize but shifts density numbers, so it is opt-in.
func SnowballLemmatizer(word string, language lang.Language) string {
	lower := strings.ToLower(word)
	if language == lang.Russian {
		return russian.Stem(lower, true)
	}
	return english.Stem(lower, true)
}

// Stemmer names accepted by LemmatizerByName.
const (
	StemmerHeuristic = "heuristic"
	StemmerSnowball  = "snowball"
)

// LemmatizerByName resolves a configured stemmer name. Unknown names fall back
// to the heuristic.
func LemmatizerByName(name string) Lemmatizer {
	if strings.EqualFold(strings.TrimSpace(name), StemmerSnowball) {
		return SnowballLemmatizer
	}
	return Lemmatize
}
