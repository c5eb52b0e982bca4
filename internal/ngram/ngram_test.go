package ngram

import (
	"reflect"
	"strings"
	"testing"

	"checktxt/internal/lang"
)

func find(results []Result, ngram string) *Result {
	for i := range results {
		if results[i].Ngram == ngram {
			return &results[i]
		}
	}
	return nil
}

func TestAnalyzeRussianRepeatedWord(t *testing.T) {
	text := "Система работает. Система функционирует. Система выдаёт результаты."
	got := find(Analyze(text, lang.Russian, 2, 3), "система")
	if got == nil {
		t.Fatal("expected repeated word to be reported")
	}
	if got.Count != 3 {
		t.Fatalf("expected count 3, got %d", got.Count)
	}
	if !reflect.DeepEqual(got.Positions, []int{0, 18, 41}) {
		t.Fatalf("unexpected positions %v", got.Positions)
	}
}

func TestAnalyzePrefersLongerPhrase(t *testing.T) {
	text := "The system works. The system processes. The system outputs results."
	results := Analyze(text, lang.English, 2, 3)
	got := find(results, "the system")
	if got == nil {
		t.Fatalf("expected \"the system\" in %+v", results)
	}
	if got.Count != 3 {
		t.Fatalf("expected count 3, got %d", got.Count)
	}
	if find(results, "system") != nil {
		t.Fatal("bare \"system\" should be suppressed by the longer phrase")
	}
}

func TestAnalyzeStopWordsOnly(t *testing.T) {
	if got := Analyze("и и и и и", lang.Russian, 2, 3); len(got) != 0 {
		t.Fatalf("expected no results, got %+v", got)
	}
}

func TestAnalyzeTrigram(t *testing.T) {
	text := "в данном случае мы рассмотрим в данном случае ещё раз в данном случае"
	results := Analyze(text, lang.Russian, 3, 3)
	got := find(results, "в данном случае")
	if got == nil || got.Count != 3 {
		t.Fatalf("expected trigram with count 3, got %+v", results)
	}
	if find(results, "данном случае") != nil || find(results, "данном") != nil {
		t.Fatalf("nested n-grams should be suppressed: %+v", results)
	}
}

func TestAnalyzeShortText(t *testing.T) {
	if got := AnalyzeDefault("короткий текст", lang.Russian); len(got) != 0 {
		t.Fatalf("expected empty result, got %+v", got)
	}
	if got := Analyze("повтор повтор", lang.Russian, 2, 3); len(got) != 0 {
		t.Fatalf("text shorter than maxN tokens should give no result, got %+v", got)
	}
}

func TestAnalyzeLimit(t *testing.T) {
	words := make([]string, 0, 200)
	for i := 0; i < 100; i++ {
		words = append(words, "повтор", "слово"+strings.Repeat("а", i%30))
	}
	results := AnalyzeDefault(strings.Join(words, " "), lang.Russian)
	if len(results) > MaxResults {
		t.Fatalf("expected at most %d results, got %d", MaxResults, len(results))
	}
}

func TestAnalyzeInvariants(t *testing.T) {
	text := "Кот спит. Кот ест, кот спит! Собака лает; собака спит. Кот ест рыбу, кот ест мясо."
	results := Analyze(text, lang.Russian, 2, 3)
	if len(results) == 0 {
		t.Fatal("expected some repetitions")
	}
	runes := []rune(text)
	for i, r := range results {
		if r.Count < 2 {
			t.Fatalf("%q: count %d below minimum", r.Ngram, r.Count)
		}
		if r.Count != len(r.Positions) || r.Count != len(r.Lengths) {
			t.Fatalf("%q: count %d, positions %d, lengths %d", r.Ngram, r.Count, len(r.Positions), len(r.Lengths))
		}
		for k := 1; k < len(r.Positions); k++ {
			if r.Positions[k] <= r.Positions[k-1] {
				t.Fatalf("%q: positions not ascending %v", r.Ngram, r.Positions)
			}
		}
		first := strings.ToLower(string(runes[r.Positions[0] : r.Positions[0]+r.Lengths[0]]))
		if !strings.HasPrefix(first, strings.Fields(r.Ngram)[0]) {
			t.Fatalf("%q: first occurrence span %q does not start with the n-gram", r.Ngram, first)
		}
		for _, earlier := range results[:i] {
			if strings.Contains(earlier.Ngram, r.Ngram) {
				t.Fatalf("%q is a substring of higher-ranked %q", r.Ngram, earlier.Ngram)
			}
		}
	}
	if i := find(results, "кот ест"); i == nil || i.Count != 3 {
		t.Fatalf("expected \"кот ест\" x3, got %+v", results)
	}
}

func TestFindPhrasePositions(t *testing.T) {
	tests := []struct {
		text, phrase string
		want         []int
	}{
		{"hello world hello world hello", "hello", []int{0, 12, 24}},
		{"Hello HELLO hello", "hello", []int{0, 6, 12}},
		{"some text here", "notfound", []int{}},
		{"aaa", "aa", []int{0, 1}},
		{"Мир и МИР", "мир", []int{0, 6}},
	}
	for _, tt := range tests {
		got := FindPhrasePositions(tt.text, tt.phrase)
		if !reflect.DeepEqual(got, tt.want) {
			t.Fatalf("FindPhrasePositions(%q, %q) = %v, want %v", tt.text, tt.phrase, got, tt.want)
		}
	}
}
