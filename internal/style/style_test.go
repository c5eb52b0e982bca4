package style

import (
	"os"
	"path/filepath"
	"testing"

	"checktxt/internal/lang"
)

func ofType(issues []Issue, t IssueType) []Issue {
	var out []Issue
	for _, is := range issues {
		if is.Type == t {
			out = append(out, is)
		}
	}
	return out
}

func assertSpans(t *testing.T, text string, issues []Issue) {
	t.Helper()
	runes := []rune(text)
	last := -1
	for _, is := range issues {
		if is.Offset <= last {
			t.Fatalf("issues not sorted or duplicated at offset %d", is.Offset)
		}
		last = is.Offset
		if got := string(runes[is.Offset : is.Offset+is.Length]); got != is.Text {
			t.Fatalf("span mismatch: text %q, source %q", is.Text, got)
		}
	}
}

func TestCheckRussianBureaucratic(t *testing.T) {
	text := "В целях обеспечения качества мы в настоящее время производим работы."
	issues := Check(text, lang.Russian)
	if len(ofType(issues, Bureaucratic)) != 2 {
		t.Fatalf("expected 2 bureaucratic issues, got %+v", issues)
	}
	assertSpans(t, text, issues)
}

func TestCheckSuggestion(t *testing.T) {
	issues := Check("В настоящее время мы работаем.", lang.Russian)
	if len(issues) != 1 {
		t.Fatalf("expected one issue, got %+v", issues)
	}
	is := issues[0]
	if is.Suggestion != "сейчас" || is.Offset != 0 || is.Length != 17 || is.Text != "В настоящее время" {
		t.Fatalf("unexpected issue: %+v", is)
	}
}

func TestCheckRussianCliche(t *testing.T) {
	issues := Check("Как показывает практика, в конечном итоге это не секрет.", lang.Russian)
	if len(ofType(issues, Cliche)) != 2 {
		t.Fatalf("expected 2 cliches, got %+v", issues)
	}
}

func TestCheckColloquial(t *testing.T) {
	text := "Короче, это типа крутой проект."
	issues := ofType(Check(text, lang.Russian), Colloquial)
	want := []int{0, 12, 17}
	if len(issues) != len(want) {
		t.Fatalf("expected %d colloquial issues, got %+v", len(want), issues)
	}
	for i, off := range want {
		if issues[i].Offset != off {
			t.Fatalf("issue %d: expected offset %d, got %d", i, off, issues[i].Offset)
		}
	}
}

func TestCheckColloquialBoundaries(t *testing.T) {
	if issues := Check("Покороче типаж, чистый лист.", lang.Russian); len(issues) != 0 {
		t.Fatalf("expected words inside longer words to pass, got %+v", issues)
	}

	issues := Check("Ну, я пошёл.", lang.Russian)
	if len(issues) != 1 || issues[0].Text != "Ну" || issues[0].Length != 2 {
		t.Fatalf("expected filler word without the comma, got %+v", issues)
	}
	if issues := Check("Кину, если найду.", lang.Russian); len(issues) != 0 {
		t.Fatalf("expected no filler inside a word, got %+v", issues)
	}
}

func TestCheckRussianPassive(t *testing.T) {
	issues := ofType(Check("Было принято решение о внедрении системы.", lang.Russian), Passive)
	if len(issues) == 0 || issues[0].Offset != 0 {
		t.Fatalf("expected passive at 0, got %+v", issues)
	}

	issues = ofType(Check("Здание было построено в 1990 году.", lang.Russian), Passive)
	if len(issues) != 1 || issues[0].Offset != 7 || issues[0].Text != "было построено" {
		t.Fatalf("expected participle construction, got %+v", issues)
	}
}

func TestCheckDeduplicatesByOffset(t *testing.T) {
	issues := Check("Было решено.", lang.Russian)
	if len(issues) != 1 || issues[0].Text != "Было решено" {
		t.Fatalf("expected a single issue, got %+v", issues)
	}
}

func TestCheckCaps(t *testing.T) {
	issues := Check("Это ОЧЕНЬ ВАЖНАЯ информация от NASA и США.", lang.Russian)
	caps := ofType(issues, Caps)
	if len(caps) != 1 {
		t.Fatalf("expected one caps issue, got %+v", caps)
	}
	if caps[0].Text != "ВАЖНАЯ" || caps[0].Offset != 10 || caps[0].Suggestion != "Важная" {
		t.Fatalf("unexpected caps issue: %+v", caps[0])
	}
	if caps[0].Message != "Избыточное использование заглавных букв" {
		t.Fatalf("unexpected message: %q", caps[0].Message)
	}
}

func TestCheckExclamation(t *testing.T) {
	issues := ofType(Check("Внимание!!! Это важно?! Правда??", lang.Russian), Exclamation)
	if len(issues) != 3 {
		t.Fatalf("expected 3 exclamation issues, got %+v", issues)
	}
	want := []string{"!", "!", "?"}
	for i, s := range want {
		if issues[i].Suggestion != s {
			t.Fatalf("issue %d: expected suggestion %q, got %q", i, s, issues[i].Suggestion)
		}
	}
}

func TestCheckEnglish(t *testing.T) {
	text := "In order to achieve this goal, due to the fact that we need results."
	issues := ofType(Check(text, lang.English), Bureaucratic)
	if len(issues) != 2 || issues[0].Suggestion != "to" || issues[1].Suggestion != "because" {
		t.Fatalf("unexpected wordy phrases: %+v", issues)
	}

	cliches := ofType(Check("At the end of the day, we need to think outside the box.", lang.English), Cliche)
	if len(cliches) != 2 {
		t.Fatalf("expected 2 cliches, got %+v", cliches)
	}

	passive := ofType(Check("The report was written by the team.", lang.English), Passive)
	if len(passive) != 1 || passive[0].Offset != 11 || passive[0].Text != "was written" {
		t.Fatalf("unexpected passive issues: %+v", passive)
	}
}

func TestCheckCleanText(t *testing.T) {
	if issues := Check("Простой чистый текст без проблем.", lang.Russian); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
	if issues := Check("A plain sentence with nothing wrong.", lang.English); len(issues) != 0 {
		t.Fatalf("expected no issues, got %+v", issues)
	}
}

func TestCheckOffsetsAreCodePoints(t *testing.T) {
	text := "Ёжик 😀 сказал: короче, ВНИМАНИЕ!!! В рамках проекта данный отчёт."
	issues := Check(text, lang.Russian)
	if len(issues) < 4 {
		t.Fatalf("expected several issues, got %+v", issues)
	}
	assertSpans(t, text, issues)
}

func TestGroup(t *testing.T) {
	grouped := Group(Check("В целях обеспечения качества, короче, ВАЖНОЕ!!!", lang.Russian))
	if len(grouped) != len(IssueTypes) {
		t.Fatalf("expected all types present, got %d keys", len(grouped))
	}
	for _, typ := range []IssueType{Bureaucratic, Colloquial, Caps, Exclamation} {
		if len(grouped[typ]) != 1 {
			t.Fatalf("expected one %s issue, got %+v", typ, grouped[typ])
		}
	}
	if grouped[Passive] == nil || len(grouped[Passive]) != 0 {
		t.Fatalf("expected empty passive group, got %+v", grouped[Passive])
	}
}

func TestTypeLabel(t *testing.T) {
	cases := map[IssueType][2]string{
		Bureaucratic: {"Канцеляризмы", "Wordy phrases"},
		Cliche:       {"Клише", "Cliches"},
		Passive:      {"Пассивный залог", "Passive voice"},
	}
	for typ, want := range cases {
		if got := TypeLabel(typ, lang.Russian); got != want[0] {
			t.Fatalf("ru label for %s: expected %q, got %q", typ, want[0], got)
		}
		if got := TypeLabel(typ, lang.English); got != want[1] {
			t.Fatalf("en label for %s: expected %q, got %q", typ, want[1], got)
		}
	}
}

func TestCheckerWithUserDictionary(t *testing.T) {
	path := filepath.Join(t.TempDir(), "team.yaml")
	data := "language: en\nsections:\n  - type: cliche\n    entries:\n      - {pattern: 'rockstar developer', message: 'Hiring cliche'}\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write dictionary: %v", err)
	}
	d, err := LoadDictionary(path)
	if err != nil {
		t.Fatalf("load dictionary: %v", err)
	}
	c, err := NewChecker(d)
	if err != nil {
		t.Fatalf("new checker: %v", err)
	}
	issues := c.Check("We hire a Rockstar Developer in order to ship.", lang.English)
	if len(issues) != 2 {
		t.Fatalf("expected built-in and user issues, got %+v", issues)
	}
	if issues[0].Type != Cliche || issues[0].Message != "Hiring cliche" {
		t.Fatalf("unexpected user issue: %+v", issues[0])
	}
}

func TestLoadDictionaryRejectsBadInput(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"lang.yaml":    "language: de\nsections: []\n",
		"section.yaml": "language: en\nsections:\n  - type: caps\n    entries: []\n",
		"yaml.yaml":    "language: [en\n",
	}
	for name, body := range cases {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		if _, err := LoadDictionary(path); err == nil {
			t.Fatalf("expected error for %s", name)
		}
	}
}

func TestNewCheckerRejectsBadEntries(t *testing.T) {
	bad := []Entry{
		{Pattern: "(unclosed", Message: "x"},
		{Pattern: "word", Message: "x", Boundary: "around"},
		{Pattern: "word", Message: "x", Group: 2},
	}
	for _, e := range bad {
		d := Dictionary{Language: lang.English, Sections: []Section{{Type: Cliche, Entries: []Entry{e}}}}
		if _, err := NewChecker(d); err == nil {
			t.Fatalf("expected error for entry %+v", e)
		}
	}
}
