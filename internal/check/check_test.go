package check

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"checktxt/internal/grammar"
	"checktxt/internal/highlight"
	"checktxt/internal/lang"
	"checktxt/internal/plagiarism"
)

type stubGrammar struct {
	matches []grammar.Match
	err     error
}

func (s stubGrammar) Check(context.Context, string, lang.Language) ([]grammar.Match, error) {
	return s.matches, s.err
}

type stubSearcher struct{ calls int }

func (s *stubSearcher) Name() string { return "stub" }

func (s *stubSearcher) Search(context.Context, string) ([]plagiarism.Source, error) {
	s.calls++
	return nil, nil
}

type memLogger struct {
	mu    sync.Mutex
	lines []string
}

func (l *memLogger) Log(level, stage, message, detail string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf("[%s] [%s] %s | %s", level, stage, message, detail))
}

func testConfig() Config {
	return Config{MaxChars: 15000, Workers: 3, DefaultLanguage: lang.Russian, PlagiarismDelayMs: 0}
}

const sample = "В настоящее время система работает. Система работает быстро. Система работает надёжно и стабильно каждый день."

func TestRunLocalChecks(t *testing.T) {
	c := New(testConfig(), WithGrammar(stubGrammar{}), WithSearcher(&stubSearcher{}))
	report, err := c.Run(context.Background(), Request{
		Text:     sample,
		Language: lang.Russian,
		Keywords: []string{"система"},
		Checks:   []Kind{Ngrams, Readability, SEO, Style},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.ID) != 26 {
		t.Fatalf("expected ULID id, got %q", report.ID)
	}
	if report.Readability == nil || report.SEO == nil || len(report.Style) == 0 || len(report.Ngrams) == 0 {
		t.Fatalf("expected all local results, got %+v", report)
	}
	if report.Grammar != nil || report.Plagiarism != nil {
		t.Fatal("expected unrequested checks to stay empty")
	}
	if len(report.Traces) != 4 {
		t.Fatalf("expected 4 traces, got %d", len(report.Traces))
	}
	assertMerged(t, report.Highlights)
}

func TestRunDegradesOnCollaboratorFailure(t *testing.T) {
	logger := &memLogger{}
	c := New(testConfig(),
		WithGrammar(stubGrammar{err: fmt.Errorf("%w: connection refused", grammar.ErrUnavailable)}),
		WithSearcher(&stubSearcher{}),
		WithLogger(logger),
	)
	report, err := c.Run(context.Background(), Request{Text: sample, Language: lang.Russian})
	if err != nil {
		t.Fatalf("expected degraded report, got error %v", err)
	}
	if len(report.Warnings) != 1 || report.Warnings[0].Check != Grammar {
		t.Fatalf("expected one grammar warning, got %+v", report.Warnings)
	}
	if report.Style == nil || report.Plagiarism == nil {
		t.Fatalf("expected other checks to complete, got %+v", report)
	}
	found := false
	for _, line := range logger.lines {
		if strings.Contains(line, "[WARN] [GRAMMAR]") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected grammar warning logged, got %v", logger.lines)
	}
}

func TestRunMergesGrammarHighlights(t *testing.T) {
	g := stubGrammar{matches: []grammar.Match{{Offset: 0, Length: 1, Message: "Capitalization", Replacements: []string{"В"}}}}
	c := New(testConfig(), WithGrammar(g), WithSearcher(&stubSearcher{}))
	report, err := c.Run(context.Background(), Request{Text: sample, Language: lang.Russian, Checks: []Kind{Grammar, Style}})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Highlights) == 0 || report.Highlights[0].Type != highlight.Error {
		t.Fatalf("expected grammar highlight to win at offset 0, got %+v", report.Highlights)
	}
	assertMerged(t, report.Highlights)
}

func TestRunHighlightIDs(t *testing.T) {
	req := Request{Text: sample, Language: lang.Russian, Checks: []Kind{Style}}

	report, err := New(testConfig()).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Highlights) == 0 || report.Highlights[0].ID != "hl-1" {
		t.Fatalf("expected sequential ids, got %+v", report.Highlights)
	}

	report, err = New(testConfig(), WithHighlightIDs(highlight.RandomIDs)).Run(context.Background(), req)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Highlights) == 0 || len(report.Highlights[0].ID) != 36 {
		t.Fatalf("expected uuid ids, got %+v", report.Highlights)
	}
}

func TestRunPrivateSkipsExternalChecks(t *testing.T) {
	s := &stubSearcher{}
	c := New(testConfig(), WithGrammar(stubGrammar{err: errors.New("must not be called")}), WithSearcher(s))
	report, err := c.Run(context.Background(), Request{Text: sample, Language: lang.Russian, Private: true})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(report.Skipped) != 2 || len(report.Warnings) != 0 || s.calls != 0 {
		t.Fatalf("expected external checks skipped, got skipped=%v warnings=%v calls=%d", report.Skipped, report.Warnings, s.calls)
	}
}

func TestRunResolvesLanguage(t *testing.T) {
	c := New(testConfig(), WithGrammar(stubGrammar{}), WithSearcher(&stubSearcher{}))
	report, err := c.Run(context.Background(), Request{
		Text:     "The quick brown fox jumps over the lazy dog and runs away.",
		Language: lang.Auto,
		Checks:   []Kind{Readability},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if report.Language != lang.English {
		t.Fatalf("expected en, got %s", report.Language)
	}

	if got := c.ResolveLanguage("Hi", lang.Auto); got != lang.Russian {
		t.Fatalf("expected default language for short text, got %s", got)
	}
}

func TestValidate(t *testing.T) {
	cfg := testConfig()
	cfg.MaxChars = 10
	c := New(cfg, WithGrammar(stubGrammar{}), WithSearcher(&stubSearcher{}))
	cases := []struct {
		req  Request
		want error
	}{
		{Request{Text: "   "}, ErrEmptyText},
		{Request{Text: strings.Repeat("я", 11)}, ErrTextTooLong},
		{Request{Text: "текст", Checks: []Kind{"spelling"}}, ErrUnknownCheck},
		{Request{Text: "текст", Language: "de"}, ErrUnknownLanguage},
	}
	for _, tc := range cases {
		if _, err := c.Run(context.Background(), tc.req); !errors.Is(err, tc.want) {
			t.Fatalf("expected %v, got %v", tc.want, err)
		}
	}

	kinds, err := c.Validate(Request{Text: strings.Repeat("я", 10), Checks: []Kind{Style, Style, SEO}})
	if err != nil || len(kinds) != 2 {
		t.Fatalf("expected deduplicated checks, got %v, %v", kinds, err)
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := New(testConfig(), WithGrammar(stubGrammar{}), WithSearcher(&stubSearcher{}))
	if _, err := c.Run(ctx, Request{Text: sample, Language: lang.Russian}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParseKinds(t *testing.T) {
	kinds, err := ParseKinds("style, SEO,,ngrams")
	if err != nil || len(kinds) != 3 || kinds[1] != SEO {
		t.Fatalf("unexpected kinds %v, %v", kinds, err)
	}
	if _, err := ParseKinds("style,bogus"); !errors.Is(err, ErrUnknownCheck) {
		t.Fatalf("expected ErrUnknownCheck, got %v", err)
	}
}

func TestDefaultConfigFromEnv(t *testing.T) {
	t.Setenv("CHECKTXT_MAX_CHARS", "500")
	t.Setenv("CHECKTXT_DEFAULT_LANGUAGE", "en")
	t.Setenv("CHECKTXT_WORKERS", "not-a-number")
	cfg := DefaultConfig()
	if cfg.MaxChars != 500 || cfg.DefaultLanguage != lang.English || cfg.Workers != 4 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
}

func assertMerged(t *testing.T, hs []highlight.Highlight) {
	t.Helper()
	seen := map[string]bool{}
	for i, h := range hs {
		if seen[h.ID] {
			t.Fatalf("duplicate highlight id %s", h.ID)
		}
		seen[h.ID] = true
		if i > 0 && h.Offset < hs[i-1].End() {
			t.Fatalf("overlapping highlights %+v and %+v", hs[i-1], h)
		}
	}
}
