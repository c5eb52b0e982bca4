// Package check runs the requested analyzers over one text and assembles a
// single report with merged highlights.
package check

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"checktxt/internal/grammar"
	"checktxt/internal/highlight"
	"checktxt/internal/lang"
	"checktxt/internal/ngram"
	"checktxt/internal/pipeline"
	"checktxt/internal/plagiarism"
	"checktxt/internal/readability"
	"checktxt/internal/seo"
	"checktxt/internal/style"
	"checktxt/internal/tokenize"
)

type Kind string

const (
	Ngrams      Kind = "ngrams"
	Readability Kind = "readability"
	SEO         Kind = "seo"
	Style       Kind = "style"
	Grammar     Kind = "grammar"
	Plagiarism  Kind = "plagiarism"
)

// AllKinds is used when a request names no checks.
var AllKinds = []Kind{Ngrams, Readability, SEO, Style, Grammar, Plagiarism}

// LocalKinds run in-process and never fail.
var LocalKinds = []Kind{Ngrams, Readability, SEO, Style}

func (k Kind) Valid() bool {
	for _, known := range AllKinds {
		if k == known {
			return true
		}
	}
	return false
}

// External reports whether the check sends text to a third-party service.
func (k Kind) External() bool {
	return k == Grammar || k == Plagiarism
}

// ParseKinds splits a comma separated list.
func ParseKinds(s string) ([]Kind, error) {
	var out []Kind
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		k := Kind(part)
		if !k.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, part)
		}
		out = append(out, k)
	}
	return out, nil
}

var (
	ErrEmptyText       = errors.New("text is empty")
	ErrTextTooLong     = errors.New("text is too long")
	ErrUnknownCheck    = errors.New("unknown check")
	ErrUnknownLanguage = errors.New("unknown language")
)

type Request struct {
	Text     string        `json:"text"`
	Language lang.Language `json:"language"`
	Keywords []string      `json:"keywords,omitempty"`
	Checks   []Kind        `json:"checks,omitempty"`
	// Private keeps the text on this machine: external checks are skipped.
	Private bool `json:"private,omitempty"`
}

type Warning struct {
	Check   Kind   `json:"check"`
	Message string `json:"message"`
}

type SpanTrace struct {
	Name       string `json:"name"`
	DurationMs int64  `json:"duration_ms"`
	Status     string `json:"status"`
}

// Report fields for checks that were not run stay empty.
type Report struct {
	ID                         string                `json:"id"`
	CreatedAt                  time.Time             `json:"createdAt"`
	Language                   lang.Language         `json:"language"`
	WordCount                  int                   `json:"wordCount"`
	CharCount                  int                   `json:"charCount"`
	Ngrams                     []ngram.Result        `json:"ngrams,omitempty"`
	Readability                *readability.Result   `json:"readability,omitempty"`
	ReadabilityRecommendations []string              `json:"readabilityRecommendations,omitempty"`
	SEO                        *seo.Result           `json:"seo,omitempty"`
	Style                      []style.Issue         `json:"style,omitempty"`
	Grammar                    []grammar.Match       `json:"grammar,omitempty"`
	Plagiarism                 *plagiarism.Result    `json:"plagiarism,omitempty"`
	Highlights                 []highlight.Highlight `json:"highlights"`
	Skipped                    []Kind                `json:"skipped,omitempty"`
	Warnings                   []Warning             `json:"warnings"`
	Traces                     []SpanTrace           `json:"traces"`
}

// GrammarChecker is satisfied by *grammar.Client.
type GrammarChecker interface {
	Check(ctx context.Context, text string, language lang.Language) ([]grammar.Match, error)
}

type Logger interface {
	Log(level, stage, message, detail string)
}

type Checker struct {
	cfg        Config
	grammar    GrammarChecker
	searcher   plagiarism.Searcher
	style      *style.Checker
	lemmatizer seo.Lemmatizer
	logger     Logger
	ids        func() highlight.IDFunc
	now        func() time.Time
}

type Option func(*Checker)

func WithGrammar(g GrammarChecker) Option { return func(c *Checker) { c.grammar = g } }

func WithSearcher(s plagiarism.Searcher) Option { return func(c *Checker) { c.searcher = s } }

func WithStyle(s *style.Checker) Option { return func(c *Checker) { c.style = s } }

func WithLemmatizer(l seo.Lemmatizer) Option { return func(c *Checker) { c.lemmatizer = l } }

func WithLogger(l Logger) Option { return func(c *Checker) { c.logger = l } }

// WithHighlightIDs sets the ID strategy used for each run. The default numbers
// highlights per report ("hl-1", "hl-2", ...).
func WithHighlightIDs(ids func() highlight.IDFunc) Option {
	return func(c *Checker) { c.ids = ids }
}

func New(cfg Config, opts ...Option) *Checker {
	c := &Checker{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	if c.grammar == nil {
		c.grammar = grammar.NewClient(cfg.LanguageToolURL, cfg.languageToolTimeout())
	}
	if c.searcher == nil {
		c.searcher = plagiarism.NewSearcher(cfg.SearchProvider, plagiarism.Keys{
			Serper:  cfg.SerperAPIKey,
			SerpAPI: cfg.SerpAPIKey,
		}, nil)
	}
	if c.lemmatizer == nil {
		c.lemmatizer = seo.LemmatizerByName(cfg.Stemmer)
	}
	if c.ids == nil {
		c.ids = func() highlight.IDFunc { return highlight.Sequence("hl") }
	}
	return c
}

func (c *Checker) log(level, stage, message, detail string) {
	if c.logger != nil {
		c.logger.Log(level, stage, message, detail)
	}
}

// Validate applies the request limits and returns the checks to run.
func (c *Checker) Validate(req Request) ([]Kind, error) {
	if strings.TrimSpace(req.Text) == "" {
		return nil, ErrEmptyText
	}
	if c.cfg.MaxChars > 0 {
		if n := utf8.RuneCountInString(req.Text); n > c.cfg.MaxChars {
			return nil, fmt.Errorf("%w: %d characters, limit %d", ErrTextTooLong, n, c.cfg.MaxChars)
		}
	}
	switch req.Language {
	case lang.Unknown, lang.Auto, lang.Russian, lang.English:
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownLanguage, string(req.Language))
	}
	if len(req.Checks) == 0 {
		return AllKinds, nil
	}
	seen := map[Kind]bool{}
	kinds := make([]Kind, 0, len(req.Checks))
	for _, k := range req.Checks {
		if !k.Valid() {
			return nil, fmt.Errorf("%w: %q", ErrUnknownCheck, string(k))
		}
		if !seen[k] {
			seen[k] = true
			kinds = append(kinds, k)
		}
	}
	return kinds, nil
}

// ResolveLanguage turns auto or empty into a concrete language, falling back
// to the configured default when detection is inconclusive.
func (c *Checker) ResolveLanguage(text string, requested lang.Language) lang.Language {
	if requested.Valid() {
		return requested
	}
	if detected := lang.Detect(text); detected.Valid() {
		return detected
	}
	if c.cfg.DefaultLanguage.Valid() {
		return c.cfg.DefaultLanguage
	}
	return lang.Russian
}

// Run executes the requested checks concurrently. A failing external check
// becomes a warning; only invalid requests and cancellation return an error.
func (c *Checker) Run(ctx context.Context, req Request) (*Report, error) {
	kinds, err := c.Validate(req)
	if err != nil {
		return nil, err
	}
	language := c.ResolveLanguage(req.Text, req.Language)
	text := req.Text

	report := &Report{
		ID:         ulid.Make().String(),
		CreatedAt:  c.now().UTC(),
		Language:   language,
		WordCount:  len(tokenize.Tokenize(text)),
		CharCount:  utf8.RuneCountInString(text),
		Highlights: []highlight.Highlight{},
		Warnings:   []Warning{},
		Traces:     []SpanTrace{},
	}
	c.log("INFO", "CHECK", "Check started", fmt.Sprintf("id=%s language=%s chars=%d checks=%v", report.ID, language, report.CharCount, kinds))

	var mu sync.Mutex
	trace := func(name string, fn func(ctx context.Context) error) func(ctx context.Context) error {
		return func(ctx context.Context) error {
			start := time.Now()
			err := fn(ctx)
			status := "ok"
			if err != nil {
				status = "error"
			}
			mu.Lock()
			report.Traces = append(report.Traces, SpanTrace{Name: name, DurationMs: time.Since(start).Milliseconds(), Status: status})
			mu.Unlock()
			return err
		}
	}

	var tasks []pipeline.Task
	for _, k := range kinds {
		if k.External() && req.Private {
			report.Skipped = append(report.Skipped, k)
			continue
		}
		tasks = append(tasks, pipeline.Task{Name: string(k), Run: trace(string(k), c.task(k, text, language, req.Keywords, report))})
	}

	for _, te := range pipeline.Run(ctx, tasks, c.cfg.Workers) {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		report.Warnings = append(report.Warnings, Warning{Check: Kind(te.Task), Message: te.Err.Error()})
		c.log("WARN", strings.ToUpper(te.Task), "Check degraded", te.Err.Error())
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	next := c.ids()
	var all []highlight.Highlight
	all = append(all, highlight.FromGrammar(report.Grammar, next)...)
	all = append(all, highlight.FromStyle(report.Style, next)...)
	all = append(all, highlight.FromNgrams(report.Ngrams, language, next)...)
	if report.Plagiarism != nil {
		all = append(all, highlight.FromPlagiarism(report.Plagiarism.Matches, language, next)...)
	}
	report.Highlights = highlight.Merge(all)

	c.log("INFO", "CHECK", "Check finished", fmt.Sprintf("id=%s highlights=%d warnings=%d", report.ID, len(report.Highlights), len(report.Warnings)))
	return report, nil
}

// task returns the closure for one check. Each closure writes only its own
// report fields, so tasks can run concurrently.
func (c *Checker) task(k Kind, text string, language lang.Language, keywords []string, report *Report) func(ctx context.Context) error {
	switch k {
	case Ngrams:
		return func(context.Context) error {
			report.Ngrams = ngram.AnalyzeDefault(text, language)
			return nil
		}
	case Readability:
		return func(context.Context) error {
			r := readability.Analyze(text, language)
			report.Readability = &r
			report.ReadabilityRecommendations = readability.Recommendations(r, language)
			return nil
		}
	case SEO:
		return func(context.Context) error {
			r := seo.AnalyzeWith(text, language, keywords, c.lemmatizer)
			report.SEO = &r
			return nil
		}
	case Style:
		return func(context.Context) error {
			if c.style != nil {
				report.Style = c.style.Check(text, language)
			} else {
				report.Style = style.Check(text, language)
			}
			return nil
		}
	case Grammar:
		return func(ctx context.Context) error {
			matches, err := c.Grammar(ctx, text, language)
			if err != nil {
				return err
			}
			report.Grammar = matches
			return nil
		}
	case Plagiarism:
		return func(ctx context.Context) error {
			res, err := c.Plagiarism(ctx, text)
			if ctx.Err() != nil {
				return ctx.Err()
			}
			report.Plagiarism = &res
			return err
		}
	}
	return func(context.Context) error { return fmt.Errorf("%w: %q", ErrUnknownCheck, string(k)) }
}

// Grammar runs only the grammar service check.
func (c *Checker) Grammar(ctx context.Context, text string, language lang.Language) ([]grammar.Match, error) {
	return c.grammar.Check(ctx, text, language)
}

// Plagiarism runs only the web search check. On ErrSearchFailed the result is
// still usable and reports full uniqueness.
func (c *Checker) Plagiarism(ctx context.Context, text string) (plagiarism.Result, error) {
	opts := plagiarism.DefaultOptions()
	opts.Delay = c.cfg.plagiarismDelay()
	return plagiarism.Check(ctx, text, c.searcher, opts)
}

// SearchProvider names the plagiarism backend in use.
func (c *Checker) SearchProvider() string {
	return c.searcher.Name()
}

func (c *Checker) MaxChars() int {
	return c.cfg.MaxChars
}
