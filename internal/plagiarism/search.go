package plagiarism

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"hash/fnv"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	ProviderSerper  = "serper"
	ProviderSerpAPI = "serpapi"
	ProviderMock    = "mock"

	resultsPerQuery    = 5
	sourcesPerMatch    = 3
	mockMatchRate      = 0.4
	defaultHTTPTimeout = 10 * time.Second
)

// Source is one web page that contains a searched phrase.
type Source struct {
	URL        string  `json:"url"`
	Title      string  `json:"title"`
	Snippet    string  `json:"snippet"`
	Similarity float64 `json:"similarity"`
}

// Searcher runs an exact-phrase web search. An empty result means the phrase
// was not found.
type Searcher interface {
	Name() string
	Search(ctx context.Context, phrase string) ([]Source, error)
}

type Keys struct {
	Serper  string
	SerpAPI string
}

// NewSearcher returns the configured provider, or the mock when that
// provider has no key.
func NewSearcher(provider string, keys Keys, client *http.Client) Searcher {
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	switch strings.ToLower(strings.TrimSpace(provider)) {
	case ProviderSerpAPI:
		if keys.SerpAPI != "" {
			return &SerpAPI{Key: keys.SerpAPI, Client: client}
		}
	case ProviderMock:
	default:
		if keys.Serper != "" {
			return &Serper{Key: keys.Serper, Client: client}
		}
	}
	return Mock{}
}

type organicResult struct {
	Link    string `json:"link"`
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
}

func toSources(phrase string, results []organicResult) []Source {
	if len(results) > sourcesPerMatch {
		results = results[:sourcesPerMatch]
	}
	out := make([]Source, 0, len(results))
	for _, r := range results {
		out = append(out, Source{
			URL:        r.Link,
			Title:      r.Title,
			Snippet:    r.Snippet,
			Similarity: Similarity(phrase, r.Snippet),
		})
	}
	return out
}

func quoted(phrase string) string {
	return `"` + phrase + `"`
}

// Serper queries google.serper.dev.
type Serper struct {
	Key      string
	Client   *http.Client
	Endpoint string
}

func (s *Serper) Name() string { return ProviderSerper }

func (s *Serper) Search(ctx context.Context, phrase string) ([]Source, error) {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = "https://google.serper.dev/search"
	}
	payload, err := json.Marshal(map[string]any{"q": quoted(phrase), "num": resultsPerQuery})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-API-KEY", s.Key)
	req.Header.Set("Content-Type", "application/json")

	var parsed struct {
		Organic []organicResult `json:"organic"`
	}
	if err := doJSON(s.Client, req, &parsed); err != nil {
		return nil, fmt.Errorf("serper: %w", err)
	}
	return toSources(phrase, parsed.Organic), nil
}

// SerpAPI queries serpapi.com with the google engine.
type SerpAPI struct {
	Key      string
	Client   *http.Client
	Endpoint string
}

func (s *SerpAPI) Name() string { return ProviderSerpAPI }

func (s *SerpAPI) Search(ctx context.Context, phrase string) ([]Source, error) {
	endpoint := s.Endpoint
	if endpoint == "" {
		endpoint = "https://serpapi.com/search"
	}
	params := url.Values{}
	params.Set("api_key", s.Key)
	params.Set("engine", "google")
	params.Set("q", quoted(phrase))
	params.Set("num", strconv.Itoa(resultsPerQuery))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var parsed struct {
		OrganicResults []organicResult `json:"organic_results"`
	}
	if err := doJSON(s.Client, req, &parsed); err != nil {
		return nil, fmt.Errorf("serpapi: %w", err)
	}
	return toSources(phrase, parsed.OrganicResults), nil
}

func doJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// Mock fakes matches for development without a search key. Results are
// seeded by the phrase so repeated checks agree.
type Mock struct{}

func (Mock) Name() string { return ProviderMock }

func (Mock) Search(_ context.Context, phrase string) ([]Source, error) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(phrase))
	r := rand.New(rand.NewPCG(h.Sum64(), 0))
	if r.Float64() >= mockMatchRate {
		return nil, nil
	}
	snippet := []rune(phrase)
	if len(snippet) > 50 {
		snippet = snippet[:50]
	}
	return []Source{{
		URL:        "https://example.com/article",
		Title:      "Example Source Article",
		Snippet:    "..." + string(snippet) + "...",
		Similarity: roundTenth(70 + r.Float64()*25),
	}}, nil
}
