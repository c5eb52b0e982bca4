// Package grammar is a client for a LanguageTool compatible spell and grammar
// checking service.
package grammar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"checktxt/internal/lang"
	"checktxt/internal/tokenize"
)

const (
	DefaultURL     = "https://api.languagetool.org"
	DefaultTimeout = 15 * time.Second
	userAgent      = "checktxt/1.0"
)

// ErrUnavailable wraps failures to reach the service at all.
var ErrUnavailable = errors.New("grammar service unavailable")

// StatusError is returned when the service answers with a non-2xx status.
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("grammar service status %d", e.Code)
	}
	return fmt.Sprintf("grammar service status %d: %s", e.Code, e.Body)
}

type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Rule struct {
	ID       string   `json:"id"`
	Category Category `json:"category"`
}

// Match offsets and lengths are in code points of the checked text.
type Match struct {
	Offset       int      `json:"offset"`
	Length       int      `json:"length"`
	Message      string   `json:"message"`
	ShortMessage string   `json:"shortMessage,omitempty"`
	Replacements []string `json:"replacements"`
	Rule         Rule     `json:"rule"`
}

type Client struct {
	endpoint string
	http     *http.Client
}

// NewClient targets baseURL/v2/check. An empty baseURL uses the public
// service; a non-positive timeout uses DefaultTimeout.
func NewClient(baseURL string, timeout time.Duration) *Client {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		endpoint: baseURL + "/v2/check",
		http:     &http.Client{Timeout: timeout},
	}
}

// Code maps a language to the service's language code.
func Code(l lang.Language) string {
	switch l {
	case lang.Russian:
		return "ru-RU"
	case lang.English:
		return "en-US"
	default:
		return "auto"
	}
}

type checkResponse struct {
	Matches []struct {
		Offset       int    `json:"offset"`
		Length       int    `json:"length"`
		Message      string `json:"message"`
		ShortMessage string `json:"shortMessage"`
		Replacements []struct {
			Value string `json:"value"`
		} `json:"replacements"`
		Rule Rule `json:"rule"`
	} `json:"matches"`
}

func (c *Client) Check(ctx context.Context, text string, language lang.Language) ([]Match, error) {
	vals := url.Values{}
	vals.Set("text", text)
	vals.Set("language", Code(language))
	vals.Set("enabledOnly", "false")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(vals.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(body))}
	}

	var parsed checkResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("decode grammar response: %w", err)
	}

	idx := tokenize.NewIndex(text)
	matches := make([]Match, 0, len(parsed.Matches))
	for _, m := range parsed.Matches {
		start := idx.FromUTF16(m.Offset)
		end := idx.FromUTF16(m.Offset + m.Length)
		replacements := make([]string, 0, len(m.Replacements))
		for _, r := range m.Replacements {
			replacements = append(replacements, r.Value)
		}
		matches = append(matches, Match{
			Offset:       start,
			Length:       end - start,
			Message:      m.Message,
			ShortMessage: m.ShortMessage,
			Replacements: replacements,
			Rule:         m.Rule,
		})
	}
	return matches, nil
}
