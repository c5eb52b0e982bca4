package grammar

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"checktxt/internal/lang"
)

func TestCheckConvertsOffsets(t *testing.T) {
	var gotLanguage, gotText, gotEnabled string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/check" || r.Method != http.MethodPost {
			http.NotFound(w, r)
			return
		}
		_ = r.ParseForm()
		gotLanguage = r.PostForm.Get("language")
		gotText = r.PostForm.Get("text")
		gotEnabled = r.PostForm.Get("enabledOnly")
		w.Header().Set("Content-Type", "application/json")
		// "😀 " is 3 UTF-16 units, so "тест" starts at unit 3.
		_, _ = w.Write([]byte(`{"matches":[{"offset":3,"length":4,"message":"Possible typo","shortMessage":"Typo",
			"replacements":[{"value":"текст"},{"value":"тесть"}],
			"rule":{"id":"MORFOLOGIK_RULE_RU_RU","category":{"id":"TYPOS","name":"Typos"}}}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", time.Second)
	matches, err := c.Check(context.Background(), "😀 тест", lang.Russian)
	if err != nil {
		t.Fatalf("check: %v", err)
	}
	if gotLanguage != "ru-RU" || gotText != "😀 тест" || gotEnabled != "false" {
		t.Fatalf("unexpected form: language=%q text=%q enabledOnly=%q", gotLanguage, gotText, gotEnabled)
	}
	if len(matches) != 1 {
		t.Fatalf("expected one match, got %d", len(matches))
	}
	m := matches[0]
	if m.Offset != 2 || m.Length != 4 {
		t.Fatalf("expected code point span 2+4, got %d+%d", m.Offset, m.Length)
	}
	if len(m.Replacements) != 2 || m.Replacements[0] != "текст" {
		t.Fatalf("unexpected replacements: %v", m.Replacements)
	}
	if m.Rule.Category.ID != "TYPOS" {
		t.Fatalf("unexpected rule: %+v", m.Rule)
	}
}

func TestCheckStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := NewClient(srv.URL, time.Second).Check(context.Background(), "text", lang.English)
	var se *StatusError
	if !errors.As(err, &se) || se.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestCheckUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(url, time.Second).Check(context.Background(), "text", lang.English)
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestCode(t *testing.T) {
	if Code(lang.Russian) != "ru-RU" || Code(lang.English) != "en-US" || Code(lang.Auto) != "auto" {
		t.Fatal("unexpected language codes")
	}
}
