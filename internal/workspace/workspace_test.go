package workspace

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEnsureAtCreatesLayout(t *testing.T) {
	base := filepath.Join(t.TempDir(), BaseDirName)
	root, err := EnsureAt(base)
	if err != nil {
		t.Fatalf("ensure workspace: %v", err)
	}
	for _, p := range []string{"configs", "logs", "reports", filepath.Join("configs", "settings.json")} {
		if _, err := os.Stat(filepath.Join(root, p)); err != nil {
			t.Fatalf("expected path to exist %s: %v", p, err)
		}
	}

	s, err := LoadSettings(root)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if s.Language != "auto" || s.PrivateMode || s.Stemmer != "heuristic" || s.SEOKeywords == nil {
		t.Fatalf("unexpected defaults: %+v", s)
	}
}

func TestEnsureAtKeepsExistingSettings(t *testing.T) {
	base := t.TempDir()
	if _, err := EnsureAt(base); err != nil {
		t.Fatalf("ensure workspace: %v", err)
	}
	s := DefaultSettings()
	s.PrivateMode = true
	if err := SaveSettings(base, s); err != nil {
		t.Fatalf("save settings: %v", err)
	}
	if _, err := EnsureAt(base); err != nil {
		t.Fatalf("ensure workspace again: %v", err)
	}
	got, err := LoadSettings(base)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}
	if !got.PrivateMode {
		t.Fatal("expected saved settings to survive EnsureAt")
	}
}

func TestLoadSettingsErrors(t *testing.T) {
	base := t.TempDir()
	if s, err := LoadSettings(base); err != nil || s.Language != "auto" {
		t.Fatalf("expected defaults for missing file, got %+v, %v", s, err)
	}
	if err := os.MkdirAll(filepath.Join(base, "configs"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(SettingsPath(base), []byte("{broken"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := LoadSettings(base); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestKeywords(t *testing.T) {
	s := DefaultSettings()
	if !s.AddKeyword("  Кофе ") || s.AddKeyword("кофе") || s.AddKeyword("   ") {
		t.Fatalf("unexpected add results: %v", s.SEOKeywords)
	}
	s.AddKeyword("чай")
	if len(s.SEOKeywords) != 2 || s.SEOKeywords[0] != "кофе" {
		t.Fatalf("unexpected keywords: %v", s.SEOKeywords)
	}
	if !s.RemoveKeyword("КОФЕ") || s.RemoveKeyword("кофе") {
		t.Fatalf("unexpected remove results: %v", s.SEOKeywords)
	}
	if len(s.SEOKeywords) != 1 || s.SEOKeywords[0] != "чай" {
		t.Fatalf("unexpected keywords: %v", s.SEOKeywords)
	}
}

func TestSaveReport(t *testing.T) {
	base := t.TempDir()
	path := ReportPath(base, "01HZY/../X")
	if filepath.Dir(path) != filepath.Join(base, "reports") {
		t.Fatalf("report path escaped reports dir: %s", path)
	}
	if err := SaveReport(path, map[string]int{"words": 3}); err != nil {
		t.Fatalf("save report: %v", err)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	if !strings.Contains(string(raw), `"words": 3`) {
		t.Fatalf("unexpected report: %s", raw)
	}
}

func TestReportPathKeepsIDCase(t *testing.T) {
	id := "01M56MWFQHPNQC9ETSAK9JHY19"
	got := ReportPath("/ws", id)
	want := filepath.Join("/ws", "reports", id+".json")
	if got != want {
		t.Fatalf("ReportPath(%q) = %s, want %s", id, got, want)
	}
}

func TestSessionLog(t *testing.T) {
	l, err := NewSessionLog(t.TempDir())
	if err != nil {
		t.Fatalf("new session log: %v", err)
	}
	l.Log("WARN", "GRAMMAR", "Check degraded", "connection refused")
	l.Log("INFO", "CHECK", "Check finished", "")

	raw, err := os.ReadFile(l.Path())
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %q", lines)
	}
	if !strings.HasSuffix(lines[1], "[WARN] [GRAMMAR] Check degraded | connection refused") {
		t.Fatalf("unexpected line %q", lines[1])
	}
	if !strings.HasSuffix(lines[2], "[INFO] [CHECK] Check finished") {
		t.Fatalf("unexpected line %q", lines[2])
	}
}
