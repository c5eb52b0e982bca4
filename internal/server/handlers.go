package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"checktxt/internal/check"
	"checktxt/internal/db"
	"checktxt/internal/grammar"
	"checktxt/internal/lang"
	"checktxt/internal/ngram"
	"checktxt/internal/plagiarism"
	"checktxt/internal/style"
)

// Version is reported by the health endpoint.
var Version = "dev"

// Handler holds HTTP handlers for the checktxt API.
type Handler struct {
	checker *check.Checker
	dbPath  string
	logger  *slog.Logger
}

// NewHandler creates a Handler. When dbPath is set, full checks are stored
// in the history database.
func NewHandler(checker *check.Checker, dbPath string, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{checker: checker, dbPath: dbPath, logger: logger}
}

// RegisterRoutes registers all API routes on the given mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/analyze", h.handleAnalyze)
	mux.HandleFunc("POST /api/lt", h.handleGrammar)
	mux.HandleFunc("POST /api/plag", h.handlePlagiarism)
	mux.HandleFunc("POST /api/check", h.handleCheck)
	mux.HandleFunc("GET /health", h.handleHealth)
}

// Routes returns a mux with every route and request logging.
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	return h.logRequests(mux)
}

type analyzeRequest struct {
	Text     string   `json:"text"`
	Language string   `json:"language"`
	Keywords []string `json:"keywords"`
	Checks   []string `json:"checks"`
}

func (h *Handler) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req analyzeRequest
	if !decode(w, r, &req) {
		return
	}
	var details []string
	details = h.validateText(details, req.Text)
	language, details := validateLanguage(details, req.Language, false)
	if len(req.Checks) == 0 {
		details = append(details, "checks: at least one check is required")
	}
	kinds := make([]check.Kind, 0, len(req.Checks))
	for _, c := range req.Checks {
		k := check.Kind(c)
		if !k.Valid() || k.External() {
			details = append(details, fmt.Sprintf("checks: %q is not one of ngrams, readability, seo, style", c))
			continue
		}
		kinds = append(kinds, k)
	}
	if len(details) > 0 {
		writeInvalid(w, details)
		return
	}

	report, err := h.checker.Run(r.Context(), check.Request{
		Text:     req.Text,
		Language: language,
		Keywords: req.Keywords,
		Checks:   kinds,
		Private:  true,
	})
	switch {
	case err == nil:
	case isInvalid(err):
		writeInvalid(w, []string{err.Error()})
		return
	default:
		h.internalError(w, "analyze", err)
		return
	}

	resp := map[string]any{}
	for _, k := range kinds {
		switch k {
		case check.Ngrams:
			if report.Ngrams == nil {
				report.Ngrams = []ngram.Result{}
			}
			resp["ngrams"] = report.Ngrams
		case check.Readability:
			resp["readability"] = report.Readability
		case check.SEO:
			resp["seo"] = report.SEO
		case check.Style:
			if report.Style == nil {
				report.Style = []style.Issue{}
			}
			resp["style"] = report.Style
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

type grammarRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (h *Handler) handleGrammar(w http.ResponseWriter, r *http.Request) {
	var req grammarRequest
	if !decode(w, r, &req) {
		return
	}
	var details []string
	details = h.validateText(details, req.Text)
	language, details := validateLanguage(details, req.Language, true)
	if len(details) > 0 {
		writeInvalid(w, details)
		return
	}

	matches, err := h.checker.Grammar(r.Context(), req.Text, language)
	var statusErr *grammar.StatusError
	switch {
	case err == nil:
		writeJSON(w, http.StatusOK, map[string]any{"matches": matches})
	case errors.As(err, &statusErr):
		h.logger.Warn("grammar service error", "status", statusErr.Code)
		writeError(w, http.StatusBadGateway, "LanguageTool service unavailable")
	case errors.Is(err, grammar.ErrUnavailable):
		h.logger.Warn("grammar service unreachable", "error", err)
		writeError(w, http.StatusServiceUnavailable, "Cannot connect to LanguageTool server. Make sure it is running.")
	default:
		h.internalError(w, "grammar", err)
	}
}

type plagiarismRequest struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

func (h *Handler) handlePlagiarism(w http.ResponseWriter, r *http.Request) {
	var req plagiarismRequest
	if !decode(w, r, &req) {
		return
	}
	var details []string
	details = h.validateText(details, req.Text)
	_, details = validateLanguage(details, req.Language, false)
	if len(details) > 0 {
		writeInvalid(w, details)
		return
	}

	res, err := h.checker.Plagiarism(r.Context(), req.Text)
	if err != nil && !errors.Is(err, plagiarism.ErrSearchFailed) {
		h.internalError(w, "plagiarism", err)
		return
	}
	if err != nil {
		h.logger.Warn("plagiarism searches failed", "provider", h.checker.SearchProvider(), "error", err)
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handler) handleCheck(w http.ResponseWriter, r *http.Request) {
	var req check.Request
	if !decode(w, r, &req) {
		return
	}
	report, err := h.checker.Run(r.Context(), req)
	switch {
	case err == nil:
	case isInvalid(err):
		writeInvalid(w, []string{err.Error()})
		return
	default:
		h.internalError(w, "check", err)
		return
	}

	if h.dbPath != "" {
		if err := db.PersistCheck(h.dbPath, report, req.Text); err != nil {
			h.logger.Error("persist check failed", "id", report.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, report)
}

func (h *Handler) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": Version,
		"search":  h.checker.SearchProvider(),
	})
}

func (h *Handler) validateText(details []string, text string) []string {
	n := utf8.RuneCountInString(text)
	switch {
	case strings.TrimSpace(text) == "":
		details = append(details, "text: must not be empty")
	case h.checker.MaxChars() > 0 && n > h.checker.MaxChars():
		details = append(details, fmt.Sprintf("text: must be at most %d characters", h.checker.MaxChars()))
	}
	return details
}

// isInvalid reports whether err is a request validation failure.
func isInvalid(err error) bool {
	return errors.Is(err, check.ErrEmptyText) || errors.Is(err, check.ErrTextTooLong) ||
		errors.Is(err, check.ErrUnknownCheck) || errors.Is(err, check.ErrUnknownLanguage)
}

func validateLanguage(details []string, raw string, allowAuto bool) (lang.Language, []string) {
	l, err := lang.Parse(raw)
	if err != nil || (l == lang.Auto && !allowAuto) {
		want := "ru, en"
		if allowAuto {
			want = "ru, en, auto"
		}
		return lang.Unknown, append(details, fmt.Sprintf("language: %q is not one of %s", raw, want))
	}
	return l, details
}

func (h *Handler) internalError(w http.ResponseWriter, op string, err error) {
	h.logger.Error(op+" failed", "error", err)
	writeError(w, http.StatusInternalServerError, "Internal server error")
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeInvalid(w, []string{"invalid request body: " + err.Error()})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"error": message})
}

func writeInvalid(w http.ResponseWriter, details []string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error":   "Invalid request",
		"details": details,
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		h.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
