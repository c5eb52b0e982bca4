package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"checktxt/internal/check"
	"checktxt/internal/highlight"
	"checktxt/internal/lang"
	"checktxt/internal/style"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	sectionStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	warnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))

	highlightStyles = map[highlight.Type]lipgloss.Style{
		highlight.Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Underline(true),
		highlight.Style:      lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		highlight.Plagiarism: lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		highlight.Repeat:     lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		highlight.SEO:        lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
	}
)

func renderReport(r *check.Report, text string) string {
	var b strings.Builder
	l := r.Language

	fmt.Fprintf(&b, "%s %s\n", titleStyle.Render("checktxt"), mutedStyle.Render(r.ID))
	fmt.Fprintf(&b, "%s: %s  %s: %d  %s: %d\n\n",
		lang.Pick(l, "Язык", "Language"), l,
		lang.Pick(l, "Слов", "Words"), r.WordCount,
		lang.Pick(l, "Символов", "Characters"), r.CharCount)

	if r.Readability != nil {
		b.WriteString(sectionStyle.Render(lang.Pick(l, "Читаемость", "Readability")) + "\n")
		fmt.Fprintf(&b, "  %s: %s, %s %.1f, %s %.1f%%\n",
			lang.Pick(l, "Уровень", "Level"), r.Readability.Level,
			lang.Pick(l, "средняя длина предложения", "average sentence length"), r.Readability.AvgSentenceLength,
			lang.Pick(l, "длинных слов", "long words"), r.Readability.LongWordsRatio)
		for _, rec := range r.ReadabilityRecommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
		b.WriteString("\n")
	}

	if r.SEO != nil {
		b.WriteString(sectionStyle.Render("SEO") + "\n")
		for _, k := range r.SEO.Keywords {
			fmt.Fprintf(&b, "  %s: %d (%.2f%%)\n", k.Word, k.Count, k.Density)
		}
		if len(r.SEO.TopLemmas) > 0 {
			words := make([]string, 0, len(r.SEO.TopLemmas))
			for _, t := range r.SEO.TopLemmas {
				words = append(words, fmt.Sprintf("%s×%d", t.Word, t.Count))
			}
			fmt.Fprintf(&b, "  %s\n", mutedStyle.Render(strings.Join(words, ", ")))
		}
		for _, rec := range r.SEO.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec)
		}
		b.WriteString("\n")
	}

	if len(r.Style) > 0 {
		b.WriteString(sectionStyle.Render(lang.Pick(l, "Стиль", "Style")) + "\n")
		groups := style.Group(r.Style)
		for _, t := range style.IssueTypes {
			if len(groups[t]) == 0 {
				continue
			}
			fmt.Fprintf(&b, "  %s (%d)\n", style.TypeLabel(t, l), len(groups[t]))
			for _, issue := range groups[t] {
				line := fmt.Sprintf("    %q: %s", issue.Text, issue.Message)
				if issue.Suggestion != "" {
					line += " → " + issue.Suggestion
				}
				b.WriteString(line + "\n")
			}
		}
		b.WriteString("\n")
	}

	if r.Grammar != nil {
		b.WriteString(sectionStyle.Render(lang.Pick(l, "Грамматика", "Grammar")) + "\n")
		fmt.Fprintf(&b, "  %s: %d\n\n", lang.Pick(l, "Найдено ошибок", "Issues found"), len(r.Grammar))
	}

	if r.Plagiarism != nil {
		b.WriteString(sectionStyle.Render(lang.Pick(l, "Уникальность", "Uniqueness")) + "\n")
		fmt.Fprintf(&b, "  %d%% (%d/%d)\n\n", r.Plagiarism.Uniqueness,
			r.Plagiarism.CheckedPhrases-len(r.Plagiarism.Matches), r.Plagiarism.CheckedPhrases)
	}

	for _, k := range r.Skipped {
		fmt.Fprintf(&b, "%s\n", mutedStyle.Render(fmt.Sprintf("%s: %s", k, lang.Pick(l, "пропущено в приватном режиме", "skipped in private mode"))))
	}
	for _, w := range r.Warnings {
		fmt.Fprintf(&b, "%s\n", warnStyle.Render(fmt.Sprintf("%s: %s", w.Check, w.Message)))
	}
	if len(r.Skipped) > 0 || len(r.Warnings) > 0 {
		b.WriteString("\n")
	}

	if len(r.Highlights) > 0 {
		b.WriteString(sectionStyle.Render(lang.Pick(l, "Текст", "Text")) + "\n")
		b.WriteString(annotate(text, r.Highlights))
		b.WriteString("\n")
	}
	return b.String()
}

// annotate renders text with each highlight styled by its type. Highlights
// must be sorted and non-overlapping, as highlight.Merge returns them.
func annotate(text string, highlights []highlight.Highlight) string {
	runes := []rune(text)
	var b strings.Builder
	pos := 0
	for _, h := range highlights {
		if h.Offset < pos || h.End() > len(runes) {
			continue
		}
		b.WriteString(string(runes[pos:h.Offset]))
		span := string(runes[h.Offset:h.End()])
		if st, ok := highlightStyles[h.Type]; ok {
			span = st.Render(span)
		}
		b.WriteString(span)
		pos = h.End()
	}
	b.WriteString(string(runes[pos:]))
	if !strings.HasSuffix(text, "\n") {
		b.WriteString("\n")
	}
	return b.String()
}
