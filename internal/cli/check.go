package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"checktxt/internal/check"
	"checktxt/internal/db"
	"checktxt/internal/ingest"
	"checktxt/internal/lang"
	"checktxt/internal/style"
	"checktxt/internal/workspace"
)

func init() {
	cmd := &cobra.Command{
		Use:   "check [file]",
		Short: "Check a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runCheck,
	}

	cmd.Flags().StringP("lang", "l", "", "Language: ru, en or auto (default from settings)")
	cmd.Flags().StringP("keywords", "k", "", "SEO keywords (comma-separated, default from settings)")
	cmd.Flags().Bool("private", false, "Skip grammar and plagiarism checks that send text to external services")
	cmd.Flags().StringP("checks", "c", "", "Checks to run (comma-separated, default all)")
	cmd.Flags().String("stemmer", "", "SEO lemmatizer: heuristic or snowball")
	cmd.Flags().String("dict", "", "Extra style dictionaries (comma-separated YAML files)")
	cmd.Flags().StringP("out", "o", "", "Report file (default: <workspace>/reports/<id>.json)")
	cmd.Flags().String("db", "", "History database (default: $CHECKTXT_DB or <workspace>/history.db)")

	RootCmd.AddCommand(cmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	base, err := openWorkspace()
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}
	settings, err := workspace.LoadSettings(base)
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())

	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}

	req, err := buildRequest(cmd, settings, text)
	if err != nil {
		return err
	}

	cfg := check.DefaultConfig()
	if settings.Stemmer != "" {
		cfg.Stemmer = settings.Stemmer
	}
	if v, _ := cmd.Flags().GetString("stemmer"); v != "" {
		cfg.Stemmer = v
	}
	opts, err := checkerOptions(cmd, settings, base)
	if err != nil {
		return err
	}

	checker := check.New(cfg, opts...)
	report, err := checker.Run(cmd.Context(), req)
	if err != nil {
		return err
	}
	for _, w := range report.Warnings {
		logger.Warn("check degraded", "check", w.Check, "error", w.Message)
	}

	out, _ := cmd.Flags().GetString("out")
	if out == "" {
		out = workspace.ReportPath(base, report.ID)
	}
	if err := workspace.SaveReport(out, report); err != nil {
		return err
	}
	logger.Debug("report saved", "path", out)

	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = cfg.DBPath
	}
	if dbPath == "" {
		dbPath = workspace.DBPath(base)
	}
	if err := db.PersistCheck(dbPath, report, text); err != nil {
		logger.Warn("history not saved", "db", dbPath, "error", err)
	}

	if formatFlag == "json" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	_, err = io.WriteString(cmd.OutOrStdout(), renderReport(report, text))
	return err
}

func readInput(cmd *cobra.Command, args []string) (string, error) {
	if len(args) == 1 {
		parsed, err := ingest.ParseFile(args[0])
		if err != nil {
			return "", err
		}
		return parsed.Text, nil
	}
	raw, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(raw), nil
}

func buildRequest(cmd *cobra.Command, settings workspace.Settings, text string) (check.Request, error) {
	req := check.Request{Text: text, Keywords: settings.SEOKeywords, Private: settings.PrivateMode}

	rawLang := settings.Language
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		rawLang = v
	}
	language, err := lang.Parse(rawLang)
	if err != nil {
		return req, err
	}
	req.Language = language

	if v, _ := cmd.Flags().GetString("keywords"); v != "" {
		req.Keywords = splitList(v)
	}
	if cmd.Flags().Changed("private") {
		req.Private, _ = cmd.Flags().GetBool("private")
	}
	if v, _ := cmd.Flags().GetString("checks"); v != "" {
		if req.Checks, err = check.ParseKinds(v); err != nil {
			return req, err
		}
	}
	return req, nil
}

func checkerOptions(cmd *cobra.Command, settings workspace.Settings, base string) ([]check.Option, error) {
	var opts []check.Option

	paths := append([]string{}, settings.Dictionaries...)
	if v, _ := cmd.Flags().GetString("dict"); v != "" {
		paths = append(paths, splitList(v)...)
	}
	if len(paths) > 0 {
		dicts := make([]style.Dictionary, 0, len(paths))
		for _, p := range paths {
			d, err := style.LoadDictionary(p)
			if err != nil {
				return nil, err
			}
			dicts = append(dicts, d)
		}
		checker, err := style.NewChecker(dicts...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, check.WithStyle(checker))
	}

	sessionLog, err := workspace.NewSessionLog(base)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: session log disabled: %v\n", err)
	} else {
		opts = append(opts, check.WithLogger(sessionLog))
	}
	return opts, nil
}
