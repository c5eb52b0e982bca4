package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"checktxt/internal/lang"
	"checktxt/internal/seo"
	"checktxt/internal/workspace"
)

func init() {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change workspace settings",
		Args:  cobra.NoArgs,
		RunE:  runSettings,
	}

	cmd.Flags().String("add-keyword", "", "Add an SEO keyword")
	cmd.Flags().String("remove-keyword", "", "Remove an SEO keyword")
	cmd.Flags().Bool("private", false, "Enable or disable private mode (--private=false)")
	cmd.Flags().String("lang", "", "Default language: ru, en or auto")
	cmd.Flags().String("stemmer", "", "SEO lemmatizer: heuristic or snowball")

	RootCmd.AddCommand(cmd)
}

func runSettings(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	base, err := openWorkspace()
	if err != nil {
		return fmt.Errorf("open workspace: %w", err)
	}
	s, err := workspace.LoadSettings(base)
	if err != nil {
		return err
	}

	changed := false
	if v, _ := cmd.Flags().GetString("add-keyword"); v != "" {
		changed = s.AddKeyword(v) || changed
	}
	if v, _ := cmd.Flags().GetString("remove-keyword"); v != "" {
		changed = s.RemoveKeyword(v) || changed
	}
	if cmd.Flags().Changed("private") {
		s.PrivateMode, _ = cmd.Flags().GetBool("private")
		changed = true
	}
	if v, _ := cmd.Flags().GetString("lang"); v != "" {
		if _, err := lang.Parse(v); err != nil {
			return err
		}
		s.Language = strings.ToLower(v)
		changed = true
	}
	if v, _ := cmd.Flags().GetString("stemmer"); v != "" {
		if v != seo.StemmerHeuristic && v != seo.StemmerSnowball {
			return fmt.Errorf("unknown stemmer %q (want %s or %s)", v, seo.StemmerHeuristic, seo.StemmerSnowball)
		}
		s.Stemmer = v
		changed = true
	}
	if changed {
		if err := workspace.SaveSettings(base, s); err != nil {
			return err
		}
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(s, "", "  ")
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "workspace:    %s\n", base)
	fmt.Fprintf(out, "language:     %s\n", s.Language)
	fmt.Fprintf(out, "private mode: %t\n", s.PrivateMode)
	fmt.Fprintf(out, "stemmer:      %s\n", s.Stemmer)
	fmt.Fprintf(out, "keywords:     %s\n", strings.Join(s.SEOKeywords, ", "))
	if len(s.Dictionaries) > 0 {
		fmt.Fprintf(out, "dictionaries: %s\n", strings.Join(s.Dictionaries, ", "))
	}
	return nil
}
