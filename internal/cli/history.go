package cli

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"checktxt/internal/check"
	"checktxt/internal/db"
	"checktxt/internal/workspace"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent checks",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}

	cmd.Flags().IntP("limit", "n", 20, "Max results")
	cmd.Flags().String("db", "", "History database (default: $CHECKTXT_DB or <workspace>/history.db)")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, _ []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	dbPath, _ := cmd.Flags().GetString("db")
	if dbPath == "" {
		dbPath = check.DefaultConfig().DBPath
	}
	if dbPath == "" {
		base, err := openWorkspace()
		if err != nil {
			return fmt.Errorf("open workspace: %w", err)
		}
		dbPath = workspace.DBPath(base)
	}

	checks, err := db.ListChecks(dbPath, limit)
	if err != nil {
		return err
	}

	if formatFlag == "json" {
		b, _ := json.MarshalIndent(checks, "", "  ")
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCREATED\tLANG\tWORDS\tLEVEL\tUNIQUE\tHIGHLIGHTS\tWARNINGS")
	for _, c := range checks {
		unique := "-"
		if c.Uniqueness != nil {
			unique = fmt.Sprintf("%d%%", *c.Uniqueness)
		}
		level := c.ReadabilityLevel
		if level == "" {
			level = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\t%d\t%d\n",
			c.ID, c.CreatedAt.Local().Format("2006-01-02 15:04"), c.Language, c.WordCount, level, unique, c.Highlights, c.Warnings)
	}
	return tw.Flush()
}
