package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"checktxt/internal/ingest"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "export <in> <out>",
		Short: "Convert a document between txt, md, docx and pdf (input only)",
		Args:  cobra.ExactArgs(2),
		RunE:  runExport,
	})
}

func runExport(cmd *cobra.Command, args []string) error {
	parsed, err := ingest.ParseFile(args[0])
	if err != nil {
		return err
	}
	if err := ingest.WriteFile(args[1], parsed.Text); err != nil {
		return err
	}
	_, err = fmt.Fprintf(cmd.OutOrStdout(), "exported %s (%s) to %s\n", parsed.Title, parsed.Format, args[1])
	return err
}
