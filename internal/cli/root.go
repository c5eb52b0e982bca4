// Package cli implements the checktxt commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"checktxt/internal/workspace"
)

var (
	workspaceFlag string
	formatFlag    string
	verboseFlag   bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "checktxt",
	Short:         "Offline text checker for Russian and English",
	Long:          "Checks text for repetitions, readability, SEO keyword density, style problems, grammar and plagiarism.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&workspaceFlag, "workspace", "w", "", "Workspace directory (default: $CHECKTXT_HOME or ~/CheckTXT)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log debug details to stderr")
}

// Execute runs the root command and prints any error to stderr.
func Execute(ctx context.Context) error {
	err := RootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
	}
	return err
}

// openWorkspace creates the workspace layout if needed and returns its path.
func openWorkspace() (string, error) {
	switch {
	case workspaceFlag != "":
		return workspace.EnsureAt(workspaceFlag)
	case os.Getenv("CHECKTXT_HOME") != "":
		return workspace.EnsureAt(os.Getenv("CHECKTXT_HOME"))
	default:
		return workspace.EnsureDefault()
	}
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelWarn
	if verboseFlag {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

func checkFormat() error {
	switch formatFlag {
	case "json", "text":
		return nil
	default:
		return fmt.Errorf("unknown format %q (want json or text)", formatFlag)
	}
}

// splitList parses a comma separated flag value.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
