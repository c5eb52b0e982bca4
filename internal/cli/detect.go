package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"checktxt/internal/lang"
	"checktxt/internal/tokenize"
)

func init() {
	RootCmd.AddCommand(&cobra.Command{
		Use:   "detect [file]",
		Short: "Detect the language of a file or stdin",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runDetect,
	})
}

func runDetect(cmd *cobra.Command, args []string) error {
	if err := checkFormat(); err != nil {
		return err
	}
	text, err := readInput(cmd, args)
	if err != nil {
		return err
	}
	detected := lang.Detect(text)

	if formatFlag == "json" {
		return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
			"language": detected.String(),
			"words":    len(tokenize.Tokenize(text)),
			"chars":    tokenize.RuneLen(text),
		})
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), detected.String())
	return err
}
