package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/svggraph/internal/orchestrator"
)

var validateOutput string

var validateCmd = &cobra.Command{
	Use:   "validate [file]",
	Short: "Run structural validation only, without extracting a graph.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var markup []byte
		var err error
		if len(args) == 1 {
			markup, err = os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read input file: %w", err)
			}
		} else {
			markup, err = io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
		}

		engine := orchestrator.New(rootCfg, rootLogger)
		result := engine.Validate(string(markup))

		if err := writeJSON(result, validateOutput); err != nil {
			return err
		}
		if !result.Valid {
			return fmt.Errorf("validation failed with %d errors", len(result.Errors))
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVarP(&validateOutput, "output", "o", "", "write the JSON result to a file instead of stdout")
}
