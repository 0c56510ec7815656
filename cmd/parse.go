package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/svggraph/api/schemas"
	"github.com/xkilldash9x/svggraph/internal/orchestrator"
)

var (
	parseURL        string
	parseFile       string
	parseOutput     string
	parseMaxNodes   int
	parseTimeout    int
	parseNoValidate bool
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Parse SVG markup into a graph and print the result as JSON.",
	Long: `Parse reads SVG markup from a file, a URL, or stdin, runs the full
parsing pipeline, and prints the response envelope as indented JSON.
A non-zero exit status means the parse produced at least one
error-severity diagnostic.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		req, err := buildRequest()
		if err != nil {
			return err
		}

		engine := orchestrator.New(rootCfg, rootLogger)
		resp := engine.Parse(cmd.Context(), req)

		if err := writeJSON(resp, parseOutput); err != nil {
			return err
		}
		if !resp.Success {
			rootLogger.Warn("Parse failed", zap.Int("diagnostics", len(resp.Errors)))
			return fmt.Errorf("parse failed with %d diagnostics", len(resp.Errors))
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseURL, "url", "u", "", "fetch markup from a remote URL")
	parseCmd.Flags().StringVarP(&parseFile, "file", "f", "", "read markup from a file path")
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "", "write the JSON response to a file instead of stdout")
	parseCmd.Flags().IntVar(&parseMaxNodes, "max-nodes", 0, "override the node-count warning threshold")
	parseCmd.Flags().IntVar(&parseTimeout, "timeout-ms", 0, "override the parse time budget in milliseconds")
	parseCmd.Flags().BoolVar(&parseNoValidate, "no-validate", false, "skip the structural validation stage")
}

// buildRequest resolves the input source and option overrides from flags.
func buildRequest() (schemas.ParseRequest, error) {
	var req schemas.ParseRequest

	switch {
	case parseURL != "":
		req.Input = parseURL
		req.InputMode = schemas.ModeURL
	case parseFile != "":
		data, err := os.ReadFile(parseFile)
		if err != nil {
			return req, fmt.Errorf("read input file: %w", err)
		}
		req.Input = string(data)
		req.InputMode = schemas.ModeFile
	default:
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return req, fmt.Errorf("read stdin: %w", err)
		}
		req.Input = string(data)
		req.InputMode = schemas.ModeString
	}

	opts := &schemas.ParseOptions{}
	overridden := false
	if parseMaxNodes > 0 {
		opts.MaxNodes = &parseMaxNodes
		overridden = true
	}
	if parseTimeout > 0 {
		opts.TimeoutMs = &parseTimeout
		overridden = true
	}
	if parseNoValidate {
		f := false
		opts.ValidateStructure = &f
		overridden = true
	}
	if overridden {
		req.Options = opts
	}
	return req, nil
}

func writeJSON(v interface{}, path string) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode response: %w", err)
	}
	data = append(data, '\n')

	if path == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write output file: %w", err)
	}
	return nil
}
