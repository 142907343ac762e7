package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tomlfmt/internal/diagfmt"
	"tomlfmt/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.toml",
	Short: "Print the syntax tree of a TOML file",
	Long: `Parse builds the lossless syntax tree of a TOML file and prints it. The tree
covers every byte of the input, including comments and whitespace.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	addDiagFormatFlag(parseCmd)
	parseCmd.Flags().String("format", "tree", "output format (tree|json)")
}

func runParse(cmd *cobra.Command, args []string) error {
	filePath := args[0]

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}

	result, err := driver.Parse(filePath, maxDiagnostics)
	if err != nil {
		return fmt.Errorf("parsing failed: %w", err)
	}

	if err := printDiagnostics(cmd, os.Stderr, result.Bag, result.FileSet); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch format {
	case "tree":
		err = diagfmt.FormatTree(out, result.Root)
	case "json":
		err = diagfmt.FormatTreeJSON(out, result.Root)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return &exitError{code: exitFailed}
	}
	return nil
}
