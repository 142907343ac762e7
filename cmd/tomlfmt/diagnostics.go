package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"tomlfmt/internal/diag"
	"tomlfmt/internal/diagfmt"
	"tomlfmt/internal/source"
)

func addDiagFormatFlag(cmd *cobra.Command) {
	cmd.Flags().String("diag-format", "pretty", "diagnostics format on stderr (pretty|short|json)")
}

// printDiagnostics renders bag to w in the format chosen by --diag-format.
func printDiagnostics(cmd *cobra.Command, w io.Writer, bag *diag.Bag, fs *source.FileSet) error {
	if bag == nil || bag.Len() == 0 {
		return nil
	}
	format, err := cmd.Flags().GetString("diag-format")
	if err != nil {
		return fmt.Errorf("failed to get diag-format flag: %w", err)
	}
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	bag.Sort()

	switch format {
	case "pretty":
		diagfmt.Pretty(w, bag, fs, diagfmt.PrettyOpts{
			Color:     stderrColor(),
			Context:   1,
			ShowNotes: true,
			Max:       maxDiagnostics,
		})
	case "short":
		items := bag.Items()
		if maxDiagnostics > 0 && len(items) > maxDiagnostics {
			items = items[:maxDiagnostics]
		}
		fmt.Fprintln(w, diag.FormatShortDiagnostics(items, fs, true))
	case "json":
		return diagfmt.JSON(w, bag, fs, diagfmt.JSONOpts{
			IncludePositions: true,
			IncludeNotes:     true,
			Max:              maxDiagnostics,
		})
	default:
		return fmt.Errorf("unknown diagnostics format: %s", format)
	}
	return nil
}
