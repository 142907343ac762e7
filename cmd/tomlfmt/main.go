package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tomlfmt/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "tomlfmt",
	Short: "Lossless TOML formatter",
	Long: `tomlfmt reformats TOML documents while keeping every comment and blank-line
group. Cargo.toml files additionally get Cargo's key and table ordering.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  setupSession,
	PersistentPostRunE: finishSession,
}

// exitError carries an exit status for failures already reported to the user.
type exitError struct {
	code int
}

func (e *exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// init registers subcommands and persistent flags.
func init() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	rootCmd.AddCommand(fmtCmd)
	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(lspCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	pf := rootCmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "print per-phase timings to stderr")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to show per file")
	addTraceFlags(pf)
	addProfileFlags(pf)
}

// main executes the root command and maps the outcome to a process exit status.
func main() {
	err := rootCmd.Execute()
	teardown(err)
	if err != nil {
		var exit *exitError
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintf(os.Stderr, "tomlfmt: %v\n", err)
		os.Exit(1)
	}
}
