package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tomlfmt/internal/lsp"
)

var lspCmd = &cobra.Command{
	Use:   "lsp",
	Short: "Run the formatting language server over stdio",
	RunE:  runLSP,
}

func init() {
	addConfigFlags(lspCmd.Flags())
}

func runLSP(cmd *cobra.Command, _ []string) error {
	maxDiagnostics, err := cmd.Root().PersistentFlags().GetInt("max-diagnostics")
	if err != nil {
		return fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	loader, err := newConfigLoader(cmd, os.Stderr)
	if err != nil {
		return err
	}

	server := lsp.NewServer(lsp.ServerOptions{
		Config:         loader.ForEditor,
		MaxDiagnostics: maxDiagnostics,
		Log:            os.Stderr,
	})
	if err := server.Run(cmd.Context(), lsp.Stdio(os.Stdin, os.Stdout)); err != nil {
		if errors.Is(err, lsp.ErrExit) {
			return nil
		}
		if errors.Is(err, lsp.ErrExitWithoutShutdown) {
			return fmt.Errorf("lsp exit without shutdown")
		}
		return err
	}
	return nil
}
