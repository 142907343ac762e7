package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"tomlfmt/internal/config"
)

var initCmd = &cobra.Command{
	Use:   "init [dir]",
	Short: "Write a default configuration file",
	Long: `Init writes tomlfmt.toml with every option at its default value into [dir]
(default: the current directory). Use --yaml for .tomlfmt.yaml instead.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

func init() {
	initCmd.Flags().Bool("yaml", false, "write .tomlfmt.yaml instead of tomlfmt.toml")
	initCmd.Flags().Bool("force", false, "overwrite an existing configuration file")
}

// runInit writes the default configuration into the target directory,
// creating the directory when needed. An existing file is kept unless
// --force is set.
func runInit(cmd *cobra.Command, args []string) error {
	useYAML, err := cmd.Flags().GetBool("yaml")
	if err != nil {
		return err
	}
	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	if st, err := os.Stat(target); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
		if err := os.MkdirAll(target, 0o755); err != nil {
			return fmt.Errorf("failed to create directory %q: %w", target, err)
		}
	} else if !st.IsDir() {
		return fmt.Errorf("%q is not a directory", target)
	}

	name := "tomlfmt.toml"
	marshal := config.Marshal
	if useYAML {
		name = ".tomlfmt.yaml"
		marshal = config.MarshalYAML
	}
	path := filepath.Join(target, name)

	if !force {
		for _, existing := range config.FileNames {
			candidate := filepath.Join(target, existing)
			if _, err := os.Stat(candidate); err == nil {
				return fmt.Errorf("configuration already exists: %s (use --force to overwrite)", candidate)
			}
		}
	}

	data, err := marshal(config.Default())
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	quiet, _ := cmd.Root().PersistentFlags().GetBool("quiet")
	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
	}
	return nil
}
