package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakoblorz/reactorstate/internal/filesystem"
)

// NewRootCommand creates the root command
func NewRootCommand(fs filesystem.FileSystem) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reactorstate",
		Short: "Cache build outputs across partial builds of a multi-module workspace",
		Long: `A CLI tool that records what every module of a workspace produced and
restores that state into later builds of a subset of the modules.

Outputs are saved next to each module in its build output directory. A later
build started in a single module restores its own outputs and can locate the
outputs of every other module of the workspace.`,
		SilenceUsage: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringP("file", "f", "", "Module descriptor file or directory (default: current directory)")
	flags.String("config", "", "Configuration file (default: nearest .reactorstate.yaml)")
	flags.String("codec", "", "State file format: properties or json")
	flags.Bool("strict", false, "Fail the restore when a module has no saved state")
	flags.Bool("lenient", false, "Skip modules without saved state on restore")
	flags.BoolP("verbose", "v", false, "Enable debug logging")
	flags.BoolP("quiet", "q", false, "Only log warnings and errors")

	rootCmd.AddCommand(NewSaveCommand(fs))
	rootCmd.AddCommand(NewRestoreCommand(fs))
	rootCmd.AddCommand(NewStatusCommand(fs))
	rootCmd.AddCommand(NewWhereCommand(fs))
	rootCmd.AddCommand(NewVersionsCommand(fs))
	rootCmd.AddCommand(NewCleanCommand(fs))

	return rootCmd
}

// Execute runs the root command
func Execute() error {
	fs := filesystem.NewOSFileSystem()

	rootCmd := NewRootCommand(fs)

	if err := rootCmd.Execute(); err != nil {
		return fmt.Errorf("command failed: %w", err)
	}

	return nil
}
