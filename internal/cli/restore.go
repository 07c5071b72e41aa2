package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/tui"
)

// RestoreCommand handles the restore command
type RestoreCommand struct {
	fs filesystem.FileSystem
}

// NewRestoreCommand creates a new restore command
func NewRestoreCommand(fs filesystem.FileSystem) *cobra.Command {
	cmd := &RestoreCommand{fs: fs}

	cobraCmd := &cobra.Command{
		Use:   "restore",
		Short: "Restore saved outputs into the module and its descendants",
		Long: `Discovers the workspace around the module, reads every saved state and
applies the saved outputs to the modules of this build.

Nothing happens when no module of the workspace has saved state. Otherwise a
module without saved state fails the restore, unless --lenient is given.`,
		Example: `  # Restore a single module and print its outputs
  reactorstate restore -f services/api

  # Machine-readable output
  reactorstate restore --format json`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().String("format", "text", "Output format: text or json")

	return cobraCmd
}

// Run executes the restore command
func (c *RestoreCommand) Run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (must be text or json)", format)
	}

	ctx, err := newCommandContext(c.fs, cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	s, err := ctx.openSession()
	if err != nil {
		return err
	}

	restored, err := s.AfterModulesRead()
	if err != nil {
		return fmt.Errorf("failed to restore module state: %w", err)
	}

	views := make([]ModuleView, 0, len(restored))
	for _, module := range restored {
		views = append(views, moduleViewFromLive(module))
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		return writeJSON(out, views)
	}

	if len(views) == 0 {
		fmt.Fprintln(out, tui.SubtleStyle.Render("No saved state in workspace, nothing restored"))
		return nil
	}
	writeModuleViews(out, s.Current.BaseDir, views)
	return nil
}
