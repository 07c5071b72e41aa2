package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/tui"
)

// SaveCommand handles the save command
type SaveCommand struct {
	fs filesystem.FileSystem
}

// NewSaveCommand creates a new save command
func NewSaveCommand(fs filesystem.FileSystem) *cobra.Command {
	cmd := &SaveCommand{fs: fs}

	return &cobra.Command{
		Use:   "save",
		Short: "Record the outputs of the module and its descendants",
		Long: `Captures the outputs every module of the build produced and writes them to
a state file in the module's build output directory.

Declared outputs that do not exist on disk are not recorded. A module whose
main output is missing is saved without a location for it.`,
		Example: `  # Save after building the whole workspace
  reactorstate save

  # Save a single module
  reactorstate save -f services/api`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}
}

// Run executes the save command
func (c *SaveCommand) Run(cmd *cobra.Command, args []string) error {
	ctx, err := newCommandContext(c.fs, cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	s, err := ctx.openSession()
	if err != nil {
		return err
	}

	states, err := s.AfterBuild()
	if err != nil {
		return fmt.Errorf("failed to save module state: %w", err)
	}

	out := cmd.OutOrStdout()
	for _, state := range states {
		fmt.Fprintf(out, "%s %s %s\n",
			tui.SuccessStyle.Render("✓"),
			state.ID(),
			tui.PathStyle.Render(displayPath(s.Current.BaseDir, s.StatePath(state.Module))),
		)
	}
	return nil
}
