package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/tui"
)

// CleanCommand handles the clean command
type CleanCommand struct {
	fs      filesystem.FileSystem
	confirm func(in io.Reader, out io.Writer, question string) (bool, error)
}

// NewCleanCommand creates a new clean command
func NewCleanCommand(fs filesystem.FileSystem) *cobra.Command {
	cmd := &CleanCommand{
		fs:      fs,
		confirm: tui.Confirm,
	}

	cobraCmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the saved state of the module and its descendants",
		Long: `Removes the state file of every module of the build. Build outputs are
left untouched. Asks for confirmation unless --yes is given.`,
		Example: `  reactorstate clean --yes`,
		Args:    cobra.NoArgs,
		RunE:    cmd.Run,
	}

	cobraCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")

	return cobraCmd
}

// Run executes the clean command
func (c *CleanCommand) Run(cmd *cobra.Command, args []string) error {
	yes, _ := cmd.Flags().GetBool("yes")

	ctx, err := newCommandContext(c.fs, cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	s, err := ctx.openSession()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if !yes {
		question := fmt.Sprintf("Delete saved state of %d module(s)?", len(s.Modules))
		ok, err := c.confirm(cmd.InOrStdin(), out, question)
		if err != nil {
			return fmt.Errorf("%w (use --yes to skip)", err)
		}
		if !ok {
			fmt.Fprintln(out, tui.SubtleStyle.Render("Aborted"))
			return nil
		}
	}

	if err := s.Clean(); err != nil {
		return fmt.Errorf("failed to clean module state: %w", err)
	}

	for _, module := range s.Modules {
		fmt.Fprintf(out, "%s %s\n", tui.SuccessStyle.Render("✓ removed"), tui.PathStyle.Render(displayPath(s.Current.BaseDir, s.StatePath(module))))
	}
	return nil
}
