package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	errs "github.com/jakoblorz/reactorstate/internal/errors"
	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/models"
	"github.com/jakoblorz/reactorstate/internal/resolver"
)

// WhereCommand handles the where command
type WhereCommand struct {
	fs filesystem.FileSystem
}

// NewWhereCommand creates a new where command
func NewWhereCommand(fs filesystem.FileSystem) *cobra.Command {
	cmd := &WhereCommand{fs: fs}

	return &cobra.Command{
		Use:   "where <coordinates>",
		Short: "Print the file of an artifact produced in the workspace",
		Long: `Looks up an artifact among the saved state of every module in the workspace.

Coordinates are group:artifact[:extension[:classifier]]:version. The command
fails when the artifact is unknown, was saved with another version or has no
file.`,
		Example: `  reactorstate where com.example:core:1.0.0
  reactorstate where com.example:core:jar:sources:1.0.0`,
		Args: cobra.ExactArgs(1),
		RunE: cmd.Run,
	}
}

// Run executes the where command
func (c *WhereCommand) Run(cmd *cobra.Command, args []string) error {
	coords, err := models.ParseCoordinates(args[0])
	if err != nil {
		return err
	}

	r, err := loadResolver(c.fs, cmd)
	if err != nil {
		return err
	}

	location, ok := r.FindLocation(coords)
	if !ok {
		return fmt.Errorf("%w: artifact %s", errs.ErrNotFound, coords)
	}

	fmt.Fprintln(cmd.OutOrStdout(), location)
	return nil
}

// VersionsCommand handles the versions command
type VersionsCommand struct {
	fs filesystem.FileSystem
}

// NewVersionsCommand creates a new versions command
func NewVersionsCommand(fs filesystem.FileSystem) *cobra.Command {
	cmd := &VersionsCommand{fs: fs}

	return &cobra.Command{
		Use:   "versions <coordinates>",
		Short: "Print the versions of an artifact known to the workspace",
		Long: `Looks up an artifact among the saved state of every module in the workspace,
ignoring the version of the given coordinates.`,
		Example: `  reactorstate versions com.example:core:0`,
		Args:    cobra.ExactArgs(1),
		RunE:    cmd.Run,
	}
}

// Run executes the versions command
func (c *VersionsCommand) Run(cmd *cobra.Command, args []string) error {
	coords, err := models.ParseCoordinates(args[0])
	if err != nil {
		return err
	}

	r, err := loadResolver(c.fs, cmd)
	if err != nil {
		return err
	}

	versions := r.FindVersions(coords)
	if len(versions) == 0 {
		return fmt.Errorf("%w: artifact %s", errs.ErrNotFound, coords.VersionlessID())
	}

	fmt.Fprintln(cmd.OutOrStdout(), strings.Join(versions, "\n"))
	return nil
}

func loadResolver(fs filesystem.FileSystem, cmd *cobra.Command) (resolver.Resolver, error) {
	ctx, err := newCommandContext(fs, cmd)
	if err != nil {
		return nil, err
	}
	defer ctx.Close()

	s, err := ctx.openSession()
	if err != nil {
		return nil, err
	}
	if err := s.LoadSaved(); err != nil {
		return nil, fmt.Errorf("failed to load saved state: %w", err)
	}
	return s.Resolver(), nil
}
