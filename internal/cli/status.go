package cli

import (
	"fmt"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/spf13/cobra"

	"github.com/jakoblorz/reactorstate/internal/filesystem"
	"github.com/jakoblorz/reactorstate/internal/tui"
)

// StatusCommand handles the status command
type StatusCommand struct {
	fs filesystem.FileSystem
}

// NewStatusCommand creates a new status command
func NewStatusCommand(fs filesystem.FileSystem) *cobra.Command {
	cmd := &StatusCommand{fs: fs}

	cobraCmd := &cobra.Command{
		Use:   "status",
		Short: "List the saved state of every module in the workspace",
		Long: `Discovers the workspace around the module and prints the saved outputs of
every module that has a state file. Modules without saved state are omitted.

The --template flag renders the list of modules with a Go template. Sprig
functions are available.`,
		Example: `  # Human-readable listing
  reactorstate status

  # One line per module
  reactorstate status --template '{{range .}}{{.Module}} {{len .Artifacts}}{{"\n"}}{{end}}'`,
		Args: cobra.NoArgs,
		RunE: cmd.Run,
	}

	cobraCmd.Flags().String("format", "text", "Output format: text or json")
	cobraCmd.Flags().String("template", "", "Go template rendered over the module list")

	return cobraCmd
}

// Run executes the status command
func (c *StatusCommand) Run(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")
	tmplText, _ := cmd.Flags().GetString("template")
	if format != "text" && format != "json" {
		return fmt.Errorf("invalid format: %s (must be text or json)", format)
	}

	var tmpl *template.Template
	if tmplText != "" {
		var err error
		tmpl, err = template.New("status").Funcs(sprig.TxtFuncMap()).Parse(tmplText)
		if err != nil {
			return fmt.Errorf("failed to parse template: %w", err)
		}
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
	if err := s.LoadSaved(); err != nil {
		return fmt.Errorf("failed to load saved state: %w", err)
	}

	states := s.Saved()
	views := make([]ModuleView, 0, len(states))
	for _, state := range states {
		views = append(views, moduleViewFromState(state, s.StatePath(state.Module)))
	}

	out := cmd.OutOrStdout()
	switch {
	case tmpl != nil:
		if err := tmpl.Execute(out, views); err != nil {
			return fmt.Errorf("failed to render template: %w", err)
		}
		return nil
	case format == "json":
		return writeJSON(out, views)
	}

	if len(views) == 0 {
		fmt.Fprintln(out, tui.SubtleStyle.Render("No saved state in workspace"))
		return nil
	}
	fmt.Fprintln(out, tui.TitleStyle.Render(fmt.Sprintf("%d module(s) with saved state", len(views))))
	fmt.Fprintln(out)
	writeModuleViews(out, s.Current.BaseDir, views)
	return nil
}
