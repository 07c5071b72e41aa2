package tui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"

	errs "github.com/jakoblorz/reactorstate/internal/errors"
)

// ErrNotInteractive is returned when a prompt is requested without a terminal on stdin.
var ErrNotInteractive = errs.New("confirmation requires an interactive terminal")

// Confirm asks a yes/no question on the terminal. Aborting the prompt answers no.
func Confirm(in io.Reader, out io.Writer, question string) (bool, error) {
	if f, ok := in.(*os.File); !ok || !term.IsTerminal(int(f.Fd())) {
		return false, ErrNotInteractive
	}

	var confirmed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(question).
			Affirmative("Yes").
			Negative("No").
			Value(&confirmed),
	)).
		WithTheme(NewHuhTheme()).
		WithInput(in).
		WithOutput(out)

	if err := form.Run(); err != nil {
		if errs.Is(err, huh.ErrUserAborted) {
			return false, nil
		}
		return false, fmt.Errorf("confirm prompt failed: %w", err)
	}
	return confirmed, nil
}
