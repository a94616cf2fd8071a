package starter

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrNotInteractive is returned by [Prompter.Framework] when stdin is not a
// terminal.
var ErrNotInteractive = errors.New("not running interactively")

// Prompter asks the user for decisions [Detect] could not make.
type Prompter struct {
	theme *huh.Theme
}

// NewPrompter creates a new [Prompter].
func NewPrompter() *Prompter {
	return &Prompter{
		theme: huh.ThemeCharm(),
	}
}

// Framework asks the user to pick a starter pack. It returns "" when the
// user picks none.
func (p *Prompter) Framework(ctx context.Context, projectDir string) (string, error) {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return "", ErrNotInteractive
	}

	options := make([]huh.Option[string], 0, len(Frameworks)+1)
	for _, name := range Names() {
		options = append(options, huh.NewOption(DisplayName(name), name))
	}

	options = append(options, huh.NewOption(DisplayName(""), ""))

	var choice string

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("No framework detected").
				Description(fmt.Sprintf(
					"Could not detect a framework in:\n%s\n\n"+
						"Pick a starter pack to install, or none to skip.",
					projectDir,
				)),

			huh.NewSelect[string]().
				Options(options...).
				Value(&choice),
		),
	).
		WithShowHelp(false).
		WithTheme(p.theme)

	err := form.RunWithContext(ctx)
	if err != nil {
		return "", fmt.Errorf("run framework prompt: %w", err)
	}

	return choice, nil
}
