package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/lipgloss"

	"github.com/macropower/dcx/pkg/yaml"
)

// ErrorHandler renders command errors for fang. Flag and argument errors get
// a pointer to --help, configuration errors a pointer to `dcx config`.
func ErrorHandler(w io.Writer, styles fang.Styles, err error) {
	mustN(fmt.Fprintln(w, styles.ErrorHeader.String()))
	mustN(fmt.Fprintln(w, lipgloss.NewStyle().MarginLeft(2).Render(err.Error())))
	mustN(fmt.Fprintln(w))

	var hint []string

	switch {
	case isUsageError(err):
		hint = []string{"Try", styles.Program.Flag.Render("--help"), "for usage."}
	case isConfigError(err):
		hint = []string{"Try", styles.Program.Flag.Render("dcx config --write --force"), "to reset the configuration."}
	default:
		return
	}

	mustN(fmt.Fprintln(w, lipgloss.JoinHorizontal(
		lipgloss.Left,
		styles.ErrorText.UnsetWidth().Render(hint[0]),
		hint[1],
		styles.ErrorText.UnsetWidth().UnsetMargins().UnsetTransform().PaddingLeft(1).Render(hint[2]),
	)))
	mustN(fmt.Fprintln(w))
}

// XXX: this is a hack to detect usage errors.
// See: https://github.com/spf13/cobra/pull/2266
func isUsageError(err error) bool {
	s := err.Error()
	for _, prefix := range []string{
		"flag needs an argument:",
		"unknown flag:",
		"unknown shorthand flag:",
		"unknown command",
		"invalid argument",
		"accepts ",
	} {
		if strings.HasPrefix(s, prefix) {
			return true
		}
	}

	return false
}

func isConfigError(err error) bool {
	var yamlErr *yaml.Error

	return errors.As(err, &yamlErr)
}

func must(err error) {
	if err != nil {
		panic(err)
	}
}

func mustN(_ int, err error) {
	must(err)
}
