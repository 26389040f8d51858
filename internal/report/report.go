// SPDX-License-Identifier: MPL-2.0

// Package report turns parse-time failures into the conventional CLI
// error surface: usage plus a "<prog>: error: <message>" line on stderr,
// followed by exit code 2 or a wrapped error when exiting is disabled.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"modelargs/pkg/argerr"
)

// ExitUsage is the exit code for command-line usage errors.
const ExitUsage = 2

// Reporter writes usage-error output for a single program.
type Reporter struct {
	// Prog is the program name used in the error prefix.
	Prog string
	// Usage is the pre-rendered usage line printed above the error.
	Usage string
	// ExitOnError selects between exiting the process and returning a
	// wrapped error.
	ExitOnError bool
	// Stderr receives the rendered output.
	Stderr io.Writer
	// Exit terminates the process when ExitOnError is set.
	Exit func(int)
}

// Report renders err to stderr. When ExitOnError is set it calls Exit
// with code 2; otherwise it returns the failure wrapped as an
// *argerr.ArgumentError. The return value is also populated after a
// stubbed Exit returns, which keeps the reporter testable.
func (r *Reporter) Report(err error) error {
	errorStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("196"))

	usageStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245"))

	if r.Usage != "" {
		fmt.Fprintln(r.Stderr, usageStyle.Render(r.Usage))
	}
	fmt.Fprintf(r.Stderr, "%s %s\n",
		errorStyle.Render(r.Prog+": error:"), summarize(err))

	if r.ExitOnError {
		r.Exit(ExitUsage)
	}
	return &argerr.ArgumentError{Prog: r.Prog, Err: err}
}

// summarize flattens multi-line failure messages so continuation lines
// stay indented under the error prefix.
func summarize(err error) string {
	lines := strings.Split(err.Error(), "\n")
	for i := 1; i < len(lines); i++ {
		lines[i] = "  " + strings.TrimSpace(lines[i])
	}
	return strings.Join(lines, "\n")
}
