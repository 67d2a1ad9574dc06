// Package ui renders the driver's OK/ERROR outcome line with lipgloss
// styling when stdout is a terminal, and falls back to plain text
// otherwise so piped output and CI logs stay readable.
package ui

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	colorSuccess = lipgloss.Color("#5AF78E")
	colorError   = lipgloss.Color("#FF6B9D")
	colorMuted   = lipgloss.Color("#6C7086")

	styleSuccess = lipgloss.NewStyle().Foreground(colorSuccess).Bold(true)
	styleError   = lipgloss.NewStyle().Foreground(colorError).Bold(true)
	stylePhase   = lipgloss.NewStyle().Foreground(colorMuted).Italic(true)
)

// Mode selects when styling is applied: Auto styles only when the
// target stream is a terminal, Always/Never force the decision.
type Mode string

const (
	Auto   Mode = "auto"
	Always Mode = "always"
	Never  Mode = "never"
)

func shouldStyle(w io.Writer, mode Mode) bool {
	switch mode {
	case Always:
		return true
	case Never:
		return false
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// PrintOK writes the success line to w: "OK" plain, or a styled variant
// on a terminal.
func PrintOK(w io.Writer, mode Mode, outPath string) {
	if shouldStyle(w, mode) {
		fmt.Fprintln(w, styleSuccess.Render("OK"), stylePhase.Render(outPath))
		return
	}
	fmt.Fprintln(w, "OK")
}

// PrintError writes the error contract to w: a literal "ERROR" line
// followed by the diagnostic, styled red on a terminal.
func PrintError(w io.Writer, mode Mode, phase string, err error) {
	if shouldStyle(w, mode) {
		fmt.Fprintln(w, styleError.Render("ERROR"))
		if phase != "" {
			fmt.Fprintln(w, stylePhase.Render(phase+":"), err)
		} else {
			fmt.Fprintln(w, err)
		}
		return
	}
	fmt.Fprintln(w, "ERROR")
	if phase != "" {
		fmt.Fprintf(w, "%s: %s\n", phase, err)
	} else {
		fmt.Fprintln(w, err)
	}
}
