package main

import (
	"io"
	"os"
	"time"

	"worktimer/internal/periodview"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

var (
	startStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	durationStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("69")).Bold(true)
	runningStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("82")).Bold(true)
	commentStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("170"))
)

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// styledLine is Line with colors; running periods are highlighted.
func styledLine(v periodview.View, now time.Time) (string, error) {
	cols, err := v.Columns(now)
	if err != nil {
		return "", err
	}

	dur := durationStyle.Render(cols.Duration)
	if cols.Open {
		dur = runningStyle.Render(cols.Duration)
	}
	return startStyle.Render(cols.Start) + "  " +
		startStyle.Render(cols.End) + "  " +
		dur + "  " +
		commentStyle.Render(cols.Comment), nil
}
