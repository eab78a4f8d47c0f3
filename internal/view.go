package internal

import (
	"fmt"
	"strings"
	"time"

	"worktimer/internal/period"
	"worktimer/internal/periodview"
	"worktimer/internal/report"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true).
			Align(lipgloss.Center)

	timerDisplayStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("69")).
				Bold(true)

	timerRunningStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("82")).
				Bold(true)

	timerPausedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("214")).
				Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 1)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	logHeaderStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")).
			Bold(true)

	logTagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("170"))

	logTimeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	inactiveStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))
)

// worked is the running period's duration with any pause in progress
// taken off, so the display stops while paused.
func (m *Model) worked(now time.Time) period.HMS {
	h := period.WorkedAt(m.Current, now)
	return period.SplitSeconds(float64(h.TotalSeconds()) - m.Pause.Elapsed().Seconds())
}

func (m *Model) mainView() string {
	var sb strings.Builder

	sb.WriteString(titleStyle.Width(80).Render("Work Timer"))
	sb.WriteString("\n\n")
	sb.WriteString(m.currentView())
	sb.WriteString("\n\n")
	sb.WriteString(m.todayView())
	sb.WriteString("\n")
	if m.Err != nil {
		sb.WriteString(errorStyle.Render("Error: " + m.Err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString(helpStyle.Render("Start/Stop: s | Pause/Resume: p | Comment: c | Refresh: r | Quit: q"))

	return sb.String()
}

func (m *Model) currentView() string {
	now := m.clock.Now()
	if !m.HasCurrent {
		body := fmt.Sprintf("%s\n\n%s",
			timerDisplayStyle.Render(periodview.FormatHMS(period.HMS{})),
			inactiveStyle.Render("Stopped"),
		)
		return boxStyle.Width(45).Render(body)
	}

	durStr := periodview.FormatHMS(m.worked(now))
	status := "Running"
	timerStr := timerRunningStyle.Render(durStr)
	if m.Pause.Running() {
		status = fmt.Sprintf("Paused for %s", periodview.FormatHMS(period.SplitSeconds(m.Pause.Elapsed().Seconds())))
		timerStr = timerPausedStyle.Render(durStr)
	}

	var sb strings.Builder
	sb.WriteString(timerStr)
	sb.WriteString("\n\n")
	sb.WriteString(status)
	if cols, err := periodview.New(m.Current, m.zone).Columns(now); err == nil {
		sb.WriteString(fmt.Sprintf("\nSince %s", logTimeStyle.Render(cols.Start)))
	}
	if m.Current.Comment != "" {
		sb.WriteString("\n" + logTagStyle.Render("["+m.Current.Comment+"]"))
	}
	return boxStyle.Width(45).Render(sb.String())
}

func (m *Model) todayView() string {
	var sb strings.Builder
	sb.WriteString(logHeaderStyle.Render("Today"))
	sb.WriteString("\n")

	if len(m.Today) == 0 {
		sb.WriteString(inactiveStyle.Render("  nothing tracked yet"))
		sb.WriteString("\n")
		return sb.String()
	}

	now := m.clock.Now()
	for _, p := range m.Today {
		sb.WriteString(m.formatPeriod(p, now))
		sb.WriteString("\n")
	}

	groups, err := report.Summarize(m.Today, m.location(), report.ByDay, now)
	if err == nil {
		total := period.SplitSeconds(report.Total(groups).Seconds())
		sb.WriteString(fmt.Sprintf("  %s %s\n", logHeaderStyle.Render("Total"), periodview.FormatHMS(total)))
	}
	return sb.String()
}

func (m *Model) formatPeriod(p period.Period, now time.Time) string {
	cols, err := periodview.New(p, m.zone).Columns(now)
	if err != nil {
		return errorStyle.Render("  " + err.Error())
	}
	start := cols.Start
	if i := strings.IndexByte(start, ' '); i >= 0 {
		start = start[i+1:]
	}
	span := logTimeStyle.Render(start + " - " + cols.End)
	tag := ""
	if cols.Comment != "" {
		tag = " " + logTagStyle.Render("["+cols.Comment+"]")
	}
	return fmt.Sprintf("  %s  %s%s", span, cols.Duration, tag)
}

func (m *Model) commentInputView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Width(80).Render("Comment"))
	sb.WriteString("\n\n")

	label := inputStyle.Render("→ Comment: ")
	value := inputStyle.Render(m.CommentInput + "█")

	errLine := ""
	if m.Err != nil {
		errLine = "\n" + errorStyle.Render(m.Err.Error())
	}

	form := fmt.Sprintf(
		"%s%s%s\n\n%s",
		label, value, errLine,
		helpStyle.Render("Enter: Save | Esc: Cancel"),
	)

	return sb.String() + lipgloss.Place(
		80, 10,
		lipgloss.Center, lipgloss.Center,
		boxStyle.Width(60).Render(form),
	)
}
