package internal

import (
	"fmt"
	"log"
	"time"

	"worktimer/internal/period"
	"worktimer/internal/report"
	"worktimer/internal/timer"

	tea "github.com/charmbracelet/bubbletea"
)

type MsgTick struct{}

type Model struct {
	Current    period.Period
	HasCurrent bool
	Today      []period.Period
	Err        error

	// Comment input state
	ShowCommentInput bool
	CommentInput     string

	Pause *timer.Timer

	store *period.Store
	clock period.Clock
	zone  string
}

func NewModel(store *period.Store, zone string, clock period.Clock) (*Model, error) {
	if clock == nil {
		clock = period.SystemClock
	}
	m := &Model{
		Pause: timer.NewWithClock(clock.Now),
		store: store,
		clock: clock,
		zone:  zone,
	}
	if err := m.reload(); err != nil {
		return nil, fmt.Errorf("failed to load periods: %w", err)
	}
	return m, nil
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case MsgTick:
		m.setErr(m.reload())
		return m, nil
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)
	case tea.WindowSizeMsg:
		return m, nil
	}
	return m, nil
}

func (m *Model) View() string {
	if m.ShowCommentInput {
		return m.commentInputView()
	}
	return m.mainView()
}

// reload reads the running period and everything started since local
// midnight.
func (m *Model) reload() error {
	cur, ok, err := m.store.CurrentStatistics()
	if err != nil {
		return err
	}
	m.Current, m.HasCurrent = cur, ok
	if !ok && m.Pause.Running() {
		// The period was stopped elsewhere; its pause must not carry over.
		m.Pause.Reset()
	}

	since := report.StartOfDay(m.clock.Now().In(m.location()))
	today, err := m.store.ListPeriods(period.Seconds(since))
	if err != nil {
		return err
	}
	m.Today = today
	return nil
}

// location is only used to find midnight; rendering reports bad zones
// itself.
func (m *Model) location() *time.Location {
	loc, err := time.LoadLocation(m.zone)
	if err != nil {
		return time.Local
	}
	return loc
}

func (m *Model) setErr(err error) {
	if err != nil {
		log.Printf("worktimer: %v", err)
	}
	m.Err = err
}

// Toggle starts a period when none is running and stops the running one
// otherwise.
func (m *Model) Toggle() error {
	if !m.HasCurrent {
		if err := m.store.StartExclusive(""); err != nil {
			return err
		}
		return m.reload()
	}

	if err := m.commitPause(); err != nil {
		return err
	}
	if err := m.store.StopCurrentPeriod(""); err != nil {
		return err
	}
	return m.reload()
}

// TogglePause starts measuring a pause, or ends it and adds it to the
// running period.
func (m *Model) TogglePause() error {
	if !m.HasCurrent {
		return period.ErrNoOpenPeriod
	}
	if !m.Pause.Running() {
		m.Pause.Start()
		return nil
	}
	if err := m.commitPause(); err != nil {
		return err
	}
	return m.reload()
}

func (m *Model) commitPause() error {
	d := m.Pause.Stop()
	if d <= 0 {
		return nil
	}
	return m.store.AddPauseTime(d.Seconds())
}

func (m *Model) SaveComment(comment string) error {
	if err := m.store.UpdateCurrentComment(comment); err != nil {
		return err
	}
	return m.reload()
}

// Close adds any pause in progress to the running period.
func (m *Model) Close() error {
	return m.commitPause()
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.ShowCommentInput {
		return m.handleCommentInput(msg)
	}

	switch msg.String() {
	case "ctrl+c", "q":
		m.setErr(m.Close())
		return m, tea.Quit
	case "s", "enter":
		m.setErr(m.Toggle())
	case "p", " ":
		m.setErr(m.TogglePause())
	case "c":
		if m.HasCurrent {
			m.CommentInput = m.Current.Comment
			m.ShowCommentInput = true
		} else {
			m.setErr(period.ErrNoOpenPeriod)
		}
	case "r":
		m.setErr(m.reload())
	}
	return m, nil
}

func (m *Model) handleCommentInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "esc":
		m.ShowCommentInput = false
		m.CommentInput = ""
	case "enter":
		// Keep the input open so a rejected comment can be fixed.
		if err := m.SaveComment(m.CommentInput); err != nil {
			m.setErr(err)
			return m, nil
		}
		m.Err = nil
		m.ShowCommentInput = false
		m.CommentInput = ""
	case "backspace":
		runes := []rune(m.CommentInput)
		if len(runes) > 0 {
			m.CommentInput = string(runes[:len(runes)-1])
		}
	default:
		switch msg.Type {
		case tea.KeyRunes:
			m.CommentInput += string(msg.Runes)
		case tea.KeySpace:
			m.CommentInput += " "
		}
	}
	return m, nil
}
