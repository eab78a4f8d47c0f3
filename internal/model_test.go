package internal

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"worktimer/internal/period"

	tea "github.com/charmbracelet/bubbletea"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestModel(t *testing.T) (*Model, *period.Store, *fakeClock) {
	t.Helper()

	clock := &fakeClock{now: time.Date(2024, 3, 4, 9, 0, 0, 0, time.UTC)}
	store, err := period.NewStore(filepath.Join(t.TempDir(), "tui.db"), period.WithClock(clock))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	m, err := NewModel(store, "UTC", clock)
	if err != nil {
		t.Fatalf("new model: %v", err)
	}
	return m, store, clock
}

func press(m *Model, key string) {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "backspace":
		msg = tea.KeyMsg{Type: tea.KeyBackspace}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	m.Update(msg)
}

func TestModel_StartStop(t *testing.T) {
	m, store, clock := newTestModel(t)

	press(m, "s")
	if m.Err != nil {
		t.Fatalf("start: %v", m.Err)
	}
	if !m.HasCurrent {
		t.Fatal("expected a running period")
	}

	clock.advance(90 * time.Second)
	if !strings.Contains(m.View(), "00:01:30") {
		t.Errorf("expected live duration in view:\n%s", m.View())
	}

	press(m, "s")
	if m.Err != nil {
		t.Fatalf("stop: %v", m.Err)
	}
	if m.HasCurrent {
		t.Fatal("expected no running period")
	}

	periods, err := store.ListPeriods(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(periods) != 1 || periods[0].Seconds != 30 || periods[0].Minutes != 1 {
		t.Fatalf("unexpected periods %+v", periods)
	}
	if len(m.Today) != 1 {
		t.Errorf("expected today's list to show 1 period, got %d", len(m.Today))
	}
}

func TestModel_PauseIsCommittedOnResume(t *testing.T) {
	m, store, clock := newTestModel(t)

	press(m, "s")
	clock.advance(time.Minute)
	press(m, "p")
	if !m.Pause.Running() {
		t.Fatal("expected pause to be running")
	}
	clock.advance(20 * time.Second)
	if !strings.Contains(m.View(), "Paused") {
		t.Errorf("expected paused status in view:\n%s", m.View())
	}
	press(m, "p")
	if m.Err != nil {
		t.Fatalf("resume: %v", m.Err)
	}

	cur, ok, err := store.CurrentStatistics()
	if err != nil || !ok {
		t.Fatalf("current: ok=%v err=%v", ok, err)
	}
	if cur.PauseTime != 20 {
		t.Errorf("expected pause_time 20, got %v", cur.PauseTime)
	}
}

func TestModel_StopWhilePausedCommitsPause(t *testing.T) {
	m, store, clock := newTestModel(t)

	press(m, "s")
	clock.advance(time.Minute)
	press(m, "p")
	clock.advance(15 * time.Second)
	press(m, "s")

	periods, err := store.ListPeriods(0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	p := periods[0]
	if p.PauseTime != 15 || p.Minutes != 1 || p.Seconds != 0 {
		t.Errorf("expected 1m worked with 15s pause, got %+v", p)
	}
}

func TestModel_PauseWithoutPeriod(t *testing.T) {
	m, _, _ := newTestModel(t)

	press(m, "p")
	if !errors.Is(m.Err, period.ErrNoOpenPeriod) {
		t.Fatalf("expected ErrNoOpenPeriod, got %v", m.Err)
	}
	if m.Pause.Running() {
		t.Error("pause should not start without a period")
	}
}

func TestModel_EditComment(t *testing.T) {
	m, store, _ := newTestModel(t)

	press(m, "s")
	press(m, "c")
	if !m.ShowCommentInput {
		t.Fatal("expected comment input")
	}
	press(m, "fix")
	press(m, "x")
	press(m, "backspace")
	press(m, "enter")
	if m.ShowCommentInput {
		t.Fatal("expected comment input to close")
	}

	cur, _, err := store.CurrentStatistics()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if cur.Comment != "fix" {
		t.Errorf("expected comment %q, got %q", "fix", cur.Comment)
	}
}

func TestModel_CommentEscCancels(t *testing.T) {
	m, store, _ := newTestModel(t)

	press(m, "s")
	press(m, "c")
	press(m, "draft")
	press(m, "esc")

	cur, _, err := store.CurrentStatistics()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if cur.Comment != "" {
		t.Errorf("expected no comment, got %q", cur.Comment)
	}
}

func TestModel_QuitCommitsPause(t *testing.T) {
	m, store, clock := newTestModel(t)

	press(m, "s")
	press(m, "p")
	clock.advance(5 * time.Second)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	if cmd == nil {
		t.Fatal("expected quit command")
	}

	cur, _, err := store.CurrentStatistics()
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if cur.PauseTime != 5 {
		t.Errorf("expected pause_time 5, got %v", cur.PauseTime)
	}
}

func TestModel_TickPicksUpExternalChanges(t *testing.T) {
	m, store, clock := newTestModel(t)

	clock.advance(time.Second)
	if err := store.StartNewPeriod("from cli"); err != nil {
		t.Fatalf("start: %v", err)
	}
	m.Update(MsgTick{})
	if !m.HasCurrent || m.Current.Comment != "from cli" {
		t.Fatalf("expected tick to load the running period, got %+v", m.Current)
	}
}

func TestModel_ExternalStopDropsPause(t *testing.T) {
	m, store, clock := newTestModel(t)

	press(m, "s")
	press(m, "p")
	clock.advance(time.Hour)
	if err := store.StopCurrentPeriod(""); err != nil {
		t.Fatalf("stop: %v", err)
	}
	m.Update(MsgTick{})
	if m.HasCurrent {
		t.Fatal("expected no running period after external stop")
	}
	if m.Pause.Running() {
		t.Fatal("expected pause to be dropped with its period")
	}

	clock.advance(time.Second)
	press(m, "s")
	clock.advance(10 * time.Second)
	if !strings.Contains(m.View(), "00:00:10") {
		t.Errorf("expected live duration 00:00:10:\n%s", m.View())
	}
	press(m, "p")
	if !m.Pause.Running() {
		t.Fatal("expected a fresh pause to start")
	}
	clock.advance(2 * time.Second)
	press(m, "p")
	if m.Err != nil {
		t.Fatalf("resume: %v", m.Err)
	}

	cur, ok, err := store.CurrentStatistics()
	if err != nil || !ok {
		t.Fatalf("current: ok=%v err=%v", ok, err)
	}
	if cur.PauseTime != 2 {
		t.Errorf("expected pause_time 2, got %v", cur.PauseTime)
	}
}
