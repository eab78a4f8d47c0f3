package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"worktimer/internal"
	"worktimer/internal/config"
	"worktimer/internal/period"
	"worktimer/internal/periodview"
	"worktimer/internal/report"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:               "worktimer",
	Short:             "Track work periods",
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
	RunE:              runTUI,
}

var startCmd = &cobra.Command{
	Use:   "start [comment...]",
	Short: "Start a new period",
	RunE:  runStart,
}

var stopCmd = &cobra.Command{
	Use:   "stop [comment...]",
	Short: "Stop the running period, optionally replacing its comment",
	RunE:  runStop,
}

var pauseCmd = &cobra.Command{
	Use:   "pause <duration>",
	Short: "Add pause time to the running period (minutes or a duration like 1h30m)",
	Args:  cobra.ExactArgs(1),
	RunE:  runPause,
}

var commentCmd = &cobra.Command{
	Use:   "comment <text...>",
	Short: "Replace the running period's comment",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runComment,
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the running period",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List periods",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Sum worked time per day or week",
	Args:  cobra.NoArgs,
	RunE:  runReport,
}

var (
	configPath string
	dbPath     string
	timeZone   string

	startForce bool
	listSince  string
	listJSON   bool
	reportBy   string
	reportFrom string
)

// Set up by setup before any command runs.
var (
	cfg    *config.Config
	handle *period.Handle
)

func init() {
	rootCmd.AddCommand(startCmd, stopCmd, pauseCmd, commentCmd, statusCmd, listCmd, reportCmd)

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default $XDG_CONFIG_HOME/worktimer/config.toml)")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "SQLite database file")
	rootCmd.PersistentFlags().StringVar(&timeZone, "tz", "", "IANA time zone for display")

	startCmd.Flags().BoolVar(&startForce, "force", false, "Start even if a period is already running")
	listCmd.Flags().StringVar(&listSince, "since", "", "Only periods started since DATE (2006-01-02), today, week or a duration like 48h")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "Output as JSON")
	reportCmd.Flags().StringVar(&reportBy, "by", report.ByDay, "Group by day or week")
	reportCmd.Flags().StringVar(&reportFrom, "since", "week", "Only periods started since DATE, today, week or a duration")
}

func setup(cmd *cobra.Command, args []string) error {
	c, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if dbPath != "" {
		c.DBPath = dbPath
	}
	if timeZone != "" {
		c.TimeZone = timeZone
	}
	if err := os.MkdirAll(filepath.Dir(c.DBPath), 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	cfg = c
	handle = period.NewHandle(c.DBPath)
	return nil
}

func teardown() {
	if handle == nil {
		return
	}
	if err := handle.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func runTUI(cmd *cobra.Command, args []string) error {
	store, err := handle.Store()
	if err != nil {
		return err
	}

	if os.Getenv(config.EnvDebug) != "" {
		f, err := tea.LogToFile(filepath.Join(filepath.Dir(handle.Path()), "debug.log"), "worktimer")
		if err != nil {
			return err
		}
		defer f.Close()
	} else {
		log.SetOutput(io.Discard)
	}

	m, err := internal.NewModel(store, cfg.TimeZone, period.SystemClock)
	if err != nil {
		return err
	}
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen())

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	go func() {
		for range ticker.C {
			p.Send(internal.MsgTick{})
		}
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run program: %w", err)
	}
	return nil
}

func runStart(cmd *cobra.Command, args []string) error {
	store, err := handle.Store()
	if err != nil {
		return err
	}

	comment := strings.Join(args, " ")
	if startForce {
		err = store.StartNewPeriod(comment)
	} else {
		err = store.StartExclusive(comment)
	}
	if errors.Is(err, period.ErrPeriodOpen) {
		return fmt.Errorf("%w; stop it first or pass --force", period.ErrPeriodOpen)
	}
	if err != nil {
		return err
	}

	cur, _, err := store.CurrentStatistics()
	if err != nil {
		return err
	}
	return printPeriod(cmd.OutOrStdout(), cur)
}

func runStop(cmd *cobra.Command, args []string) error {
	store, err := handle.Store()
	if err != nil {
		return err
	}

	key, ok, err := store.CurrentPeriodKey()
	if err != nil {
		return err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), period.ErrNoOpenPeriod)
		return nil
	}

	if err := store.StopCurrentPeriod(strings.Join(args, " ")); err != nil {
		return err
	}

	stopped, err := store.ListPeriods(key)
	if err != nil {
		return err
	}
	return printPeriod(cmd.OutOrStdout(), stopped[0])
}

func runPause(cmd *cobra.Command, args []string) error {
	d, err := parseDuration(args[0])
	if err != nil {
		return err
	}

	store, err := handle.Store()
	if err != nil {
		return err
	}
	if _, ok, err := store.CurrentPeriodKey(); err != nil {
		return err
	} else if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), period.ErrNoOpenPeriod)
		return nil
	}
	if err := store.AddPauseTime(d.Seconds()); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "added %s of pause\n", d)
	return nil
}

func runComment(cmd *cobra.Command, args []string) error {
	store, err := handle.Store()
	if err != nil {
		return err
	}
	if _, ok, err := store.CurrentPeriodKey(); err != nil {
		return err
	} else if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), period.ErrNoOpenPeriod)
		return nil
	}
	return store.UpdateCurrentComment(strings.Join(args, " "))
}

func runStatus(cmd *cobra.Command, args []string) error {
	store, err := handle.Store()
	if err != nil {
		return err
	}

	cur, ok, err := store.CurrentStatistics()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if !ok {
		fmt.Fprintln(out, period.ErrNoOpenPeriod)
		return nil
	}

	if err := printPeriod(out, cur); err != nil {
		return err
	}
	fmt.Fprintf(out, "started %s\n", humanize.Time(period.FromSeconds(cur.TimeStart)))
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	from, err := parseSince(listSince, time.Now())
	if err != nil {
		return err
	}

	store, err := handle.Store()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if listJSON {
		periods, err := store.ListPeriods(from)
		if err != nil {
			return err
		}
		if periods == nil {
			periods = []period.Period{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(periods)
	}

	styled := isTerminal(out)
	now := time.Now()
	for p, err := range store.Periods(from) {
		if err != nil {
			return err
		}
		if styled {
			line, err := styledLine(periodview.New(p, cfg.TimeZone), now)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, line)
			continue
		}
		if err := printPeriod(out, p); err != nil {
			return err
		}
	}
	return nil
}

func runReport(cmd *cobra.Command, args []string) error {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("load time zone %q: %w", cfg.TimeZone, err)
	}
	now := time.Now()
	from, err := parseSince(reportFrom, now)
	if err != nil {
		return err
	}

	store, err := handle.Store()
	if err != nil {
		return err
	}
	periods, err := store.ListPeriods(from)
	if err != nil {
		return err
	}

	groups, err := report.Summarize(periods, loc, reportBy, now)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, g := range groups {
		fmt.Fprintf(out, "%s\t%d\t%s\n", g.Key, g.Periods, periodview.FormatHMS(period.SplitSeconds(g.Worked.Seconds())))
	}
	fmt.Fprintf(out, "total\t%d\t%s\n", len(periods), periodview.FormatHMS(period.SplitSeconds(report.Total(groups).Seconds())))
	return nil
}

func printPeriod(w io.Writer, p period.Period) error {
	line, err := periodview.New(p, cfg.TimeZone).Line(time.Now())
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, line)
	return err
}
