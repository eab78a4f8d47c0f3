// Package periodview renders a period snapshot as a single display line.
package periodview

import (
	"fmt"
	"strings"
	"time"

	"worktimer/internal/period"
)

// Placeholder stands in for a missing timestamp.
const Placeholder = "--:--:--"

const (
	startLayout = "02.01.2006 15:04:05"
	endLayout   = "15:04:05"
)

// View is a read-only projection of one period. It never changes; build
// a new View to see a changed period.
type View struct {
	p    period.Period
	zone string
}

// Columns are the rendered fields of a View.
type Columns struct {
	Start    string
	End      string
	Duration string
	Comment  string
	Open     bool
}

// New returns a view of p that shows times in the named IANA zone.
func New(p period.Period, zone string) View {
	return View{p: p, zone: zone}
}

// Duration is the worked time at now. Open periods are computed from the
// clock, closed periods use their stored duration.
func (v View) Duration(now time.Time) period.HMS {
	return period.WorkedAt(v.p, now)
}

// Columns renders each field separately. It fails only when the zone
// cannot be loaded.
func (v View) Columns(now time.Time) (Columns, error) {
	loc, err := time.LoadLocation(v.zone)
	if err != nil {
		return Columns{}, fmt.Errorf("load time zone %q: %w", v.zone, err)
	}

	cols := Columns{
		Start:    Placeholder,
		End:      Placeholder,
		Duration: FormatHMS(v.Duration(now)),
		Comment:  v.p.Comment,
		Open:     v.p.IsOpen(),
	}
	switch ph := v.p.Phase().(type) {
	case period.Open:
		cols.Start = formatStart(ph.Start, loc)
	case period.Closed:
		cols.Start = formatStart(ph.Start, loc)
		cols.End = ph.End.In(loc).Format(endLayout)
	}
	return cols, nil
}

// Line renders the view as start, end, duration and comment separated by
// tabs.
func (v View) Line(now time.Time) (string, error) {
	cols, err := v.Columns(now)
	if err != nil {
		return "", err
	}
	return strings.Join([]string{cols.Start, cols.End, cols.Duration, cols.Comment}, "\t"), nil
}

// FormatHMS formats h as zero padded HH:MM:SS.
func FormatHMS(h period.HMS) string {
	return fmt.Sprintf("%02d:%02d:%02d", h.Hours, h.Minutes, h.Seconds)
}

// Stored rows always have a time_start. A zero one means the snapshot was
// built without it.
func formatStart(t time.Time, loc *time.Location) string {
	if t.Unix() == 0 && t.Nanosecond() == 0 {
		return Placeholder
	}
	return t.In(loc).Format(startLayout)
}
