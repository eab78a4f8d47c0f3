package period

import (
	"math"
	"time"
)

// Period is one tracked interval of work as stored in the period table.
// TimeStart is both its key and its creation time, in seconds since the
// epoch. A nil TimeEnd means the period is still open.
type Period struct {
	TimeStart float64  `json:"time_start"`
	TimeEnd   *float64 `json:"time_end"`
	Hours     int      `json:"hours"`
	Minutes   int      `json:"minutes"`
	Seconds   int      `json:"seconds"`
	Comment   string   `json:"comment"`
	PauseTime float64  `json:"pause_time"`
}

// IsOpen reports whether the period has no end yet.
func (p Period) IsOpen() bool {
	return p.TimeEnd == nil
}

// Phase returns the period as either an Open or a Closed value.
func (p Period) Phase() Phase {
	if p.TimeEnd == nil {
		return Open{
			Start:   FromSeconds(p.TimeStart),
			Pause:   secondsToDuration(p.PauseTime),
			Comment: p.Comment,
		}
	}
	return Closed{
		Start:    FromSeconds(p.TimeStart),
		End:      FromSeconds(*p.TimeEnd),
		Duration: HMS{Hours: p.Hours, Minutes: p.Minutes, Seconds: p.Seconds},
		Comment:  p.Comment,
	}
}

// Phase is implemented by Open and Closed only.
type Phase interface {
	phase()
}

// Open is a period that is still running. Its duration depends on when
// you look at it.
type Open struct {
	Start   time.Time
	Pause   time.Duration
	Comment string
}

// Closed is a finished period with its duration frozen at stop time.
type Closed struct {
	Start    time.Time
	End      time.Time
	Duration HMS
	Comment  string
}

func (Open) phase()   {}
func (Closed) phase() {}

// Worked returns the live worked duration at now.
func (o Open) Worked(now time.Time) HMS {
	return SplitSeconds(Seconds(now) - Seconds(o.Start) - o.Pause.Seconds())
}

// WorkedAt returns the worked time of p at now: live for open periods,
// the stored duration for closed ones.
func WorkedAt(p Period, now time.Time) HMS {
	switch ph := p.Phase().(type) {
	case Open:
		return ph.Worked(now)
	case Closed:
		return ph.Duration
	}
	panic("unreachable")
}

// HMS is a duration split into whole hours, minutes and seconds.
type HMS struct {
	Hours   int
	Minutes int
	Seconds int
}

// SplitSeconds decomposes sec into hours, minutes and seconds using
// floored division, so fractional seconds are dropped rather than rounded.
func SplitSeconds(sec float64) HMS {
	return HMS{
		Hours:   int(math.Floor(sec / 3600)),
		Minutes: int(math.Floor(floorMod(sec, 3600) / 60)),
		Seconds: int(math.Floor(floorMod(sec, 60))),
	}
}

// TotalSeconds converts h back into a second count.
func (h HMS) TotalSeconds() int {
	return h.Hours*3600 + h.Minutes*60 + h.Seconds
}

// Duration converts h into a time.Duration.
func (h HMS) Duration() time.Duration {
	return time.Duration(h.TotalSeconds()) * time.Second
}

// Seconds converts t into fractional seconds since the epoch, the unit
// the period table stores.
func Seconds(t time.Time) float64 {
	return float64(t.UnixNano()) / 1e9
}

// FromSeconds is the inverse of Seconds.
func FromSeconds(sec float64) time.Time {
	whole, frac := math.Modf(sec)
	return time.Unix(int64(whole), int64(math.Round(frac*1e9)))
}

func secondsToDuration(sec float64) time.Duration {
	return time.Duration(sec * float64(time.Second))
}

func floorMod(a, b float64) float64 {
	m := math.Mod(a, b)
	if m < 0 {
		m += b
	}
	return m
}
