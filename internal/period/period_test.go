package period

import (
	"testing"
	"time"
)

func TestSplitSeconds(t *testing.T) {
	tests := []struct {
		sec  float64
		want HMS
	}{
		{0, HMS{}},
		{17, HMS{0, 0, 17}},
		{59.999, HMS{0, 0, 59}},
		{60, HMS{0, 1, 0}},
		{3599, HMS{0, 59, 59}},
		{3600, HMS{1, 0, 0}},
		{3661.5, HMS{1, 1, 1}},
		{90000, HMS{25, 0, 0}},
		{-1, HMS{-1, 59, 59}},
	}
	for _, tt := range tests {
		if got := SplitSeconds(tt.sec); got != tt.want {
			t.Errorf("SplitSeconds(%v) = %+v, want %+v", tt.sec, got, tt.want)
		}
	}
}

func TestHMSTotalSeconds(t *testing.T) {
	h := HMS{Hours: 1, Minutes: 2, Seconds: 3}
	if got := h.TotalSeconds(); got != 3723 {
		t.Errorf("expected 3723, got %d", got)
	}
	if got := h.Duration(); got != time.Hour+2*time.Minute+3*time.Second {
		t.Errorf("unexpected duration %v", got)
	}
}

func TestSecondsRoundTrip(t *testing.T) {
	at := time.Date(2024, 3, 1, 9, 30, 15, 250_000_000, time.UTC)
	got := FromSeconds(Seconds(at))
	if d := got.Sub(at); d < -time.Microsecond || d > time.Microsecond {
		t.Errorf("round trip drifted by %v", d)
	}
}

func TestPhase(t *testing.T) {
	open := Period{TimeStart: 1000, PauseTime: 30, Comment: "open"}
	switch ph := open.Phase().(type) {
	case Open:
		if !ph.Start.Equal(time.Unix(1000, 0)) || ph.Pause != 30*time.Second || ph.Comment != "open" {
			t.Errorf("unexpected open phase %+v", ph)
		}
	default:
		t.Fatalf("expected Open, got %T", ph)
	}

	end := 2000.0
	closed := Period{TimeStart: 1000, TimeEnd: &end, Minutes: 16, Seconds: 40, Comment: "closed"}
	switch ph := closed.Phase().(type) {
	case Closed:
		if !ph.End.Equal(time.Unix(2000, 0)) || ph.Duration != (HMS{0, 16, 40}) {
			t.Errorf("unexpected closed phase %+v", ph)
		}
	default:
		t.Fatalf("expected Closed, got %T", ph)
	}
}

func TestWorkedAt(t *testing.T) {
	open := Period{TimeStart: 1000, PauseTime: 3}
	if got := WorkedAt(open, time.Unix(1020, 0)); got != (HMS{0, 0, 17}) {
		t.Errorf("open: expected 17s, got %+v", got)
	}
	if got := WorkedAt(open, time.Unix(1030, 0)); got != (HMS{0, 0, 27}) {
		t.Errorf("open later: expected 27s, got %+v", got)
	}

	// Closed periods report the stored value even if it disagrees with
	// the timestamps.
	end := 1020.0
	closed := Period{TimeStart: 1000, TimeEnd: &end, Hours: 5}
	if got := WorkedAt(closed, time.Unix(99999, 0)); got != (HMS{5, 0, 0}) {
		t.Errorf("closed: expected stored 5h, got %+v", got)
	}
}
