package period

import "time"

// Clock supplies the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

// Now calls f.
func (f ClockFunc) Now() time.Time {
	return f()
}

// SystemClock reads time.Now.
var SystemClock Clock = ClockFunc(time.Now)
