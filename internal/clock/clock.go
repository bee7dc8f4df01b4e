package clock

import (
	"fmt"
	"time"
)

// Clock supplies the authoritative current time for the whole platform.
// Scheduling, expiry and audit timestamps must all come from the same source
// so a session never expires "earlier" in one code path than another.
type Clock interface {
	Now() time.Time
}

type fixedOffsetClock struct {
	loc *time.Location
}

// NewFixedOffset returns a Clock reporting wall time at a fixed UTC offset.
func NewFixedOffset(offsetHours int) Clock {
	name := "UTC"
	if offsetHours != 0 {
		name = fmt.Sprintf("UTC%+d", offsetHours)
	}
	return &fixedOffsetClock{loc: time.FixedZone(name, offsetHours*3600)}
}

func (c *fixedOffsetClock) Now() time.Time {
	return time.Now().In(c.loc)
}

// Fixed is a Clock pinned to a single instant, advanced explicitly. Intended
// for tests.
type Fixed struct {
	now time.Time
}

func NewFixed(t time.Time) *Fixed {
	return &Fixed{now: t}
}

func (f *Fixed) Now() time.Time {
	return f.now
}

// Advance moves the fixed instant forward by d.
func (f *Fixed) Advance(d time.Duration) {
	f.now = f.now.Add(d)
}

// Set pins the clock to t.
func (f *Fixed) Set(t time.Time) {
	f.now = t
}
