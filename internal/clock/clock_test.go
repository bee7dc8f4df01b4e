package clock

import (
	"testing"
	"time"
)

func TestNewFixedOffset(t *testing.T) {
	c := NewFixedOffset(5)
	now := c.Now()

	_, offset := now.Zone()
	if offset != 5*3600 {
		t.Errorf("expected offset %d seconds, got %d", 5*3600, offset)
	}

	// Same instant as UTC, just rendered in the offset zone.
	if diff := time.Since(now); diff > time.Second || diff < -time.Second {
		t.Errorf("fixed-offset now drifted from wall time by %v", diff)
	}
}

func TestNewFixedOffsetZero(t *testing.T) {
	c := NewFixedOffset(0)
	_, offset := c.Now().Zone()
	if offset != 0 {
		t.Errorf("expected zero offset, got %d", offset)
	}
}

func TestFixedClock(t *testing.T) {
	base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	f := NewFixed(base)

	if !f.Now().Equal(base) {
		t.Fatalf("expected %v, got %v", base, f.Now())
	}

	f.Advance(10 * time.Minute)
	if want := base.Add(10 * time.Minute); !f.Now().Equal(want) {
		t.Errorf("after Advance expected %v, got %v", want, f.Now())
	}

	f.Set(base)
	if !f.Now().Equal(base) {
		t.Errorf("after Set expected %v, got %v", base, f.Now())
	}
}
