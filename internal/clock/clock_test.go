package clock

import (
	"fmt"
	"testing"
	"time"
)

func TestMonotonicNonDecreasing(t *testing.T) {
	a := Now(Monotonic)
	time.Sleep(10 * time.Millisecond)
	b := Now(Monotonic)

	if b.Millis() < a.Millis() {
		t.Errorf("monotonic clock went backwards: %v then %v", a, b)
	}
}

func TestRealtimeTracksWallClock(t *testing.T) {
	before := time.Now().Unix()
	ts := Now(Realtime)
	after := time.Now().Unix()

	if ts.Sec < before-1 || ts.Sec > after+1 {
		t.Errorf("realtime reading %d outside [%d, %d]", ts.Sec, before, after)
	}
	if ts.Nsec < 0 || ts.Nsec >= int64(time.Second) {
		t.Errorf("nanosecond component out of range: %d", ts.Nsec)
	}
}

func TestFormatIsLiteralConcatenation(t *testing.T) {
	cases := []struct {
		ts   Timespec
		want string
	}{
		{Timespec{Sec: 12, Nsec: 345}, "12.345"},
		{Timespec{Sec: 0, Nsec: 0}, "0.0"},
		// No zero padding: 1.5 means 5ns past the second, not 500ms.
		{Timespec{Sec: 1, Nsec: 5}, "1.5"},
		{Timespec{Sec: 1700000000, Nsec: 999999999}, "1700000000.999999999"},
	}

	for _, c := range cases {
		if got := c.ts.Format(); got != c.want {
			t.Errorf("Format(%+v) = %q, want %q", c.ts, got, c.want)
		}
		want := fmt.Sprintf("%d.%d", c.ts.Sec, c.ts.Nsec)
		if c.ts.Format() != want {
			t.Errorf("Format(%+v) is not sec.nsec concatenation", c.ts)
		}
	}
}

func TestMillis(t *testing.T) {
	ts := Timespec{Sec: 2, Nsec: 500_000_000}
	if got := ts.Millis(); got != 2500 {
		t.Errorf("Millis() = %v, want 2500", got)
	}
}

func TestKindString(t *testing.T) {
	if Monotonic.String() != "CLOCK_MONOTONIC" {
		t.Errorf("unexpected name %q", Monotonic.String())
	}
	if Realtime.String() != "CLOCK_REALTIME" {
		t.Errorf("unexpected name %q", Realtime.String())
	}
}
