package clock

import "fmt"

// Kind selects which system clock a probe samples.
type Kind int

const (
	// Monotonic is non-decreasing and uses an arbitrary epoch. Readings are
	// only comparable within one boot of the same machine.
	Monotonic Kind = iota
	// Realtime is the wall clock, relative to the Unix epoch.
	Realtime
)

func (k Kind) String() string {
	switch k {
	case Monotonic:
		return "CLOCK_MONOTONIC"
	case Realtime:
		return "CLOCK_REALTIME"
	default:
		return "CLOCK_UNKNOWN"
	}
}

// Timespec is a clock reading split into whole seconds and the remaining
// nanoseconds, mirroring struct timespec.
type Timespec struct {
	Sec  int64
	Nsec int64
}

// Format renders the reading as "<sec>.<nsec>". The nanosecond part is not
// zero-padded; this is a literal concatenation of the two fields, which is
// what downstream parsers expect.
func (ts Timespec) Format() string {
	return fmt.Sprintf("%d.%d", ts.Sec, ts.Nsec)
}

// Millis converts the reading to fractional milliseconds.
func (ts Timespec) Millis() float64 {
	return float64(ts.Sec)*1000 + float64(ts.Nsec)/1e6
}

// Now samples the given clock.
func Now(k Kind) Timespec {
	return now(k)
}
