//go:build !linux
// +build !linux

package clock

import "time"

// base anchors the monotonic clock on platforms without clock_gettime.
// The epoch is process start, which satisfies the "arbitrary epoch" contract.
var base = time.Now()

func now(k Kind) Timespec {
	if k == Realtime {
		t := time.Now()
		return Timespec{Sec: t.Unix(), Nsec: int64(t.Nanosecond())}
	}

	elapsed := time.Since(base)
	return Timespec{
		Sec:  int64(elapsed / time.Second),
		Nsec: int64(elapsed % time.Second),
	}
}
