package tools

import (
	"fmt"
	"time"
)

const usecPerSec = 1000000

// Timeval is a wall clock reading with microsecond resolution.
type Timeval struct {
	Sec  int64
	Usec int64
}

func Now() Timeval {
	t := time.Now()
	return Timeval{Sec: t.Unix(), Usec: int64(t.Nanosecond() / 1000)}
}

func normalize(sec int64, usec int64) Timeval {
	for usec >= usecPerSec {
		usec -= usecPerSec
		sec++
	}
	for usec < 0 {
		usec += usecPerSec
		sec--
	}
	return Timeval{Sec: sec, Usec: usec}
}

// Sub returns tv - start with Usec in [0, 1000000).
func (tv Timeval) Sub(start Timeval) Timeval {
	return normalize(tv.Sec-start.Sec, tv.Usec-start.Usec)
}

func (tv Timeval) String() string {
	return fmt.Sprintf("%d.%d", tv.Sec, tv.Usec)
}
