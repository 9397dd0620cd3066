//go:build linux || darwin

package eval

import (
	"syscall"
	"time"
)

// cpuTimeNow returns the process's cumulative user+system CPU time so far.
// The prequential loop measures elapsed durations between two readings of
// this clock rather than wall time, so the "seconds" it reports is CPU
// time spent training and RAM-hours stay unit-consistent with it. A
// single-threaded training run makes process CPU time an exact stand-in
// for thread CPU time.
func cpuTimeNow() time.Time {
	var ru syscall.Rusage
	if err := syscall.Getrusage(syscall.RUSAGE_SELF, &ru); err != nil {
		return time.Now()
	}
	user := time.Duration(ru.Utime.Sec)*time.Second + time.Duration(ru.Utime.Usec)*time.Microsecond
	sys := time.Duration(ru.Stime.Sec)*time.Second + time.Duration(ru.Stime.Usec)*time.Microsecond
	return time.Unix(0, int64(user+sys))
}
