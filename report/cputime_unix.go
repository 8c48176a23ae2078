//go:build unix

package report

import (
	"time"

	"golang.org/x/sys/unix"
)

// userCPU returns the user CPU time consumed by this process.
func userCPU() time.Duration {
	var ru unix.Rusage
	if err := unix.Getrusage(unix.RUSAGE_SELF, &ru); err != nil {
		return 0
	}
	return time.Duration(ru.Utime.Nano())
}
