//go:build !unix

package report

import (
	"os"
	"time"

	"github.com/shirou/gopsutil/v3/process"
)

// userCPU returns the user CPU time consumed by this process.
func userCPU() time.Duration {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	t, err := p.Times()
	if err != nil {
		return 0
	}
	return time.Duration(t.User * float64(time.Second))
}
