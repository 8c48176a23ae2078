package report

import (
	"os"

	"github.com/shirou/gopsutil/v3/process"
)

// residentMB returns the resident set size of this process in megabytes,
// or 0 if it cannot be read.
func residentMB() float64 {
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return 0
	}
	mem, err := p.MemoryInfo()
	if err != nil {
		return 0
	}
	return float64(mem.RSS) / (1024 * 1024)
}
