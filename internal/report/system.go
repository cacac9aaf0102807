package report

import (
	"os"
	"runtime"
)

const bytesPerGB = 1024 * 1024 * 1024

// Memory is a memory snapshot in gigabytes, rounded to two decimals.
type Memory struct {
	TotalGB float64 `json:"totalGB" yaml:"totalGB"`
	FreeGB  float64 `json:"freeGB" yaml:"freeGB"`
	UsedGB  float64 `json:"usedGB" yaml:"usedGB"`
}

// System is a snapshot of the host a run executed on.
type System struct {
	Platform      string `json:"platform" yaml:"platform"`
	Arch          string `json:"arch" yaml:"arch"`
	Hostname      string `json:"hostname,omitempty" yaml:"hostname,omitempty"`
	CPUs          int    `json:"cpus" yaml:"cpus"`
	GoVersion     string `json:"goVersion" yaml:"goVersion"`
	Memory        Memory `json:"memory" yaml:"memory"`
	UptimeMinutes int64  `json:"uptimeMinutes" yaml:"uptimeMinutes"`
}

// Snapshot captures the current host information.
// Memory and uptime are zero on platforms where they are not available.
func Snapshot() System {
	host, _ := os.Hostname()

	s := System{
		Platform:  runtime.GOOS,
		Arch:      runtime.GOARCH,
		Hostname:  host,
		CPUs:      runtime.NumCPU(),
		GoVersion: runtime.Version(),
	}

	if info, ok := readSysinfo(); ok {
		s.Memory = Memory{
			TotalGB: gigabytes(info.totalBytes),
			FreeGB:  gigabytes(info.freeBytes),
			UsedGB:  gigabytes(info.totalBytes - min(info.freeBytes, info.totalBytes)),
		}
		s.UptimeMinutes = int64(info.uptime.Minutes() + 0.5)
	}

	return s
}

func gigabytes(b uint64) float64 {
	return round2(float64(b) / bytesPerGB)
}
