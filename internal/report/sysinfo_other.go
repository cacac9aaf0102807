//go:build !linux

package report

import (
	"time"
)

type sysinfo struct {
	totalBytes uint64
	freeBytes  uint64
	uptime     time.Duration
}

func readSysinfo() (sysinfo, bool) {
	return sysinfo{}, false
}
