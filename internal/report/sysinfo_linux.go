//go:build linux

package report

import (
	"time"

	"golang.org/x/sys/unix"
)

type sysinfo struct {
	totalBytes uint64
	freeBytes  uint64
	uptime     time.Duration
}

func readSysinfo() (sysinfo, bool) {
	var info unix.Sysinfo_t
	if err := unix.Sysinfo(&info); err != nil {
		return sysinfo{}, false
	}

	unit := uint64(info.Unit)
	if unit == 0 {
		unit = 1
	}

	return sysinfo{
		totalBytes: uint64(info.Totalram) * unit,
		freeBytes:  uint64(info.Freeram) * unit,
		uptime:     time.Duration(info.Uptime) * time.Second,
	}, true
}
