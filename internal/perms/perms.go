// Package perms provides the file and directory permissions mcpcheck writes with
// (reports, the report lock file, log files and capability storage directories).
package perms

import "os"

const (
	// RegularFile permissions for standard files (reports, lock files, logs).
	// Mode 0644: owner read/write, group read, others read.
	RegularFile os.FileMode = 0o644

	// RegularDir permissions for standard directories (reports, storage probes).
	// Mode 0755: owner read/write/execute, group read/execute, others read/execute.
	RegularDir os.FileMode = 0o755
)
