package probe

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
)

// lookPath resolves a bare command against the PATH of the child environment.
// Commands containing a separator are returned unchanged and resolved against the working directory at start.
// Without a PATH in the child environment, and on Windows where executable extensions apply, the process PATH is used.
func lookPath(command string, path string, defined bool) (string, error) {
	if strings.ContainsRune(command, os.PathSeparator) {
		return command, nil
	}
	if !defined || runtime.GOOS == "windows" {
		return exec.LookPath(command)
	}

	for _, dir := range filepath.SplitList(path) {
		// Relative PATH entries are ignored, as exec.LookPath refuses them too.
		if dir == "" || !filepath.IsAbs(dir) {
			continue
		}
		candidate := filepath.Join(dir, command)
		if isExecutable(candidate) {
			return candidate, nil
		}
	}

	return "", &exec.Error{Name: command, Err: exec.ErrNotFound}
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0o111 != 0
}
