package report

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/hashicorp/go-hclog"

	"github.com/mozilla-ai/mcpcheck/internal/files"
	"github.com/mozilla-ai/mcpcheck/internal/perms"
)

const (
	// DefaultDir is the directory reports are written to, relative to the working directory.
	DefaultDir = "reports"

	// LockTimeout is the maximum time to wait for the directory lock.
	// When exceeded the report is written without it.
	LockTimeout = 100 * time.Millisecond

	lockFileName = ".lock"

	// maxNameAttempts bounds how many later timestamps are tried when a file name is taken.
	maxNameAttempts = 1000
)

// Writer persists reports as timestamped JSON files.
// Reports are never read back.
type Writer struct {
	logger hclog.Logger
	dir    string
}

// NewWriter returns a Writer for dir.
func NewWriter(logger hclog.Logger, dir string) (*Writer, error) {
	if logger == nil {
		return nil, fmt.Errorf("logger cannot be nil")
	}
	if dir == "" {
		return nil, fmt.Errorf("report directory cannot be empty")
	}

	return &Writer{
		logger: logger.Named("report"),
		dir:    dir,
	}, nil
}

// Dir returns the directory reports are written to.
func (w *Writer) Dir() string {
	return w.dir
}

// Write stores r as health-<unixmillis>.json and returns the path of the new file.
// An existing file is never overwritten.
func (w *Writer) Write(r HealthReport) (string, error) {
	if err := files.EnsureAtLeastRegularDir(w.dir); err != nil {
		return "", fmt.Errorf("failed to prepare report directory: %w", err)
	}

	unlock, err := w.lock()
	if err != nil {
		return "", err
	}
	defer unlock()

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')

	ms := r.Timestamp.UnixMilli()
	for range maxNameAttempts {
		path := filepath.Join(w.dir, fmt.Sprintf("health-%d.json", ms))

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, perms.RegularFile)
		if errors.Is(err, os.ErrExist) {
			ms++
			continue
		}
		if err != nil {
			return "", fmt.Errorf("failed to create report file: %w", err)
		}

		if _, err := f.Write(data); err != nil {
			_ = f.Close()
			return "", fmt.Errorf("failed to write report file: %w", err)
		}
		if err := f.Close(); err != nil {
			return "", fmt.Errorf("failed to close report file: %w", err)
		}

		w.logger.Info("Health report saved", "path", path)
		return path, nil
	}

	return "", fmt.Errorf("failed to find a free report file name in '%s'", w.dir)
}

// lock takes the directory lock, proceeding without it when it cannot be taken in time.
func (w *Writer) lock() (func(), error) {
	fl := flock.New(filepath.Join(w.dir, lockFileName))

	ctx, cancel := context.WithTimeout(context.Background(), LockTimeout)
	defer cancel()

	locked, err := fl.TryLockContext(ctx, 10*time.Millisecond)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			w.logger.Warn("Report directory lock not acquired, writing without it", "dir", w.dir)
			return func() {}, nil
		}
		return nil, fmt.Errorf("failed to lock report directory: %w", err)
	}
	if !locked {
		return func() {}, nil
	}

	return func() { _ = fl.Unlock() }, nil
}
