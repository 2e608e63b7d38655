// Package pid guards against running two headless monitors at once.
package pid

import (
	"os"
	"strconv"
	"strings"
	"syscall"

	"codeberg.org/mutker/hwdash/internal/errors"
)

// File is a PID file at a fixed path.
type File struct {
	path string
}

func New(path string) *File {
	return &File{path: path}
}

func (f *File) Path() string {
	return f.path
}

// Acquire writes the current process ID to the PID file. It fails with
// ErrAlreadyRunning if the file names a live process; a file left behind by
// a dead process is replaced.
func (f *File) Acquire() error {
	errFactory := errors.New()

	if _, err := os.Stat(f.path); err == nil {
		// PID file exists, check if the process is running
		bytes, err := os.ReadFile(f.path)
		if err != nil {
			return errFactory.Wrap(errors.ErrPIDFile, err)
		}

		pid, err := strconv.Atoi(strings.TrimSpace(string(bytes)))
		if err != nil {
			return errFactory.Wrap(errors.ErrPIDFile, err)
		}

		process, err := os.FindProcess(pid)
		if err != nil {
			return errFactory.Wrap(errors.ErrPIDFile, err)
		}

		if err := process.Signal(syscall.Signal(0)); err == nil {
			return errFactory.WithData(errors.ErrAlreadyRunning, pid)
		}
	}

	err := os.WriteFile(f.path, []byte(strconv.Itoa(os.Getpid())), 0o600)
	if err != nil {
		return errFactory.Wrap(errors.ErrPIDFile, err)
	}

	return nil
}

// Release removes the PID file.
func (f *File) Release() error {
	if _, err := os.Stat(f.path); os.IsNotExist(err) {
		return nil
	}

	if err := os.Remove(f.path); err != nil {
		return errors.New().Wrap(errors.ErrPIDFile, err)
	}

	return nil
}
