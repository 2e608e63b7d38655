package pid_test

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"codeberg.org/mutker/hwdash/internal/errors"
	"codeberg.org/mutker/hwdash/internal/pid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAcquireRelease(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hwdash.pid")
	f := pid.New(path)

	require.NoError(t, f.Acquire())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strconv.Itoa(os.Getpid()), string(data))

	require.NoError(t, f.Release())
	assert.NoFileExists(t, path)

	// Releasing twice is fine.
	require.NoError(t, f.Release())
}

func TestAcquireWhileRunning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hwdash.pid")
	require.NoError(t, os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o600))

	err := pid.New(path).Acquire()
	assert.True(t, errors.HasCode(err, errors.ErrAlreadyRunning))
}

func TestAcquireCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hwdash.pid")
	require.NoError(t, os.WriteFile(path, []byte("not a pid"), 0o600))

	err := pid.New(path).Acquire()
	assert.True(t, errors.HasCode(err, errors.ErrPIDFile))
}
