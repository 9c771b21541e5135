package process

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"gitlab.com/docforge.net/internal/adapter/logging"
	"gitlab.com/docforge.net/internal/domain"
)

func skipWithoutShell(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	sh, err := os.Stat("/bin/sh")
	if err != nil || sh.IsDir() {
		t.Skip("requires /bin/sh")
	}
	return "/bin/sh"
}

func TestExecRunner_CapturesOutputAndExitCode(t *testing.T) {
	defer goleak.VerifyNone(t)
	sh := skipWithoutShell(t)
	r := NewExecRunner(logging.NewNopLogger())

	res, err := r.Run(context.Background(), domain.RunCommand{
		Path:    sh,
		Args:    []string{"-c", "echo out; echo err 1>&2; exit 3"},
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.ExitCode)
	assert.Equal(t, "out\n", res.Stdout)
	assert.Equal(t, "err\n", res.Stderr)
	assert.False(t, res.TimedOut)
}

func TestExecRunner_UsesDirAndEnv(t *testing.T) {
	sh := skipWithoutShell(t)
	dir := t.TempDir()
	r := NewExecRunner(logging.NewNopLogger())

	res, err := r.Run(context.Background(), domain.RunCommand{
		Path:    sh,
		Args:    []string{"-c", "printf %s \"$DOCFORGE_TEST\" > marker.txt"},
		Dir:     dir,
		Env:     append(os.Environ(), "DOCFORGE_TEST=hello"),
		Timeout: 5 * time.Second,
	})
	require.NoError(t, err)
	require.Equal(t, 0, res.ExitCode)

	data, err := os.ReadFile(filepath.Join(dir, "marker.txt"))
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestExecRunner_Timeout(t *testing.T) {
	defer goleak.VerifyNone(t)
	sh := skipWithoutShell(t)
	r := NewExecRunner(logging.NewNopLogger())

	start := time.Now()
	res, err := r.Run(context.Background(), domain.RunCommand{
		Path:    sh,
		Args:    []string{"-c", "sleep 10"},
		Timeout: 200 * time.Millisecond,
	})
	require.NoError(t, err)
	assert.True(t, res.TimedOut)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestExecRunner_MissingBinary(t *testing.T) {
	r := NewExecRunner(logging.NewNopLogger())
	_, err := r.Run(context.Background(), domain.RunCommand{
		Path:    filepath.Join(t.TempDir(), "does-not-exist"),
		Timeout: time.Second,
	})
	require.Error(t, err)
}
