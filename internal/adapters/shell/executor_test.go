package shell_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/anvil/internal/adapters/shell"
	"go.trai.ch/anvil/internal/core/domain"
)

func TestExecutor_Run_SeparatesStreams(t *testing.T) {
	executor := shell.NewExecutor()

	result, err := executor.Run(context.Background(), t.TempDir(), []string{"sh", "-c", "echo out; echo err >&2"})
	require.NoError(t, err)
	assert.True(t, result.Success())
	assert.Equal(t, "out\n", result.Stdout)
	assert.Equal(t, "err\n", result.Stderr)
}

func TestExecutor_Run_ExitCodeIsData(t *testing.T) {
	executor := shell.NewExecutor()

	result, err := executor.Run(context.Background(), t.TempDir(), []string{"sh", "-c", "echo 'main.cpp:1: error' >&2; exit 42"})
	require.NoError(t, err)
	assert.False(t, result.Success())
	assert.Equal(t, 42, result.ExitCode)
	assert.Equal(t, "main.cpp:1: error", result.Diagnostics())
}

func TestExecutor_Run_WorkingDirectory(t *testing.T) {
	executor := shell.NewExecutor()
	dir := t.TempDir()

	_, err := executor.Run(context.Background(), dir, []string{"sh", "-c", "echo hi > out.txt"})
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(dir, "out.txt"))
}

func TestExecutor_Run_Environment(t *testing.T) {
	t.Setenv("ANVIL_INHERITED", "from-parent")
	executor := shell.NewExecutor("ANVIL_EXTRA=extra-value")

	result, err := executor.Run(context.Background(), t.TempDir(), []string{"sh", "-c", "echo $ANVIL_INHERITED $ANVIL_EXTRA"})
	require.NoError(t, err)
	assert.Equal(t, "from-parent extra-value\n", result.Stdout)
}

func TestExecutor_Run_StartFailures(t *testing.T) {
	executor := shell.NewExecutor()

	t.Run("unknown command", func(t *testing.T) {
		_, err := executor.Run(context.Background(), t.TempDir(), []string{"nonexistent-command-xyz123"})
		require.Error(t, err)
		assert.ErrorContains(t, err, domain.ErrProcessStartFailed.Error())
	})

	t.Run("empty command", func(t *testing.T) {
		_, err := executor.Run(context.Background(), t.TempDir(), nil)
		require.ErrorIs(t, err, domain.ErrProcessStartFailed)
	})

	t.Run("missing directory", func(t *testing.T) {
		_, err := executor.Run(context.Background(), filepath.Join(t.TempDir(), "missing"), []string{"sh", "-c", "true"})
		require.Error(t, err)
	})
}

func TestExecutor_Run_Cancelled(t *testing.T) {
	executor := shell.NewExecutor()
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	_, err := executor.Run(ctx, t.TempDir(), []string{"sleep", "10"})
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestExecutor_Run_AbsolutePath(t *testing.T) {
	if _, err := os.Stat("/bin/sh"); err != nil {
		t.Skip("/bin/sh not available")
	}
	result, err := shell.NewExecutor().Run(context.Background(), t.TempDir(), []string{"/bin/sh", "-c", "echo test"})
	require.NoError(t, err)
	assert.Equal(t, "test\n", result.Stdout)
}
