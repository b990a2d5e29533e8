package sandbox

import (
	"context"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ecolang-io/ecolang/errz"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
}

func TestRunnerSuccess(t *testing.T) {
	requireShell(t)
	runner := NewRunner(WithCommand("sh", "-c", `echo '{"result": 12345, "error": null}'`))
	result, err := runner.Run(context.Background(), "result = 12345")
	require.Nil(t, err)
	require.Equal(t, "12345", result.Inspect())
}

func TestRunnerNullResult(t *testing.T) {
	requireShell(t)
	runner := NewRunner(WithCommand("sh", "-c", `echo '{"result": null, "error": null}'`))
	result, err := runner.Run(context.Background(), "x = 1")
	require.Nil(t, err)
	require.Equal(t, "nil", result.Inspect())
}

func TestRunnerWorkerError(t *testing.T) {
	requireShell(t)
	runner := NewRunner(WithCommand(
		"sh", "-c", `echo '{"result": null, "error": "error: division by zero"}'`))
	_, err := runner.Run(context.Background(), "result = 1 / 0")
	require.NotNil(t, err)
	require.Equal(t, errz.RuntimeError, err.Code)
	require.Equal(t, "error: division by zero", err.Message)
}

func TestRunnerTimeout(t *testing.T) {
	requireShell(t)
	runner := NewRunner(WithCommand("sleep", "5"), WithTimeout(50*time.Millisecond))
	_, err := runner.Run(context.Background(), "result = 1")
	require.NotNil(t, err)
	require.Equal(t, errz.SubprocessFailed, err.Code)
	require.Equal(t, "TIMEOUT", err.Message)
}

func TestRunnerNonZeroExit(t *testing.T) {
	requireShell(t)
	runner := NewRunner(WithCommand("sh", "-c", "echo boom >&2; exit 3"))
	_, err := runner.Run(context.Background(), "x")
	require.NotNil(t, err)
	require.Equal(t, errz.SubprocessFailed, err.Code)
	require.Equal(t, "boom", err.Message)
}

func TestRunnerInvalidResponse(t *testing.T) {
	requireShell(t)
	runner := NewRunner(WithCommand("sh", "-c", "echo not-json"))
	_, err := runner.Run(context.Background(), "x")
	require.NotNil(t, err)
	require.Equal(t, errz.SubprocessFailed, err.Code)
	require.Contains(t, err.Message, "invalid worker response")
}

func TestRunnerSpawnFailure(t *testing.T) {
	runner := NewRunner(WithCommand("/nonexistent/ecolang-worker"))
	_, err := runner.Run(context.Background(), "x")
	require.NotNil(t, err)
	require.Equal(t, errz.SubprocessError, err.Code)
}

func TestRunnerDefaultCommand(t *testing.T) {
	runner := NewRunner()
	require.Len(t, runner.command, 2)
	require.Equal(t, "worker", runner.command[1])
	require.Equal(t, DefaultTimeout, runner.timeout)
}
