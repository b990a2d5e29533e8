package ecolang

import (
	"context"
	"runtime"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ecolang-io/ecolang/eco"
	"github.com/ecolang-io/ecolang/errz"
	"github.com/ecolang-io/ecolang/sandbox"
)

func TestExecuteHello(t *testing.T) {
	res := Execute(context.Background(), `say "hello"`)
	require.Nil(t, res.Err)
	require.Equal(t, []string{"hello"}, res.Output)
	require.NotNil(t, res.Eco)
	require.Equal(t, "hello\n", res.OutputText())
}

func TestExecuteWithInputs(t *testing.T) {
	res := Execute(context.Background(), "ask n\nsay n + 1",
		WithInputs(map[string]any{"n": 41}))
	require.Nil(t, res.Err)
	require.Equal(t, []string{"42"}, res.Output)
}

func TestExecuteInputsAdditive(t *testing.T) {
	res := Execute(context.Background(), "ask a\nask b\nsay a + b",
		WithInputs(map[string]any{"a": 1}),
		WithInputs(map[string]any{"b": 2}))
	require.Nil(t, res.Err)
	require.Equal(t, []string{"3"}, res.Output)
}

func TestExecuteStepLimit(t *testing.T) {
	res := Execute(context.Background(), "say 1\nsay 2\nsay 3", WithMaxSteps(2))
	require.NotNil(t, res.Err)
	require.Equal(t, errz.StepLimit, res.Err.Code)
	require.Equal(t, []string{"1", "2"}, res.Output)
}

func TestExecuteEcoTunables(t *testing.T) {
	res := Execute(context.Background(), `say "hi"`, WithEcoTunables(eco.Params{}))
	require.Nil(t, res.Err)
	require.Equal(t, int64(55), res.Eco.TotalOps)
	require.Equal(t, 0.0, res.Eco.EnergyJ)
	require.Equal(t, 0.0, res.Eco.CO2Grams)
}

func TestExecuteNilOption(t *testing.T) {
	res := Execute(context.Background(), "say 1", nil)
	require.Nil(t, res.Err)
	require.Equal(t, []string{"1"}, res.Output)
}

func TestExecuteSandbox(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("requires a POSIX shell")
	}
	runner := sandbox.NewRunner(
		sandbox.WithCommand("sh", "-c", `echo '{"result": 7, "error": null}'`))
	res := Execute(context.Background(), "result = 7", WithSandbox(runner))
	require.Nil(t, res.Err)
	require.Equal(t, []string{"7"}, res.Output)
	require.Nil(t, res.Eco)
}

func TestExecuteSandboxFailure(t *testing.T) {
	runner := sandbox.NewRunner(sandbox.WithCommand("/nonexistent/worker"))
	res := Execute(context.Background(), "result = 7", WithSandbox(runner))
	require.NotNil(t, res.Err)
	require.Equal(t, errz.SubprocessError, res.Err.Code)
}

func TestSessionPersistence(t *testing.T) {
	s := NewSession()
	ctx := context.Background()

	res := s.Eval(ctx, "let x = 1")
	require.Nil(t, res.Err)

	res = s.Eval(ctx, "say x")
	require.Nil(t, res.Err)
	require.Equal(t, []string{"1"}, res.Output)

	res = s.Eval(ctx, "func double n\nreturn n * 2\nend")
	require.Nil(t, res.Err)

	res = s.Eval(ctx, "call double with 21 into y\nsay y")
	require.Nil(t, res.Err)
	require.Equal(t, []string{"42"}, res.Output)
}

func TestSessionConstPersists(t *testing.T) {
	s := NewSession()
	ctx := context.Background()
	require.Nil(t, s.Eval(ctx, "const PI = 3.14").Err)

	res := s.Eval(ctx, "let PI = 3")
	require.NotNil(t, res.Err)
	require.Equal(t, "Cannot reassign const 'PI'", res.Err.Message)
}

func TestSessionBudgetsReset(t *testing.T) {
	s := NewSession(WithMaxSteps(2))
	ctx := context.Background()
	require.Nil(t, s.Eval(ctx, "say 1\nsay 2").Err)
	require.Nil(t, s.Eval(ctx, "say 3\nsay 4").Err)
}

func TestSessionReset(t *testing.T) {
	s := NewSession()
	ctx := context.Background()
	require.Nil(t, s.Eval(ctx, "let x = 5").Err)

	s.Reset()
	res := s.Eval(ctx, "say x")
	require.NotNil(t, res.Err)
	require.Equal(t, "Undefined variable 'x'", res.Err.Message)
}
