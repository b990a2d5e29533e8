// Package sandbox executes code in an isolated worker process.
//
// The parent and worker speak a single-request JSON protocol: the parent
// writes {"code": ...} to the worker's stdin and reads {"result": ...,
// "error": ...} from its stdout. The worker evaluates a stricter grammar
// than the main language (assignments and bare expressions only, no
// calls) under self-applied OS resource limits, while the parent
// enforces a wall-clock timeout with a kill. Nothing is salvaged from a
// timed-out worker.
package sandbox

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/ecolang-io/ecolang/errz"
	"github.com/ecolang-io/ecolang/object"
)

// DefaultTimeout is the wall-clock budget for one worker run.
const DefaultTimeout = 2 * time.Second

// Runner spawns sandbox workers.
type Runner struct {
	command []string
	timeout time.Duration
	logger  zerolog.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithCommand sets the worker argv. The default is this binary's own
// worker subcommand.
func WithCommand(argv ...string) Option {
	return func(r *Runner) {
		r.command = argv
	}
}

// WithTimeout sets the wall-clock budget for a worker run.
func WithTimeout(timeout time.Duration) Option {
	return func(r *Runner) {
		r.timeout = timeout
	}
}

// WithLogger sets the logger for worker lifecycle events.
func WithLogger(logger zerolog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// NewRunner creates a Runner with the given options applied over the
// defaults.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		command: defaultCommand(),
		timeout: DefaultTimeout,
		logger:  zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func defaultCommand() []string {
	exe, err := os.Executable()
	if err != nil {
		exe = os.Args[0]
	}
	return []string{exe, "worker"}
}

type request struct {
	Code string `json:"code"`
}

type response struct {
	Result any     `json:"result"`
	Error  *string `json:"error"`
}

// Run executes code in a fresh worker process and returns the value the
// worker reported. A timeout kills the worker and surfaces as
// SUBPROCESS_FAILED with message TIMEOUT; a worker that could not be
// started is SUBPROCESS_ERROR; errors the worker itself reports come
// back as runtime errors.
func (r *Runner) Run(ctx context.Context, code string) (object.Object, *errz.Error) {
	payload, err := json.Marshal(request{Code: code})
	if err != nil {
		return nil, errz.Newf(errz.Internal, "encode sandbox request: %v", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, r.command[0], r.command[1:]...)
	cmd.Stdin = bytes.NewReader(payload)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	// The worker gets a minimal environment and its own session, so it
	// inherits no host secrets and no signals aimed at the parent.
	cmd.Env = []string{"PATH=" + os.Getenv("PATH")}
	cmd.SysProcAttr = sessionAttr()
	cmd.WaitDelay = time.Second

	r.logger.Debug().
		Str("command", strings.Join(r.command, " ")).
		Msg("starting sandbox worker")

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			r.logger.Warn().
				Dur("timeout", r.timeout).
				Msg("sandbox worker killed on timeout")
			return nil, errz.New(errz.SubprocessFailed, "TIMEOUT")
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			message := strings.TrimSpace(stderr.String())
			if message == "" {
				message = err.Error()
			}
			return nil, errz.New(errz.SubprocessFailed, message)
		}
		return nil, errz.New(errz.SubprocessError, err.Error())
	}

	dec := json.NewDecoder(bytes.NewReader(stdout.Bytes()))
	dec.UseNumber()
	var resp response
	if err := dec.Decode(&resp); err != nil {
		return nil, errz.Newf(errz.SubprocessFailed, "invalid worker response: %v", err)
	}
	if resp.Error != nil {
		return nil, errz.New(errz.RuntimeError, *resp.Error)
	}
	result, convErr := object.FromGoType(resp.Result)
	if convErr != nil {
		return nil, errz.Newf(errz.SubprocessFailed, "invalid worker result: %v", convErr)
	}
	return result, nil
}
