package interp

import (
	"context"
	"time"
	"unicode/utf8"

	"github.com/ecolang-io/ecolang/errz"
)

// governor enforces the run's hard budgets: wall-clock time, statement
// count, and output size. Exceeding any of them is fatal. Loop-iteration
// clamps are softer and live with the loop statements instead.
type governor struct {
	maxSteps  int64
	maxTime   time.Duration
	maxOutput int64

	start       time.Time
	steps       int64
	outputRunes int64
}

func newGovernor(cfg Config) *governor {
	return &governor{
		maxSteps:  cfg.MaxSteps,
		maxTime:   cfg.MaxTime,
		maxOutput: cfg.MaxOutputChars,
		start:     time.Now(),
	}
}

// beforeStatement runs the checks that precede every statement and
// counts it. The time budget is checked first so a slow run reports
// TIMEOUT even when it is also out of steps.
func (g *governor) beforeStatement(ctx context.Context) *errz.Error {
	select {
	case <-ctx.Done():
		return errz.New(errz.Timeout, "Execution canceled")
	default:
	}
	if time.Since(g.start) > g.maxTime {
		return errz.New(errz.Timeout, "Time limit exceeded")
	}
	g.steps++
	if g.steps > g.maxSteps {
		return errz.New(errz.StepLimit, "Step limit exceeded")
	}
	return nil
}

// appendOutput adds one line to the output, enforcing the output budget
// in characters. Lines already appended stay in the output even when a
// later line overflows.
func (g *governor) appendOutput(output *[]string, line string) *errz.Error {
	runes := int64(utf8.RuneCountInString(line))
	if g.outputRunes+runes > g.maxOutput {
		return errz.New(errz.OutputLimit, "Output length limit reached")
	}
	g.outputRunes += runes
	*output = append(*output, line)
	return nil
}

func (g *governor) elapsed() time.Duration {
	return time.Since(g.start)
}
