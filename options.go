package ecolang

import (
	"time"

	"github.com/ecolang-io/ecolang/eco"
	"github.com/ecolang-io/ecolang/interp"
	"github.com/ecolang-io/ecolang/sandbox"
)

// Option configures an execution.
type Option func(*options)

type options struct {
	config  interp.Config
	sandbox *sandbox.Runner
}

func collectOptions(opts ...Option) *options {
	o := &options{config: interp.DefaultConfig()}
	for _, opt := range opts {
		if opt != nil {
			opt(o)
		}
	}
	return o
}

// WithInputs supplies the values consumed by ask statements. This option
// is additive, so multiple WithInputs options may be supplied; if the
// same key appears more than once, the last value wins.
func WithInputs(inputs map[string]any) Option {
	return func(o *options) {
		if o.config.Inputs == nil {
			o.config.Inputs = make(map[string]any, len(inputs))
		}
		for name, value := range inputs {
			o.config.Inputs[name] = value
		}
	}
}

// WithConfig replaces the entire execution config. Options applied after
// this one modify the replacement.
func WithConfig(cfg interp.Config) Option {
	return func(o *options) {
		o.config = cfg
	}
}

// WithMaxSteps caps the number of statements executed.
func WithMaxSteps(n int64) Option {
	return func(o *options) {
		o.config.MaxSteps = n
	}
}

// WithMaxLoop caps iterations of a single while, for, or repeat loop.
func WithMaxLoop(n int64) Option {
	return func(o *options) {
		o.config.MaxLoop = n
	}
}

// WithMaxTime sets the wall-clock budget for the run.
func WithMaxTime(d time.Duration) Option {
	return func(o *options) {
		o.config.MaxTime = d
	}
}

// WithMaxOutputChars caps the total output, counted in characters.
func WithMaxOutputChars(n int64) Option {
	return func(o *options) {
		o.config.MaxOutputChars = n
	}
}

// WithMaxCallDepth caps nested function calls.
func WithMaxCallDepth(n int) Option {
	return func(o *options) {
		o.config.MaxCallDepth = n
	}
}

// WithMaxFuncParams caps parameters in a function definition.
func WithMaxFuncParams(n int) Option {
	return func(o *options) {
		o.config.MaxFuncParams = n
	}
}

// WithEcoTunables overrides the energy estimation parameters.
func WithEcoTunables(params eco.Params) Option {
	return func(o *options) {
		o.config.EcoParams = params
	}
}

// WithCosts overrides the operation cost table. Unknown operation kinds
// fall back to the "other" cost.
func WithCosts(costs map[string]int64) Option {
	return func(o *options) {
		o.config.Costs = costs
	}
}

// WithSandbox routes execution through the out-of-process worker instead
// of the in-process interpreter. The worker accepts a stricter grammar
// and returns at most one value; budgets other than the runner's timeout
// do not apply.
func WithSandbox(runner *sandbox.Runner) Option {
	return func(o *options) {
		o.sandbox = runner
	}
}
