package interp

import (
	"fmt"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/ecolang-io/ecolang/eco"
)

// Default safety limits for a run.
const (
	DefaultMaxSteps       = 100000
	DefaultMaxLoop        = 10000
	DefaultMaxTime        = 1500 * time.Millisecond
	DefaultMaxOutputChars = 5000
	DefaultMaxCallDepth   = 5
	DefaultMaxFuncParams  = 3
)

// Config holds everything about a run that is fixed before the first
// statement executes. Configs are value types; a runner never mutates
// the Config it was given.
type Config struct {
	// MaxSteps caps both the number of statements executed and the
	// weighted operation total that loops may accumulate.
	MaxSteps int64

	// MaxLoop caps iterations of a single while/for/repeat loop.
	MaxLoop int64

	// MaxTime is the wall-clock budget for the run.
	MaxTime time.Duration

	// MaxOutputChars caps the total output, counted in characters.
	MaxOutputChars int64

	// MaxCallDepth caps nested function calls.
	MaxCallDepth int

	// MaxFuncParams caps parameters in a function definition.
	MaxFuncParams int

	// EcoParams are the energy estimation tunables.
	EcoParams eco.Params

	// Costs overrides the operation cost table; nil uses the defaults.
	Costs map[string]int64

	// Inputs supplies the values consumed by ask statements.
	Inputs map[string]any
}

// DefaultConfig returns a Config with the default limits and eco
// parameters.
func DefaultConfig() Config {
	return Config{
		MaxSteps:       DefaultMaxSteps,
		MaxLoop:        DefaultMaxLoop,
		MaxTime:        DefaultMaxTime,
		MaxOutputChars: DefaultMaxOutputChars,
		MaxCallDepth:   DefaultMaxCallDepth,
		MaxFuncParams:  DefaultMaxFuncParams,
		EcoParams:      eco.DefaultParams(),
	}
}

// Validate reports every problem with the config, not just the first.
func (c Config) Validate() error {
	var result error
	if c.MaxSteps <= 0 {
		result = multierror.Append(result, fmt.Errorf("max steps must be positive, got %d", c.MaxSteps))
	}
	if c.MaxLoop <= 0 {
		result = multierror.Append(result, fmt.Errorf("max loop iterations must be positive, got %d", c.MaxLoop))
	}
	if c.MaxTime <= 0 {
		result = multierror.Append(result, fmt.Errorf("max time must be positive, got %s", c.MaxTime))
	}
	if c.MaxOutputChars <= 0 {
		result = multierror.Append(result, fmt.Errorf("max output chars must be positive, got %d", c.MaxOutputChars))
	}
	if c.MaxCallDepth <= 0 {
		result = multierror.Append(result, fmt.Errorf("max call depth must be positive, got %d", c.MaxCallDepth))
	}
	if c.MaxFuncParams < 0 {
		result = multierror.Append(result, fmt.Errorf("max func params must not be negative, got %d", c.MaxFuncParams))
	}
	if c.EcoParams.EnergyPerOpJ < 0 {
		result = multierror.Append(result, fmt.Errorf("energy per op must not be negative, got %g", c.EcoParams.EnergyPerOpJ))
	}
	if c.EcoParams.IdlePowerW < 0 {
		result = multierror.Append(result, fmt.Errorf("idle power must not be negative, got %g", c.EcoParams.IdlePowerW))
	}
	if c.EcoParams.CO2PerKWhG < 0 {
		result = multierror.Append(result, fmt.Errorf("co2 per kwh must not be negative, got %g", c.EcoParams.CO2PerKWhG))
	}
	for kind, cost := range c.Costs {
		if cost < 0 {
			result = multierror.Append(result, fmt.Errorf("cost for %q must not be negative, got %d", kind, cost))
		}
	}
	return result
}
