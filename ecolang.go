// Package ecolang runs programs written in EcoLang, a small line-oriented
// scripting language for teaching energy-aware programming. Programs are
// untrusted input: execution is bounded by step, time, output, loop, and
// call-depth budgets, and every operation is charged against a synthetic
// cost table that feeds an energy and CO2 estimate.
//
// The simplest use is a one-shot run:
//
//	res := ecolang.Execute(ctx, `say "hello"`)
//	if res.Err != nil {
//		fmt.Println(res.Err.FriendlyErrorMessage())
//	}
//	fmt.Print(res.OutputText())
//
// Execute never returns a Go error; every failure mode travels in the
// Result's Err field as a structured error with a stable code.
package ecolang

import (
	"context"
	"time"

	"github.com/ecolang-io/ecolang/interp"
	"github.com/ecolang-io/ecolang/sandbox"
)

// Result is the complete outcome of one run: output lines, warnings, the
// eco report (nil on failure), the structured error (nil on success),
// and the wall-clock duration.
type Result = interp.Result

// Execute parses and runs source text under the configured budgets.
func Execute(ctx context.Context, source string, opts ...Option) *Result {
	o := collectOptions(opts...)
	if o.sandbox != nil {
		return runSandboxed(ctx, o.sandbox, source)
	}
	return interp.Run(ctx, source, o.config)
}

// runSandboxed maps the worker protocol outcome into the regular Result
// shape. The output is the single rendering of the worker's result;
// there is no eco report because the worker does not meter.
func runSandboxed(ctx context.Context, runner *sandbox.Runner, source string) *Result {
	start := time.Now()
	value, err := runner.Run(ctx, source)
	if err != nil {
		return &Result{Err: err, Duration: time.Since(start)}
	}
	return &Result{
		Output:   []string{value.Inspect()},
		Duration: time.Since(start),
	}
}

// Session keeps variable bindings and function definitions alive across
// Eval calls. It backs the REPL.
type Session = interp.Session

// NewSession creates a Session evaluating under the given options.
// Sandbox options are ignored; sessions always run in-process.
func NewSession(opts ...Option) *Session {
	o := collectOptions(opts...)
	return interp.NewSession(o.config)
}
