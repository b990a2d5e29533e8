package interp

import (
	"context"
	"time"

	"github.com/ecolang-io/ecolang/parser"
)

// Session evaluates successive chunks of source against persistent
// state: variable bindings, const names, the function registry, and the
// savePower multiplier survive across Eval calls. Budgets and the eco
// meter reset for every call, so each chunk gets the full step, time,
// and output allowance.
//
// A Session is not safe for concurrent use.
type Session struct {
	cfg       Config
	root      *frame
	functions map[string]*function
}

// NewSession creates a Session evaluating under the given config.
func NewSession(cfg Config) *Session {
	return &Session{
		cfg:       cfg,
		root:      newFrame(),
		functions: map[string]*function{},
	}
}

// Eval parses and runs one chunk. A failed chunk leaves behind whatever
// bindings it made before failing.
func (s *Session) Eval(ctx context.Context, source string) *Result {
	start := time.Now()
	program, perr := parser.Parse(source, parser.WithMaxFuncParams(s.cfg.MaxFuncParams))
	if perr != nil {
		return &Result{Err: perr, Duration: time.Since(start)}
	}
	r := newRunner(s.cfg)
	r.functions = s.functions
	if err := r.convertInputs(s.cfg.Inputs); err != nil {
		return &Result{Err: err, Duration: r.gov.elapsed()}
	}
	_, err := r.execStmts(ctx, program.Statements, s.root)
	return r.finish(err)
}

// Reset drops all bindings and function definitions.
func (s *Session) Reset() {
	s.root = newFrame()
	s.functions = map[string]*function{}
}
