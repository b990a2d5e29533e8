// Package interp executes parsed programs.
//
// The interpreter dispatches on the closed set of statement variants the
// parser produces. State lives in an explicit stack of frames: the root
// frame for top-level code and one frame per function call, each holding
// its variable bindings, its const names, and the op-cost multiplier in
// effect. Blocks (if branches and loop bodies) execute in the frame of
// the enclosing code, so their bindings persist after the block ends.
//
// Output and warnings accumulate live against shared budgets enforced by
// the governor; a failed run keeps everything produced before the
// failure.
package interp

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/ecolang-io/ecolang/ast"
	"github.com/ecolang-io/ecolang/eco"
	"github.com/ecolang-io/ecolang/errz"
	"github.com/ecolang-io/ecolang/eval"
	"github.com/ecolang-io/ecolang/object"
	"github.com/ecolang-io/ecolang/parser"
)

// Run parses and executes source text under the given config.
func Run(ctx context.Context, source string, cfg Config) *Result {
	start := time.Now()
	program, perr := parser.Parse(source, parser.WithMaxFuncParams(cfg.MaxFuncParams))
	if perr != nil {
		return &Result{Err: perr, Duration: time.Since(start)}
	}
	return RunProgram(ctx, program, cfg)
}

// RunProgram executes an already-parsed program.
func RunProgram(ctx context.Context, program *ast.Program, cfg Config) *Result {
	r := newRunner(cfg)
	if err := r.convertInputs(cfg.Inputs); err != nil {
		return &Result{Err: err, Duration: r.gov.elapsed()}
	}
	_, err := r.execStmts(ctx, program.Statements, newFrame())
	return r.finish(err)
}

// function is a user-defined function registered by a func statement.
type function struct {
	params []string
	body   []ast.Stmt
}

// frame is one level of the call stack.
type frame struct {
	vars   map[string]object.Object
	consts map[string]struct{}
	scale  float64 // op-cost multiplier set by savePower
}

func newFrame() *frame {
	return &frame{
		vars:   map[string]object.Object{},
		consts: map[string]struct{}{},
		scale:  1.0,
	}
}

// checkAssign rejects writes to const bindings.
func (f *frame) checkAssign(name string, stmt ast.Stmt) *errz.Error {
	if _, ok := f.consts[name]; ok {
		return errz.Newf(errz.RuntimeError, "Cannot reassign const '%s'", name).
			WithLine(stmt.Line()).
			WithLineText(stmt.Text())
	}
	return nil
}

// returnValue marks that a return statement fired; the value is Nil for
// a bare return.
type returnValue struct {
	value object.Object
}

type runner struct {
	cfg       Config
	meter     *eco.Meter
	gov       *governor
	inputs    map[string]object.Object
	functions map[string]*function
	output    []string
	warnings  []string
	depth     int // current function call depth
}

func newRunner(cfg Config) *runner {
	return &runner{
		cfg:       cfg,
		meter:     eco.NewMeter(cfg.Costs),
		gov:       newGovernor(cfg),
		functions: map[string]*function{},
	}
}

// finish assembles the Result after the last statement or the failing
// one. Only a completed run gets an eco report.
func (r *runner) finish(err *errz.Error) *Result {
	duration := r.gov.elapsed()
	if err != nil {
		return &Result{
			Output:   r.output,
			Warnings: r.warnings,
			Err:      err,
			Duration: duration,
		}
	}
	total := r.meter.Total()
	if total > eco.HighUsageThreshold {
		r.warnings = append(r.warnings, "High estimated energy use")
	}
	return &Result{
		Output:   r.output,
		Warnings: r.warnings,
		Eco:      eco.Estimate(total, duration, r.cfg.EcoParams),
		Duration: duration,
	}
}

func (r *runner) convertInputs(inputs map[string]any) *errz.Error {
	r.inputs = make(map[string]object.Object, len(inputs))
	for name, value := range inputs {
		obj, err := object.FromGoType(value)
		if err != nil {
			return errz.Newf(errz.Internal, "invalid input value for '%s': %v", name, err)
		}
		r.inputs[name] = obj
	}
	return nil
}

// execStmts runs statements in order until completion, a return, or an
// error. A non-nil returnValue means a return statement fired somewhere
// in the statements or their nested blocks.
func (r *runner) execStmts(ctx context.Context, stmts []ast.Stmt, f *frame) (*returnValue, *errz.Error) {
	for _, stmt := range stmts {
		if err := r.gov.beforeStatement(ctx); err != nil {
			if err.Code == errz.StepLimit {
				r.warnings = append(r.warnings, "Step limit exceeded")
			}
			return nil, err
		}
		r.meter.Charge(eco.OpOther, f.scale)
		ret, err := r.execStmt(ctx, stmt, f)
		if err != nil {
			return nil, err
		}
		if ret != nil {
			return ret, nil
		}
	}
	return nil, nil
}

func (r *runner) execStmt(ctx context.Context, stmt ast.Stmt, f *frame) (*returnValue, *errz.Error) {
	switch stmt := stmt.(type) {
	case *ast.Say:
		return nil, r.execSay(stmt, f)
	case *ast.Let:
		return nil, r.execLet(stmt, f)
	case *ast.Const:
		return nil, r.execConst(stmt, f)
	case *ast.Ask:
		return nil, r.execAsk(stmt, f)
	case *ast.Warn:
		return nil, r.execWarn(stmt, f)
	case *ast.EcoTip:
		return nil, r.execEcoTip(f)
	case *ast.SavePower:
		return nil, r.execSavePower(stmt, f)
	case *ast.FuncDef:
		return nil, r.execFuncDef(stmt, f)
	case *ast.CallStmt:
		return nil, r.execCall(ctx, stmt, f)
	case *ast.Return:
		return r.execReturn(stmt, f)
	case *ast.If:
		return r.execIf(ctx, stmt, f)
	case *ast.While:
		return r.execWhile(ctx, stmt, f)
	case *ast.For:
		return r.execFor(ctx, stmt, f)
	case *ast.Repeat:
		return r.execRepeat(ctx, stmt, f)
	}
	return nil, errz.Newf(errz.Internal, "unhandled statement %T", stmt).
		WithLine(stmt.Line()).
		WithLineText(stmt.Text())
}

// evalText evaluates an embedded expression in the given frame.
func (r *runner) evalText(text ast.ExprText, f *frame) (object.Object, *eval.Error) {
	return eval.Eval(text.Text, &eval.Context{
		Lookup: func(name string) (object.Object, bool) {
			obj, ok := f.vars[name]
			return obj, ok
		},
		Ops: r.meter.Total,
	})
}

// exprError converts an expression failure into a runtime error anchored
// on the statement's line, offsetting the expression-relative column.
func exprError(e *eval.Error, line int, lineText string, expr ast.ExprText, hint string) *errz.Error {
	col := expr.Column
	if e.Column > 0 {
		col = expr.Column + e.Column - 1
	}
	err := errz.New(errz.RuntimeError, e.Message).
		WithLine(line).
		WithColumn(col).
		WithLineText(lineText)
	if hint != "" {
		err.WithHint(hint)
	}
	return err
}

func (r *runner) execSay(stmt *ast.Say, f *frame) *errz.Error {
	val, err := r.evalText(stmt.Value, f)
	if err != nil {
		return exprError(err, stmt.Line(), stmt.Text(), stmt.Value, "")
	}
	r.meter.Charge(eco.OpPrint, f.scale)
	return r.gov.appendOutput(&r.output, val.Inspect())
}

func (r *runner) execLet(stmt *ast.Let, f *frame) *errz.Error {
	if err := f.checkAssign(stmt.Name, stmt); err != nil {
		return err
	}
	val, err := r.evalText(stmt.Value, f)
	if err != nil {
		return exprError(err, stmt.Line(), stmt.Text(), stmt.Value, "")
	}
	f.vars[stmt.Name] = val
	r.meter.Charge(eco.OpAssign, f.scale)
	return nil
}

func (r *runner) execConst(stmt *ast.Const, f *frame) *errz.Error {
	if _, exists := f.vars[stmt.Name]; exists {
		return errz.Newf(errz.RuntimeError, "'%s' already defined", stmt.Name).
			WithLine(stmt.Line()).
			WithLineText(stmt.Text())
	}
	val, err := r.evalText(stmt.Value, f)
	if err != nil {
		return exprError(err, stmt.Line(), stmt.Text(), stmt.Value, "")
	}
	f.vars[stmt.Name] = val
	f.consts[stmt.Name] = struct{}{}
	r.meter.Charge(eco.OpAssign, f.scale)
	return nil
}

func (r *runner) execAsk(stmt *ast.Ask, f *frame) *errz.Error {
	if err := f.checkAssign(stmt.Name, stmt); err != nil {
		return err
	}
	val, ok := r.inputs[stmt.Name]
	if !ok {
		return errz.Newf(errz.RuntimeError, "Missing input for '%s'", stmt.Name).
			WithLine(stmt.Line()).
			WithLineText(stmt.Text())
	}
	f.vars[stmt.Name] = val
	r.meter.Charge(eco.OpIO, f.scale)
	return nil
}

func (r *runner) execWarn(stmt *ast.Warn, f *frame) *errz.Error {
	val, err := r.evalText(stmt.Value, f)
	if err != nil {
		return exprError(err, stmt.Line(), stmt.Text(), stmt.Value, "")
	}
	r.warnings = append(r.warnings, val.Inspect())
	r.meter.Charge(eco.OpOther, f.scale)
	return nil
}

func (r *runner) execEcoTip(f *frame) *errz.Error {
	tip := eco.NextTip(r.meter.Total())
	r.meter.Charge(eco.OpOther, f.scale)
	return r.gov.appendOutput(&r.output, "ecoTip: "+tip)
}

func (r *runner) execSavePower(stmt *ast.SavePower, f *frame) *errz.Error {
	f.scale = eco.Scale(stmt.Level)
	level := strconv.FormatFloat(stmt.Level, 'f', -1, 64)
	r.warnings = append(r.warnings, "savePower applied: level "+level)
	return nil
}

func (r *runner) execFuncDef(stmt *ast.FuncDef, f *frame) *errz.Error {
	r.functions[stmt.Name] = &function{params: stmt.Params, body: stmt.Body}
	r.meter.Charge(eco.OpOther, f.scale)
	r.warnings = append(r.warnings, "func defined: "+stmt.Name)
	return nil
}

func (r *runner) execReturn(stmt *ast.Return, f *frame) (*returnValue, *errz.Error) {
	if stmt.Value == nil {
		return &returnValue{value: object.Nil}, nil
	}
	val, err := r.evalText(*stmt.Value, f)
	if err != nil {
		return nil, exprError(err, stmt.Line(), stmt.Text(), *stmt.Value, "")
	}
	return &returnValue{value: val}, nil
}

func (r *runner) execCall(ctx context.Context, stmt *ast.CallStmt, f *frame) *errz.Error {
	fn, ok := r.functions[stmt.Name]
	if !ok {
		return errz.Newf(errz.RuntimeError, "Unknown function '%s'", stmt.Name).
			WithLine(stmt.Line()).
			WithColumn(len("call ") + 1).
			WithLineText(stmt.Text())
	}
	if len(stmt.Args) != len(fn.params) {
		return errz.New(errz.RuntimeError, "Argument count mismatch").
			WithLine(stmt.Line()).
			WithColumn(argErrColumn(stmt.Text())).
			WithLineText(stmt.Text())
	}
	if stmt.Into != "" {
		if err := f.checkAssign(stmt.Into, stmt); err != nil {
			return err
		}
	}

	// Arguments evaluate in the caller's frame; the callee starts with
	// only its parameters and a snapshot of the caller's multiplier.
	callFrame := newFrame()
	callFrame.scale = f.scale
	for i, param := range fn.params {
		val, err := r.evalText(stmt.Args[i], f)
		if err != nil {
			return exprError(err, stmt.Line(), stmt.Text(), stmt.Args[i], "")
		}
		callFrame.vars[param] = val
	}

	if r.depth >= r.cfg.MaxCallDepth {
		return errz.New(errz.RuntimeError, "Call depth limit exceeded").
			WithLine(stmt.Line()).
			WithColumn(1).
			WithLineText(stmt.Text())
	}
	r.meter.Charge(eco.OpFuncCall, f.scale)
	r.depth++
	ret, err := r.execStmts(ctx, fn.body, callFrame)
	r.depth--
	if err != nil {
		return err
	}

	var result object.Object = object.Nil
	if ret != nil {
		result = ret.value
	}
	if stmt.Into != "" {
		f.vars[stmt.Into] = result
		return nil
	}
	if result != object.Nil {
		return r.gov.appendOutput(&r.output, result.Inspect())
	}
	return nil
}

// argErrColumn points at the argument list when the call has one.
func argErrColumn(text string) int {
	if idx := strings.Index(text, " with "); idx >= 0 {
		return idx + 1
	}
	return len("call ") + 1
}

// loopBudgetExceeded reports whether charging the next loop check would
// push the meter past the step budget.
func (r *runner) loopBudgetExceeded(f *frame) bool {
	next := int64(float64(r.meter.Cost(eco.OpLoopCheck)) * f.scale)
	return r.meter.Total()+next > r.cfg.MaxSteps
}

func (r *runner) execIf(ctx context.Context, stmt *ast.If, f *frame) (*returnValue, *errz.Error) {
	cond, err := r.evalText(stmt.Cond, f)
	if err != nil {
		return nil, exprError(err, stmt.Line(), stmt.Text(), stmt.Cond,
			"Fix the condition expression after 'if'.")
	}
	if cond.IsTruthy() {
		return r.execStmts(ctx, stmt.Then, f)
	}
	if stmt.ElifCond != nil {
		elifCond, err := r.evalText(*stmt.ElifCond, f)
		if err != nil {
			return nil, exprError(err, stmt.ElifLine, stmt.ElifText, *stmt.ElifCond,
				"Fix the elif condition.")
		}
		if elifCond.IsTruthy() {
			return r.execStmts(ctx, stmt.Elif, f)
		}
	}
	return r.execStmts(ctx, stmt.Else, f)
}

func (r *runner) execWhile(ctx context.Context, stmt *ast.While, f *frame) (*returnValue, *errz.Error) {
	var iterations int64
	for {
		cond, err := r.evalText(stmt.Cond, f)
		if err != nil {
			return nil, exprError(err, stmt.Line(), stmt.Text(), stmt.Cond,
				"Fix the while condition.")
		}
		if !cond.IsTruthy() {
			return nil, nil
		}
		if iterations >= r.cfg.MaxLoop {
			r.warnings = append(r.warnings,
				fmt.Sprintf("While iterations limited to %d", r.cfg.MaxLoop))
			return nil, nil
		}
		if r.loopBudgetExceeded(f) {
			r.warnings = append(r.warnings, "Step limit exceeded inside while; aborted")
			return nil, nil
		}
		r.meter.Charge(eco.OpLoopCheck, f.scale)
		ret, serr := r.execStmts(ctx, stmt.Body, f)
		if serr != nil {
			return nil, serr
		}
		if ret != nil {
			return ret, nil
		}
		iterations++
	}
}

func (r *runner) execFor(ctx context.Context, stmt *ast.For, f *frame) (*returnValue, *errz.Error) {
	start, err := r.evalNumber(stmt.Start, stmt, f)
	if err != nil {
		return nil, err
	}
	stop, err := r.evalNumber(stmt.Stop, stmt, f)
	if err != nil {
		return nil, err
	}
	step := 1.0
	if start > stop {
		step = -1.0
	}
	if stmt.Step != nil {
		step, err = r.evalNumber(*stmt.Step, stmt, f)
		if err != nil {
			return nil, err
		}
		if step == 0 {
			return nil, errz.New(errz.RuntimeError, "for step cannot be 0").
				WithLine(stmt.Line()).
				WithColumn(stmt.Step.Column).
				WithLineText(stmt.Text())
		}
	}
	if err := f.checkAssign(stmt.Var, stmt); err != nil {
		return nil, err
	}

	var iterations int64
	for cur := start; forContinues(cur, stop, step); cur += step {
		if iterations >= r.cfg.MaxLoop {
			r.warnings = append(r.warnings,
				fmt.Sprintf("For iterations limited to %d", r.cfg.MaxLoop))
			break
		}
		if r.loopBudgetExceeded(f) {
			r.warnings = append(r.warnings, "Step limit exceeded inside for; aborted")
			break
		}
		f.vars[stmt.Var] = loopValue(cur)
		r.meter.Charge(eco.OpLoopCheck, f.scale)
		ret, err := r.execStmts(ctx, stmt.Body, f)
		if err != nil {
			return nil, err
		}
		if ret != nil {
			return ret, nil
		}
		iterations++
	}
	return nil, nil
}

func forContinues(cur, stop, step float64) bool {
	if step > 0 {
		return cur <= stop
	}
	return cur >= stop
}

// loopValue snaps a near-integral float to an integer binding, so that
// counting loops bind ints while fractional steps stay floats.
func loopValue(cur float64) object.Object {
	truncated := math.Trunc(cur)
	if math.Abs(cur-truncated) < 1e-9 {
		return object.NewInt(int64(truncated))
	}
	return object.NewFloat(cur)
}

// evalNumber evaluates a loop-bound expression and coerces it to a
// float. Numeric strings coerce; anything else is invalid.
func (r *runner) evalNumber(text ast.ExprText, stmt ast.Stmt, f *frame) (float64, *errz.Error) {
	val, err := r.evalText(text, f)
	if err != nil {
		return 0, exprError(err, stmt.Line(), stmt.Text(), text, "")
	}
	switch val := val.(type) {
	case *object.Int:
		return float64(val.Value()), nil
	case *object.Float:
		return val.Value(), nil
	case *object.Bool:
		if val.Value() {
			return 1, nil
		}
		return 0, nil
	case *object.String:
		if f64, perr := strconv.ParseFloat(strings.TrimSpace(val.Value()), 64); perr == nil {
			return f64, nil
		}
	}
	return 0, errz.New(errz.RuntimeError, "Invalid numeric values in for").
		WithLine(stmt.Line()).
		WithColumn(text.Column).
		WithLineText(stmt.Text())
}

func (r *runner) execRepeat(ctx context.Context, stmt *ast.Repeat, f *frame) (*returnValue, *errz.Error) {
	count := stmt.Count
	if count > r.cfg.MaxLoop {
		r.warnings = append(r.warnings,
			fmt.Sprintf("Repeat count limited to %d", r.cfg.MaxLoop))
		count = r.cfg.MaxLoop
	}
	for n := int64(0); n < count; n++ {
		if r.loopBudgetExceeded(f) {
			r.warnings = append(r.warnings, "Step limit exceeded inside repeat; aborted")
			break
		}
		r.meter.Charge(eco.OpLoopCheck, f.scale)
		ret, err := r.execStmts(ctx, stmt.Body, f)
		if err != nil {
			return nil, err
		}
		if ret != nil {
			return ret, nil
		}
	}
	return nil, nil
}
