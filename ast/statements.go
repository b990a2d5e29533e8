package ast

// StmtBase carries the source coordinates every statement has. It is
// embedded in every statement variant.
type StmtBase struct {
	LineNum  int    // 1-based line number
	LineText string // trimmed source text of the line
}

func (s StmtBase) stmtNode() {}

func (s StmtBase) Line() int { return s.LineNum }

func (s StmtBase) Text() string { return s.LineText }

func (s StmtBase) String() string { return s.LineText }

// NewStmtBase is used by the parser to fill statement coordinates.
func NewStmtBase(line int, text string) StmtBase {
	return StmtBase{LineNum: line, LineText: text}
}

// Say prints the rendering of an expression to the output.
type Say struct {
	StmtBase
	Value ExprText
}

// Let binds or rebinds a variable.
type Let struct {
	StmtBase
	Name  string
	Value ExprText
}

// Const binds an immutable variable.
type Const struct {
	StmtBase
	Name  string
	Value ExprText
}

// Ask binds a variable from the run's inputs.
type Ask struct {
	StmtBase
	Name string
}

// Warn appends the rendering of an expression to the warnings.
type Warn struct {
	StmtBase
	Value ExprText
}

// EcoTip emits the next rotating eco tip to the output.
type EcoTip struct {
	StmtBase
}

// SavePower lowers the op-cost multiplier for subsequent statements.
type SavePower struct {
	StmtBase
	Level float64
}

// FuncDef registers a named function with up to the configured maximum
// number of parameters.
type FuncDef struct {
	StmtBase
	Name   string
	Params []string
	Body   []Stmt
}

// CallStmt invokes a defined function, optionally binding its return
// value to a variable.
type CallStmt struct {
	StmtBase
	Name string
	Args []ExprText
	Into string // variable to bind the result to; empty to print it
}

// Return exits a function body, optionally with a value. The parser only
// produces Return inside function bodies.
type Return struct {
	StmtBase
	Value *ExprText // nil for a bare return
}

// If executes one of up to three branches. At most one elif is allowed.
type If struct {
	StmtBase
	Cond     ExprText
	Then     []Stmt
	ElifCond *ExprText // nil when there is no elif branch
	ElifLine int       // 1-based line of the elif header
	ElifText string    // trimmed text of the elif header
	Elif     []Stmt
	Else     []Stmt
}

// While loops over its body while the condition holds.
type While struct {
	StmtBase
	Cond ExprText
	Body []Stmt
}

// For loops a variable from start to stop inclusive by step.
type For struct {
	StmtBase
	Var   string
	Start ExprText
	Stop  ExprText
	Step  *ExprText // nil to infer +1 or -1 from the bounds
	Body  []Stmt
}

// Repeat executes its body a fixed literal number of times.
type Repeat struct {
	StmtBase
	Count int64
	Body  []Stmt
}
