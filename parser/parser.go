// Package parser turns source text into the syntax tree.
//
// Programs are parsed in a single pass before any execution: every
// statement becomes one of the closed set of ast.Stmt variants, blocks
// are matched to their "end", and structural problems (unknown
// statements, stray "end"/"else"/"elif", missing "end", malformed
// headers, invalid names) are reported immediately with the offending
// line. Expressions embedded in statements are kept as raw text and
// parsed when evaluated; ParseExpression handles those.
package parser

import (
	"strconv"
	"strings"

	"github.com/ecolang-io/ecolang/ast"
	"github.com/ecolang-io/ecolang/errz"
)

const DefaultMaxFuncParams = 3

// Parser parses a program line by line.
type Parser struct {
	lines         []string
	pos           int // 0-based index of the next unconsumed line
	maxFuncParams int
	funcDepth     int
}

// Option configures the Parser.
type Option func(*Parser)

// WithMaxFuncParams sets the maximum number of parameters a function
// definition may declare.
func WithMaxFuncParams(n int) Option {
	return func(p *Parser) {
		p.maxFuncParams = n
	}
}

// Parse parses source text into a Program.
func Parse(source string, opts ...Option) (*ast.Program, *errz.Error) {
	p := &Parser{
		lines:         strings.Split(source, "\n"),
		maxFuncParams: DefaultMaxFuncParams,
	}
	for _, opt := range opts {
		opt(p)
	}
	stmts, _, err := p.parseStmts(blockTop, nil)
	if err != nil {
		return nil, err
	}
	return &ast.Program{Statements: stmts}, nil
}

// blockKind tracks which terminators are legal for the block being parsed.
type blockKind int

const (
	blockTop  blockKind = iota // whole program; ends at EOF
	blockThen                  // if branch; ends at elif/else/end
	blockElif                  // elif branch; ends at else/end
	blockElse                  // else branch; ends at end
	blockBody                  // while/for/repeat/func body; ends at end
)

// opener identifies the statement that opened the current block, for
// missing-end diagnostics.
type opener struct {
	keyword string
	line    int
	text    string
}

// terminator describes how a block was closed.
type terminator struct {
	kind string // "end", "else", or "elif"
	line int
	text string // trimmed terminator line, carrying the elif condition
}

// parseStmts parses statements until the block's terminator or EOF.
func (p *Parser) parseStmts(kind blockKind, open *opener) ([]ast.Stmt, terminator, *errz.Error) {
	var stmts []ast.Stmt
	for p.pos < len(p.lines) {
		lineNum := p.pos + 1
		line := strings.TrimSpace(p.lines[p.pos])
		if line == "" || strings.HasPrefix(line, "#") {
			p.pos++
			continue
		}
		word := firstWord(line)

		switch word {
		case "end":
			if kind == blockTop {
				return nil, terminator{}, syntaxError(lineNum, line, "Unexpected 'end'").
					WithColumn(1).
					WithHint("Remove extra 'end' or match it with if/repeat/func.")
			}
			p.pos++
			return stmts, terminator{kind: "end", line: lineNum, text: line}, nil
		case "else":
			switch kind {
			case blockThen, blockElif:
				p.pos++
				return stmts, terminator{kind: "else", line: lineNum, text: line}, nil
			}
			return nil, terminator{}, syntaxError(lineNum, line, "'else' without matching 'if'").
				WithColumn(1).
				WithHint("Place 'else' inside an if..end block.")
		case "elif":
			switch kind {
			case blockThen:
				p.pos++
				return stmts, terminator{kind: "elif", line: lineNum, text: line}, nil
			case blockElif:
				return nil, terminator{}, syntaxError(lineNum, line, "Multiple 'elif' branches not supported").
					WithColumn(1).
					WithHint("Only one 'elif' is allowed; nest another if for more branches.")
			case blockElse:
				return nil, terminator{}, syntaxError(lineNum, line, "'elif' after 'else'").
					WithColumn(1).
					WithHint("Move the 'elif' branch before 'else'.")
			}
			return nil, terminator{}, syntaxError(lineNum, line, "'elif' without matching 'if'").
				WithColumn(1).
				WithHint("Place 'elif' inside an if..end block.")
		}

		stmt, err := p.parseStmt(word, line, lineNum)
		if err != nil {
			return nil, terminator{}, err
		}
		stmts = append(stmts, stmt)
	}
	if kind != blockTop {
		return nil, terminator{}, syntaxError(open.line, open.text, "Missing end for block").
			WithColumn(1).
			WithHint("Add a matching 'end' for this '" + open.keyword + "'.")
	}
	return stmts, terminator{kind: "eof"}, nil
}

// parseStmt parses the single- or multi-line statement starting at the
// current line. Block statements consume their body lines.
func (p *Parser) parseStmt(word, line string, lineNum int) (ast.Stmt, *errz.Error) {
	switch word {
	case "say":
		p.pos++
		return p.parseSay(line, lineNum)
	case "let":
		p.pos++
		return p.parseLet(line, lineNum)
	case "const":
		p.pos++
		return p.parseConst(line, lineNum)
	case "ask":
		p.pos++
		return p.parseAsk(line, lineNum)
	case "warn":
		p.pos++
		return p.parseWarn(line, lineNum)
	case "ecoTip":
		if line != "ecoTip" {
			return nil, unknownStatement(lineNum, line)
		}
		p.pos++
		return &ast.EcoTip{StmtBase: ast.NewStmtBase(lineNum, line)}, nil
	case "savePower":
		p.pos++
		return p.parseSavePower(line, lineNum)
	case "func":
		p.pos++
		return p.parseFunc(line, lineNum)
	case "call":
		p.pos++
		return p.parseCallStmt(line, lineNum)
	case "return":
		p.pos++
		return p.parseReturn(line, lineNum)
	case "if":
		p.pos++
		return p.parseIf(line, lineNum)
	case "while":
		p.pos++
		return p.parseWhile(line, lineNum)
	case "for":
		p.pos++
		return p.parseFor(line, lineNum)
	case "repeat":
		p.pos++
		return p.parseRepeat(line, lineNum)
	}
	return nil, unknownStatement(lineNum, line)
}

func unknownStatement(lineNum int, line string) *errz.Error {
	return errz.Newf(errz.SyntaxError, "Unknown statement: %s", line).
		WithLine(lineNum).
		WithColumn(1).
		WithLineText(line).
		WithHint("Check the command name or syntax.")
}

func (p *Parser) parseSay(line string, lineNum int) (ast.Stmt, *errz.Error) {
	rest := exprAt(line, len("say"), len(line))
	if rest.Text == "" {
		return nil, syntaxError(lineNum, line, "Missing expression after 'say'").
			WithColumn(1).
			WithHint("Use: say <expr>")
	}
	return &ast.Say{StmtBase: ast.NewStmtBase(lineNum, line), Value: rest}, nil
}

func (p *Parser) parseWarn(line string, lineNum int) (ast.Stmt, *errz.Error) {
	rest := exprAt(line, len("warn"), len(line))
	if rest.Text == "" {
		return nil, syntaxError(lineNum, line, "Missing expression after 'warn'").
			WithColumn(1).
			WithHint("Use: warn <expr>")
	}
	return &ast.Warn{StmtBase: ast.NewStmtBase(lineNum, line), Value: rest}, nil
}

func (p *Parser) parseLet(line string, lineNum int) (ast.Stmt, *errz.Error) {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return nil, syntaxError(lineNum, line, "Expected '=' in let statement").
			WithHint("Use: let name = expr")
	}
	name := strings.TrimSpace(line[len("let"):eq])
	if err := checkName(name, lineNum, line, "Invalid identifier in let",
		"Identifiers must be letters/digits/_ and not start with a digit."); err != nil {
		return nil, err
	}
	return &ast.Let{
		StmtBase: ast.NewStmtBase(lineNum, line),
		Name:     name,
		Value:    exprAt(line, eq+1, len(line)),
	}, nil
}

func (p *Parser) parseConst(line string, lineNum int) (ast.Stmt, *errz.Error) {
	eq := strings.Index(line, "=")
	if eq < 0 {
		return nil, syntaxError(lineNum, line, "Expected '=' in const").
			WithHint("Use: const NAME = expr")
	}
	name := strings.TrimSpace(line[len("const"):eq])
	if err := checkName(name, lineNum, line, "Invalid const name", ""); err != nil {
		return nil, err
	}
	return &ast.Const{
		StmtBase: ast.NewStmtBase(lineNum, line),
		Name:     name,
		Value:    exprAt(line, eq+1, len(line)),
	}, nil
}

func (p *Parser) parseAsk(line string, lineNum int) (ast.Stmt, *errz.Error) {
	name := strings.TrimSpace(line[len("ask"):])
	if err := checkName(name, lineNum, line, "Invalid identifier in ask", "Use: ask name"); err != nil {
		return nil, err
	}
	return &ast.Ask{StmtBase: ast.NewStmtBase(lineNum, line), Name: name}, nil
}

func (p *Parser) parseSavePower(line string, lineNum int) (ast.Stmt, *errz.Error) {
	val := strings.TrimSpace(line[len("savePower"):])
	lvl, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return nil, syntaxError(lineNum, line, "Invalid number for savePower").
			WithHint("Use: savePower <number>")
	}
	return &ast.SavePower{StmtBase: ast.NewStmtBase(lineNum, line), Level: lvl}, nil
}

func (p *Parser) parseReturn(line string, lineNum int) (ast.Stmt, *errz.Error) {
	if p.funcDepth == 0 {
		return nil, syntaxError(lineNum, line, "'return' outside function").
			WithColumn(1).
			WithHint("Use 'return' inside a func..end block.")
	}
	stmt := &ast.Return{StmtBase: ast.NewStmtBase(lineNum, line)}
	if rest := exprAt(line, len("return"), len(line)); rest.Text != "" {
		stmt.Value = &rest
	}
	return stmt, nil
}

func (p *Parser) parseFunc(line string, lineNum int) (ast.Stmt, *errz.Error) {
	parts := strings.Fields(line[len("func"):])
	if len(parts) == 0 {
		return nil, syntaxError(lineNum, line, "Missing function name").
			WithColumn(1).
			WithHint("Use: func name [args]")
	}
	name := parts[0]
	if !isIdentifier(name) {
		return nil, syntaxError(lineNum, line, "Invalid function name").
			WithColumn(len("func ") + 1)
	}
	params := parts[1:]
	if len(params) > p.maxFuncParams {
		return nil, syntaxError(lineNum, line,
			"Too many params (max "+strconv.Itoa(p.maxFuncParams)+")").
			WithColumn(1)
	}
	for _, param := range params {
		if err := checkName(param, lineNum, line, "Invalid parameter name '"+param+"'", ""); err != nil {
			return nil, err
		}
	}
	p.funcDepth++
	body, _, err := p.parseStmts(blockBody, &opener{keyword: "func", line: lineNum, text: line})
	p.funcDepth--
	if err != nil {
		return nil, err
	}
	return &ast.FuncDef{
		StmtBase: ast.NewStmtBase(lineNum, line),
		Name:     name,
		Params:   params,
		Body:     body,
	}, nil
}

func (p *Parser) parseCallStmt(line string, lineNum int) (ast.Stmt, *errz.Error) {
	rest := strings.TrimSpace(line[len("call"):])
	if rest == "" {
		return nil, syntaxError(lineNum, line, "Missing function name").WithColumn(1)
	}

	main := line
	into := ""
	if idx := strings.Index(line, " into "); idx >= 0 {
		main = line[:idx]
		into = strings.TrimSpace(line[idx+len(" into "):])
		if err := checkName(into, lineNum, line, "Invalid target after 'into'", ""); err != nil {
			return nil, err
		}
	}

	var args []ast.ExprText
	nameEnd := len(main)
	if idx := strings.Index(main, " with "); idx >= 0 {
		nameEnd = idx
		args = splitArgs(main, idx+len(" with "))
	}
	name := strings.TrimSpace(main[len("call"):nameEnd])
	if !isIdentifier(name) {
		return nil, syntaxError(lineNum, line, "Invalid function name").
			WithColumn(len("call ") + 1)
	}
	return &ast.CallStmt{
		StmtBase: ast.NewStmtBase(lineNum, line),
		Name:     name,
		Args:     args,
		Into:     into,
	}, nil
}

// splitArgs splits a comma-separated argument list starting at the given
// offset, preserving each argument's column. Empty segments are dropped.
func splitArgs(line string, from int) []ast.ExprText {
	var args []ast.ExprText
	start := from
	for i := from; i <= len(line); i++ {
		if i == len(line) || line[i] == ',' {
			arg := exprAt(line, start, i)
			if arg.Text != "" {
				args = append(args, arg)
			}
			start = i + 1
		}
	}
	return args
}

func (p *Parser) parseIf(line string, lineNum int) (ast.Stmt, *errz.Error) {
	cond, err := thenHeader(line, lineNum, "if")
	if err != nil {
		return nil, err
	}
	stmt := &ast.If{StmtBase: ast.NewStmtBase(lineNum, line), Cond: cond}
	open := &opener{keyword: "if", line: lineNum, text: line}

	then, term, err := p.parseStmts(blockThen, open)
	if err != nil {
		return nil, err
	}
	stmt.Then = then

	if term.kind == "elif" {
		elifCond, err := thenHeader(term.text, term.line, "elif")
		if err != nil {
			return nil, err
		}
		stmt.ElifCond = &elifCond
		stmt.ElifLine = term.line
		stmt.ElifText = term.text
		elifStmts, elifTerm, err := p.parseStmts(blockElif, open)
		if err != nil {
			return nil, err
		}
		stmt.Elif = elifStmts
		term = elifTerm
	}

	if term.kind == "else" {
		elseStmts, _, err := p.parseStmts(blockElse, open)
		if err != nil {
			return nil, err
		}
		stmt.Else = elseStmts
	}
	return stmt, nil
}

func (p *Parser) parseWhile(line string, lineNum int) (ast.Stmt, *errz.Error) {
	cond, err := thenHeader(line, lineNum, "while")
	if err != nil {
		return nil, err
	}
	body, _, perr := p.parseStmts(blockBody, &opener{keyword: "while", line: lineNum, text: line})
	if perr != nil {
		return nil, perr
	}
	return &ast.While{StmtBase: ast.NewStmtBase(lineNum, line), Cond: cond, Body: body}, nil
}

// thenHeader extracts the condition from a "<kw> <condition> then" header.
func thenHeader(line string, lineNum int, keyword string) (ast.ExprText, *errz.Error) {
	if !strings.HasSuffix(line, " then") {
		return ast.ExprText{}, syntaxError(lineNum, line,
			"Expected 'then' after "+keyword+" condition").
			WithColumn(len(line) + 1).
			WithHint("Write: " + keyword + " <condition> then")
	}
	return exprAt(line, len(keyword), len(line)-len(" then")), nil
}

func (p *Parser) parseFor(line string, lineNum int) (ast.Stmt, *errz.Error) {
	body := line[len("for"):]
	eq := strings.Index(body, "=")
	if eq < 0 || !strings.Contains(body, " to ") {
		return nil, syntaxError(lineNum, line, "Use: for name = start to end [step s]").
			WithColumn(1)
	}
	varname := strings.TrimSpace(body[:eq])
	if err := checkName(varname, lineNum, line, "Invalid loop variable name", ""); err != nil {
		return nil, err
	}

	// Offsets below are relative to the whole line.
	restStart := len("for") + eq + 1
	rangeEnd := len(line)
	var step *ast.ExprText
	if idx := strings.Index(line[restStart:], " step "); idx >= 0 {
		rangeEnd = restStart + idx
		s := exprAt(line, restStart+idx+len(" step "), len(line))
		step = &s
	}
	toIdx := strings.Index(line[restStart:rangeEnd], " to ")
	if toIdx < 0 {
		return nil, syntaxError(lineNum, line, "Missing 'to' in for range").WithColumn(1)
	}
	start := exprAt(line, restStart, restStart+toIdx)
	stop := exprAt(line, restStart+toIdx+len(" to "), rangeEnd)

	stmts, _, err := p.parseStmts(blockBody, &opener{keyword: "for", line: lineNum, text: line})
	if err != nil {
		return nil, err
	}
	return &ast.For{
		StmtBase: ast.NewStmtBase(lineNum, line),
		Var:      varname,
		Start:    start,
		Stop:     stop,
		Step:     step,
		Body:     stmts,
	}, nil
}

func (p *Parser) parseRepeat(line string, lineNum int) (ast.Stmt, *errz.Error) {
	if !strings.HasSuffix(line, " times") {
		return nil, syntaxError(lineNum, line, "Expected 'times' at end of repeat").
			WithColumn(len(line) + 1).
			WithHint("Write: repeat <number> times")
	}
	mid := strings.TrimSpace(line[len("repeat") : len(line)-len(" times")])
	count, err := strconv.ParseInt(mid, 10, 64)
	if err != nil {
		return nil, syntaxError(lineNum, line, "Invalid repeat count").
			WithColumn(len("repeat ") + 1).
			WithHint("Use: repeat <number> times")
	}
	body, _, perr := p.parseStmts(blockBody, &opener{keyword: "repeat", line: lineNum, text: line})
	if perr != nil {
		return nil, perr
	}
	return &ast.Repeat{StmtBase: ast.NewStmtBase(lineNum, line), Count: count, Body: body}, nil
}

// exprAt returns the ExprText spanning line[from:to], trimmed, with its
// 1-based column on the line.
func exprAt(line string, from, to int) ast.ExprText {
	if to > len(line) {
		to = len(line)
	}
	if from > to {
		from = to
	}
	seg := line[from:to]
	trimmed := strings.TrimSpace(seg)
	lead := len(seg) - len(strings.TrimLeft(seg, " \t"))
	return ast.ExprText{Text: trimmed, Column: from + lead + 1}
}

func firstWord(line string) string {
	if fields := strings.Fields(line); len(fields) > 0 {
		return fields[0]
	}
	return ""
}

// checkName validates a user-bindable identifier. Keywords and names
// reserved for runtime signals (leading underscore) are rejected.
func checkName(name string, lineNum int, line, message, hint string) *errz.Error {
	if strings.HasPrefix(name, "_") {
		return syntaxError(lineNum, line, "Reserved name '"+name+"'").
			WithHint("Names starting with '_' are reserved.")
	}
	if !isIdentifier(name) || isKeyword(name) {
		err := syntaxError(lineNum, line, message)
		if hint != "" {
			err.WithHint(hint)
		}
		return err
	}
	return nil
}

func isKeyword(name string) bool {
	switch name {
	case "and", "or", "not", "true", "false":
		return true
	}
	return false
}

func isIdentifier(name string) bool {
	if name == "" {
		return false
	}
	for i, r := range name {
		if r == '_' || isLetter(r) {
			continue
		}
		if i > 0 && r >= '0' && r <= '9' {
			continue
		}
		return false
	}
	return true
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127
}
