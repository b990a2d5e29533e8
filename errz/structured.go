// Package errz defines the structured error type shared across the runtime.
//
// Errors cross the public boundary as values, never as panics. Each error
// carries a stable code, a message, and as much source context as the
// failing layer knew: the 1-based line, the 1-based column, the offending
// line's text, and an optional hint. Outer layers enrich errors as they
// unwind, but enrichment only fills missing fields; populated fields are
// never overwritten.
package errz

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// Code classifies an error.
type Code string

const (
	// SyntaxError indicates a malformed statement or block structure.
	SyntaxError Code = "SYNTAX_ERROR"
	// RuntimeError indicates an expression or statement failed during execution.
	RuntimeError Code = "RUNTIME_ERROR"
	// Timeout indicates the wall-clock budget was exhausted.
	Timeout Code = "TIMEOUT"
	// StepLimit indicates the statement budget was exhausted.
	StepLimit Code = "STEP_LIMIT"
	// OutputLimit indicates the output character budget was exhausted.
	OutputLimit Code = "OUTPUT_LIMIT"
	// SubprocessError indicates the sandbox worker could not be started.
	SubprocessError Code = "SUBPROCESS_ERROR"
	// SubprocessFailed indicates the sandbox worker started but failed.
	SubprocessFailed Code = "SUBPROCESS_FAILED"
	// Internal indicates a defect in the runtime itself.
	Internal Code = "INTERNAL"
)

// Error is a structured runtime error with source context.
type Error struct {
	Code     Code
	Message  string
	Line     int    // 1-based; 0 when unknown
	Column   int    // 1-based; 0 when unknown
	LineText string // text of the offending line
	Hint     string
}

// New creates an Error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	if e.Column == 0 {
		return fmt.Sprintf("%s: %s (line %d)", e.Code, e.Message, e.Line)
	}
	return fmt.Sprintf("%s: %s (%d:%d)", e.Code, e.Message, e.Line, e.Column)
}

// Is reports whether target matches this error. Two errors match when their
// codes are equal, which lets callers test categories with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Code == e.Code
}

// IsFatal reports whether the error aborts the run. Every code in the
// taxonomy is fatal; the method exists so call sites read clearly.
func (e *Error) IsFatal() bool {
	return true
}

// WithLine fills the line number if it is not already set.
func (e *Error) WithLine(line int) *Error {
	if e.Line == 0 {
		e.Line = line
	}
	return e
}

// WithColumn fills the column number if it is not already set.
func (e *Error) WithColumn(column int) *Error {
	if e.Column == 0 {
		e.Column = column
	}
	return e
}

// WithLineText fills the offending line's text if it is not already set.
func (e *Error) WithLineText(text string) *Error {
	if e.LineText == "" {
		e.LineText = text
	}
	return e
}

// WithHint fills the hint if one is not already set.
func (e *Error) WithHint(hint string) *Error {
	if e.Hint == "" {
		e.Hint = hint
	}
	return e
}

// FriendlyErrorMessage returns a human-friendly rendering with a source
// snippet and a caret marking the column when known.
func (e *Error) FriendlyErrorMessage() string {
	var msg bytes.Buffer
	if e.Line == 0 {
		msg.WriteString(fmt.Sprintf("%s: %s\n", e.Code, e.Message))
	} else if e.Column == 0 {
		msg.WriteString(fmt.Sprintf("%s: %s (line %d)\n", e.Code, e.Message, e.Line))
	} else {
		msg.WriteString(fmt.Sprintf("%s: %s (%d:%d)\n", e.Code, e.Message, e.Line, e.Column))
	}
	if e.LineText != "" {
		msg.WriteString(" | ")
		msg.WriteString(e.LineText)
		msg.WriteString("\n")
		if e.Column > 0 && e.Column <= len(e.LineText)+1 {
			msg.WriteString(" | ")
			msg.WriteString(strings.Repeat(" ", e.Column-1))
			msg.WriteString("^\n")
		}
	}
	if e.Hint != "" {
		msg.WriteString("hint: ")
		msg.WriteString(e.Hint)
		msg.WriteString("\n")
	}
	return msg.String()
}

type wireContext struct {
	LineText string `json:"line_text"`
}

type wireError struct {
	Code    Code         `json:"code"`
	Message string       `json:"message"`
	Line    *int         `json:"line"`
	Column  *int         `json:"column"`
	Context *wireContext `json:"context,omitempty"`
	Hint    string       `json:"hint,omitempty"`
}

// MarshalJSON renders the error in its wire shape: unknown line/column are
// null and the line text nests under "context".
func (e *Error) MarshalJSON() ([]byte, error) {
	w := wireError{Code: e.Code, Message: e.Message, Hint: e.Hint}
	if e.Line > 0 {
		w.Line = &e.Line
	}
	if e.Column > 0 {
		w.Column = &e.Column
	}
	if e.LineText != "" {
		w.Context = &wireContext{LineText: e.LineText}
	}
	return json.Marshal(w)
}

// UnmarshalJSON parses the wire shape produced by MarshalJSON.
func (e *Error) UnmarshalJSON(data []byte) error {
	var w wireError
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	e.Code = w.Code
	e.Message = w.Message
	e.Hint = w.Hint
	if w.Line != nil {
		e.Line = *w.Line
	}
	if w.Column != nil {
		e.Column = *w.Column
	}
	if w.Context != nil {
		e.LineText = w.Context.LineText
	}
	return nil
}
