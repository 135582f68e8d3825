package query

import "fmt"

// LexError reports an unrecognized character or unterminated string
type LexError struct {
	Pos  int    // byte offset in the input
	Char string // offending text
	Msg  string
}

func (e *LexError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("lex error at offset %d: %s", e.Pos, e.Msg)
	}
	return fmt.Sprintf("lex error at offset %d: unexpected character %q", e.Pos, e.Char)
}

// ParseError reports a grammar violation
type ParseError struct {
	Pos      int // byte offset of the offending token
	Expected string
	Found    string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: expected %s, got %s", e.Pos, e.Expected, e.Found)
}

// SourceError reports a FROM clause resolution failure
type SourceError struct {
	Source string
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("source %s: %v", e.Source, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// FilterError reports an invalid predicate (bad regex, operator applied to
// an incompatible field, malformed numeric literal)
type FilterError struct {
	Msg string
}

func (e *FilterError) Error() string {
	return "filter error: " + e.Msg
}

// ExecError reports a pipeline stage failure
type ExecError struct {
	Stage string
	Err   error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("execution failed at %s: %v", e.Stage, e.Err)
}

func (e *ExecError) Unwrap() error { return e.Err }

// OutputError reports a render or export failure
type OutputError struct {
	Target string
	Err    error
}

func (e *OutputError) Error() string {
	return fmt.Sprintf("output %s: %v", e.Target, e.Err)
}

func (e *OutputError) Unwrap() error { return e.Err }

// execErr wraps a stage failure, reusing an existing ExecError unchanged
func execErr(stage string, err error) error {
	if _, ok := err.(*ExecError); ok {
		return err
	}
	return &ExecError{Stage: stage, Err: err}
}
