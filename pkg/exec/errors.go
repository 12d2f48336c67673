package exec

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies an ErrorInfo.
type ErrorKind string

const (
	// ErrUnexpected wraps an arbitrary failure raised while invoking an
	// instruction or plugin.
	ErrUnexpected ErrorKind = "UNEXPECTED_ERROR"
	// ErrCompilePartialSyntax parents the errors produced while compiling a
	// partial in safe mode.
	ErrCompilePartialSyntax ErrorKind = "COMPILE_PARTIAL_SYNTAX"
	// ErrPartialRecursionDepth reports partial nesting beyond the configured
	// maximum depth.
	ErrPartialRecursionDepth ErrorKind = "APPLY_PARTIAL_RECURSION_DEPTH"
	// ErrCodeLimitReached reports an instruction budget breach.
	ErrCodeLimitReached ErrorKind = "CODE_LIMIT_REACHED"
	// ErrTimeLimitReached reports a time budget breach.
	ErrTimeLimitReached ErrorKind = "TIME_LIMIT_REACHED"
	// ErrSyntax is used by compilers for source-level errors.
	ErrSyntax ErrorKind = "SYNTAX"
)

var (
	ErrUnknownFormatter       = errors.New("exec: unknown formatter")
	ErrUnknownPredicate       = errors.New("exec: unknown predicate")
	ErrNoCompiler             = errors.New("exec: no compiler configured")
	ErrUnsupportedInstruction = errors.New("exec: unsupported instruction")
	errPanic                  = errors.New("exec: panic")
)

// ErrorInfo is a structured diagnostic attributed to a source position.
type ErrorInfo struct {
	Kind     ErrorKind   `json:"kind"`
	Line     int         `json:"line"`
	Column   int         `json:"column"`
	Name     string      `json:"name,omitempty"`
	Data     any         `json:"data,omitempty"`
	Repr     string      `json:"repr,omitempty"`
	Children []ErrorInfo `json:"children,omitempty"`
}

// WithName returns a copy carrying name.
func (e ErrorInfo) WithName(name string) ErrorInfo {
	e.Name = name
	return e
}

// WithData returns a copy carrying data.
func (e ErrorInfo) WithData(data any) ErrorInfo {
	e.Data = data
	return e
}

// WithRepr returns a copy carrying the failing instruction's text.
func (e ErrorInfo) WithRepr(repr string) ErrorInfo {
	e.Repr = repr
	return e
}

// WithChildren returns a copy with nested errors appended.
func (e ErrorInfo) WithChildren(children []ErrorInfo) ErrorInfo {
	if len(children) == 0 {
		return e
	}
	merged := make([]ErrorInfo, 0, len(e.Children)+len(children))
	merged = append(merged, e.Children...)
	merged = append(merged, children...)
	e.Children = merged
	return e
}

// Message renders a human readable description without position.
func (e ErrorInfo) Message() string {
	switch e.Kind {
	case ErrUnexpected:
		return fmt.Sprintf("unexpected %s while executing %q: %v", e.Name, e.Repr, e.Data)
	case ErrCompilePartialSyntax:
		return fmt.Sprintf("partial %q has %d syntax error(s)", e.Name, len(e.Children))
	case ErrPartialRecursionDepth:
		return fmt.Sprintf("partial %q exceeded maximum recursion depth %v", e.Name, e.Data)
	case ErrCodeLimitReached:
		return fmt.Sprintf("instruction limit %v reached", e.Data)
	case ErrTimeLimitReached:
		return fmt.Sprintf("time budget %v exceeded", e.Data)
	case ErrSyntax:
		if e.Name != "" {
			return fmt.Sprintf("syntax error in %s: %v", e.Name, e.Data)
		}
		return fmt.Sprintf("syntax error: %v", e.Data)
	default:
		return fmt.Sprintf("%s: %s %v", e.Kind, e.Name, e.Data)
	}
}

// String renders the error with its position and nested children.
func (e ErrorInfo) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s line %d:%d: %s", e.Kind, e.Line, e.Column, e.Message())
	for _, child := range e.Children {
		b.WriteString("\n  ")
		b.WriteString(strings.ReplaceAll(child.String(), "\n", "\n  "))
	}
	return b.String()
}

// ExecuteError aborts a render. It is returned unchanged by the driver in both
// modes, which is how limiters and strict-mode checks force a stop.
type ExecuteError struct {
	Info  ErrorInfo
	Cause error
}

func (e *ExecuteError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("exec: %s: %v", e.Info.String(), e.Cause)
	}
	return "exec: " + e.Info.String()
}

func (e *ExecuteError) Unwrap() error {
	return e.Cause
}

// errorName derives a short type name for an arbitrary error, e.g.
// "*strconv.NumError" becomes "NumError".
func errorName(err error) string {
	if errors.Is(err, errPanic) {
		return "panic"
	}
	name := fmt.Sprintf("%T", err)
	name = strings.TrimLeft(name, "*")
	if idx := strings.LastIndexByte(name, '.'); idx >= 0 {
		name = name[idx+1:]
	}
	return name
}
