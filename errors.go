package toolcall

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for the failure taxonomy. Use errors.Is to check; the
// structured types below carry the details.
var (
	ErrNotFound      = errors.New("tool not found")
	ErrBadArgs       = errors.New("invalid arguments")
	ErrExecution     = errors.New("execution failed")
	ErrDuplicateTool = errors.New("duplicate tool name")
)

// NotFoundError reports a call to a tool name with no registry entry.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("tool not found: %q", e.Name) }

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// BadArgsError reports a caller-input defect: schema violations, parse
// failures, or a malformed payload envelope. Violations holds every defect
// detected in a single validation pass, not just the first, so the caller
// (typically an LLM) gets complete diagnostics in one round trip.
type BadArgsError struct {
	Tool       string // empty when the envelope itself is malformed
	Violations []string
}

func (e *BadArgsError) Error() string {
	msg := strings.Join(e.Violations, "; ")
	if e.Tool == "" {
		return "invalid arguments: " + msg
	}
	return fmt.Sprintf("invalid arguments for tool %q: %s", e.Tool, msg)
}

func (e *BadArgsError) Unwrap() error { return ErrBadArgs }

// ExecutionError reports that the tool body itself failed: it returned an
// error or terminated abnormally (recovered panic). Err carries the cause.
type ExecutionError struct {
	Tool string
	Err  error
}

func (e *ExecutionError) Error() string {
	return fmt.Sprintf("tool %q execution failed: %v", e.Tool, e.Err)
}

func (e *ExecutionError) Unwrap() []error { return []error{ErrExecution, e.Err} }

// IsNotFound returns true if err is or wraps a NotFound failure.
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsBadArgs returns true if err is or wraps a BadArgs failure.
func IsBadArgs(err error) bool { return errors.Is(err, ErrBadArgs) }

// IsExecution returns true if err is or wraps an Execution failure.
func IsExecution(err error) bool { return errors.Is(err, ErrExecution) }

// badArgs builds a single-violation BadArgsError.
func badArgs(tool, format string, a ...any) *BadArgsError {
	return &BadArgsError{Tool: tool, Violations: []string{fmt.Sprintf(format, a...)}}
}

// panicError wraps a recovered panic value for ExecutionError.
type panicError struct{ p any }

func (e *panicError) Error() string {
	return "panic: " + fmt.Sprint(e.p)
}
