package toolcall

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotFoundError(t *testing.T) {
	err := &NotFoundError{Name: "does_not_exist"}
	assert.Equal(t, `tool not found: "does_not_exist"`, err.Error())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadArgsError(t *testing.T) {
	tests := []struct {
		name   string
		err    *BadArgsError
		expect string
	}{
		{
			"with tool",
			&BadArgsError{Tool: "add", Violations: []string{"missing required parameter \"a\""}},
			`invalid arguments for tool "add": missing required parameter "a"`,
		},
		{
			"envelope defect",
			&BadArgsError{Violations: []string{"payload must be a JSON object"}},
			"invalid arguments: payload must be a JSON object",
		},
		{
			"multiple violations joined",
			&BadArgsError{Tool: "add", Violations: []string{"first", "second"}},
			`invalid arguments for tool "add": first; second`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, tt.err.Error())
			assert.ErrorIs(t, tt.err, ErrBadArgs)
		})
	}
}

func TestExecutionError(t *testing.T) {
	cause := errors.New("db connection refused")
	err := &ExecutionError{Tool: "lookup", Err: cause}
	assert.Equal(t, `tool "lookup" execution failed: db connection refused`, err.Error())
	assert.ErrorIs(t, err, ErrExecution)
	assert.ErrorIs(t, err, cause)
}

func TestTaxonomyHelpers(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name      string
		err       error
		notFound  bool
		badArgs   bool
		execution bool
	}{
		{"NotFoundError", &NotFoundError{Name: "x"}, true, false, false},
		{"BadArgsError", &BadArgsError{Tool: "x", Violations: []string{"v"}}, false, true, false},
		{"ExecutionError", &ExecutionError{Tool: "x", Err: cause}, false, false, true},
		{"wrapped NotFound", wrapErr{err: &NotFoundError{Name: "y"}}, true, false, false},
		{"wrapped Execution", wrapErr{err: &ExecutionError{Tool: "y", Err: cause}}, false, false, true},
		{"unrelated", cause, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.notFound, IsNotFound(tt.err), "IsNotFound")
			assert.Equal(t, tt.badArgs, IsBadArgs(tt.err), "IsBadArgs")
			assert.Equal(t, tt.execution, IsExecution(tt.err), "IsExecution")
		})
	}
}

func TestPanicError(t *testing.T) {
	require.Equal(t, "panic: oops", (&panicError{p: "oops"}).Error())
}

type wrapErr struct {
	err error
}

func (e wrapErr) Error() string { return "wrap: " + e.err.Error() }
func (e wrapErr) Unwrap() error { return e.err }
