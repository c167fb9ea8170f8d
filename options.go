package toolcall

import (
	"context"
	"log/slog"
	"time"
)

// UnknownFieldPolicy decides what happens to argument fields the schema does
// not declare.
type UnknownFieldPolicy int

const (
	// RejectUnknown fails the call when the arguments object carries an
	// undeclared field. This is the default: malformed LLM output should
	// surface immediately instead of being half-accepted.
	RejectUnknown UnknownFieldPolicy = iota
	// IgnoreUnknown drops undeclared fields silently.
	IgnoreUnknown
)

type handlerOptions struct {
	timeout        time.Duration
	maxConcurrency int
	recoverPanics  bool
	unknownFields  UnknownFieldPolicy
	logger         *slog.Logger
	onBefore       func(context.Context, CallInfo)
	onAfter        func(context.Context, CallSummary)
}

// Option configures a Handler.
type Option func(*handlerOptions)

// WithDefaultTimeout sets the deadline applied to each invocation.
// Pass 0 to disable the deadline.
func WithDefaultTimeout(d time.Duration) Option {
	return func(o *handlerOptions) {
		o.timeout = d
	}
}

// WithMaxConcurrency limits concurrent invocations (semaphore).
// Pass 0 or negative for unlimited concurrency.
func WithMaxConcurrency(n int) Option {
	return func(o *handlerOptions) {
		o.maxConcurrency = n
	}
}

// WithRecoverPanics toggles panic capture at the invocation boundary
// (enabled by default). With capture off, a panicking tool unwinds into the
// caller; only disable it in tests that assert on panics.
func WithRecoverPanics(enable bool) Option {
	return func(o *handlerOptions) {
		o.recoverPanics = enable
	}
}

// WithUnknownFields sets the policy for undeclared argument fields.
func WithUnknownFields(p UnknownFieldPolicy) Option {
	return func(o *handlerOptions) {
		o.unknownFields = p
	}
}

// WithLogger enables start/end/error records for every invocation.
func WithLogger(logger *slog.Logger) Option {
	return func(o *handlerOptions) {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
	}
}

// WithOnBeforeCall sets a hook called right before each invocation.
func WithOnBeforeCall(fn func(context.Context, CallInfo)) Option {
	return func(o *handlerOptions) {
		o.onBefore = fn
	}
}

// WithOnAfterCall sets a hook called after each invocation finishes,
// success or failure.
func WithOnAfterCall(fn func(context.Context, CallSummary)) Option {
	return func(o *handlerOptions) {
		o.onAfter = fn
	}
}
