package toolcall

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// CallInfo is passed to the before-invocation hook.
type CallInfo struct {
	Tool string
	Args Args
}

// CallSummary is passed to the after-invocation hook when a call finishes,
// success or failure.
type CallSummary struct {
	Tool     string
	Result   string
	Err      error
	Duration time.Duration
}

// Handler is the dispatch engine: look up the tool, validate and coerce the
// arguments, invoke the thunk, and normalize the outcome to the
// NotFound/BadArgs/Execution taxonomy. A call is a single attempt; retry
// policy belongs to the caller. Handlers are safe for concurrent use;
// independent calls share no state.
type Handler struct {
	reg  *Registry
	sem  chan struct{}
	opts handlerOptions
}

// NewHandler creates a Handler over a registry. The defaults are a 30s
// invocation deadline, panic recovery on, unknown argument fields rejected,
// and unlimited concurrency.
func NewHandler(reg *Registry, opts ...Option) *Handler {
	o := handlerOptions{
		timeout:       30 * time.Second,
		recoverPanics: true,
		unknownFields: RejectUnknown,
	}
	for _, opt := range opts {
		opt(&o)
	}
	var sem chan struct{}
	if o.maxConcurrency > 0 {
		sem = make(chan struct{}, o.maxConcurrency)
	}
	return &Handler{reg: reg, sem: sem, opts: o}
}

// Registry returns the underlying registry.
func (h *Handler) Registry() *Registry { return h.reg }

// Manifest exports the registry's function-calling manifest.
func (h *Handler) Manifest() (json.RawMessage, error) { return h.reg.Manifest() }

// CallTool executes a structured function-call payload end to end:
// envelope parse → lookup → validation/coercion → invocation.
func (h *Handler) CallTool(ctx context.Context, payload []byte) (string, error) {
	call, err := ParseCall(payload)
	if err != nil {
		return "", err
	}
	tool, ok := h.reg.Lookup(call.Name)
	if !ok {
		return "", &NotFoundError{Name: call.Name}
	}
	args, err := coerceArguments(tool, call.Arguments, h.opts.unknownFields)
	if err != nil {
		return "", err
	}
	return h.invoke(ctx, tool, args)
}

// CallWithArgs executes a tool with raw positional string arguments matched
// to its parameters in declaration order. For direct in-process invocation;
// no wire format involved.
func (h *Handler) CallWithArgs(ctx context.Context, name string, raw []string) (string, error) {
	tool, ok := h.reg.Lookup(name)
	if !ok {
		return "", &NotFoundError{Name: name}
	}
	args, err := coercePositional(name, tool.schema, raw)
	if err != nil {
		return "", err
	}
	return h.invoke(ctx, tool, args)
}

// invoke runs the thunk with validated arguments. An abnormal termination
// inside the tool body is caught here and never unwinds past the engine.
func (h *Handler) invoke(ctx context.Context, t *Tool, args Args) (out string, err error) {
	// Cancellation before the thunk runs is the caller's own context error,
	// not an execution failure: no tool body ran.
	if aerr := h.acquire(ctx); aerr != nil {
		return "", aerr
	}
	defer h.release()

	if h.opts.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.opts.timeout)
		defer cancel()
	}

	if h.opts.onBefore != nil {
		h.opts.onBefore(ctx, CallInfo{Tool: t.name, Args: args})
	}
	if h.opts.logger != nil {
		h.opts.logger.Info("tool start", "tool", t.name)
	}

	start := time.Now()
	// The after hook is registered before the recover defer so the recover
	// runs first on panic and the hook observes the final error.
	defer func() {
		dur := time.Since(start)
		if h.opts.logger != nil {
			if err != nil {
				h.opts.logger.Error("tool error", "tool", t.name, "duration", dur, "error", err)
			} else {
				h.opts.logger.Info("tool end", "tool", t.name, "duration", dur)
			}
		}
		if h.opts.onAfter != nil {
			h.opts.onAfter(ctx, CallSummary{Tool: t.name, Result: out, Err: err, Duration: dur})
		}
	}()
	if h.opts.recoverPanics {
		defer func() {
			if p := recover(); p != nil {
				out = ""
				err = &ExecutionError{Tool: t.name, Err: &panicError{p: p}}
			}
		}()
	}

	out, err = t.invoke(ctx, args)
	if err != nil {
		return "", wrapToolError(t.name, err)
	}
	return out, nil
}

func (h *Handler) acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if h.sem == nil {
		return nil
	}
	select {
	case h.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Handler) release() {
	if h.sem != nil {
		<-h.sem
	}
}

// wrapToolError normalizes a tool-body error to ExecutionError.
func wrapToolError(name string, err error) error {
	var ee *ExecutionError
	if errors.As(err, &ee) {
		return err
	}
	return &ExecutionError{Tool: name, Err: err}
}
