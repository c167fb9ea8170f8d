package toolcall

import (
	"context"
	"errors"
	"fmt"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Thunk is the uniform invocation bound to a tool. It receives arguments that
// already passed schema validation and coercion, and returns the tool's
// result text or an error. A synchronous body simply returns; a suspending
// body blocks on ctx-aware work. The dispatch engine never distinguishes the
// two.
type Thunk func(ctx context.Context, args Args) (string, error)

// Tool is an immutable descriptor: name, description, parameter schema, and
// the invocation thunk. Build one with New (or NewTool for the reflective
// path), register it, and never mutate it afterwards. The thunk is owned by
// the descriptor and is only reachable through a Handler.
type Tool struct {
	name        string
	description string
	schema      *Schema
	fn          Thunk

	// compiled validators, built once at construction: lax honors the schema
	// as declared, strict additionally rejects undeclared argument fields.
	compiledLax    *jsonschema.Schema
	compiledStrict *jsonschema.Schema
}

// New builds a Tool descriptor. The schema must be an object (nil means an
// empty argument object). Construction fails on an empty name, nil thunk,
// duplicate parameter names, or a default literal that does not match its
// declared kind, so a misdeclared tool is rejected at startup rather than at
// call time.
func New(name, description string, schema *Schema, fn Thunk) (*Tool, error) {
	if name == "" {
		return nil, errors.New("tool name must not be empty")
	}
	if fn == nil {
		return nil, fmt.Errorf("tool %q: thunk must not be nil", name)
	}
	if schema == nil {
		schema = Object()
	}
	if schema.kind != KindObject {
		return nil, fmt.Errorf("tool %q: parameter schema must be an object, got %s", name, schema.kind)
	}
	if err := schema.check(); err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}
	lax, err := compileSchema(schema, false)
	if err != nil {
		return nil, fmt.Errorf("tool %q: compile schema: %w", name, err)
	}
	strict, err := compileSchema(schema, true)
	if err != nil {
		return nil, fmt.Errorf("tool %q: compile strict schema: %w", name, err)
	}
	return &Tool{
		name:           name,
		description:    description,
		schema:         schema,
		fn:             fn,
		compiledLax:    lax,
		compiledStrict: strict,
	}, nil
}

// Name returns the tool's unique identifier.
func (t *Tool) Name() string { return t.name }

// Description returns the tool's human-readable description.
func (t *Tool) Description() string { return t.description }

// Schema returns the parameter schema for introspection.
func (t *Tool) Schema() *Schema { return t.schema }

// invoke runs the thunk with validated arguments. Dispatch engine only; the
// descriptor performs no validation itself.
func (t *Tool) invoke(ctx context.Context, args Args) (string, error) {
	return t.fn(ctx, args)
}
