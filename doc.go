// Package toolcall exposes named, strongly-typed functions ("tools") to a
// JSON-driven caller, typically an LLM, and invokes them safely by name.
//
// # Overview
//
// LLMs produce tool calls as JSON. This package sits between that untyped
// payload and a typed Go function call: look up the tool in the registry,
// validate and coerce the arguments against the tool's JSON Schema (the same
// schema exported to the LLM), invoke the tool, and normalize the outcome to
// a three-kind error taxonomy (NotFound, BadArgs, Execution) that a caller
// can interpret mechanically. A panic inside a tool body never unwinds past
// the dispatch boundary.
//
// Pipeline: Schema (hand-built or derived from a struct) → New/NewTool →
// Registry → Handler.CallTool (envelope parse, validate, coerce, invoke) →
// result or structured failure.
//
// # Key concepts
//
//   - One schema, two duties: the schema sent to the LLM is the schema the
//     arguments are validated against.
//   - Complete diagnostics: a validation pass reports every violation it
//     found, not just the first, so the model can self-correct in one turn.
//   - Uniform invocation: a Thunk hides whether a tool body is synchronous or
//     suspends on I/O; the engine treats both identically.
//
// # Example
//
//	schema := toolcall.Object(
//		toolcall.Prop("user_id", toolcall.Integer().Describe("Numeric user id")),
//	)
//	tool, err := toolcall.New("get_user_info", "Get user info from database", schema,
//		func(_ context.Context, args toolcall.Args) (string, error) {
//			return lookupUser(args.Int("user_id")), nil
//		})
//	if err != nil { ... }
//	reg := toolcall.NewRegistry()
//	reg.MustRegister(tool)
//	h := toolcall.NewHandler(reg)
//	result, err := h.CallTool(ctx, payload)
package toolcall
