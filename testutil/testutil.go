// Package testutil provides helpers for tests that exercise toolcall
// registries and handlers.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/skosovsky/toolcall"
)

// NewHandler builds a Handler over the given tools with settings suited to
// tests: generous timeout, panic recovery on.
func NewHandler(tb testing.TB, tools ...*toolcall.Tool) *toolcall.Handler {
	tb.Helper()
	reg := toolcall.NewRegistry()
	for _, t := range tools {
		if err := reg.Register(t); err != nil {
			tb.Fatalf("register tool: %v", err)
		}
	}
	return toolcall.NewHandler(reg,
		toolcall.WithDefaultTimeout(30*time.Second),
		toolcall.WithRecoverPanics(true),
	)
}

// EchoTool returns a tool with a single required "text" parameter that
// echoes it back. Handy as a registry filler.
func EchoTool(name string) *toolcall.Tool {
	t, err := toolcall.New(name, "Echo the input back",
		toolcall.Object(toolcall.Prop("text", toolcall.String())),
		func(_ context.Context, args toolcall.Args) (string, error) {
			return args.String("text"), nil
		})
	if err != nil {
		panic(err)
	}
	return t
}
