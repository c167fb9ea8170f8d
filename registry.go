package toolcall

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"
)

// Registry is the process-wide collection of tool descriptors. Build it once
// at startup and treat it as read-only afterwards: lookups and schema exports
// are safe to run concurrently once registration is done.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]*Tool
	order []string
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]*Tool)}
}

// Register inserts a descriptor. Registering a name twice is an error
// (reject, not last-write-wins) so a misconfigured toolset fails at startup
// instead of silently shadowing a tool.
func (r *Registry) Register(t *Tool) error {
	if t == nil {
		return errors.New("cannot register a nil tool")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[t.name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateTool, t.name)
	}
	r.tools[t.name] = t
	r.order = append(r.order, t.name)
	return nil
}

// MustRegister registers the given tools and panics on error. Meant for
// init-time wiring where a failure should abort the process.
func (r *Registry) MustRegister(tools ...*Tool) {
	for _, t := range tools {
		if err := r.Register(t); err != nil {
			panic(err)
		}
	}
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (*Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tools[name]
	return t, ok
}

// Len returns the number of registered tools.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tools)
}

// Tools returns all descriptors in registration order. The slice is a
// snapshot copy; descriptors themselves are immutable and shared.
func (r *Registry) Tools() []*Tool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Tool, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.tools[name])
	}
	return out
}

type manifestFunction struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Parameters  *Schema `json:"parameters"`
}

type manifestEntry struct {
	Type     string           `json:"type"`
	Function manifestFunction `json:"function"`
}

// Manifest exports the function-calling manifest consumed by LLM tooling: a
// JSON array with one {"type":"function","function":{...}} entry per tool,
// in registration order. Output is byte-stable across calls.
func (r *Registry) Manifest() (json.RawMessage, error) {
	tools := r.Tools()
	entries := make([]manifestEntry, 0, len(tools))
	for _, t := range tools {
		entries = append(entries, manifestEntry{
			Type: "function",
			Function: manifestFunction{
				Name:        t.name,
				Description: t.description,
				Parameters:  t.schema,
			},
		})
	}
	return json.Marshal(entries)
}
