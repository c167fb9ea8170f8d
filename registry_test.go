package toolcall

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTool(t *testing.T, name string, schema *Schema) *Tool {
	t.Helper()
	tool, err := New(name, "Tool "+name, schema, nopThunk)
	require.NoError(t, err)
	return tool
}

func TestRegistry_RegisterLookup(t *testing.T) {
	tool := mustTool(t, "add", Object(Prop("a", Integer()), Prop("b", Integer())))
	reg := NewRegistry()
	require.NoError(t, reg.Register(tool))

	got, ok := reg.Lookup("add")
	require.True(t, ok)
	assert.Same(t, tool, got)

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_DuplicateRejected(t *testing.T) {
	first := mustTool(t, "same", Object())
	second := mustTool(t, "same", Object())
	reg := NewRegistry()
	require.NoError(t, reg.Register(first))

	err := reg.Register(second)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDuplicateTool)
	assert.Contains(t, err.Error(), "same")

	// The first registration stays in place.
	got, ok := reg.Lookup("same")
	require.True(t, ok)
	assert.Same(t, first, got)
}

func TestRegistry_RegisterNil(t *testing.T) {
	reg := NewRegistry()
	require.Error(t, reg.Register(nil))
}

func TestRegistry_MustRegisterPanicsOnDuplicate(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(mustTool(t, "a", Object()))
	assert.Panics(t, func() {
		reg.MustRegister(mustTool(t, "a", Object()))
	})
}

func TestRegistry_ToolsInRegistrationOrder(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(
		mustTool(t, "charlie", Object()),
		mustTool(t, "alpha", Object()),
		mustTool(t, "bravo", Object()),
	)
	var names []string
	for _, tool := range reg.Tools() {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{"charlie", "alpha", "bravo"}, names)
}

func TestRegistry_Manifest(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(mustTool(t, "get_user_info", Object(Prop("user_id", Integer()))))

	manifest, err := reg.Manifest()
	require.NoError(t, err)
	assert.JSONEq(t, `[
		{
			"type": "function",
			"function": {
				"name": "get_user_info",
				"description": "Tool get_user_info",
				"parameters": {
					"type": "object",
					"properties": {"user_id": {"type": "integer"}},
					"required": ["user_id"]
				}
			}
		}
	]`, string(manifest))
}

func TestRegistry_ManifestDeterministic(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister(
		mustTool(t, "zeta", Object(Prop("z", String()))),
		mustTool(t, "alpha", Object(Prop("a", Integer()))),
	)
	first, err := reg.Manifest()
	require.NoError(t, err)
	for n := 0; n < 10; n++ {
		again, err := reg.Manifest()
		require.NoError(t, err)
		assert.Equal(t, string(first), string(again))
	}

	var entries []manifestEntry
	require.NoError(t, json.Unmarshal(first, &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, "zeta", entries[0].Function.Name)
	assert.Equal(t, "alpha", entries[1].Function.Name)
}

func TestRegistry_ManifestEmpty(t *testing.T) {
	manifest, err := NewRegistry().Manifest()
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(manifest))
}
