package toolcall

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCall(t *testing.T) {
	t.Run("well formed", func(t *testing.T) {
		call, err := ParseCall([]byte(`{"type":"function","function":{"name":"add","arguments":{"a":1}}}`))
		require.NoError(t, err)
		assert.Equal(t, "add", call.Name)
		args, ok := call.Arguments.(map[string]any)
		require.True(t, ok)
		assert.Contains(t, args, "a")
	})

	t.Run("absent arguments means empty object", func(t *testing.T) {
		call, err := ParseCall([]byte(`{"type":"function","function":{"name":"ping"}}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, call.Arguments)
	})

	t.Run("null arguments means empty object", func(t *testing.T) {
		call, err := ParseCall([]byte(`{"type":"function","function":{"name":"ping","arguments":null}}`))
		require.NoError(t, err)
		assert.Equal(t, map[string]any{}, call.Arguments)
	})

	tests := []struct {
		name    string
		payload string
		wantErr string
	}{
		{"not json", `{`, "malformed payload"},
		{"not an object", `[1,2]`, "must be a JSON object"},
		{"missing type", `{"function":{"name":"x"}}`, `"type"`},
		{"wrong type value", `{"type":"tool","function":{"name":"x"}}`, `expected "function"`},
		{"missing function", `{"type":"function"}`, `"function"`},
		{"function not object", `{"type":"function","function":3}`, `"function"`},
		{"missing name", `{"type":"function","function":{"arguments":{}}}`, `"function.name"`},
		{"empty name", `{"type":"function","function":{"name":""}}`, `"function.name"`},
		{"arguments not object", `{"type":"function","function":{"name":"x","arguments":[1]}}`, `"arguments"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCall([]byte(tt.payload))
			require.Error(t, err)
			assert.True(t, IsBadArgs(err), "expected BadArgs, got %v", err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func userInfoTool(t *testing.T) *Tool {
	t.Helper()
	return mustTool(t, "get_user_info", Object(
		Prop("user_id", Integer()),
	))
}

func decodeArgs(t *testing.T, payload string) any {
	t.Helper()
	call, err := ParseCall([]byte(`{"type":"function","function":{"name":"x","arguments":` + payload + `}}`))
	require.NoError(t, err)
	return call.Arguments
}

func TestCoerceArguments_RoundTrip(t *testing.T) {
	tool := mustTool(t, "mixed", Object(
		Prop("count", Integer()),
		Prop("ratio", Number()),
		Prop("flag", Boolean()),
		Prop("name", String()),
		Prop("tags", ArrayOf(String())),
		Prop("filter", Object(Prop("limit", Integer()))),
	))
	args, err := coerceArguments(tool, decodeArgs(t, `{
		"count": 3,
		"ratio": 0.5,
		"flag": true,
		"name": "bob",
		"tags": ["a", "b"],
		"filter": {"limit": 10}
	}`), RejectUnknown)
	require.NoError(t, err)
	assert.Equal(t, int64(3), args.Int("count"))
	assert.Equal(t, 0.5, args.Float("ratio"))
	assert.Equal(t, true, args.Bool("flag"))
	assert.Equal(t, "bob", args.String("name"))
	assert.Equal(t, []any{"a", "b"}, args.Slice("tags"))
	assert.Equal(t, int64(10), args.Object("filter").Int("limit"))
}

func TestCoerceArguments_MissingRequiredNamesField(t *testing.T) {
	_, err := coerceArguments(userInfoTool(t), decodeArgs(t, `{}`), RejectUnknown)
	require.Error(t, err)
	assert.True(t, IsBadArgs(err))
	assert.Contains(t, err.Error(), "user_id")
}

func TestCoerceArguments_WrongTypeRejected(t *testing.T) {
	_, err := coerceArguments(userInfoTool(t), decodeArgs(t, `{"user_id":"abc"}`), RejectUnknown)
	require.Error(t, err)
	assert.True(t, IsBadArgs(err))
	assert.Contains(t, err.Error(), "user_id")
}

func TestCoerceArguments_IntegerWidening(t *testing.T) {
	tool := userInfoTool(t)

	args, err := coerceArguments(tool, decodeArgs(t, `{"user_id": 2.0}`), RejectUnknown)
	require.NoError(t, err)
	assert.Equal(t, int64(2), args.Int("user_id"))

	_, err = coerceArguments(tool, decodeArgs(t, `{"user_id": 1.5}`), RejectUnknown)
	require.Error(t, err)
	assert.True(t, IsBadArgs(err))
}

func TestCoerceArguments_IntegerOutOfRange(t *testing.T) {
	tool := userInfoTool(t)
	// Integral but unrepresentable values must fail rather than wrap.
	for _, payload := range []string{
		`{"user_id": 1e300}`,
		`{"user_id": -1e300}`,
		`{"user_id": 9223372036854775808}`,
	} {
		_, err := coerceArguments(tool, decodeArgs(t, payload), RejectUnknown)
		require.Error(t, err, payload)
		assert.True(t, IsBadArgs(err), payload)
	}
}

func TestCoerceArguments_UnknownFieldPolicy(t *testing.T) {
	tool := userInfoTool(t)
	payload := `{"user_id": 1, "extra": "field"}`

	_, err := coerceArguments(tool, decodeArgs(t, payload), RejectUnknown)
	require.Error(t, err)
	assert.True(t, IsBadArgs(err))

	args, err := coerceArguments(tool, decodeArgs(t, payload), IgnoreUnknown)
	require.NoError(t, err)
	assert.Equal(t, int64(1), args.Int("user_id"))
	assert.False(t, args.Has("extra"))
}

func TestCoerceArguments_DefaultApplied(t *testing.T) {
	tool := mustTool(t, "greet", Object(
		Prop("name", String()),
		Prop("punctuation", String().Optional().Default("?")),
	))

	args, err := coerceArguments(tool, decodeArgs(t, `{"name":"Bob"}`), RejectUnknown)
	require.NoError(t, err)
	assert.Equal(t, "?", args.String("punctuation"))

	args, err = coerceArguments(tool, decodeArgs(t, `{"name":"Bob","punctuation":"!"}`), RejectUnknown)
	require.NoError(t, err)
	assert.Equal(t, "!", args.String("punctuation"))

	// Explicit null resolves to the default as well.
	args, err = coerceArguments(tool, decodeArgs(t, `{"name":"Bob","punctuation":null}`), RejectUnknown)
	require.NoError(t, err)
	assert.Equal(t, "?", args.String("punctuation"))
}

func TestCoerceArguments_ObjectDefaultCanonicalized(t *testing.T) {
	tool := mustTool(t, "list", Object(
		Prop("query", String()),
		Prop("filter", Object(
			Prop("limit", Integer()),
		).Optional().Default(map[string]any{"limit": 5})),
	))
	args, err := coerceArguments(tool, decodeArgs(t, `{"query":"x"}`), RejectUnknown)
	require.NoError(t, err)
	// The materialized default is in canonical form, so the typed getter sees it.
	assert.Equal(t, int64(5), args.Object("filter").Int("limit"))
}

func TestCoerceArguments_OptionalOmittedStaysAbsent(t *testing.T) {
	tool := mustTool(t, "opt", Object(
		Prop("x", Integer().Optional()),
	))
	args, err := coerceArguments(tool, decodeArgs(t, `{}`), RejectUnknown)
	require.NoError(t, err)
	assert.False(t, args.Has("x"))

	args, err = coerceArguments(tool, decodeArgs(t, `{"x":null}`), RejectUnknown)
	require.NoError(t, err)
	assert.False(t, args.Has("x"))
}

func TestCoerceArguments_AggregatesViolations(t *testing.T) {
	tool := mustTool(t, "pair", Object(
		Prop("a", Integer()),
		Prop("b", String()),
	))
	_, err := coerceArguments(tool, decodeArgs(t, `{"a":"not a number"}`), RejectUnknown)
	require.Error(t, err)
	var ba *BadArgsError
	require.ErrorAs(t, err, &ba)
	// Both the type mismatch on a and the missing b are reported together.
	assert.Contains(t, err.Error(), "a")
	assert.Contains(t, err.Error(), "b")
	assert.GreaterOrEqual(t, len(ba.Violations), 2)
}

func TestCoerceArguments_NestedObject(t *testing.T) {
	tool := mustTool(t, "nested", Object(
		Prop("filter", Object(
			Prop("limit", Integer()),
			Prop("cursor", String().Optional()),
		)),
	))

	args, err := coerceArguments(tool, decodeArgs(t, `{"filter":{"limit":5}}`), RejectUnknown)
	require.NoError(t, err)
	assert.Equal(t, int64(5), args.Object("filter").Int("limit"))

	_, err = coerceArguments(tool, decodeArgs(t, `{"filter":{"limit":"x"}}`), RejectUnknown)
	require.Error(t, err)
	assert.True(t, IsBadArgs(err))
}

func TestCoerceArguments_ArrayItems(t *testing.T) {
	tool := mustTool(t, "sum", Object(
		Prop("values", ArrayOf(Integer())),
	))

	args, err := coerceArguments(tool, decodeArgs(t, `{"values":[1,2,3]}`), RejectUnknown)
	require.NoError(t, err)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, args.Slice("values"))

	_, err = coerceArguments(tool, decodeArgs(t, `{"values":[1,"two"]}`), RejectUnknown)
	require.Error(t, err)
	assert.True(t, IsBadArgs(err))
}
