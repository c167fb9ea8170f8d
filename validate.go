package toolcall

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Call is the decoded function-call envelope of a structured payload.
type Call struct {
	Name      string
	Arguments any // decoded arguments object (numbers as json.Number), never nil
}

// ParseCall decodes and checks the conventional function-call envelope:
//
//	{"type": "function", "function": {"name": "...", "arguments": {...}}}
//
// A malformed shape is a BadArgs failure naming the structural defect. An
// absent arguments member is treated as an empty object.
func ParseCall(payload []byte) (Call, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(payload))
	if err != nil {
		return Call{}, badArgs("", "malformed payload: %v", err)
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return Call{}, badArgs("", "payload must be a JSON object")
	}
	typ, ok := obj["type"].(string)
	if !ok {
		return Call{}, badArgs("", "missing or invalid %q field", "type")
	}
	if typ != "function" {
		return Call{}, badArgs("", "invalid payload type: expected %q, got %q", "function", typ)
	}
	fn, ok := obj["function"].(map[string]any)
	if !ok {
		return Call{}, badArgs("", "missing or invalid %q object", "function")
	}
	name, ok := fn["name"].(string)
	if !ok || name == "" {
		return Call{}, badArgs("", "missing or invalid %q field", "function.name")
	}
	args, present := fn["arguments"]
	if !present || args == nil {
		args = map[string]any{}
	}
	if _, ok := args.(map[string]any); !ok {
		return Call{}, badArgs(name, "%q must be a JSON object", "arguments")
	}
	return Call{Name: name, Arguments: args}, nil
}

// coerceArguments turns a decoded arguments object into a typed Args set.
// Layer 1 validates against the compiled schema (all violations aggregated);
// layer 2 walks the schema, converting values to their canonical types,
// applying declared defaults, and enforcing the exact-integer rule. Either
// the full set validates or nothing runs.
func coerceArguments(t *Tool, rawArgs any, policy UnknownFieldPolicy) (Args, error) {
	compiled := t.compiledLax
	if policy == RejectUnknown {
		compiled = t.compiledStrict
	}
	if err := compiled.Validate(rawArgs); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			return Args{}, &BadArgsError{Tool: t.name, Violations: flattenValidation(ve)}
		}
		return Args{}, badArgs(t.name, "%v", err)
	}
	obj, ok := rawArgs.(map[string]any)
	if !ok {
		return Args{}, badArgs(t.name, "arguments must be a JSON object")
	}
	fields, violations := coerceObject(t.schema, obj, "")
	if len(violations) > 0 {
		return Args{}, &BadArgsError{Tool: t.name, Violations: violations}
	}
	return Args{fields: fields}, nil
}

// coerceObject walks declared properties in order. Undeclared fields are
// simply not visited: under RejectUnknown the strict schema already refused
// them, under IgnoreUnknown they are dropped here.
func coerceObject(s *Schema, obj map[string]any, path string) (map[string]any, []string) {
	out := make(map[string]any, len(s.props))
	var violations []string
	for _, p := range s.props {
		full := joinPath(path, p.Name)
		v, present := obj[p.Name]
		switch {
		case present && v == nil:
			// Explicit null: allowed for optional parameters (treated as
			// omitted), resolved by the default when one is declared.
			switch {
			case p.Schema.hasDefault:
				out[p.Name] = normalizeDefault(p.Schema)
			case !p.Schema.optional:
				violations = append(violations, fmt.Sprintf("parameter %q must not be null", full))
			}
		case present:
			cv, errs := coerceValue(p.Schema, v, full)
			if len(errs) > 0 {
				violations = append(violations, errs...)
				continue
			}
			out[p.Name] = cv
		case p.Schema.hasDefault:
			out[p.Name] = normalizeDefault(p.Schema)
		case !p.Schema.optional:
			violations = append(violations, fmt.Sprintf("missing required parameter %q", full))
		}
	}
	return out, violations
}

func coerceValue(s *Schema, v any, path string) (any, []string) {
	switch s.kind {
	case KindInteger:
		n, ok := asInt64(v)
		if !ok {
			return nil, []string{fmt.Sprintf("parameter %q: expected integer, got %s", path, typeName(v))}
		}
		return n, nil
	case KindNumber:
		f, ok := asFloat64(v)
		if !ok {
			return nil, []string{fmt.Sprintf("parameter %q: expected number, got %s", path, typeName(v))}
		}
		return f, nil
	case KindBoolean:
		b, ok := v.(bool)
		if !ok {
			return nil, []string{fmt.Sprintf("parameter %q: expected boolean, got %s", path, typeName(v))}
		}
		return b, nil
	case KindString:
		str, ok := v.(string)
		if !ok {
			return nil, []string{fmt.Sprintf("parameter %q: expected string, got %s", path, typeName(v))}
		}
		return str, nil
	case KindArray:
		arr, ok := v.([]any)
		if !ok {
			return nil, []string{fmt.Sprintf("parameter %q: expected array, got %s", path, typeName(v))}
		}
		out := make([]any, 0, len(arr))
		var violations []string
		for i, item := range arr {
			cv, errs := coerceValue(s.items, item, fmt.Sprintf("%s[%d]", path, i))
			if len(errs) > 0 {
				violations = append(violations, errs...)
				continue
			}
			out = append(out, cv)
		}
		if len(violations) > 0 {
			return nil, violations
		}
		return out, nil
	case KindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return nil, []string{fmt.Sprintf("parameter %q: expected object, got %s", path, typeName(v))}
		}
		fields, violations := coerceObject(s, obj, path)
		if len(violations) > 0 {
			return nil, violations
		}
		return fields, nil
	}
	return nil, []string{fmt.Sprintf("parameter %q: unknown schema kind %q", path, s.kind)}
}

func joinPath(path, name string) string {
	if path == "" {
		return name
	}
	return path + "." + name
}

// asInt64 accepts JSON numbers that are exactly representable as integers.
// Widening is permitted (2.0 is an integer); 1.5 is not, and neither is a
// value outside the int64 range, where the conversion would wrap.
func asInt64(v any) (int64, bool) {
	switch n := v.(type) {
	case json.Number:
		if i, err := n.Int64(); err == nil {
			return i, true
		}
		f, err := n.Float64()
		if err != nil || math.Trunc(f) != f || f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, false
		}
		return int64(f), true
	case int:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		if math.Trunc(n) != n || n < math.MinInt64 || n >= math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	}
	return 0, false
}

func asFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// typeName names a decoded JSON value's runtime type for diagnostics.
func typeName(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case json.Number, int, int64, uint, uint64, float64:
		return "number"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	}
	return fmt.Sprintf("%T", v)
}

var errPrinter = message.NewPrinter(language.English)

// flattenValidation collects the leaves of a validator error tree into one
// violation per defect, each anchored at its instance location.
func flattenValidation(ve *jsonschema.ValidationError) []string {
	var out []string
	var walk func(e *jsonschema.ValidationError)
	walk = func(e *jsonschema.ValidationError) {
		if len(e.Causes) == 0 {
			loc := "/" + strings.Join(e.InstanceLocation, "/")
			out = append(out, fmt.Sprintf("at %q: %s", loc, e.ErrorKind.LocalizedString(errPrinter)))
			return
		}
		for _, cause := range e.Causes {
			walk(cause)
		}
	}
	walk(ve)
	return out
}

// compileSchema marshals the schema (strict variant adds
// additionalProperties: false on every object) and compiles it once.
func compileSchema(s *Schema, strict bool) (*jsonschema.Schema, error) {
	data, err := json.Marshal(s.value(strict))
	if err != nil {
		return nil, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource("schema.json", doc); err != nil {
		return nil, err
	}
	return compiler.Compile("schema.json")
}
