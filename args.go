package toolcall

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"
)

// Args is the typed argument set a thunk receives. Values are stored in
// canonical form: int64, float64, bool, string, []any, map[string]any.
// Omitted optional parameters are absent (Has reports false); declared
// defaults have already been materialized.
type Args struct {
	fields map[string]any
}

// NewArgs builds an Args set directly from canonical values. Intended for
// tests and for callers that bypass validation deliberately.
func NewArgs(fields map[string]any) Args {
	return Args{fields: fields}
}

// Has reports whether the parameter carries a value.
func (a Args) Has(name string) bool {
	_, ok := a.fields[name]
	return ok
}

// Get returns the canonical value of the parameter.
func (a Args) Get(name string) (any, bool) {
	v, ok := a.fields[name]
	return v, ok
}

// Len returns the number of parameters carrying a value.
func (a Args) Len() int { return len(a.fields) }

// Int returns the integer parameter, or zero when absent.
func (a Args) Int(name string) int64 {
	v, _ := a.fields[name].(int64)
	return v
}

// Float returns the number parameter, or zero when absent.
func (a Args) Float(name string) float64 {
	v, _ := a.fields[name].(float64)
	return v
}

// Bool returns the boolean parameter, or false when absent.
func (a Args) Bool(name string) bool {
	v, _ := a.fields[name].(bool)
	return v
}

// String returns the text parameter, or "" when absent.
func (a Args) String(name string) string {
	v, _ := a.fields[name].(string)
	return v
}

// Slice returns the array parameter, or nil when absent.
func (a Args) Slice(name string) []any {
	v, _ := a.fields[name].([]any)
	return v
}

// Object returns a nested object parameter as an Args set.
func (a Args) Object(name string) Args {
	v, _ := a.fields[name].(map[string]any)
	return Args{fields: v}
}

// Bind marshals the argument set onto v (typically a pointer to the struct
// the schema was derived from).
func (a Args) Bind(v any) error {
	data, err := json.Marshal(a.fields)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, v)
}

// MarshalJSON serializes the argument set as a JSON object.
func (a Args) MarshalJSON() ([]byte, error) {
	if a.fields == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(a.fields)
}

// coercePositional matches raw strings to the schema's parameters in
// declaration order: the positional entry mode for direct and CLI-style
// invocation. Every parse failure is collected, naming the parameter.
func coercePositional(tool string, s *Schema, raw []string) (Args, error) {
	props := s.props
	if len(raw) > len(props) {
		return Args{}, badArgs(tool, "expected at most %d arguments, got %d", len(props), len(raw))
	}
	fields := make(map[string]any, len(raw))
	var violations []string
	for i, p := range props {
		switch {
		case i < len(raw):
			v, err := parseScalar(p.Schema, raw[i])
			if err != nil {
				violations = append(violations,
					fmt.Sprintf("cannot parse argument %q for parameter %q: %v", raw[i], p.Name, err))
				continue
			}
			fields[p.Name] = v
		case p.Schema.hasDefault:
			fields[p.Name] = normalizeDefault(p.Schema)
		case !p.Schema.optional:
			violations = append(violations, fmt.Sprintf("missing argument for required parameter %q", p.Name))
		}
	}
	if len(violations) > 0 {
		return Args{}, &BadArgsError{Tool: tool, Violations: violations}
	}
	return Args{fields: fields}, nil
}

// parseScalar parses one raw text value into the parameter's declared type.
// Composite parameters accept JSON text.
func parseScalar(s *Schema, raw string) (any, error) {
	switch s.kind {
	case KindInteger:
		return strconv.ParseInt(raw, 10, 64)
	case KindNumber:
		return strconv.ParseFloat(raw, 64)
	case KindBoolean:
		return strconv.ParseBool(raw)
	case KindString:
		return raw, nil
	case KindArray, KindObject:
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		v, violations := coerceValue(s, doc, "")
		if len(violations) > 0 {
			return nil, fmt.Errorf("%s", strings.Join(violations, "; "))
		}
		return v, nil
	}
	return nil, fmt.Errorf("unknown schema kind %q", s.kind)
}
