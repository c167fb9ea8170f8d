package toolcall

import (
	"context"
	"fmt"
	"reflect"
	"strconv"

	"github.com/invopop/jsonschema"
)

// SchemaFor derives the parameter schema for argument struct T by reflection:
// json tags name the parameters, `json:",omitempty"` fields are optional, and
// jsonschema tags contribute descriptions and default literals, e.g.
//
//	type Args struct {
//		UserID int     `json:"user_id" jsonschema:"description=Numeric user id"`
//		Punct  *string `json:"punctuation,omitempty" jsonschema:"default=?"`
//	}
//
// This is the registration-time counterpart of writing the schema by hand
// with Object and Prop; both feed the same validation pipeline.
func SchemaFor[T any]() (*Schema, error) {
	var probe T
	typ := reflect.TypeOf(probe)
	for typ != nil && typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ == nil || typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("argument type must be a struct, got %v", reflect.TypeOf(probe))
	}
	reflector := &jsonschema.Reflector{
		ExpandedStruct: true,
		DoNotReference: true,
	}
	reflected := reflector.ReflectFromType(typ)
	s, err := fromReflected(reflected)
	if err != nil {
		return nil, err
	}
	if s.kind != KindObject {
		return nil, fmt.Errorf("argument type must reflect to an object schema, got %s", s.kind)
	}
	return s, nil
}

// NewTool builds a descriptor from a typed function: the schema is derived
// from T, and validated arguments are bound onto a T value before fn runs.
func NewTool[T any](name, description string, fn func(ctx context.Context, args T) (string, error)) (*Tool, error) {
	if fn == nil {
		return nil, fmt.Errorf("tool %q: fn must not be nil", name)
	}
	schema, err := SchemaFor[T]()
	if err != nil {
		return nil, fmt.Errorf("tool %q: %w", name, err)
	}
	thunk := func(ctx context.Context, args Args) (string, error) {
		var in T
		if err := args.Bind(&in); err != nil {
			return "", fmt.Errorf("bind arguments: %w", err)
		}
		return fn(ctx, in)
	}
	return New(name, description, schema, thunk)
}

// fromReflected converts a reflected JSON Schema node into the Schema model.
// Only the shapes the model can express are accepted; anything else (maps,
// interfaces, multi-type unions) is a derivation error.
func fromReflected(node *jsonschema.Schema) (*Schema, error) {
	if node == nil {
		return nil, fmt.Errorf("nil schema node")
	}
	var s *Schema
	switch node.Type {
	case "object":
		required := make(map[string]struct{}, len(node.Required))
		for _, name := range node.Required {
			required[name] = struct{}{}
		}
		var props []Property
		if node.Properties != nil {
			for pair := node.Properties.Oldest(); pair != nil; pair = pair.Next() {
				child, err := fromReflected(pair.Value)
				if err != nil {
					return nil, fmt.Errorf("parameter %q: %w", pair.Key, err)
				}
				if _, req := required[pair.Key]; !req {
					child.Optional()
				}
				props = append(props, Prop(pair.Key, child))
			}
		}
		s = Object(props...)
	case "integer":
		s = Integer()
	case "number":
		s = Number()
	case "boolean":
		s = Boolean()
	case "string":
		s = String()
	case "array":
		items, err := fromReflected(node.Items)
		if err != nil {
			return nil, fmt.Errorf("array items: %w", err)
		}
		s = ArrayOf(items)
	default:
		return nil, fmt.Errorf("unsupported schema type %q", node.Type)
	}
	if node.Description != "" {
		s.Describe(node.Description)
	}
	if node.Default != nil {
		def, err := coerceDerivedDefault(s.kind, node.Default)
		if err != nil {
			return nil, err
		}
		s.Default(def)
	}
	return s, nil
}

// coerceDerivedDefault normalizes default literals coming out of struct tags,
// where numeric and boolean values may surface as strings.
func coerceDerivedDefault(kind Kind, def any) (any, error) {
	str, isString := def.(string)
	switch kind {
	case KindInteger:
		if isString {
			n, err := strconv.ParseInt(str, 10, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed default literal %q for integer parameter", str)
			}
			return n, nil
		}
	case KindNumber:
		if isString {
			f, err := strconv.ParseFloat(str, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed default literal %q for number parameter", str)
			}
			return f, nil
		}
	case KindBoolean:
		if isString {
			b, err := strconv.ParseBool(str)
			if err != nil {
				return nil, fmt.Errorf("malformed default literal %q for boolean parameter", str)
			}
			return b, nil
		}
	}
	return def, nil
}
