package toolcall

import (
	"encoding/json"
	"fmt"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind enumerates the JSON Schema types a parameter can take.
type Kind string

const (
	KindInteger Kind = "integer"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindString  Kind = "string"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
)

// Schema describes the shape of one parameter, or of a tool's whole argument
// object. It is pure data: build it with the kind constructors and chainers,
// serialize it with MarshalJSON. Property order is declaration order and is
// preserved through serialization, so exported schemas are byte-stable.
type Schema struct {
	kind        Kind
	description string
	optional    bool
	hasDefault  bool
	def         any
	items       *Schema    // array element schema
	props       []Property // object properties, in declaration order
}

// Property is one named parameter of an object schema.
type Property struct {
	Name   string
	Schema *Schema
}

// Integer declares an integer parameter (any signed or unsigned width).
func Integer() *Schema { return &Schema{kind: KindInteger} }

// Number declares a floating-point parameter.
func Number() *Schema { return &Schema{kind: KindNumber} }

// Boolean declares a boolean parameter.
func Boolean() *Schema { return &Schema{kind: KindBoolean} }

// String declares a text parameter.
func String() *Schema { return &Schema{kind: KindString} }

// ArrayOf declares a sequence parameter with the given element schema.
func ArrayOf(items *Schema) *Schema { return &Schema{kind: KindArray, items: items} }

// Object declares a structured parameter (or a tool's root argument object)
// with the given properties in declaration order.
func Object(props ...Property) *Schema { return &Schema{kind: KindObject, props: props} }

// Prop pairs a parameter name with its schema.
func Prop(name string, s *Schema) Property { return Property{Name: name, Schema: s} }

// Describe attaches human-readable text to the parameter.
func (s *Schema) Describe(text string) *Schema {
	s.description = text
	return s
}

// Optional marks the parameter as omittable. An optional parameter is never
// listed in required and its serialized type additionally allows null.
func (s *Schema) Optional() *Schema {
	s.optional = true
	return s
}

// Default declares a default literal applied when the argument is omitted.
// A parameter with a default is never listed in required. The literal must
// match the declared kind; the mismatch is caught when the tool is built.
func (s *Schema) Default(v any) *Schema {
	s.hasDefault = true
	s.def = v
	return s
}

// Kind returns the parameter's JSON Schema type.
func (s *Schema) Kind() Kind { return s.kind }

// Description returns the attached human-readable text.
func (s *Schema) Description() string { return s.description }

// Items returns the element schema of an array parameter, or nil.
func (s *Schema) Items() *Schema { return s.items }

// Properties returns the object properties in declaration order.
// The returned slice is a copy; the schemas it points to are shared.
func (s *Schema) Properties() []Property {
	out := make([]Property, len(s.props))
	copy(out, s.props)
	return out
}

// Required returns the names of properties that have no default and are not
// optional, in declaration order. Never nil.
func (s *Schema) Required() []string {
	out := make([]string, 0, len(s.props))
	for _, p := range s.props {
		if !p.Schema.optional && !p.Schema.hasDefault {
			out = append(out, p.Name)
		}
	}
	return out
}

// MarshalJSON serializes the schema as a JSON-Schema-compatible object, e.g.
// {"type":"object","properties":{...},"required":[...]} for the root.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.value(false))
}

// value builds the serializable form. strict additionally sets
// additionalProperties: false on every object node; the strict form backs the
// RejectUnknown validation variant and is never exported in manifests.
func (s *Schema) value(strict bool) any {
	node := orderedmap.New[string, any]()
	switch s.kind {
	case KindObject:
		node.Set("type", s.typeValue())
		props := orderedmap.New[string, any]()
		for _, p := range s.props {
			props.Set(p.Name, p.Schema.value(strict))
		}
		node.Set("properties", props)
		node.Set("required", s.Required())
		if strict {
			node.Set("additionalProperties", false)
		}
	case KindArray:
		node.Set("type", s.typeValue())
		node.Set("items", s.items.value(strict))
	default:
		node.Set("type", s.typeValue())
	}
	if s.description != "" {
		node.Set("description", s.description)
	}
	if s.hasDefault {
		node.Set("default", s.def)
	}
	return node
}

func (s *Schema) typeValue() any {
	if s.optional {
		return []string{string(s.kind), "null"}
	}
	return string(s.kind)
}

// check verifies construction-time invariants: property names unique within
// each object, array items present, default literals matching their kind.
func (s *Schema) check() error {
	if s.hasDefault {
		if !defaultMatches(s, s.def) {
			return fmt.Errorf("malformed default literal %v for %s parameter", s.def, s.kind)
		}
	}
	switch s.kind {
	case KindObject:
		seen := make(map[string]struct{}, len(s.props))
		for _, p := range s.props {
			if p.Name == "" {
				return fmt.Errorf("parameter name must not be empty")
			}
			if p.Schema == nil {
				return fmt.Errorf("parameter %q has no schema", p.Name)
			}
			if _, dup := seen[p.Name]; dup {
				return fmt.Errorf("duplicate parameter name %q", p.Name)
			}
			seen[p.Name] = struct{}{}
			if err := p.Schema.check(); err != nil {
				return fmt.Errorf("parameter %q: %w", p.Name, err)
			}
		}
	case KindArray:
		if s.items == nil {
			return fmt.Errorf("array parameter has no items schema")
		}
		return s.items.check()
	case KindInteger, KindNumber, KindBoolean, KindString:
	default:
		return fmt.Errorf("unknown schema kind %q", s.kind)
	}
	return nil
}

// defaultMatches reports whether a declared default literal is representable
// in the parameter's kind.
func defaultMatches(s *Schema, v any) bool {
	switch s.kind {
	case KindInteger:
		_, ok := asInt64(v)
		return ok
	case KindNumber:
		_, ok := asFloat64(v)
		return ok
	case KindBoolean:
		_, ok := v.(bool)
		return ok
	case KindString:
		_, ok := v.(string)
		return ok
	case KindArray:
		items, ok := v.([]any)
		if !ok {
			return false
		}
		for _, item := range items {
			if !defaultMatches(s.items, item) {
				return false
			}
		}
		return true
	case KindObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return false
		}
		declared := make(map[string]*Schema, len(s.props))
		for _, p := range s.props {
			declared[p.Name] = p.Schema
		}
		for name, value := range obj {
			ps, known := declared[name]
			if !known || !defaultMatches(ps, value) {
				return false
			}
		}
		return true
	}
	return false
}

// normalizeDefault converts a declared default into the canonical Args
// representation (int64/float64/bool/string/[]any/map[string]any). Only
// called after check() accepted the literal.
func normalizeDefault(s *Schema) any {
	switch s.kind {
	case KindInteger:
		n, _ := asInt64(s.def)
		return n
	case KindNumber:
		f, _ := asFloat64(s.def)
		return f
	case KindArray:
		items := s.def.([]any)
		out := make([]any, len(items))
		for i, item := range items {
			elem := *s.items
			elem.hasDefault = true
			elem.def = item
			out[i] = normalizeDefault(&elem)
		}
		return out
	case KindObject:
		obj := s.def.(map[string]any)
		out := make(map[string]any, len(obj))
		for _, p := range s.props {
			v, present := obj[p.Name]
			if !present {
				continue
			}
			elem := *p.Schema
			elem.hasDefault = true
			elem.def = v
			out[p.Name] = normalizeDefault(&elem)
		}
		return out
	default:
		return s.def
	}
}
