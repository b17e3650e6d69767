package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

const (
	extIntOrString           = "x-kubernetes-int-or-string"
	extPreserveUnknownFields = "x-kubernetes-preserve-unknown-fields"
	extListType              = "x-kubernetes-list-type"
	extMapType               = "x-kubernetes-map-type"
)

var (
	// ErrComponentNotFound indicates the requested component schema is missing.
	ErrComponentNotFound = errors.New("component schema not found")

	// ErrRecursiveSchema indicates a $ref cycle that cannot be expanded.
	ErrRecursiveSchema = errors.New("recursive schema")
)

// FromOpenAPIComponent loads an OpenAPI v3 document and converts the named
// component schema (components.schemas.<name>) into a [Node].
func FromOpenAPIComponent(data []byte, name string) (*Node, error) {
	loader := openapi3.NewLoader()

	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	if doc.Components == nil {
		return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}

	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%w: %q", ErrComponentNotFound, name)
	}

	return FromOpenAPI(ref.Value)
}

// FromOpenAPI converts a resolved [openapi3.Schema] into a [Node].
func FromOpenAPI(s *openapi3.Schema) (*Node, error) {
	c := &openapiConverter{visiting: map[*openapi3.Schema]bool{}}

	return c.convert(s)
}

type openapiConverter struct {
	visiting map[*openapi3.Schema]bool
}

func (c *openapiConverter) convert(s *openapi3.Schema) (*Node, error) {
	if s == nil {
		return nil, nil //nolint:nilnil // absent schema
	}

	if c.visiting[s] {
		return nil, ErrRecursiveSchema
	}

	c.visiting[s] = true
	defer delete(c.visiting, s)

	n := &Node{
		Format:      s.Format,
		Description: s.Description,
		Required:    cloneStrings(s.Required),
	}

	// Multi-valued types such as ["string", "null"] are reduced to the
	// first non-null entry.
	for _, t := range s.Type.Slice() {
		if t != "null" {
			n.Type = t

			break
		}
	}

	if err := convertExtensions(n, s.Extensions); err != nil {
		return nil, err
	}

	if s.Enum != nil {
		// Re-decode so numbers are json.Number, matching the other adapters.
		raw, err := json.Marshal(s.Enum)
		if err != nil {
			return nil, fmt.Errorf("enum: %w", err)
		}

		v, err := decodeLiteral(raw)
		if err != nil {
			return nil, fmt.Errorf("enum: %w", err)
		}

		enum, _ := v.([]any)
		n.Enum = enum
	}

	if s.Properties != nil {
		n.Properties = make(map[string]*Node, len(s.Properties))
		for k, ref := range s.Properties {
			child, err := c.convertRef(ref)
			if err != nil {
				return nil, fmt.Errorf("properties.%s: %w", k, err)
			}

			n.Properties[k] = child
		}
	}

	if s.Items != nil {
		items, err := c.convertRef(s.Items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}

		n.Items = ItemsSchema{Schema: items}
	}

	switch {
	case s.AdditionalProperties.Schema != nil:
		a, err := c.convertRef(s.AdditionalProperties.Schema)
		if err != nil {
			return nil, fmt.Errorf("additionalProperties: %w", err)
		}

		n.AdditionalProperties = AdditionalSchema{Schema: a}
	case s.AdditionalProperties.Has != nil:
		n.AdditionalProperties = AdditionalBool(*s.AdditionalProperties.Has)
	}

	var err error

	if n.OneOf, err = c.convertRefs(s.OneOf); err != nil {
		return nil, fmt.Errorf("oneOf: %w", err)
	}

	if n.AllOf, err = c.convertRefs(s.AllOf); err != nil {
		return nil, fmt.Errorf("allOf: %w", err)
	}

	if n.AnyOf, err = c.convertRefs(s.AnyOf); err != nil {
		return nil, fmt.Errorf("anyOf: %w", err)
	}

	if s.Not != nil {
		if n.Not, err = c.convertRef(s.Not); err != nil {
			return nil, fmt.Errorf("not: %w", err)
		}
	}

	return n, nil
}

func (c *openapiConverter) convertRef(ref *openapi3.SchemaRef) (*Node, error) {
	if ref == nil {
		return nil, nil //nolint:nilnil // absent schema
	}

	n, err := c.convert(ref.Value)
	if err != nil && ref.Ref != "" {
		return nil, fmt.Errorf("%s: %w", ref.Ref, err)
	}

	return n, err
}

func (c *openapiConverter) convertRefs(refs openapi3.SchemaRefs) ([]*Node, error) {
	if refs == nil {
		return nil, nil
	}

	nodes := make([]*Node, 0, len(refs))
	for i, ref := range refs {
		n, err := c.convertRef(ref)
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}

		nodes = append(nodes, n)
	}

	return nodes, nil
}

func convertExtensions(n *Node, ext map[string]any) error {
	for k, v := range ext {
		switch k {
		case extIntOrString:
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("%w: %s must be a boolean", ErrInvalidSchema, k)
			}

			n.IntOrString = b
		case extPreserveUnknownFields:
			b, ok := v.(bool)
			if !ok {
				return fmt.Errorf("%w: %s must be a boolean", ErrInvalidSchema, k)
			}

			n.PreserveUnknownFields = &b
		case extListType:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w: %s must be a string", ErrInvalidSchema, k)
			}

			n.ListType = s
		case extMapType:
			s, ok := v.(string)
			if !ok {
				return fmt.Errorf("%w: %s must be a string", ErrInvalidSchema, k)
			}

			n.MapType = s
		}
	}

	return nil
}
