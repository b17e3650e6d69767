package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/dadav/go-jsonpointer"
	"sigs.k8s.io/yaml"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"
)

var (
	// ErrInvalidSchema indicates the input could not be decoded as a schema.
	ErrInvalidSchema = errors.New("invalid schema")

	// ErrPointerNotFound indicates a JSON pointer did not resolve.
	ErrPointerNotFound = errors.New("json pointer not found")
)

// FromJSONSchemaProps converts Kubernetes [apiextensionsv1.JSONSchemaProps]
// into a [Node]. A nil input yields a nil [Node].
func FromJSONSchemaProps(p *apiextensionsv1.JSONSchemaProps) (*Node, error) {
	if p == nil {
		return nil, nil //nolint:nilnil // absent schema
	}

	n := &Node{
		Type:        p.Type,
		Format:      p.Format,
		Description: p.Description,
		Required:    cloneStrings(p.Required),
		IntOrString: p.XIntOrString,
	}

	if p.XPreserveUnknownFields != nil {
		v := *p.XPreserveUnknownFields
		n.PreserveUnknownFields = &v
	}

	if p.XListType != nil {
		n.ListType = *p.XListType
	}

	if p.XMapType != nil {
		n.MapType = *p.XMapType
	}

	for _, e := range p.Enum {
		// A JSON null literal decodes with an empty Raw.
		if len(e.Raw) == 0 {
			n.Enum = append(n.Enum, nil)

			continue
		}

		v, err := decodeLiteral(e.Raw)
		if err != nil {
			return nil, fmt.Errorf("enum: %w", err)
		}

		n.Enum = append(n.Enum, v)
	}

	if p.Properties != nil {
		n.Properties = make(map[string]*Node, len(p.Properties))
		for k, v := range p.Properties {
			child, err := FromJSONSchemaProps(&v)
			if err != nil {
				return nil, fmt.Errorf("properties.%s: %w", k, err)
			}

			n.Properties[k] = child
		}
	}

	if p.Items != nil {
		items, err := convertItems(p.Items)
		if err != nil {
			return nil, fmt.Errorf("items: %w", err)
		}

		n.Items = items
	}

	var err error

	n.AdditionalProperties, err = convertAdditional(p.AdditionalProperties)
	if err != nil {
		return nil, fmt.Errorf("additionalProperties: %w", err)
	}

	n.AdditionalItems, err = convertAdditional(p.AdditionalItems)
	if err != nil {
		return nil, fmt.Errorf("additionalItems: %w", err)
	}

	if n.OneOf, err = convertAll(p.OneOf); err != nil {
		return nil, fmt.Errorf("oneOf: %w", err)
	}

	if n.AllOf, err = convertAll(p.AllOf); err != nil {
		return nil, fmt.Errorf("allOf: %w", err)
	}

	if n.AnyOf, err = convertAll(p.AnyOf); err != nil {
		return nil, fmt.Errorf("anyOf: %w", err)
	}

	if n.Not, err = FromJSONSchemaProps(p.Not); err != nil {
		return nil, fmt.Errorf("not: %w", err)
	}

	return n, nil
}

// FromYAML decodes a YAML or JSON schema document.
func FromYAML(data []byte) (*Node, error) {
	props := &apiextensionsv1.JSONSchemaProps{}
	if err := yaml.Unmarshal(data, props); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	return FromJSONSchemaProps(props)
}

// FromDocument decodes the schema found at pointer within a YAML or JSON
// document. The pointer may carry a leading "#". An empty pointer selects
// the whole document.
func FromDocument(data []byte, pointer string) (*Node, error) {
	pointer = strings.TrimPrefix(pointer, "#")
	if pointer == "" || pointer == "/" {
		return FromYAML(data)
	}

	jsonData, err := yaml.YAMLToJSON(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	var obj any
	if err := json.Unmarshal(jsonData, &obj); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	v, err := jsonpointer.Get(obj, pointer)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrPointerNotFound, pointer, err)
	}

	raw, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	return FromYAML(raw)
}

func convertItems(items *apiextensionsv1.JSONSchemaPropsOrArray) (Items, error) {
	if items.Schema != nil {
		s, err := FromJSONSchemaProps(items.Schema)
		if err != nil {
			return nil, err
		}

		return ItemsSchema{Schema: s}, nil
	}

	schemas, err := convertAll(items.JSONSchemas)
	if err != nil {
		return nil, err
	}

	return ItemsTuple{Schemas: schemas}, nil
}

func convertAdditional(a *apiextensionsv1.JSONSchemaPropsOrBool) (Additional, error) {
	if a == nil {
		return nil, nil
	}

	if a.Schema != nil {
		s, err := FromJSONSchemaProps(a.Schema)
		if err != nil {
			return nil, err
		}

		return AdditionalSchema{Schema: s}, nil
	}

	return AdditionalBool(a.Allows), nil
}

func convertAll(props []apiextensionsv1.JSONSchemaProps) ([]*Node, error) {
	if props == nil {
		return nil, nil
	}

	nodes := make([]*Node, 0, len(props))
	for i := range props {
		n, err := FromJSONSchemaProps(&props[i])
		if err != nil {
			return nil, fmt.Errorf("[%d]: %w", i, err)
		}

		nodes = append(nodes, n)
	}

	return nodes, nil
}

// decodeLiteral decodes a JSON literal, keeping numbers as [json.Number].
func decodeLiteral(raw []byte) (any, error) {
	d := json.NewDecoder(bytes.NewReader(raw))
	d.UseNumber()

	var v any
	if err := d.Decode(&v); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSchema, err)
	}

	return v, nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}

	return append([]string{}, s...)
}
