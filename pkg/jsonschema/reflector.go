package jsonschema

import (
	"encoding/json"
	"fmt"
	"io"
	"reflect"

	invopopjsonschema "github.com/invopop/jsonschema"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/macropower/crdtypes/pkg/overrides"
)

// OverridesSchemaID is the $id of the override rule document schema.
const OverridesSchemaID = "https://github.com/macropower/crdtypes/overrides.schema.json"

// Reflector reflects Go types into JSON Schemas. Types with custom JSON
// encodings are described by hand.
type Reflector struct {
	Reflector *invopopjsonschema.Reflector
}

func NewReflector() *Reflector {
	return &Reflector{
		Reflector: &invopopjsonschema.Reflector{
			DoNotReference: true,
			ExpandedStruct: true,
			Mapper:         mapType,
		},
	}
}

func (r *Reflector) Reflect(t reflect.Type) *invopopjsonschema.Schema {
	return r.Reflector.ReflectFromType(t)
}

// OverridesSchema returns the schema of an [overrides.Document].
func OverridesSchema() *invopopjsonschema.Schema {
	s := NewReflector().Reflect(reflect.TypeOf(overrides.Document{}))
	s.ID = OverridesSchemaID
	s.Title = "crdtypes overrides"

	return s
}

// WriteOverridesSchema writes the indented JSON form of [OverridesSchema].
func WriteOverridesSchema(w io.Writer) error {
	b, err := json.MarshalIndent(OverridesSchema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json schema: %w", err)
	}

	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("write json schema: %w", err)
	}

	return nil
}

var (
	actionType = reflect.TypeOf(overrides.Action{})
	propsType  = reflect.TypeOf(apiextensionsv1.JSONSchemaProps{})
)

func mapType(t reflect.Type) *invopopjsonschema.Schema {
	switch t {
	case actionType:
		replace := invopopjsonschema.NewProperties()
		replace.Set("replace", &invopopjsonschema.Schema{
			Type:        "string",
			MinLength:   ptr(uint64(1)),
			Description: "Use this type name instead of the inferred type",
		})

		return &invopopjsonschema.Schema{
			Description: "Action applied when the rule matches",
			OneOf: []*invopopjsonschema.Schema{
				{
					Type:        "string",
					Enum:        []any{"omit"},
					Description: "Drop the property",
				},
				{
					Type:                 "object",
					Properties:           replace,
					Required:             []string{"replace"},
					AdditionalProperties: invopopjsonschema.FalseSchema,
				},
			},
		}
	case propsType:
		// Nested OpenAPI schemas are not described further.
		return &invopopjsonschema.Schema{
			Type:        "object",
			Description: "An OpenAPI v3 schema fragment",
		}
	}

	return nil
}

func ptr[T any](v T) *T {
	return &v
}
