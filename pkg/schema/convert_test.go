package schema_test

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/crdtypes/pkg/schema"
)

func TestFromYAML(t *testing.T) {
	t.Parallel()

	n, err := schema.FromYAML([]byte(`
type: object
required: [id]
properties:
  id:
    type: string
  tags:
    type: array
    items:
      type: string
  tuple:
    type: array
    items:
      - type: string
      - type: integer
  labels:
    type: object
    additionalProperties:
      type: string
  closed:
    type: object
    additionalProperties: false
  mode:
    type: integer
    enum: [0, 1, 2]
  port:
    x-kubernetes-int-or-string: true
  raw:
    type: object
    x-kubernetes-preserve-unknown-fields: true
  list:
    type: array
    x-kubernetes-list-type: map
    items:
      type: object
  choice:
    oneOf:
      - required: [a]
      - required: [b]
`))
	require.NoError(t, err)

	assert.Equal(t, schema.TypeObject, n.Type)
	assert.Equal(t, []string{"id"}, n.Required)
	assert.Equal(t,
		[]string{"choice", "closed", "id", "labels", "list", "mode", "port", "raw", "tags", "tuple"},
		n.SortedKeys(),
	)

	tags, ok := n.Properties["tags"].Items.(schema.ItemsSchema)
	require.True(t, ok)
	assert.Equal(t, schema.TypeString, tags.Schema.Type)

	tuple, ok := n.Properties["tuple"].Items.(schema.ItemsTuple)
	require.True(t, ok)
	assert.Len(t, tuple.Schemas, 2)

	labels, ok := n.Properties["labels"].AdditionalProperties.(schema.AdditionalSchema)
	require.True(t, ok)
	assert.Equal(t, schema.TypeString, labels.Schema.Type)

	assert.Equal(t, schema.AdditionalBool(false), n.Properties["closed"].AdditionalProperties)
	assert.Nil(t, n.Properties["id"].AdditionalProperties)

	assert.Equal(t, []any{json.Number("0"), json.Number("1"), json.Number("2")}, n.Properties["mode"].Enum)
	assert.True(t, n.Properties["port"].IntOrString)
	assert.True(t, n.Properties["raw"].PreservesUnknownFields())
	assert.Equal(t, "map", n.Properties["list"].ListType)
	assert.Len(t, n.Properties["choice"].OneOf, 2)
}

func TestFromYAMLInvalid(t *testing.T) {
	t.Parallel()

	_, err := schema.FromYAML([]byte("type: [unterminated"))
	require.ErrorIs(t, err, schema.ErrInvalidSchema)
}

func TestFromDocument(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("testdata/crd.yaml")
	require.NoError(t, err)

	tcs := map[string]struct {
		pointer string
		want    string
		err     error
	}{
		"whole document": {
			pointer: "",
		},
		"fragment pointer": {
			pointer: "#/spec/versions/0/schema/openAPIV3Schema",
			want:    schema.TypeObject,
		},
		"plain pointer": {
			pointer: "/spec/versions/0/schema/openAPIV3Schema/properties/spec/properties/replicas",
			want:    schema.TypeInteger,
		},
		"missing": {
			pointer: "/spec/versions/3",
			err:     schema.ErrPointerNotFound,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			n, err := schema.FromDocument(data, tc.pointer)
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, n.Type)
		})
	}
}

func TestFromOpenAPIComponent(t *testing.T) {
	t.Parallel()

	data, err := os.ReadFile("testdata/openapi.yaml")
	require.NoError(t, err)

	n, err := schema.FromOpenAPIComponent(data, "Widget")
	require.NoError(t, err)

	assert.Equal(t, schema.TypeObject, n.Type)
	assert.Equal(t, []string{"color", "labels", "name", "port", "size"}, n.SortedKeys())
	assert.Equal(t, "int32", n.Properties["size"].Format)
	assert.True(t, n.Properties["port"].IntOrString)
	assert.Equal(t, []any{"red", "green"}, n.Properties["color"].Enum)

	labels, ok := n.Properties["labels"].AdditionalProperties.(schema.AdditionalSchema)
	require.True(t, ok)
	assert.Equal(t, schema.TypeString, labels.Schema.Type)

	_, err = schema.FromOpenAPIComponent(data, "Gadget")
	require.ErrorIs(t, err, schema.ErrComponentNotFound)
}
