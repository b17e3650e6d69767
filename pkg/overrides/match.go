package overrides

import (
	"reflect"
	"slices"

	"github.com/macropower/crdtypes/pkg/schema"
)

// Only the fields that affect generated types take part in schema matching:
// type, enum, items, additionalItems, properties, additionalProperties,
// required, oneOf, allOf, anyOf, not, and the int-or-string,
// preserve-unknown-fields, list-type and map-type extensions.

// exhaustive reports whether a and b agree on every compared field.
func exhaustive(a, b *schema.Node) bool {
	if a == nil || b == nil {
		return a == b
	}

	return a.Type == b.Type &&
		exhaustiveLiterals(a.Enum, b.Enum) &&
		exhaustiveItems(a.Items, b.Items) &&
		exhaustiveAdditional(a.AdditionalItems, b.AdditionalItems) &&
		exhaustiveProperties(a.Properties, b.Properties) &&
		exhaustiveAdditional(a.AdditionalProperties, b.AdditionalProperties) &&
		exhaustiveStrings(a.Required, b.Required) &&
		exhaustiveNodes(a.OneOf, b.OneOf) &&
		exhaustiveNodes(a.AllOf, b.AllOf) &&
		exhaustiveNodes(a.AnyOf, b.AnyOf) &&
		exhaustive(a.Not, b.Not) &&
		a.IntOrString == b.IntOrString &&
		equalBoolPtr(a.PreserveUnknownFields, b.PreserveUnknownFields) &&
		a.ListType == b.ListType &&
		a.MapType == b.MapType
}

// subset reports whether c has at least the compared fields of t. A nil
// template matches anything.
func subset(t, c *schema.Node) bool {
	if t == nil {
		return true
	}

	if c == nil {
		return false
	}

	return (t.Type == "" || t.Type == c.Type) &&
		subsetLiterals(t.Enum, c.Enum) &&
		subsetItems(t.Items, c.Items) &&
		subsetAdditional(t.AdditionalItems, c.AdditionalItems) &&
		subsetProperties(t.Properties, c.Properties) &&
		subsetAdditional(t.AdditionalProperties, c.AdditionalProperties) &&
		subsetStrings(t.Required, c.Required) &&
		subsetNodes(t.OneOf, c.OneOf) &&
		subsetNodes(t.AllOf, c.AllOf) &&
		subsetNodes(t.AnyOf, c.AnyOf) &&
		subset(t.Not, c.Not) &&
		(!t.IntOrString || c.IntOrString) &&
		(t.PreserveUnknownFields == nil || equalBoolPtr(t.PreserveUnknownFields, c.PreserveUnknownFields)) &&
		(t.ListType == "" || t.ListType == c.ListType) &&
		(t.MapType == "" || t.MapType == c.MapType)
}

func exhaustiveItems(a, b schema.Items) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case schema.ItemsSchema:
		y, ok := b.(schema.ItemsSchema)

		return ok && exhaustive(x.Schema, y.Schema)
	case schema.ItemsTuple:
		y, ok := b.(schema.ItemsTuple)

		return ok && exhaustiveNodes(x.Schemas, y.Schemas)
	default:
		return false
	}
}

func subsetItems(t, c schema.Items) bool {
	if t == nil {
		return true
	}

	switch x := t.(type) {
	case schema.ItemsSchema:
		switch y := c.(type) {
		case schema.ItemsSchema:
			return subset(x.Schema, y.Schema)
		case schema.ItemsTuple:
			for _, s := range y.Schemas {
				if subset(x.Schema, s) {
					return true
				}
			}
		}

		return false
	case schema.ItemsTuple:
		switch y := c.(type) {
		case schema.ItemsSchema:
			for _, s := range x.Schemas {
				if !subset(s, y.Schema) {
					return false
				}
			}

			return true
		case schema.ItemsTuple:
			return subsetNodes(x.Schemas, y.Schemas)
		}

		return false
	default:
		return false
	}
}

func exhaustiveAdditional(a, b schema.Additional) bool {
	switch x := a.(type) {
	case nil:
		return b == nil
	case schema.AdditionalSchema:
		y, ok := b.(schema.AdditionalSchema)

		return ok && exhaustive(x.Schema, y.Schema)
	case schema.AdditionalBool:
		y, ok := b.(schema.AdditionalBool)

		return ok && x == y
	default:
		return false
	}
}

func subsetAdditional(t, c schema.Additional) bool {
	switch x := t.(type) {
	case nil:
		return true
	case schema.AdditionalSchema:
		y, ok := c.(schema.AdditionalSchema)

		return ok && subset(x.Schema, y.Schema)
	case schema.AdditionalBool:
		y, ok := c.(schema.AdditionalBool)

		return ok && x == y
	default:
		return false
	}
}

func exhaustiveProperties(a, b map[string]*schema.Node) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}

	for k, x := range a {
		y, ok := b[k]
		if !ok || !exhaustive(x, y) {
			return false
		}
	}

	return true
}

func subsetProperties(t, c map[string]*schema.Node) bool {
	if t == nil {
		return true
	}

	if c == nil || len(t) > len(c) {
		return false
	}

	for k, x := range t {
		y, ok := c[k]
		if !ok || !subset(x, y) {
			return false
		}
	}

	return true
}

func exhaustiveNodes(a, b []*schema.Node) bool {
	if (a == nil) != (b == nil) || len(a) != len(b) {
		return false
	}

	for i := range a {
		if !exhaustive(a[i], b[i]) {
			return false
		}
	}

	return true
}

// subsetNodes requires every template element to match some candidate
// element, regardless of position.
func subsetNodes(t, c []*schema.Node) bool {
	if t == nil {
		return true
	}

	if c == nil || len(t) > len(c) {
		return false
	}

	for _, x := range t {
		found := false

		for _, y := range c {
			if subset(x, y) {
				found = true

				break
			}
		}

		if !found {
			return false
		}
	}

	return true
}

func exhaustiveStrings(a, b []string) bool {
	if (a == nil) != (b == nil) {
		return false
	}

	return slices.Equal(a, b)
}

func subsetStrings(t, c []string) bool {
	if t == nil {
		return true
	}

	if c == nil || len(t) > len(c) {
		return false
	}

	for _, x := range t {
		if !slices.Contains(c, x) {
			return false
		}
	}

	return true
}

func exhaustiveLiterals(a, b []any) bool {
	if (a == nil) != (b == nil) {
		return false
	}

	return reflect.DeepEqual(a, b)
}

func subsetLiterals(t, c []any) bool {
	if t == nil {
		return true
	}

	if c == nil {
		return false
	}

	return subsetLiteral(t, c)
}

// subsetLiteral compares decoded JSON values. Objects and arrays compare
// structurally, a null template matches anything, and scalars must be equal.
func subsetLiteral(t, c any) bool {
	switch x := t.(type) {
	case nil:
		return true
	case map[string]any:
		y, ok := c.(map[string]any)
		if !ok || len(x) > len(y) {
			return false
		}

		for k, xv := range x {
			yv, ok := y[k]
			if !ok || !subsetLiteral(xv, yv) {
				return false
			}
		}

		return true
	case []any:
		y, ok := c.([]any)
		if !ok || len(x) > len(y) {
			return false
		}

		for _, xv := range x {
			found := false

			for _, yv := range y {
				if subsetLiteral(xv, yv) {
					found = true

					break
				}
			}

			if !found {
				return false
			}
		}

		return true
	default:
		return reflect.DeepEqual(t, c)
	}
}

func equalBoolPtr(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}
