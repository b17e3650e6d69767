package analyzer

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/macropower/crdtypes/pkg/catalog"
	"github.com/macropower/crdtypes/pkg/schema"
)

var integerFormats = map[string]catalog.Primitive{
	"int8":    catalog.I8,
	"int16":   catalog.I16,
	"int32":   catalog.I32,
	"int64":   catalog.I64,
	"int128":  catalog.I128,
	"uint8":   catalog.U8,
	"uint16":  catalog.U16,
	"uint32":  catalog.U32,
	"uint64":  catalog.U64,
	"uint128": catalog.U128,
}

func isScalar(t string) bool {
	switch t {
	case schema.TypeString, schema.TypeBoolean, schema.TypeNumber, schema.TypeInteger, schema.TypeDate:
		return true
	}

	return false
}

func scalarType(n *schema.Node, path []string) (catalog.TypeRef, error) {
	switch n.Type {
	case schema.TypeString:
		switch n.Format {
		case "date":
			return catalog.PrimitiveOf(catalog.Date), nil
		case "date-time":
			return catalog.PrimitiveOf(catalog.DateTime), nil
		}

		return catalog.PrimitiveOf(catalog.String), nil
	case schema.TypeDate:
		switch n.Format {
		case "":
			return catalog.PrimitiveOf(catalog.String), nil
		case "date":
			return catalog.PrimitiveOf(catalog.Date), nil
		case "date-time":
			return catalog.PrimitiveOf(catalog.DateTime), nil
		}

		return catalog.TypeRef{}, unsupported(path, "unknown date format %q", n.Format)
	case schema.TypeBoolean:
		return catalog.PrimitiveOf(catalog.Bool), nil
	case schema.TypeNumber:
		if n.Format == "float" {
			return catalog.PrimitiveOf(catalog.F32), nil
		}

		return catalog.PrimitiveOf(catalog.F64), nil
	case schema.TypeInteger:
		if p, ok := integerFormats[n.Format]; ok {
			return catalog.PrimitiveOf(p), nil
		}

		return catalog.PrimitiveOf(catalog.I64), nil
	}

	return catalog.TypeRef{}, unsupported(path, "unknown type %q", n.Type)
}

// enumContainer builds an enum whose unit variants are the literal values
// of n.Enum, in order. Literals must all be strings or all be non-negative
// integers.
func enumContainer(n *schema.Node, name string, level int, path []string) (catalog.Container, error) {
	c := catalog.Container{Name: name, Level: level, Docs: n.Description, IsEnum: true}

	var strs, ints int

	for _, v := range n.Enum {
		var variant string

		switch x := v.(type) {
		case string:
			strs++
			variant = x
		case json.Number:
			ints++

			if _, err := strconv.ParseUint(x.String(), 10, 64); err != nil {
				return c, unsupported(path, "enum value %s is not a non-negative integer", x)
			}

			variant = x.String()
		default:
			return c, unsupported(path, "enum value of type %T", v)
		}

		c.Members = append(c.Members, catalog.Member{Name: variant, Type: catalog.NoType()})
	}

	if strs > 0 && ints > 0 {
		return c, unsupported(path, "enum mixes strings and integers")
	}

	return c, nil
}

func pathString(path []string) string {
	return strings.Join(path, ".")
}
