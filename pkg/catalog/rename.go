package catalog

import (
	"fmt"
	"strings"

	"github.com/iancoleman/strcase"
)

// Sentinel names for degenerate wire names.
const (
	EmptyVariant      = "EmptyVariant"
	DashVariant       = "DashVariant"
	UnderscoreVariant = "UnderscoreVariant"

	EmptyField      = "empty_field"
	DashField       = "dash_field"
	UnderscoreField = "underscore_field"
)

// reservedWords are keywords of the emitted language. Generated identifiers
// that collide with one are suffixed with "_".
var reservedWords = map[string]bool{
	"abstract": true, "as": true, "async": true, "await": true, "become": true,
	"box": true, "break": true, "const": true, "continue": true, "crate": true,
	"do": true, "dyn": true, "else": true, "enum": true, "extern": true,
	"false": true, "final": true, "fn": true, "for": true, "gen": true,
	"if": true, "impl": true, "in": true, "let": true, "loop": true,
	"macro": true, "match": true, "mod": true, "move": true, "mut": true,
	"override": true, "priv": true, "pub": true, "ref": true, "return": true,
	"self": true, "Self": true, "static": true, "struct": true, "super": true,
	"trait": true, "true": true, "try": true, "type": true, "typeof": true,
	"unsafe": true, "unsized": true, "use": true, "virtual": true, "where": true,
	"while": true, "yield": true,
}

// Rename converts member names: UpperCamelCase for enum variants,
// snake_case for struct fields. Names that change keep their wire name in
// [Member.Rename]. Names colliding with an earlier member are suffixed with
// "X" (variants) or "_x" (fields) until unique.
//
// Rename is idempotent.
func (c *Container) Rename() error {
	suffix := "_x"
	if c.IsEnum {
		suffix = "X"
	}

	seen := make(map[string]bool, len(c.Members))

	for i := range c.Members {
		m := &c.Members[i]
		raw := m.WireName()

		var name string
		if c.IsEnum {
			name = variantName(raw, i)
		} else {
			var err error

			name, err = fieldName(raw)
			if err != nil {
				return err
			}
		}

		for seen[name] {
			name += suffix
		}

		seen[name] = true

		m.Name = name
		m.Rename = nil

		if name != raw {
			m.Rename = &raw
		}
	}

	return nil
}

func variantName(raw string, i int) string {
	var name string

	switch raw {
	case "":
		name = EmptyVariant
	case "-":
		name = DashVariant
	case "_":
		name = UnderscoreVariant
	default:
		name = UpperCamel(raw)
	}

	if escaped, ok := escape(name); ok {
		return escaped
	}

	return fmt.Sprintf("Variant%d", i)
}

func fieldName(raw string) (string, error) {
	switch raw {
	case "":
		return EmptyField, nil
	case "-":
		return DashField, nil
	case "_":
		return UnderscoreField, nil
	}

	name, ok := escape(strcase.ToSnake(words(raw)))
	if !ok {
		return "", fmt.Errorf("%w: field %q", ErrInvalidIdentifier, raw)
	}

	return name, nil
}

// UpperCamel converts s to UpperCamelCase. Words are split before casing,
// so runs of capitals keep their boundary: HTTPRoute becomes HttpRoute and
// IPAddress becomes IpAddress.
func UpperCamel(s string) string {
	return strcase.ToCamel(strcase.ToSnake(words(s)))
}

// words replaces every character that cannot appear in an identifier with a
// word separator.
func words(s string) string {
	return strings.Map(func(r rune) rune {
		if isIdentRune(r) {
			return r
		}

		return ' '
	}, s)
}

// escape turns name into a legal, non-reserved identifier if it can.
func escape(name string) (string, bool) {
	if isIdentifier(name) {
		if reservedWords[name] {
			return name + "_", true
		}

		return name, true
	}

	if name != "" && isIdentifier("_"+name) {
		return "_" + name, true
	}

	return "", false
}

func isIdentifier(s string) bool {
	if s == "" || s == "_" {
		return false
	}

	for i, r := range s {
		if !isIdentRune(r) || (i == 0 && r >= '0' && r <= '9') {
			return false
		}
	}

	return true
}

func isIdentRune(r rune) bool {
	return r == '_' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
