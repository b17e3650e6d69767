package typegen

import (
	"github.com/macropower/crdtypes/pkg/catalog"
)

// Output describes the types generated for one CRD version.
type Output struct {
	Group   string `json:"group,omitempty" yaml:"group,omitempty"`
	Version string `json:"version,omitempty" yaml:"version,omitempty"`
	Kind    string `json:"kind" yaml:"kind"`
	Plural  string `json:"plural,omitempty" yaml:"plural,omitempty"`
	Scope   string `json:"scope,omitempty" yaml:"scope,omitempty"`
	// Status names the status type when the resource has a status
	// subresource with at least one field.
	Status string `json:"status,omitempty" yaml:"status,omitempty"`
	// Types are the generated containers in emission order. The root
	// container and elided containers are not included.
	Types []Type `json:"types" yaml:"types"`
	// Imports lists the well-known or library types the output depends on.
	Imports []string `json:"imports,omitempty" yaml:"imports,omitempty"`
}

// Type is a generated struct or enum.
type Type struct {
	Name    string   `json:"name" yaml:"name"`
	Docs    string   `json:"docs,omitempty" yaml:"docs,omitempty"`
	Derives []string `json:"derives" yaml:"derives"`
	Fields  []Field  `json:"fields,omitempty" yaml:"fields,omitempty"`
	// Variants are the unit variants of an enum.
	Variants []Variant `json:"variants,omitempty" yaml:"variants,omitempty"`
	Level    int       `json:"level" yaml:"level"`
	Enum     bool      `json:"enum,omitempty" yaml:"enum,omitempty"`
	// Main is set for the resource's spec type.
	Main bool `json:"main,omitempty" yaml:"main,omitempty"`
}

// Field is a struct member.
type Field struct {
	Name     string `json:"name" yaml:"name"`
	Rename   string `json:"rename,omitempty" yaml:"rename,omitempty"`
	Type     string `json:"type" yaml:"type"`
	Docs     string `json:"docs,omitempty" yaml:"docs,omitempty"`
	Builder  string `json:"builder,omitempty" yaml:"builder,omitempty"`
	Required bool   `json:"required" yaml:"required"`
}

// Variant is an enum variant.
type Variant struct {
	Name   string `json:"name" yaml:"name"`
	Rename string `json:"rename,omitempty" yaml:"rename,omitempty"`
	Docs   string `json:"docs,omitempty" yaml:"docs,omitempty"`
}

// Import names for [Output.Imports].
const (
	ImportOrderedMap      = "OrderedMap"
	ImportUnorderedMap    = "UnorderedMap"
	ImportDate            = "Date"
	ImportDateTime        = "DateTime"
	ImportIntOrString     = "IntOrString"
	ImportCondition       = "Condition"
	ImportObjectReference = "ObjectReference"
)

// imports returns the dependencies of cs, in a fixed order.
func imports(cs []catalog.Container) []string {
	checks := []struct {
		uses func(c *catalog.Container) bool
		name string
	}{
		{name: ImportOrderedMap, uses: func(c *catalog.Container) bool { return c.UsesMap(catalog.OrderedMap) }},
		{name: ImportUnorderedMap, uses: func(c *catalog.Container) bool { return c.UsesMap(catalog.UnorderedMap) }},
		{name: ImportDateTime, uses: (*catalog.Container).UsesDateTime},
		{name: ImportDate, uses: (*catalog.Container).UsesDate},
		{name: ImportIntOrString, uses: (*catalog.Container).UsesIntOrString},
		{name: ImportCondition, uses: (*catalog.Container).ContainsConditions},
		{name: ImportObjectReference, uses: (*catalog.Container).UsesObjectReference},
	}

	var out []string

	for _, check := range checks {
		for i := range cs {
			if check.uses(&cs[i]) {
				out = append(out, check.name)

				break
			}
		}
	}

	return out
}
