package schema

import (
	"slices"
)

// Schema types understood by the analyzer.
const (
	TypeObject  = "object"
	TypeArray   = "array"
	TypeString  = "string"
	TypeBoolean = "boolean"
	TypeNumber  = "number"
	TypeInteger = "integer"
	// TypeDate is not part of OpenAPI, but appears in the wild.
	TypeDate = "date"
)

// Node is a single schema node.
//
// A nil slice, map or pointer means the field was absent in the source.
type Node struct {
	Type        string
	Format      string
	Description string

	Properties map[string]*Node
	Required   []string
	// Enum holds decoded JSON literals. Numbers are [json.Number].
	Enum []any

	Items                Items
	AdditionalItems      Additional
	AdditionalProperties Additional

	OneOf []*Node
	AllOf []*Node
	AnyOf []*Node
	Not   *Node

	IntOrString           bool
	PreserveUnknownFields *bool
	ListType              string
	MapType               string
}

// Items is either [ItemsSchema] or [ItemsTuple].
type Items interface {
	isItems()
}

// ItemsSchema is a single schema applied to every array element.
type ItemsSchema struct {
	Schema *Node
}

// ItemsTuple is a positional list of element schemas.
type ItemsTuple struct {
	Schemas []*Node
}

func (ItemsSchema) isItems() {}
func (ItemsTuple) isItems()  {}

// Additional is either [AdditionalSchema] or [AdditionalBool].
type Additional interface {
	isAdditional()
}

// AdditionalSchema constrains additional entries with a schema.
type AdditionalSchema struct {
	Schema *Node
}

// AdditionalBool allows or forbids additional entries.
type AdditionalBool bool

func (AdditionalSchema) isAdditional() {}
func (AdditionalBool) isAdditional()   {}

// SortedKeys returns the property keys in lexical order.
func (n *Node) SortedKeys() []string {
	keys := make([]string, 0, len(n.Properties))
	for k := range n.Properties {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

// IsRequired reports whether key is listed in required.
func (n *Node) IsRequired(key string) bool {
	return slices.Contains(n.Required, key)
}

// PreservesUnknownFields reports whether x-kubernetes-preserve-unknown-fields
// is set to true.
func (n *Node) PreservesUnknownFields() bool {
	return n.PreserveUnknownFields != nil && *n.PreserveUnknownFields
}

// HasProperties reports whether all of keys are present in properties.
func (n *Node) HasProperties(keys ...string) bool {
	for _, k := range keys {
		if _, ok := n.Properties[k]; !ok {
			return false
		}
	}

	return true
}
