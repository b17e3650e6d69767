// Package schema provides the structural schema model read by the analyzer.
//
// A [Node] is an immutable subset of an OpenAPI v3 schema: the fields that
// influence generated types. Fields that can take one of several shapes are
// represented as sum types ([Items], [Additional]) so callers must handle
// every variant explicitly.
//
// Nodes can be built from Kubernetes JSONSchemaProps,
// raw YAML or JSON documents (optionally narrowed with a JSON pointer), or
// component schemas of an OpenAPI v3 document.
package schema
