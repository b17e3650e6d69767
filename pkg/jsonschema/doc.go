// Package jsonschema reflects Go types into JSON Schema documents.
//
// It is used to publish a schema for override rule documents, so that
// editors can validate and complete them.
package jsonschema
