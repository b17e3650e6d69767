// Package overrides implements property override rules.
//
// A rule matches a property by name (exact names or regular expressions)
// and, optionally, by the structure of its schema. When a rule matches, its
// [Action] either replaces the property's type with a literal type name or
// omits the property entirely.
//
// Rule documents are YAML or JSON:
//
//	propertyRules:
//	  - matchName:
//	      - exact: resources
//	      - regex: ^limits?$
//	    matchSchema:
//	      subset:
//	        type: object
//	    matchSuccess:
//	      replace: ResourceRequirements
//
// Schema matching compares only the fields that affect generated types.
// A "subset" match requires the property schema to contain at least the
// given fields; an "exhaustive" match requires exactly those fields.
package overrides
