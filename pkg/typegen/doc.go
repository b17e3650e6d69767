// Package typegen runs the full pipeline from a CustomResourceDefinition to
// an [Output] ready for a source emitter.
//
// For each CRD a version is selected, its schema is analyzed into a
// catalog, members are renamed to target identifiers, builder hints and
// derive lists are computed, and the resulting types are collected in
// emission order. [GenerateAll] processes many CRDs concurrently while
// keeping the input order.
package typegen
