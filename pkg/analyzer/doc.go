// Package analyzer walks a [schema.Node] and produces a [catalog.Catalog] of
// the struct and enum containers needed to represent it.
//
// Analysis is a single depth-first pass. Properties are visited in key
// order, so identical input always yields the same containers in the same
// order. Any construct that cannot be represented fails the whole call with
// a [*PathError] naming the offending property.
package analyzer
