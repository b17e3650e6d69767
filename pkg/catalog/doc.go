// Package catalog holds the output of schema analysis: an ordered,
// name-deduplicated set of [Container] definitions whose members are typed
// with [TypeRef] trees.
//
// After analysis, the catalog is finished by post passes that run once and
// in order: [Catalog.Rename] converts wire names into target identifiers,
// [Catalog.BuilderHints] annotates members for builder generation, and
// [Catalog.CanDeriveDefault] answers default-derivability questions using an
// explicit [DeriveMemo].
package catalog
