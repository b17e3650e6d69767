package catalog

import (
	"fmt"
	"strings"
)

// DeriveMemo caches default-derivability answers per container name.
//
// A memo is tied to one [Catalog] and must not be shared across catalogs.
type DeriveMemo struct {
	results  map[string]bool
	visiting map[string]bool
}

// NewDeriveMemo creates an empty [DeriveMemo].
func NewDeriveMemo() *DeriveMemo {
	return &DeriveMemo{
		results:  map[string]bool{},
		visiting: map[string]bool{},
	}
}

// Lookup returns a cached answer.
func (m *DeriveMemo) Lookup(name string) (bool, bool) {
	v, ok := m.results[name]

	return v, ok
}

// CanDeriveDefault reports whether a default value can be derived for the
// named container. Enums never can. A struct can when every member that is a
// direct reference points at a derivable container. Optional, list and map
// members always can, as do references to names outside the catalog.
//
// A lookup of a container that is still being computed answers true and is
// not cached. A nil memo uses a fresh one.
func (cat *Catalog) CanDeriveDefault(name string, memo *DeriveMemo) bool {
	if memo == nil {
		memo = NewDeriveMemo()
	}

	c, ok := cat.Get(name)
	if !ok {
		return true
	}

	if c.IsEnum {
		return false
	}

	if v, ok := memo.results[name]; ok {
		return v
	}

	if memo.visiting[name] {
		return true
	}

	memo.visiting[name] = true

	result := true

	for _, m := range c.Members {
		if m.Type.Kind != KindReference {
			continue
		}

		if !cat.CanDeriveDefault(m.Type.Name, memo) {
			result = false

			break
		}
	}

	delete(memo.visiting, name)
	memo.results[name] = result

	return result
}

// VerifyAcyclic returns an error wrapping [ErrReferenceCycle] if any
// container reaches itself through member references.
func (cat *Catalog) VerifyAcyclic() error {
	const (
		unvisited = iota
		active
		done
	)

	state := make(map[string]int, len(cat.containers))

	var path []string

	var visit func(name string) error

	visit = func(name string) error {
		c, ok := cat.Get(name)
		if !ok {
			return nil
		}

		switch state[name] {
		case done:
			return nil
		case active:
			return fmt.Errorf("%w: %s -> %s", ErrReferenceCycle, strings.Join(path, " -> "), name)
		}

		state[name] = active
		path = append(path, name)

		for _, m := range c.Members {
			ref, ok := m.Type.References()
			if !ok {
				continue
			}

			if err := visit(ref); err != nil {
				return err
			}
		}

		path = path[:len(path)-1]
		state[name] = done

		return nil
	}

	for _, c := range cat.containers {
		if err := visit(c.Name); err != nil {
			return err
		}
	}

	return nil
}
