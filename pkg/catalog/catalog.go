package catalog

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrInvalidIdentifier indicates a field name could not be escaped into
	// a legal identifier.
	ErrInvalidIdentifier = errors.New("invalid identifier")

	// ErrReferenceCycle indicates containers reference each other in a loop.
	ErrReferenceCycle = errors.New("reference cycle")
)

// Catalog is an ordered set of containers keyed by name.
//
// The first container added under a name wins; later additions with the same
// name are absorbed. Two structurally different schema branches that produce
// the same name therefore keep only the first definition.
type Catalog struct {
	index      map[string]int
	containers []Container
}

// New creates an empty [Catalog].
func New() *Catalog {
	return &Catalog{index: map[string]int{}}
}

// Add inserts c unless a container with the same name exists. It reports
// whether c was inserted.
func (cat *Catalog) Add(c Container) bool {
	if _, ok := cat.index[c.Name]; ok {
		slog.Debug("container already cataloged", slog.String("name", c.Name))

		return false
	}

	cat.index[c.Name] = len(cat.containers)
	cat.containers = append(cat.containers, c)

	return true
}

// Get returns the container with the given name.
func (cat *Catalog) Get(name string) (Container, bool) {
	i, ok := cat.index[name]
	if !ok {
		return Container{}, false
	}

	return cat.containers[i], true
}

// Containers returns the containers in insertion order.
func (cat *Catalog) Containers() []Container {
	return cat.containers
}

// Len returns the number of containers.
func (cat *Catalog) Len() int {
	return len(cat.containers)
}

// Rename converts every member name into the target naming convention. See
// [Container.Rename].
func (cat *Catalog) Rename() error {
	for i := range cat.containers {
		if err := cat.containers[i].Rename(); err != nil {
			return fmt.Errorf("rename %s: %w", cat.containers[i].Name, err)
		}
	}

	return nil
}

// BuilderHints annotates members for builder generation: optional members
// get [BuilderDefaultStripOption], required lists and maps get
// [BuilderDefault].
func (cat *Catalog) BuilderHints() {
	for i := range cat.containers {
		members := cat.containers[i].Members
		for j := range members {
			switch members[j].Type.Kind {
			case KindOptional:
				members[j].Builder = BuilderDefaultStripOption
			case KindList, KindMap:
				members[j].Builder = BuilderDefault
			default:
			}
		}
	}
}

// HasStatusResource reports whether a non-empty status container exists.
func (cat *Catalog) HasStatusResource() bool {
	for i := range cat.containers {
		c := &cat.containers[i]
		if c.IsStatusContainer() && len(c.Members) > 0 {
			return true
		}
	}

	return false
}
