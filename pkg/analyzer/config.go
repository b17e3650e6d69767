package analyzer

import (
	"github.com/macropower/crdtypes/pkg/catalog"
	"github.com/macropower/crdtypes/pkg/overrides"
)

// Config controls analysis.
type Config struct {
	// Overrides are consulted for every property before it is resolved.
	// A nil value applies no overrides.
	Overrides *overrides.Overrides
	// MapType is used for every produced map. Defaults to [catalog.OrderedMap].
	MapType catalog.MapType
	// DisableConditionDetection keeps condition arrays as generated types.
	DisableConditionDetection bool
	// DisableObjectReferenceDetection keeps object references as generated
	// types.
	DisableObjectReferenceDetection bool
	// Relaxed degrades ambiguous untyped values to opaque maps instead of
	// failing.
	Relaxed bool
}

func (c Config) mapType() catalog.MapType {
	if c.MapType == "" {
		return catalog.OrderedMap
	}

	return c.MapType
}
