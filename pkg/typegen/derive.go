package typegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"

	"github.com/macropower/crdtypes/pkg/catalog"
)

// TraitDefault is the trait that is never derived for enums, and that smart
// derive elision removes from structs that cannot default.
const TraitDefault = "Default"

// ErrInvalidDerive indicates a derive specification could not be parsed.
var ErrInvalidDerive = errors.New("invalid derive")

// TargetKind selects which containers a [Derive] applies to.
type TargetKind uint8

const (
	// TargetAll applies to every container.
	TargetAll TargetKind = iota
	// TargetType applies to the container with a given name.
	TargetType
	// TargetStructs applies to every struct.
	TargetStructs
	// TargetEnums applies to every enum, or only to unit-only enums.
	TargetEnums
)

// Derive is a trait to derive and the containers to derive it for.
type Derive struct {
	// Name is the container name for [TargetType].
	Name  string
	Trait string
	// UnitOnly restricts [TargetEnums] to enums whose variants carry no
	// type.
	UnitOnly bool
	Target   TargetKind
}

// ParseDerive parses a derive specification:
//
//	Trait                 every container
//	TypeName=Trait        one container
//	@struct=Trait         every struct (also @structs)
//	@enum=Trait           every enum (also @enums)
//	@enum:simple=Trait    every unit-only enum (also @enums:simple)
func ParseDerive(s string) (Derive, error) {
	target, trait, ok := strings.Cut(s, "=")
	if !ok {
		if s == "" {
			return Derive{}, fmt.Errorf("%w: derived trait cannot be empty", ErrInvalidDerive)
		}

		return Derive{Target: TargetAll, Trait: s}, nil
	}

	if target == "" {
		return Derive{}, fmt.Errorf("%w: derive target cannot be empty in %q", ErrInvalidDerive, s)
	}

	if trait == "" {
		return Derive{}, fmt.Errorf("%w: derived trait cannot be empty in %q", ErrInvalidDerive, s)
	}

	name, isGroup := strings.CutPrefix(target, "@")
	if !isGroup {
		return Derive{Target: TargetType, Name: target, Trait: trait}, nil
	}

	switch name {
	case "struct", "structs":
		return Derive{Target: TargetStructs, Trait: trait}, nil
	case "enum", "enums":
		return Derive{Target: TargetEnums, Trait: trait}, nil
	case "enum:simple", "enums:simple":
		return Derive{Target: TargetEnums, UnitOnly: true, Trait: trait}, nil
	}

	return Derive{}, fmt.Errorf("%w: unknown derive target @%s, must be one of @struct, @enum, or @enum:simple",
		ErrInvalidDerive, name)
}

// ParseDerives parses every specification, reporting all failures.
func ParseDerives(specs ...string) ([]Derive, error) {
	var merr error

	derives := make([]Derive, 0, len(specs))

	for _, s := range specs {
		d, err := ParseDerive(s)
		if err != nil {
			merr = multierror.Append(merr, err)

			continue
		}

		derives = append(derives, d)
	}

	if merr != nil {
		return nil, merr
	}

	return derives, nil
}

// AppliesTo reports whether d targets c. Default never applies to enums.
func (d Derive) AppliesTo(c *catalog.Container) bool {
	if c.IsEnum && d.Trait == TraitDefault {
		return false
	}

	switch d.Target {
	case TargetAll:
		return true
	case TargetType:
		return c.Name == d.Name
	case TargetStructs:
		return !c.IsEnum
	case TargetEnums:
		if !c.IsEnum {
			return false
		}

		if d.UnitOnly {
			for _, m := range c.Members {
				if m.Type.Kind != catalog.KindNone {
					return false
				}
			}
		}

		return true
	}

	return false
}

// String returns the specification d was parsed from.
func (d Derive) String() string {
	switch d.Target {
	case TargetType:
		return d.Name + "=" + d.Trait
	case TargetStructs:
		return "@struct=" + d.Trait
	case TargetEnums:
		if d.UnitOnly {
			return "@enum:simple=" + d.Trait
		}

		return "@enum=" + d.Trait
	case TargetAll:
	}

	return d.Trait
}
