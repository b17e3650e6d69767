package catalog

import (
	"strings"
)

// BuilderHint annotates a member for builder generation.
type BuilderHint string

const (
	// BuilderNone means the member must be set explicitly.
	BuilderNone BuilderHint = ""
	// BuilderDefault means the member may be omitted and defaults.
	BuilderDefault BuilderHint = "default"
	// BuilderDefaultStripOption means the member may be omitted, and its
	// setter accepts the unwrapped value.
	BuilderDefaultStripOption BuilderHint = "default,strip_option"
)

// Container is a generated struct or enum definition.
type Container struct {
	// Name is the PascalCase concatenation of the path from the root kind.
	Name string
	// Docs is the schema description, if any.
	Docs    string
	Members []Member
	// Level is the recursion depth. The root container has level 0.
	Level  int
	IsEnum bool
}

// Member is a struct field or an enum variant.
type Member struct {
	// Name is the raw wire key until [Container.Rename] converts it.
	Name string
	// Rename holds the wire key when it differs from Name.
	Rename  *string
	Docs    string
	Builder BuilderHint
	Type    TypeRef
	// Required is set for members produced from required properties.
	Required bool
}

// WireName returns the key used on the wire.
func (m Member) WireName() string {
	if m.Rename != nil {
		return *m.Rename
	}

	return m.Name
}

// IsRoot reports whether c is the top-level container.
func (c *Container) IsRoot() bool {
	return c.Level == 0
}

// IsMainContainer reports whether c is the resource's spec.
func (c *Container) IsMainContainer() bool {
	return c.Level == 1 && strings.HasSuffix(c.Name, "Spec")
}

// IsStatusContainer reports whether c is the resource's status.
func (c *Container) IsStatusContainer() bool {
	return c.Level == 1 && strings.HasSuffix(c.Name, "Status")
}

// UsesMap reports whether any member uses a map of representation mt.
func (c *Container) UsesMap(mt MapType) bool {
	return c.anyMember(func(t TypeRef) bool {
		return t.Kind == KindMap && t.Map == mt
	})
}

// UsesDate reports whether any member uses the date primitive.
func (c *Container) UsesDate() bool {
	return c.usesPrimitive(Date)
}

// UsesDateTime reports whether any member uses the date-time primitive.
func (c *Container) UsesDateTime() bool {
	return c.usesPrimitive(DateTime)
}

// UsesIntOrString reports whether any member uses the int-or-string type.
func (c *Container) UsesIntOrString() bool {
	return c.usesWellKnown(IntOrString)
}

// UsesObjectReference reports whether any member uses object references.
func (c *Container) UsesObjectReference() bool {
	return c.usesWellKnown(ObjectReference)
}

// ContainsConditions reports whether any member is a list of conditions.
func (c *Container) ContainsConditions() bool {
	return c.anyMember(func(t TypeRef) bool {
		return t.Kind == KindList && t.Elem != nil &&
			t.Elem.Kind == KindWellKnown && t.Elem.WellKnown == Condition
	})
}

func (c *Container) usesPrimitive(p Primitive) bool {
	return c.anyMember(func(t TypeRef) bool {
		return t.Kind == KindPrimitive && t.Primitive == p
	})
}

func (c *Container) usesWellKnown(w WellKnown) bool {
	return c.anyMember(func(t TypeRef) bool {
		return t.Kind == KindWellKnown && t.WellKnown == w
	})
}

func (c *Container) anyMember(pred func(TypeRef) bool) bool {
	for _, m := range c.Members {
		if m.Type.Contains(pred) {
			return true
		}
	}

	return false
}
