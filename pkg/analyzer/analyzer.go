package analyzer

import (
	"log/slog"
	"slices"

	"github.com/macropower/crdtypes/pkg/catalog"
	"github.com/macropower/crdtypes/pkg/schema"
)

// Root keys that the surrounding resource model provides. They are kept as
// members of the root container, but their schemas are not explored.
var rootKeys = []string{"metadata", "apiVersion", "kind"}

var objectReferenceKeys = []string{
	"apiVersion", "fieldPath", "kind", "name", "namespace", "resourceVersion", "uid",
}

var conditionKeys = []string{
	"type", "status", "reason", "message", "lastTransitionTime",
}

// Analyze resolves node into containers named after kind. The root
// container is always first and has level 0.
func Analyze(node *schema.Node, kind string, cfg Config) (*catalog.Catalog, error) {
	if node == nil {
		return nil, unsupported(nil, "missing schema")
	}

	a := &analyzer{cfg: cfg, mapType: cfg.mapType()}

	var (
		containers []catalog.Container
		err        error
	)

	switch {
	case isScalar(node.Type) && len(node.Enum) > 0:
		// A scalar enum at the top level becomes the root itself.
		var c catalog.Container

		c, err = enumContainer(node, kind, 0, nil)
		containers = []catalog.Container{c}
	case node.Type == schema.TypeObject, node.Type == "" && node.Properties != nil:
		containers, err = a.structOf(node, kind, 0, nil, node.Description)
	default:
		err = unsupported(nil, "root type %q is not an object", node.Type)
	}

	if err != nil {
		return nil, err
	}

	cat := catalog.New()
	for _, c := range containers {
		cat.Add(c)
	}

	slog.Debug("analyzed schema",
		slog.String("kind", kind),
		slog.Int("containers", cat.Len()),
	)

	return cat, nil
}

type analyzer struct {
	mapType catalog.MapType
	cfg     Config
}

// structOf builds the struct container for the properties of n, followed by
// every container found beneath it.
func (a *analyzer) structOf(n *schema.Node, name string, level int, path []string, docs string) ([]catalog.Container, error) {
	c := catalog.Container{Name: name, Level: level, Docs: docs}

	var children []catalog.Container

	for _, key := range n.SortedKeys() {
		prop := n.Properties[key]
		if prop == nil {
			continue
		}

		propPath := append(slices.Clone(path), key)
		childName := name + catalog.UpperCamel(key)

		var (
			t     catalog.TypeRef
			found []catalog.Container
			err   error
		)

		action, ok := a.cfg.Overrides.Action(key, prop)

		switch {
		case ok && action.Omit:
			slog.Debug("omitting property", slog.String("path", pathString(propPath)))

			continue
		case ok:
			t = catalog.Reference(action.Replace)
		case level == 0 && slices.Contains(rootKeys, key):
			t, err = a.shallow(prop, childName, level+1, propPath)
		default:
			t, found, err = a.resolve(prop, childName, level+1, propPath)
		}

		if err != nil {
			return nil, err
		}

		required := n.IsRequired(key)
		if !required {
			t = catalog.Optional(t)
		}

		c.Members = append(c.Members, catalog.Member{
			Name:     key,
			Type:     t,
			Required: required,
			Docs:     prop.Description,
		})

		children = append(children, found...)
	}

	return append([]catalog.Container{c}, children...), nil
}

// resolve returns the type of n and the containers it needs. Any container
// created for n itself is called name and placed at level.
func (a *analyzer) resolve(n *schema.Node, name string, level int, path []string) (catalog.TypeRef, []catalog.Container, error) {
	switch n.Type {
	case schema.TypeObject:
		return a.resolveObject(n, name, level, path)
	case schema.TypeArray:
		return a.resolveArray(n, name, level, path)
	case "":
		t, err := a.resolveUntyped(n, path)

		return t, nil, err
	}

	if len(n.Enum) > 0 {
		if !isScalar(n.Type) {
			return catalog.TypeRef{}, nil, unsupported(path, "enum on type %q", n.Type)
		}

		c, err := enumContainer(n, name, level, path)
		if err != nil {
			return catalog.TypeRef{}, nil, err
		}

		return catalog.Reference(name), []catalog.Container{c}, nil
	}

	t, err := scalarType(n, path)

	return t, nil, err
}

func (a *analyzer) resolveObject(n *schema.Node, name string, level int, path []string) (catalog.TypeRef, []catalog.Container, error) {
	if !a.cfg.DisableObjectReferenceDetection && isObjectReference(n) {
		return catalog.WellKnownOf(catalog.ObjectReference), nil, nil
	}

	switch add := n.AdditionalProperties.(type) {
	case schema.AdditionalSchema:
		if add.Schema == nil {
			break
		}

		if len(add.Schema.Properties) > 0 {
			// Map values are structs named after the map itself.
			cs, err := a.structOf(add.Schema, name, level, path, n.Description)
			if err != nil {
				return catalog.TypeRef{}, nil, err
			}

			return catalog.Map(catalog.Reference(name), a.mapType), cs, nil
		}

		// Scalar, list and nested map values are inlined at the same name
		// and level.
		t, cs, err := a.resolve(add.Schema, name, level, path)
		if err != nil {
			return catalog.TypeRef{}, nil, err
		}

		return catalog.Map(t, a.mapType), cs, nil
	case schema.AdditionalBool:
		if add && len(n.Properties) == 0 {
			return catalog.Map(catalog.Opaque(), a.mapType), nil, nil
		}
	case nil:
	}

	if len(n.Properties) == 0 && n.PreservesUnknownFields() {
		slog.Debug("using opaque map for object", slog.String("path", pathString(path)))

		return catalog.Map(catalog.Opaque(), a.mapType), nil, nil
	}

	cs, err := a.structOf(n, name, level, path, n.Description)
	if err != nil {
		return catalog.TypeRef{}, nil, err
	}

	return catalog.Reference(name), cs, nil
}

// resolveArray unwraps nested arrays depth first. The element type is
// wrapped in one List per array level, and element containers take the
// array's own name and level.
func (a *analyzer) resolveArray(n *schema.Node, name string, level int, path []string) (catalog.TypeRef, []catalog.Container, error) {
	var (
		elem  *schema.Node
		depth int
	)

	for cur := n; elem == nil; {
		switch items := cur.Items.(type) {
		case schema.ItemsSchema:
			depth++

			if items.Schema != nil && items.Schema.Type == schema.TypeArray {
				cur = items.Schema

				continue
			}

			elem = items.Schema
			if elem == nil {
				elem = &schema.Node{}
			}
		case schema.ItemsTuple:
			return catalog.TypeRef{}, nil, unsupported(path, "tuple-typed arrays")
		case nil:
			if !a.cfg.Relaxed {
				return catalog.TypeRef{}, nil, unsupported(path, "array without items")
			}

			slog.Warn("using opaque map for array without items", slog.String("path", pathString(path)))

			return wrapList(catalog.Map(catalog.Opaque(), a.mapType), depth), nil, nil
		}
	}

	if !a.cfg.DisableConditionDetection && elem.HasProperties(conditionKeys...) {
		return wrapList(catalog.WellKnownOf(catalog.Condition), depth), nil, nil
	}

	if isScalar(elem.Type) && len(elem.Enum) > 0 {
		// Enum elements keep their scalar type.
		e := *elem
		e.Enum = nil
		elem = &e
	}

	t, cs, err := a.resolve(elem, name, level, path)
	if err != nil {
		return catalog.TypeRef{}, nil, err
	}

	return wrapList(t, depth), cs, nil
}

func (a *analyzer) resolveUntyped(n *schema.Node, path []string) (catalog.TypeRef, error) {
	switch {
	case n.IntOrString:
		return catalog.WellKnownOf(catalog.IntOrString), nil
	case n.PreservesUnknownFields():
		return catalog.Opaque(), nil
	case a.cfg.Relaxed:
		slog.Debug("using opaque map for untyped value", slog.String("path", pathString(path)))

		return catalog.Map(catalog.Opaque(), a.mapType), nil
	default:
		return catalog.TypeRef{}, unsupported(path, "untyped value without int-or-string or preserve-unknown-fields")
	}
}

// shallow resolves a root key without creating containers for it.
func (a *analyzer) shallow(n *schema.Node, name string, level int, path []string) (catalog.TypeRef, error) {
	if n.Type == schema.TypeObject {
		return catalog.Reference(name), nil
	}

	t, _, err := a.resolve(n, name, level, path)

	return t, err
}

func isObjectReference(n *schema.Node) bool {
	return len(n.Properties) == len(objectReferenceKeys) && n.HasProperties(objectReferenceKeys...)
}

func wrapList(t catalog.TypeRef, depth int) catalog.TypeRef {
	for range depth {
		t = catalog.List(t)
	}

	return t
}
