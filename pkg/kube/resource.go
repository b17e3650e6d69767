package kube

import "strings"

// Object is a decoded Kubernetes resource.
type Object map[string]any

// GetKind returns the kind field of the resource.
func (o Object) GetKind() string {
	v, _ := o["kind"].(string)

	return v
}

// GetAPIVersion returns the apiVersion field of the resource.
func (o Object) GetAPIVersion() string {
	v, _ := o["apiVersion"].(string)

	return v
}

// GetName returns the metadata.name field of the resource.
func (o Object) GetName() string {
	metadata, ok := o["metadata"].(map[string]any)
	if !ok {
		return ""
	}

	v, _ := metadata["name"].(string)

	return v
}

// IsCRD reports whether the resource is a CustomResourceDefinition of any
// apiextensions version.
func (o Object) IsCRD() bool {
	return strings.HasPrefix(o.GetAPIVersion(), "apiextensions.k8s.io/") &&
		o.GetKind() == "CustomResourceDefinition"
}

// IsList reports whether the resource is a v1 List or a typed *List kind
// carrying items.
func (o Object) IsList() bool {
	_, ok := o["items"].([]any)

	return ok && strings.HasSuffix(o.GetKind(), "List")
}

// Items returns the list items that are themselves objects.
func (o Object) Items() []Object {
	raw, _ := o["items"].([]any)

	items := make([]Object, 0, len(raw))
	for _, item := range raw {
		if m, ok := item.(map[string]any); ok {
			items = append(items, Object(m))
		}
	}

	return items
}

func (o Object) validate() bool {
	for _, key := range []string{"apiVersion", "kind"} {
		if v, ok := o[key]; ok {
			if _, ok := v.(string); !ok {
				return false
			}
		}
	}

	return true
}
