package crd

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/version"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/macropower/crdtypes/pkg/kube"
	"github.com/macropower/crdtypes/pkg/schema"
)

const (
	CRDAPIVersion string = "apiextensions.k8s.io/v1"
	CRDKind       string = "CustomResourceDefinition"
)

var (
	// ErrInvalidFormat indicates an unexpected or invalid format was encountered.
	ErrInvalidFormat = errors.New("invalid format")

	// ErrVersionNotFound indicates the requested version is not served by the CRD.
	ErrVersionNotFound = errors.New("version not found")

	// ErrNoSchema indicates a CRD version without an openAPIV3Schema.
	ErrNoSchema = errors.New("no openAPIV3Schema")
)

// Decode converts a decoded CRD manifest into its typed representation.
// Only apiextensions.k8s.io/v1 is supported.
func Decode(o kube.Object) (*apiextensionsv1.CustomResourceDefinition, error) {
	if o.GetAPIVersion() != CRDAPIVersion || o.GetKind() != CRDKind {
		return nil, fmt.Errorf("%w: %s %s is not a %s %s",
			ErrInvalidFormat, o.GetAPIVersion(), o.GetKind(), CRDAPIVersion, CRDKind)
	}

	crd := &apiextensionsv1.CustomResourceDefinition{}
	if err := runtime.DefaultUnstructuredConverter.FromUnstructured(o, crd); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidFormat, o.GetName(), err)
	}

	if len(crd.Spec.Versions) == 0 {
		return nil, fmt.Errorf("%w: %s: empty spec.versions", ErrInvalidFormat, crd.Name)
	}

	return crd, nil
}

// SortedVersions returns the version names of crd, highest priority first.
func SortedVersions(crd *apiextensionsv1.CustomResourceDefinition) []string {
	names := make([]string, 0, len(crd.Spec.Versions))
	for _, v := range crd.Spec.Versions {
		names = append(names, v.Name)
	}

	slices.SortStableFunc(names, func(a, b string) int {
		return -version.CompareKubeAwareVersionStrings(a, b)
	})

	return names
}

// FindVersion returns the named version of crd. An empty name selects the
// version with the highest priority.
func FindVersion(crd *apiextensionsv1.CustomResourceDefinition, name string) (*apiextensionsv1.CustomResourceDefinitionVersion, error) {
	if name == "" {
		sorted := SortedVersions(crd)
		if len(sorted) == 0 {
			return nil, fmt.Errorf("%w: %s has no versions", ErrVersionNotFound, crd.Name)
		}

		name = sorted[0]
	}

	for i := range crd.Spec.Versions {
		if crd.Spec.Versions[i].Name == name {
			return &crd.Spec.Versions[i], nil
		}
	}

	return nil, fmt.Errorf("%w: %s has no version %q, available versions are %q",
		ErrVersionNotFound, crd.Name, name, strings.Join(SortedVersions(crd), ", "))
}

// Schema returns the openAPIV3Schema of v.
func Schema(v *apiextensionsv1.CustomResourceDefinitionVersion) (*schema.Node, error) {
	if v.Schema == nil || v.Schema.OpenAPIV3Schema == nil {
		return nil, fmt.Errorf("%w: version %s", ErrNoSchema, v.Name)
	}

	n, err := schema.FromJSONSchemaProps(v.Schema.OpenAPIV3Schema)
	if err != nil {
		return nil, fmt.Errorf("version %s: %w", v.Name, err)
	}

	return n, nil
}

// HasStatusSubresource reports whether v enables the status subresource.
func HasStatusSubresource(v *apiextensionsv1.CustomResourceDefinitionVersion) bool {
	return v.Subresources != nil && v.Subresources.Status != nil
}
