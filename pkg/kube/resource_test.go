package kube_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/macropower/crdtypes/pkg/kube"
)

func TestObject_GetKind(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		obj  kube.Object
		want string
	}{
		"valid kind": {
			obj: kube.Object{
				"kind": "Pod",
			},
			want: "Pod",
		},
		"missing kind": {
			obj:  kube.Object{},
			want: "",
		},
		"nil object": {
			obj:  nil,
			want: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := tc.obj.GetKind()
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestObject_GetAPIVersion(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		obj  kube.Object
		want string
	}{
		"valid apiVersion": {
			obj: kube.Object{
				"apiVersion": "v1",
			},
			want: "v1",
		},
		"valid apiVersion with group": {
			obj: kube.Object{
				"apiVersion": "apps/v1",
			},
			want: "apps/v1",
		},
		"missing apiVersion": {
			obj:  kube.Object{},
			want: "",
		},
		"nil object": {
			obj:  nil,
			want: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := tc.obj.GetAPIVersion()
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestObject_GetName(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		obj  kube.Object
		want string
	}{
		"valid name": {
			obj: kube.Object{
				"metadata": map[string]any{
					"name": "my-pod",
				},
			},
			want: "my-pod",
		},
		"missing metadata": {
			obj:  kube.Object{},
			want: "",
		},
		"missing name in metadata": {
			obj: kube.Object{
				"metadata": map[string]any{},
			},
			want: "",
		},
		"nil object": {
			obj:  nil,
			want: "",
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := tc.obj.GetName()
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestObject_IsCRD(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		obj  kube.Object
		want bool
	}{
		"valid CRD v1": {
			obj: kube.Object{
				"apiVersion": "apiextensions.k8s.io/v1",
				"kind":       "CustomResourceDefinition",
			},
			want: true,
		},
		"valid CRD v1beta1": {
			obj: kube.Object{
				"apiVersion": "apiextensions.k8s.io/v1beta1",
				"kind":       "CustomResourceDefinition",
			},
			want: true,
		},
		"wrong apiVersion": {
			obj: kube.Object{
				"apiVersion": "v1",
				"kind":       "CustomResourceDefinition",
			},
			want: false,
		},
		"wrong kind": {
			obj: kube.Object{
				"apiVersion": "apiextensions.k8s.io/v1",
				"kind":       "Pod",
			},
			want: false,
		},
		"regular pod": {
			obj: kube.Object{
				"apiVersion": "v1",
				"kind":       "Pod",
			},
			want: false,
		},
		"empty object": {
			obj:  kube.Object{},
			want: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got := tc.obj.IsCRD()
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestObject_Items(t *testing.T) {
	t.Parallel()

	tcs := map[string]struct {
		obj    kube.Object
		kinds  []string
		isList bool
	}{
		"list": {
			obj: kube.Object{
				"apiVersion": "v1",
				"kind":       "List",
				"items": []any{
					map[string]any{"kind": "ConfigMap"},
					"not-an-object",
					map[string]any{"kind": "Secret"},
				},
			},
			kinds:  []string{"ConfigMap", "Secret"},
			isList: true,
		},
		"typed list": {
			obj: kube.Object{
				"apiVersion": "apiextensions.k8s.io/v1",
				"kind":       "CustomResourceDefinitionList",
				"items":      []any{map[string]any{"kind": "CustomResourceDefinition"}},
			},
			kinds:  []string{"CustomResourceDefinition"},
			isList: true,
		},
		"items on a non-list kind": {
			obj: kube.Object{
				"kind":  "Widget",
				"items": []any{map[string]any{"kind": "Gadget"}},
			},
			kinds:  []string{"Gadget"},
			isList: false,
		},
		"list without items": {
			obj:    kube.Object{"kind": "List"},
			kinds:  []string{},
			isList: false,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.isList, tc.obj.IsList())

			kinds := []string{}
			for _, item := range tc.obj.Items() {
				kinds = append(kinds, item.GetKind())
			}

			assert.Equal(t, tc.kinds, kinds)
		})
	}
}
