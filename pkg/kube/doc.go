// Package kube reads Kubernetes manifests.
//
// [SplitYAML] decodes a multi-document YAML or JSON stream into [Object]
// values, unpacking List kinds, so that callers can pick out the resources
// they care about (for example with [Object.IsCRD]).
package kube
