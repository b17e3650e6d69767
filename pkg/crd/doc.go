// Package crd reads Kubernetes CustomResourceDefinitions and selects the
// schema of one of their versions.
//
// CRDs can be read from raw bytes, readers, files or HTTP URLs. Documents
// that are not CRDs are ignored. [FindVersion] picks a named version, or the
// one with the highest Kubernetes version priority (GA, then beta, then
// alpha).
package crd
