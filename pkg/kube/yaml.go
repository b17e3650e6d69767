// Copyright 2017-2018 The Argo Authors
// Modifications Copyright 2024-2025 Jacob Colvin
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Source:
// https://github.com/argoproj/gitops-engine/blob/54992bf42431e71f71f11647e82105530e56305e/pkg/utils/kube/kube.go#L304-L346

package kube

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"k8s.io/apimachinery/pkg/runtime"
	"sigs.k8s.io/yaml"

	kubeyaml "k8s.io/apimachinery/pkg/util/yaml"
)

var (
	ErrInvalidYAML         = errors.New("invalid yaml")
	ErrInvalidKubeResource = errors.New("invalid kubernetes resource")
)

// SplitYAML splits a YAML or JSON stream into objects. Empty documents are
// skipped, and the items of List kinds are returned in place of the list.
func SplitYAML(data []byte) ([]Object, error) {
	// Similar to what kubectl does:
	// https://github.com/kubernetes/cli-runtime/blob/master/pkg/resource/visitor.go#L573-L600
	d := kubeyaml.NewYAMLOrJSONDecoder(bytes.NewReader(data), 4096)

	var objs []Object

	for i := 0; ; i++ {
		ext := runtime.RawExtension{}
		if err := d.Decode(&ext); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}

			return nil, fmt.Errorf("%w: document %d: %w", ErrInvalidYAML, i, err)
		}

		ext.Raw = bytes.TrimSpace(ext.Raw)
		if len(ext.Raw) == 0 || bytes.Equal(ext.Raw, []byte("null")) {
			continue
		}

		obj := Object{}
		if err := yaml.Unmarshal(ext.Raw, &obj); err != nil {
			return nil, fmt.Errorf("%w: document %d: %w", ErrInvalidKubeResource, i, err)
		}

		if !obj.validate() {
			return nil, fmt.Errorf("%w: document %d: apiVersion and kind must be strings", ErrInvalidKubeResource, i)
		}

		if obj.IsList() {
			objs = append(objs, obj.Items()...)

			continue
		}

		objs = append(objs, obj)
	}

	return objs, nil
}
