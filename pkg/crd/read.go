package crd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"

	"github.com/klauspost/compress/gzip"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/macropower/crdtypes/pkg/kube"
)

// ErrHTTPStatus indicates a non-2xx response.
var ErrHTTPStatus = errors.New("unexpected http status")

// HTTPDoer is the interface for making HTTP requests.
// See [*net/http.Client] for an implementation.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// FromData reads every CRD in a YAML or JSON stream, which may be
// gzip-compressed. Other resources are skipped.
func FromData(data []byte) ([]*apiextensionsv1.CustomResourceDefinition, error) {
	data, err := decompress(data)
	if err != nil {
		return nil, err
	}

	objs, err := kube.SplitYAML(data)
	if err != nil {
		return nil, fmt.Errorf("split yaml: %w", err)
	}

	crds := []*apiextensionsv1.CustomResourceDefinition{}

	for _, o := range objs {
		if !o.IsCRD() {
			slog.Debug("skipping resource",
				slog.String("kind", o.GetKind()),
				slog.String("name", o.GetName()),
			)

			continue
		}

		crd, err := Decode(o)
		if err != nil {
			return nil, err
		}

		crds = append(crds, crd)
	}

	return crds, nil
}

// FromReader reads every CRD from r.
func FromReader(r io.Reader) ([]*apiextensionsv1.CustomResourceDefinition, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	return FromData(data)
}

// FromPaths reads every CRD from the given files, in order.
func FromPaths(paths ...string) ([]*apiextensionsv1.CustomResourceDefinition, error) {
	crds := []*apiextensionsv1.CustomResourceDefinition{}

	for _, path := range paths {
		c, err := FromPath(path)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}

		crds = append(crds, c...)
	}

	return crds, nil
}

// FromPath reads every CRD from the file at path.
func FromPath(path string) ([]*apiextensionsv1.CustomResourceDefinition, error) {
	//nolint:gosec // G304 paths are provided by the user.
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return FromReader(bytes.NewReader(data))
}

// FromURL reads every CRD served at crdURL.
func FromURL(ctx context.Context, httpClient HTTPDoer, crdURL *url.URL) ([]*apiextensionsv1.CustomResourceDefinition, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, crdURL.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create http request: %w", err)
	}

	resp, err := httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http request: %w", err)
	}

	defer func() {
		err := resp.Body.Close()
		if err != nil {
			slog.Error("close http response body",
				slog.String("url", crdURL.String()),
				slog.Any("err", err),
			)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrHTTPStatus, resp.StatusCode)
	}

	return FromReader(resp.Body)
}

// FromSource reads CRDs from an http(s) URL or a file path.
func FromSource(ctx context.Context, httpClient HTTPDoer, source string) ([]*apiextensionsv1.CustomResourceDefinition, error) {
	u, err := url.Parse(source)
	if err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		crds, err := FromURL(ctx, httpClient, u)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", source, err)
		}

		return crds, nil
	}

	return FromPaths(source)
}

var gzipMagic = []byte{0x1f, 0x8b}

// decompress returns data unchanged unless it starts with the gzip header.
func decompress(data []byte) ([]byte, error) {
	if !bytes.HasPrefix(data, gzipMagic) {
		return data, nil
	}

	zr, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %w", ErrInvalidFormat, err)
	}
	defer zr.Close()

	out, err := io.ReadAll(zr)
	if err != nil {
		return nil, fmt.Errorf("%w: gzip: %w", ErrInvalidFormat, err)
	}

	return out, nil
}
