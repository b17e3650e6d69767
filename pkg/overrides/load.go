package overrides

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/hashicorp/go-multierror"
	"sigs.k8s.io/yaml"
)

// ErrInvalidDocument indicates a rule document could not be decoded.
var ErrInvalidDocument = errors.New("invalid overrides document")

// Decode decodes and compiles a YAML or JSON rule document.
func Decode(data []byte) (*Overrides, error) {
	doc := Document{}
	if err := yaml.UnmarshalStrict(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}

	return New(doc.PropertyRules...)
}

// Load reads, decodes and compiles a rule document.
func Load(r io.Reader) (*Overrides, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read overrides: %w", err)
	}

	return Decode(data)
}

// LoadFiles loads every file and merges the rule sets in order. Every file
// is loaded even after a failure, so the returned error lists the problems
// of all files; on error no rules are usable.
func LoadFiles(paths ...string) (*Overrides, error) {
	merged := &Overrides{}

	var merr error

	for _, path := range paths {
		o, err := loadFile(path)
		if err != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %w", path, err))

			continue
		}

		slog.Debug("loaded overrides",
			slog.String("path", path),
			slog.Int("rules", o.Len()),
		)

		merged.Merge(o)
	}

	if merr != nil {
		return nil, fmt.Errorf("load overrides: %w", merr)
	}

	return merged, nil
}

func loadFile(path string) (*Overrides, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open overrides: %w", err)
	}
	defer f.Close()

	return Load(f)
}
