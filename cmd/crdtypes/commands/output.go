package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/macropower/crdtypes/pkg/typegen"
)

const (
	OutputYAML = "yaml"
	OutputJSON = "json"
)

var ErrInvalidOutputFormat = errors.New("invalid output format")

// writeOutputs encodes outputs as a YAML stream with one document per
// output, or as a JSON array.
func writeOutputs(w io.Writer, format string, outputs []*typegen.Output) error {
	switch format {
	case OutputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)

		for _, out := range outputs {
			if err := enc.Encode(out); err != nil {
				return fmt.Errorf("encode %s: %w", out.Kind, err)
			}
		}

		if err := enc.Close(); err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return nil
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		if err := enc.Encode(outputs); err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	}

	return fmt.Errorf("%w: %q, must be one of %s or %s", ErrInvalidOutputFormat, format, OutputYAML, OutputJSON)
}

// withOutputFile calls fn with a writer for path, or with stdout when path
// is empty.
func withOutputFile(stdout io.Writer, path string, fn func(w io.Writer) error) error {
	if path == "" {
		return fn(stdout)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}

	if err := fn(f); err != nil {
		must(f.Close())

		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write to output file: %w", err)
	}

	return nil
}
