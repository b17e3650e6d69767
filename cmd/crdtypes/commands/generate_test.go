package commands_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/macropower/crdtypes/cmd/crdtypes/commands"
	"github.com/macropower/crdtypes/pkg/typegen"
)

var crdsFile = filepath.Join("testdata", "crds.yaml")

func run(t *testing.T, stdin io.Reader, args ...string) (string, error) {
	t.Helper()

	tc := commands.NewRootCmd("test_generate", "", "")
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}

	tc.SetArgs(args)
	tc.SetOut(stdout)
	tc.SetErr(stderr)

	if stdin != nil {
		tc.SetIn(stdin)
	}

	err := tc.Execute()
	if err == nil {
		assert.Empty(t, stderr.String(), "stderr should be empty")
	}

	return stdout.String(), err
}

func decodeYAMLStream(t *testing.T, s string) []typegen.Output {
	t.Helper()

	var outs []typegen.Output

	dec := yaml.NewDecoder(strings.NewReader(s))
	for {
		var out typegen.Output

		err := dec.Decode(&out)
		if err == io.EOF {
			break
		}

		require.NoError(t, err)

		outs = append(outs, out)
	}

	return outs
}

func TestGenerateCmd(t *testing.T) {
	stdout, err := run(t, nil, "generate", crdsFile)
	require.NoError(t, err)

	outs := decodeYAMLStream(t, stdout)
	require.Len(t, outs, 2)

	assert.Equal(t, "Widget", outs[0].Kind)
	assert.Equal(t, "v1", outs[0].Version)
	assert.Equal(t, "WidgetStatus", outs[0].Status)
	assert.Equal(t, "WidgetSpec", outs[0].Types[0].Name)
	assert.Equal(t, "Gizmo", outs[1].Kind)
}

func TestGenerateCmdJSON(t *testing.T) {
	stdout, err := run(t, nil,
		"generate", crdsFile,
		"--crd", "gizmos.example.com",
		"-o", "json",
		"--no_object_reference",
		"--map_type", "unordered",
	)
	require.NoError(t, err)

	var outs []typegen.Output
	require.NoError(t, json.Unmarshal([]byte(stdout), &outs))
	require.Len(t, outs, 1)

	assert.Equal(t, "Gizmo", outs[0].Kind)
	assert.Equal(t, "Cluster", outs[0].Scope)

	names := []string{}
	for _, typ := range outs[0].Types {
		names = append(names, typ.Name)
	}

	assert.Equal(t, []string{"GizmoSpec", "GizmoOwner"}, names)
}

func TestGenerateCmdOptions(t *testing.T) {
	stdout, err := run(t, nil,
		"generate", crdsFile,
		"--crd", "widgets.example.com",
		"--overrides", filepath.Join("testdata", "overrides.yaml"),
		"-D", "Default",
		"-D", "@enum:simple=PartialEq",
		"--smart_derive_elision",
		"--builders",
		"--elide", "WidgetStatus",
	)
	require.NoError(t, err)

	outs := decodeYAMLStream(t, stdout)
	require.Len(t, outs, 1)

	types := map[string]typegen.Type{}
	for _, typ := range outs[0].Types {
		types[typ.Name] = typ
	}

	require.Contains(t, types, "WidgetSpec")
	assert.NotContains(t, types, "WidgetStatus")
	assert.NotContains(t, types, "WidgetTemplate")

	spec := types["WidgetSpec"]
	assert.Equal(t, []string{"CustomResource", "Serialize", "Deserialize", "Clone", "Debug", "TypedBuilder", "Default"}, spec.Derives)

	fields := map[string]typegen.Field{}
	for _, f := range spec.Fields {
		fields[f.Name] = f
	}

	assert.NotContains(t, fields, "port")
	assert.Equal(t, "PodTemplateSpec", fields["template"].Type)
	assert.Equal(t, "default,strip_option", fields["mode"].Builder)

	assert.Contains(t, types["WidgetMode"].Derives, "PartialEq")
	assert.NotContains(t, types["WidgetMode"].Derives, "Default")
}

func TestGenerateCmdStdin(t *testing.T) {
	data, err := os.ReadFile(crdsFile)
	require.NoError(t, err)

	stdout, err := run(t, bytes.NewReader(data), "generate", "-", "--api_version", "v1")
	require.NoError(t, err)
	assert.Len(t, decodeYAMLStream(t, stdout), 2)
}

func TestGenerateCmdStdinFailureStartsNoSources(t *testing.T) {
	var requests atomic.Int32

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		http.NotFound(w, r)
	}))
	defer srv.Close()

	_, err := run(t, strings.NewReader("apiVersion: v1\n\tkind: Deployment\n"), "generate", srv.URL+"/crds.yaml", "-")
	require.ErrorIs(t, err, commands.ErrGenerateFailed)
	assert.ErrorContains(t, err, "stdin")
	assert.Zero(t, requests.Load())
}

func TestGenerateCmdURL(t *testing.T) {
	data, err := os.ReadFile(crdsFile)
	require.NoError(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/crds.yaml" {
			http.NotFound(w, r)

			return
		}

		_, err := w.Write(data)
		assert.NoError(t, err)
	}))
	defer srv.Close()

	stdout, err := run(t, nil, "generate", srv.URL+"/crds.yaml", "--crd", "widgets.example.com")
	require.NoError(t, err)
	assert.Len(t, decodeYAMLStream(t, stdout), 1)

	_, err = run(t, nil, "generate", srv.URL+"/missing.yaml")
	require.ErrorIs(t, err, commands.ErrGenerateFailed)
}

func TestGenerateCmdOutputFile(t *testing.T) {
	outFile := filepath.Join(t.TempDir(), "out", "types.yaml")

	stdout, err := run(t, nil, "generate", crdsFile, "--output_file", outFile)
	require.NoError(t, err)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outFile)
	require.NoError(t, err)
	assert.Len(t, decodeYAMLStream(t, string(data)), 2)
}

func TestGenerateCmdErrors(t *testing.T) {
	tcs := map[string]struct {
		wantErr error
		args    []string
	}{
		"no sources": {
			args: []string{"generate"},
		},
		"unknown crd": {
			args:    []string{"generate", crdsFile, "--crd", "nope.example.com"},
			wantErr: commands.ErrCRDNotFound,
		},
		"missing file": {
			args:    []string{"generate", filepath.Join("testdata", "missing.yaml")},
			wantErr: commands.ErrGenerateFailed,
		},
		"bad output": {
			args:    []string{"generate", crdsFile, "-o", "toml"},
			wantErr: commands.ErrInvalidOutputFormat,
		},
		"bad map type": {
			args:    []string{"generate", crdsFile, "--map_type", "hash"},
			wantErr: commands.ErrInvalidArgument,
		},
		"bad derive": {
			args:    []string{"generate", crdsFile, "-D", "@union=Eq"},
			wantErr: typegen.ErrInvalidDerive,
		},
		"unknown version": {
			args:    []string{"generate", crdsFile, "--api_version", "v9"},
			wantErr: commands.ErrGenerateFailed,
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			_, err := run(t, nil, tc.args...)
			require.Error(t, err)

			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
			}
		})
	}
}
