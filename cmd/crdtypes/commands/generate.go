package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	apiextensionsv1 "k8s.io/apiextensions-apiserver/pkg/apis/apiextensions/v1"

	"github.com/macropower/crdtypes/internal/version"
	"github.com/macropower/crdtypes/pkg/catalog"
	"github.com/macropower/crdtypes/pkg/crd"
	"github.com/macropower/crdtypes/pkg/http"
	"github.com/macropower/crdtypes/pkg/overrides"
	"github.com/macropower/crdtypes/pkg/typegen"
)

const (
	generateDesc = `This command analyzes CRDs and prints the types needed to represent them.

Sources are files or http(s) URLs containing one or more YAML documents.
Documents that are not CustomResourceDefinitions are ignored. Use "-" to
read from stdin.
`
	generateExample = `  crdtypes generate <source>... [flags]
  # Generate types for the highest priority version of every CRD in a file
  crdtypes generate crds.yaml

  # Generate a specific version of one CRD, as JSON
  crdtypes generate crds.yaml --crd widgets.example.com --api_version v1beta1 -o json

  # Apply override rules and derive extra traits
  crdtypes generate https://example.com/crds.yaml --overrides overrides.yaml -D Default -D @enum:simple=PartialEq
`
)

var (
	ErrArgument        = errors.New("argument error")
	ErrInvalidArgument = errors.New("invalid argument")
	ErrGenerateFailed  = errors.New("generate failed")
	ErrCRDNotFound     = errors.New("crd not found")
)

// NewGenerateCmd returns the generate command.
func NewGenerateCmd(arg *RootArgs) *cobra.Command {
	args := NewGenerateArgs(arg)

	cmd := &cobra.Command{
		Use:          "generate <source>...",
		Short:        "Generate types from CRDs",
		Long:         generateDesc,
		Example:      generateExample,
		SilenceUsage: true,
		Args:         cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, sources []string) error {
			opts, err := args.options()
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), args.GetTimeout())
			defer cancel()

			client := http.NewClient(args.GetTimeout(), "crdtypes/"+version.Version)

			crds, err := readSources(ctx, client, cmd.InOrStdin(), sources)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrGenerateFailed, err)
			}

			crds, err = filterCRDs(crds, args.GetCRDs())
			if err != nil {
				return fmt.Errorf("%w: %w", ErrGenerateFailed, err)
			}

			outputs, err := typegen.GenerateAll(ctx, crds, opts)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrGenerateFailed, err)
			}

			return withOutputFile(cmd.OutOrStdout(), args.GetOutputFile(), func(w io.Writer) error {
				return writeOutputs(w, args.GetOutput(), outputs)
			})
		},
	}

	cmd.Flags().StringSliceVar(args.crds, "crd", nil, "Only generate the CRDs with these names")
	cmd.Flags().StringVarP(args.apiVersion, "api_version", "A", "", "CRD version to use; defaults to the highest priority version")
	cmd.Flags().StringVarP(args.output, "output", "o", OutputYAML, "Output format (yaml, json)")
	cmd.Flags().StringVarP(args.outputFile, "output_file", "f", "", "Write to this file instead of stdout")
	cmd.Flags().StringSliceVar(args.overrides, "overrides", nil, "Override rule documents, applied in order")
	cmd.Flags().StringVar(args.mapType, "map_type", "ordered", "Map representation (ordered, unordered)")
	cmd.Flags().StringArrayVarP(args.derives, "derive", "D", nil, "Derive a trait: Trait, Type=Trait, @struct=Trait, @enum=Trait or @enum:simple=Trait")
	cmd.Flags().StringSliceVarP(args.elide, "elide", "e", nil, "Leave these types out of the output")
	cmd.Flags().BoolVar(args.relaxed, "relaxed", false, "Use opaque maps for ambiguous schemas instead of failing")
	cmd.Flags().BoolVar(args.noCondition, "no_condition", false, "Disable detection of standard conditions")
	cmd.Flags().BoolVar(args.noObjectReference, "no_object_reference", false, "Disable detection of object references")
	cmd.Flags().BoolVarP(args.builders, "builders", "b", false, "Add builder derives and member hints")
	cmd.Flags().BoolVar(args.smartDeriveElision, "smart_derive_elision", false, "Drop Default from types that cannot default")
	cmd.Flags().DurationVar(args.timeout, "timeout", time.Minute, "Timeout for reading and generating")

	must(cmd.MarkFlagFilename("output_file"))
	must(cmd.MarkFlagFilename("overrides", "yaml", "yml", "json"))

	return cmd
}

// readSources reads every source concurrently, keeping source order.
func readSources(
	ctx context.Context,
	client crd.HTTPDoer,
	stdin io.Reader,
	sources []string,
) ([]*apiextensionsv1.CustomResourceDefinition, error) {
	results := make([][]*apiextensionsv1.CustomResourceDefinition, len(sources))

	// Stdin is read once, before any remote or file source is started.
	stdinIdx := slices.Index(sources, "-")
	if stdinIdx >= 0 {
		crds, err := crd.FromReader(stdin)
		if err != nil {
			return nil, fmt.Errorf("stdin: %w", err)
		}

		results[stdinIdx] = crds
	}

	eg, ctx := errgroup.WithContext(ctx)

	for i, source := range sources {
		if source == "-" {
			continue
		}

		eg.Go(func() error {
			crds, err := crd.FromSource(ctx, client, source)
			if err != nil {
				return err //nolint:wrapcheck // names the source
			}

			slog.Debug("read source",
				slog.String("source", source),
				slog.Int("crds", len(crds)),
			)

			results[i] = crds

			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err //nolint:wrapcheck // wrapped by the caller
	}

	var crds []*apiextensionsv1.CustomResourceDefinition
	for _, r := range results {
		crds = append(crds, r...)
	}

	return crds, nil
}

// filterCRDs keeps the named CRDs, in the order the names are given. An
// empty list keeps everything.
func filterCRDs(crds []*apiextensionsv1.CustomResourceDefinition, names []string) ([]*apiextensionsv1.CustomResourceDefinition, error) {
	if len(names) == 0 {
		return crds, nil
	}

	byName := make(map[string]*apiextensionsv1.CustomResourceDefinition, len(crds))
	for _, c := range crds {
		byName[c.Name] = c
	}

	filtered := make([]*apiextensionsv1.CustomResourceDefinition, 0, len(names))

	for _, name := range names {
		c, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrCRDNotFound, name)
		}

		filtered = append(filtered, c)
	}

	return filtered, nil
}

// GenerateArgs holds the arguments for the generate command.
type GenerateArgs struct {
	crds               *[]string
	apiVersion         *string
	output             *string
	outputFile         *string
	overrides          *[]string
	mapType            *string
	derives            *[]string
	elide              *[]string
	relaxed            *bool
	noCondition        *bool
	noObjectReference  *bool
	builders           *bool
	smartDeriveElision *bool
	timeout            *time.Duration
	*RootArgs
}

// NewGenerateArgs creates a new [GenerateArgs].
func NewGenerateArgs(args *RootArgs) *GenerateArgs {
	return &GenerateArgs{
		crds:               new([]string),
		apiVersion:         new(string),
		output:             new(string),
		outputFile:         new(string),
		overrides:          new([]string),
		mapType:            new(string),
		derives:            new([]string),
		elide:              new([]string),
		relaxed:            new(bool),
		noCondition:        new(bool),
		noObjectReference:  new(bool),
		builders:           new(bool),
		smartDeriveElision: new(bool),
		timeout:            new(time.Duration),
		RootArgs:           args,
	}
}

func (a *GenerateArgs) GetCRDs() []string {
	return *a.crds
}

func (a *GenerateArgs) GetAPIVersion() string {
	return *a.apiVersion
}

func (a *GenerateArgs) GetOutput() string {
	return *a.output
}

func (a *GenerateArgs) GetOutputFile() string {
	return *a.outputFile
}

func (a *GenerateArgs) GetOverrides() []string {
	return *a.overrides
}

func (a *GenerateArgs) GetMapType() string {
	return *a.mapType
}

func (a *GenerateArgs) GetDerives() []string {
	return *a.derives
}

func (a *GenerateArgs) GetElide() []string {
	return *a.elide
}

func (a *GenerateArgs) GetRelaxed() bool {
	return *a.relaxed
}

func (a *GenerateArgs) GetNoCondition() bool {
	return *a.noCondition
}

func (a *GenerateArgs) GetNoObjectReference() bool {
	return *a.noObjectReference
}

func (a *GenerateArgs) GetBuilders() bool {
	return *a.builders
}

func (a *GenerateArgs) GetSmartDeriveElision() bool {
	return *a.smartDeriveElision
}

func (a *GenerateArgs) GetTimeout() time.Duration {
	return *a.timeout
}

// options validates the flags and builds [typegen.Options].
func (a *GenerateArgs) options() (typegen.Options, error) {
	opts := typegen.Options{
		APIVersion:         a.GetAPIVersion(),
		Elide:              a.GetElide(),
		Relaxed:            a.GetRelaxed(),
		NoCondition:        a.GetNoCondition(),
		NoObjectReference:  a.GetNoObjectReference(),
		Builders:           a.GetBuilders(),
		SmartDeriveElision: a.GetSmartDeriveElision(),
	}

	switch a.GetOutput() {
	case OutputYAML, OutputJSON:
	default:
		return opts, fmt.Errorf("output: %w: %q", ErrInvalidOutputFormat, a.GetOutput())
	}

	mt, err := parseMapType(a.GetMapType())
	if err != nil {
		return opts, err
	}

	opts.MapType = mt

	opts.Derives, err = typegen.ParseDerives(a.GetDerives()...)
	if err != nil {
		return opts, fmt.Errorf("derive: %w", err)
	}

	if len(a.GetOverrides()) > 0 {
		opts.Overrides, err = overrides.LoadFiles(a.GetOverrides()...)
		if err != nil {
			return opts, fmt.Errorf("overrides: %w", err)
		}
	}

	return opts, nil
}

func parseMapType(s string) (catalog.MapType, error) {
	switch s {
	case "ordered":
		return catalog.OrderedMap, nil
	case "unordered":
		return catalog.UnorderedMap, nil
	}

	return "", fmt.Errorf("%w: map_type must be ordered or unordered, got %q", ErrArgument, s)
}
