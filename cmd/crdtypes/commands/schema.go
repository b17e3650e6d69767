package commands

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/macropower/crdtypes/pkg/schema"
	"github.com/macropower/crdtypes/pkg/typegen"
)

const (
	schemaDesc = `This command analyzes a bare OpenAPI v3 schema, without a surrounding CRD.

The input is a YAML or JSON schema, a document containing one at a JSON
pointer, or an OpenAPI v3 document with the schema under components.
`
	schemaExample = `  crdtypes schema <file> --kind <Kind> [flags]
  # Analyze a schema file
  crdtypes schema widget.schema.yaml --kind Widget

  # Analyze the schema embedded at a JSON pointer
  crdtypes schema crd.yaml --kind Widget --pointer /spec/versions/0/schema/openAPIV3Schema

  # Analyze an OpenAPI component schema
  crdtypes schema openapi.yaml --kind Widget --component Widget
`
)

var ErrSchemaFailed = errors.New("schema failed")

// NewSchemaCmd returns the schema command.
func NewSchemaCmd(arg *RootArgs) *cobra.Command {
	args := NewSchemaArgs(arg)

	cmd := &cobra.Command{
		Use:          "schema <file>",
		Short:        "Generate types from a bare schema",
		Long:         schemaDesc,
		Example:      schemaExample,
		SilenceUsage: true,
		Args:         cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, pArgs []string) error {
			opts, err := args.options()
			if err != nil {
				return fmt.Errorf("%w: %w", ErrInvalidArgument, err)
			}

			data, err := readFileOrStdin(cmd.InOrStdin(), pArgs[0])
			if err != nil {
				return fmt.Errorf("%w: %w", ErrSchemaFailed, err)
			}

			var node *schema.Node

			switch {
			case args.GetComponent() != "":
				node, err = schema.FromOpenAPIComponent(data, args.GetComponent())
			default:
				node, err = schema.FromDocument(data, args.GetPointer())
			}

			if err != nil {
				return fmt.Errorf("%w: %s: %w", ErrSchemaFailed, pArgs[0], err)
			}

			out, err := typegen.FromSchema(node, args.GetKind(), opts)
			if err != nil {
				return fmt.Errorf("%w: %w", ErrSchemaFailed, err)
			}

			return withOutputFile(cmd.OutOrStdout(), args.GetOutputFile(), func(w io.Writer) error {
				return writeOutputs(w, args.GetOutput(), []*typegen.Output{out})
			})
		},
	}

	cmd.Flags().StringVarP(args.kind, "kind", "k", "", "Kind used to name the generated types")
	must(cmd.MarkFlagRequired("kind"))

	cmd.Flags().StringVarP(args.pointer, "pointer", "p", "", "JSON pointer to the schema within the document")
	cmd.Flags().StringVar(args.component, "component", "", "Name of an OpenAPI v3 component schema")
	cmd.MarkFlagsMutuallyExclusive("pointer", "component")
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

	must(cmd.MarkFlagFilename("output_file"))
	must(cmd.MarkFlagFilename("overrides", "yaml", "yml", "json"))

	return cmd
}

func readFileOrStdin(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}

		return data, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

// SchemaArgs holds the arguments for the schema command. It shares the
// generation flags of [GenerateArgs].
type SchemaArgs struct {
	kind      *string
	pointer   *string
	component *string
	*GenerateArgs
}

// NewSchemaArgs creates a new [SchemaArgs].
func NewSchemaArgs(args *RootArgs) *SchemaArgs {
	return &SchemaArgs{
		kind:         new(string),
		pointer:      new(string),
		component:    new(string),
		GenerateArgs: NewGenerateArgs(args),
	}
}

func (a *SchemaArgs) GetKind() string {
	return *a.kind
}

func (a *SchemaArgs) GetPointer() string {
	return *a.pointer
}

func (a *SchemaArgs) GetComponent() string {
	return *a.component
}
