package commands

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/macropower/crdtypes/pkg/jsonschema"
)

// NewOverridesSchemaCmd returns the overrides-schema command.
func NewOverridesSchemaCmd() *cobra.Command {
	outputFile := new(string)

	cmd := &cobra.Command{
		Use:          "overrides-schema",
		Short:        "Print the JSON Schema of override rule documents",
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withOutputFile(cmd.OutOrStdout(), *outputFile, func(w io.Writer) error {
				return jsonschema.WriteOverridesSchema(w)
			})
		},
	}

	cmd.Flags().StringVarP(outputFile, "output_file", "f", "", "Write to this file instead of stdout")
	must(cmd.MarkFlagFilename("output_file", "json"))

	return cmd
}
