package cli

import (
	"github.com/spf13/cobra"
)

func newFacetsCmd(opts *globalOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "facets",
		Short: "List the categories, brands, conditions and locations in the catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := parseFormat(output)
			if err != nil {
				return err
			}
			cfg, err := loadCommandConfig(cmd, opts)
			if err != nil {
				return err
			}
			eng, cleanup, err := loadEngine(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer cleanup()
			return writeFacets(cmd.OutOrStdout(), format, eng.View().Facets)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", string(FormatText), "output format: text, json or yaml")
	return cmd
}
