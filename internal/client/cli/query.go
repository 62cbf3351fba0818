package cli

import (
	"github.com/spf13/cobra"

	"github.com/JaimeStill/dataserver/internal/envelope"
)

// NewQueryCommand creates the query command.
func NewQueryCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "query <type>",
		Short: "List blocks of a classification",
		Long: `List every block of a classification.

Blocks are read from the server's text dump and decoded locally, so
checksums are not shown.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := envelope.ParseBlockType(args[0])
			if err != nil {
				return err
			}

			envs, err := rootOpts.client().Query(cmd.Context(), t)
			if err != nil {
				return err
			}
			return writeEnvelopes(cmd.OutOrStdout(), rootOpts.Format, envs)
		},
	}
}
