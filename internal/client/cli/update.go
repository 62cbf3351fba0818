package cli

import "github.com/spf13/cobra"

// NewUpdateCommand creates the update command.
func NewUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "update <name> <type>",
		Short: "Reclassify a block",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := rootOpts.client().Update(cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), rootOpts.Format, ok)
		},
	}
}
