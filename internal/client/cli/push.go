package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/dataserver/internal/envelope"
	"github.com/JaimeStill/dataserver/pkg/checksum"
)

// PushOptions holds flags for the push command.
type PushOptions struct {
	Checksum string
	File     string
}

// NewPushCommand creates the push command.
func NewPushCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &PushOptions{}

	cmd := &cobra.Command{
		Use:   "push <name> <type> [payload]",
		Short: "Submit a data block",
		Long: `Submit a data block under a unique name and classification.

The payload comes from the third argument or from --file. The MD5 checksum
is computed locally unless --checksum is given.`,
		Args: cobra.RangeArgs(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := envelope.ParseBlockType(args[1])
			if err != nil {
				return err
			}

			payload, err := readPayload(args[2:], opts.File)
			if err != nil {
				return err
			}

			sum := opts.Checksum
			if sum == "" {
				sum = checksum.Digest(payload)
			}

			ok, err := rootOpts.client().Push(cmd.Context(), envelope.New(args[0], t, payload, sum))
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), rootOpts.Format, ok)
		},
	}

	cmd.Flags().StringVar(&opts.Checksum, "checksum", "", "claimed checksum (default: MD5 of the payload)")
	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "read the payload from a file")

	return cmd
}

func readPayload(args []string, file string) (string, error) {
	switch {
	case len(args) > 0 && file != "":
		return "", fmt.Errorf("payload argument and --file are mutually exclusive")
	case len(args) > 0:
		return args[0], nil
	case file != "":
		data, err := os.ReadFile(file)
		if err != nil {
			return "", fmt.Errorf("read payload: %w", err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("a payload argument or --file is required")
}
