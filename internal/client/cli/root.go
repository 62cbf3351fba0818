// Package cli implements the dataserver command-line client.
package cli

import (
	"fmt"
	"os"
	"slices"
	"time"

	"github.com/spf13/cobra"

	"github.com/JaimeStill/dataserver/internal/client"
)

const envServerURL = "DATASERVER_URL"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Server  string
	Timeout time.Duration
	Format  string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

func (o *RootOptions) client() *client.Client {
	return client.New(o.Server, o.Timeout)
}

// NewRootCommand creates the root command for the dataserver client.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "dataserver",
		Short: "Client for the dataserver block API",
		Long:  "Push checksummed data blocks, query them by type, and reclassify them.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	server := os.Getenv(envServerURL)
	if server == "" {
		server = "http://localhost:8080/api"
	}

	cmd.PersistentFlags().StringVarP(&opts.Server, "server", "s", server, "API base URL (env "+envServerURL+")")
	cmd.PersistentFlags().DurationVar(&opts.Timeout, "timeout", 30*time.Second, "request timeout")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")

	cmd.AddCommand(NewPushCommand(opts))
	cmd.AddCommand(NewQueryCommand(opts))
	cmd.AddCommand(NewUpdateCommand(opts))

	return cmd
}
