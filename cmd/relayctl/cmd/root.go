package cmd

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the relayctl command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "relayctl",
		Short: "Operator tools for webhook-relay",
		Long: `relayctl helps operate webhook-relay from a terminal.

Answer CRC challenges by hand, sign and verify event payloads, convert
replay timestamps between local time and UTC, validate fixture files
and read back events stored by the Redis sink.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		newCRCCmd(),
		newSignCmd(),
		newVerifyCmd(),
		newUTCCmd(),
		newLocalCmd(),
		newFixturesCmd(),
		newEventsCmd(),
	)
	return root
}

func Execute() error {
	return NewRootCmd().Execute()
}
