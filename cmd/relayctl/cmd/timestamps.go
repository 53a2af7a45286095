package cmd

import (
	"fmt"
	"time"

	"github.com/marcelsud/webhook-relay/webhook/timecodec"
	"github.com/spf13/cobra"
)

func locationFrom(cmd *cobra.Command) (*time.Location, error) {
	tz, _ := cmd.Flags().GetString("tz")
	if tz == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("loading time zone %q: %w", tz, err)
	}
	return loc, nil
}

func newUTCCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "utc <YYYYMMDDHHmm>",
		Short: "Convert a local replay timestamp to the provider's UTC form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locationFrom(cmd)
			if err != nil {
				return err
			}
			utc, err := timecodec.ToProviderUTC(args[0], loc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), utc)
			return nil
		},
	}
	c.Flags().String("tz", "", "IANA zone of the input (default: process zone)")
	return c
}

func newLocalCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "local <YYYYMMDDHHmm>",
		Short: "Convert a UTC replay timestamp back to local time",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			loc, err := locationFrom(cmd)
			if err != nil {
				return err
			}
			local, err := timecodec.ToLocal(args[0], loc)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), local)
			return nil
		},
	}
	c.Flags().String("tz", "", "IANA zone of the output (default: process zone)")
	return c
}
