package cmd

import (
	"fmt"

	"github.com/marcelsud/webhook-relay/webhook/memory"
	"github.com/spf13/cobra"
)

func newFixturesCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "fixtures",
		Short: "Work with memory provider fixture files",
	}

	validate := &cobra.Command{
		Use:   "validate [fixtures.yaml]",
		Short: "Validate a fixtures file (default: fixtures.yaml)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "fixtures.yaml"
			if len(args) > 0 {
				path = args[0]
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Validating fixtures file: %s\n\n", path)

			f, err := memory.LoadFixtures(path)
			if err != nil {
				return fmt.Errorf("VALIDATION FAILED: %w", err)
			}

			fmt.Fprintf(out, "✓ VALIDATION PASSED\n\n")
			fmt.Fprintf(out, "Loaded %d webhook(s):\n", len(f.Webhooks))
			for i, w := range f.Webhooks {
				fmt.Fprintf(out, "\n%d. Webhook: %s\n", i+1, w.ID)
				fmt.Fprintf(out, "   URL:        %s\n", w.URL)
				fmt.Fprintf(out, "   Status:     %s\n", w.Status)
				fmt.Fprintf(out, "   Created at: %s\n", w.CreatedAt)
			}
			fmt.Fprintf(out, "\n%d subscription(s), %d user(s)\n", len(f.Subscriptions), len(f.Users))
			return nil
		},
	}

	c.AddCommand(validate)
	return c
}
