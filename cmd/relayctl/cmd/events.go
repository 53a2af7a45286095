package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	wbredis "github.com/marcelsud/webhook-relay/webhook/redis"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func newEventsCmd() *cobra.Command {
	c := &cobra.Command{
		Use:   "events <for_user_id>",
		Short: "Print the most recent events stored for a subject by the Redis sink",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			addr, _ := cmd.Flags().GetString("redis-addr")
			password, _ := cmd.Flags().GetString("redis-password")
			db, _ := cmd.Flags().GetInt("redis-db")
			count, _ := cmd.Flags().GetInt64("count")

			sink, err := wbredis.NewSink(addr, password, db, 0, zerolog.Nop())
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()
			defer sink.Close(ctx)

			events, err := sink.Recent(ctx, args[0], count)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, ev := range events {
				if err := enc.Encode(map[string]any{
					"event_id":    ev.ID,
					"for_user_id": ev.ForUserID,
					"kinds":       ev.Kinds,
					"verified":    ev.Verified,
					"received_at": ev.ReceivedAt,
					"payload":     json.RawMessage(validJSON(ev.Payload)),
				}); err != nil {
					return err
				}
			}
			if len(events) == 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "no events stored for %s\n", args[0])
			}
			return nil
		},
	}
	c.Flags().String("redis-addr", "localhost:6379", "Redis address")
	c.Flags().String("redis-password", "", "Redis password")
	c.Flags().Int("redis-db", 0, "Redis database")
	c.Flags().Int64("count", 10, "number of events to print")
	return c
}

// validJSON quotes raw payloads so the output line stays valid JSON
func validJSON(payload []byte) []byte {
	if json.Valid(payload) {
		return payload
	}
	quoted, _ := json.Marshal(string(payload))
	return quoted
}
