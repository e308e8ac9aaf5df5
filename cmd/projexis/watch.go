package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/poll"
)

func watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Print new notifications as they arrive until interrupted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				out := cmd.OutOrStdout()
				seen := make(map[string]bool)
				for _, n := range a.store.Notifications() {
					seen[n.ID] = true
					if !n.Read {
						printNotification(out, n)
					}
				}

				fmt.Fprintf(cmd.ErrOrStderr(), "Watching every %s, press Ctrl+C to stop\n", a.cfg.Poll.Mentions)
				poll.Every(cmd.Context(), a.cfg.Poll.Mentions, func(ctx context.Context) {
					if err := a.store.Reload(ctx); err != nil && ctx.Err() == nil {
						a.logger.Warn().Err(err).Msg("reload failed")
					}
					if _, err := a.store.PollMessages(ctx); err != nil && ctx.Err() == nil {
						a.logger.Warn().Err(err).Msg("message poll failed")
					}
					for _, n := range a.store.Notifications() {
						if !seen[n.ID] {
							seen[n.ID] = true
							printNotification(out, n)
						}
					}
				})
				return nil
			})
		},
	}
}

func printNotification(w io.Writer, n models.Notification) {
	fmt.Fprintf(w, "%-10s %s: %s\n", n.Type, n.Title, n.Message)
}
