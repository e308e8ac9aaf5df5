package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/poll"
)

func messagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "messages [user]",
		Aliases: []string{"msg"},
		Short:   "List conversations, or show the thread with one user",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			follow, _ := cmd.Flags().GetBool("follow")
			return withSession(cmd.Context(), func(a *app) error {
				if len(args) == 0 {
					return listConversations(cmd, a, follow)
				}
				return showThread(cmd, a, args[0], follow)
			})
		},
	}
	addOutputFlag(cmd)
	cmd.Flags().BoolP("follow", "f", false, "keep refreshing until interrupted")

	cmd.AddCommand(&cobra.Command{
		Use:   "send <user> <text>...",
		Short: "Send a direct message; @Name mentions notify that member",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				m, err := a.store.SendMessage(cmd.Context(), args[0], strings.Join(args[1:], " "))
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Sent (%s)\n", m.ID)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "edit <message> <text>...",
		Short: "Edit one of your messages",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				_, err := a.store.EditMessage(cmd.Context(), args[0], strings.Join(args[1:], " "))
				return err
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:     "delete <message>",
		Aliases: []string{"rm"},
		Short:   "Delete one of your messages",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				return a.store.DeleteMessage(cmd.Context(), args[0])
			})
		},
	})
	return cmd
}

func listConversations(cmd *cobra.Command, a *app, follow bool) error {
	show := func(ctx context.Context) error {
		list, err := a.store.Conversations(ctx)
		if err != nil {
			return err
		}
		rows := make([][]string, 0, len(list))
		for _, c := range list {
			rows = append(rows, []string{c.User.ID, c.User.Name, c.LastMessage, strconv.Itoa(c.Unread)})
		}
		return render(cmd, list, []string{"USER", "NAME", "LAST MESSAGE", "UNREAD"}, rows)
	}
	if !follow {
		return show(cmd.Context())
	}
	followEvery(cmd, a, a.cfg.Poll.Conversations, show)
	return nil
}

func showThread(cmd *cobra.Command, a *app, userID string, follow bool) error {
	seen := make(map[string]bool)
	show := func(ctx context.Context) error {
		thread, err := a.store.OpenConversation(ctx, userID)
		if err != nil {
			return err
		}
		if !follow {
			return render(cmd, thread, []string{"ID", "FROM", "MESSAGE", "SENT"}, messageRows(thread))
		}
		var fresh []models.Message
		for _, m := range thread {
			if !seen[m.ID] {
				seen[m.ID] = true
				fresh = append(fresh, m)
			}
		}
		for _, row := range messageRows(fresh) {
			fmt.Fprintf(cmd.OutOrStdout(), "[%s] %s: %s\n", row[3], row[1], row[2])
		}
		return nil
	}
	if !follow {
		return show(cmd.Context())
	}
	followEvery(cmd, a, a.cfg.Poll.Messages, show)
	return nil
}

func messageRows(list []models.Message) [][]string {
	rows := make([][]string, 0, len(list))
	for _, m := range list {
		content := m.Content
		if m.Edited {
			content += " (edited)"
		}
		rows = append(rows, []string{m.ID, m.Sender.Name, content, m.CreatedAt.Local().Format(time.DateTime)})
	}
	return rows
}

// followEvery runs fn on every interval until the command is interrupted
func followEvery(cmd *cobra.Command, a *app, interval time.Duration, fn func(context.Context) error) {
	poll.Every(cmd.Context(), interval, func(ctx context.Context) {
		if err := fn(ctx); err != nil && ctx.Err() == nil {
			a.logger.Warn().Err(err).Msg("refresh failed")
			fmt.Fprintf(cmd.ErrOrStderr(), "refresh failed: %v\n", err)
		}
	})
}
