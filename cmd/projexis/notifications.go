package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgienger/projexis/internal/models"
)

func notificationRows(list []models.Notification) [][]string {
	rows := make([][]string, 0, len(list))
	for _, n := range list {
		mark := ""
		if !n.Read {
			mark = "●"
		}
		rows = append(rows, []string{mark, n.ID, string(n.Type), n.Title, n.Message, n.Time})
	}
	return rows
}

var notificationHeaders = []string{"", "ID", "TYPE", "TITLE", "MESSAGE", "TIME"}

func notificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notifs"},
		Short:   "List notifications",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				list := a.store.Notifications()
				return render(cmd, list, notificationHeaders, notificationRows(list))
			})
		},
	}
	addOutputFlag(cmd)

	cmd.AddCommand(&cobra.Command{
		Use:   "read <id>",
		Short: "Mark one notification as read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				return a.store.MarkRead(args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "read-all",
		Short: "Mark every notification as read",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				return a.store.MarkAllRead()
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every notification",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				if err := a.store.ClearNotifications(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Notifications cleared")
				return nil
			})
		},
	})
	return cmd
}
