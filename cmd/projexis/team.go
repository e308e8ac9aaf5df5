package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tgienger/projexis/internal/models"
	"github.com/tgienger/projexis/internal/stats"
)

func teamCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "team",
		Short: "List team members",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				team := a.store.Team()
				rows := make([][]string, 0, len(team))
				for _, l := range stats.Workload(a.store.Projects(), team) {
					m := l.Member
					rows = append(rows, []string{m.ID, m.Name, m.Role, m.Email, string(m.Status),
						fmt.Sprintf("%d/%d", l.Active, l.Projects)})
				}
				return render(cmd, team, []string{"ID", "NAME", "ROLE", "EMAIL", "STATUS", "ACTIVE/ASSIGNED"}, rows)
			})
		},
	}
	addOutputFlag(cmd)

	cmd.AddCommand(teamInviteCmd())
	cmd.AddCommand(teamEditCmd())
	cmd.AddCommand(teamProjectsCmd())
	cmd.AddCommand(teamMemberCmd("promote", "Promote a member to admin", func(a *app, cmd *cobra.Command, id string) (string, error) {
		m, err := a.store.PromoteTeamMember(cmd.Context(), id)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("%s is now %s", m.Name, m.Role), nil
	}))
	cmd.AddCommand(teamMemberCmd("resend", "Resend a pending invitation", func(a *app, cmd *cobra.Command, id string) (string, error) {
		if err := a.store.ResendInvite(cmd.Context(), id); err != nil {
			return "", err
		}
		return "Invitation sent", nil
	}))
	cmd.AddCommand(teamMemberCmd("remove", "Remove a team member", func(a *app, cmd *cobra.Command, id string) (string, error) {
		if err := a.store.DeleteTeamMember(cmd.Context(), id); err != nil {
			return "", err
		}
		return "Removed " + id, nil
	}))
	return cmd
}

func teamInviteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invite",
		Short: "Add a team member and send an invitation",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input models.TeamMemberInput
			input.Name, _ = cmd.Flags().GetString("name")
			input.Email, _ = cmd.Flags().GetString("email")
			input.Role, _ = cmd.Flags().GetString("role")
			input.Phone, _ = cmd.Flags().GetString("phone")
			if input.Name == "" || input.Email == "" {
				return fmt.Errorf("--name and --email are required")
			}

			return withSession(cmd.Context(), func(a *app) error {
				m, err := a.store.CreateTeamMember(cmd.Context(), input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Invited %s <%s> (%s)\n", m.Name, m.Email, m.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "full name")
	cmd.Flags().StringP("email", "e", "", "email address")
	cmd.Flags().StringP("role", "r", "", "job role")
	cmd.Flags().String("phone", "", "phone number")
	return cmd
}

func teamEditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "edit <member>",
		Short: "Change a team member's details",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if !flags.Changed("name") && !flags.Changed("email") && !flags.Changed("role") && !flags.Changed("phone") {
				return fmt.Errorf("nothing to change, pass --name, --email, --role or --phone")
			}
			name, _ := flags.GetString("name")
			email, _ := flags.GetString("email")
			role, _ := flags.GetString("role")
			phone, _ := flags.GetString("phone")
			if flags.Changed("name") && name == "" || flags.Changed("email") && email == "" {
				return fmt.Errorf("name and email cannot be empty")
			}

			return withSession(cmd.Context(), func(a *app) error {
				m, err := a.store.EditTeamMember(cmd.Context(), args[0], func(in *models.TeamMemberInput) {
					if flags.Changed("name") {
						in.Name = name
					}
					if flags.Changed("email") {
						in.Email = email
					}
					if flags.Changed("role") {
						in.Role = role
					}
					if flags.Changed("phone") {
						in.Phone = phone
					}
				})
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s <%s> (%s)\n", m.Name, m.Email, m.Role)
				return nil
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "full name")
	cmd.Flags().StringP("email", "e", "", "email address")
	cmd.Flags().StringP("role", "r", "", "job role")
	cmd.Flags().String("phone", "", "phone number")
	return cmd
}

// teamMemberCmd builds a subcommand that acts on one member by ID
func teamMemberCmd(use, short string, fn func(a *app, cmd *cobra.Command, id string) (string, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <member>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				msg, err := fn(a, cmd, args[0])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), msg)
				return nil
			})
		},
	}
}
