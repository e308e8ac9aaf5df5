package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tgienger/projexis/internal/models"
)

// stdin is shared by every prompt so buffered input is not lost between them
var stdin *bufio.Reader

// prompt reads one line from the command's input when value is empty
func prompt(cmd *cobra.Command, label, value string) (string, error) {
	if value != "" {
		return value, nil
	}
	if stdin == nil {
		stdin = bufio.NewReader(cmd.InOrStdin())
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", label)
	line, err := stdin.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return "", fmt.Errorf("%s is required", strings.ToLower(label))
	}
	return line, nil
}

func loginCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and store the session locally",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			email, err := prompt(cmd, "Email", email)
			if err != nil {
				return err
			}
			password, err = prompt(cmd, "Password", password)
			if err != nil {
				return err
			}

			return withApp(func(a *app) error {
				if err := a.store.Login(cmd.Context(), email, password); err != nil {
					return err
				}
				u, _ := a.store.User()
				fmt.Fprintf(cmd.OutOrStdout(), "Signed in as %s <%s>\n", u.Name, u.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringP("email", "e", "", "account email")
	cmd.Flags().StringP("password", "p", "", "account password (prompted when omitted)")
	return cmd
}

func registerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and sign in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			email, _ := cmd.Flags().GetString("email")
			password, _ := cmd.Flags().GetString("password")

			name, err := prompt(cmd, "Name", name)
			if err != nil {
				return err
			}
			if email, err = prompt(cmd, "Email", email); err != nil {
				return err
			}
			if password, err = prompt(cmd, "Password", password); err != nil {
				return err
			}

			return withApp(func(a *app) error {
				if err := a.store.Register(cmd.Context(), name, email, password); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Welcome, %s\n", name)
				return nil
			})
		},
	}
	cmd.Flags().StringP("name", "n", "", "full name")
	cmd.Flags().StringP("email", "e", "", "account email")
	cmd.Flags().StringP("password", "p", "", "account password (prompted when omitted)")
	return cmd
}

func acceptInviteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept-invite <token>",
		Short: "Accept a team invitation and sign in",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			password, err := prompt(cmd, "Choose a password", password)
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				if err := a.store.AcceptInvite(cmd.Context(), args[0], password); err != nil {
					return err
				}
				u, _ := a.store.User()
				fmt.Fprintf(cmd.OutOrStdout(), "Invitation accepted, signed in as %s\n", u.Email)
				return nil
			})
		},
	}
	cmd.Flags().StringP("password", "p", "", "new account password")
	return cmd
}

func forgotPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "forgot-password <email>",
		Short: "Request a password reset email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				if err := a.api.ForgotPassword(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "If the address is registered, a reset link is on its way.")
				return nil
			})
		},
	}
}

func resetPasswordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset-password <token>",
		Short: "Set a new password using a reset token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			password, _ := cmd.Flags().GetString("password")
			password, err := prompt(cmd, "New password", password)
			if err != nil {
				return err
			}
			return withApp(func(a *app) error {
				if err := a.api.ResetPassword(cmd.Context(), args[0], password); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Password updated. Sign in with 'projexis login'.")
				return nil
			})
		},
	}
	cmd.Flags().StringP("password", "p", "", "new password")
	return cmd
}

func logoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(func(a *app) error {
				// Restore so the user's notification history is known and removed too
				if _, err := a.store.Restore(cmd.Context()); err != nil {
					a.logger.Warn().Err(err).Msg("restore before logout failed")
				}
				if err := a.store.Logout(); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Signed out")
				return nil
			})
		},
	}
}

func whoamiCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), func(a *app) error {
				u, _ := a.store.User()
				return render(cmd, u,
					[]string{"ID", "NAME", "EMAIL", "ROLE"},
					[][]string{{u.ID, u.Name, u.Email, u.Role}},
				)
			})
		},
	}
	addOutputFlag(cmd)
	return cmd
}

func profileCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Update the signed-in account's profile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var input models.ProfileInput
			input.Name, _ = cmd.Flags().GetString("name")
			input.Email, _ = cmd.Flags().GetString("email")
			input.Phone, _ = cmd.Flags().GetString("phone")
			input.Bio, _ = cmd.Flags().GetString("bio")
			input.Avatar, _ = cmd.Flags().GetString("avatar")
			if input == (models.ProfileInput{}) {
				return fmt.Errorf("nothing to update, pass at least one flag")
			}

			return withSession(cmd.Context(), func(a *app) error {
				u, err := a.store.UpdateProfile(cmd.Context(), input)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Profile updated for %s <%s>\n", u.Name, u.Email)
				return nil
			})
		},
	}
	cmd.Flags().String("name", "", "display name")
	cmd.Flags().String("email", "", "email address")
	cmd.Flags().String("phone", "", "phone number")
	cmd.Flags().String("bio", "", "short bio")
	cmd.Flags().String("avatar", "", "avatar URL")
	return cmd
}

func passwordCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "password",
		Short: "Change the account password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			current, _ := cmd.Flags().GetString("current")
			next, _ := cmd.Flags().GetString("new")

			current, err := prompt(cmd, "Current password", current)
			if err != nil {
				return err
			}
			if next, err = prompt(cmd, "New password", next); err != nil {
				return err
			}

			return withSession(cmd.Context(), func(a *app) error {
				if err := a.store.UpdatePassword(cmd.Context(), current, next); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Password changed")
				return nil
			})
		},
	}
	cmd.Flags().String("current", "", "current password")
	cmd.Flags().String("new", "", "new password")
	return cmd
}
