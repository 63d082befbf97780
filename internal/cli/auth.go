package cli

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(opts *options) *cobra.Command {
	var username string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and persist the session",
		Long:  "Sign in with the given username. The password is read from DESK_PASSWORD or, when unset, from the first line of stdin.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			password := os.Getenv("DESK_PASSWORD")
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return writeErr(cmd, fmt.Errorf("read password: %w", err))
				}
				password = strings.TrimRight(line, "\r\n")
			}

			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer a.Close()

			user, err := a.SignIn(cmd.Context(), username, password)
			if err != nil {
				return writeErr(cmd, err)
			}
			if opts.JSON {
				return writeJSON(cmd.OutOrStdout(), user)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "signed in as %s\n", user.DisplayName())
			return nil
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Account username")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the persisted session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(cmd.Context(), opts)
			if err != nil {
				return writeErr(cmd, err)
			}
			defer a.Close()

			if !a.Store.Snapshot().Authenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "not signed in")
				return nil
			}
			if err := a.Logout(cmd.Context()); err != nil {
				return writeErr(cmd, err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "signed out")
			return nil
		},
	}
}
