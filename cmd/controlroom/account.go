package main

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(opts *options) *cobra.Command {
	var username, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and cache the session",
		Long:  "Log in and cache the session. The password is read from stdin when --password is omitted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if username == "" {
				return errors.New("--username is required")
			}
			if password == "" {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return errors.New("password required (use --password or pipe it on stdin)")
				}
				password = strings.TrimRight(line, "\r\n")
			}

			client := NewClient(opts.server, "")
			user, err := client.Login(cmd.Context(), username, password)
			if err != nil {
				return err
			}
			if err := saveSession(opts.session, client.Cookie()); err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), user)
			}
			fprintf(cmd.OutOrStdout(), "Logged in as %s\n", user.Username)
			return nil
		},
	}
	cmd.Flags().StringVarP(&username, "username", "u", "", "Username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "Password")
	return cmd
}

func newLogoutCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the session and forget the cached cookie",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			logoutErr := client.Logout(cmd.Context())
			if err := clearSession(opts.session); err != nil {
				return err
			}
			if logoutErr != nil {
				fprintf(cmd.ErrOrStderr(), "warning: server logout failed: %v\n", logoutErr)
			}
			fprintf(cmd.OutOrStdout(), "Logged out\n")
			return nil
		},
	}
}

func newWhoamiCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := opts.client()
			if err != nil {
				return err
			}
			user, err := client.Me(cmd.Context())
			if err != nil {
				return err
			}
			if opts.json {
				return printJSON(cmd.OutOrStdout(), user)
			}
			name := strings.TrimSpace(user.Name + " " + user.Surname)
			fprintf(cmd.OutOrStdout(), "%s (%s)\n", user.Username, name)
			return nil
		},
	}
}
