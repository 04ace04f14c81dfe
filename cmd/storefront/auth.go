package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "login <phone>",
		Short: "Log in with phone verification",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			phone := args[0]
			if err := a.auth.RequestCode(cmd.Context(), phone); err != nil {
				return err
			}

			fmt.Print("enter the code sent to your phone: ")
			reader := bufio.NewReader(os.Stdin)
			code, err := reader.ReadString('\n')
			if err != nil {
				return fmt.Errorf("read code: %w", err)
			}

			sess, err := a.auth.Verify(cmd.Context(), phone, strings.TrimSpace(code), name)
			if err != nil {
				return err
			}
			fmt.Printf("logged in as %s\n", sess.User.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name for new accounts")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Log out and clear local state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a.auth.Logout(cmd.Context())
			fmt.Println("logged out")
			return nil
		},
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			sess := a.auth.Current()
			if sess == nil {
				fmt.Println("not logged in")
				return nil
			}
			fmt.Printf("%s (%s)\n", sess.User.Name, sess.User.Phone)
			return nil
		},
	}
}
