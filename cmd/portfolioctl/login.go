package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword prompts on out and reads a password from in. Terminal input
// is not echoed.
func readPassword(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, "Admin password: ")

	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		data, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(out)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(data), nil
	}

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func newLoginCmd() *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Check the admin password against the server",
		Long: `Submit the admin password to the server's auth endpoint.

When the server issues admin sessions, the returned token can be stored in
~/.portfolio.yaml with --save so later commands are authorized.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			p := newPrinter(cmd.OutOrStdout())

			password, err := readPassword(cmd.InOrStdin(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			result, err := getClient().Login(cmd.Context(), password)
			if err != nil {
				return err
			}
			if !result.Success {
				p.Failure("Invalid password")
				return fmt.Errorf("login failed")
			}

			if flagJSON {
				p.JSON(mustJSON(result))
				return nil
			}

			p.Success("Password accepted")
			if result.Token == "" {
				return nil
			}

			if !save {
				p.Info("Token: %s", result.Token)
				return nil
			}

			path, err := saveToken(result.Token)
			if err != nil {
				return err
			}
			p.Success("Token saved to %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Store the session token in the config file")
	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the admin session bound to the current token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := getClient().Logout(cmd.Context()); err != nil {
				return err
			}
			newPrinter(cmd.OutOrStdout()).Success("Logged out")
			return nil
		},
	}
}
