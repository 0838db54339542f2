package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Carmen-Shannon/oxy-starfield/auth"
)

func (a *app) loginCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "login",
		Short: "Sign in to the demo account",
		Long:  "Prompt for a username and password and check them against the demo account.\nThe prompt repeats until the credentials match or input ends.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			form := auth.NewForm(
				auth.WithSuccessDestination(a.cfg.Auth.SuccessDestination),
				auth.WithLogger(a.logger),
			)
			return runLogin(cmd.InOrStdin(), cmd.OutOrStdout(), form)
		},
	}
}

// runLogin prompts until form accepts the credentials. The password is read
// without echo when in is a terminal.
func runLogin(in io.Reader, out io.Writer, form *auth.Form) error {
	r := bufio.NewReader(in)
	for {
		fmt.Fprint(out, "Username: ")
		username, err := readLine(r)
		if err != nil {
			return fmt.Errorf("login aborted: %w", err)
		}
		form.Username = username

		fmt.Fprint(out, "Password: ")
		password, err := readPassword(in, r)
		if err != nil {
			return fmt.Errorf("login aborted: %w", err)
		}
		form.Password = password

		if dest, ok := form.Submit(); ok {
			fmt.Fprintf(out, "Welcome, %s. Continue to %s\n", strings.TrimSpace(form.Username), dest)
			return nil
		}
		fmt.Fprintln(out, form.Error)
	}
}

func readPassword(in io.Reader, r *bufio.Reader) (string, error) {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(os.Stderr)
		return string(b), err
	}
	return readLine(r)
}

// readLine returns the next line without its terminator. A final line
// without a newline is returned as is; io.EOF only when nothing is left.
func readLine(r *bufio.Reader) (string, error) {
	line, err := r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}
