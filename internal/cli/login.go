package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"nearbuy-chat/internal/api"
	"nearbuy-chat/internal/models"
)

// NewLoginCommand creates the login command.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		email    string
		password string
		name     string
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in (or register with --name) and print the token",
		Long: `Authenticate against the backend and print the bearer token as an export line.

With --name the account is registered first. Without --password the password is
read from the terminal without echo.`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				var err error
				if password, err = readPassword(cmd); err != nil {
					return err
				}
			}

			client := api.New(rootOpts.cfg)
			defer client.Close()

			var (
				resp *models.AuthResponse
				err  error
			)
			if name != "" {
				resp, err = client.Register(cmd.Context(), models.CreateUserRequest{Name: name, Email: email, Password: password})
			} else {
				resp, err = client.Login(cmd.Context(), email, password)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "logged in as %s (id %d)\n", resp.User.Name, resp.User.ID)
			fmt.Fprintf(out, "export NEARBUY_TOKEN=%s\n", resp.Token)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password; prompted for when omitted")
	cmd.Flags().StringVar(&name, "name", "", "display name; registers a new account")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

// readPassword prompts on stderr and reads one line from stdin, masked when stdin is a terminal.
func readPassword(cmd *cobra.Command) (string, error) {
	fmt.Fprint(cmd.ErrOrStderr(), "password: ")

	var raw string
	if f, ok := cmd.InOrStdin().(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(cmd.ErrOrStderr())
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		raw = string(b)
	} else {
		line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
		if err != nil && line == "" {
			return "", fmt.Errorf("read password: %w", err)
		}
		raw = line
	}

	password := strings.TrimSpace(raw)
	if password == "" {
		return "", errors.New("password cannot be empty")
	}
	return password, nil
}
