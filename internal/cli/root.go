package cli

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"nearbuy-chat/internal/config"
	"nearbuy-chat/internal/obs"
)

// RootOptions holds global flags and the state PersistentPreRunE prepares for subcommands.
type RootOptions struct {
	EnvFile string
	Verbose bool

	cfg    *config.AppConfig
	logger *slog.Logger
}

// NewRootCommand creates the chatcli root command.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "chatcli",
		Short:         "Marketplace chat client",
		Long:          "Terminal client for buyer/seller conversations: list the inbox, start a chat on a listing and talk in a room.",
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(opts.EnvFile)
			if err != nil {
				return err
			}
			opts.cfg = cfg
			opts.logger = newLogger(cfg.Env, opts.Verbose, cmd.ErrOrStderr())
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "env file to load before the environment")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log engine events to stderr")

	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewInboxCommand(opts))
	cmd.AddCommand(NewInitiateCommand(opts))
	cmd.AddCommand(NewOpenCommand(opts))

	return cmd
}

func newLogger(env string, verbose bool, w io.Writer) *slog.Logger {
	if !verbose {
		return obs.Discard()
	}
	return obs.NewLoggerTo(env, w)
}
