package cmd

import (
	"errors"
	"log/slog"
	"os"

	"github.com/corey/typedex/internal/adapters/socket"
	"github.com/corey/typedex/internal/app"
	"github.com/corey/typedex/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "typedex",
	Short:        "Type matchups and name suggestions",
	Long:         "Type-effectiveness tables for one or two defending types, and kana-insensitive name search over the catalog.",
	SilenceUsage: true,
}

var (
	colorFlag   string
	noColorFlag bool
	jsonFlag    bool
)

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "colorize output: auto, always or never")
	rootCmd.PersistentFlags().BoolVar(&noColorFlag, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&jsonFlag, "json", false, "print JSON instead of text")

	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(matchupCmd)
	rootCmd.AddCommand(mentionsCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(healthCmd)
	rootCmd.AddCommand(reloadCmd)
	rootCmd.AddCommand(catalogCmd)
	rootCmd.AddCommand(configCmd)
}

// cliLogger logs warnings and errors to stderr for one-shot commands.
func cliLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelWarn}))
}

// daemonClient returns a client for the configured data dir and whether a
// daemon answers on it.
func daemonClient(cfg config.Config) (*socket.Client, bool) {
	client := socket.NewClient(socket.SocketPath(cfg.DataDir))
	return client, client.Ping()
}

// openLocal builds an App without starting any server, for commands that run
// when no daemon is up. Callers must Close it.
func openLocal(cfg config.Config) (*app.App, error) {
	a, err := app.New(cfg, cliLogger())
	if err != nil {
		if isDBLockError(err) {
			return nil, errors.New(diagnoseDBLock(cfg.DataDir))
		}
		return nil, err
	}
	return a, nil
}
