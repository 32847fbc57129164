package cmd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/corey/typedex/internal/app"
	"github.com/corey/typedex/internal/config"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the daemon in the foreground",
	Long:  "Serves the HTTP API and the local socket until interrupted or told to shut down.",
	RunE:  runServe,
}

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (overrides TYPEDEX_HTTP_ADDR)")
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if serveAddr != "" {
		cfg.HTTPAddr = serveAddr
	}

	if _, ok := daemonClient(cfg); ok {
		fmt.Println("⚡ daemon already running")
		return nil
	}

	logger, closeLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer closeLog()

	a, err := app.New(cfg, logger)
	if err != nil {
		if isDBLockError(err) {
			return errors.New(diagnoseDBLock(cfg.DataDir))
		}
		return fmt.Errorf("init: %w", err)
	}
	if err := a.Start(); err != nil {
		a.Close()
		return err
	}

	fmt.Printf("⚡ typedex serving %s (%d entries from %s)\n",
		a.WebServer.URL(), a.Catalog().Len(), a.Catalog().Source())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case <-sigCh:
		fmt.Println("\n⚡ shutting down...")
	case <-a.Server.ShutdownCh():
		fmt.Println("⚡ shutdown requested")
	}
	return a.Stop()
}
