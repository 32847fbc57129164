package cmd

import (
	"fmt"

	"github.com/corey/typedex/internal/adapters/socket"
	"github.com/corey/typedex/internal/app"
	"github.com/corey/typedex/internal/config"
	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show resolved configuration and paths",
	Args:  cobra.NoArgs,
	RunE:  runConfig,
}

type configJSON struct {
	DataDir     string  `json:"data_dir"`
	ConfigFile  string  `json:"config_file,omitempty"`
	Catalog     string  `json:"catalog"`
	HTTPAddr    string  `json:"http_addr"`
	LogFile     string  `json:"log_file"`
	LogLevel    string  `json:"log_level"`
	PokeAPIURL  string  `json:"pokeapi_url"`
	PokeAPIRate float64 `json:"pokeapi_rate"`
	Watch       bool    `json:"watch"`
	Socket      string  `json:"socket"`
	Store       string  `json:"store"`
	Status      string  `json:"status"`
	Daemon      bool    `json:"daemon_running"`
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	paths := app.NewPaths(cfg.DataDir)
	_, running := daemonClient(cfg)

	catalogSrc := cfg.CatalogPath
	if catalogSrc == "" {
		catalogSrc = "(store, then embedded)"
	}

	c := configJSON{
		DataDir:     cfg.DataDir,
		ConfigFile:  cfg.ConfigFile,
		Catalog:     catalogSrc,
		HTTPAddr:    cfg.HTTPAddr,
		LogFile:     cfg.LogFile,
		LogLevel:    cfg.LogLevel.String(),
		PokeAPIURL:  cfg.PokeAPIURL,
		PokeAPIRate: cfg.PokeAPIRate,
		Watch:       cfg.Watch,
		Socket:      socket.SocketPath(cfg.DataDir),
		Store:       paths.DB,
		Status:      paths.Status,
		Daemon:      running,
	}
	if jsonFlag {
		return printJSON(c)
	}

	s := stdoutStyles()
	daemon := s.dim.Render("not running")
	if running {
		daemon = s.good.Render("running")
	}
	fmt.Println(s.title.Render("⚡ typedex config"))
	if c.ConfigFile != "" {
		fmt.Printf("  Config file:  %s\n", c.ConfigFile)
	}
	fmt.Printf("  Data dir:     %s\n", c.DataDir)
	fmt.Printf("  Catalog:      %s\n", c.Catalog)
	fmt.Printf("  Watch:        %t\n", c.Watch)
	fmt.Printf("  HTTP:         %s\n", c.HTTPAddr)
	fmt.Printf("  Log:          %s (%s)\n", c.LogFile, c.LogLevel)
	fmt.Printf("  PokeAPI:      %s (%.1f req/s, timeout %s)\n", c.PokeAPIURL, c.PokeAPIRate, cfg.PokeAPITimeout)
	fmt.Printf("  Store:        %s\n", c.Store)
	fmt.Printf("  Socket:       %s\n", c.Socket)
	fmt.Printf("  Daemon:       %s\n", daemon)
	return nil
}
