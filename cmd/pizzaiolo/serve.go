package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lucaferri/pizzaiolo/internal/config"
	"github.com/lucaferri/pizzaiolo/internal/server"
	"github.com/lucaferri/pizzaiolo/internal/session"
)

var portFlag int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the pizza agent HTTP server",
	Long: `Start the HTTP server exposing POST /chat and a WebSocket chat
endpoint, with per-session carts kept in memory.

Examples:
  pizzaiolo serve
  pizzaiolo serve --port 9090`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&portFlag, "port", 0, "Port to listen on (overrides config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	catalog, registry, client, err := buildComponents(cfg)
	if err != nil {
		return err
	}

	store := session.NewStore(cfg.Session.TTL)
	defer store.Close()

	port := cfg.Server.Port
	if portFlag > 0 {
		port = portFlag
	}

	srv := server.New(cfg, store, registry, catalog, client)

	// Graceful shutdown on SIGINT/SIGTERM
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		srv.Shutdown(context.Background())
	}()

	return srv.Start(port)
}
