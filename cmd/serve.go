package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/mj1618/desktop-pilot/internal/config"
	"github.com/mj1618/desktop-pilot/internal/server"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the automation dispatcher",
	Long: `Start the dispatcher that exposes desktop automation endpoints.

Supported transports:
  http        JSON over HTTP (default)
  mcp-stdio   Model Context Protocol over standard I/O
  mcp-http    Model Context Protocol over streamable HTTP

Requests are not serialized: concurrent callers driving the same clipboard,
pointer or focus must order their own requests.

Examples:
  desktop-pilot serve
  desktop-pilot serve --addr 127.0.0.1:9000
  desktop-pilot serve --transport mcp-stdio`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().String("transport", "", "Transport: http, mcp-stdio, mcp-http (default from config)")
	serveCmd.Flags().String("addr", "", "Listen address (default from config, :8080)")
}

func runServe(cmd *cobra.Command, args []string) error {
	if transport, _ := cmd.Flags().GetString("transport"); transport != "" {
		cfg.Server.Transport = config.Transport(transport)
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Server.Addr = addr
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	provider, err := newProvider()
	if err != nil {
		return fmt.Errorf("failed to create platform provider: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return server.FromProvider(provider, cfg, logger).Serve(ctx)
}
