package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"

	"github.com/dgallion1/folio-mcp/internal/app"
	"github.com/dgallion1/folio-mcp/internal/config"
	"github.com/dgallion1/folio-mcp/internal/version"
)

var (
	flagConfig    string
	flagTransport string
	flagAddr      string
)

var rootCmd = &cobra.Command{
	Use:   "folio-mcp",
	Short: "MCP server exposing Folio intranet content to assistants",
	Long: `folio-mcp serves two MCP tools over stdio or HTTP: search, which queries
a Folio community, and fetch, which reads pages as markdown with
boundary-aware pagination for long documents.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.String())
	},
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, serveCmd} {
		c.Flags().StringVar(&flagConfig, "config", "", "Path to a YAML config file (default $FOLIO_CONFIG)")
		c.Flags().StringVar(&flagTransport, "transport", "", "Transport: stdio or http (default from config)")
		c.Flags().StringVar(&flagAddr, "addr", "", "HTTP listen address (default from config)")
	}
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("%s\n", version.String()))
	rootCmd.AddCommand(serveCmd, versionCmd)
}

func runServe() error {
	// stdout carries the stdio transport, so logs go to stderr.
	log := slog.New(slog.NewJSONHandler(os.Stderr, nil))

	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagTransport != "" {
		cfg.Transport = flagTransport
	}
	if flagAddr != "" {
		cfg.HTTPAddr = flagAddr
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	srv, cleanup := app.New(cfg, log)
	defer cleanup()

	switch cfg.Transport {
	case "http":
		return serveHTTP(cfg, app.NewHTTPHandler(srv, cfg.HTTPAPIKey, log), log)
	default:
		log.Info("starting folio-mcp", "transport", "stdio")
		return mcpserver.ServeStdio(srv)
	}
}

func serveHTTP(cfg config.Config, handler http.Handler, log *slog.Logger) error {
	httpServer := &http.Server{
		Addr:        cfg.HTTPAddr,
		Handler:     handler,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 60 * time.Second,
		// No WriteTimeout: streamable MCP sessions hold their responses open.
	}

	done := make(chan error, 1)
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		done <- httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting folio-mcp", "transport", "http", "addr", cfg.HTTPAddr)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return <-done
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
