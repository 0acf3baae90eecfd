package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/airsim/doxysearch/internal/config"
	"github.com/airsim/doxysearch/internal/metrics"
	"github.com/airsim/doxysearch/tools"
)

const (
	version     = "0.3.0"
	serverName  = "doxysearch"
	description = "MCP server for Doxygen symbol search"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:           serverName,
		Short:         description,
		Long:          "Serves prefix lookup and full-text search over a Doxygen html/search directory to MCP clients on stdio.",
		Version:       version,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := run(cmd.Context(), configPath); err != nil {
				log.Printf("Server error: %v", err)
				return err
			}
			return nil
		},
	}
	cmd.SetVersionTemplate(serverName + " version {{.Version}}\n")
	cmd.Flags().StringVar(&configPath, "config", os.Getenv("DOXYSEARCH_CONFIG"), "Path to a YAML config file")
	return cmd
}

func run(ctx context.Context, configPath string) error {
	// Set up logging to stderr (MCP uses stdout for protocol)
	log.SetOutput(os.Stderr)
	log.Printf("%s v%s starting...", serverName, version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.ResolveDataDir()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	if cfg.MetricsAddr != "" {
		addr, shutdown, err := metrics.StartServer(cfg.MetricsAddr, reg)
		if err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer shutdown(context.Background())
		log.Printf("✓ Metrics available at http://%s/metrics", addr)
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	svc := tools.NewService(cfg, tools.NewEmbeddedDataProvider(), m)
	// Set up cleanup on shutdown
	defer func() {
		if err := svc.Close(); err != nil {
			log.Printf("Error closing symbol search: %v", err)
		}
	}()

	// A failed Init is retried lazily by the first tool call
	if err := svc.Init(ctx); err != nil {
		log.Printf("Warning: Failed to initialize symbol search: %v", err)
		log.Printf("Symbol search will initialize on first use")
	}
	if cfg.Watch {
		if err := svc.Watch(ctx); err != nil {
			log.Printf("Warning: File watching disabled: %v", err)
		}
	}

	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    serverName,
			Version: version,
		},
		nil, // Default options
	)
	svc.RegisterTools(server)
	log.Printf("✓ Server ready and waiting for connections (4 tools)")

	// Run server with stdio transport
	if err := server.Run(ctx, &mcp.StdioTransport{}); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
