package cmd

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/config"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/logging"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server",
	Long: `Start the MCP server. With --transport stdio (the default) the server talks
to a single client on stdin and stdout. With --transport http it serves
streamable HTTP on /mcp, with /healthz and /metrics alongside.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("transport", "", "transport: stdio or http (overrides config)")
	serveCmd.Flags().Int("port", 0, "HTTP listen port (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	c, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if transport, _ := cmd.Flags().GetString("transport"); transport != "" {
		c.Transport = strings.ToLower(transport)
	}
	if port, _ := cmd.Flags().GetInt("port"); port != 0 {
		c.Server.Port = port
	}
	if err := c.Validate(); err != nil {
		return err
	}

	logger := newLogger(cmd, c)
	logging.SetDefault(logger)

	a, err := newApp(c, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting itglue-mcp",
		"version", Version,
		"transport", c.Transport,
		"base_url", c.ResolvedBaseURL(),
		"ratelimit", c.RateLimit.Enabled,
		"audit", c.Audit.Enabled,
	)

	return serve(ctx, c, a)
}

func serve(ctx context.Context, c *config.Config, a *app) error {
	if c.Transport == config.TransportHTTP {
		return server.NewHTTPServer(a.mcp, c.Server, a.logger).Run(ctx)
	}
	return server.RunStdio(ctx, a.mcp, a.logger)
}
