// Package cmd implements the itglue-mcp command line.
package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Junto-Platforms/itglue-mcp-server/internal/config"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/logging"
	"github.com/Junto-Platforms/itglue-mcp-server/internal/output"
)

// Version is set at build time with -ldflags "-X .../internal/cmd.Version=...".
var Version = "dev"

var (
	cfgFile string
	cfg     *config.Config
	cfgErr  error
)

var rootCmd = &cobra.Command{
	Use:   "itglue-mcp",
	Short: "IT Glue MCP server",
	Long: `itglue-mcp exposes the IT Glue API as Model Context Protocol tools.

Run "itglue-mcp serve" to start the server over stdio (the default) or
streamable HTTP. The API key is read from ITGLUE_API_KEY or the config file.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printer(rootCmd).Error("%v", err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $ITGLUE_CONFIG_DIR/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides config)")
}

func initConfig() {
	cfg, cfgErr = config.Load(cfgFile)
}

// loadConfig returns the loaded configuration with command line overrides
// applied.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	if cfgErr != nil {
		return nil, fmt.Errorf("load config: %w", cfgErr)
	}
	if cfg == nil {
		return nil, fmt.Errorf("load config: configuration was not initialized")
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
	}
	return cfg, nil
}

// newLogger writes to stderr: stdout belongs to the stdio transport and to
// command output.
func newLogger(cmd *cobra.Command, c *config.Config) *logging.Logger {
	return logging.New(logging.ParseLevel(c.Logging.Level), c.Logging.Format, stderr(cmd)).
		With(logging.Service("itglue-mcp"))
}

func printer(cmd *cobra.Command) *output.Printer {
	return output.New(cmd.OutOrStdout(), stderr(cmd))
}

func stderr(cmd *cobra.Command) io.Writer {
	if w := cmd.ErrOrStderr(); w != nil {
		return w
	}
	return os.Stderr
}
