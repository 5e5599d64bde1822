package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/mj1618/desktop-pilot/internal/config"
	"github.com/mj1618/desktop-pilot/internal/logging"
	"github.com/mj1618/desktop-pilot/internal/platform"
	"github.com/mj1618/desktop-pilot/internal/version"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "desktop-pilot",
	Short: "Drive the local desktop over HTTP or MCP",
	Long: `desktop-pilot exposes pointer and keyboard injection, screen capture,
accessibility-tree export, process execution and application launch as a
local control plane for automation agents.`,
	SilenceUsage: true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", version.Version, version.Commit, version.BuildDate)
	rootCmd.PersistentFlags().String("config", "", "Config file (default: ~/.desktop-pilot/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "", "Log format: text, json")
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		path, _ := rootCmd.PersistentFlags().GetString("config")
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		if level, _ := rootCmd.PersistentFlags().GetString("log-level"); level != "" {
			loaded.Log.Level = level
		}
		if format, _ := rootCmd.PersistentFlags().GetString("log-format"); format != "" {
			loaded.Log.Format = format
		}

		l, err := logging.New(loaded.Log, os.Stderr)
		if err != nil {
			return err
		}
		cfg, logger = loaded, l
		slog.SetDefault(l)
		return nil
	}
}

// newProvider asks for OS permissions and assembles the platform backends.
func newProvider() (*platform.Provider, error) {
	if platform.RequestPermissionsFunc != nil {
		platform.RequestPermissionsFunc()
	}
	return platform.NewProvider(platform.Options{
		Logger:        logger,
		FrameInterval: cfg.Capture.FrameInterval,
	})
}

// formatFlag adds the --format flag shared by commands that print results.
func formatFlag(cmd *cobra.Command) {
	cmd.Flags().String("format", "yaml", "Output format: yaml, json")
}
