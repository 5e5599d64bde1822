package cmd

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"github.com/mj1618/desktop-pilot/internal/capture"
	"github.com/spf13/cobra"
)

var screenshotCmd = &cobra.Command{
	Use:   "screenshot",
	Short: "Capture the main display as JPEG",
	Long: `Capture one frame of the main display at its native pixel size and
encode it as JPEG. Fails if no frame arrives within the capture timeout.`,
	RunE: runScreenshot,
}

func init() {
	rootCmd.AddCommand(screenshotCmd)
	screenshotCmd.Flags().String("output", "", "Output file path (default: stdout as base64)")
	screenshotCmd.Flags().Int("quality", 0, "JPEG quality 1-100 (default from config)")
	screenshotCmd.Flags().Duration("timeout", 0, "How long to wait for a frame (default from config)")
}

func runScreenshot(cmd *cobra.Command, args []string) error {
	quality, _ := cmd.Flags().GetInt("quality")
	if quality == 0 {
		quality = cfg.Capture.JPEGQuality
	}
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = cfg.Capture.Timeout
	}

	provider, err := newProvider()
	if err != nil {
		return err
	}
	if provider.Screen == nil {
		return fmt.Errorf("screen capture not supported on this platform")
	}

	engine := &capture.Engine{Source: provider.Screen, Timeout: timeout, Logger: logger}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	data, err := engine.CaptureJPEG(ctx, quality)
	if err != nil {
		return err
	}

	if path, _ := cmd.Flags().GetString("output"); path != "" {
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		logger.Info("screenshot saved", "path", path, "bytes", len(data))
		return nil
	}

	// Default: write to stdout as base64 for easy agent consumption
	out := cmd.OutOrStdout()
	encoder := base64.NewEncoder(base64.StdEncoding, out)
	if _, err := encoder.Write(data); err != nil {
		return err
	}
	if err := encoder.Close(); err != nil {
		return err
	}
	fmt.Fprintln(out)
	return nil
}
