package cmd

import (
	"fmt"
	"strings"

	"github.com/mj1618/desktop-pilot/internal/output"
	"github.com/mj1618/desktop-pilot/internal/platform"
	"github.com/spf13/cobra"
)

// OpenResult is the output of a successful open.
type OpenResult struct {
	OK       bool   `yaml:"ok"       json:"ok"`
	Action   string `yaml:"action"   json:"action"`
	BundleID string `yaml:"bundleId" json:"bundleId"`
}

var openCmd = &cobra.Command{
	Use:   "open [app name or bundle id]",
	Short: "Launch an installed application",
	Long: `Launch an application by display name (matched case-insensitively) or by
bundle identifier. A positional argument containing a dot is treated as a
bundle identifier when it matches an installed application.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runOpen,
}

func init() {
	rootCmd.AddCommand(openCmd)
	openCmd.Flags().String("app", "", "Application display name")
	openCmd.Flags().String("bundle-id", "", "Application bundle identifier")
	formatFlag(openCmd)
}

func runOpen(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(mustString(cmd, "format"))
	if err != nil {
		return err
	}
	appName := mustString(cmd, "app")
	bundleID := mustString(cmd, "bundle-id")

	provider, err := newProvider()
	if err != nil {
		return err
	}
	if provider.Apps == nil {
		return fmt.Errorf("application catalog not available on this platform")
	}

	if len(args) > 0 && appName == "" && bundleID == "" {
		arg := args[0]
		apps, err := provider.Apps.Apps()
		if err != nil {
			return err
		}
		if strings.Contains(arg, ".") && platform.HasBundleID(apps, arg) {
			bundleID = arg
		} else if bundleID, err = platform.ResolveBundleID(apps, arg); err != nil {
			return err
		}
	}
	if bundleID == "" && appName == "" {
		return fmt.Errorf("specify an application name, --app, or --bundle-id")
	}
	if bundleID == "" {
		apps, err := provider.Apps.Apps()
		if err != nil {
			return err
		}
		if bundleID, err = platform.ResolveBundleID(apps, appName); err != nil {
			return err
		}
	}

	if err := provider.Apps.Launch(cmd.Context(), bundleID); err != nil {
		return err
	}
	return output.Print(cmd.OutOrStdout(), format, OpenResult{OK: true, Action: "open", BundleID: bundleID})
}
