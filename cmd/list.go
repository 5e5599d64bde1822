package cmd

import (
	"fmt"

	"github.com/mj1618/desktop-pilot/internal/model"
	"github.com/mj1618/desktop-pilot/internal/output"
	"github.com/mj1618/desktop-pilot/internal/windows"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"windows"},
	Short:   "List on-screen windows or installed applications",
	Long: `List on-screen windows owned by user processes (pid at or above the
configured floor), or installed applications with --apps.`,
	RunE: runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().Bool("apps", false, "List installed applications instead of windows")
	listCmd.Flags().Int("min-pid", -1, "Hide windows of processes below this pid (default from config)")
	formatFlag(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(mustString(cmd, "format"))
	if err != nil {
		return err
	}
	provider, err := newProvider()
	if err != nil {
		return err
	}

	if apps, _ := cmd.Flags().GetBool("apps"); apps {
		if provider.Apps == nil {
			return fmt.Errorf("application catalog not available on this platform")
		}
		list, err := provider.Apps.Apps()
		if err != nil {
			return err
		}
		if list == nil {
			list = []model.App{}
		}
		return output.Print(cmd.OutOrStdout(), format, list)
	}

	floor := cfg.Windows.MinOwnerPID
	if minPID, _ := cmd.Flags().GetInt("min-pid"); minPID >= 0 {
		floor = minPID
	}
	enum := windows.Enumerator{Lister: provider.Windows, System: provider.Accessibility}
	wins, err := enum.ListWindows(floor)
	if err != nil {
		return err
	}
	return output.Print(cmd.OutOrStdout(), format, wins)
}
