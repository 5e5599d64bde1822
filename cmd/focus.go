package cmd

import (
	"github.com/mj1618/desktop-pilot/internal/ax"
	"github.com/mj1618/desktop-pilot/internal/output"
	"github.com/spf13/cobra"
)

var focusCmd = &cobra.Command{
	Use:   "focus",
	Short: "Show which application and window own keyboard focus",
	Long: `Print the pid, application name and window id of the focused element.
Unresolvable focus prints pid 0, appName "unknown" and windowId 0.`,
	RunE: runFocus,
}

func init() {
	rootCmd.AddCommand(focusCmd)
	formatFlag(focusCmd)
}

func runFocus(cmd *cobra.Command, args []string) error {
	format, err := output.ParseFormat(mustString(cmd, "format"))
	if err != nil {
		return err
	}
	provider, err := newProvider()
	if err != nil {
		return err
	}
	resolver := ax.Resolver{System: provider.Accessibility, Names: provider.Names}
	return output.Print(cmd.OutOrStdout(), format, resolver.ResolveFocus())
}

func mustString(cmd *cobra.Command, name string) string {
	v, _ := cmd.Flags().GetString(name)
	return v
}
