package cmd

import (
	"fmt"
	"strings"

	"github.com/mj1618/desktop-pilot/internal/input"
	"github.com/spf13/cobra"
)

var typeCmd = &cobra.Command{
	Use:   "type [text]",
	Short: "Paste text or press a key combination",
	Long: `Paste text into the focused application through the clipboard, or press a
key combination such as "cmd+c", "enter" or "cmd+shift+t" with --key.

The clipboard is overwritten and not restored.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runType,
}

func init() {
	rootCmd.AddCommand(typeCmd)
	typeCmd.Flags().String("text", "", "Text to paste")
	typeCmd.Flags().String("key", "", "Key combination joined by '+'")
}

func runType(cmd *cobra.Command, args []string) error {
	text := mustString(cmd, "text")
	if text == "" && len(args) > 0 {
		text = args[0]
	}
	key := mustString(cmd, "key")
	if text == "" && key == "" {
		return fmt.Errorf("specify text to paste or --key")
	}

	var combo string
	var mods []input.Modifier
	if key != "" {
		var err error
		if combo, mods, err = input.ParseCombo(strings.Split(key, "+")); err != nil {
			return err
		}
	}

	provider, err := newProvider()
	if err != nil {
		return err
	}
	inj := &input.Injector{Device: provider.Input, PasteSettle: cfg.Input.PasteSettle}

	if text != "" {
		if err := inj.Paste(cmd.Context(), text); err != nil {
			return err
		}
	}
	if combo != "" {
		return inj.PressKeysWithModifiers(mods, combo)
	}
	return nil
}
