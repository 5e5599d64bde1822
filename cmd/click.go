package cmd

import (
	"fmt"

	"github.com/mj1618/desktop-pilot/internal/input"
	"github.com/mj1618/desktop-pilot/internal/model"
	"github.com/spf13/cobra"
)

var clickCmd = &cobra.Command{
	Use:   "click",
	Short: "Click at screen coordinates or at the pointer",
	Long: `Left-click at absolute logical screen coordinates (origin top-left), or at
the current pointer position when neither --x nor --y is given. With --move-only
the pointer is moved without clicking.`,
	RunE: runClick,
}

func init() {
	rootCmd.AddCommand(clickCmd)
	clickCmd.Flags().Float64("x", 0, "X screen coordinate")
	clickCmd.Flags().Float64("y", 0, "Y screen coordinate")
	clickCmd.Flags().Bool("move-only", false, "Move the pointer without clicking")
}

func runClick(cmd *cobra.Command, args []string) error {
	provider, err := newProvider()
	if err != nil {
		return err
	}
	inj := &input.Injector{Device: provider.Input, PasteSettle: cfg.Input.PasteSettle}

	x, _ := cmd.Flags().GetFloat64("x")
	y, _ := cmd.Flags().GetFloat64("y")
	hasPoint := cmd.Flags().Changed("x") || cmd.Flags().Changed("y")
	moveOnly, _ := cmd.Flags().GetBool("move-only")

	switch {
	case moveOnly:
		if !hasPoint {
			return fmt.Errorf("--move-only requires --x and/or --y")
		}
		return inj.MoveCursor(model.Point{X: x, Y: y})
	case hasPoint:
		return inj.Click(model.Point{X: x, Y: y})
	default:
		return inj.ClickAtCursor()
	}
}
