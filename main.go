package main

import (
	"github.com/mj1618/desktop-pilot/cmd"

	_ "github.com/mj1618/desktop-pilot/internal/platform/darwin"
	_ "github.com/mj1618/desktop-pilot/internal/platform/procinfo"
	_ "github.com/mj1618/desktop-pilot/internal/platform/robot"
	_ "github.com/mj1618/desktop-pilot/internal/platform/screen"
)

func main() {
	cmd.Execute()
}
