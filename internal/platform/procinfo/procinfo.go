// Package procinfo names processes from the OS process table.
package procinfo

import (
	"fmt"
	"strings"

	"github.com/mj1618/desktop-pilot/internal/platform"
	"github.com/shirou/gopsutil/v4/process"
)

func init() {
	platform.RegisterBackend("gopsutil", func(p *platform.Provider, _ platform.Options) error {
		p.Names = append(p.Names, Namer{})
		return nil
	})
}

// Namer resolves a pid to its executable name.
type Namer struct{}

func (Namer) AppName(pid int) (string, error) {
	if pid <= 0 {
		return "", fmt.Errorf("invalid pid %d", pid)
	}
	proc, err := process.NewProcess(int32(pid))
	if err != nil {
		return "", fmt.Errorf("process %d: %w", pid, err)
	}
	name, err := proc.Name()
	if err != nil {
		return "", fmt.Errorf("process %d name: %w", pid, err)
	}
	return strings.TrimSpace(name), nil
}
