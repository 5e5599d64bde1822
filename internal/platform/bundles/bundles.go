// Package bundles lists installed application bundles by reading their
// Info.plist files and launches them by bundle identifier.
package bundles

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/mj1618/desktop-pilot/internal/model"
	"github.com/mj1618/desktop-pilot/internal/platform"
	"howett.net/plist"
)

// DefaultDirs are the directories scanned for .app bundles.
func DefaultDirs() []string {
	dirs := []string{"/Applications", "/System/Applications"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, "Applications"))
	}
	return dirs
}

// Catalog implements platform.AppCatalog over bundle directories.
type Catalog struct {
	Dirs []string

	// Launcher opens a bundle. Nil means `open -b`.
	Launcher func(ctx context.Context, bundleID string) error
}

var _ platform.AppCatalog = (*Catalog)(nil)

// NewCatalog returns a Catalog over dirs, or DefaultDirs when dirs is empty.
func NewCatalog(dirs []string) *Catalog {
	if len(dirs) == 0 {
		dirs = DefaultDirs()
	}
	return &Catalog{Dirs: dirs}
}

type infoPlist struct {
	BundleIdentifier string `plist:"CFBundleIdentifier"`
	BundleName       string `plist:"CFBundleName"`
	BundleExecutable string `plist:"CFBundleExecutable"`
}

// Apps scans each directory and one level of subdirectories for .app
// bundles. Missing directories and unreadable bundles are skipped.
func (c *Catalog) Apps() ([]model.App, error) {
	var apps []model.App
	for _, dir := range c.Dirs {
		apps = append(apps, scanDir(dir, 1)...)
	}
	return platform.SortApps(apps), nil
}

func scanDir(dir string, depth int) []model.App {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var apps []model.App
	for _, e := range entries {
		path := filepath.Join(dir, e.Name())
		if !e.IsDir() {
			continue
		}
		if strings.HasSuffix(e.Name(), ".app") {
			if app, err := ReadBundle(path); err == nil {
				apps = append(apps, app)
			}
			continue
		}
		if depth > 0 {
			apps = append(apps, scanDir(path, depth-1)...)
		}
	}
	return apps
}

// ReadBundle reads the identity of the .app bundle at path.
func ReadBundle(path string) (model.App, error) {
	f, err := os.Open(filepath.Join(path, "Contents", "Info.plist"))
	if err != nil {
		return model.App{}, fmt.Errorf("open Info.plist: %w", err)
	}
	defer f.Close()

	var info infoPlist
	if err := plist.NewDecoder(f).Decode(&info); err != nil {
		return model.App{}, fmt.Errorf("decode %s: %w", path, err)
	}
	if info.BundleIdentifier == "" {
		return model.App{}, fmt.Errorf("%s has no bundle identifier", path)
	}

	name := firstNonEmpty(info.BundleName, info.BundleExecutable)
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), ".app")
	}
	return model.App{AppName: name, BundleID: info.BundleIdentifier, Path: path}, nil
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// Launch opens the application with bundleID. LaunchServices failing to
// resolve the identifier is reported as platform.ErrAppNotFound.
func (c *Catalog) Launch(ctx context.Context, bundleID string) error {
	if c.Launcher != nil {
		return c.Launcher(ctx, bundleID)
	}
	out, err := exec.CommandContext(ctx, "open", "-b", bundleID).CombinedOutput()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("open -b %s: %w", bundleID, ctx.Err())
	}
	return launchError(bundleID, out, err)
}

// launchError classifies a failed open -b. Only an unresolvable identifier
// is a missing application; anything else is a launch failure.
func launchError(bundleID string, out []byte, err error) error {
	msg := strings.TrimSpace(string(out))
	if strings.Contains(strings.ToLower(msg), "unable to find application") {
		return fmt.Errorf("%w: %s: %s", platform.ErrAppNotFound, bundleID, msg)
	}
	if msg == "" {
		return fmt.Errorf("open -b %s: %w", bundleID, err)
	}
	return fmt.Errorf("open -b %s: %s: %w", bundleID, msg, err)
}
