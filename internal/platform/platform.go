package platform

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mj1618/desktop-pilot/internal/model"
)

// AppCatalog lists installed applications and launches them.
type AppCatalog interface {
	// Apps returns installed applications sorted by display name.
	Apps() ([]model.App, error)

	// Launch opens the application with the given bundle identifier.
	Launch(ctx context.Context, bundleID string) error
}

// ErrAppNotFound is returned when no installed application matches a name
// or bundle identifier.
var ErrAppNotFound = errors.New("application not found")

// ResolveBundleID returns the bundle identifier of the app whose display
// name matches name, ignoring case.
func ResolveBundleID(apps []model.App, name string) (string, error) {
	for _, a := range apps {
		if strings.EqualFold(a.AppName, name) {
			return a.BundleID, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrAppNotFound, name)
}

// HasBundleID reports whether any app has the given bundle identifier.
func HasBundleID(apps []model.App, bundleID string) bool {
	for _, a := range apps {
		if strings.EqualFold(a.BundleID, bundleID) {
			return true
		}
	}
	return false
}

// SortApps orders apps by display name, then bundle identifier, and drops
// duplicate bundle identifiers keeping the first occurrence.
func SortApps(apps []model.App) []model.App {
	seen := make(map[string]bool, len(apps))
	out := make([]model.App, 0, len(apps))
	for _, a := range apps {
		if a.BundleID == "" || seen[a.BundleID] {
			continue
		}
		seen[a.BundleID] = true
		out = append(out, a)
	}
	sort.SliceStable(out, func(i, j int) bool {
		ni, nj := strings.ToLower(out[i].AppName), strings.ToLower(out[j].AppName)
		if ni != nj {
			return ni < nj
		}
		return out[i].BundleID < out[j].BundleID
	})
	return out
}
