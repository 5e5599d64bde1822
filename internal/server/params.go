package server

import (
	"strconv"

	"github.com/mj1618/desktop-pilot/internal/model"
)

// Tool arguments arrive as decoded JSON: numbers are float64, arrays are
// []any. These helpers also accept numeric strings.

func stringParam(params map[string]any, key, def string) string {
	if v, ok := params[key].(string); ok && v != "" {
		return v
	}
	return def
}

func numberParam(params map[string]any, key string) (float64, bool) {
	switch v := params[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

func stringsParam(params map[string]any, key string) []string {
	switch v := params[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// pointParam returns the x/y point when either coordinate is present.
func pointParam(params map[string]any) *model.Point {
	x, hasX := numberParam(params, "x")
	y, hasY := numberParam(params, "y")
	if !hasX && !hasY {
		return nil
	}
	return &model.Point{X: x, Y: y}
}
