package input

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownKey is returned for key or modifier names that are not mapped.
var ErrUnknownKey = errors.New("unknown key")

// Modifier is a modifier key held during a key press.
type Modifier string

const (
	ModCommand Modifier = "command"
	ModShift   Modifier = "shift"
	ModControl Modifier = "control"
	ModOption  Modifier = "option"
)

var modifierAliases = map[string]Modifier{
	"cmd": ModCommand, "command": ModCommand, "meta": ModCommand,
	"shift": ModShift,
	"ctrl": ModControl, "control": ModControl,
	"alt": ModOption, "opt": ModOption, "option": ModOption,
}

// ParseModifier maps a modifier name or alias to a Modifier.
func ParseModifier(s string) (Modifier, error) {
	if m, ok := modifierAliases[strings.ToLower(strings.TrimSpace(s))]; ok {
		return m, nil
	}
	return "", fmt.Errorf("%w: modifier %q (expected command, shift, control, or option)", ErrUnknownKey, s)
}

// ParseModifiers maps every name in names, failing on the first unknown one.
func ParseModifiers(names []string) ([]Modifier, error) {
	mods := make([]Modifier, 0, len(names))
	for _, n := range names {
		m, err := ParseModifier(n)
		if err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, nil
}

// keyAliases maps accepted key names to canonical names.
var keyAliases = map[string]string{
	"return": "enter", "enter": "enter", "tab": "tab", "space": "space",
	"delete": "backspace", "backspace": "backspace", "forwarddelete": "delete",
	"escape": "esc", "esc": "esc",
	"up": "up", "down": "down", "left": "left", "right": "right",
	"home": "home", "end": "end", "pageup": "pageup", "pagedown": "pagedown",
	"f1": "f1", "f2": "f2", "f3": "f3", "f4": "f4", "f5": "f5", "f6": "f6",
	"f7": "f7", "f8": "f8", "f9": "f9", "f10": "f10", "f11": "f11", "f12": "f12",
}

// ParseKey returns the canonical name for a key. Single letters and digits
// are accepted as is, lower-cased.
func ParseKey(s string) (string, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	if len(k) == 1 && (k[0] >= 'a' && k[0] <= 'z' || k[0] >= '0' && k[0] <= '9') {
		return k, nil
	}
	if name, ok := keyAliases[k]; ok {
		return name, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKey, s)
}

// ParseCombo splits a combo such as ["cmd", "shift", "t"] into its key and
// modifiers. Exactly one non-modifier key is required.
func ParseCombo(parts []string) (string, []Modifier, error) {
	var key string
	var mods []Modifier
	for _, p := range parts {
		if m, err := ParseModifier(p); err == nil {
			mods = append(mods, m)
			continue
		}
		k, err := ParseKey(p)
		if err != nil {
			return "", nil, err
		}
		if key != "" {
			return "", nil, fmt.Errorf("combo has more than one key: %q and %q", key, k)
		}
		key = k
	}
	if key == "" {
		return "", nil, fmt.Errorf("no key specified in combo, only modifiers")
	}
	return key, mods, nil
}
