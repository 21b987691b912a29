// Package theme holds the follow-system/light/dark theme mode and persists
// the selected mode to a preference store.
package theme

import "fmt"

// Mode is the persisted theme selection.
type Mode string

const (
	ModeSystem Mode = "system"
	ModeLight  Mode = "light"
	ModeDark   Mode = "dark"
)

// PreferenceKey is the key the selected mode is stored under.
const PreferenceKey = "theme_mode"

// Modes lists every mode in cycling order.
var Modes = []Mode{ModeSystem, ModeLight, ModeDark}

// ParseMode returns the Mode for a persisted token.
func ParseMode(token string) (Mode, error) {
	switch m := Mode(token); m {
	case ModeSystem, ModeLight, ModeDark:
		return m, nil
	}
	return ModeSystem, fmt.Errorf("unknown theme mode %q", token)
}

// Next returns the mode after m: system, light, dark, then system again.
func (m Mode) Next() Mode {
	for i, mode := range Modes {
		if mode == m {
			return Modes[(i+1)%len(Modes)]
		}
	}
	return ModeSystem
}

// Resolve collapses ModeSystem into light or dark.
func (m Mode) Resolve(systemDark bool) Mode {
	if m == ModeSystem {
		if systemDark {
			return ModeDark
		}
		return ModeLight
	}
	return m
}

// Label is the human readable name of m.
func (m Mode) Label() string {
	switch m {
	case ModeLight:
		return "Light"
	case ModeDark:
		return "Dark"
	default:
		return "System default"
	}
}

func (m Mode) String() string {
	return string(m)
}
