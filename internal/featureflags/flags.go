// Package featureflags reads runtime feature toggles from the environment.
package featureflags

import (
	"os"
	"strings"
)

// Enabled returns true if a flag is enabled via environment variable.
// Flags are read from env as FLAG_<NAME>=true/1/yes (case-insensitive).
func Enabled(name string) bool {
	return EnabledDefault(name, false)
}

// EnabledDefault reads a flag with a fallback for when the variable is
// unset.
func EnabledDefault(name string, def bool) bool {
	v, ok := os.LookupEnv("FLAG_" + strings.ToUpper(name))
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
