package common

import (
	"os"
	"path/filepath"
	"strings"
)

// ExpandPath resolves a configured filesystem path: a leading ~ becomes
// the user's home directory, and $VAR references are expanded from the
// environment. Paths that need neither pass through unchanged.
func ExpandPath(path string) string {
	switch {
	case path == "~":
		if home, err := os.UserHomeDir(); err == nil {
			path = home
		}
	case strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path, "~/"))
		}
	}

	return os.ExpandEnv(path)
}
