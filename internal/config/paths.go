package config

import (
	"os"
	"path/filepath"
	"strings"
)

// GetGlobalConfigDir returns the path to the global configuration directory (~/.contactbook).
// It's a variable to allow overriding in tests.
var GetGlobalConfigDir = func() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

// ExpandPath resolves a leading "~" to the user's home directory so that
// config files and env vars can use home-relative locations. Other paths
// are returned unchanged.
func ExpandPath(path string) string {
	if path != "~" && !strings.HasPrefix(path, "~/") && !strings.HasPrefix(path, `~\`) {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	if path == "~" {
		return home
	}
	return filepath.Join(home, path[2:])
}
