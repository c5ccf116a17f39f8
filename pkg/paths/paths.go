package paths

import (
	"os"
	"path/filepath"
)

// GetConfigDir returns the user's config directory for deepchat.
//
// If the home directory cannot be determined, it falls back to a directory
// under the system temporary directory. This is a best-effort fallback and
// not intended to be a security boundary.
func GetConfigDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fallback to temp directory
		return filepath.Clean(filepath.Join(os.TempDir(), ".deepchat-config"))
	}
	return filepath.Clean(filepath.Join(homeDir, ".config", "deepchat"))
}

// GetDataDir returns the user's data directory for deepchat (logs, caches).
//
// If the home directory cannot be determined, it falls back to a directory
// under the system temporary directory.
func GetDataDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return filepath.Clean(filepath.Join(os.TempDir(), ".deepchat"))
	}
	return filepath.Clean(filepath.Join(homeDir, ".deepchat"))
}
