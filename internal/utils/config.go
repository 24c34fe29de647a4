package utils

import (
	"os"
	"path/filepath"
)

// DefaultStateDir returns ~/.hotelres, or a temp dir when there is no home.
func DefaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "hotelres")
	}
	return filepath.Join(home, ".hotelres")
}

// SessionFile is where the sealed token/role pair lives.
func SessionFile(stateDir string) string {
	return filepath.Join(stateDir, "session.json.enc")
}

// KeyFile is the default location of the sealing key written by genkey.
func KeyFile(stateDir string) string {
	return filepath.Join(stateDir, "session.key")
}
