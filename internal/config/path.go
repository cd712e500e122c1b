package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrNoHome is returned for a "~" path when the home directory is unknown.
var ErrNoHome = errors.New("cannot resolve home directory")

// userHomeDir is swapped in tests.
var userHomeDir = os.UserHomeDir

// ExpandPath substitutes $VAR references and resolves a leading "~" to the
// user's home directory. A "~" elsewhere in the path is left alone.
func ExpandPath(path string) (string, error) {
	path = os.ExpandEnv(path)
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}

	home, err := userHomeDir()
	if err != nil || home == "" {
		return "", fmt.Errorf("%w for %q", ErrNoHome, path)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
