package utils

import (
	"fmt"
	"os"
	"path/filepath"
)

// DataCandidates lists where a dictionary named name is looked for, in order:
// the explicit path, ./data, the data dir next to the executable and the
// config dir.
func DataCandidates(explicit, configDir, name string) []string {
	var out []string
	if explicit != "" {
		out = append(out, explicit)
	}
	if cwd, err := os.Getwd(); err == nil {
		out = append(out, filepath.Join(cwd, "data", name))
	}
	if execDir, err := GetExecutableDir(); err == nil {
		out = append(out, filepath.Join(execDir, "data", name))
	}
	if configDir != "" {
		out = append(out, filepath.Join(configDir, name))
	}
	return out
}

// FindFileInPaths returns the first candidate that exists.
func FindFileInPaths(candidates []string) (string, error) {
	for _, p := range candidates {
		if FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("none of %d candidate paths exist: %v", len(candidates), candidates)
}
