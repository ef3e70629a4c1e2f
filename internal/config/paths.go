package config

import (
	"os"
	"path/filepath"
)

// EnvConfigPath points at an explicit config file and wins over every
// search location.
const EnvConfigPath = "NETIFMON_CONFIG"

const configDirName = "netifmon"

// FindConfigPath returns the first config file that exists, searching
// $NETIFMON_CONFIG, ./netifmon.yaml, then the XDG and system config
// directories. Empty string means no config file was found.
func FindConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" && fileExists(path) {
		return path
	}

	if fileExists("netifmon.yaml") {
		if abs, err := filepath.Abs("netifmon.yaml"); err == nil {
			return abs
		}
		return "netifmon.yaml"
	}

	var candidates []string
	if xdgHome := os.Getenv("XDG_CONFIG_HOME"); xdgHome != "" {
		candidates = append(candidates, filepath.Join(xdgHome, configDirName, "config.yaml"))
	}
	if home := os.Getenv("HOME"); home != "" {
		candidates = append(candidates, filepath.Join(home, ".config", configDirName, "config.yaml"))
	}
	candidates = append(candidates, filepath.Join("/etc", configDirName, "config.yaml"))

	for _, path := range candidates {
		if fileExists(path) {
			return path
		}
	}
	return ""
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
