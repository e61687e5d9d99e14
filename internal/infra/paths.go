package infra

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	AppName = "xtb-slim"
)

// ResolveConfigPath attempts to find the config.yaml.
// Priority: 1. Current Dir, 2. OS Config Dir
func ResolveConfigPath() string {
	defaultPath := filepath.Join("configs", "config.yaml")

	// 1. Current working directory (standard)
	if _, err := os.Stat(defaultPath); err == nil {
		return defaultPath
	}

	// 2. OS Standard Config Dir
	configRoot, err := os.UserConfigDir()
	if err == nil {
		osPath := filepath.Join(configRoot, AppName, "config.yaml")
		if _, err := os.Stat(osPath); err == nil {
			return osPath
		}
	}

	// Return default and let LoadConfig report the missing file.
	return defaultPath
}

// CreateLockFile attempts to create a lock file to prevent multiple client
// instances from sharing one account session. It returns a closer function,
// or an error if another instance is already running.
func CreateLockFile(workDir string) (func(), error) {
	lockPath := filepath.Join(workDir, "instance.lock")

	f, err := os.OpenFile(lockPath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if err != nil {
		if os.IsExist(err) {
			return nil, fmt.Errorf("another instance is already running (lock file exists: %s)", lockPath)
		}
		return nil, err
	}

	// Write current PID for debugging
	f.WriteString(fmt.Sprintf("%d", os.Getpid()))
	f.Close()

	closer := func() {
		os.Remove(lockPath)
	}

	return closer, nil
}
