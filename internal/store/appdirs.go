package store

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// Application namespace used to derive the per-user data directory.
const (
	appQualifier    = "com"
	appOrganization = "BookScript"
	appName         = "BookScript"
)

const (
	AutosaveSubdir   = "projects"
	AutosaveFileName = "autosave.bks"
	JournalFileName  = "journal.sqlite"
	LogFileName      = "bookscript.log"

	envDataDir = "BOOKSCRIPT_DATA_DIR"
)

// ResolveAppDataDir returns the per-user data directory for BookScript.
//
// BOOKSCRIPT_DATA_DIR overrides platform resolution (keeps tests and scripts away from $HOME).
func ResolveAppDataDir() (string, error) {
	if v := strings.TrimSpace(os.Getenv(envDataDir)); v != "" {
		return v, nil
	}
	return appDataDir(runtime.GOOS, os.Getenv, os.UserHomeDir)
}

func appDataDir(goos string, getenv func(string) string, homeDir func() (string, error)) (string, error) {
	home, err := homeDir()
	if err == nil && strings.TrimSpace(home) == "" {
		err = errors.New("home directory is empty")
	}

	switch goos {
	case "windows":
		base := strings.TrimSpace(getenv("APPDATA"))
		if base == "" {
			if err != nil {
				return "", errConfig("could not determine user data directory", err)
			}
			base = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(base, appOrganization, appName, "data"), nil
	case "darwin", "ios":
		if err != nil {
			return "", errConfig("could not determine user data directory", err)
		}
		return filepath.Join(home, "Library", "Application Support", appQualifier+"."+appOrganization+"."+appName), nil
	default:
		dirName := strings.ToLower(appName)
		// XDG_DATA_HOME must be absolute; relative values are ignored.
		if xdg := strings.TrimSpace(getenv("XDG_DATA_HOME")); xdg != "" && filepath.IsAbs(xdg) {
			return filepath.Join(xdg, dirName), nil
		}
		if err != nil {
			return "", errConfig("could not determine user data directory", err)
		}
		return filepath.Join(home, ".local", "share", dirName), nil
	}
}

// AutosaveDir resolves <data>/projects and creates it when missing.
func AutosaveDir() (string, error) {
	root, err := ResolveAppDataDir()
	if err != nil {
		return "", err
	}
	dir := filepath.Join(root, AutosaveSubdir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errIO("create autosave directory", dir, err)
	}
	return dir, nil
}

// AutosavePath is the autosave target path. It does not create anything.
func AutosavePath() (string, error) {
	root, err := ResolveAppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, AutosaveSubdir, AutosaveFileName), nil
}

func JournalPath() (string, error) {
	root, err := ResolveAppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, JournalFileName), nil
}

func LogPath() (string, error) {
	root, err := ResolveAppDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(root, LogFileName), nil
}
