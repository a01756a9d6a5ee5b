package trackcfg

import (
	"os"
	"path/filepath"
)

// XDGBaseDirs holds the XDG Base Directory paths relevant to config loading.
type XDGBaseDirs struct {
	ConfigHome string
	DataHome   string
	CacheHome  string
}

// GetXDGBaseDirs returns the XDG Base Directory paths, falling back to the
// conventional dotfile locations under $HOME when the XDG_* variables are
// unset.
func GetXDGBaseDirs() XDGBaseDirs {
	return XDGBaseDirs{
		ConfigHome: getXDGConfigHome(),
		DataHome:   getXDGDataHome(),
		CacheHome:  getXDGCacheHome(),
	}
}

func getXDGConfigHome() string {
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return v
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".config")
	}
	return ""
}

func getXDGDataHome() string {
	if v := os.Getenv("XDG_DATA_HOME"); v != "" {
		return v
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".local", "share")
	}
	return ""
}

func getXDGCacheHome() string {
	if v := os.Getenv("XDG_CACHE_HOME"); v != "" {
		return v
	}
	if home := os.Getenv("HOME"); home != "" {
		return filepath.Join(home, ".cache")
	}
	return ""
}

// GetAppConfigDir returns $XDG_CONFIG_HOME/appName (or ~/.config/appName).
func GetAppConfigDir(appName string) string {
	return filepath.Join(GetXDGBaseDirs().ConfigHome, appName)
}
