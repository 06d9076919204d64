package utils

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
)

func HomeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return home
}

// DataDir returns the XDG data home, ~/.local/share unless overridden.
func DataDir() string {
	return xdg.DataHome
}

// ConfigDir returns the XDG config home, ~/.config unless overridden.
func ConfigDir() string {
	return xdg.ConfigHome
}

// ExpandHome expands a leading ~ to the user's home directory.
func ExpandHome(p string) string {
	if p == "~" {
		return HomeDir()
	}
	if strings.HasPrefix(p, "~/") {
		return filepath.Join(HomeDir(), p[2:])
	}
	return p
}

func DirExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return info.IsDir()
}

func FileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}
