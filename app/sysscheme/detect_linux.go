//go:build linux

package sysscheme

import (
	"os/exec"
	"strings"
)

// prefersDark checks the desktop color-scheme preference. GNOME 42+ exposes
// it via the gsettings color-scheme key; older setups fall back to a
// dark-suffixed GTK theme name. No detectable preference reads as light.
func prefersDark() bool {
	out, err := exec.Command("gsettings", "get", "org.gnome.desktop.interface", "color-scheme").Output()
	if err == nil {
		v := strings.ToLower(string(out))
		if strings.Contains(v, "prefer-dark") {
			return true
		}
		if strings.Contains(v, "prefer-light") || strings.Contains(v, "default") {
			return false
		}
	}

	out, err = exec.Command("gsettings", "get", "org.gnome.desktop.interface", "gtk-theme").Output()
	if err == nil && strings.Contains(strings.ToLower(string(out)), "dark") {
		return true
	}
	return false
}
