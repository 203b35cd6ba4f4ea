//go:build darwin

package sysscheme

import (
	"os/exec"
	"strings"
)

// prefersDark checks AppleInterfaceStyle; the key is absent in light mode,
// so a read error reads as light.
func prefersDark() bool {
	out, err := exec.Command("defaults", "read", "-g", "AppleInterfaceStyle").Output()
	if err != nil {
		return false
	}
	return strings.TrimSpace(string(out)) == "Dark"
}
