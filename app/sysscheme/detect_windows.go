//go:build windows

package sysscheme

import (
	"golang.org/x/sys/windows/registry"
)

// prefersDark reads the AppsUseLightTheme personalization value; zero means
// dark. Unreadable registry reads as light, matching the "no preference"
// fallback on other platforms.
func prefersDark() bool {
	key, err := registry.OpenKey(registry.CURRENT_USER,
		`Software\Microsoft\Windows\CurrentVersion\Themes\Personalize`, registry.QUERY_VALUE)
	if err != nil {
		return false
	}
	defer key.Close()

	light, _, err := key.GetIntegerValue("AppsUseLightTheme")
	if err != nil {
		return false
	}
	return light == 0
}
