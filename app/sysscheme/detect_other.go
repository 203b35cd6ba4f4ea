//go:build !linux && !darwin && !windows

package sysscheme

// prefersDark reports no dark preference on platforms without a known
// detection path.
func prefersDark() bool { return false }
