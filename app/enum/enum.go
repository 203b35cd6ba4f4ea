// Package enum provides enumerated types used across the application.
package enum

//go:generate go run github.com/go-pkgz/enum@latest -type theme -lower
type theme int

const (
	themeSystem theme = iota // enum:alias=
	themeLight
	themeDark
)
