// Package store persists per-profile theme preferences.
package store

import (
	"errors"
	"time"
)

// ErrNotFound is returned when no preference is stored for a profile.
var ErrNotFound = errors.New("preference not found")

// ErrInvalidTheme is returned when a value outside the light/dark domain is
// submitted for storage.
var ErrInvalidTheme = errors.New("invalid theme value")

// PrefInfo describes a stored preference.
type PrefInfo struct {
	Profile   string    `db:"profile" json:"profile"`
	Theme     string    `db:"theme" json:"theme"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Interface defines preference storage operations.
type Interface interface {
	Get(profile string) (string, error)
	Set(profile, theme string) error
	Delete(profile string) error
	List() ([]PrefInfo, error)
	Close() error
}
