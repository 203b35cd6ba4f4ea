package enum

// Toggle returns the opposite theme (dark↔light). System defaults to dark.
func (t Theme) Toggle() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// IsExplicit reports whether the value is a concrete user choice (light or
// dark) rather than the system-following placeholder.
func (t Theme) IsExplicit() bool {
	return t == ThemeLight || t == ThemeDark
}
