package enum

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTheme_Toggle(t *testing.T) {
	tests := []struct {
		current  Theme
		expected Theme
	}{
		{ThemeSystem, ThemeDark},
		{ThemeLight, ThemeDark},
		{ThemeDark, ThemeLight},
	}

	for _, tc := range tests {
		t.Run(tc.current.String()+"->"+tc.expected.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.current.Toggle())
		})
	}
}

func TestTheme_ToggleInvolution(t *testing.T) {
	for _, th := range []Theme{ThemeLight, ThemeDark} {
		assert.Equal(t, th, th.Toggle().Toggle(), "double toggle should return to %s", th)
	}
}

func TestTheme_IsExplicit(t *testing.T) {
	assert.False(t, ThemeSystem.IsExplicit())
	assert.True(t, ThemeLight.IsExplicit())
	assert.True(t, ThemeDark.IsExplicit())
}

func TestParseTheme(t *testing.T) {
	t.Run("valid values", func(t *testing.T) {
		for _, th := range ThemeValues() {
			parsed, err := ParseTheme(th.String())
			require.NoError(t, err)
			assert.Equal(t, th, parsed)
		}
	})

	t.Run("empty string aliases to system", func(t *testing.T) {
		parsed, err := ParseTheme("")
		require.NoError(t, err)
		assert.Equal(t, ThemeSystem, parsed)
	})

	t.Run("invalid value", func(t *testing.T) {
		_, err := ParseTheme("blue")
		require.Error(t, err)
	})
}
