package seed

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadPresets(t *testing.T) {
	presets, err := LoadPresets([]byte(builtInPresets))
	require.NoError(t, err)
	require.NotEmpty(t, presets)

	names := make(map[string]Preset, len(presets))
	for _, p := range presets {
		names[p.Name] = p
	}

	standard, ok := names["Standard"]
	require.True(t, ok)
	assert.Equal(t, 50, standard.Users)
	assert.Equal(t, 200, standard.Posts)
	assert.True(t, standard.Clean)

	mega, ok := names["MegaPopulated"]
	require.True(t, ok)
	assert.True(t, mega.SkipBcrypt)
	assert.Greater(t, mega.Posts, standard.Posts)
}

func TestLoadPresets_Invalid(t *testing.T) {
	_, err := LoadPresets([]byte("presets: {not a list}"))
	assert.Error(t, err)
}

func TestFindPreset(t *testing.T) {
	preset, err := FindPreset("Minimal")
	require.NoError(t, err)
	assert.Equal(t, 5, preset.Users)

	_, err = FindPreset("DoesNotExist")
	assert.Error(t, err)
}
