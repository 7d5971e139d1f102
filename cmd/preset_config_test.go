package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const presetYAML = `presets:
  default:
    num_options: 4
    num_correct: 1
    num_descriptive: 1
    num_predictive: 1
    max_velocity_cfs: 3
    max_position_cfs: 3
    predictive_fraction: 0.5
  dense:
    num_options: 6
    num_correct: 2
    num_descriptive: 2
    num_predictive: 2
    max_velocity_cfs: 5
    max_position_cfs: 5
    predictive_fraction: 0.25
`

func writePresets(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(presetYAML), 0o644))
	return path
}

func TestGetPresetConfig(t *testing.T) {
	path := writePresets(t)

	cfg := GetPresetConfig(path, "dense", 7)
	require.NotNil(t, cfg)
	assert.Equal(t, 6, cfg.NumOptions)
	assert.Equal(t, 2, cfg.NumCorrect)
	assert.Equal(t, 2, cfg.NumDescriptivePerShot)
	assert.Equal(t, 2, cfg.NumPredictivePerShot)
	assert.Equal(t, 5, cfg.MaxVelocityCFsPerShot)
	assert.Equal(t, 5, cfg.MaxPositionCFsPerShot)
	assert.Equal(t, 0.25, cfg.PredictiveFilterFraction)
	assert.Equal(t, int64(7), cfg.Seed)
}

func TestGetPresetConfig_SeedComesFromCLI(t *testing.T) {
	path := writePresets(t)
	cfg := GetPresetConfig(path, "default", 1234)
	require.NotNil(t, cfg)
	assert.Equal(t, int64(1234), cfg.Seed)
}

func TestGetPresetConfig_UnknownPreset(t *testing.T) {
	path := writePresets(t)
	assert.Nil(t, GetPresetConfig(path, "nonexistent", 42))
}

func TestGetPresetConfig_MissingFilePanics(t *testing.T) {
	assert.Panics(t, func() {
		GetPresetConfig(filepath.Join(t.TempDir(), "nope.yaml"), "default", 42)
	})
}
