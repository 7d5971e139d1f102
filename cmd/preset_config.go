package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/ScottCTD/causality-data-generation/qa"
)

// Define struct for YAML
type PresetConfig struct {
	Presets map[string]Preset `yaml:"presets"`
}

type Preset struct {
	NumOptions         int     `yaml:"num_options"`
	NumCorrect         int     `yaml:"num_correct"`
	NumDescriptive     int     `yaml:"num_descriptive"`
	NumPredictive      int     `yaml:"num_predictive"`
	MaxVelocityCFs     int     `yaml:"max_velocity_cfs"`
	MaxPositionCFs     int     `yaml:"max_position_cfs"`
	PredictiveFraction float64 `yaml:"predictive_fraction"`
}

// GetPresetConfig loads a named generation preset from a yaml file. The seed
// always comes from the CLI so runs stay reproducible per invocation.
// Returns nil when the preset name is not present.
func GetPresetConfig(presetFilePath string, presetName string, seed int64) *qa.GeneratorConfig {
	// Read YAML file
	data, err := os.ReadFile(presetFilePath)
	if err != nil {
		panic(err)
	}

	// Parse YAML
	var cfg PresetConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		panic(err)
	}

	if preset, presetExists := cfg.Presets[presetName]; presetExists {
		logrus.Infof("Using preset %v\n", presetName)
		return &qa.GeneratorConfig{
			NumOptions:               preset.NumOptions,
			NumCorrect:               preset.NumCorrect,
			NumDescriptivePerShot:    preset.NumDescriptive,
			NumPredictivePerShot:     preset.NumPredictive,
			MaxVelocityCFsPerShot:    preset.MaxVelocityCFs,
			MaxPositionCFsPerShot:    preset.MaxPositionCFs,
			PredictiveFilterFraction: preset.PredictiveFraction,
			Seed:                     seed,
		}
	}
	return nil
}
