package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ScottCTD/causality-data-generation/qa"
)

var (
	// CLI flags for the generate command
	seed               int64   // Seed for reproducible sampling
	logLevel           string  // Log verbosity level
	datasetDir         string  // Dataset directory holding shots/shot_*/*.json
	outputPath         string  // Output jsonl path (default <dataset-dir>/raw_qa.jsonl)
	numOptions         int     // Total options per question
	numCorrect         int     // Correct options per question
	numDescriptive     int     // Descriptive questions per shot
	numPredictive      int     // Predictive questions per shot
	maxVelocityCFs     int     // Max counterfactual-velocity questions per shot
	maxPositionCFs     int     // Max counterfactual-position questions per shot
	predictiveFraction float64 // Fraction of video hidden from predictive questions
	excludeInvalidHits bool    // Drop shots with out-of-range cushion indices
	presetsPath        string  // Optional yaml preset file
	presetName         string  // Preset name within the preset file
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "causality-qa",
	Short: "MCQ dataset generator for simulated billiard shots",
}

// generateCmd runs question synthesis using parameters from CLI flags
var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an MCQ dataset from shot summaries",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if datasetDir == "" {
			logrus.Fatalf("Dataset directory not provided. Exiting generation.")
		}

		cfg := qa.GeneratorConfig{
			NumOptions:               numOptions,
			NumCorrect:               numCorrect,
			NumDescriptivePerShot:    numDescriptive,
			NumPredictivePerShot:     numPredictive,
			MaxVelocityCFsPerShot:    maxVelocityCFs,
			MaxPositionCFsPerShot:    maxPositionCFs,
			PredictiveFilterFraction: predictiveFraction,
			Seed:                     seed,
		}
		if presetsPath != "" && presetName != "" {
			if preset := GetPresetConfig(presetsPath, presetName, seed); preset != nil {
				cfg = *preset
			} else {
				logrus.Fatalf("Preset %q not found in %s", presetName, presetsPath)
			}
		}

		logrus.Infof("Starting generation with %d options (%d correct), seed=%d",
			cfg.NumOptions, cfg.NumCorrect, cfg.Seed)
		startTime := time.Now()

		records, excluded, err := qa.LoadShots(datasetDir, excludeInvalidHits)
		if err != nil {
			logrus.Fatalf("Unable to load shot summaries: %v", err)
		}
		logrus.Infof("Processing %d shots (%d excluded)", len(records), excluded)

		generator := qa.NewGenerator(cfg)
		dataset := generator.Generate(records)

		out := outputPath
		if out == "" {
			out = filepath.Join(datasetDir, "raw_qa.jsonl")
		}
		if err := qa.WriteDataset(dataset, out); err != nil {
			logrus.Fatalf("Unable to write dataset: %v", err)
		}

		logrus.Infof("Wrote %d examples to %s in %v", len(dataset), out, time.Since(startTime))
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	generateCmd.Flags().Int64Var(&seed, "seed", 42, "Random seed for reproducibility")
	generateCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")

	generateCmd.Flags().StringVarP(&datasetDir, "dataset-dir", "d", "", "Dataset directory containing shots/shot_*/*.json")
	generateCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output jsonl path (default <dataset-dir>/raw_qa.jsonl)")

	// Question synthesis configs
	generateCmd.Flags().IntVarP(&numOptions, "num-options", "n", 4, "Total number of options per question")
	generateCmd.Flags().IntVarP(&numCorrect, "num-correct", "c", 1, "Number of correct options per question")
	generateCmd.Flags().IntVar(&numDescriptive, "num-descriptive", 1, "Descriptive questions per shot (0 to disable)")
	generateCmd.Flags().IntVar(&numPredictive, "num-predictive", 1, "Predictive questions per shot (0 to disable)")
	generateCmd.Flags().IntVar(&maxVelocityCFs, "max-velocity-cfs", 3, "Maximum counterfactual velocity questions per shot (0 to disable)")
	generateCmd.Flags().IntVar(&maxPositionCFs, "max-position-cfs", 3, "Maximum counterfactual position questions per shot (0 to disable)")
	generateCmd.Flags().Float64VarP(&predictiveFraction, "predictive-fraction", "f", 0.5, "Fraction of video hidden for predictive questions")
	generateCmd.Flags().BoolVarP(&excludeInvalidHits, "exclude-invalid-hits", "e", false, "Exclude shots with any cushion hit index > 18")

	// Preset configs
	generateCmd.Flags().StringVar(&presetsPath, "presets", "", "Path to a yaml preset file")
	generateCmd.Flags().StringVar(&presetName, "preset", "", "Preset name to load from the preset file")

	rootCmd.AddCommand(generateCmd)
}
