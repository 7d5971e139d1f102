package cmd

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ScottCTD/causality-data-generation/qa"
)

var maxIssues int

// validateCmd runs the consistency check suite over a generated jsonl file.
var validateCmd = &cobra.Command{
	Use:   "validate <raw_qa.jsonl>",
	Short: "Validate an MCQ jsonl dataset for internal consistency",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		report, err := qa.ValidateFile(path, maxIssues)
		if err != nil {
			logrus.Fatalf("Validation failed to run: %v", err)
		}
		printValidationReport(path, report)
	},
}

func printValidationReport(path string, report *qa.ValidationReport) {
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	fmt.Printf("Validated %d examples from %s\n", report.Total, abs)
	fmt.Println("Counts by question_type:")
	for _, qType := range sortedKeys(report.CountsByType) {
		fmt.Printf("  %s: %d\n", qType, report.CountsByType[qType])
	}
	fmt.Println("Histogram of number of options per question:")
	for _, n := range sortedIntKeys(report.NumOptionsHist) {
		fmt.Printf("  %d: %d\n", n, report.NumOptionsHist[n])
	}
	fmt.Println("Histogram of number of correct options per question:")
	for _, n := range sortedIntKeys(report.NumCorrectHist) {
		fmt.Printf("  %d: %d\n", n, report.NumCorrectHist[n])
	}

	if len(report.Issues) > 0 {
		fmt.Printf("\nFound %d issues (showing up to %d):\n", len(report.Issues), maxIssues)
		for _, msg := range report.Issues {
			fmt.Println(" -", msg)
		}
	} else {
		fmt.Println("\nNo issues found.")
	}
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedIntKeys(m map[int]int) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func init() {
	validateCmd.Flags().IntVar(&maxIssues, "max-issues", 1000, "Maximum number of issues to report before stopping")
	rootCmd.AddCommand(validateCmd)
}
