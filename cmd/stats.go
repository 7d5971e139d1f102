package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ScottCTD/causality-data-generation/qa"
)

var (
	statsOutputPath string
	statsHTMLPath   string
)

// statsCmd computes aggregate statistics over a generated jsonl file.
var statsCmd = &cobra.Command{
	Use:   "stats <raw_qa.jsonl>",
	Short: "Generate statistics from an MCQ jsonl dataset",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		path := args[0]
		records, err := qa.ReadDataset(path)
		if err != nil {
			logrus.Fatalf("Unable to read dataset: %v", err)
		}
		logrus.Infof("Loaded %d questions from %s", len(records), path)

		stats := qa.ComputeStats(records)

		out := statsOutputPath
		if out == "" {
			out = filepath.Join(filepath.Dir(path), "raw_qa_stats.json")
		}
		if err := writeStatsJSON(stats, out); err != nil {
			logrus.Fatalf("Unable to write statistics: %v", err)
		}

		if statsHTMLPath != "" {
			if err := renderStatsHTML(stats, statsHTMLPath); err != nil {
				logrus.Fatalf("Unable to render HTML report: %v", err)
			}
		}

		printStatsSummary(stats, out)
	},
}

func writeStatsJSON(stats qa.Stats, path string) error {
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}

// renderStatsHTML writes a small dashboard with question counts by category
// and the per-category ground-truth index distribution.
func renderStatsHTML(stats qa.Stats, path string) error {
	categories := make([]string, 0, len(stats.Categories))
	for qType := range stats.Categories {
		categories = append(categories, qType)
	}
	sort.Strings(categories)

	countBar := charts.NewBar()
	countBar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Questions by category",
			Subtitle: fmt.Sprintf("total=%d", stats.TotalQuestions)}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	counts := make([]opts.BarData, 0, len(categories))
	for _, qType := range categories {
		counts = append(counts, opts.BarData{Value: stats.Categories[qType].Count})
	}
	countBar.SetXAxis(categories).
		AddSeries("questions", counts,
			charts.WithLabelOpts(opts.Label{Show: opts.Bool(true), Position: "top"}))

	gtBar := charts.NewBar()
	gtBar.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{Width: "100%", Height: "480px"}),
		charts.WithTitleOpts(opts.Title{Title: "Correct answers by option index"}),
		charts.WithTooltipOpts(opts.Tooltip{Show: opts.Bool(true)}),
	)
	maxIdx := 0
	for _, qType := range categories {
		for idx := range stats.Categories[qType].GroundTruthByIndex {
			if idx > maxIdx {
				maxIdx = idx
			}
		}
	}
	indices := make([]string, 0, maxIdx+1)
	for i := 0; i <= maxIdx; i++ {
		indices = append(indices, fmt.Sprintf("option %d", i))
	}
	gtBar.SetXAxis(indices)
	for _, qType := range categories {
		data := make([]opts.BarData, 0, maxIdx+1)
		for i := 0; i <= maxIdx; i++ {
			data = append(data, opts.BarData{Value: stats.Categories[qType].GroundTruthByIndex[i]})
		}
		gtBar.AddSeries(qType, data)
	}

	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	page := components.NewPage()
	page.AddCharts(countBar, gtBar)
	return page.Render(file)
}

func printStatsSummary(stats qa.Stats, outPath string) {
	fmt.Printf("Total questions: %d\n", stats.TotalQuestions)
	fmt.Printf("Unique videos: %d\n", stats.Overall.UniqueVideos)
	fmt.Println("Questions by category:")

	categories := make([]string, 0, len(stats.Categories))
	for qType := range stats.Categories {
		categories = append(categories, qType)
	}
	sort.Strings(categories)
	for _, qType := range categories {
		cat := stats.Categories[qType]
		fmt.Printf("  %s: %d (%.2f%%), %d unique videos\n", qType, cat.Count, cat.Percentage, cat.UniqueVideos)
		if cat.Bias != nil {
			fmt.Printf("    Most common correct: option %d (%.2f%%), balanced: %v\n",
				cat.Bias.MostCommonCorrectIndex, cat.Bias.MostCommonCorrectPct, cat.Bias.Balanced)
		}
	}
	fmt.Printf("Statistics saved to: %s\n", outPath)
}

func init() {
	statsCmd.Flags().StringVarP(&statsOutputPath, "output", "o", "", "Output path for the stats JSON (default: raw_qa_stats.json next to the input)")
	statsCmd.Flags().StringVar(&statsHTMLPath, "html", "", "Also render an HTML chart report to this path")
	rootCmd.AddCommand(statsCmd)
}
