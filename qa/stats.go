package qa

import "sort"

// balancedThreshold: a category counts as balanced when no single option
// index accounts for more than this share of correct answers.
const balancedThreshold = 0.4

// OptionCount pairs an option string with how often it occurs.
type OptionCount struct {
	Option string `json:"option"`
	Count  int    `json:"count"`
}

// BiasAnalysis flags answer-position imbalances within one category.
type BiasAnalysis struct {
	MostCommonCorrectIndex  int     `json:"most_common_correct_index"`
	MostCommonCorrectPct    float64 `json:"most_common_correct_percentage"`
	LeastCommonCorrectIndex int     `json:"least_common_correct_index"`
	LeastCommonCorrectPct   float64 `json:"least_common_correct_percentage"`
	ImbalanceRatio          float64 `json:"imbalance_ratio"`
	Balanced                bool    `json:"is_balanced"`
}

// CategoryStats aggregates one question_type.
type CategoryStats struct {
	Count                  int           `json:"count"`
	Percentage             float64       `json:"percentage"`
	NumOptionsDistribution map[int]int   `json:"num_options_distribution"`
	NumCorrectDistribution map[int]int   `json:"num_correct_distribution"`
	UniqueVideos           int           `json:"unique_videos"`
	GroundTruthByIndex     map[int]int   `json:"ground_truth_by_index"`
	TopCorrectOptions      []OptionCount `json:"top_correct_options"`
	Bias                   *BiasAnalysis `json:"bias_analysis,omitempty"`
}

// OverallStats aggregates across categories.
type OverallStats struct {
	UniqueVideos           int         `json:"unique_videos"`
	NumOptionsDistribution map[int]int `json:"num_options_distribution"`
	NumCorrectDistribution map[int]int `json:"num_correct_distribution"`
	QuestionsPerVideoMin   int         `json:"questions_per_video_min"`
	QuestionsPerVideoMax   int         `json:"questions_per_video_max"`
	QuestionsPerVideoMean  float64     `json:"questions_per_video_mean"`
}

// Stats is the aggregate statistics report over one generated dataset.
type Stats struct {
	TotalQuestions int                      `json:"total_questions"`
	Categories     map[string]CategoryStats `json:"categories"`
	Overall        OverallStats             `json:"overall"`
}

// topCorrectOptionsLimit bounds the reported most-common correct options.
const topCorrectOptionsLimit = 20

// ComputeStats builds the statistics report for a dataset: counts by
// category, option/ground-truth distributions, correct-option frequency and
// a bias analysis per category.
func ComputeStats(records []MCQ) Stats {
	stats := Stats{
		TotalQuestions: len(records),
		Categories:     make(map[string]CategoryStats),
		Overall: OverallStats{
			NumOptionsDistribution: make(map[int]int),
			NumCorrectDistribution: make(map[int]int),
		},
	}

	type categoryAccum struct {
		count          int
		numOptions     map[int]int
		numCorrect     map[int]int
		videos         map[string]bool
		gtByIndex      map[int]int
		correctOptions map[string]int
	}
	accums := make(map[string]*categoryAccum)
	videos := make(map[string]bool)
	questionsPerVideo := make(map[string]int)

	for _, rec := range records {
		qType := rec.Metadata.QuestionType
		if qType == "" {
			qType = "unknown"
		}

		stats.Overall.NumOptionsDistribution[len(rec.Options)]++
		stats.Overall.NumCorrectDistribution[len(rec.GroundTruth)]++
		videos[rec.Video] = true
		questionsPerVideo[rec.Video]++

		acc := accums[qType]
		if acc == nil {
			acc = &categoryAccum{
				numOptions:     make(map[int]int),
				numCorrect:     make(map[int]int),
				videos:         make(map[string]bool),
				gtByIndex:      make(map[int]int),
				correctOptions: make(map[string]int),
			}
			accums[qType] = acc
		}
		acc.count++
		acc.numOptions[len(rec.Options)]++
		acc.numCorrect[len(rec.GroundTruth)]++
		acc.videos[rec.Video] = true

		for _, gtIdx := range rec.GroundTruth {
			if gtIdx < 0 || gtIdx >= len(rec.Options) {
				continue
			}
			acc.gtByIndex[gtIdx]++
			acc.correctOptions[rec.Options[gtIdx]]++
		}
	}

	for qType, acc := range accums {
		cat := CategoryStats{
			Count:                  acc.count,
			NumOptionsDistribution: acc.numOptions,
			NumCorrectDistribution: acc.numCorrect,
			UniqueVideos:           len(acc.videos),
			GroundTruthByIndex:     acc.gtByIndex,
			TopCorrectOptions:      topCounts(acc.correctOptions, topCorrectOptionsLimit),
		}
		if len(records) > 0 {
			cat.Percentage = float64(acc.count) / float64(len(records)) * 100
		}
		cat.Bias = biasAnalysis(acc.gtByIndex)
		stats.Categories[qType] = cat
	}

	stats.Overall.UniqueVideos = len(videos)
	if len(questionsPerVideo) > 0 {
		minQ, maxQ, sum := -1, 0, 0
		for _, n := range questionsPerVideo {
			if minQ < 0 || n < minQ {
				minQ = n
			}
			if n > maxQ {
				maxQ = n
			}
			sum += n
		}
		stats.Overall.QuestionsPerVideoMin = minQ
		stats.Overall.QuestionsPerVideoMax = maxQ
		stats.Overall.QuestionsPerVideoMean = float64(sum) / float64(len(questionsPerVideo))
	}

	return stats
}

// biasAnalysis summarizes the ground-truth index distribution; nil when the
// category has no correct answers recorded.
func biasAnalysis(gtByIndex map[int]int) *BiasAnalysis {
	if len(gtByIndex) == 0 {
		return nil
	}

	total := 0
	for _, c := range gtByIndex {
		total += c
	}

	maxIdx, minIdx := -1, -1
	maxCount, minCount := 0, 0
	indices := make([]int, 0, len(gtByIndex))
	for idx := range gtByIndex {
		indices = append(indices, idx)
	}
	sort.Ints(indices)
	for _, idx := range indices {
		c := gtByIndex[idx]
		if maxIdx < 0 || c > maxCount {
			maxIdx, maxCount = idx, c
		}
		if minIdx < 0 || c < minCount {
			minIdx, minCount = idx, c
		}
	}

	bias := &BiasAnalysis{
		MostCommonCorrectIndex:  maxIdx,
		MostCommonCorrectPct:    float64(maxCount) / float64(total) * 100,
		LeastCommonCorrectIndex: minIdx,
		LeastCommonCorrectPct:   float64(minCount) / float64(total) * 100,
		Balanced:                float64(maxCount)/float64(total) <= balancedThreshold,
	}
	if minCount > 0 {
		bias.ImbalanceRatio = float64(maxCount) / float64(minCount)
	}
	return bias
}

// topCounts returns the n most frequent entries, ties broken by option
// string for deterministic output.
func topCounts(counts map[string]int, n int) []OptionCount {
	out := make([]OptionCount, 0, len(counts))
	for opt, c := range counts {
		out = append(out, OptionCount{Option: opt, Count: c})
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Count != out[b].Count {
			return out[a].Count > out[b].Count
		}
		return out[a].Option < out[b].Option
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}
