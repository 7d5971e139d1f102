package qa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func statsMCQ(video, qType string, options []string, gt []int) MCQ {
	return MCQ{
		Video:       video,
		Question:    "q",
		Options:     options,
		GroundTruth: gt,
		Metadata:    Metadata{QuestionType: qType},
	}
}

func TestComputeStats_Empty(t *testing.T) {
	stats := ComputeStats(nil)
	assert.Equal(t, 0, stats.TotalQuestions)
	assert.Empty(t, stats.Categories)
	assert.Equal(t, 0, stats.Overall.UniqueVideos)
}

func TestComputeStats_CategoriesAndOverall(t *testing.T) {
	records := []MCQ{
		statsMCQ("a.mp4", QuestionDescriptive, []string{"w", "x", "y", "z"}, []int{0}),
		statsMCQ("a.mp4", QuestionDescriptive, []string{"w", "x", "y", "z"}, []int{1}),
		statsMCQ("b.mp4", QuestionDescriptive, []string{"w", "x"}, []int{0, 1}),
		statsMCQ("b.mp4", QuestionPredictive, []string{"w", "x", "y"}, []int{2}),
	}
	stats := ComputeStats(records)

	assert.Equal(t, 4, stats.TotalQuestions)

	desc := stats.Categories[QuestionDescriptive]
	assert.Equal(t, 3, desc.Count)
	assert.InDelta(t, 75.0, desc.Percentage, 1e-9)
	assert.Equal(t, 2, desc.UniqueVideos)
	assert.Equal(t, map[int]int{4: 2, 2: 1}, desc.NumOptionsDistribution)
	assert.Equal(t, map[int]int{1: 2, 2: 1}, desc.NumCorrectDistribution)
	assert.Equal(t, map[int]int{0: 2, 1: 2}, desc.GroundTruthByIndex)

	pred := stats.Categories[QuestionPredictive]
	assert.Equal(t, 1, pred.Count)
	assert.InDelta(t, 25.0, pred.Percentage, 1e-9)

	assert.Equal(t, 2, stats.Overall.UniqueVideos)
	assert.Equal(t, 2, stats.Overall.QuestionsPerVideoMin)
	assert.Equal(t, 2, stats.Overall.QuestionsPerVideoMax)
	assert.InDelta(t, 2.0, stats.Overall.QuestionsPerVideoMean, 1e-9)
}

func TestComputeStats_TopCorrectOptions(t *testing.T) {
	records := []MCQ{
		statsMCQ("a.mp4", QuestionDescriptive, []string{"alpha", "beta"}, []int{0}),
		statsMCQ("b.mp4", QuestionDescriptive, []string{"alpha", "beta"}, []int{0}),
		statsMCQ("c.mp4", QuestionDescriptive, []string{"alpha", "beta"}, []int{1}),
	}
	top := ComputeStats(records).Categories[QuestionDescriptive].TopCorrectOptions
	require.Len(t, top, 2)
	assert.Equal(t, OptionCount{Option: "alpha", Count: 2}, top[0])
	assert.Equal(t, OptionCount{Option: "beta", Count: 1}, top[1])
}

func TestComputeStats_TopCorrectOptionsTieBreak(t *testing.T) {
	records := []MCQ{
		statsMCQ("a.mp4", QuestionDescriptive, []string{"zed", "apple"}, []int{0, 1}),
	}
	top := ComputeStats(records).Categories[QuestionDescriptive].TopCorrectOptions
	require.Len(t, top, 2)
	// Equal counts sort by option string.
	assert.Equal(t, "apple", top[0].Option)
	assert.Equal(t, "zed", top[1].Option)
}

func TestComputeStats_BiasAnalysis(t *testing.T) {
	// Index 0 correct 3 times out of 4: 75% share, imbalanced.
	records := []MCQ{
		statsMCQ("a.mp4", QuestionDescriptive, []string{"w", "x"}, []int{0}),
		statsMCQ("b.mp4", QuestionDescriptive, []string{"w", "x"}, []int{0}),
		statsMCQ("c.mp4", QuestionDescriptive, []string{"w", "x"}, []int{0}),
		statsMCQ("d.mp4", QuestionDescriptive, []string{"w", "x"}, []int{1}),
	}
	bias := ComputeStats(records).Categories[QuestionDescriptive].Bias
	require.NotNil(t, bias)
	assert.Equal(t, 0, bias.MostCommonCorrectIndex)
	assert.InDelta(t, 75.0, bias.MostCommonCorrectPct, 1e-9)
	assert.Equal(t, 1, bias.LeastCommonCorrectIndex)
	assert.InDelta(t, 25.0, bias.LeastCommonCorrectPct, 1e-9)
	assert.InDelta(t, 3.0, bias.ImbalanceRatio, 1e-9)
	assert.False(t, bias.Balanced)
}

func TestComputeStats_BalancedCategory(t *testing.T) {
	records := []MCQ{
		statsMCQ("a.mp4", QuestionDescriptive, []string{"w", "x", "y"}, []int{0}),
		statsMCQ("b.mp4", QuestionDescriptive, []string{"w", "x", "y"}, []int{1}),
		statsMCQ("c.mp4", QuestionDescriptive, []string{"w", "x", "y"}, []int{2}),
	}
	bias := ComputeStats(records).Categories[QuestionDescriptive].Bias
	require.NotNil(t, bias)
	assert.True(t, bias.Balanced) // every index at 1/3 <= 0.4
	assert.InDelta(t, 1.0, bias.ImbalanceRatio, 1e-9)
}

func TestComputeStats_OutOfBoundsGroundTruthIgnored(t *testing.T) {
	records := []MCQ{
		statsMCQ("a.mp4", QuestionDescriptive, []string{"w"}, []int{0, 7, -1}),
	}
	cat := ComputeStats(records).Categories[QuestionDescriptive]
	assert.Equal(t, map[int]int{0: 1}, cat.GroundTruthByIndex)
}

func TestComputeStats_MissingTypeBucketsAsUnknown(t *testing.T) {
	records := []MCQ{statsMCQ("a.mp4", "", []string{"w"}, []int{0})}
	stats := ComputeStats(records)
	assert.Contains(t, stats.Categories, "unknown")
}
