package qa

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

// generatorRecords builds two shots sharing a position but differing in
// velocity, so each is the other's velocity counterfactual.
func generatorRecords() []RawShotRecord {
	cushion := map[string]string{"1": "red-green-wall", "2": "blue-purple-wall"}
	shotA := RawShotRecord{
		Video:    "shot_a.mp4",
		Metadata: &RawMetadata{ShotID: "shot_a", TotalFrames: 100},
		Balls: map[string]RawBall{
			"cue": {
				InitialPosition: []float64{0.1, 0.2, 0.0},
				InitialVelocity: []float64{1.0, 0.0, 0.0},
				Outcomes:        &RawOutcome{Pocket: "orange"},
			},
		},
		Events: []RawEvent{
			{Type: "linear_cushion", BallID: "cue", CushionID: "1", Frame: 10},
			{Type: "linear_cushion", BallID: "cue", CushionID: "2", Frame: 60},
		},
		Cushion: cushion,
	}
	shotB := RawShotRecord{
		Video:    "shot_b.mp4",
		Metadata: &RawMetadata{ShotID: "shot_b", TotalFrames: 100},
		Balls: map[string]RawBall{
			"cue": {
				InitialPosition: []float64{0.1, 0.2, 0.0},
				InitialVelocity: []float64{0.0, 1.0, 0.0},
				Outcomes:        &RawOutcome{},
			},
		},
		Events: []RawEvent{
			{Type: "linear_cushion", BallID: "cue", CushionID: "2", Frame: 80},
		},
		Cushion: cushion,
	}
	return []RawShotRecord{shotA, shotB}
}

func TestGenerate_ProducesAllQuestionTypes(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())
	dataset := g.Generate(generatorRecords())

	byType := make(map[string][]MCQ)
	for _, q := range dataset {
		byType[q.Metadata.QuestionType] = append(byType[q.Metadata.QuestionType], q)
	}
	assert.Len(t, byType[QuestionDescriptive], 2)
	assert.Len(t, byType[QuestionPredictive], 2)
	assert.Len(t, byType[QuestionCounterfactualVelocity], 2)
	assert.Empty(t, byType[QuestionCounterfactualPosition]) // velocities never repeat here
}

func TestGenerate_DescriptiveQuestionShape(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())
	dataset := g.Generate(generatorRecords())

	var found bool
	for _, q := range dataset {
		if q.Metadata.QuestionType != QuestionDescriptive || q.Metadata.SimID != 0 {
			continue
		}
		found = true
		assert.Equal(t, "shot_a.mp4", q.Video)
		assert.True(t, strings.HasPrefix(q.Question, "Context: "), "question missing context prefix: %q", q.Question)
		assert.Contains(t, q.Question, "Question: What happened in this video?")
		if assert.NotNil(t, q.Metadata.QuestionIndexWithinShot) {
			assert.Equal(t, 0, *q.Metadata.QuestionIndexWithinShot)
		}
		assert.Nil(t, q.Metadata.CounterfactualSimID)
		for _, idx := range q.GroundTruth {
			assert.Less(t, idx, len(q.Options))
		}
	}
	assert.True(t, found)
}

func TestGenerate_PredictiveUsesPartialVideo(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())
	dataset := g.Generate(generatorRecords())

	for _, q := range dataset {
		if q.Metadata.QuestionType != QuestionPredictive {
			continue
		}
		assert.True(t, strings.HasSuffix(q.Video, "_partial.mp4"), "predictive video %q", q.Video)
		assert.Contains(t, q.Question, "STRICTLY the second part")
	}
}

func TestGenerate_CounterfactualMetadata(t *testing.T) {
	g := NewGenerator(DefaultGeneratorConfig())
	dataset := g.Generate(generatorRecords())

	for _, q := range dataset {
		if q.Metadata.QuestionType != QuestionCounterfactualVelocity {
			continue
		}
		if assert.NotNil(t, q.Metadata.CounterfactualSimID) {
			assert.NotEqual(t, q.Metadata.SimID, *q.Metadata.CounterfactualSimID)
		}
		assert.NotEmpty(t, q.Metadata.CounterfactualVideo)
		assert.NotNil(t, q.Metadata.CounterfactualInitialState)
		assert.Contains(t, q.Question, "If the initial velocity were changed from")
		// Options come from the partner's outcome in the conditional tense.
		for _, opt := range q.Options {
			assert.NotEqual(t, TenseFuture, DetectTense(opt), "future tense in counterfactual option %q", opt)
		}
	}
}

func TestGenerate_DescriptiveRepeatCutoff(t *testing.T) {
	// A shot whose outcome yields few facts cannot support repeat questions
	// when the correct-option budget covers the whole fact list.
	cfg := DefaultGeneratorConfig()
	cfg.NumDescriptivePerShot = 3
	cfg.NumCorrect = 2
	cfg.NumPredictivePerShot = 0
	cfg.MaxVelocityCFsPerShot = 0
	cfg.MaxPositionCFsPerShot = 0

	records := []RawShotRecord{
		{Balls: map[string]RawBall{"cue": {Outcomes: &RawOutcome{}}}},
	}
	dataset := NewGenerator(cfg).Generate(records)
	assert.Len(t, dataset, 1)
}

func TestFilterOutcomeForPrediction_SplitsAtFraction(t *testing.T) {
	cushion := map[string]string{
		"1": "red-green-wall",
		"2": "blue-purple-wall",
		"3": "grey-orange-wall",
	}
	rec := shotWithHits("s", []float64{10, 60, 80}, []string{"1", "2", "3"}, cushion)
	entry := BuildIndex([]RawShotRecord{rec}).Entries[0]

	g := NewGenerator(DefaultGeneratorConfig()) // fraction 0.5, 100 frames -> threshold 50
	filtered := g.filterOutcomeForPrediction(entry)

	assert.Equal(t, []string{"blue-purple-wall", "grey-orange-wall"}, filtered.WallHits)
	assert.Equal(t, 2, filtered.NumWallHits)
	// The pocket outcome is untouched by the temporal split.
	assert.Equal(t, entry.Outcomes.Pocketed, filtered.Pocketed)
}

func TestFilterOutcomeForPrediction_NoFramesKeepsEverything(t *testing.T) {
	cushion := map[string]string{"1": "red-green-wall"}
	rec := shotWithHits("s", []float64{10}, []string{"1"}, cushion)
	rec.Metadata = nil // unknown duration: nothing can be hidden
	entry := BuildIndex([]RawShotRecord{rec}).Entries[0]

	g := NewGenerator(DefaultGeneratorConfig())
	filtered := g.filterOutcomeForPrediction(entry)
	assert.Equal(t, []string{"red-green-wall"}, filtered.WallHits)
	assert.Equal(t, 1, filtered.NumWallHits)
}

func TestCoordString(t *testing.T) {
	tests := []struct {
		c      Coord
		prefix string
		want   string
	}{
		{Coord{X: 1.234, Y: -0.5}, "", "(x=1.23, y=-0.50)"},
		{Coord{X: 0.0001, Y: -0.004}, "", "(x=0.00, y=0.00)"},
		{Coord{X: 1.0, Y: 0.0}, "d", "(dx=1.00, dy=0.00)"},
		{Coord{X: -0.01, Y: 0.2, Z: 9.9}, "", "(x=-0.01, y=0.20)"}, // z never shown
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, coordString(tt.c, tt.prefix))
	}
}

func TestGenerate_SeedReproducibility(t *testing.T) {
	records := generatorRecords()
	a := NewGenerator(DefaultGeneratorConfig()).Generate(records)
	b := NewGenerator(DefaultGeneratorConfig()).Generate(records)
	if diff := cmp.Diff(a, b); diff != "" {
		t.Errorf("same seed produced different datasets (-first +second):\n%s", diff)
	}

	cfg := DefaultGeneratorConfig()
	cfg.Seed = 43
	c := NewGenerator(cfg).Generate(records)
	assert.Len(t, c, len(a))
}
