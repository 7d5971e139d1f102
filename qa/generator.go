package qa

import (
	"fmt"
	"math"
	"math/rand"
	"strings"

	"github.com/sirupsen/logrus"
)

// GeneratorConfig is the full configuration surface of the question
// orchestrator. There is no hidden global state: everything that affects
// output is here or in the input record order.
type GeneratorConfig struct {
	NumOptions               int     // total options per question
	NumCorrect               int     // correct options per question (clamped by the sampler)
	NumDescriptivePerShot    int     // descriptive questions per shot (0 disables)
	NumPredictivePerShot     int     // predictive questions per shot (0 disables)
	MaxVelocityCFsPerShot    int     // max counterfactual-velocity questions per shot
	MaxPositionCFsPerShot    int     // max counterfactual-position questions per shot
	PredictiveFilterFraction float64 // fraction of the video hidden from predictive questions
	Seed                     int64   // master seed for the partitioned RNG
}

// DefaultGeneratorConfig returns the default generation parameters.
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		NumOptions:               4,
		NumCorrect:               1,
		NumDescriptivePerShot:    1,
		NumPredictivePerShot:     1,
		MaxVelocityCFsPerShot:    3,
		MaxPositionCFsPerShot:    3,
		PredictiveFilterFraction: 0.5,
		Seed:                     42,
	}
}

// Generator drives the synthesis components across descriptive, predictive
// and counterfactual variants. Stateless per shot beyond the shared indices
// and the partitioned RNG.
type Generator struct {
	Config GeneratorConfig
	rng    *PartitionedRNG
}

// NewGenerator creates a Generator with a freshly seeded RNG.
func NewGenerator(cfg GeneratorConfig) *Generator {
	return &Generator{
		Config: cfg,
		rng:    NewPartitionedRNG(NewGenerationKey(cfg.Seed)),
	}
}

// Table geometry quoted in the question context. Pockets sit at the corners
// and side midpoints; walls are named by the pockets they connect.
const (
	tableWidth  = 0.9906
	tableHeight = 1.9812
)

var questionContext = buildQuestionContext()

func buildQuestionContext() string {
	w, h := tableWidth, tableHeight
	m := math.Round(h/2*10000) / 10000
	return fmt.Sprintf(
		"The pool table has a width of %v and a height of %v. "+
			"Pockets are marked by colored squares near them. Pocket locations: red at (0, 0), green at "+
			"(%v, 0), orange at (0, %v), blue at (%v, %v), gray at (0, %v), and purple at (%v, %v). "+
			"Walls are named by the colors of the two pockets they connect "+
			"(e.g., the 'red-green' wall is between the red and green pockets). "+
			"Answer the following question by considering the cue ball (white) movements on the pool table.",
		w, h, w, m, w, m, h, w, h)
}

// Generate produces the MCQ dataset for a batch of raw shot records. Sim ids
// are the input-order indices; fixing the seed and the record order
// reproduces identical output.
func (g *Generator) Generate(records []RawShotRecord) []MCQ {
	idx := BuildIndex(records)
	var dataset []MCQ

	for simID := 0; simID < len(records); simID++ {
		entry := idx.Entries[simID]
		dataset = append(dataset, g.descriptiveQuestions(simID, entry)...)
		dataset = append(dataset, g.predictiveQuestions(simID, entry)...)
		dataset = append(dataset, g.counterfactualQuestions(simID, entry, idx)...)
	}

	logrus.Infof("Generated %d questions from %d shots", len(dataset), len(records))
	return dataset
}

// descriptiveQuestions asks "what happened" over the full, untruncated
// outcome in the base tense.
func (g *Generator) descriptiveQuestions(simID int, entry *NormalizedEntry) []MCQ {
	if g.Config.NumDescriptivePerShot <= 0 {
		return nil
	}

	trueFacts := FactsFromOutcome(entry.Outcomes)
	rng := g.rng.ForSubsystem(SubsystemSampler)
	var out []MCQ

	for qIdx := 0; qIdx < g.Config.NumDescriptivePerShot; qIdx++ {
		// A repeat question needs more distinct true facts than correct
		// slots, or it would duplicate the first one.
		if qIdx > 0 && len(trueFacts) <= g.Config.NumCorrect {
			break
		}
		options, groundTruth := SampleMultilabel(rng, trueFacts, DistractorPoolFacts,
			g.Config.NumOptions, g.Config.NumCorrect, TenseBase)
		if len(options) == 0 || len(groundTruth) == 0 {
			continue
		}
		q := qIdx
		out = append(out, MCQ{
			Video:       entry.Video,
			Question:    "Context: " + questionContext + "\nQuestion: What happened in this video?",
			Options:     options,
			GroundTruth: groundTruth,
			Metadata: Metadata{
				QuestionType:            QuestionDescriptive,
				SimID:                   simID,
				QuestionIndexWithinShot: &q,
			},
		})
	}
	return out
}

// predictiveQuestions restricts the outcome to wall hits at or after the
// configured fraction of total frames, so the question is answerable only
// from the hidden later portion of the video.
func (g *Generator) predictiveQuestions(simID int, entry *NormalizedEntry) []MCQ {
	if g.Config.NumPredictivePerShot <= 0 {
		return nil
	}

	filtered := g.filterOutcomeForPrediction(entry)
	trueFacts := FactsFromOutcome(filtered)
	rng := g.rng.ForSubsystem(SubsystemSampler)
	var out []MCQ

	for qIdx := 0; qIdx < g.Config.NumPredictivePerShot; qIdx++ {
		if qIdx > 0 && len(trueFacts) <= g.Config.NumCorrect {
			break
		}
		options, groundTruth := SampleMultilabel(rng, trueFacts, DistractorPoolFacts,
			g.Config.NumOptions, g.Config.NumCorrect, TenseFuture)
		if len(options) == 0 || len(groundTruth) == 0 {
			continue
		}
		q := qIdx
		out = append(out, MCQ{
			Video: strings.ReplaceAll(entry.Video, ".mp4", "_partial.mp4"),
			Question: "Context: " + questionContext +
				"\nQuestion: Based on the first part of the video, what will happen in " +
				"STRICTLY the second part of the video?",
			Options:     options,
			GroundTruth: groundTruth,
			Metadata: Metadata{
				QuestionType:            QuestionPredictive,
				SimID:                   simID,
				QuestionIndexWithinShot: &q,
			},
		})
	}
	return out
}

// filterOutcomeForPrediction keeps only wall hits occurring at or after
// PredictiveFilterFraction of the shot's total frames, recomputing the count
// and name sequence while preserving the pocket outcome.
func (g *Generator) filterOutcomeForPrediction(entry *NormalizedEntry) Outcome {
	threshold := 0.0
	if entry.TotalFrames > 0 {
		threshold = g.Config.PredictiveFilterFraction * float64(entry.TotalFrames)
	}

	var wallHits []string
	for _, h := range entry.HitsDetail {
		if float64(h.Frame) >= threshold {
			wallHits = append(wallHits, h.Name)
		}
	}

	filtered := entry.Outcomes
	filtered.NumWallHits = len(wallHits)
	filtered.WallHits = wallHits
	return filtered
}

// counterfactualQuestions grounds "what-if" questions in real alternative
// shots sharing one initial-condition axis with this one.
func (g *Generator) counterfactualQuestions(simID int, entry *NormalizedEntry, idx *Index) []MCQ {
	pos := entry.Initial.Position
	vel := entry.Initial.Velocity
	cfRNG := g.rng.ForSubsystem(SubsystemCounterfactual)
	sampleRNG := g.rng.ForSubsystem(SubsystemSampler)
	var out []MCQ

	if g.Config.MaxVelocityCFsPerShot > 0 {
		for _, cfID := range FindVelocityCFs(cfRNG, pos, vel, idx.PosToIDs, idx.Entries, g.Config.MaxVelocityCFsPerShot) {
			cfEntry := idx.Entries[cfID]
			question := fmt.Sprintf(
				"Context: %s\nQuestion: If the initial velocity were changed from %s to %s "+
					"(assume all other variables are unchanged), what would happen?",
				questionContext, coordString(vel, "d"), coordString(cfEntry.Initial.Velocity, "d"))
			if mcq, ok := g.counterfactualMCQ(simID, entry, cfID, cfEntry, QuestionCounterfactualVelocity, question, sampleRNG); ok {
				out = append(out, mcq)
			}
		}
	}

	if g.Config.MaxPositionCFsPerShot > 0 {
		for _, cfID := range FindPositionCFs(cfRNG, pos, vel, idx.VelToIDs, idx.Entries, g.Config.MaxPositionCFsPerShot) {
			cfEntry := idx.Entries[cfID]
			question := fmt.Sprintf(
				"Context: %s\nQuestion: If the initial ball position were changed from %s to %s "+
					"(assume all other variables are unchanged), what would happen?",
				questionContext, coordString(pos, ""), coordString(cfEntry.Initial.Position, ""))
			if mcq, ok := g.counterfactualMCQ(simID, entry, cfID, cfEntry, QuestionCounterfactualPosition, question, sampleRNG); ok {
				out = append(out, mcq)
			}
		}
	}

	return out
}

// counterfactualMCQ samples options from the partner shot's own outcome in
// the conditional tense. ok is false when the sampler produced nothing.
func (g *Generator) counterfactualMCQ(simID int, entry *NormalizedEntry, cfID int, cfEntry *NormalizedEntry,
	questionType, question string, rng *rand.Rand) (MCQ, bool) {
	trueFacts := FactsFromOutcome(cfEntry.Outcomes)
	options, groundTruth := SampleMultilabel(rng, trueFacts, DistractorPoolFacts,
		g.Config.NumOptions, g.Config.NumCorrect, TenseConditional)
	if len(options) == 0 || len(groundTruth) == 0 {
		return MCQ{}, false
	}

	cf := cfID
	cfState := cfEntry.Initial
	return MCQ{
		Video:       entry.Video,
		Question:    question,
		Options:     options,
		GroundTruth: groundTruth,
		Metadata: Metadata{
			QuestionType:               questionType,
			SimID:                      simID,
			CounterfactualSimID:        &cf,
			CounterfactualVideo:        cfEntry.Video,
			CounterfactualInitialState: &cfState,
		},
	}, true
}

// coordString formats a coordinate for counterfactual question text. Only x
// and y appear in the narration; magnitudes rounding below 0.005 print as
// exactly 0.00 so signed zeros never surface.
func coordString(c Coord, prefix string) string {
	x, y := c.X, c.Y
	if math.Abs(x) < 0.005 {
		x = 0
	}
	if math.Abs(y) < 0.005 {
		y = 0
	}
	return fmt.Sprintf("(%sx=%.2f, %sy=%.2f)", prefix, x, prefix, y)
}
