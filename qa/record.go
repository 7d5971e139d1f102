// Pure data types for the synthesis pipeline: the untrusted raw shot-summary
// shapes on the way in, and the MCQ record on the way out.

package qa

import "encoding/json"

// RawShotRecord is one shot-summary record as produced by the simulation
// side. Fields may be absent or legacy-shaped; loosely typed fields are
// decoded as `any` and coerced during normalization. Nothing here is trusted.
type RawShotRecord struct {
	Video    string             `json:"video,omitempty"`
	Balls    map[string]RawBall `json:"balls,omitempty"`
	Position []float64          `json:"position,omitempty"` // legacy top-level initial state
	Velocity []float64          `json:"velocity,omitempty"`
	Outcomes *RawOutcome        `json:"outcomes,omitempty"` // legacy top-level outcome summary
	Events   []RawEvent         `json:"events,omitempty"`
	Cushion  map[string]string  `json:"cushion,omitempty"` // cushion id -> wall name
	Metadata *RawMetadata       `json:"metadata,omitempty"`
}

// RawBall is the per-ball sub-record; only the cue ball drives question
// synthesis today.
type RawBall struct {
	InitialPosition []float64   `json:"initial_position,omitempty"`
	InitialVelocity []float64   `json:"initial_velocity,omitempty"`
	Color           string      `json:"color,omitempty"`
	Outcomes        *RawOutcome `json:"outcomes,omitempty"`
}

// RawOutcome is the loosely-shaped outcome summary. Pocket may be a color
// string, an object carrying a color, or any other value; WallHits and
// NumWallHits may be counts in either field.
type RawOutcome struct {
	Pocket      any `json:"pocket,omitempty"`
	WallHits    any `json:"wall_hits,omitempty"`
	NumWallHits any `json:"num_wall_hits,omitempty"`
	BallHits    any `json:"ball_hits,omitempty"`
}

// RawEvent is one entry of the ordered per-shot event list.
type RawEvent struct {
	Type      string  `json:"type,omitempty"`
	BallID    string  `json:"ball_id,omitempty"`
	CushionID any     `json:"cushion_id,omitempty"`
	Frame     float64 `json:"frame,omitempty"`
}

// RawMetadata carries shot identity and timing information.
type RawMetadata struct {
	ShotID      string  `json:"shot_id,omitempty"`
	TotalFrames int     `json:"total_frames,omitempty"`
	FPS         float64 `json:"fps,omitempty"`
}

// Coord is a 3D coordinate rounded to 2 decimal places. The rounding is an
// invariant: counterfactual grouping equality is defined entirely on rounded
// values, so Coord is comparable and usable as a map key.
type Coord struct {
	X, Y, Z float64
}

// MarshalJSON emits the coordinate as a [x, y, z] array, matching the wire
// format of the initial_state fields.
func (c Coord) MarshalJSON() ([]byte, error) {
	return json.Marshal([3]float64{c.X, c.Y, c.Z})
}

// UnmarshalJSON accepts a [x, y, z] array, tolerating fewer components.
func (c *Coord) UnmarshalJSON(data []byte) error {
	var arr []float64
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	*c = Coord{}
	if len(arr) > 0 {
		c.X = arr[0]
	}
	if len(arr) > 1 {
		c.Y = arr[1]
	}
	if len(arr) > 2 {
		c.Z = arr[2]
	}
	return nil
}

// InitialState is the rounded initial configuration of a shot.
type InitialState struct {
	Position Coord `json:"position"`
	Velocity Coord `json:"velocity"`
}

// Outcome is the canonical outcome summary of one ball in one shot.
// WhichPocket carries the raw pocket value as recorded (color string, object,
// or id); PocketColor is its coerced color.
type Outcome struct {
	NumWallHits int      `json:"num_wall_hits"`
	WallHits    []string `json:"wall_hits"`
	Pocketed    bool     `json:"pocketed"`
	WhichPocket any      `json:"which_pocket,omitempty"`
	PocketColor string   `json:"pocket_color,omitempty"`
}

// WallHit is one wall-contact event with its frame index, used to split
// outcomes temporally for predictive questions.
type WallHit struct {
	Name     string `json:"name"`
	Frame    int    `json:"frame"`
	Index    int    `json:"index,omitempty"`
	HasIndex bool   `json:"-"`
}

// NormalizedEntry is the canonical per-shot record every downstream component
// consumes. Constructed once by BuildIndex and immutable thereafter.
type NormalizedEntry struct {
	Video       string       `json:"video"`
	Initial     InitialState `json:"initial_state"`
	Outcomes    Outcome      `json:"outcomes"`
	HitsDetail  []WallHit    `json:"hits_detail"`
	TotalFrames int          `json:"total_frames"`
}

// Question type values carried in MCQ metadata.
const (
	QuestionDescriptive            = "descriptive"
	QuestionPredictive             = "predictive"
	QuestionCounterfactualVelocity = "counterfactual_velocity"
	QuestionCounterfactualPosition = "counterfactual_position"
)

// Metadata identifies the source shot and variant of one MCQ record. The
// counterfactual fields are present only on counterfactual variants.
type Metadata struct {
	QuestionType               string        `json:"question_type"`
	SimID                      int           `json:"sim_id"`
	QuestionIndexWithinShot    *int          `json:"question_index_within_shot,omitempty"`
	CounterfactualSimID        *int          `json:"counterfactual_sim_id,omitempty"`
	CounterfactualVideo        string        `json:"counterfactual_video,omitempty"`
	CounterfactualInitialState *InitialState `json:"counterfactual_initial_state,omitempty"`
}

// MCQ is the final output unit: one multi-label multiple-choice question.
// Options contain no duplicate strings; GroundTruth lists the indices of the
// correct options after shuffling.
type MCQ struct {
	Video       string   `json:"video"`
	Question    string   `json:"question"`
	Options     []string `json:"options"`
	GroundTruth []int    `json:"ground_truth"`
	Metadata    Metadata `json:"metadata"`
}
