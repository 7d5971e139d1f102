package qa

import (
	"fmt"
	"math"
	"sort"
	"strconv"
)

// PosVelKey is the combined (position, velocity) lookup key over rounded
// coordinates.
type PosVelKey struct {
	Pos Coord
	Vel Coord
}

// Index holds the normalized entries for one generation run together with the
// lookup structures used for counterfactual search. Read-only after
// construction.
type Index struct {
	// Entries maps sim id (input-order index) to its normalized entry.
	Entries map[int]*NormalizedEntry
	// ByPosVel maps each exact (position, velocity) pair to the first-seen
	// sim id with that initial state.
	ByPosVel map[PosVelKey]int
	// PosToIDs and VelToIDs group sim ids by rounded position / velocity.
	PosToIDs map[Coord][]int
	VelToIDs map[Coord][]int
}

// BuildIndex normalizes a list of raw shot records into canonical entries and
// builds the counterfactual lookup indices. It is a pure transform: malformed
// records degrade to zero/default fields, they never fail.
func BuildIndex(records []RawShotRecord) *Index {
	idx := &Index{
		Entries:  make(map[int]*NormalizedEntry, len(records)),
		ByPosVel: make(map[PosVelKey]int),
		PosToIDs: make(map[Coord][]int),
		VelToIDs: make(map[Coord][]int),
	}

	for i, raw := range records {
		entry := normalizeRecord(raw, i)
		idx.Entries[i] = entry

		key := PosVelKey{Pos: entry.Initial.Position, Vel: entry.Initial.Velocity}
		if _, ok := idx.ByPosVel[key]; !ok {
			idx.ByPosVel[key] = i
		}
		idx.PosToIDs[entry.Initial.Position] = append(idx.PosToIDs[entry.Initial.Position], i)
		idx.VelToIDs[entry.Initial.Velocity] = append(idx.VelToIDs[entry.Initial.Velocity], i)
	}

	return idx
}

// normalizeRecord builds the canonical entry for one raw record. The video id
// resolution order is: explicit field, metadata shot id, synthesized shot_<i>.
func normalizeRecord(raw RawShotRecord, i int) *NormalizedEntry {
	video := raw.Video
	if video == "" && raw.Metadata != nil {
		video = raw.Metadata.ShotID
	}
	if video == "" {
		video = fmt.Sprintf("shot_%d", i)
	}

	// Prefer the cue sub-record; fall back to legacy top-level fields.
	posRaw, velRaw := raw.Position, raw.Velocity
	outcomesRaw := raw.Outcomes
	if cue, ok := raw.Balls["cue"]; ok {
		posRaw, velRaw = cue.InitialPosition, cue.InitialVelocity
		outcomesRaw = cue.Outcomes
	}

	hitsDetail := CueWallHits(raw)
	wallHits := make([]string, 0, len(hitsDetail))
	for _, h := range hitsDetail {
		if h.Name != "" {
			wallHits = append(wallHits, h.Name)
		}
	}

	var pocketColor string
	pocketed := false
	numWallHits := len(wallHits)

	if outcomesRaw != nil {
		if outcomesRaw.Pocket != nil {
			pocketed = true
			pocketColor = coercePocketColor(outcomesRaw.Pocket)
		}
		// The raw event list is authoritative for wall-hit identities; a
		// legacy stored count is trusted only when no events were recorded.
		if numWallHits == 0 {
			stored := outcomesRaw.WallHits
			if stored == nil {
				stored = outcomesRaw.NumWallHits
			}
			if stored != nil {
				numWallHits = coerceInt(stored)
			}
		}
	}

	var whichPocket any
	if pocketed {
		whichPocket = outcomesRaw.Pocket
	}

	totalFrames := 0
	if raw.Metadata != nil {
		totalFrames = raw.Metadata.TotalFrames
	}

	return &NormalizedEntry{
		Video: video,
		Initial: InitialState{
			Position: roundCoord(posRaw),
			Velocity: roundCoord(velRaw),
		},
		Outcomes: Outcome{
			NumWallHits: numWallHits,
			WallHits:    wallHits,
			Pocketed:    pocketed,
			WhichPocket: whichPocket,
			PocketColor: pocketColor,
		},
		HitsDetail:  hitsDetail,
		TotalFrames: totalFrames,
	}
}

// CueWallHits extracts the ordered wall-hit events for the cue ball from a
// raw record, resolving cushion ids to wall names through the record's
// cushion table. Events are stable-sorted ascending by frame.
func CueWallHits(raw RawShotRecord) []WallHit {
	hits := make([]WallHit, 0, len(raw.Events))

	for _, ev := range raw.Events {
		if ev.BallID != "cue" {
			continue
		}
		if ev.Type != "linear_cushion" && ev.Type != "circular_cushion" {
			continue
		}

		hit := WallHit{
			Name:  "unknown",
			Frame: int(ev.Frame),
		}
		if ev.CushionID != nil {
			idStr := coerceString(ev.CushionID)
			if name, ok := raw.Cushion[idStr]; ok {
				hit.Name = name
			}
			if n, err := strconv.Atoi(idStr); err == nil {
				hit.Index = n
				hit.HasIndex = true
			}
		}
		hits = append(hits, hit)
	}

	sort.SliceStable(hits, func(a, b int) bool { return hits[a].Frame < hits[b].Frame })
	return hits
}

// HasHitIndexAbove reports whether any cue wall hit in the record carries a
// cushion index greater than max. Hits without a numeric index are ignored.
func HasHitIndexAbove(raw RawShotRecord, max int) bool {
	for _, hit := range CueWallHits(raw) {
		if hit.HasIndex && hit.Index > max {
			return true
		}
	}
	return false
}

// roundCoord rounds each component to 2 decimal places, defaulting missing
// components to 0. Precision beyond 2 decimals is intentionally discarded:
// it is what defines "same position" / "same velocity" for counterfactuals.
func roundCoord(vals []float64) Coord {
	var c Coord
	if len(vals) > 0 {
		c.X = round2(vals[0])
	}
	if len(vals) > 1 {
		c.Y = round2(vals[1])
	}
	if len(vals) > 2 {
		c.Z = round2(vals[2])
	}
	return c
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// coercePocketColor pulls a color string out of the heterogeneous pocket
// value shapes: a plain color string, an object carrying a "color" field, or
// any other non-nil value stringified.
func coercePocketColor(v any) string {
	switch p := v.(type) {
	case string:
		return p
	case map[string]any:
		if color, ok := p["color"]; ok {
			return coerceString(color)
		}
		return ""
	default:
		return coerceString(v)
	}
}

// coerceString renders a loosely-typed JSON value as a string. Whole-number
// floats print without a fractional part so numeric cushion ids match their
// string-keyed lookup table.
func coerceString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	case nil:
		return ""
	default:
		return fmt.Sprint(s)
	}
}

// coerceInt parses a loosely-typed JSON value as an int, returning 0 when the
// value is not numeric.
func coerceInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case int:
		return n
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	}
	return 0
}
