package qa

// FactKind identifies one predicate from the closed option vocabulary.
type FactKind string

const (
	// FactPocketed: the cue ball ends up in some pocket.
	FactPocketed FactKind = "pocketed"
	// FactPocketedIn: the cue ball ends up in the named pocket (Color arg).
	FactPocketedIn FactKind = "pocketed_in"
	// FactNotPocketed: the cue ball is never pocketed.
	FactNotPocketed FactKind = "not_pocketed"
	// FactHitsZeroWalls: no wall contacts at all.
	FactHitsZeroWalls FactKind = "hits_0_walls"
	// FactHitsOneWall: exactly one wall contact.
	FactHitsOneWall FactKind = "hits_1_wall"
	// FactHitsNDiffWalls: n distinct walls contacted (Count arg, n >= 2).
	FactHitsNDiffWalls FactKind = "hits_n_diff_walls"
	// FactHitsSameWallNTimes: all n contacts are with the same wall (Count arg, n >= 2).
	FactHitsSameWallNTimes FactKind = "hits_same_wall_n_times"
	// FactFirstWallHit / FactSecondWallHit / FactThirdWallHit: identity of the
	// 1st/2nd/3rd wall contact (Wall arg), only emitted when that many exist.
	FactFirstWallHit  FactKind = "first_wall_hit"
	FactSecondWallHit FactKind = "second_wall_hit"
	FactThirdWallHit  FactKind = "third_wall_hit"
)

// Canonical pocket colors and wall names used in the distractor pool.
var (
	PocketColors = []string{"gray", "purple", "blue", "orange", "green", "red"}
	WallNames    = []string{
		"green-blue-wall",
		"orange-red-wall",
		"grey-orange-wall",
		"purple-grey-wall",
		"blue-purple-wall",
		"red-green-wall",
	}
)

// Fact is the structured, tense-independent representation of a single answer
// option. Kind selects the predicate; the remaining fields carry its
// arguments (at most one is set per kind). Fact is comparable, so two facts
// with the same kind and arguments are identical for set/dedup purposes.
type Fact struct {
	Kind  FactKind
	Color string // pocket color, FactPocketedIn only
	Wall  string // wall name, Fact{First,Second,Third}WallHit only
	Count int    // repetition/distinct count, FactHitsNDiffWalls and FactHitsSameWallNTimes only
}

// FactsFromOutcome converts a normalized single-ball outcome into the ordered
// list of facts true of it. This is the only place that inspects Outcome
// structure; everything downstream operates on facts.
//
// The list is never empty: an outcome with zero information still yields
// FactNotPocketed plus a wall-count fact.
func FactsFromOutcome(out Outcome) []Fact {
	var facts []Fact

	// Pocket-related facts.
	if out.Pocketed {
		facts = append(facts, Fact{Kind: FactPocketed})
		if out.PocketColor != "" {
			facts = append(facts, Fact{Kind: FactPocketedIn, Color: out.PocketColor})
		}
	} else {
		facts = append(facts, Fact{Kind: FactNotPocketed})
	}

	// Aggregate wall-count facts (triple-exclusive bucket).
	hits := out.NumWallHits
	switch {
	case hits == 0:
		facts = append(facts, Fact{Kind: FactHitsZeroWalls})
	case hits == 1:
		facts = append(facts, Fact{Kind: FactHitsOneWall})
	case hits >= 2:
		if len(out.WallHits) == hits && allSame(out.WallHits) {
			facts = append(facts, Fact{Kind: FactHitsSameWallNTimes, Count: hits})
		} else {
			// The distinct count is over names observed in the sequence, not
			// the true rail count. A sequence that does not cover the hit
			// count (legacy count-only records) falls back to the count
			// itself, keeping the arity n >= 2.
			n := hits
			if len(out.WallHits) == hits {
				n = distinctCount(out.WallHits)
			}
			facts = append(facts, Fact{Kind: FactHitsNDiffWalls, Count: n})
		}
	}

	// Sequence facts for the first three wall contacts.
	orderKinds := []FactKind{FactFirstWallHit, FactSecondWallHit, FactThirdWallHit}
	for i, kind := range orderKinds {
		if i < len(out.WallHits) {
			facts = append(facts, Fact{Kind: kind, Wall: out.WallHits[i]})
		}
	}

	return dedupFacts(facts)
}

func allSame(names []string) bool {
	if len(names) == 0 {
		return false
	}
	for _, n := range names[1:] {
		if n != names[0] {
			return false
		}
	}
	return true
}

func distinctCount(names []string) int {
	seen := make(map[string]struct{}, len(names))
	for _, n := range names {
		seen[n] = struct{}{}
	}
	return len(seen)
}

// dedupFacts removes duplicate facts while preserving first-occurrence order.
func dedupFacts(facts []Fact) []Fact {
	seen := make(map[Fact]struct{}, len(facts))
	unique := make([]Fact, 0, len(facts))
	for _, f := range facts {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		unique = append(unique, f)
	}
	return unique
}

func describesPocketed(f Fact) bool {
	return f.Kind == FactPocketed || f.Kind == FactPocketedIn
}

func describesNotPocketed(f Fact) bool {
	return f.Kind == FactNotPocketed
}

func describesZeroWallHits(f Fact) bool {
	return f.Kind == FactHitsZeroWalls
}

func describesPositiveWallHits(f Fact) bool {
	switch f.Kind {
	case FactHitsOneWall, FactHitsNDiffWalls, FactHitsSameWallNTimes,
		FactFirstWallHit, FactSecondWallHit, FactThirdWallHit:
		return true
	}
	return false
}

// ConsistentDistractor reports whether a candidate distractor is logically
// compatible with the already-chosen true facts. SampleMultilabel does not
// apply this predicate to generic draws; the generated datasets keep the
// unfiltered sampling behavior.
func ConsistentDistractor(candidate Fact, chosenTrue []Fact) bool {
	for _, f := range chosenTrue {
		// Pocketed vs not-pocketed are mutually exclusive.
		if describesPocketed(f) && describesNotPocketed(candidate) {
			return false
		}
		if describesNotPocketed(f) && describesPocketed(candidate) {
			return false
		}

		// Zero wall hits vs any wall-hit description are mutually exclusive.
		if describesZeroWallHits(f) && describesPositiveWallHits(candidate) {
			return false
		}
		if describesZeroWallHits(candidate) && describesPositiveWallHits(f) {
			return false
		}
	}
	return true
}

// DistractorPoolFacts is the global pool of candidate facts, covering every
// (kind, argument) combination over the known pocket colors, wall names and
// small counts, independent of truth in any particular shot.
var DistractorPoolFacts = buildDistractorPool()

func buildDistractorPool() []Fact {
	var pool []Fact

	pool = append(pool, Fact{Kind: FactPocketed})
	for _, color := range PocketColors {
		pool = append(pool, Fact{Kind: FactPocketedIn, Color: color})
	}
	pool = append(pool, Fact{Kind: FactNotPocketed})

	pool = append(pool, Fact{Kind: FactHitsZeroWalls})
	pool = append(pool, Fact{Kind: FactHitsOneWall})
	for _, n := range []int{2, 3} {
		pool = append(pool, Fact{Kind: FactHitsNDiffWalls, Count: n})
	}
	for _, n := range []int{2, 3} {
		pool = append(pool, Fact{Kind: FactHitsSameWallNTimes, Count: n})
	}

	for _, kind := range []FactKind{FactFirstWallHit, FactSecondWallHit, FactThirdWallHit} {
		for _, name := range WallNames {
			pool = append(pool, Fact{Kind: kind, Wall: name})
		}
	}

	return pool
}
