package qa

import "math/rand"

// SampleMultilabel samples a mixed true/distractor option set and renders it
// in the requested tense. It returns the rendered option strings and the
// post-shuffle indices of the correct ones.
//
// An empty trueFacts slice falls back to the singleton [not_pocketed] so an
// answerable true statement always exists. numCorrect is clamped to the
// number of available true facts and the total slot budget. If dedup leaves
// zero correct options the caller receives (nil, nil) and must skip the
// question.
//
// Distractors are drawn from pool minus the chosen-true set by value
// equality only; no logical-consistency filter is applied (see
// ConsistentDistractor).
func SampleMultilabel(rng *rand.Rand, trueFacts, pool []Fact, total, numCorrect int, tense Tense) ([]string, []int) {
	if len(trueFacts) == 0 {
		trueFacts = []Fact{{Kind: FactNotPocketed}}
	}

	numCorrect = min(numCorrect, min(len(trueFacts), total))
	if numCorrect < 1 {
		numCorrect = 1
	}

	chosenTrue := sampleWithoutReplacement(rng, trueFacts, numCorrect)

	chosenSet := make(map[Fact]struct{}, len(chosenTrue))
	for _, f := range chosenTrue {
		chosenSet[f] = struct{}{}
	}
	candidates := make([]Fact, 0, len(pool))
	for _, f := range pool {
		if _, ok := chosenSet[f]; !ok {
			candidates = append(candidates, f)
		}
	}
	needed := total - numCorrect
	if needed < 0 {
		needed = 0
	}
	distractors := sampleWithoutReplacement(rng, candidates, min(needed, len(candidates)))

	type labeled struct {
		fact    Fact
		correct bool
	}
	combined := make([]labeled, 0, len(chosenTrue)+len(distractors))
	for _, f := range chosenTrue {
		combined = append(combined, labeled{fact: f, correct: true})
	}
	for _, f := range distractors {
		combined = append(combined, labeled{fact: f, correct: false})
	}

	// Dedup by fact identity, keeping the earliest occurrence, then shuffle
	// so the true-then-distractor ordering leaks nothing.
	seen := make(map[Fact]struct{}, len(combined))
	deduped := make([]labeled, 0, len(combined))
	for _, entry := range combined {
		if _, ok := seen[entry.fact]; ok {
			continue
		}
		seen[entry.fact] = struct{}{}
		deduped = append(deduped, entry)
	}
	rng.Shuffle(len(deduped), func(a, b int) {
		deduped[a], deduped[b] = deduped[b], deduped[a]
	})

	options := make([]string, 0, len(deduped))
	var groundTruth []int
	for idx, entry := range deduped {
		options = append(options, Render(entry.fact, tense))
		if entry.correct {
			groundTruth = append(groundTruth, idx)
		}
	}
	if len(groundTruth) == 0 {
		return nil, nil
	}
	return options, groundTruth
}

// sampleWithoutReplacement draws k items uniformly at random. k <= 0 yields
// nil; k >= len(items) yields a copy of the full slice in input order.
func sampleWithoutReplacement[T any](rng *rand.Rand, items []T, k int) []T {
	if k <= 0 {
		return nil
	}
	if k >= len(items) {
		out := make([]T, len(items))
		copy(out, items)
		return out
	}
	out := make([]T, 0, k)
	for _, idx := range rng.Perm(len(items))[:k] {
		out = append(out, items[idx])
	}
	return out
}
