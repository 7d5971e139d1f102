package qa

import "math/rand"

// FindVelocityCFs finds up to n sim ids sharing the query's rounded position
// but differing in rounded velocity, sampled uniformly without replacement.
// Returns an empty slice when the position bucket holds no such shot; the
// query's own id can never be returned because its velocity equals vel.
func FindVelocityCFs(rng *rand.Rand, pos, vel Coord, posToIDs map[Coord][]int, entries map[int]*NormalizedEntry, n int) []int {
	var candidates []int
	for _, id := range posToIDs[pos] {
		if entries[id].Initial.Velocity != vel {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return sampleWithoutReplacement(rng, candidates, min(n, len(candidates)))
}

// FindPositionCFs is the symmetric counterpart: same rounded velocity,
// different rounded position.
func FindPositionCFs(rng *rand.Rand, pos, vel Coord, velToIDs map[Coord][]int, entries map[int]*NormalizedEntry, n int) []int {
	var candidates []int
	for _, id := range velToIDs[vel] {
		if entries[id].Initial.Position != pos {
			candidates = append(candidates, id)
		}
	}
	if len(candidates) == 0 {
		return nil
	}
	return sampleWithoutReplacement(rng, candidates, min(n, len(candidates)))
}
