package qa

import (
	"hash/fnv"
	"math/rand"
)

// GenerationKey uniquely identifies a reproducible generation run. Two runs
// with the same GenerationKey and identical input record order MUST produce
// byte-identical output.
type GenerationKey int64

// NewGenerationKey creates a GenerationKey from a seed value.
func NewGenerationKey(seed int64) GenerationKey {
	return GenerationKey(seed)
}

const (
	// SubsystemSampler is the RNG subsystem for option/distractor sampling.
	// Uses the master seed directly.
	SubsystemSampler = "sampler"

	// SubsystemCounterfactual is the RNG subsystem for counterfactual
	// neighbor selection.
	SubsystemCounterfactual = "counterfactual"
)

// PartitionedRNG provides deterministic, isolated RNG instances per
// subsystem, so drawing options for one question never perturbs the
// counterfactual neighbor choices of another.
//
// Derivation formula:
//   - SubsystemSampler uses the master seed directly
//   - all other subsystems use masterSeed XOR fnv1a64(subsystemName)
//
// Thread-safety: NOT thread-safe. Must be called from a single goroutine.
type PartitionedRNG struct {
	key        GenerationKey
	subsystems map[string]*rand.Rand
}

// NewPartitionedRNG creates a PartitionedRNG from a GenerationKey.
func NewPartitionedRNG(key GenerationKey) *PartitionedRNG {
	return &PartitionedRNG{
		key:        key,
		subsystems: make(map[string]*rand.Rand),
	}
}

// ForSubsystem returns a deterministically-seeded RNG for the named
// subsystem. The same name always returns the same *rand.Rand instance.
// Never returns nil.
func (p *PartitionedRNG) ForSubsystem(name string) *rand.Rand {
	if rng, ok := p.subsystems[name]; ok {
		return rng
	}

	derivedSeed := int64(p.key)
	if name != SubsystemSampler {
		derivedSeed ^= fnv1a64(name)
	}

	rng := rand.New(rand.NewSource(derivedSeed))
	p.subsystems[name] = rng
	return rng
}

// Key returns the GenerationKey used to create this PartitionedRNG.
func (p *PartitionedRNG) Key() GenerationKey {
	return p.key
}

// fnv1a64 computes a 64-bit FNV-1a hash of the input string.
func fnv1a64(s string) int64 {
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
