// Package qa provides the core question-synthesis engine that turns recorded
// billiard shot outcomes into multi-label multiple-choice questions.
//
// # Reading Guide
//
// Start with these three files to understand the synthesis pipeline:
//   - entry.go: normalization of raw shot records and the counterfactual indices
//   - fact.go: the closed vocabulary of outcome facts and the extraction rule
//   - generator.go: the per-shot orchestration across question variants
//
// # Architecture
//
// Raw shot summaries are normalized once per run into NormalizedEntry values
// plus position/velocity lookup indices (entry.go). For each question variant
// the extractor (fact.go) derives the facts true of an outcome, the sampler
// (sampler.go) mixes them with distractors from the global pool, and the
// renderer (render.go) phrases every surviving fact in the variant's tense.
// Counterfactual variants are grounded in real alternative shots found by the
// matcher (counterfactual.go).
//
// Every component is a pure function over immutable inputs; the only
// non-determinism is the seeded PartitionedRNG (rng.go), so a full generation
// run is reproducible given the seed and the input record order.
package qa
