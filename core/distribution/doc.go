// Package distribution implements the balancing engine that assigns
// electrical meters to transformers and breakers.
//
// Input meter groups are expanded into individual meters, oversized meters
// (>= 1600 A) get their own dedicated single-breaker transformers, and the
// remaining pool is placed transformer by transformer: each unit is sized
// against the load still waiting, a batch is drawn from the front of the
// CDL-sorted queue, and every meter in the batch joins the breaker with the
// best weighted score (target-load closeness, spread across breakers,
// category diversity, fill preference). Meters in the split range are
// halved across a dedicated breaker pair.
//
// After placement a bounded greedy rebalancer narrows the load gap between
// the extremes of each transformer, and a consolidation pass drains lone
// small meters off their breakers to cut the occupied-breaker count. Both
// passes run a fixed number of rounds so termination never depends on the
// input.
//
// Key components:
//   - ExpandGroups: group records to individually addressable meters.
//   - Catalog: transformer classes and the per-iteration size selection.
//   - workspace: owns all transformers of a run; every membership change
//     goes through it and recomputes stats atomically.
//   - Engine.Run: the one-shot entry point returning DistributionResults.
//
// Breakers exceeding their safe ceiling because a single meter alone is too
// heavy are reported through the summary counters; only a meter that cannot
// be hosted at all aborts the run with ErrInfeasible.
package distribution
