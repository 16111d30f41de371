// Package weight computes volume weights for the tracks of a stellar model grid.
//
// # Reading Guide
//
// A weighting run is a single linear pass (see pipeline.go):
//   - loader.go: read track ids and raw basis parameters from a grid.Store
//   - normalize.go: map raw parameters into the unit hypercube
//   - sobol.go: deterministic low-discrepancy points, a pure function of the seed
//   - assign.go: nearest-track search over the oversampled points
//   - weights.go: hit counts to weights summing to one
//   - writer.go: upsert the weights back into the grid
//
// # Determinism
//
// Two runs with the same Config over the same grid MUST produce bit-identical
// hit counts and weights, independent of the number of workers. Workers own
// disjoint contiguous seed ranges and private counters that are summed at the
// end.
//
// Storage backends live in the grid sub-package.
package weight
