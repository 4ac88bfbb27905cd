// Package mosaic converts a 2D elevation and color field into a
// minimal set of axis-aligned bricks.
//
// # Architecture
//
// A conversion runs through four stages:
//
//  1. Build: one Tile per input sample, arranged in a column-major
//     Grid. With a layering threshold the domain splits into a base
//     Grid plus one feature Grid per retained elevation band.
//  2. Quad merge: 2x2 blocks of equal-sized, equal-property tiles
//     collapse into one double-sized tile, escalating through
//     power-of-two scales until the size limit or a zero-merge pass.
//  3. Run merge: maximal horizontal or vertical runs of similar tiles
//     collapse into one rectangular tile, looped to a fixpoint.
//  4. Emit: each surviving tile expands into one or more stacked
//     bricks bounded by the engine's thickness limits.
//
// Merged tiles stay in the grid with a parent reference; only live
// tiles (parent < 0) are eligible for further merging or emission.
//
// [Generate] orchestrates the stages and reports fractional progress
// through a callback that can cancel the run.
package mosaic
