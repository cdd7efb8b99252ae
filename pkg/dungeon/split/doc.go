// Package split partitions a room into leaf rooms by recursive binary space
// partitioning and places doors on the walls the leaves share.
//
// # Splitting
//
// A [Splitter] halves a rectangle vertically or horizontally until neither
// dimension can be halved while keeping both halves larger than the minimum
// room size. The two halves overlap by one column (or row), so neighbouring
// rooms share their wall exactly.
//
// Axis policy, for a rectangle of width w and height h:
//
//   - vertical split is legal when w/2 > min, horizontal when h/2 > min
//   - if only one axis is legal, or one dimension is at least twice the
//     other, that axis is used
//   - otherwise a fair coin picks the axis
//
// # Concurrency and determinism
//
// Splitting runs in two phases. The plan phase computes the split tree on a
// bounded worker pool; every subtree owns a random source derived from its
// parent's source in a fixed order (split offset, then the left seed, then
// the right seed, then the door seed). The commit phase walks the finished
// tree in pre-order on the calling goroutine, which is the only writer of
// the [dungeon.Dungeon]. The result is therefore identical for any
// [Splitter.MaxWorkers].
//
// # Doors
//
// When a [DoorPlacer] is configured, doors between the leaves of two sibling
// subtrees are placed during commit, after both subtrees have been fully
// resolved.
package split
