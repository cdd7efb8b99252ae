// Package transform finalizes the topology of a split dungeon.
//
// Two passes run on a frozen [dungeon.Dungeon] after door placement:
//
//   - [PruneSmallRooms] removes the smallest rooms, skipping any room whose
//     removal would cut the dungeon in two.
//   - [ReduceCycles] walks the door graph from a root room and removes every
//     door that leads back to an already discovered room, leaving a spanning
//     tree (or, with a keep budget, a tree plus a few deliberate loops).
//
// Both passes are single-threaded and bounded: traversal work is linear in
// the number of doors, and pruning is guarded by a pass budget, a wall-clock
// timeout and the caller's context.
package transform
