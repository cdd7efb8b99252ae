// Package dungeon provides the room and door graph that every generation
// stage reads and mutates.
//
// # Overview
//
// A [Dungeon] is an arena: it owns all [Room] and [Door] values and hands out
// stable integer handles ([RoomID], [DoorID]). Rooms refer to their doors by
// handle and doors refer to their two rooms by handle, so there are no
// pointer cycles and a Dungeon can be cloned or serialized cheaply.
//
// # Invariants
//
// The arena maintains these properties after every mutation:
//
//   - Every door's two endpoints are rooms present in the arena.
//   - At most one door connects an unordered pair of rooms. [Dungeon.AddDoor]
//     on an existing pair is a no-op that returns the existing handle.
//   - Removing a room removes every door incident to it.
//
// [Dungeon.Validate] re-checks these properties and is used by tests and by
// the pipeline after each stage.
//
// # Connectivity
//
// [Dungeon.Reachable] performs a breadth-first scan from a root room while
// treating one room as absent. The island-safe pruner uses it to decide
// whether a room may be removed before the removal is committed.
//
// # Ordering
//
// Rooms, doors and each room's incident door list are kept in insertion
// order. All traversals in this module iterate in that order, which makes
// the output of deterministic strategies a pure function of the seed.
//
// A Dungeon is not safe for concurrent use; generation stages serialize all
// writes through a single owner.
package dungeon
