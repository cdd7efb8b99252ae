// Package layout provides a serializable snapshot of a generated dungeon.
//
// A [Layout] is the read-only view the rest of the system consumes: the CLI
// writes it to disk, the HTTP server returns it, and caches store it.
// Rooms and doors appear in arena insertion order, so two runs with the same
// options produce byte-identical JSON.
//
// Round-trip a dungeon through JSON:
//
//	l := layout.FromDungeon(d, layout.Meta{Seed: 1234})
//	data, err := layout.Marshal(l)
//	...
//	back, err := layout.Unmarshal(data)
//	d2, err := back.Dungeon()
package layout
