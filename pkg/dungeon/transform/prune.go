package transform

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon"
)

// DefaultPruneTimeout bounds a single PruneSmallRooms call when no timeout is set.
const DefaultPruneTimeout = 10 * time.Second

// ErrBudgetExhausted is returned with partial results when pruning ran out of
// passes or time before reaching its target.
var ErrBudgetExhausted = errors.New("prune budget exhausted")

// PruneOptions configures [PruneSmallRooms].
type PruneOptions struct {
	// Percent of the current room count to remove, 0..100.
	Percent int
	// Timeout bounds wall-clock time. Zero means DefaultPruneTimeout.
	Timeout time.Duration
	// MaxPasses bounds the number of candidate scans. Zero means one pass
	// per room plus one.
	MaxPasses int
}

// PruneStats reports what [PruneSmallRooms] did.
type PruneStats struct {
	Target  int
	Removed int
	Passes  int
	// Blocked is true when pruning stopped because every remaining
	// candidate is a cut room.
	Blocked bool
	// Rooms lists removed room handles in removal order.
	Rooms []dungeon.RoomID
}

// PruneSmallRooms removes up to Percent% of the rooms, smallest area first.
// A room is removed only if every other surviving room stays reachable
// without it; the check runs before the removal is committed. Each pass
// rescans the remaining candidates from the smallest, so a removal that
// turns a larger room into a cut room is accounted for.
func PruneSmallRooms(ctx context.Context, d *dungeon.Dungeon, opts PruneOptions) (PruneStats, error) {
	if opts.Percent < 0 || opts.Percent > 100 {
		return PruneStats{}, fmt.Errorf("percent to remove must be within 0..100, got %d", opts.Percent)
	}
	stats := PruneStats{Target: d.RoomCount() * opts.Percent / 100}
	if stats.Target == 0 {
		return stats, nil
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultPruneTimeout
	}
	deadline := time.Now().Add(timeout)
	maxPasses := opts.MaxPasses
	if maxPasses <= 0 {
		maxPasses = d.RoomCount() + 1
	}

	candidates := d.Rooms()
	slices.SortStableFunc(candidates, func(a, b dungeon.Room) int {
		return cmp.Compare(a.Area(), b.Area())
	})

	for stats.Removed < stats.Target {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		if stats.Passes >= maxPasses || time.Now().After(deadline) {
			return stats, fmt.Errorf("%w: removed %d of %d rooms after %d passes",
				ErrBudgetExhausted, stats.Removed, stats.Target, stats.Passes)
		}
		stats.Passes++

		if d.RoomCount() <= 1 {
			stats.Blocked = true
			return stats, nil
		}
		idx := slices.IndexFunc(candidates, func(r dungeon.Room) bool {
			return d.ConnectedWithout(r.ID)
		})
		if idx < 0 {
			stats.Blocked = true
			return stats, nil
		}
		if err := d.RemoveRoom(candidates[idx].ID); err != nil {
			return stats, err
		}
		stats.Rooms = append(stats.Rooms, candidates[idx].ID)
		candidates = slices.Delete(candidates, idx, idx+1)
		stats.Removed++
	}
	return stats, nil
}
