package transform

import (
	"fmt"
	"strings"
)

// Strategy selects the traversal used by [ReduceCycles].
type Strategy string

const (
	BFS                Strategy = "bfs"
	DFS                Strategy = "dfs"
	DFSRandom          Strategy = "dfs-random"
	DFSRecursive       Strategy = "dfs-recursive"
	DFSRandomRecursive Strategy = "dfs-random-recursive"
	NoReduction        Strategy = "none"
)

// Strategies lists every supported strategy in display order.
var Strategies = []Strategy{BFS, DFS, DFSRandom, DFSRecursive, DFSRandomRecursive, NoReduction}

// ParseStrategy converts a name such as "dfs-random" into a Strategy. Names
// are case-insensitive and underscores are accepted in place of dashes.
func ParseStrategy(name string) (Strategy, error) {
	s := Strategy(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(name)), "_", "-"))
	for _, known := range Strategies {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown reduction strategy %q", name)
}

// Randomized reports whether the strategy shuffles door order.
func (s Strategy) Randomized() bool { return s == DFSRandom || s == DFSRandomRecursive }

func (s Strategy) String() string { return string(s) }
