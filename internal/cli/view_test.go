package cli

import (
	"context"
	"io"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/require"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon/transform"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pathfind"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pipeline"
)

func newTestViewModel(t *testing.T) viewModel {
	t.Helper()
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	m := newViewModel(context.Background(), runner, pipeline.Options{Width: 60, Height: 30, Seed: 21})
	return loaded(t, m, m.Init())
}

// loaded runs cmd synchronously and feeds its message back into m.
func loaded(t *testing.T, m viewModel, cmd tea.Cmd) viewModel {
	t.Helper()
	require.NotNil(t, cmd)
	next, _ := m.Update(cmd())
	vm := next.(viewModel)
	require.NoError(t, vm.err)
	require.NotNil(t, vm.res)
	require.False(t, vm.loading)
	return vm
}

func press(m viewModel, key string) (viewModel, tea.Cmd) {
	var msg tea.KeyMsg
	switch key {
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, cmd := m.Update(msg)
	return next.(viewModel), cmd
}

func TestViewInitialLoad(t *testing.T) {
	m := newTestViewModel(t)
	require.Equal(t, uint64(21), m.res.Seed)

	view := m.View()
	require.Contains(t, view, "Dungeon")
	require.Contains(t, view, "seed 21")
	require.Contains(t, view, "@")
	require.Contains(t, view, "rooms")
}

func TestViewReseedAndStrategy(t *testing.T) {
	m := newTestViewModel(t)
	first := m.res.LayoutHash

	m, cmd := press(m, "n")
	require.True(t, m.loading)
	require.Equal(t, uint64(22), m.opts.Seed)
	m = loaded(t, m, cmd)
	require.NotEqual(t, first, m.res.LayoutHash)

	m, cmd = press(m, "s")
	require.Equal(t, string(transform.DFS), m.opts.Strategy)
	m = loaded(t, m, cmd)
	require.Equal(t, string(transform.DFS), m.res.Layout.Strategy)

	m, cmd = press(m, "+")
	require.Equal(t, 5, m.opts.PercentToRemove)
	loaded(t, m, cmd)

	// Options keys are ignored while a run is in flight.
	m.loading = true
	m, cmd = press(m, "n")
	require.Nil(t, cmd)
	require.Equal(t, uint64(22), m.opts.Seed)
}

func TestViewPathMarking(t *testing.T) {
	m := newTestViewModel(t)
	rooms := m.res.Layout.Rooms
	at := func(r geom.Rect) geom.Rect {
		x, z := r.Center()
		return geom.R(int(x), int(z), 1, 1)
	}

	m.cursor = at(rooms[0].Bounds)
	m, _ = press(m, "space")
	require.NotNil(t, m.from)
	require.Nil(t, m.path)
	require.Contains(t, m.status(), "start set")

	m.cursor = at(rooms[len(rooms)-1].Bounds)
	m, _ = press(m, "space")
	require.NotNil(t, m.path)
	require.True(t, m.path.Found())
	require.Equal(t, pathfind.AlgoBFS, m.path.Algorithm)
	require.Contains(t, m.status(), "steps")

	m, _ = press(m, "a")
	require.Equal(t, pathfind.AlgoDijkstra, m.path.Algorithm)
	require.True(t, m.path.Found())

	// A third mark starts a new route.
	m, _ = press(m, "space")
	require.Nil(t, m.path)
	require.Nil(t, m.to)
}

func TestViewCursorClamped(t *testing.T) {
	m := newTestViewModel(t)
	area := m.res.Layout.Area()
	for range area.H + 5 {
		m, _ = press(m, "up")
	}
	require.Equal(t, area.Y, m.cursor.Y)

	rows := m.rows()
	require.True(t, strings.ContainsRune(rows[0], '@'))
}

func TestViewQuitAndToggle(t *testing.T) {
	m := newTestViewModel(t)

	m, _ = press(m, "t")
	require.False(t, m.showStats)
	require.NotContains(t, m.View(), "stage")

	_, cmd := press(m, "q")
	require.NotNil(t, cmd)
	require.IsType(t, tea.QuitMsg{}, cmd())
}

func TestNextStrategyWraps(t *testing.T) {
	last := transform.Strategies[len(transform.Strategies)-1]
	require.Equal(t, transform.Strategies[0], nextStrategy(string(last)))
	require.Equal(t, transform.Strategies[0], nextStrategy("bogus"))
	require.Equal(t, transform.Strategies[1], nextStrategy(""))
}

func TestStatsTable(t *testing.T) {
	m := newTestViewModel(t)
	out := statsTable(m.res)
	for _, want := range []string{"rooms", "doors", "split", "prune", "reduce", "grid"} {
		require.Contains(t, out, want)
	}
}
