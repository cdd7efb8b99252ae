package cli

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon/transform"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/geom"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pathfind"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pipeline"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/render/ascii"
)

// viewCommand creates the interactive viewer command.
func (c *CLI) viewCommand() *cobra.Command {
	var flags genFlags

	cmd := &cobra.Command{
		Use:   "view",
		Short: "Browse dungeons in an interactive terminal viewer",
		Long: `Open a terminal viewer on a generated dungeon.

Keys:
  n / b        next / previous seed
  s            cycle loop reduction strategy
  + / -        prune more / fewer rooms
  arrows, hjkl move the cursor
  space        set the path start, then the goal
  a            cycle path algorithm
  t            toggle the statistics table
  q            quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			runner, err := c.newRunner(ctx, cfg.Cache)
			if err != nil {
				return err
			}
			defer runner.Close()

			// Stage logs would tear the alt screen.
			cfg.Generate.Logger = log.New(io.Discard)
			m := newViewModel(ctx, runner, cfg.Generate)
			_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
			return err
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

// =============================================================================
// Model
// =============================================================================

// generatedMsg carries the outcome of a background pipeline run.
type generatedMsg struct {
	res *pipeline.Result
	err error
}

// viewModel is the bubbletea model of the dungeon viewer.
type viewModel struct {
	ctx    context.Context
	runner *pipeline.Runner
	opts   pipeline.Options

	res     *pipeline.Result
	err     error
	loading bool

	cursor    geom.Rect
	from, to  *pathfind.Vec3
	algorithm int
	path      *pipeline.PathResult

	showStats bool
	width     int
	height    int
}

func newViewModel(ctx context.Context, runner *pipeline.Runner, opts pipeline.Options) viewModel {
	return viewModel{ctx: ctx, runner: runner, opts: opts, loading: true, showStats: true}
}

func (m viewModel) Init() tea.Cmd {
	return m.generate()
}

// generate returns a command running the pipeline with the current options.
func (m viewModel) generate() tea.Cmd {
	ctx, runner, opts := m.ctx, m.runner, m.opts
	return func() tea.Msg {
		res, err := runner.Execute(ctx, opts)
		return generatedMsg{res: res, err: err}
	}
}

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case generatedMsg:
		m.loading = false
		m.res, m.err = msg.res, msg.err
		m.path = nil
		if m.res != nil {
			area := m.res.Layout.Area()
			m.cursor = geom.R(area.X+area.W/2, area.Y+area.H/2, 1, 1)
			m.opts.Seed = m.res.Seed
			m.repath()
		}
		return m, nil

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg.String())
	}
	return m, nil
}

func (m viewModel) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "t":
		m.showStats = !m.showStats
		return m, nil
	case "a":
		m.algorithm = (m.algorithm + 1) % len(pathfind.Algorithms)
		m.repath()
		return m, nil
	case "up", "k":
		m.moveCursor(0, -1)
		return m, nil
	case "down", "j":
		m.moveCursor(0, 1)
		return m, nil
	case "left", "h":
		m.moveCursor(-1, 0)
		return m, nil
	case "right", "l":
		m.moveCursor(1, 0)
		return m, nil
	case " ", "enter":
		m.mark()
		return m, nil
	}

	if m.loading {
		return m, nil
	}
	switch key {
	case "n":
		m.opts.Seed++
	case "b":
		if m.opts.Seed > 1 {
			m.opts.Seed--
		}
	case "s":
		m.opts.Strategy = string(nextStrategy(m.opts.Strategy))
	case "+", "=":
		m.opts.PercentToRemove = min(100, m.opts.PercentToRemove+5)
	case "-", "_":
		m.opts.PercentToRemove = max(0, m.opts.PercentToRemove-5)
	default:
		return m, nil
	}
	m.loading = true
	return m, m.generate()
}

func nextStrategy(current string) transform.Strategy {
	s, err := transform.ParseStrategy(strategyName(current))
	if err != nil {
		return transform.Strategies[0]
	}
	i := slices.Index(transform.Strategies, s)
	return transform.Strategies[(i+1)%len(transform.Strategies)]
}

func (m *viewModel) moveCursor(dx, dz int) {
	if m.res == nil {
		return
	}
	area := m.res.Layout.Area()
	x := min(max(m.cursor.X+dx, area.X), area.XMax()-1)
	z := min(max(m.cursor.Y+dz, area.Y), area.YMax()-1)
	m.cursor = geom.R(x, z, 1, 1)
}

// mark sets the path start, then the goal, then starts over.
func (m *viewModel) mark() {
	if m.res == nil {
		return
	}
	p := &pathfind.Vec3{X: float64(m.cursor.X) + 0.5, Z: float64(m.cursor.Y) + 0.5}
	switch {
	case m.from == nil || m.to != nil:
		m.from, m.to = p, nil
		m.path = nil
	default:
		m.to = p
		m.repath()
	}
}

func (m *viewModel) repath() {
	if m.res == nil || m.from == nil || m.to == nil {
		return
	}
	pr, err := m.runner.Path(m.ctx, m.res, pipeline.PathQuery{
		From:      *m.from,
		To:        *m.to,
		Algorithm: string(pathfind.Algorithms[m.algorithm]),
	})
	m.path, m.err = pr, err
}

// =============================================================================
// View
// =============================================================================

func (m viewModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Dungeon"))
	b.WriteString(StyleDim.Render(fmt.Sprintf("  seed %d · %s · prune %d%% · %s",
		m.opts.Seed, strategyName(m.opts.Strategy), m.opts.PercentToRemove, pathfind.Algorithms[m.algorithm])))
	if m.loading {
		b.WriteString(StyleDim.Render("  generating..."))
	}
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("n/b seed  s strategy  +/- prune  space mark  a algo  t stats  q quit"))
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + m.err.Error())
		b.WriteString("\n")
	}
	if m.res == nil {
		return b.String()
	}

	mapView := colorize(m.rows())
	if m.showStats {
		mapView = lipgloss.JoinHorizontal(lipgloss.Top, mapView, "  ", statsTable(m.res))
	}
	b.WriteString(mapView)
	b.WriteString("\n\n")
	b.WriteString(m.status())
	return b.String()
}

// rows renders the map with the cursor drawn over it.
func (m viewModel) rows() []string {
	opts := m.res.ASCIIOptions(m.path)
	rows := ascii.Rows(m.res.Grid, opts)
	r, col := m.cursor.Y-opts.Area.Y, m.cursor.X-opts.Area.X
	if r < 0 || r >= len(rows) || col < 0 {
		return rows
	}
	line := []rune(rows[r])
	for len(line) <= col {
		line = append(line, ascii.Empty)
	}
	line[col] = '@'
	rows[r] = string(line)
	return rows
}

func (m viewModel) status() string {
	cursor := fmt.Sprintf("cursor %d,%d", m.cursor.X, m.cursor.Y)
	switch {
	case m.path != nil && m.path.Found():
		return StyleDim.Render(fmt.Sprintf("%s · %d steps · cost %.2f · %d discovered",
			cursor, len(m.path.Path), m.path.Cost, len(m.path.Discovered)))
	case m.path != nil:
		return StyleWarning.Render(cursor + " · no route")
	case m.from != nil:
		return StyleDim.Render(cursor + " · start set, mark the goal")
	}
	return StyleDim.Render(cursor)
}

func strategyName(name string) string {
	if name == "" {
		return string(pipeline.DefaultStrategy)
	}
	return name
}
