package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/layout"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pathfind"
	"github.com/Wesbraak3/Dungeon-Generator/pkg/pipeline"
)

// pathOpts holds the query settings for the path command.
type pathOpts struct {
	from, to  pathfind.Vec3
	fromSet   *pointValue
	toSet     *pointValue
	algorithm string
	compare   bool
	noMap     bool
}

// pathCommand creates the path command.
func (c *CLI) pathCommand() *cobra.Command {
	var flags genFlags
	var q pathOpts
	q.fromSet = newPointValue(&q.from)
	q.toSet = newPointValue(&q.to)

	cmd := &cobra.Command{
		Use:   "path",
		Short: "Find a route through a generated dungeon",
		Long: `Generate a dungeon and search a route between two points of its floor.

Points are world coordinates written as x,z. Without --from and --to the
route runs from the center of the first room to the center of the last.`,
		Example: `  # Route between two points with A*
  dungeongen path --from 5,5 --to 90,40 --algo astar

  # Compare all algorithms on the same query
  dungeongen path --seed 7 --compare`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return c.runPath(cmd, cfg, q)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().Var(q.fromSet, "from", "start position")
	cmd.Flags().Var(q.toSet, "to", "goal position")
	cmd.Flags().StringVarP(&q.algorithm, "algo", "a", string(pathfind.AlgoBFS),
		"search algorithm: "+joinNames(pathfind.Algorithms))
	cmd.Flags().BoolVar(&q.compare, "compare", false, "run every algorithm and tabulate the results")
	cmd.Flags().BoolVar(&q.noMap, "no-map", false, "do not print the map")

	return cmd
}

func (c *CLI) runPath(cmd *cobra.Command, cfg pipeline.Config, q pathOpts) error {
	ctx := cmd.Context()

	runner, err := c.newRunner(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := c.execute(ctx, runner, cfg.Generate, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	from, to := defaultEndpoints(res.Layout)
	if q.fromSet.set {
		from = q.from
	}
	if q.toSet.set {
		to = q.to
	}

	algos := []pathfind.Algorithm{pathfind.Algorithm(q.algorithm)}
	if q.compare {
		algos = pathfind.Algorithms
	}
	results := make([]*pipeline.PathResult, 0, len(algos))
	for _, algo := range algos {
		pr, err := runner.Path(ctx, res, pipeline.PathQuery{From: from, To: to, Algorithm: string(algo)})
		if err != nil {
			return err
		}
		results = append(results, pr)
	}

	out := cmd.OutOrStdout()
	if !q.noMap {
		art, err := pipeline.RenderFormat(ctx, res, pipeline.FormatASCII, pipeline.RenderOptions{Path: results[0]})
		if err != nil {
			return err
		}
		if _, err := out.Write(art); err != nil {
			return err
		}
	}

	p := newPrinter(out)
	if q.compare {
		p.line(pathTable(results))
	} else {
		printPath(p, results[0])
	}
	p.warnings(res)
	return nil
}

// defaultEndpoints returns the centers of the first and last rooms.
func defaultEndpoints(l layout.Layout) (pathfind.Vec3, pathfind.Vec3) {
	if len(l.Rooms) == 0 {
		return pathfind.Vec3{}, pathfind.Vec3{}
	}
	center := func(r layout.Room) pathfind.Vec3 {
		x, z := r.Bounds.Center()
		return pathfind.Vec3{X: x, Z: z}
	}
	return center(l.Rooms[0]), center(l.Rooms[len(l.Rooms)-1])
}

func printPath(p printer, pr *pipeline.PathResult) {
	if !pr.Found() {
		p.warning("%s found no route (%d cells discovered)", pr.Algorithm, len(pr.Discovered))
		return
	}
	p.success("%s: %s steps, cost %s", pr.Algorithm,
		StyleNumber.Render(fmt.Sprint(len(pr.Path))),
		StyleNumber.Render(fmt.Sprintf("%.2f", pr.Cost)))
	p.detail("%s -> %s, %d cells discovered in %s",
		pr.Path[0], pr.Path[len(pr.Path)-1], len(pr.Discovered), fmtDuration(pr.Duration))
}

func pathTable(results []*pipeline.PathResult) string {
	rows := make([][]string, len(results))
	for i, pr := range results {
		cost := "-"
		if pr.Found() {
			cost = fmt.Sprintf("%.2f", pr.Cost)
		}
		rows[i] = []string{string(pr.Algorithm), fmt.Sprint(len(pr.Path)), cost,
			fmt.Sprint(len(pr.Discovered)), fmtDuration(pr.Duration)}
	}
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("algorithm", "steps", "cost", "discovered", "time").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return styleHeader
			}
			if col == 0 {
				return lipgloss.NewStyle().Foreground(colorCyan)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		}).
		Render()
}
