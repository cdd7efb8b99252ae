package cli

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/pipeline"
)

// generateOpts holds output settings for the generate command.
type generateOpts struct {
	formats  string
	output   string
	detailed bool
	spatial  bool
}

// generateCommand creates the generate command.
func (c *CLI) generateCommand() *cobra.Command {
	var flags genFlags
	var out generateOpts

	cmd := &cobra.Command{
		Use:     "generate",
		Aliases: []string{"gen"},
		Short:   "Generate a dungeon",
		Long: `Generate a dungeon and print it, or write it to files.

Without --output the dungeon is printed to stdout, as an ascii map unless
--format says otherwise. With --output every requested format is written
next to the given path (json when no format is given).`,
		Example: `  # Print a 100x50 dungeon
  dungeongen generate

  # Remove a third of the rooms and keep two loops
  dungeongen generate --seed 42 --prune 33 --keep-loops 2

  # Write JSON, DOT and SVG using settings from a file
  dungeongen generate -c dungeon.toml -f json,dot,svg -o out/dungeon`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return c.runGenerate(cmd, cfg, out)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().StringVarP(&out.formats, "format", "f", "", "output formats: json, dot, svg, ascii, tiles (comma-separated)")
	cmd.Flags().StringVarP(&out.output, "output", "o", "", "output file or base path")
	cmd.Flags().BoolVar(&out.detailed, "detailed", false, "label graph nodes with room bounds")
	cmd.Flags().BoolVar(&out.spatial, "spatial", false, "pin graph nodes to room centers")

	return cmd
}

func (c *CLI) runGenerate(cmd *cobra.Command, cfg pipeline.Config, out generateOpts) error {
	ctx := cmd.Context()

	fallback := pipeline.FormatASCII
	if out.output != "" {
		fallback = pipeline.FormatJSON
	}
	formats := parseFormats(out.formats, fallback)
	if err := pipeline.ValidateFormats(formats); err != nil {
		return err
	}
	if out.output == "" && len(formats) > 1 {
		return fmt.Errorf("writing %d formats needs --output", len(formats))
	}

	runner, err := c.newRunner(ctx, cfg.Cache)
	if err != nil {
		return err
	}
	defer runner.Close()

	res, err := c.execute(ctx, runner, cfg.Generate, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	artifacts, err := runner.Render(ctx, res, pipeline.RenderOptions{
		Formats:  formats,
		Detailed: out.detailed,
		Spatial:  out.spatial,
	})
	if err != nil {
		return err
	}

	if out.output == "" {
		data := artifacts[formats[0]]
		if !bytes.HasSuffix(data, []byte("\n")) {
			data = append(data, '\n')
		}
		if _, err := cmd.OutOrStdout().Write(data); err != nil {
			return err
		}
		newPrinter(cmd.ErrOrStderr()).warnings(res)
		return nil
	}

	paths, err := writeArtifacts(artifacts, formats, out.output)
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	p.success("Generated dungeon %s", StyleDim.Render(res.LayoutHash[:12]))
	p.stats(res)
	for _, path := range paths {
		p.file(path)
	}
	p.warnings(res)
	return nil
}
