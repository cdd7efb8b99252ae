package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/Wesbraak3/Dungeon-Generator/pkg/dungeon"
)

// Options configures room graph rendering.
type Options struct {
	// Detailed includes room bounds and door rectangles in labels.
	// When false, only handles are shown.
	Detailed bool

	// Spatial pins every room node at its center so the diagram follows
	// the map. Graphviz then lays out with neato instead of dot.
	Spatial bool

	// Scale converts map units to points when Spatial is set. Zero means 10.
	Scale float64
}

// ToDOT converts the room/door graph of d to Graphviz DOT. The result can
// be rendered with [RenderSVG].
//
// Locked doors are drawn dashed in red.
func ToDOT(d *dungeon.Dungeon, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	if opts.Spatial {
		buf.WriteString("  layout=neato;\n")
	}
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  edge [fontsize=10];\n")
	buf.WriteString("\n")

	scale := opts.Scale
	if scale == 0 {
		scale = 10
	}
	for _, r := range d.Rooms() {
		attrs := roomAttrs(r, opts.Detailed)
		if opts.Spatial {
			cx, cy := r.Bounds.Center()
			// Graphviz y grows upward.
			attrs = append(attrs, fmt.Sprintf("pos=\"%.1f,%.1f!\"", cx*scale, -cy*scale))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", nodeID(r.ID), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, door := range d.Doors() {
		fmt.Fprintf(&buf, "  %q -- %q [%s];\n", nodeID(door.A), nodeID(door.B), strings.Join(doorAttrs(door, opts.Detailed), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeID(id dungeon.RoomID) string { return "r" + strconv.Itoa(int(id)) }

func roomLabel(r dungeon.Room, detailed bool) string {
	id := strconv.Itoa(int(r.ID))
	if !detailed {
		return id
	}
	return fmt.Sprintf("%s\n%s\narea: %d", id, r.Bounds, r.Area())
}

func roomAttrs(r dungeon.Room, detailed bool) []string {
	return []string{fmt.Sprintf("label=%q", roomLabel(r, detailed))}
}

func doorAttrs(door dungeon.Door, detailed bool) []string {
	label := strconv.Itoa(int(door.ID))
	if detailed {
		label += " " + door.Bounds.String()
	}
	attrs := []string{fmt.Sprintf("label=%q", label)}
	if door.Locked {
		attrs = append(attrs, "style=dashed", "color=red")
	}
	return attrs
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="(-?[0-9.]+)\s+(-?[0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the root element with an origin-based viewBox
// and explicit pixel size.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}
