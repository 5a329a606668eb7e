package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/cortex/pkg/catalog"
	"github.com/matzehuels/cortex/pkg/mindmap"
	"github.com/matzehuels/cortex/pkg/render"
)

// DefaultScale is the number of inches per layout unit.
const DefaultScale = 1.2

// Options configures mind map rendering.
type Options struct {
	// Colors maps category names to Graphviz color names.
	// Categories without an entry use catalog.DefaultColor.
	Colors map[string]string

	// Scale is inches per layout unit. Zero means DefaultScale.
	Scale float64

	// Tooltips adds hover text from the node tooltips.
	Tooltips bool
}

func (o Options) scale() float64 {
	if o.Scale <= 0 {
		return DefaultScale
	}
	return o.Scale
}

func (o Options) color(category string) string {
	if c, ok := o.Colors[category]; ok && c != "" {
		return c
	}
	return catalog.DefaultColor
}

// ToDOT converts a mind map to Graphviz DOT with every node pinned at its
// computed position. The result can be rendered with [RenderSVG],
// [RenderPDF] or [RenderPNG], or with `neato -n` on the command line.
func ToDOT(g mindmap.Graph, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("graph G {\n")
	buf.WriteString("  layout=neato;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  overlap=true;\n")
	buf.WriteString("  splines=line;\n")
	buf.WriteString("  node [fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [color=\"#888888\"];\n")
	buf.WriteString("\n")

	s := opts.scale()
	for _, n := range g.Nodes {
		attrs := []string{
			fmt.Sprintf("label=%q", wrapLabel(n.Label, labelWidth(n.Tier))),
			fmt.Sprintf("pos=\"%.3f,%.3f!\"", n.X*s, n.Y*s),
		}
		attrs = append(attrs, tierAttrs(n, opts)...)
		if opts.Tooltips && n.Tooltip != "" {
			attrs = append(attrs, fmt.Sprintf("tooltip=%q", n.Tooltip))
		}
		fmt.Fprintf(&buf, "  %q [%s];\n", n.ID, strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, e := range g.Edges {
		fmt.Fprintf(&buf, "  %q -- %q;\n", e.From, e.To)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func tierAttrs(n mindmap.Node, opts Options) []string {
	switch n.Tier {
	case mindmap.TierCenter:
		return []string{"shape=ellipse", "style=filled", "fillcolor=\"#333333\"", "fontcolor=white", "fontsize=16"}
	case mindmap.TierMain:
		return []string{"shape=box", "style=\"rounded,filled\"", fmt.Sprintf("fillcolor=%q", opts.color(n.Category)), "fontcolor=white", "fontsize=14"}
	case mindmap.TierSub:
		return []string{"shape=box", "style=rounded", fmt.Sprintf("color=%q", opts.color(n.Category)), "penwidth=2"}
	default:
		return []string{"shape=plaintext", "fontsize=10"}
	}
}

func labelWidth(t mindmap.Tier) int {
	if t == mindmap.TierDetail {
		return 18
	}
	return 24
}

// wrapLabel breaks long labels on word boundaries.
func wrapLabel(s string, width int) string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return s
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if len(line)+1+len(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	lines = append(lines, line)
	return strings.Join(lines, "\n")
}

// RenderSVG renders a DOT graph to SVG using Graphviz's neato engine.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()
	gv.SetLayout(graphviz.NEATO)

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
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.-]+)\s+([0-9.-]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces Graphviz's root element with one that has a
// zero-origin viewBox and matching pixel size.
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

	root := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(root))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// Requires librsvg.
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image.
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
