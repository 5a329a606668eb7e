package nodelink

import (
	"context"
	"strings"
	"testing"

	"github.com/matzehuels/cortex/pkg/catalog"
	"github.com/matzehuels/cortex/pkg/mindmap"
)

func growthGraph() (mindmap.Graph, *catalog.Catalog) {
	cat := catalog.Default()
	return mindmap.Layout("Growth", cat.Categories, mindmap.Options{Angles: cat.AngleTable()}), cat
}

func TestToDOT_Basic(t *testing.T) {
	g, cat := growthGraph()
	dot := ToDOT(g, Options{Colors: cat.Colors})

	for _, want := range []string{
		"graph G {",
		"layout=neato;",
		`"center"`,
		`"main/Growth" [`,
		`"center" -- "main/Growth";`,
		`"main/Growth" -- "sub/Growth/kpis";`,
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("ToDOT() output missing %q", want)
		}
	}
	if got := strings.Count(dot, " -- "); got != len(g.Edges) {
		t.Errorf("edge count = %d, want %d", got, len(g.Edges))
	}
}

func TestToDOT_PinnedPositions(t *testing.T) {
	g, _ := growthGraph()

	dot := ToDOT(g, Options{Scale: 1})
	if !strings.Contains(dot, `pos="2.853,0.927!"`) {
		t.Error("ToDOT() did not pin Growth at (2.853, 0.927)")
	}
	if !strings.Contains(dot, `pos="0.000,0.000!"`) {
		t.Error("ToDOT() did not pin center at origin")
	}

	dot = ToDOT(g, Options{Scale: 2})
	if !strings.Contains(dot, `pos="0.000,6.000!"`) {
		t.Error("ToDOT() ignored scale for Awareness")
	}
}

func TestToDOT_Colors(t *testing.T) {
	g, cat := growthGraph()

	dot := ToDOT(g, Options{Colors: cat.Colors})
	if !strings.Contains(dot, `fillcolor="green"`) {
		t.Error("Growth main node not filled green")
	}
	if !strings.Contains(dot, `color="green", penwidth=2`) {
		t.Error("Growth sub node not outlined green")
	}

	dot = ToDOT(g, Options{})
	if !strings.Contains(dot, `fillcolor="black"`) {
		t.Error("missing colors did not fall back to black")
	}
}

func TestToDOT_Tooltips(t *testing.T) {
	g, _ := growthGraph()

	if dot := ToDOT(g, Options{}); strings.Contains(dot, "tooltip=") {
		t.Error("tooltips emitted when disabled")
	}
	dot := ToDOT(g, Options{Tooltips: true})
	if !strings.Contains(dot, `tooltip="Maximize purchase volume"`) {
		t.Error("main tooltip missing")
	}
}

func TestWrapLabel(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{"KPIs", 10, "KPIs"},
		{"", 10, ""},
		{"Customer acquisition costs (CAC)", 18, "Customer\nacquisition costs\n(CAC)"},
		{"Highlight key value propositions", 24, "Highlight key value\npropositions"},
	}
	for _, tt := range tests {
		if got := wrapLabel(tt.in, tt.width); got != tt.want {
			t.Errorf("wrapLabel(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestNormalizeViewBox(t *testing.T) {
	in := []byte(`<svg width="100pt" height="50pt" viewBox="0.00 0.00 100.00 50.00" xmlns="http://www.w3.org/2000/svg"><g/></svg>`)
	out := string(normalizeViewBox(in))
	if !strings.Contains(out, `viewBox="0 0 100.00 50.00" width="100" height="50"`) {
		t.Errorf("normalizeViewBox() = %s", out)
	}

	plain := []byte(`<svg><g/></svg>`)
	if got := normalizeViewBox(plain); string(got) != string(plain) {
		t.Errorf("normalizeViewBox() changed svg without viewBox: %s", got)
	}
}

func TestRenderSVG(t *testing.T) {
	g, cat := growthGraph()
	svg, err := RenderSVG(context.Background(), ToDOT(g, Options{Colors: cat.Colors}))
	if err != nil {
		t.Fatalf("RenderSVG() error = %v", err)
	}
	if !strings.Contains(string(svg), "<svg") {
		t.Error("RenderSVG() output is not SVG")
	}
	if !strings.Contains(string(svg), "Growth") {
		t.Error("RenderSVG() output lacks Growth label")
	}
}
