package mindmap

import (
	"fmt"
	"math"

	"github.com/matzehuels/cortex/pkg/catalog"
)

// Radii are the ring distances: Main from the origin, Sub from the main
// node, Detail from the sub-node.
type Radii struct {
	Main   float64 `json:"main" yaml:"main"`
	Sub    float64 `json:"sub" yaml:"sub"`
	Detail float64 `json:"detail" yaml:"detail"`
}

// DefaultRadii is the reference ring schema.
var DefaultRadii = Radii{Main: 3, Sub: 1.5, Detail: 1}

// DetailStep is the angular spacing, in degrees, between sibling detail nodes.
const DetailStep = 15.0

// DefaultCenterLabel labels the root node when Options.CenterLabel is empty.
const DefaultCenterLabel = "Marketing Strategy"

// SubOffsets are the angular offsets of the focus category's sub-nodes from
// its main node's angle.
var SubOffsets = map[catalog.AttributeName]float64{
	catalog.AttrStrategicImperative: 45,
	catalog.AttrKPIs:                -45,
	catalog.AttrAudiences:           135,
	catalog.AttrMessaging:           -135,
}

// Options configures [Layout]. Zero fields fall back to the defaults.
type Options struct {
	Radii Radii

	// Angles maps category names to their main-node angle in degrees.
	// Categories missing from the table use ReferenceAngle.
	Angles map[string]float64

	// CenterLabel labels the root node.
	CenterLabel string

	// DetailStep overrides the spacing between sibling detail nodes.
	DetailStep float64
}

func (o Options) withDefaults() Options {
	if o.Radii.Main == 0 {
		o.Radii.Main = DefaultRadii.Main
	}
	if o.Radii.Sub == 0 {
		o.Radii.Sub = DefaultRadii.Sub
	}
	if o.Radii.Detail == 0 {
		o.Radii.Detail = DefaultRadii.Detail
	}
	if o.CenterLabel == "" {
		o.CenterLabel = DefaultCenterLabel
	}
	if o.DetailStep == 0 {
		o.DetailStep = DetailStep
	}
	return o
}

// ReferenceAngle is the reference spacing: n categories evenly spread from
// 90°, clockwise. For five categories it yields 90, 18, −54, −126, −198.
func ReferenceAngle(i, n int) float64 {
	if n <= 0 {
		return 90
	}
	return 90 - float64(i)*360/float64(n)
}

// DetailOffset is the angular offset of the i-th of n detail nodes.
func DetailOffset(i, n int, step float64) float64 {
	return (float64(i) - float64(n-1)/2) * step
}

// Layout computes the mind map for focus over the ordered categories.
func Layout(focus string, categories []catalog.CategoryProfile, opts Options) Graph {
	opts = opts.withDefaults()

	g := Graph{Focus: focus}
	g.Nodes = append(g.Nodes, Node{
		ID:      CenterID,
		Label:   opts.CenterLabel,
		Tooltip: centerTooltip(focus, categories),
		Tier:    TierCenter,
	})

	for i, p := range categories {
		angle, ok := opts.Angles[p.Name]
		if !ok {
			angle = ReferenceAngle(i, len(categories))
		}
		x, y := polar(0, 0, opts.Radii.Main, angle)
		main := Node{
			ID:       mainID(p.Name),
			X:        x,
			Y:        y,
			Label:    p.Name,
			Tooltip:  p.StrategicImperative.String(),
			Tier:     TierMain,
			Parent:   CenterID,
			Category: p.Name,
			Angle:    angle,
		}
		g.add(main)

		if p.Name == focus {
			g.expand(main, p, opts)
		}
	}
	return g
}

// expand adds the sub and detail nodes of the focus category.
func (g *Graph) expand(main Node, p catalog.CategoryProfile, opts Options) {
	for _, attr := range p.Attributes() {
		offset := SubOffsets[attr.Name]
		angle := main.Angle + offset
		x, y := polar(main.X, main.Y, opts.Radii.Sub, angle)
		sub := Node{
			ID:        subID(p.Name, attr.Name),
			X:         x,
			Y:         y,
			Label:     attr.Name.Label(),
			Tooltip:   attr.Value.String(),
			Tier:      TierSub,
			Parent:    main.ID,
			Category:  p.Name,
			Attribute: attr.Name,
			Angle:     angle,
			Offset:    offset,
		}
		g.add(sub)

		items := attr.Value.Items()
		for i, item := range items {
			off := DetailOffset(i, len(items), opts.DetailStep)
			dx, dy := polar(sub.X, sub.Y, opts.Radii.Detail, angle+off)
			g.add(Node{
				ID:        detailID(p.Name, attr.Name, i),
				X:         dx,
				Y:         dy,
				Label:     item,
				Tooltip:   item,
				Tier:      TierDetail,
				Parent:    sub.ID,
				Category:  p.Name,
				Attribute: attr.Name,
				Angle:     angle + off,
				Offset:    off,
			})
		}
	}
}

// add appends n and the edge from its parent.
func (g *Graph) add(n Node) {
	g.Nodes = append(g.Nodes, n)
	g.Edges = append(g.Edges, Edge{From: n.Parent, To: n.ID})
}

func centerTooltip(focus string, categories []catalog.CategoryProfile) string {
	for _, p := range categories {
		if p.Name == focus {
			return "Focus: " + focus
		}
	}
	return ""
}

func polar(cx, cy, r, deg float64) (float64, float64) {
	rad := deg * math.Pi / 180
	return cx + r*math.Cos(rad), cy + r*math.Sin(rad)
}

func mainID(category string) string {
	return "main/" + category
}

func subID(category string, attr catalog.AttributeName) string {
	return "sub/" + category + "/" + string(attr)
}

func detailID(category string, attr catalog.AttributeName, i int) string {
	return fmt.Sprintf("detail/%s/%s/%d", category, attr, i)
}
