package mindmap

import (
	"math"

	"github.com/matzehuels/cortex/pkg/catalog"
	"github.com/matzehuels/cortex/pkg/errors"
)

// Tier is the ring a node is drawn on.
type Tier string

// Node tiers from the inside out.
const (
	TierCenter Tier = "center"
	TierMain   Tier = "main"
	TierSub    Tier = "sub"
	TierDetail Tier = "detail"
)

// CenterID is the ID of the root node.
const CenterID = "center"

// Node is a positioned element of the mind map.
type Node struct {
	ID       string  `json:"id" yaml:"id"`
	X        float64 `json:"x" yaml:"x"`
	Y        float64 `json:"y" yaml:"y"`
	Label    string  `json:"label" yaml:"label"`
	Tooltip  string  `json:"tooltip,omitempty" yaml:"tooltip,omitempty"`
	Tier     Tier    `json:"tier" yaml:"tier"`
	Parent   string  `json:"parent,omitempty" yaml:"parent,omitempty"`
	Category string  `json:"category,omitempty" yaml:"category,omitempty"`

	// Attribute is set on sub and detail nodes.
	Attribute catalog.AttributeName `json:"attribute,omitempty" yaml:"attribute,omitempty"`

	// Angle is the direction, in degrees, in which the node was placed
	// relative to its parent (relative to the origin for main nodes).
	Angle float64 `json:"angle" yaml:"angle"`

	// Offset is the angular offset from the parent's base angle.
	Offset float64 `json:"offset,omitempty" yaml:"offset,omitempty"`
}

// Edge connects a node to its parent tier.
type Edge struct {
	From string `json:"from" yaml:"from"`
	To   string `json:"to" yaml:"to"`
}

// Graph is the computed mind map.
type Graph struct {
	Focus string `json:"focus" yaml:"focus"`
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Edges []Edge `json:"edges" yaml:"edges"`
}

// Node returns the node with the given ID.
func (g Graph) Node(id string) (Node, bool) {
	for _, n := range g.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Tier returns the nodes of one tier in layout order.
func (g Graph) Tier(t Tier) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Tier == t {
			out = append(out, n)
		}
	}
	return out
}

// Children returns the nodes whose parent is id, in layout order.
func (g Graph) Children(id string) []Node {
	var out []Node
	for _, n := range g.Nodes {
		if n.Parent == id {
			out = append(out, n)
		}
	}
	return out
}

// Bounds returns the bounding box of all node positions.
// An empty graph has a zero box.
func (g Graph) Bounds() (minX, minY, maxX, maxY float64) {
	if len(g.Nodes) == 0 {
		return 0, 0, 0, 0
	}
	minX, minY = math.Inf(1), math.Inf(1)
	maxX, maxY = math.Inf(-1), math.Inf(-1)
	for _, n := range g.Nodes {
		minX = math.Min(minX, n.X)
		minY = math.Min(minY, n.Y)
		maxX = math.Max(maxX, n.X)
		maxY = math.Max(maxY, n.Y)
	}
	return minX, minY, maxX, maxY
}

// tierDepth orders tiers so that edges can be checked to go one ring outward.
var tierDepth = map[Tier]int{TierCenter: 0, TierMain: 1, TierSub: 2, TierDetail: 3}

// Validate checks that the graph is a tree rooted at the center node: IDs are
// unique, every non-center node has exactly one incoming edge from its
// recorded parent one tier further in, and there are no stray edges.
func (g Graph) Validate() error {
	byID := make(map[string]Node, len(g.Nodes))
	for _, n := range g.Nodes {
		if _, dup := byID[n.ID]; dup {
			return errors.New(errors.ErrCodeInternal, "duplicate node %q", n.ID)
		}
		if _, ok := tierDepth[n.Tier]; !ok {
			return errors.New(errors.ErrCodeInternal, "node %q has unknown tier %q", n.ID, n.Tier)
		}
		byID[n.ID] = n
	}

	center, ok := byID[CenterID]
	if !ok || center.Tier != TierCenter {
		return errors.New(errors.ErrCodeInternal, "missing center node")
	}

	incoming := make(map[string]int, len(g.Nodes))
	for _, e := range g.Edges {
		from, ok := byID[e.From]
		if !ok {
			return errors.New(errors.ErrCodeInternal, "edge from unknown node %q", e.From)
		}
		to, ok := byID[e.To]
		if !ok {
			return errors.New(errors.ErrCodeInternal, "edge to unknown node %q", e.To)
		}
		if tierDepth[to.Tier] != tierDepth[from.Tier]+1 {
			return errors.New(errors.ErrCodeInternal, "edge %s→%s skips a tier", e.From, e.To)
		}
		if to.Parent != from.ID {
			return errors.New(errors.ErrCodeInternal, "edge %s→%s disagrees with parent %q", e.From, e.To, to.Parent)
		}
		incoming[e.To]++
	}

	for id, n := range byID {
		want := 1
		if n.Tier == TierCenter {
			want = 0
		}
		if incoming[id] != want {
			return errors.New(errors.ErrCodeInternal, "node %q has %d parent edges, want %d", id, incoming[id], want)
		}
	}
	return nil
}
