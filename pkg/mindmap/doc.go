// Package mindmap computes the radial layout of the strategy mind map.
//
// The map is a tree drawn on concentric rings:
//
//   - a center node at the origin,
//   - one main node per business objective on the first ring, each at a
//     fixed angle from the catalog's angle table,
//   - four sub-nodes around the focus objective only, one per profile
//     attribute, at fixed angular offsets from the main node's angle,
//   - detail nodes fanned out around each sub-node: one per list item, or a
//     single one for a scalar attribute.
//
// Only the focus objective is expanded to full depth. An unknown focus
// yields a graph with the center and main nodes only; an empty category list
// yields the center node alone. [Layout] never fails.
//
//	g := mindmap.Layout("Growth", cat.Categories, mindmap.Options{
//	    Angles: cat.AngleTable(),
//	})
//
// # Geometry
//
// Main nodes sit at (R_main·cos θ, R_main·sin θ). A sub-node sits R_sub away
// from its main node in direction θ+offset, with offsets +45° (strategic
// imperative), −45° (KPIs), +135° (audiences) and −135° (messaging). Detail
// nodes sit R_detail away from their sub-node, spread symmetrically around
// the sub-node's direction in steps of 15°: the i-th of n items is offset by
// (i − (n−1)/2)·15°.
//
// All angles are in degrees, counter-clockwise from the positive x axis.
// Layout is deterministic and allocates a fresh graph on every call, so it is
// safe for concurrent use.
package mindmap
