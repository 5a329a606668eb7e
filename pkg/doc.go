// Package pkg holds the libraries behind the cortex marketing-strategy
// planner.
//
// # Overview
//
// A plan is built from four selections (business objective, industry
// vertical, brand lifecycle stage, investment level) plus optional
// marketing priorities. The packages split that work into:
//
//  1. [catalog] - the versioned TOML catalog of objectives, channel mixes,
//     adjustment factors, investment tiers, priorities and case studies
//  2. [mindmap] - the radial strategy mind map (pure layout)
//  3. [allocation] - channel mix normalization and budget distribution
//  4. [report] - the plan, its text report and exports, and plan state
//  5. [render] - DOT/Graphviz mind maps, SVG charts and SVG→PDF/PNG
//  6. [session] and [cache] - plan state stores and the render cache
//  7. [pipeline] - orchestration (plan → layout → render)
//
// # Data Flow
//
//	selections
//	     ↓
//	[catalog] lookups ──→ [allocation] normalize + distribute
//	     ↓                          ↓
//	[mindmap] layout          [report] plan text + state
//	     ↓                          ↓
//	[render] DOT/SVG/PDF      [session] store
//
// # Quick Start
//
//	cat := catalog.Default()
//	g := mindmap.Layout("Growth", cat.Categories, mindmap.Options{
//	    Angles: cat.AngleTable(),
//	})
//
//	base, _ := cat.Vertical("Tech")
//	adj, _ := cat.Adjustment("Growth")
//	mix := allocation.Normalize(base, adj, cat.DefaultMultiplier)
//
// Most callers go through [pipeline.Runner], which the CLI and the HTTP
// server share.
package pkg
