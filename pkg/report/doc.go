// Package report builds marketing plans from user selections and exports
// them.
//
// A [Plan] joins the two engines' outputs with the catalog's static text:
// the objective's profile, the vertical's normalized channel allocation, the
// dollar split of the chosen investment tier, a case study and the
// recommendations triggered by the selected priorities.
//
//	plan, err := report.Build(cat, report.Selections{
//	    Objective:  "Growth",
//	    Vertical:   "Tech",
//	    Stage:      "Growing",
//	    Budget:     "$100K-$250K",
//	    Priorities: []string{"Increase sales volume"},
//	})
//
// # State
//
// There is no package-level session. [Generate] takes the caller's previous
// [State] and returns the next one carrying the rendered plan text, so the
// caller decides where state lives (a file for the CLI, memory or Redis for
// the HTTP server; see package session).
//
// # Export
//
// [Write] encodes a plan as plain text, JSON, YAML, an SVG report sheet or a
// PDF of that sheet. PDF output requires rsvg-convert.
package report
