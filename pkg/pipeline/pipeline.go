// Package pipeline runs the complete planning flow for cortex.
//
// One run takes a set of selections through three stages:
//
//  1. Plan: build the plan (allocation, budget, profile, recommendations)
//     and the next plan state
//  2. Layout: compute the radial mind map for the chosen objective
//  3. Render: produce the requested artifacts (mind map, charts, report)
//
// The CLI and the HTTP server both go through a [Runner] so that defaults,
// validation, logging and hooks are the same on every entry point. The
// stages are also exposed individually ([Runner.Layout], [Runner.Allocate],
// [Runner.Render]) for commands that need only one of them.
//
// # Usage
//
//	runner := pipeline.NewRunner(cat, store, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Objective: "Growth",
//	    Vertical:  "Tech",
//	    Stage:     "Growing",
//	    Budget:    "$100K-$250K",
//	    Mindmap:   []string{"svg"},
//	    Report:    []string{"txt", "pdf"},
//	})
//	svg := result.Artifacts["mindmap.svg"]
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/mindmap"
	"github.com/matzehuels/cortex/pkg/render/chart"
	"github.com/matzehuels/cortex/pkg/report"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and API
// =============================================================================

const (
	// DefaultStage is used when no lifecycle stage is selected.
	DefaultStage = "Growing"

	// DefaultPNGScale is the PNG resolution multiplier.
	DefaultPNGScale = 2.0
)

// Mind map formats.
const (
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
	FormatPDF  = "pdf"
	FormatJSON = "json"
)

// ValidMindmapFormats is the set of supported mind map outputs.
var ValidMindmapFormats = map[string]bool{
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
	FormatPDF:  true,
	FormatJSON: true,
}

// Artifact kinds, used as the first half of artifact keys.
const (
	KindMindmap = "mindmap"
	KindReport  = "report"
)

// ArtifactKey names an artifact in Result.Artifacts, e.g. "mindmap.svg",
// "pie.svg" or "report.txt".
func ArtifactKey(kind, format string) string {
	return kind + "." + format
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for one planning run.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Selections
	Objective  string   `json:"objective"`
	Vertical   string   `json:"vertical"`
	Stage      string   `json:"stage,omitempty"`
	Budget     string   `json:"budget"`
	Priorities []string `json:"priorities,omitempty"`

	// PlanID regenerates an existing plan in place.
	PlanID string `json:"plan_id,omitempty"`

	// Layout options
	Radii       mindmap.Radii `json:"radii,omitempty"`
	CenterLabel string        `json:"center_label,omitempty"`

	// Render options
	Mindmap  []string `json:"mindmap,omitempty"` // dot, svg, png, pdf, json
	Charts   []string `json:"charts,omitempty"`  // pie, radar
	Report   []string `json:"report,omitempty"`  // txt, json, yaml, svg, pdf
	Scale    float64  `json:"scale,omitempty"`
	Tooltips bool     `json:"tooltips,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	Debug  bool        `json:"-"` // validate layout invariants after computing

	validated bool
}

// Selections returns the report selections carried by the options.
func (o *Options) Selections() report.Selections {
	return report.Selections{
		Objective:  o.Objective,
		Vertical:   o.Vertical,
		Stage:      o.Stage,
		Budget:     o.Budget,
		Priorities: slices.Clone(o.Priorities),
	}
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Plan is the computed marketing plan.
	Plan *report.Plan

	// State is the plan state that followed the run.
	State report.State

	// Graph is the mind map for the plan's objective.
	Graph mindmap.Graph

	// Artifacts contains rendered outputs keyed by ArtifactKey.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	NodeCount    int           `json:"nodes"`
	EdgeCount    int           `json:"edges"`
	ChannelCount int           `json:"channels"`
	PlanTime     time.Duration `json:"plan_ns"`
	LayoutTime   time.Duration `json:"layout_ns"`
	RenderTime   time.Duration `json:"render_ns"`
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateMindmapFormat checks that a mind map format is valid.
func ValidateMindmapFormat(format string) error {
	if !ValidMindmapFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid mind map format: %q (must be one of: dot, svg, png, pdf, json)", format)
	}
	return nil
}

// ValidateChart checks that a chart kind is valid.
func ValidateChart(kind string) error {
	if !chart.ValidKinds[chart.Kind(kind)] {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid chart: %q (must be one of: pie, radar)", kind)
	}
	return nil
}

// ValidateReportFormat checks that a report format is valid.
func ValidateReportFormat(format string) error {
	if !report.ValidFormats[report.Format(format)] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid report format: %q (must be one of: txt, json, yaml, svg, pdf)", format)
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the
// full pipeline. It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForPlan(); err != nil {
		return err
	}
	o.SetLayoutDefaults()
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForPlan checks the selections and applies their defaults.
func (o *Options) ValidateForPlan() error {
	if o.Stage == "" {
		o.Stage = DefaultStage
	}
	if o.PlanID != "" {
		if err := errors.ValidatePlanID(o.PlanID); err != nil {
			return err
		}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if err := o.Selections().Validate(); err != nil {
		return fmt.Errorf("selections: %w", err)
	}
	return nil
}

// SetLayoutDefaults fills in the ring schema.
func (o *Options) SetLayoutDefaults() {
	if o.Radii == (mindmap.Radii{}) {
		o.Radii = mindmap.DefaultRadii
	}
	if o.CenterLabel == "" {
		o.CenterLabel = mindmap.DefaultCenterLabel
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.Scale <= 0 {
		o.Scale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates the requested artifacts and sets render defaults.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	for _, f := range o.Mindmap {
		if err := ValidateMindmapFormat(f); err != nil {
			return err
		}
	}
	for _, c := range o.Charts {
		if err := ValidateChart(c); err != nil {
			return err
		}
	}
	for _, f := range o.Report {
		if err := ValidateReportFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ArtifactKeys lists the artifacts the options will produce, in render order.
func (o *Options) ArtifactKeys() []string {
	var keys []string
	for _, f := range o.Mindmap {
		keys = append(keys, ArtifactKey(KindMindmap, f))
	}
	for _, c := range o.Charts {
		keys = append(keys, ArtifactKey(c, FormatSVG))
	}
	for _, f := range o.Report {
		keys = append(keys, ArtifactKey(KindReport, f))
	}
	return keys
}

// layoutOptions converts to engine options with the catalog's angle table.
func (o *Options) layoutOptions(angles map[string]float64) mindmap.Options {
	return mindmap.Options{
		Radii:       o.Radii,
		Angles:      angles,
		CenterLabel: o.CenterLabel,
	}
}
