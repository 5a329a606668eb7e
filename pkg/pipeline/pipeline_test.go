package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/mindmap"
)

func TestValidateMindmapFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", false},
		{"txt", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateMindmapFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateMindmapFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
		if tt.wantErr && !errors.Is(err, errors.ErrCodeInvalidFormat) {
			t.Errorf("ValidateMindmapFormat(%q) code = %s", tt.format, errors.GetCode(err))
		}
	}
}

func TestValidateChart(t *testing.T) {
	tests := []struct {
		kind    string
		wantErr bool
	}{
		{"pie", false},
		{"radar", false},
		{"bar", true},
		{"", true},
	}
	for _, tt := range tests {
		if err := ValidateChart(tt.kind); (err != nil) != tt.wantErr {
			t.Errorf("ValidateChart(%q) error = %v, wantErr %v", tt.kind, err, tt.wantErr)
		}
	}
}

func TestValidateReportFormat(t *testing.T) {
	for _, f := range []string{"txt", "json", "yaml", "svg", "pdf"} {
		if err := ValidateReportFormat(f); err != nil {
			t.Errorf("ValidateReportFormat(%q) error = %v", f, err)
		}
	}
	if err := ValidateReportFormat("docx"); err == nil {
		t.Error("ValidateReportFormat(docx) should fail")
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	opts := Options{
		Objective: "Growth",
		Vertical:  "Tech",
		Budget:    "$100K-$250K",
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error = %v", err)
	}
	if opts.Stage != DefaultStage {
		t.Errorf("Stage = %q, want %q", opts.Stage, DefaultStage)
	}
	if opts.Radii != mindmap.DefaultRadii {
		t.Errorf("Radii = %+v, want %+v", opts.Radii, mindmap.DefaultRadii)
	}
	if opts.CenterLabel != mindmap.DefaultCenterLabel {
		t.Errorf("CenterLabel = %q", opts.CenterLabel)
	}
	if opts.Scale != DefaultPNGScale {
		t.Errorf("Scale = %v, want %v", opts.Scale, DefaultPNGScale)
	}
	if opts.Logger == nil {
		t.Error("Logger not defaulted")
	}

	// Idempotent.
	before := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Stage != before.Stage || opts.Radii != before.Radii {
		t.Error("second ValidateAndSetDefaults() changed options")
	}
}

func TestValidateAndSetDefaultsErrors(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing objective", Options{Vertical: "Tech", Budget: "x"}, errors.ErrCodeInvalidInput},
		{"missing budget", Options{Objective: "Growth", Vertical: "Tech"}, errors.ErrCodeInvalidInput},
		{"bad plan id", Options{Objective: "Growth", Vertical: "Tech", Budget: "x", PlanID: "../x"}, errors.ErrCodeInvalidInput},
		{"bad mindmap format", Options{Objective: "Growth", Vertical: "Tech", Budget: "x", Mindmap: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad chart", Options{Objective: "Growth", Vertical: "Tech", Budget: "x", Charts: []string{"bar"}}, errors.ErrCodeInvalidFormat},
		{"bad report", Options{Objective: "Growth", Vertical: "Tech", Budget: "x", Report: []string{"doc"}}, errors.ErrCodeInvalidFormat},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestArtifactKeys(t *testing.T) {
	opts := Options{
		Mindmap: []string{"svg", "dot"},
		Charts:  []string{"pie"},
		Report:  []string{"txt"},
	}
	want := []string{"mindmap.svg", "mindmap.dot", "pie.svg", "report.txt"}
	if diff := cmp.Diff(want, opts.ArtifactKeys()); diff != "" {
		t.Errorf("ArtifactKeys() mismatch (-want +got):\n%s", diff)
	}
}

func TestSelectionsCopiesPriorities(t *testing.T) {
	opts := Options{Priorities: []string{"Boost retention"}}
	sel := opts.Selections()
	sel.Priorities[0] = "changed"
	if opts.Priorities[0] != "Boost retention" {
		t.Error("Selections() aliased the priorities slice")
	}
}
