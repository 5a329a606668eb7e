package pipeline

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/matzehuels/cortex/pkg/cache"
	"github.com/matzehuels/cortex/pkg/catalog"
	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/mindmap"
	"github.com/matzehuels/cortex/pkg/observability"
	"github.com/matzehuels/cortex/pkg/render/nodelink"
	"github.com/matzehuels/cortex/pkg/session"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(&strings.Builder{}, log.Options{})
}

func growthOpts() Options {
	return Options{
		Objective:  "Growth",
		Vertical:   "Tech",
		Stage:      "Growing",
		Budget:     "$100K-$250K",
		Priorities: []string{"Increase sales volume"},
	}
}

func TestExecute(t *testing.T) {
	store := session.NewMemoryStore()
	r := NewRunner(nil, store, quietLogger())

	opts := growthOpts()
	opts.Mindmap = []string{"dot", "json"}
	opts.Charts = []string{"pie", "radar"}
	opts.Report = []string{"txt", "yaml"}
	opts.Debug = true

	res, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	wantKeys := []string{"mindmap.dot", "mindmap.json", "pie.svg", "radar.svg", "report.txt", "report.yaml"}
	gotKeys := make([]string, 0, len(res.Artifacts))
	for k := range res.Artifacts {
		gotKeys = append(gotKeys, k)
	}
	if diff := cmp.Diff(wantKeys, gotKeys, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Errorf("artifact keys mismatch (-want +got):\n%s", diff)
	}

	if !strings.Contains(string(res.Artifacts["mindmap.dot"]), `"main/Growth"`) {
		t.Error("DOT artifact lacks Growth node")
	}
	var g mindmap.Graph
	if err := json.Unmarshal(res.Artifacts["mindmap.json"], &g); err != nil {
		t.Fatalf("mindmap.json: %v", err)
	}
	if len(g.Nodes) != res.Stats.NodeCount {
		t.Errorf("JSON nodes = %d, want %d", len(g.Nodes), res.Stats.NodeCount)
	}
	if !strings.HasPrefix(string(res.Artifacts["report.txt"]), "Cortex Plan Report") {
		t.Error("report.txt does not start with the report title")
	}

	if res.Stats.ChannelCount != 10 {
		t.Errorf("ChannelCount = %d, want 10", res.Stats.ChannelCount)
	}
	if res.Stats.EdgeCount != res.Stats.NodeCount-1 {
		t.Errorf("EdgeCount = %d, want %d", res.Stats.EdgeCount, res.Stats.NodeCount-1)
	}

	saved, err := store.Get(context.Background(), res.State.ID)
	if err != nil {
		t.Fatalf("state not saved: %v", err)
	}
	if saved.FinalPlan != res.State.FinalPlan {
		t.Error("saved FinalPlan differs from result")
	}
}

func TestExecuteRegeneratesPlan(t *testing.T) {
	store := session.NewMemoryStore()
	r := NewRunner(nil, store, quietLogger())
	ctx := context.Background()

	first, err := r.Execute(ctx, growthOpts())
	if err != nil {
		t.Fatal(err)
	}

	opts := growthOpts()
	opts.PlanID = first.State.ID
	opts.Objective = "Loyalty"
	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatal(err)
	}
	if second.State.ID != first.State.ID {
		t.Errorf("regenerated ID = %q, want %q", second.State.ID, first.State.ID)
	}
	if store.Len() != 1 {
		t.Errorf("store has %d plans, want 1", store.Len())
	}

	opts.PlanID = "does-not-exist"
	if _, err := r.Execute(ctx, opts); !errors.Is(err, errors.ErrCodePlanNotFound) {
		t.Errorf("Execute() with unknown plan ID error = %v, want %s", err, errors.ErrCodePlanNotFound)
	}
}

func TestExecuteWithoutStore(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	res, err := r.Execute(context.Background(), growthOpts())
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.State.ID == "" {
		t.Error("state has no ID")
	}
	if len(res.Artifacts) != 0 {
		t.Errorf("artifacts = %d, want none", len(res.Artifacts))
	}
	if _, err := r.LoadState(context.Background(), ""); !errors.Is(err, errors.ErrCodeUnsupported) {
		t.Errorf("LoadState() without store error = %v", err)
	}
}

func TestExecuteConfigurationError(t *testing.T) {
	r := NewRunner(nil, session.NewMemoryStore(), quietLogger())
	opts := growthOpts()
	opts.Vertical = "Mining"
	_, err := r.Execute(context.Background(), opts)
	if !errors.IsConfiguration(err) {
		t.Errorf("Execute() error = %v, want configuration error", err)
	}
}

func TestLayoutUnknownObjective(t *testing.T) {
	var logs strings.Builder
	r := NewRunner(nil, nil, log.NewWithOptions(&logs, log.Options{}))

	g, err := r.Layout(context.Background(), "Retention", Options{Debug: true})
	if err != nil {
		t.Fatalf("Layout() error = %v", err)
	}
	if len(g.Tier(mindmap.TierSub)) != 0 {
		t.Error("unknown objective was expanded")
	}
	if len(g.Nodes) != 1+len(r.Catalog.Categories) {
		t.Errorf("nodes = %d, want center + mains", len(g.Nodes))
	}
	if !strings.Contains(logs.String(), "objective not in catalog") {
		t.Errorf("no warning logged: %q", logs.String())
	}
}

func TestAllocate(t *testing.T) {
	r := NewRunner(nil, nil, quietLogger())
	ctx := context.Background()

	a, err := r.Allocate(ctx, "CPG", "Awareness", "")
	if err != nil {
		t.Fatalf("Allocate() error = %v", err)
	}
	if !cmp.Equal(a.Table.Total(), 100.0, cmpopts.EquateApprox(0, 1e-6)) {
		t.Errorf("Total() = %v, want 100", a.Table.Total())
	}
	if a.Investment != nil || a.Budget != nil {
		t.Error("budget computed without a tier")
	}

	a, err = r.Allocate(ctx, "CPG", "Awareness", "$50K-$100K")
	if err != nil {
		t.Fatal(err)
	}
	if !cmp.Equal(a.Budget.Total(), 75000.0, cmpopts.EquateApprox(0, 1e-6)) {
		t.Errorf("Budget.Total() = %v, want 75000", a.Budget.Total())
	}

	tests := []struct {
		vertical, objective, budget string
		code                        errors.Code
	}{
		{"Mining", "Growth", "", errors.ErrCodeConfiguration},
		{"CPG", "Retention", "", errors.ErrCodeConfiguration},
		{"CPG", "Growth", "$1B", errors.ErrCodeInvalidInput},
	}
	for _, tt := range tests {
		if _, err := r.Allocate(ctx, tt.vertical, tt.objective, tt.budget); !errors.Is(err, tt.code) {
			t.Errorf("Allocate(%q, %q, %q) error = %v, want %s", tt.vertical, tt.objective, tt.budget, err, tt.code)
		}
	}
}

func TestRenderCharts(t *testing.T) {
	cat := catalog.Default()
	base, _ := cat.Vertical("Retail")
	got := RenderCharts(base, "Retail", []string{"pie", "unknown"})
	if len(got) != 1 || got["pie.svg"] == nil {
		t.Errorf("RenderCharts() keys = %v, want [pie.svg]", got)
	}
}

type countingHooks struct {
	observability.NoopPipelineHooks
	mu     sync.Mutex
	events []string
}

func (h *countingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *countingHooks) OnPlanStart(context.Context, string, string) { h.record("plan") }
func (h *countingHooks) OnLayoutStart(context.Context, string, int)  { h.record("layout") }
func (h *countingHooks) OnRenderStart(context.Context, []string)     { h.record("render") }
func (h *countingHooks) OnAllocate(context.Context, string, string, int, time.Duration, error) {
	h.record("allocate")
}

func TestExecuteCallsHooks(t *testing.T) {
	hooks := &countingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	r := NewRunner(nil, nil, quietLogger())
	opts := growthOpts()
	opts.Charts = []string{"pie"}
	if _, err := r.Execute(context.Background(), opts); err != nil {
		t.Fatal(err)
	}
	if _, err := r.Allocate(context.Background(), "CPG", "Growth", ""); err != nil {
		t.Fatal(err)
	}

	want := []string{"plan", "layout", "render", "allocate"}
	if diff := cmp.Diff(want, hooks.events); diff != "" {
		t.Errorf("hook events mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderMindmapUsesCache(t *testing.T) {
	ctx := context.Background()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	r := NewRunner(nil, nil, quietLogger())
	r.Cache = c

	g, err := r.Layout(ctx, "Growth", Options{})
	if err != nil {
		t.Fatal(err)
	}
	dot := nodelink.ToDOT(g, nodelink.Options{Colors: r.Catalog.Colors})
	if err := c.Set(ctx, MindmapCacheKey(dot, FormatSVG, 0), []byte("<svg>cached</svg>"), 0); err != nil {
		t.Fatal(err)
	}

	artifacts, err := r.RenderMindmap(ctx, g, Options{Mindmap: []string{FormatSVG, FormatDOT}})
	if err != nil {
		t.Fatalf("RenderMindmap() error = %v", err)
	}
	if got := string(artifacts["mindmap.svg"]); got != "<svg>cached</svg>" {
		t.Errorf("mindmap.svg = %q, want the cached artifact", got)
	}
	if got := string(artifacts["mindmap.dot"]); got != dot {
		t.Error("mindmap.dot differs from ToDOT output")
	}
}

func TestMindmapCacheKey(t *testing.T) {
	if MindmapCacheKey("graph G {}", FormatPNG, 2) == MindmapCacheKey("graph G {}", FormatPNG, 3) {
		t.Error("PNG scale does not affect the cache key")
	}
	if MindmapCacheKey("graph G {}", FormatSVG, 0) == MindmapCacheKey("graph G { a }", FormatSVG, 0) {
		t.Error("DOT source does not affect the cache key")
	}
}
