package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/cortex/pkg/allocation"
	"github.com/matzehuels/cortex/pkg/cache"
	"github.com/matzehuels/cortex/pkg/catalog"
	"github.com/matzehuels/cortex/pkg/errors"
	"github.com/matzehuels/cortex/pkg/mindmap"
	"github.com/matzehuels/cortex/pkg/observability"
	"github.com/matzehuels/cortex/pkg/report"
	"github.com/matzehuels/cortex/pkg/session"
)

// Runner executes the planning pipeline over one catalog.
//
// The Runner holds no per-run state. Multiple goroutines can safely use the
// same Runner with different options; plan state is read from and written to
// the Store, which may be nil to disable persistence. Rendered mind maps
// are memoized in Cache when it is set.
type Runner struct {
	Catalog *catalog.Catalog
	Store   session.Store
	Cache   cache.Cache
	Logger  *log.Logger
}

// NewRunner creates a runner. A nil catalog means the embedded default
// catalog; a nil logger means log.Default().
func NewRunner(cat *catalog.Catalog, store session.Store, logger *log.Logger) *Runner {
	if cat == nil {
		cat = catalog.Default()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Catalog: cat,
		Store:   store,
		Logger:  logger,
	}
}

// Execute runs the complete plan → layout → render pipeline and saves the
// resulting plan state.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Plan
	prev, err := r.previousState(ctx, opts.PlanID)
	if err != nil {
		return nil, err
	}
	planStart := time.Now()
	sel := opts.Selections()
	observability.Pipeline().OnPlanStart(ctx, sel.Objective, sel.Vertical)
	st, plan, err := report.Generate(r.Catalog, prev, sel)
	result.Stats.PlanTime = time.Since(planStart)
	observability.Pipeline().OnPlanComplete(ctx, sel.Objective, sel.Vertical, result.Stats.PlanTime, err)
	if err != nil {
		return nil, fmt.Errorf("plan: %w", err)
	}
	result.Plan = plan
	result.State = st
	result.Stats.ChannelCount = len(plan.Allocation)

	r.Logger.Info("built plan",
		"id", st.ID,
		"objective", sel.Objective,
		"vertical", sel.Vertical,
		"channels", len(plan.Allocation),
		"duration", result.Stats.PlanTime)

	// Stage 2: Layout
	layoutStart := time.Now()
	g, err := r.Layout(ctx, opts.Objective, opts)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	result.Graph = g
	result.Stats.LayoutTime = time.Since(layoutStart)
	result.Stats.NodeCount = len(g.Nodes)
	result.Stats.EdgeCount = len(g.Edges)

	r.Logger.Info("computed layout",
		"nodes", len(g.Nodes),
		"edges", len(g.Edges),
		"duration", result.Stats.LayoutTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, err := r.Render(ctx, plan, g, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)

	if len(artifacts) > 0 {
		r.Logger.Info("rendered outputs",
			"artifacts", opts.ArtifactKeys(),
			"duration", result.Stats.RenderTime)
	}

	if err := r.SaveState(ctx, st); err != nil {
		return nil, err
	}
	return result, nil
}

// Layout computes the mind map for focus. An objective the catalog does
// not know yields the main-only graph.
func (r *Runner) Layout(ctx context.Context, focus string, opts Options) (mindmap.Graph, error) {
	r.applyLogger(&opts)
	opts.SetLayoutDefaults()

	observability.Pipeline().OnLayoutStart(ctx, focus, len(r.Catalog.Categories))
	start := time.Now()

	if _, err := r.Catalog.Category(focus); err != nil {
		opts.Logger.Warn("objective not in catalog, laying out main nodes only", "objective", focus)
	}
	g := mindmap.Layout(focus, r.Catalog.Categories, opts.layoutOptions(r.Catalog.AngleTable()))

	var err error
	if opts.Debug {
		err = g.Validate()
	}
	observability.Pipeline().OnLayoutComplete(ctx, focus, len(g.Nodes), time.Since(start), err)
	if err != nil {
		return mindmap.Graph{}, err
	}
	return g, nil
}

// Allocation is a normalized channel mix and, when a tier was given, its
// dollar split.
type Allocation struct {
	Vertical   string                      `json:"vertical"`
	Objective  string                      `json:"objective"`
	Table      allocation.Table            `json:"allocation"`
	Investment *allocation.InvestmentRange `json:"investment,omitempty"`
	Budget     allocation.Budget           `json:"budget,omitempty"`
}

// Allocate normalizes the vertical's channel mix for objective. Budget is
// an investment tier name and may be empty.
func (r *Runner) Allocate(ctx context.Context, vertical, objective, budget string) (*Allocation, error) {
	start := time.Now()
	a, err := r.allocate(vertical, objective, budget)
	channels := 0
	if a != nil {
		channels = len(a.Table)
	}
	observability.Pipeline().OnAllocate(ctx, vertical, objective, channels, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	r.Logger.Debug("normalized allocation", "vertical", vertical, "objective", objective, "channels", channels)
	return a, nil
}

func (r *Runner) allocate(vertical, objective, budget string) (*Allocation, error) {
	if _, err := r.Catalog.Category(objective); err != nil {
		return nil, err
	}
	base, err := r.Catalog.Vertical(vertical)
	if err != nil {
		return nil, err
	}
	adj, err := r.Catalog.Adjustment(objective)
	if err != nil {
		return nil, err
	}

	a := &Allocation{
		Vertical:  vertical,
		Objective: objective,
		Table:     allocation.Normalize(base, adj, r.Catalog.DefaultMultiplier),
	}
	if budget != "" {
		tier, err := r.Catalog.Investment(budget)
		if err != nil {
			return nil, err
		}
		a.Investment = &tier
		a.Budget = allocation.Distribute(a.Table, tier)
	}
	return a, nil
}

// LoadState returns a saved plan state, or the latest one when id is empty.
func (r *Runner) LoadState(ctx context.Context, id string) (report.State, error) {
	if r.Store == nil {
		return report.State{}, errors.New(errors.ErrCodeUnsupported, "no plan store configured")
	}
	var (
		st  report.State
		err error
	)
	if id == "" {
		st, err = r.Store.Latest(ctx)
	} else {
		st, err = r.Store.Get(ctx, id)
	}
	backend := session.Backend(r.Store)
	switch {
	case err == nil:
		observability.Store().OnStoreHit(ctx, backend)
	case errors.Is(err, errors.ErrCodePlanNotFound):
		observability.Store().OnStoreMiss(ctx, backend)
	}
	return st, err
}

// SaveState persists a plan state. It is a no-op without a store.
func (r *Runner) SaveState(ctx context.Context, st report.State) error {
	if r.Store == nil {
		return nil
	}
	if err := r.Store.Set(ctx, st); err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	observability.Store().OnStoreSet(ctx, session.Backend(r.Store), len(st.FinalPlan))
	r.Logger.Debug("saved plan", "id", st.ID, "backend", session.Backend(r.Store))
	return nil
}

// previousState loads the state a run with the given plan ID replaces.
func (r *Runner) previousState(ctx context.Context, id string) (report.State, error) {
	if id == "" {
		return report.State{}, nil
	}
	if r.Store == nil {
		return report.State{ID: id}, nil
	}
	return r.LoadState(ctx, id)
}

// Close releases the cache and the store.
func (r *Runner) Close() error {
	if r.Cache != nil {
		if err := r.Cache.Close(); err != nil {
			return err
		}
	}
	if r.Store != nil {
		return r.Store.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
