package report

import (
	"strings"

	"github.com/matzehuels/cortex/pkg/allocation"
	"github.com/matzehuels/cortex/pkg/catalog"
	"github.com/matzehuels/cortex/pkg/errors"
)

// Selections are the user's planning choices.
type Selections struct {
	Objective  string   `json:"objective" yaml:"objective"`
	Vertical   string   `json:"vertical" yaml:"vertical"`
	Stage      string   `json:"stage" yaml:"stage"`
	Budget     string   `json:"budget" yaml:"budget"`
	Priorities []string `json:"priorities,omitempty" yaml:"priorities,omitempty"`
}

// Validate checks that the required selections are present. Whether the
// names exist is checked against the catalog by [Build].
func (s Selections) Validate() error {
	for _, f := range []struct{ name, value string }{
		{"objective", s.Objective},
		{"vertical", s.Vertical},
		{"stage", s.Stage},
		{"budget", s.Budget},
	} {
		if strings.TrimSpace(f.value) == "" {
			return errors.New(errors.ErrCodeInvalidInput, "%s is required", f.name)
		}
	}
	return nil
}

// Plan is a complete marketing plan for one set of selections.
type Plan struct {
	CatalogVersion  string                     `json:"catalog_version" yaml:"catalog_version"`
	Selections      Selections                 `json:"selections" yaml:"selections"`
	Profile         catalog.CategoryProfile    `json:"profile" yaml:"profile"`
	Allocation      allocation.Table           `json:"allocation" yaml:"allocation"`
	Investment      allocation.InvestmentRange `json:"investment" yaml:"investment"`
	Budget          allocation.Budget          `json:"budget" yaml:"budget"`
	CaseStudy       string                     `json:"case_study" yaml:"case_study"`
	Recommendations []string                   `json:"recommendations" yaml:"recommendations"`

	// RecommendationFallback is set when no priority triggered a recommendation.
	RecommendationFallback string `json:"recommendation_fallback,omitempty" yaml:"recommendation_fallback,omitempty"`
}

// Row is one line of the allocation section.
type Row struct {
	Channel string  `json:"channel" yaml:"channel"`
	Percent float64 `json:"percent" yaml:"percent"`
	Amount  float64 `json:"amount" yaml:"amount"`
}

// Build computes the plan for sel. Unknown objectives and verticals are
// configuration errors; unknown stages, tiers and priorities are invalid
// input.
func Build(cat *catalog.Catalog, sel Selections) (*Plan, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}

	profile, err := cat.Category(sel.Objective)
	if err != nil {
		return nil, err
	}
	base, err := cat.Vertical(sel.Vertical)
	if err != nil {
		return nil, err
	}
	adj, err := cat.Adjustment(sel.Objective)
	if err != nil {
		return nil, err
	}
	if err := cat.Stage(sel.Stage); err != nil {
		return nil, err
	}
	tier, err := cat.Investment(sel.Budget)
	if err != nil {
		return nil, err
	}
	recs, err := cat.Recommendations(sel.Priorities)
	if err != nil {
		return nil, err
	}

	table := allocation.Normalize(base, adj, cat.DefaultMultiplier)
	p := &Plan{
		CatalogVersion:  cat.Version,
		Selections:      sel,
		Profile:         profile,
		Allocation:      table,
		Investment:      tier,
		Budget:          allocation.Distribute(table, tier),
		CaseStudy:       cat.CaseStudy(sel.Objective, sel.Vertical),
		Recommendations: recs,
	}
	if len(recs) == 0 {
		p.Recommendations = []string{}
		p.RecommendationFallback = cat.NoRecommendations
	}
	return p, nil
}

// Rows returns the allocation joined with the budget, largest share first.
func (p *Plan) Rows() []Row {
	entries := p.Allocation.Entries()
	rows := make([]Row, len(entries))
	for i, e := range entries {
		rows[i] = Row{Channel: e.Channel, Percent: e.Percent, Amount: p.Budget[e.Channel]}
	}
	return rows
}
