package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/matzehuels/cortex/pkg/catalog"
)

// State is the caller-owned record of the last generated plan.
type State struct {
	ID             string     `json:"id" yaml:"id"`
	Selections     Selections `json:"selections" yaml:"selections"`
	FinalPlan      string     `json:"final_plan" yaml:"final_plan"`
	CatalogVersion string     `json:"catalog_version,omitempty" yaml:"catalog_version,omitempty"`
	GeneratedAt    time.Time  `json:"generated_at" yaml:"generated_at"`
}

// IsZero reports whether no plan has been generated yet.
func (s State) IsZero() bool {
	return s.ID == "" && s.FinalPlan == ""
}

// NewID returns a fresh plan ID.
func NewID() string {
	return uuid.NewString()
}

// Generate builds the plan for sel and returns the state that follows prev.
// The ID of prev is kept so that regenerating a plan overwrites it in the
// caller's store; a zero prev gets a new ID. On error prev is returned
// unchanged.
func Generate(cat *catalog.Catalog, prev State, sel Selections) (State, *Plan, error) {
	plan, err := Build(cat, sel)
	if err != nil {
		return prev, nil, err
	}
	text, err := Text(plan)
	if err != nil {
		return prev, nil, err
	}

	id := prev.ID
	if id == "" {
		id = NewID()
	}
	return State{
		ID:             id,
		Selections:     sel,
		FinalPlan:      text,
		CatalogVersion: cat.Version,
		GeneratedAt:    time.Now().UTC(),
	}, plan, nil
}
