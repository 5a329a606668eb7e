package catalog

import (
	"maps"
	"slices"

	"github.com/matzehuels/cortex/pkg/allocation"
	"github.com/matzehuels/cortex/pkg/errors"
)

// DefaultColor is used for categories without a configured display color.
const DefaultColor = "black"

// CategoryProfile is the static description of one business objective.
type CategoryProfile struct {
	Name                string    `json:"name" yaml:"name"`
	StrategicImperative Attribute `json:"strategic_imperative" yaml:"strategic_imperative"`
	KPIs                Attribute `json:"kpis" yaml:"kpis"`
	Audiences           Attribute `json:"audiences" yaml:"audiences"`
	Messaging           Attribute `json:"messaging" yaml:"messaging"`
}

// NamedAttribute pairs an attribute with its name.
type NamedAttribute struct {
	Name  AttributeName
	Value Attribute
}

// Attributes returns the profile's attributes in canonical order.
func (p CategoryProfile) Attributes() []NamedAttribute {
	return []NamedAttribute{
		{AttrStrategicImperative, p.StrategicImperative},
		{AttrKPIs, p.KPIs},
		{AttrAudiences, p.Audiences},
		{AttrMessaging, p.Messaging},
	}
}

// Attribute returns the attribute with the given name.
func (p CategoryProfile) Attribute(name AttributeName) (Attribute, bool) {
	for _, a := range p.Attributes() {
		if a.Name == name {
			return a.Value, true
		}
	}
	return Attribute{}, false
}

// Vertical is an industry with its base channel mix.
type Vertical struct {
	Name     string           `json:"name" yaml:"name"`
	Channels allocation.Table `json:"channels" yaml:"channels"`
}

// Priority is a marketing priority and the recommendation it triggers.
type Priority struct {
	Name           string `json:"name" yaml:"name" toml:"name"`
	Recommendation string `json:"recommendation" yaml:"recommendation" toml:"recommendation"`
}

// CaseStudy is benchmark text for an (objective, vertical) pair.
type CaseStudy struct {
	Objective string `json:"objective" yaml:"objective" toml:"objective"`
	Vertical  string `json:"vertical" yaml:"vertical" toml:"vertical"`
	Text      string `json:"text" yaml:"text" toml:"text"`
}

// Catalog is the complete, validated planning configuration.
//
// Fields are exported for read access and serialization; they must not be
// modified after [Load] returns.
type Catalog struct {
	Version           string                           `json:"version"`
	DefaultMultiplier float64                          `json:"default_multiplier"`
	Categories        []CategoryProfile                `json:"categories"`
	Angles            map[string]float64               `json:"angles"`
	Colors            map[string]string                `json:"colors"`
	Verticals         []Vertical                       `json:"verticals"`
	Adjustments       map[string]allocation.Adjustment `json:"adjustments"`
	Stages            []string                         `json:"stages"`
	Investments       []allocation.InvestmentRange     `json:"investments"`
	Priorities        []Priority                       `json:"priorities"`
	CaseStudies       []CaseStudy                      `json:"case_studies"`
	FallbackCaseStudy string                           `json:"fallback_case_study"`
	NoRecommendations string                           `json:"no_recommendations"`
}

// =============================================================================
// Names
// =============================================================================

// CategoryNames returns category names in catalog order.
func (c *Catalog) CategoryNames() []string {
	out := make([]string, len(c.Categories))
	for i, p := range c.Categories {
		out[i] = p.Name
	}
	return out
}

// VerticalNames returns vertical names in catalog order.
func (c *Catalog) VerticalNames() []string {
	out := make([]string, len(c.Verticals))
	for i, v := range c.Verticals {
		out[i] = v.Name
	}
	return out
}

// InvestmentNames returns investment tier names in catalog order.
func (c *Catalog) InvestmentNames() []string {
	out := make([]string, len(c.Investments))
	for i, r := range c.Investments {
		out[i] = r.Name
	}
	return out
}

// PriorityNames returns priority names in catalog order.
func (c *Catalog) PriorityNames() []string {
	out := make([]string, len(c.Priorities))
	for i, p := range c.Priorities {
		out[i] = p.Name
	}
	return out
}

// =============================================================================
// Lookups
// =============================================================================

// Category returns the profile of the named objective.
func (c *Catalog) Category(name string) (CategoryProfile, error) {
	for _, p := range c.Categories {
		if p.Name == name {
			return p, nil
		}
	}
	return CategoryProfile{}, errors.Configuration("unknown objective %q", name)
}

// Vertical returns a copy of the base channel table for the named vertical.
func (c *Catalog) Vertical(name string) (allocation.Table, error) {
	for _, v := range c.Verticals {
		if v.Name == name {
			return v.Channels.Clone(), nil
		}
	}
	return nil, errors.Configuration("unknown vertical %q", name)
}

// Adjustment returns a copy of the multipliers for the named objective.
// An objective without configured adjustments yields an empty table.
func (c *Catalog) Adjustment(objective string) (allocation.Adjustment, error) {
	if _, err := c.Category(objective); err != nil {
		return nil, err
	}
	adj := c.Adjustments[objective]
	if adj == nil {
		return allocation.Adjustment{}, nil
	}
	return maps.Clone(adj), nil
}

// AngleTable returns a copy of the category → degrees table.
func (c *Catalog) AngleTable() map[string]float64 {
	return maps.Clone(c.Angles)
}

// Color returns the display color of a category.
func (c *Catalog) Color(category string) string {
	if col, ok := c.Colors[category]; ok && col != "" {
		return col
	}
	return DefaultColor
}

// Investment returns the named investment tier.
func (c *Catalog) Investment(name string) (allocation.InvestmentRange, error) {
	for _, r := range c.Investments {
		if r.Name == name {
			return r, nil
		}
	}
	return allocation.InvestmentRange{}, errors.New(errors.ErrCodeInvalidInput,
		"unknown investment tier %q", name)
}

// Stage checks that name is a known lifecycle stage.
func (c *Catalog) Stage(name string) error {
	if slices.Contains(c.Stages, name) {
		return nil
	}
	return errors.New(errors.ErrCodeInvalidInput, "unknown lifecycle stage %q", name)
}

// Recommendations returns the recommendation lines triggered by the selected
// priorities, in catalog order regardless of selection order.
func (c *Catalog) Recommendations(selected []string) ([]string, error) {
	for _, name := range selected {
		if !slices.ContainsFunc(c.Priorities, func(p Priority) bool { return p.Name == name }) {
			return nil, errors.New(errors.ErrCodeInvalidInput, "unknown marketing priority %q", name)
		}
	}
	var out []string
	for _, p := range c.Priorities {
		if slices.Contains(selected, p.Name) {
			out = append(out, p.Recommendation)
		}
	}
	return out, nil
}

// CaseStudy returns the case study for an objective and vertical, or the
// fallback text when none is configured.
func (c *Catalog) CaseStudy(objective, vertical string) string {
	for _, cs := range c.CaseStudies {
		if cs.Objective == objective && cs.Vertical == vertical {
			return cs.Text
		}
	}
	return c.FallbackCaseStudy
}
